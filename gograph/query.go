// Package gograph provides a fluent query builder over registered models.
package gograph

import (
	"context"
	"fmt"

	"github.com/CaliLuke/go-kuzu/cypher"
)

// Query provides a chainable, type-safe API for constructing and
// executing queries for a specific model type T.
type Query[T any] struct {
	mgr     *Manager[T]
	filters []Filter
	orderBy []OrderClause
	limit   int64
	offset  int64
}

// OrderClause specifies a property name and sort direction.
type OrderClause struct {
	Property string
	Desc     bool
}

func newQuery[T any](m *Manager[T]) *Query[T] {
	return &Query[T]{mgr: m}
}

// Filter adds one or more predicates to the query. Multiple calls to
// Filter are combined with logical AND.
func (q *Query[T]) Filter(filters ...Filter) *Query[T] {
	q.filters = append(q.filters, filters...)
	return q
}

// OrderAsc adds an ascending sort on the specified property.
func (q *Query[T]) OrderAsc(property string) *Query[T] {
	q.orderBy = append(q.orderBy, OrderClause{Property: property})
	return q
}

// OrderDesc adds a descending sort on the specified property.
func (q *Query[T]) OrderDesc(property string) *Query[T] {
	q.orderBy = append(q.orderBy, OrderClause{Property: property, Desc: true})
	return q
}

// Limit restricts the number of results returned by the query.
func (q *Query[T]) Limit(n int64) *Query[T] {
	q.limit = n
	return q
}

// Offset skips the first n results returned by the query.
func (q *Query[T]) Offset(n int64) *Query[T] {
	q.offset = n
	return q
}

// All executes the query and returns all matching instances.
func (q *Query[T]) All(ctx context.Context) ([]*T, error) {
	return q.Execute(ctx)
}

// Execute performs the query and hydrates the results into Go structs.
func (q *Query[T]) Execute(ctx context.Context) ([]*T, error) {
	query, err := q.buildQuery()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.mgr.info.TableName, err)
	}
	results, err := q.mgr.readQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", q.mgr.info.TableName, err)
	}
	return q.mgr.hydrateResults(results)
}

// First executes the query with a limit of 1 and returns the first
// result, or nil if none match.
func (q *Query[T]) First(ctx context.Context) (*T, error) {
	q.limit = 1
	results, err := q.Execute(ctx)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// Count returns the number of instances matching the query filters.
func (q *Query[T]) Count(ctx context.Context) (int64, error) {
	query, err := q.buildCountQuery()
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", q.mgr.info.TableName, err)
	}
	results, err := q.mgr.readQuery(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", q.mgr.info.TableName, err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return extractCount(results[0], "cnt"), nil
}

// Exists reports whether the query matches at least one instance.
func (q *Query[T]) Exists(ctx context.Context) (bool, error) {
	count, err := q.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes all instances matching the query filters and returns
// the number of instances removed.
func (q *Query[T]) Delete(ctx context.Context) (int64, error) {
	countQuery, err := q.buildCountQuery()
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", q.mgr.info.TableName, err)
	}
	deleteQuery, err := q.buildDeleteQuery()
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", q.mgr.info.TableName, err)
	}

	tx, autoCommit, err := q.mgr.writeTx()
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", q.mgr.info.TableName, err)
	}
	if autoCommit {
		defer tx.Close()
	}

	var count int64
	if results, err := tx.QueryWithContext(ctx, countQuery); err == nil && len(results) > 0 {
		count = extractCount(results[0], "cnt")
	}
	if _, err := tx.QueryWithContext(ctx, deleteQuery); err != nil {
		return 0, fmt.Errorf("delete %s: %w", q.mgr.info.TableName, err)
	}

	if autoCommit {
		if err := tx.Commit(); err != nil {
			return 0, fmt.Errorf("delete %s: commit: %w", q.mgr.info.TableName, err)
		}
	}
	return count, nil
}

// --- Query building ---

func (q *Query[T]) buildMatchClause() (string, error) {
	var pattern cypher.Pattern
	if q.mgr.info.Kind == ModelKindRel {
		pattern = relPath(q.mgr.info, "e")
	} else {
		pattern = cypher.Node("e", q.mgr.info.TableName)
	}

	match := cypher.Match(pattern)
	if cond := cypher.And(filterExprs(q.filters, "e")...); cond != nil {
		match = match.WithWhere(cond)
	}
	return compiler.Compile(match)
}

func (q *Query[T]) buildQuery() (string, error) {
	match, err := q.buildMatchClause()
	if err != nil {
		return "", err
	}

	parts := []string{match, q.mgr.strategy.BuildReturnAll(q.mgr.info, "e")}

	if len(q.orderBy) > 0 {
		items := make([]cypher.OrderItem, 0, len(q.orderBy))
		for _, o := range q.orderBy {
			item := cypher.Asc(cypher.Prop("e", o.Property))
			if o.Desc {
				item = cypher.Desc(cypher.Prop("e", o.Property))
			}
			items = append(items, item)
		}
		order, err := compiler.Compile(cypher.OrderBy(items...))
		if err != nil {
			return "", err
		}
		parts = append(parts, order)
	}
	if q.offset > 0 {
		skip, err := compiler.Compile(cypher.Skip(q.offset))
		if err != nil {
			return "", err
		}
		parts = append(parts, skip)
	}
	if q.limit > 0 {
		limit, err := compiler.Compile(cypher.Limit(q.limit))
		if err != nil {
			return "", err
		}
		parts = append(parts, limit)
	}

	return joinLines(parts), nil
}

func (q *Query[T]) buildCountQuery() (string, error) {
	match, err := q.buildMatchClause()
	if err != nil {
		return "", err
	}
	ret, err := compiler.Compile(cypher.Return(cypher.As(cypher.Count(cypher.Var("e")), "cnt")))
	if err != nil {
		return "", err
	}
	return match + "\n" + ret, nil
}

func (q *Query[T]) buildDeleteQuery() (string, error) {
	match, err := q.buildMatchClause()
	if err != nil {
		return "", err
	}
	var del string
	if q.mgr.info.Kind == ModelKindNode {
		del, err = compiler.Compile(cypher.DetachDelete("e"))
	} else {
		del, err = compiler.Compile(cypher.Delete("e"))
	}
	if err != nil {
		return "", err
	}
	return match + "\n" + del, nil
}

func joinLines(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += "\n" + p
	}
	return out
}

// --- Aggregates ---

// AggregateQuery computes a single numeric aggregate over a property.
type AggregateQuery[T any] struct {
	q    *Query[T]
	prop string
	fn   string
}

// Sum creates an aggregate query for the sum of a property.
func (q *Query[T]) Sum(property string) *AggregateQuery[T] {
	return &AggregateQuery[T]{q: q, prop: property, fn: "sum"}
}

// Avg creates an aggregate query for the mean of a property.
func (q *Query[T]) Avg(property string) *AggregateQuery[T] {
	return &AggregateQuery[T]{q: q, prop: property, fn: "avg"}
}

// Min creates an aggregate query for the minimum of a property.
func (q *Query[T]) Min(property string) *AggregateQuery[T] {
	return &AggregateQuery[T]{q: q, prop: property, fn: "min"}
}

// Max creates an aggregate query for the maximum of a property.
func (q *Query[T]) Max(property string) *AggregateQuery[T] {
	return &AggregateQuery[T]{q: q, prop: property, fn: "max"}
}

// Execute runs the aggregate query and returns the result as float64.
func (aq *AggregateQuery[T]) Execute(ctx context.Context) (float64, error) {
	match, err := aq.q.buildMatchClause()
	if err != nil {
		return 0, fmt.Errorf("%s %s.%s: %w", aq.fn, aq.q.mgr.info.TableName, aq.prop, err)
	}
	ret, err := compiler.Compile(cypher.Return(
		cypher.As(cypher.Func(aq.fn, cypher.Prop("e", aq.prop)), "result"),
	))
	if err != nil {
		return 0, fmt.Errorf("%s %s.%s: %w", aq.fn, aq.q.mgr.info.TableName, aq.prop, err)
	}

	results, err := aq.q.mgr.readQuery(ctx, match+"\n"+ret)
	if err != nil {
		return 0, fmt.Errorf("%s %s.%s: %w", aq.fn, aq.q.mgr.info.TableName, aq.prop, err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	f, _ := coerceToFloat64(results[0]["result"])
	return f, nil
}

// AggregateSpec describes a single aggregation to compute.
type AggregateSpec struct {
	Property string
	Fn       string // sum, avg, min, max, count
}

// Aggregate computes multiple aggregations in one query. Each spec
// produces a result keyed by "fn_property" (e.g. "sum_age").
func (q *Query[T]) Aggregate(ctx context.Context, specs ...AggregateSpec) (map[string]float64, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	match, err := q.buildMatchClause()
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", q.mgr.info.TableName, err)
	}

	items := make([]cypher.ReturnItem, 0, len(specs))
	keys := make([]string, len(specs))
	for i, spec := range specs {
		keys[i] = spec.Fn + "_" + spec.Property
		items = append(items, cypher.As(
			cypher.Func(spec.Fn, cypher.Prop("e", spec.Property)),
			fmt.Sprintf("result%d", i),
		))
	}
	ret, err := compiler.Compile(cypher.Return(items...))
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", q.mgr.info.TableName, err)
	}

	rawResults, err := q.mgr.readQuery(ctx, match+"\n"+ret)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", q.mgr.info.TableName, err)
	}
	if len(rawResults) == 0 {
		return nil, nil
	}

	results := make(map[string]float64, len(specs))
	for i, key := range keys {
		if f, ok := coerceToFloat64(rawResults[0][fmt.Sprintf("result%d", i)]); ok {
			results[key] = f
		}
	}
	return results, nil
}

// --- GroupBy ---

// GroupByQuery groups results by a property and computes per-group
// aggregates. Grouping is implicit in Cypher: non-aggregate RETURN items
// become the grouping keys.
type GroupByQuery[T any] struct {
	q       *Query[T]
	groupBy string
}

// GroupBy creates a grouped query for computing per-group aggregates.
func (q *Query[T]) GroupBy(property string) *GroupByQuery[T] {
	return &GroupByQuery[T]{q: q, groupBy: property}
}

// Aggregate runs aggregations per group and returns results keyed by the
// group value's string form, then by "fn_property".
func (gq *GroupByQuery[T]) Aggregate(ctx context.Context, specs ...AggregateSpec) (map[string]map[string]float64, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	match, err := gq.q.buildMatchClause()
	if err != nil {
		return nil, fmt.Errorf("groupby %s: %w", gq.q.mgr.info.TableName, err)
	}

	items := []cypher.ReturnItem{
		cypher.As(cypher.Prop("e", gq.groupBy), "group_key"),
	}
	keys := make([]string, len(specs))
	for i, spec := range specs {
		keys[i] = spec.Fn + "_" + spec.Property
		items = append(items, cypher.As(
			cypher.Func(spec.Fn, cypher.Prop("e", spec.Property)),
			fmt.Sprintf("result%d", i),
		))
	}
	ret, err := compiler.Compile(cypher.Return(items...))
	if err != nil {
		return nil, fmt.Errorf("groupby %s: %w", gq.q.mgr.info.TableName, err)
	}

	rawResults, err := gq.q.mgr.readQuery(ctx, match+"\n"+ret)
	if err != nil {
		return nil, fmt.Errorf("groupby %s: %w", gq.q.mgr.info.TableName, err)
	}

	results := make(map[string]map[string]float64, len(rawResults))
	for _, row := range rawResults {
		groupVal := fmt.Sprintf("%v", row["group_key"])
		aggs := make(map[string]float64, len(specs))
		for i, key := range keys {
			if f, ok := coerceToFloat64(row[fmt.Sprintf("result%d", i)]); ok {
				aggs[key] = f
			}
		}
		results[groupVal] = aggs
	}
	return results, nil
}
