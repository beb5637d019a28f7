package gograph

import (
	"github.com/CaliLuke/go-kuzu/cypher"
)

// Filter represents a query predicate on a model's properties. Filters
// compose via And, Or, and Not, and compile to WHERE expressions.
type Filter interface {
	// ToExpr builds the Cypher expression for this filter. varName is
	// the bound model variable (e.g. "e").
	ToExpr(varName string) cypher.Expr
}

// --- Comparison filters ---

// ComparisonFilter compares a property to a value using a binary operator.
type ComparisonFilter struct {
	Property string
	Op       string
	Value    any
}

// ToExpr builds the comparison expression.
func (f *ComparisonFilter) ToExpr(varName string) cypher.Expr {
	return cypher.BinaryExpr{
		Left:     cypher.Prop(varName, f.Property),
		Operator: f.Op,
		Right:    cypher.Lit(f.Value),
	}
}

// Eq creates an equality filter: property = value.
func Eq(property string, value any) Filter {
	return &ComparisonFilter{Property: property, Op: "=", Value: value}
}

// Neq creates a not-equal filter: property <> value.
func Neq(property string, value any) Filter {
	return &ComparisonFilter{Property: property, Op: "<>", Value: value}
}

// Gt creates a greater-than filter.
func Gt(property string, value any) Filter {
	return &ComparisonFilter{Property: property, Op: ">", Value: value}
}

// Gte creates a greater-or-equal filter.
func Gte(property string, value any) Filter {
	return &ComparisonFilter{Property: property, Op: ">=", Value: value}
}

// Lt creates a less-than filter.
func Lt(property string, value any) Filter {
	return &ComparisonFilter{Property: property, Op: "<", Value: value}
}

// Lte creates a less-or-equal filter.
func Lte(property string, value any) Filter {
	return &ComparisonFilter{Property: property, Op: "<=", Value: value}
}

// Contains creates a substring containment filter.
func Contains(property string, substring string) Filter {
	return &ComparisonFilter{Property: property, Op: "CONTAINS", Value: substring}
}

// StartsWith creates a string prefix filter.
func StartsWith(property string, prefix string) Filter {
	return &ComparisonFilter{Property: property, Op: "STARTS WITH", Value: prefix}
}

// EndsWith creates a string suffix filter.
func EndsWith(property string, suffix string) Filter {
	return &ComparisonFilter{Property: property, Op: "ENDS WITH", Value: suffix}
}

// --- Set membership ---

// InFilter checks whether a property value is in a set of values.
type InFilter struct {
	Property string
	Values   []any
	Negated  bool
}

// ToExpr builds the list membership expression.
func (f *InFilter) ToExpr(varName string) cypher.Expr {
	in := cypher.In(cypher.Prop(varName, f.Property), cypher.List(f.Values...))
	if f.Negated {
		return cypher.Not(in)
	}
	return in
}

// In creates a filter that checks if a property value is in a set.
func In(property string, values ...any) Filter {
	return &InFilter{Property: property, Values: values}
}

// NotIn creates a filter that checks if a property value is NOT in a set.
func NotIn(property string, values ...any) Filter {
	return &InFilter{Property: property, Values: values, Negated: true}
}

// --- Range ---

// RangeFilter checks whether a property value falls between min and max
// (inclusive).
type RangeFilter struct {
	Property string
	Min      any
	Max      any
}

// ToExpr builds the conjunction of the two bound comparisons.
func (f *RangeFilter) ToExpr(varName string) cypher.Expr {
	p := cypher.Prop(varName, f.Property)
	return cypher.And(cypher.Gte(p, f.Min), cypher.Lte(p, f.Max))
}

// Range creates a filter that checks if a property value is between min
// and max (inclusive).
func Range(property string, min, max any) Filter {
	return &RangeFilter{Property: property, Min: min, Max: max}
}

// --- Null checks ---

// NullFilter tests whether an optional property is set.
type NullFilter struct {
	Property string
	Negated  bool
}

// ToExpr builds the IS NULL / IS NOT NULL expression.
func (f *NullFilter) ToExpr(varName string) cypher.Expr {
	if f.Negated {
		return cypher.IsNotNull(cypher.Prop(varName, f.Property))
	}
	return cypher.IsNull(cypher.Prop(varName, f.Property))
}

// IsNull creates a filter matching rows where the property is unset.
func IsNull(property string) Filter {
	return &NullFilter{Property: property}
}

// NotNull creates a filter matching rows where the property is set.
func NotNull(property string) Filter {
	return &NullFilter{Property: property, Negated: true}
}

// --- ID filter ---

// IDFilter matches by internal ID.
type IDFilter struct {
	ID InternalID
}

// ToExpr builds the offset comparison. The pattern label pins the table.
func (f *IDFilter) ToExpr(varName string) cypher.Expr {
	return cypher.Eq(offsetOf(varName), f.ID.Offset)
}

// ByID creates a filter matching a specific internal ID.
func ByID(id InternalID) Filter {
	return &IDFilter{ID: id}
}

// --- Boolean combinators ---

// AndFilter combines multiple filters with AND.
type AndFilter struct {
	Filters []Filter
}

// ToExpr folds the child expressions into a conjunction.
func (f *AndFilter) ToExpr(varName string) cypher.Expr {
	return cypher.And(filterExprs(f.Filters, varName)...)
}

// And combines filters with logical AND. Nested ANDs are flattened.
func And(filters ...Filter) Filter {
	var flat []Filter
	for _, f := range filters {
		if a, ok := f.(*AndFilter); ok {
			flat = append(flat, a.Filters...)
		} else {
			flat = append(flat, f)
		}
	}
	return &AndFilter{Filters: flat}
}

// OrFilter combines alternatives with OR.
type OrFilter struct {
	Filters []Filter
}

// ToExpr folds the child expressions into a disjunction.
func (f *OrFilter) ToExpr(varName string) cypher.Expr {
	return cypher.Or(filterExprs(f.Filters, varName)...)
}

// Or combines filters with logical OR.
func Or(filters ...Filter) Filter {
	return &OrFilter{Filters: filters}
}

// NotFilter negates a filter expression.
type NotFilter struct {
	Inner Filter
}

// ToExpr wraps the inner expression in NOT.
func (f *NotFilter) ToExpr(varName string) cypher.Expr {
	inner := f.Inner.ToExpr(varName)
	if inner == nil {
		return nil
	}
	return cypher.Not(inner)
}

// Not negates a filter.
func Not(filter Filter) Filter {
	return &NotFilter{Inner: filter}
}

func filterExprs(filters []Filter, varName string) []cypher.Expr {
	exprs := make([]cypher.Expr, 0, len(filters))
	for _, f := range filters {
		if e := f.ToExpr(varName); e != nil {
			exprs = append(exprs, e)
		}
	}
	return exprs
}
