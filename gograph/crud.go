// Package gograph provides high-level data mapping and CRUD operations.
package gograph

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/CaliLuke/go-kuzu/cypher"
)

// Manager provides high-level, generic CRUD operations for a registered
// model type T.
type Manager[T any] struct {
	db       *Database
	info     *ModelInfo
	strategy ModelStrategy
	tx       Tx // non-nil when bound to a specific transaction
}

// NewManager creates a new Manager for the model type T.
// T must be a struct that has been registered via Register[T]().
func NewManager[T any](db *Database) *Manager[T] {
	var zero T
	t := reflect.TypeOf(zero)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	info, ok := LookupType(t)
	if !ok {
		panic(fmt.Sprintf("gograph: type %s is not registered; call Register[%s]() first", t.Name(), t.Name()))
	}

	return &Manager[T]{
		db:       db,
		info:     info,
		strategy: strategyFor(info.Kind),
	}
}

// NewManagerWithTx creates a Manager bound to an existing transaction
// context. All operations performed by this manager use the provided
// transaction and never auto-commit.
func NewManagerWithTx[T any](tc *TransactionContext) *Manager[T] {
	m := NewManager[T](tc.db)
	m.tx = tc.Tx()
	return m
}

// Insert adds a new instance of T to the database. The instance's internal
// ID is populated on success; SERIAL and uuid primary keys are filled in.
func (m *Manager[T]) Insert(ctx context.Context, instance *T) error {
	if instance == nil {
		return fmt.Errorf("insert %s: instance must not be nil", m.info.TableName)
	}
	if err := checkCtx(ctx, "insert", m.info.TableName); err != nil {
		return err
	}

	m.fillUUIDKey(instance)

	query, err := m.strategy.BuildInsertQuery(m.info, instance, "e")
	if err != nil {
		return fmt.Errorf("insert %s: %w", m.info.TableName, err)
	}

	tx, autoCommit, err := m.writeTx()
	if err != nil {
		return fmt.Errorf("insert %s: %w", m.info.TableName, err)
	}
	if autoCommit {
		defer tx.Close()
	}

	results, err := tx.QueryWithContext(ctx, query)
	if err != nil {
		return fmt.Errorf("insert %s: %w", m.info.TableName, err)
	}
	if len(results) == 1 {
		m.bindNewID(instance, results[0])
	}

	if autoCommit {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("insert %s: commit: %w", m.info.TableName, err)
		}
	}
	return nil
}

// InsertMany inserts multiple instances in a single transaction.
func (m *Manager[T]) InsertMany(ctx context.Context, instances []*T) error {
	if len(instances) == 0 {
		return nil
	}

	tx, autoCommit, err := m.writeTx()
	if err != nil {
		return fmt.Errorf("insert_many %s: %w", m.info.TableName, err)
	}
	if autoCommit {
		defer tx.Close()
	}

	for i, inst := range instances {
		if inst == nil {
			return fmt.Errorf("insert_many %s[%d]: instance must not be nil", m.info.TableName, i)
		}
		m.fillUUIDKey(inst)

		query, err := m.strategy.BuildInsertQuery(m.info, inst, "e")
		if err != nil {
			return fmt.Errorf("insert_many %s[%d]: %w", m.info.TableName, i, err)
		}
		results, err := tx.QueryWithContext(ctx, query)
		if err != nil {
			return fmt.Errorf("insert_many %s[%d]: %w", m.info.TableName, i, err)
		}
		if len(results) == 1 {
			m.bindNewID(inst, results[0])
		}
	}

	if autoCommit {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("insert_many %s: commit: %w", m.info.TableName, err)
		}
	}
	return nil
}

// Put upserts an instance by its primary key (MERGE). The instance's
// internal ID is populated on success. Node models only.
func (m *Manager[T]) Put(ctx context.Context, instance *T) error {
	if instance == nil {
		return fmt.Errorf("put %s: instance must not be nil", m.info.TableName)
	}
	if err := checkCtx(ctx, "put", m.info.TableName); err != nil {
		return err
	}

	m.fillUUIDKey(instance)

	query, err := m.strategy.BuildPutQuery(m.info, instance, "e")
	if err != nil {
		return fmt.Errorf("put %s: %w", m.info.TableName, err)
	}

	tx, autoCommit, err := m.writeTx()
	if err != nil {
		return fmt.Errorf("put %s: %w", m.info.TableName, err)
	}
	if autoCommit {
		defer tx.Close()
	}

	results, err := tx.QueryWithContext(ctx, query)
	if err != nil {
		return fmt.Errorf("put %s: %w", m.info.TableName, err)
	}
	if len(results) == 1 {
		m.bindNewID(instance, results[0])
	}

	if autoCommit {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("put %s: commit: %w", m.info.TableName, err)
		}
	}
	return nil
}

// PutMany upserts multiple instances in a single transaction.
func (m *Manager[T]) PutMany(ctx context.Context, instances []*T) error {
	if len(instances) == 0 {
		return nil
	}

	tx, autoCommit, err := m.writeTx()
	if err != nil {
		return fmt.Errorf("put_many %s: %w", m.info.TableName, err)
	}
	if autoCommit {
		defer tx.Close()
	}

	for i, inst := range instances {
		if inst == nil {
			return fmt.Errorf("put_many %s[%d]: instance must not be nil", m.info.TableName, i)
		}
		m.fillUUIDKey(inst)

		query, err := m.strategy.BuildPutQuery(m.info, inst, "e")
		if err != nil {
			return fmt.Errorf("put_many %s[%d]: %w", m.info.TableName, i, err)
		}
		results, err := tx.QueryWithContext(ctx, query)
		if err != nil {
			return fmt.Errorf("put_many %s[%d]: %w", m.info.TableName, i, err)
		}
		if len(results) == 1 {
			m.bindNewID(inst, results[0])
		}
	}

	if autoCommit {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("put_many %s: commit: %w", m.info.TableName, err)
		}
	}
	return nil
}

// Get retrieves a single instance by its primary key value. It returns
// a NotFoundError if no instance matches. Node models only.
func (m *Manager[T]) Get(ctx context.Context, key any) (*T, error) {
	if m.info.Kind != ModelKindNode {
		return nil, fmt.Errorf("get %s: rel tables have no primary key; use GetByID", m.info.TableName)
	}

	match, err := compiler.Compile(cypher.Match(cypher.NodePattern{
		Variable:   "e",
		Labels:     []string{m.info.TableName},
		Properties: []cypher.Property{cypher.PropLit(m.info.PK.Tag.Name, key)},
	}))
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", m.info.TableName, err)
	}
	query := match + "\n" + m.strategy.BuildReturnAll(m.info, "e")

	results, err := m.readQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", m.info.TableName, err)
	}
	instances, err := m.hydrateResults(results)
	if err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return nil, &NotFoundError{TypeName: m.info.TableName}
	}
	return instances[0], nil
}

// GetByID retrieves a single instance by its internal ID. It returns a
// NotFoundError if no instance matches.
func (m *Manager[T]) GetByID(ctx context.Context, id InternalID) (*T, error) {
	match := m.strategy.BuildMatchByID(m.info, id, "e")
	query := match + "\n" + m.strategy.BuildReturnAll(m.info, "e")

	results, err := m.readQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get_by_id %s: %w", m.info.TableName, err)
	}
	instances, err := m.hydrateResults(results)
	if err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return nil, &NotFoundError{TypeName: m.info.TableName}
	}
	return instances[0], nil
}

// All retrieves all instances of the model type T.
func (m *Manager[T]) All(ctx context.Context) ([]*T, error) {
	query := m.strategy.BuildMatchAll(m.info, "e") + "\n" + m.strategy.BuildReturnAll(m.info, "e")
	results, err := m.readQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("all %s: %w", m.info.TableName, err)
	}
	return m.hydrateResults(results)
}

// Count returns the number of stored instances of the model type T.
func (m *Manager[T]) Count(ctx context.Context) (int64, error) {
	ret, err := compiler.Compile(cypher.Return(cypher.As(cypher.Count(cypher.Var("e")), "cnt")))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", m.info.TableName, err)
	}
	query := m.strategy.BuildMatchAll(m.info, "e") + "\n" + ret

	results, err := m.readQuery(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", m.info.TableName, err)
	}
	if len(results) == 0 {
		return 0, nil
	}
	return extractCount(results[0], "cnt"), nil
}

// Exists reports whether any instance of the model type T is stored.
func (m *Manager[T]) Exists(ctx context.Context) (bool, error) {
	count, err := m.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update modifies an existing instance of T. The instance must be bound
// to an internal ID or carry its primary key. Non-key fields are
// rewritten with SET; nil optional fields are set to NULL.
func (m *Manager[T]) Update(ctx context.Context, instance *T) error {
	if instance == nil {
		return fmt.Errorf("update %s: instance must not be nil", m.info.TableName)
	}
	if err := checkCtx(ctx, "update", m.info.TableName); err != nil {
		return err
	}

	query, err := m.buildUpdateQuery(instance)
	if err != nil {
		return fmt.Errorf("update %s: %w", m.info.TableName, err)
	}
	if query == "" {
		return nil
	}

	tx, autoCommit, err := m.writeTx()
	if err != nil {
		return fmt.Errorf("update %s: %w", m.info.TableName, err)
	}
	if autoCommit {
		defer tx.Close()
	}

	if _, err := tx.QueryWithContext(ctx, query); err != nil {
		return fmt.Errorf("update %s: %w", m.info.TableName, err)
	}

	if autoCommit {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("update %s: commit: %w", m.info.TableName, err)
		}
	}
	return nil
}

// UpdateMany updates multiple instances in a single transaction.
func (m *Manager[T]) UpdateMany(ctx context.Context, instances []*T) error {
	if len(instances) == 0 {
		return nil
	}

	tx, autoCommit, err := m.writeTx()
	if err != nil {
		return fmt.Errorf("update_many %s: %w", m.info.TableName, err)
	}
	if autoCommit {
		defer tx.Close()
	}

	for i, inst := range instances {
		if inst == nil {
			return fmt.Errorf("update_many %s[%d]: instance must not be nil", m.info.TableName, i)
		}
		query, err := m.buildUpdateQuery(inst)
		if err != nil {
			return fmt.Errorf("update_many %s[%d]: %w", m.info.TableName, i, err)
		}
		if query == "" {
			continue
		}
		if _, err := tx.QueryWithContext(ctx, query); err != nil {
			return fmt.Errorf("update_many %s[%d]: %w", m.info.TableName, i, err)
		}
	}

	if autoCommit {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("update_many %s: commit: %w", m.info.TableName, err)
		}
	}
	return nil
}

func (m *Manager[T]) buildUpdateQuery(instance *T) (string, error) {
	match, err := m.strategy.BuildMatchByKey(m.info, instance, "e")
	if err != nil {
		return "", err
	}

	v := reflectValue(instance)
	var items []cypher.SetItem
	for _, fi := range m.info.Fields {
		if fi.Tag.IsKey() {
			continue
		}
		items = append(items, cypher.SetProp("e", fi.Tag.Name, extractSingleFieldValue(v, fi)))
	}
	if len(items) == 0 {
		return "", nil
	}

	set, err := compiler.Compile(cypher.Set(items...))
	if err != nil {
		return "", err
	}
	return match + "\n" + set, nil
}

// Delete removes an instance. The instance must be bound to an internal
// ID or carry its primary key. Nodes are removed with DETACH DELETE so
// attached rels go with them.
func (m *Manager[T]) Delete(ctx context.Context, instance *T) error {
	if instance == nil {
		return fmt.Errorf("delete %s: instance must not be nil", m.info.TableName)
	}
	if err := checkCtx(ctx, "delete", m.info.TableName); err != nil {
		return err
	}

	query, err := m.buildDeleteQuery(instance)
	if err != nil {
		return fmt.Errorf("delete %s: %w", m.info.TableName, err)
	}

	if m.tx != nil {
		if _, err := m.tx.QueryWithContext(ctx, query); err != nil {
			return fmt.Errorf("delete %s: %w", m.info.TableName, err)
		}
		m.clearID(instance)
		return nil
	}
	if _, err := m.db.ExecuteWrite(ctx, query); err != nil {
		return fmt.Errorf("delete %s: %w", m.info.TableName, err)
	}
	m.clearID(instance)
	return nil
}

// DeleteMany removes multiple instances in a single transaction.
func (m *Manager[T]) DeleteMany(ctx context.Context, instances []*T) error {
	if len(instances) == 0 {
		return nil
	}

	for i, inst := range instances {
		if inst == nil {
			return fmt.Errorf("delete_many %s[%d]: instance must not be nil", m.info.TableName, i)
		}
	}

	tx, autoCommit, err := m.writeTx()
	if err != nil {
		return fmt.Errorf("delete_many %s: %w", m.info.TableName, err)
	}
	if autoCommit {
		defer tx.Close()
	}

	for i, inst := range instances {
		query, err := m.buildDeleteQuery(inst)
		if err != nil {
			return fmt.Errorf("delete_many %s[%d]: %w", m.info.TableName, i, err)
		}
		if _, err := tx.QueryWithContext(ctx, query); err != nil {
			return fmt.Errorf("delete_many %s[%d]: %w", m.info.TableName, i, err)
		}
	}

	if autoCommit {
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("delete_many %s: commit: %w", m.info.TableName, err)
		}
	}
	for _, inst := range instances {
		m.clearID(inst)
	}
	return nil
}

func (m *Manager[T]) buildDeleteQuery(instance *T) (string, error) {
	match, err := m.strategy.BuildMatchByKey(m.info, instance, "e")
	if err != nil {
		return "", err
	}
	var del string
	if m.info.Kind == ModelKindNode {
		del, err = compiler.Compile(cypher.DetachDelete("e"))
	} else {
		del, err = compiler.Compile(cypher.Delete("e"))
	}
	if err != nil {
		return "", err
	}
	return match + "\n" + del, nil
}

// Query starts a fluent query over the model type T.
func (m *Manager[T]) Query() *Query[T] {
	return newQuery[T](m)
}

// --- Transaction helpers ---

// checkCtx returns an error if the context is already cancelled.
func checkCtx(ctx context.Context, op, tableName string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s %s: context cancelled: %w", op, tableName, err)
	}
	return nil
}

// writeTx returns the bound transaction or creates a new write
// transaction. If a bound tx is used, autoCommit is false and the caller
// of the Manager manages the lifecycle.
func (m *Manager[T]) writeTx() (tx Tx, autoCommit bool, err error) {
	if m.tx != nil {
		return m.tx, false, nil
	}
	tx, err = m.db.GetConn().Begin(false)
	if err != nil {
		return nil, false, err
	}
	return tx, true, nil
}

// readQuery executes a read query using the bound tx or a read transaction.
func (m *Manager[T]) readQuery(ctx context.Context, query string) ([]map[string]any, error) {
	if m.tx != nil {
		return m.tx.QueryWithContext(ctx, query)
	}
	return m.db.ExecuteRead(ctx, query)
}

// --- Internal helpers ---

func (m *Manager[T]) hydrateResults(results []map[string]any) ([]*T, error) {
	if len(results) == 0 {
		return nil, nil
	}
	instances := make([]*T, 0, len(results))
	for _, row := range results {
		instance, err := hydrateRow[T](m.info, row, "e")
		if err != nil {
			return nil, fmt.Errorf("hydrate %s: %w", m.info.TableName, err)
		}
		instances = append(instances, instance)
	}
	return instances, nil
}

// fillUUIDKey assigns a fresh uuid.UUID to a zero-valued uuid primary key.
func (m *Manager[T]) fillUUIDKey(instance *T) {
	if m.info.PK == nil || !m.info.PK.Tag.UUID {
		return
	}
	v := reflectValue(instance)
	field := v.Field(m.info.PK.FieldIndex)
	if field.Type() != reflect.TypeOf(uuid.UUID{}) || !field.IsZero() {
		return
	}
	field.Set(reflect.ValueOf(uuid.New()))
}

// bindNewID binds the internal ID returned by an insert or put, and
// fills SERIAL primary key fields from the assigned offset.
func (m *Manager[T]) bindNewID(instance *T, row map[string]any) {
	id, ok := parseInternalID(row["_new_id"])
	if !ok {
		return
	}
	v := reflectValue(instance)
	setIDOnValue(v, id)

	// SERIAL values are the row offset.
	if m.info.PK != nil && m.info.PK.Tag.Serial {
		field := v.Field(m.info.PK.FieldIndex)
		if field.CanInt() && field.IsZero() {
			field.SetInt(id.Offset)
		}
	}
}

func (m *Manager[T]) clearID(instance *T) {
	v := reflectValue(instance)
	for i := 0; i < v.NumField(); i++ {
		fv := v.Field(i)
		if !fv.CanAddr() {
			continue
		}
		if n, ok := fv.Addr().Interface().(*BaseNode); ok {
			n.ClearID()
			return
		}
		if r, ok := fv.Addr().Interface().(*BaseRel); ok {
			r.ClearID()
			return
		}
	}
}

// parseInternalID decodes an internal ID value from the row contract
// (map with "table" and "offset" keys).
func parseInternalID(v any) (InternalID, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return InternalID{}, false
	}
	table, ok1 := coerceToInt64(m["table"])
	offset, ok2 := coerceToInt64(m["offset"])
	if !ok1 || !ok2 {
		return InternalID{}, false
	}
	return InternalID{TableID: table, Offset: offset}, true
}

// extractCount pulls an aggregate count from a result row.
func extractCount(row map[string]any, alias string) int64 {
	if n, ok := coerceToInt64(row[alias]); ok {
		return n
	}
	return 0
}
