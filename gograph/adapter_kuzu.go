//go:build cgo && kuzu

package gograph

import (
	"context"
	"fmt"
	"time"

	"github.com/CaliLuke/go-kuzu/kuzu"
	"go.uber.org/zap"
)

// InMemoryPath opens an in-memory database when passed to OpenDatabase.
const InMemoryPath = kuzu.InMemoryPath

// OpenDatabase opens the embedded database at path and returns a Database
// handle that owns the underlying engine. Pass InMemoryPath for an
// in-memory database.
func OpenDatabase(path string, opts ...OpenOption) (*Database, error) {
	cfg := newOpenConfig(opts)

	sys := kuzu.DefaultSystemConfig()
	if cfg.bufferPoolSize > 0 {
		sys.BufferPoolSize = cfg.bufferPoolSize
	}
	if cfg.maxThreads > 0 {
		sys.MaxNumThreads = cfg.maxThreads
	}
	if cfg.noCompression {
		sys.EnableCompression = false
	}
	sys.ReadOnly = cfg.readOnly

	db, err := kuzu.OpenDatabase(path, sys)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", path, err)
	}
	log().Info("database opened", zap.String("path", path), zap.Bool("read_only", cfg.readOnly))

	if cfg.pool != nil {
		pooled, err := NewDatabaseWithPool(*cfg.pool, func() (Conn, error) {
			return newEngineConn(db, cfg, false)
		})
		if err != nil {
			db.Close()
			return nil, err
		}
		// Close the engine after the pool has closed its connections.
		pooled.conn = &engineOwnerConn{Conn: pooled.conn, db: db}
		return pooled, nil
	}

	conn, err := newEngineConn(db, cfg, true)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Database{conn: conn, ownConn: true}, nil
}

// engineConn adapts a kuzu.Connection to the Conn interface, flattening
// query results into the row contract used by the mapping layer.
type engineConn struct {
	db    *kuzu.Database
	conn  *kuzu.Connection
	ownDB bool
}

func newEngineConn(db *kuzu.Database, cfg openConfig, ownDB bool) (*engineConn, error) {
	conn, err := db.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if cfg.queryTimeout > 0 {
		if err := conn.SetQueryTimeout(cfg.queryTimeout); err != nil {
			conn.Close()
			return nil, err
		}
	}
	return &engineConn{db: db, conn: conn, ownDB: ownDB}, nil
}

func (c *engineConn) Query(query string) ([]map[string]any, error) {
	return c.QueryWithContext(context.Background(), query)
}

func (c *engineConn) QueryWithContext(ctx context.Context, query string) ([]map[string]any, error) {
	result, err := c.conn.QueryWithContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer result.Close()
	return flattenResult(result)
}

func (c *engineConn) Begin(readOnly bool) (Tx, error) {
	stmt := "BEGIN TRANSACTION"
	if readOnly {
		stmt = "BEGIN TRANSACTION READ ONLY"
	}
	if _, err := c.Query(stmt); err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &engineTx{conn: c, open: true}, nil
}

func (c *engineConn) Close() {
	c.conn.Close()
	if c.ownDB {
		c.db.Close()
	}
}

func (c *engineConn) IsOpen() bool {
	return c.conn.IsOpen()
}

// engineTx is a statement-level transaction on a dedicated connection.
type engineTx struct {
	conn *engineConn
	open bool
}

func (t *engineTx) Query(query string) ([]map[string]any, error) {
	return t.QueryWithContext(context.Background(), query)
}

func (t *engineTx) QueryWithContext(ctx context.Context, query string) ([]map[string]any, error) {
	if !t.open {
		return nil, ErrTxDone
	}
	return t.conn.QueryWithContext(ctx, query)
}

func (t *engineTx) Commit() error {
	if !t.open {
		return ErrTxDone
	}
	t.open = false
	_, err := t.conn.Query("COMMIT")
	return err
}

func (t *engineTx) Rollback() error {
	if !t.open {
		return ErrTxDone
	}
	t.open = false
	_, err := t.conn.Query("ROLLBACK")
	return err
}

func (t *engineTx) Close() {
	if t.open {
		if err := t.Rollback(); err != nil {
			log().Warn("rollback on close failed", zap.Error(err))
		}
	}
}

func (t *engineTx) IsOpen() bool {
	return t.open && t.conn.IsOpen()
}

// engineOwnerConn closes the shared engine handle after its inner Conn
// (the pool adapter) has closed.
type engineOwnerConn struct {
	Conn
	db *kuzu.Database
}

func (c *engineOwnerConn) Close() {
	c.Conn.Close()
	c.db.Close()
}

// flattenResult drains a QueryResult into the row contract: one map per
// tuple keyed by RETURN alias, with engine values normalized to plain Go
// values.
func flattenResult(result *kuzu.QueryResult) ([]map[string]any, error) {
	columns, err := result.Columns()
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, result.NumTuples())
	for result.HasNext() {
		tuple, err := result.Next()
		if err != nil {
			return nil, err
		}
		values, err := tuple.Values()
		tuple.Close()
		if err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if i >= len(values) {
				break
			}
			row[col] = normalizeValue(values[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// normalizeValue converts engine value types into the plain Go values of
// the row contract. Nodes and relationships become maps with _id, _label
// and (for rels) _src/_dst keys plus their properties inline; intervals
// travel as microseconds.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case kuzu.Node:
		m := make(map[string]any, len(val.Properties)+2)
		for k, p := range val.Properties {
			m[k] = normalizeValue(p)
		}
		m["_id"] = idToMap(val.ID)
		m["_label"] = val.Label
		return m

	case kuzu.Relationship:
		m := make(map[string]any, len(val.Properties)+4)
		for k, p := range val.Properties {
			m[k] = normalizeValue(p)
		}
		m["_id"] = idToMap(val.ID)
		m["_label"] = val.Label
		m["_src"] = idToMap(val.SrcID)
		m["_dst"] = idToMap(val.DstID)
		return m

	case kuzu.RecursiveRel:
		nodes := make([]any, len(val.Nodes))
		for i, n := range val.Nodes {
			nodes[i] = normalizeValue(n)
		}
		rels := make([]any, len(val.Rels))
		for i, r := range val.Rels {
			rels[i] = normalizeValue(r)
		}
		return map[string]any{"_nodes": nodes, "_rels": rels}

	case kuzu.InternalID:
		return idToMap(val)

	case time.Duration:
		return val.Microseconds()

	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out

	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out

	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalizeValue(item)
		}
		return out

	default:
		return v
	}
}

func idToMap(id kuzu.InternalID) map[string]any {
	return map[string]any{
		"table":  int64(id.TableID),
		"offset": int64(id.Offset),
	}
}
