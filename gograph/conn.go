// Package gograph provides a high-level, struct-tag based object-graph
// mapping layer for the Kuzu graph database. It maps Go structs to node
// and rel tables, providing generic CRUD operations and automatic Cypher
// generation.
package gograph

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

// Tx is the interface for a database transaction, allowing for query
// execution and lifecycle management. Transactions are statement-level:
// adapters issue BEGIN TRANSACTION / COMMIT / ROLLBACK on a dedicated
// connection.
type Tx interface {
	// Query executes a Cypher query inside the transaction.
	Query(query string) ([]map[string]any, error)
	// QueryWithContext executes a Cypher query with context cancellation support.
	QueryWithContext(ctx context.Context, query string) ([]map[string]any, error)
	// Commit persists changes made in the transaction.
	Commit() error
	// Rollback discards changes made in the transaction.
	Rollback() error
	// Close releases the transaction, rolling back if still open.
	Close()
	// IsOpen returns true if the transaction is active.
	IsOpen() bool
}

// Conn is the interface for a database connection. Implementations
// include the embedded-engine adapter, the replay player, and pooled
// connections.
type Conn interface {
	// Query executes a Cypher query in auto-commit mode.
	Query(query string) ([]map[string]any, error)
	// QueryWithContext executes a Cypher query with context cancellation support.
	QueryWithContext(ctx context.Context, query string) ([]map[string]any, error)
	// Begin opens a new transaction. Read-only transactions may run
	// concurrently; write transactions are exclusive.
	Begin(readOnly bool) (Tx, error)
	// Close terminates the connection.
	Close()
	// IsOpen returns true if the connection is active.
	IsOpen() bool
}

// Database is a high-level handle over a Conn, providing convenient
// methods for transaction management and query execution.
type Database struct {
	conn    Conn
	ownConn bool
}

// NewDatabase creates a Database handle over an existing connection.
// The caller retains ownership of the connection.
func NewDatabase(conn Conn) *Database {
	return &Database{conn: conn}
}

// Close closes the underlying connection if it is owned by this handle.
func (db *Database) Close() {
	if db.ownConn && db.conn != nil {
		db.conn.Close()
	}
}

// GetConn returns the underlying Conn implementation.
func (db *Database) GetConn() Conn {
	return db.conn
}

// ExecuteRead executes a query in a read-only transaction.
func (db *Database) ExecuteRead(ctx context.Context, query string) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read: context cancelled: %w", err)
	}
	log().Debug("execute read", zap.String("query", query))
	tx, err := db.conn.Begin(true)
	if err != nil {
		return nil, fmt.Errorf("open read transaction: %w", err)
	}
	defer tx.Close()
	return tx.QueryWithContext(ctx, query)
}

// ExecuteWrite executes a query in a new write transaction and commits it.
func (db *Database) ExecuteWrite(ctx context.Context, query string) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("write: context cancelled: %w", err)
	}
	log().Debug("execute write", zap.String("query", query))
	tx, err := db.conn.Begin(false)
	if err != nil {
		return nil, fmt.Errorf("open write transaction: %w", err)
	}
	defer tx.Close()

	results, err := tx.QueryWithContext(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return results, nil
}

// ExecuteDDL executes a schema statement. DDL is auto-committed by the
// engine and cannot run inside an explicit transaction.
func (db *Database) ExecuteDDL(ctx context.Context, statement string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("ddl: context cancelled: %w", err)
	}
	log().Debug("execute ddl", zap.String("statement", statement))
	_, err := db.conn.QueryWithContext(ctx, statement)
	return err
}

// EnsureSchema applies the DDL for all registered models. The generated
// statements use IF NOT EXISTS, so the call is idempotent.
func (db *Database) EnsureSchema(ctx context.Context) error {
	statements, err := GenerateSchema()
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	for _, stmt := range statements {
		if err := db.ExecuteDDL(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	log().Info("schema ensured", zap.Int("statements", len(statements)))
	return nil
}

// TransactionContext provides a scoped transaction that can be explicitly
// managed and shared across multiple Manager operations.
type TransactionContext struct {
	db     *Database
	tx     Tx
	closed bool
}

// Begin starts a new TransactionContext. The caller must call Close when
// done. A finalizer logs a warning if the transaction is garbage-collected
// without being closed.
func (db *Database) Begin(readOnly bool) (*TransactionContext, error) {
	tx, err := db.conn.Begin(readOnly)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	tc := &TransactionContext{db: db, tx: tx}
	runtime.SetFinalizer(tc, func(tc *TransactionContext) {
		if !tc.closed {
			log().Warn("transaction garbage-collected without being closed (possible transaction leak)")
		}
	})
	return tc, nil
}

// Commit persists changes in the scoped transaction.
func (tc *TransactionContext) Commit() error {
	tc.closed = true
	return tc.tx.Commit()
}

// Rollback discards changes in the scoped transaction.
func (tc *TransactionContext) Rollback() error {
	tc.closed = true
	return tc.tx.Rollback()
}

// Close releases the scoped transaction, rolling back if still open.
func (tc *TransactionContext) Close() {
	tc.closed = true
	tc.tx.Close()
}

// Tx returns the underlying Tx for direct query execution.
func (tc *TransactionContext) Tx() Tx {
	return tc.tx
}
