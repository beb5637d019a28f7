//go:build cgo && kuzu

package kuzusql

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/CaliLuke/go-kuzu/kuzu"
)

// ErrPositionalArgs is returned when a statement is executed with
// positional parameters. Kuzu parameters are named; use sql.Named.
var ErrPositionalArgs = errors.New("kuzusql: positional parameters are not supported, use sql.Named")

type conn struct {
	kc   *kuzu.Connection
	inTx bool
}

var (
	_ driver.Conn               = (*conn)(nil)
	_ driver.ConnPrepareContext = (*conn)(nil)
	_ driver.ConnBeginTx        = (*conn)(nil)
	_ driver.QueryerContext     = (*conn)(nil)
	_ driver.ExecerContext      = (*conn)(nil)
	_ driver.Pinger             = (*conn)(nil)
	_ driver.NamedValueChecker  = (*conn)(nil)
)

func (c *conn) Prepare(query string) (driver.Stmt, error) {
	return c.PrepareContext(context.Background(), query)
}

func (c *conn) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ps, err := c.kc.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &stmt{conn: c, ps: ps, query: query}, nil
}

func (c *conn) Close() error {
	c.kc.Close()
	return nil
}

func (c *conn) Begin() (driver.Tx, error) {
	return c.BeginTx(context.Background(), driver.TxOptions{})
}

func (c *conn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if opts.Isolation != driver.IsolationLevel(0) {
		return nil, errors.New("kuzusql: custom isolation levels are not supported")
	}
	begin := "BEGIN TRANSACTION"
	if opts.ReadOnly {
		begin = "BEGIN TRANSACTION READ ONLY"
	}
	res, err := c.kc.QueryWithContext(ctx, begin)
	if err != nil {
		return nil, err
	}
	res.Close()
	c.inTx = true
	return &tx{conn: c}, nil
}

func (c *conn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	res, err := c.run(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return newRows(res)
}

func (c *conn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	res, err := c.run(ctx, query, args)
	if err != nil {
		return nil, err
	}
	defer res.Close()
	return execResult{}, nil
}

func (c *conn) Ping(ctx context.Context) error {
	res, err := c.kc.QueryWithContext(ctx, "RETURN 1")
	if err != nil {
		return driver.ErrBadConn
	}
	res.Close()
	return nil
}

// CheckNamedValue admits every type the engine can bind, plus the
// conversions the default converter would refuse.
func (c *conn) CheckNamedValue(nv *driver.NamedValue) error {
	if nv.Name == "" {
		return ErrPositionalArgs
	}
	switch nv.Value.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		time.Time, time.Duration,
		uuid.UUID:
		return nil
	default:
		return fmt.Errorf("kuzusql: cannot bind parameter %q of type %T", nv.Name, nv.Value)
	}
}

// run executes a statement, going through the prepared path when
// parameters are present.
func (c *conn) run(ctx context.Context, query string, args []driver.NamedValue) (*kuzu.QueryResult, error) {
	if len(args) == 0 {
		return c.kc.QueryWithContext(ctx, query)
	}

	ps, err := c.kc.Prepare(query)
	if err != nil {
		return nil, err
	}
	defer ps.Close()

	if err := bindArgs(ps, args); err != nil {
		return nil, err
	}
	return c.kc.ExecuteWithContext(ctx, ps)
}

func bindArgs(ps *kuzu.PreparedStatement, args []driver.NamedValue) error {
	for _, arg := range args {
		if arg.Name == "" {
			return ErrPositionalArgs
		}
		if err := ps.BindValue(arg.Name, arg.Value); err != nil {
			return err
		}
	}
	return nil
}

// execResult is the driver.Result for statements. The engine does not
// report affected-row counts through this interface.
type execResult struct{}

func (execResult) LastInsertId() (int64, error) {
	return 0, errors.New("kuzusql: LastInsertId is not supported")
}

func (execResult) RowsAffected() (int64, error) {
	return 0, errors.New("kuzusql: RowsAffected is not supported")
}

type tx struct {
	conn *conn
}

func (t *tx) Commit() error {
	return t.end("COMMIT")
}

func (t *tx) Rollback() error {
	return t.end("ROLLBACK")
}

func (t *tx) end(q string) error {
	res, err := t.conn.kc.Query(q)
	if err != nil {
		return err
	}
	res.Close()
	t.conn.inTx = false
	return nil
}
