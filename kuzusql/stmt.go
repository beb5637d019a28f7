//go:build cgo && kuzu

package kuzusql

import (
	"context"
	"database/sql/driver"

	"github.com/CaliLuke/go-kuzu/kuzu"
)

type stmt struct {
	conn  *conn
	ps    *kuzu.PreparedStatement
	query string
}

var (
	_ driver.Stmt             = (*stmt)(nil)
	_ driver.StmtQueryContext = (*stmt)(nil)
	_ driver.StmtExecContext  = (*stmt)(nil)
)

func (s *stmt) Close() error {
	s.ps.Close()
	return nil
}

// NumInput returns -1: parameters are named and the driver cannot count
// placeholders without parsing Cypher.
func (s *stmt) NumInput() int {
	return -1
}

func (s *stmt) Exec(args []driver.Value) (driver.Result, error) {
	if len(args) > 0 {
		return nil, ErrPositionalArgs
	}
	return s.ExecContext(context.Background(), nil)
}

func (s *stmt) Query(args []driver.Value) (driver.Rows, error) {
	if len(args) > 0 {
		return nil, ErrPositionalArgs
	}
	return s.QueryContext(context.Background(), nil)
}

func (s *stmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	res, err := s.execute(ctx, args)
	if err != nil {
		return nil, err
	}
	defer res.Close()
	return execResult{}, nil
}

func (s *stmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	res, err := s.execute(ctx, args)
	if err != nil {
		return nil, err
	}
	return newRows(res)
}

func (s *stmt) execute(ctx context.Context, args []driver.NamedValue) (*kuzu.QueryResult, error) {
	if err := bindArgs(s.ps, args); err != nil {
		return nil, err
	}
	return s.conn.kc.ExecuteWithContext(ctx, s.ps)
}
