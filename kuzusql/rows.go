//go:build cgo && kuzu

package kuzusql

import (
	"database/sql/driver"
	"io"

	"github.com/CaliLuke/go-kuzu/kuzu"
)

type rows struct {
	res   *kuzu.QueryResult
	cols  []string
	types []kuzu.DataTypeID
}

var (
	_ driver.Rows                           = (*rows)(nil)
	_ driver.RowsColumnTypeDatabaseTypeName = (*rows)(nil)
)

func newRows(res *kuzu.QueryResult) (*rows, error) {
	cols, err := res.Columns()
	if err != nil {
		res.Close()
		return nil, err
	}
	types, err := res.ColumnTypes()
	if err != nil {
		res.Close()
		return nil, err
	}
	return &rows{res: res, cols: cols, types: types}, nil
}

func (r *rows) Columns() []string {
	return r.cols
}

func (r *rows) ColumnTypeDatabaseTypeName(index int) string {
	if index < 0 || index >= len(r.types) {
		return ""
	}
	return r.types[index].String()
}

func (r *rows) Close() error {
	r.res.Close()
	return nil
}

func (r *rows) Next(dest []driver.Value) error {
	if !r.res.HasNext() {
		return io.EOF
	}
	tuple, err := r.res.Next()
	if err != nil {
		return err
	}
	defer tuple.Close()

	values, err := tuple.Values()
	if err != nil {
		return err
	}
	for i, v := range values {
		if i >= len(dest) {
			break
		}
		dv, err := toDriverValue(v)
		if err != nil {
			return err
		}
		dest[i] = dv
	}
	return nil
}
