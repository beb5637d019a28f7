package replay

import (
	"context"
	"fmt"

	"github.com/CaliLuke/go-kuzu/gograph"
)

// Recorder wraps a live connection and appends every query it carries,
// together with the returned rows, to a cassette. It implements
// gograph.Conn, so it can stand in for the live connection anywhere.
type Recorder struct {
	conn     gograph.Conn
	cassette *Cassette
}

// NewRecorder creates a Recorder over a live connection. The caller
// retains ownership of the cassette; closing the Recorder closes only
// the wrapped connection.
func NewRecorder(conn gograph.Conn, cassette *Cassette) *Recorder {
	return &Recorder{conn: conn, cassette: cassette}
}

// Query executes the query on the live connection and records the result.
func (r *Recorder) Query(query string) ([]map[string]any, error) {
	return r.QueryWithContext(context.Background(), query)
}

// QueryWithContext executes the query on the live connection and records
// the result. Failed queries are not recorded.
func (r *Recorder) QueryWithContext(ctx context.Context, query string) ([]map[string]any, error) {
	rows, err := r.conn.QueryWithContext(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := r.record(query, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Begin opens a transaction on the live connection. Queries inside the
// transaction are recorded like any other; Commit and Rollback leave
// markers that the player treats as no-ops.
func (r *Recorder) Begin(readOnly bool) (gograph.Tx, error) {
	tx, err := r.conn.Begin(readOnly)
	if err != nil {
		return nil, err
	}
	return &recorderTx{rec: r, tx: tx}, nil
}

// Close closes the wrapped connection. The cassette stays open.
func (r *Recorder) Close() {
	r.conn.Close()
}

// IsOpen reports whether the wrapped connection is open.
func (r *Recorder) IsOpen() bool {
	return r.conn.IsOpen()
}

func (r *Recorder) record(query string, rows []map[string]any) error {
	ordinal, err := r.cassette.nextOrdinal(query)
	if err != nil {
		return fmt.Errorf("record %q: %w", normalizeQuery(query), err)
	}
	if err := r.cassette.Save(query, ordinal, rows); err != nil {
		return fmt.Errorf("record %q: %w", normalizeQuery(query), err)
	}
	return nil
}

// Commit and Rollback markers recorded alongside transactional queries.
const (
	markerCommit   = "--replay:commit"
	markerRollback = "--replay:rollback"
)

type recorderTx struct {
	rec *Recorder
	tx  gograph.Tx
}

func (t *recorderTx) Query(query string) ([]map[string]any, error) {
	return t.QueryWithContext(context.Background(), query)
}

func (t *recorderTx) QueryWithContext(ctx context.Context, query string) ([]map[string]any, error) {
	rows, err := t.tx.QueryWithContext(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := t.rec.record(query, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (t *recorderTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return err
	}
	return t.rec.record(markerCommit, nil)
}

func (t *recorderTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil {
		return err
	}
	return t.rec.record(markerRollback, nil)
}

func (t *recorderTx) Close() {
	t.tx.Close()
}

func (t *recorderTx) IsOpen() bool {
	return t.tx.IsOpen()
}
