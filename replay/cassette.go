// Package replay records query results into a cassette file and plays
// them back through the gograph.Conn interface, so code built on the
// OGM can be tested without the native engine or cgo.
package replay

import (
	"bytes"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite" // SQLite driver
)

// cassetteSchema bootstraps the recordings table. A recording is keyed
// by the hash of the normalized query text plus a per-query ordinal, so
// repeated executions of the same query replay in order.
const cassetteSchema = `
CREATE TABLE IF NOT EXISTS recordings (
	query_hash  TEXT    NOT NULL,
	ordinal     INTEGER NOT NULL,
	query_text  TEXT    NOT NULL,
	rows        BLOB    NOT NULL,
	recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (query_hash, ordinal)
);
`

// Cassette is a sqlite-backed store of recorded query results.
type Cassette struct {
	db   *sqlx.DB
	path string
}

// OpenCassette opens (creating if necessary) a cassette file at path.
func OpenCassette(path string) (*Cassette, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open cassette: %w", err)
	}
	if _, err := db.Exec(cassetteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap cassette schema: %w", err)
	}
	return &Cassette{db: db, path: path}, nil
}

// Close closes the underlying sqlite database.
func (c *Cassette) Close() error {
	return c.db.Close()
}

// Path returns the cassette file path.
func (c *Cassette) Path() string {
	return c.path
}

// Save stores the rows for one execution of query at the given ordinal.
// Saving the same (query, ordinal) twice overwrites the earlier take.
func (c *Cassette) Save(query string, ordinal int, rows []map[string]any) error {
	blob, err := encodeRows(rows)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	norm := normalizeQuery(query)
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO recordings (query_hash, ordinal, query_text, rows, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		hashQuery(norm), ordinal, norm, blob, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save recording: %w", err)
	}
	return nil
}

// Load retrieves the rows recorded for the given execution of query.
// The second return value reports whether a recording exists.
func (c *Cassette) Load(query string, ordinal int) ([]map[string]any, bool, error) {
	var blob []byte
	err := c.db.Get(&blob,
		`SELECT rows FROM recordings WHERE query_hash = ? AND ordinal = ?`,
		hashQuery(normalizeQuery(query)), ordinal,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load recording: %w", err)
	}
	rows, err := decodeRows(blob)
	if err != nil {
		return nil, false, fmt.Errorf("decode rows: %w", err)
	}
	return rows, true, nil
}

// Len returns the number of recordings in the cassette.
func (c *Cassette) Len() (int, error) {
	var n int
	if err := c.db.Get(&n, `SELECT COUNT(*) FROM recordings`); err != nil {
		return 0, fmt.Errorf("count recordings: %w", err)
	}
	return n, nil
}

// nextOrdinal returns the ordinal for the next take of query.
func (c *Cassette) nextOrdinal(query string) (int, error) {
	var n int
	err := c.db.Get(&n,
		`SELECT COALESCE(MAX(ordinal) + 1, 0) FROM recordings WHERE query_hash = ?`,
		hashQuery(normalizeQuery(query)),
	)
	if err != nil {
		return 0, fmt.Errorf("next ordinal: %w", err)
	}
	return n, nil
}

// normalizeQuery collapses all runs of whitespace to single spaces so
// formatting differences do not miss recordings.
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

func hashQuery(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// encodeRows serializes rows as msgpack.
func encodeRows(rows []map[string]any) ([]byte, error) {
	if rows == nil {
		rows = []map[string]any{}
	}
	return msgpack.Marshal(rows)
}

// decodeRows deserializes msgpack rows with loose interface decoding,
// matching the decode path of the live driver.
func decodeRows(blob []byte) ([]map[string]any, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(blob))
	dec.UseLooseInterfaceDecoding(true)
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}
