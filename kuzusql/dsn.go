// Package kuzusql provides a database/sql driver for the Kuzu embedded
// graph database. Register is implicit; open a database with:
//
//	db, err := sql.Open("kuzu", "path/to/db?read_only=true")
//
// Statements are Cypher. Parameters are named only: use sql.Named("name",
// value) and $name placeholders. Composite result values (nodes, rels,
// lists, structs) arrive JSON-encoded.
package kuzusql

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Config is the parsed form of a kuzusql DSN.
type Config struct {
	// Path is the database directory, or ":memory:" for an in-memory
	// database.
	Path string
	// ReadOnly opens the database in read-only mode.
	ReadOnly bool
	// BufferPoolSize overrides the engine buffer pool size in bytes.
	// Zero keeps the engine default.
	BufferPoolSize uint64
	// MaxThreads caps query execution threads. Zero keeps the default.
	MaxThreads uint64
	// Timeout aborts queries running longer than this. Zero disables.
	Timeout time.Duration
}

// ParseDSN parses a data source name of the form
//
//	path[?read_only=bool&buffer_pool_size=bytes&max_threads=n&timeout_ms=n]
func ParseDSN(dsn string) (Config, error) {
	cfg := Config{}

	path, query, _ := strings.Cut(dsn, "?")
	if path == "" {
		return Config{}, fmt.Errorf("kuzusql: empty database path in DSN %q", dsn)
	}
	cfg.Path = path

	if query == "" {
		return cfg, nil
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return Config{}, fmt.Errorf("kuzusql: bad DSN query: %w", err)
	}

	for key := range values {
		v := values.Get(key)
		switch key {
		case "read_only":
			b, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, fmt.Errorf("kuzusql: read_only: %w", err)
			}
			cfg.ReadOnly = b
		case "buffer_pool_size":
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return Config{}, fmt.Errorf("kuzusql: buffer_pool_size: %w", err)
			}
			cfg.BufferPoolSize = n
		case "max_threads":
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return Config{}, fmt.Errorf("kuzusql: max_threads: %w", err)
			}
			cfg.MaxThreads = n
		case "timeout_ms":
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || n < 0 {
				return Config{}, fmt.Errorf("kuzusql: timeout_ms must be a non-negative integer, got %q", v)
			}
			cfg.Timeout = time.Duration(n) * time.Millisecond
		default:
			return Config{}, fmt.Errorf("kuzusql: unknown DSN parameter %q", key)
		}
	}
	return cfg, nil
}
