package gograph

import "time"

// OpenOption configures OpenDatabase.
type OpenOption func(*openConfig)

type openConfig struct {
	readOnly       bool
	bufferPoolSize uint64
	maxThreads     uint64
	noCompression  bool
	queryTimeout   time.Duration
	pool           *PoolConfig
}

// WithReadOnly opens the database in read-only mode. Write transactions
// and DDL will fail.
func WithReadOnly() OpenOption {
	return func(c *openConfig) { c.readOnly = true }
}

// WithBufferPoolSize sets the engine buffer pool size in bytes.
func WithBufferPoolSize(bytes uint64) OpenOption {
	return func(c *openConfig) { c.bufferPoolSize = bytes }
}

// WithMaxThreads caps the number of threads the engine may use per query.
func WithMaxThreads(n uint64) OpenOption {
	return func(c *openConfig) { c.maxThreads = n }
}

// WithoutCompression disables on-disk compression for newly written data.
func WithoutCompression() OpenOption {
	return func(c *openConfig) { c.noCompression = true }
}

// WithQueryTimeout sets a per-query timeout on every connection.
func WithQueryTimeout(d time.Duration) OpenOption {
	return func(c *openConfig) { c.queryTimeout = d }
}

// WithConnPool backs the Database with a connection pool instead of a
// single dedicated connection.
func WithConnPool(config PoolConfig) OpenOption {
	return func(c *openConfig) { c.pool = &config }
}

func newOpenConfig(opts []OpenOption) openConfig {
	var cfg openConfig
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}
