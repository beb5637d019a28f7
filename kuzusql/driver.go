//go:build cgo && kuzu

package kuzusql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sync"

	"github.com/CaliLuke/go-kuzu/kuzu"
)

func init() {
	sql.Register("kuzu", &Driver{})
}

// Driver implements driver.Driver and driver.DriverContext for Kuzu.
type Driver struct{}

// Open opens a single connection for the given DSN.
func (d *Driver) Open(dsn string) (driver.Conn, error) {
	c, err := d.OpenConnector(dsn)
	if err != nil {
		return nil, err
	}
	return c.Connect(context.Background())
}

// OpenConnector parses the DSN and returns a Connector. The embedded
// database is opened lazily on first Connect and shared by every
// connection the pool asks for.
func (d *Driver) OpenConnector(dsn string) (driver.Connector, error) {
	cfg, err := ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	return &Connector{cfg: cfg}, nil
}

// Connector hands out connections over one shared embedded database.
type Connector struct {
	cfg Config

	mu sync.Mutex
	db *kuzu.Database
}

// Connect opens a new engine connection, opening the database first if
// this is the initial connection.
func (c *Connector) Connect(ctx context.Context) (driver.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.db == nil {
		sysCfg := kuzu.DefaultSystemConfig()
		sysCfg.ReadOnly = c.cfg.ReadOnly
		if c.cfg.BufferPoolSize > 0 {
			sysCfg.BufferPoolSize = c.cfg.BufferPoolSize
		}
		if c.cfg.MaxThreads > 0 {
			sysCfg.MaxNumThreads = c.cfg.MaxThreads
		}

		var (
			db  *kuzu.Database
			err error
		)
		if c.cfg.Path == ":memory:" {
			db, err = kuzu.OpenInMemory(sysCfg)
		} else {
			db, err = kuzu.OpenDatabase(c.cfg.Path, sysCfg)
		}
		if err != nil {
			c.mu.Unlock()
			return nil, fmt.Errorf("kuzusql: open database: %w", err)
		}
		c.db = db
	}
	db := c.db
	c.mu.Unlock()

	kc, err := db.Connect()
	if err != nil {
		return nil, fmt.Errorf("kuzusql: connect: %w", err)
	}
	if c.cfg.Timeout > 0 {
		if err := kc.SetQueryTimeout(c.cfg.Timeout); err != nil {
			kc.Close()
			return nil, fmt.Errorf("kuzusql: set query timeout: %w", err)
		}
	}
	return &conn{kc: kc}, nil
}

// Driver returns the underlying Driver.
func (c *Connector) Driver() driver.Driver {
	return &Driver{}
}

// Close closes the shared embedded database. database/sql calls this
// when the sql.DB built from this connector is closed.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db != nil {
		c.db.Close()
		c.db = nil
	}
	return nil
}
