package gograph

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrPoolTimeout is returned when waiting for a pooled connection times out.
var ErrPoolTimeout = errors.New("gograph: timeout waiting for available connection")

// PoolConfig specifies connection pool behavior.
type PoolConfig struct {
	// MinSize is the minimum number of connections to maintain (0 = no minimum).
	MinSize int
	// MaxSize is the maximum number of connections allowed (0 = unlimited).
	MaxSize int
	// IdleTimeout is the duration after which idle connections are closed (0 = never expire).
	IdleTimeout time.Duration
	// WaitTimeout is the maximum time to wait for an available connection (0 = no timeout).
	WaitTimeout time.Duration
}

// DefaultPoolConfig returns a reasonable default pool configuration.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MinSize:     2,
		MaxSize:     10,
		IdleTimeout: 5 * time.Minute,
		WaitTimeout: 10 * time.Second,
	}
}

// ConnPool manages a pool of database connections for concurrent access.
type ConnPool struct {
	config      PoolConfig
	connFactory func() (Conn, error)

	mu        sync.Mutex
	conns     []pooledConn // available connections
	numOpen   int          // total open connections (available + in-use)
	waitQueue []chan Conn  // waiting goroutines
	closed    bool

	stopCleaner chan struct{}
	cleanerDone chan struct{}
}

// pooledConn tracks a connection and its idle time.
type pooledConn struct {
	conn      Conn
	idleSince time.Time
}

// NewConnPool creates a new connection pool with the given configuration
// and factory function. The factory is called to create new connections
// when needed. If config.MinSize > 0, the pool is pre-warmed with MinSize
// connections.
func NewConnPool(config PoolConfig, factory func() (Conn, error)) (*ConnPool, error) {
	if config.MaxSize > 0 && config.MinSize > config.MaxSize {
		return nil, fmt.Errorf("invalid pool config: MinSize (%d) > MaxSize (%d)", config.MinSize, config.MaxSize)
	}

	pool := &ConnPool{
		config:      config,
		connFactory: factory,
		conns:       make([]pooledConn, 0, config.MaxSize),
		waitQueue:   make([]chan Conn, 0),
		stopCleaner: make(chan struct{}),
		cleanerDone: make(chan struct{}),
	}

	// The cleaner must be running before any path that can call Close,
	// since Close waits for it to exit.
	if config.IdleTimeout > 0 {
		go pool.cleanIdleConnections()
	}

	if config.MinSize > 0 {
		for i := 0; i < config.MinSize; i++ {
			conn, err := factory()
			if err != nil {
				pool.Close()
				return nil, fmt.Errorf("failed to create initial connection %d/%d: %w", i+1, config.MinSize, err)
			}
			pool.conns = append(pool.conns, pooledConn{conn: conn, idleSince: time.Now()})
			pool.numOpen++
		}
		log().Debug("pool pre-warmed", zap.Int("connections", config.MinSize))
	}

	return pool, nil
}

// Get acquires a connection from the pool. If no connections are
// available and the pool is at max capacity, it waits for one to become
// available. Returns ErrPoolClosed if the pool is closed, or
// ErrPoolTimeout if WaitTimeout is exceeded.
func (p *ConnPool) Get(ctx context.Context) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()

	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}

	// Take an available connection, discarding dead ones.
	for len(p.conns) > 0 {
		pc := p.conns[len(p.conns)-1]
		p.conns = p.conns[:len(p.conns)-1]

		if pc.conn.IsOpen() {
			p.mu.Unlock()
			return pc.conn, nil
		}
		pc.conn.Close()
		p.numOpen--
	}

	// No available connections; create one if capacity allows.
	if p.config.MaxSize == 0 || p.numOpen < p.config.MaxSize {
		p.numOpen++
		p.mu.Unlock()

		conn, err := p.connFactory()
		if err != nil {
			p.mu.Lock()
			p.numOpen--
			p.mu.Unlock()
			return nil, fmt.Errorf("failed to create connection: %w", err)
		}
		return conn, nil
	}

	// Pool is at max capacity; wait for a connection.
	waiter := make(chan Conn, 1)
	p.waitQueue = append(p.waitQueue, waiter)
	p.mu.Unlock()

	waitCtx := ctx
	if p.config.WaitTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, p.config.WaitTimeout)
		defer cancel()
	}

	select {
	case conn, ok := <-waiter:
		if !ok {
			return nil, ErrPoolClosed
		}
		return conn, nil
	case <-waitCtx.Done():
		p.mu.Lock()
		for i, w := range p.waitQueue {
			if w == waiter {
				p.waitQueue = append(p.waitQueue[:i], p.waitQueue[i+1:]...)
				break
			}
		}
		p.mu.Unlock()

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log().Warn("pool wait timed out", zap.Duration("wait_timeout", p.config.WaitTimeout))
		return nil, ErrPoolTimeout
	}
}

// Put returns a connection to the pool. If the connection is no longer
// open, it is discarded instead.
func (p *ConnPool) Put(conn Conn) {
	if conn == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		conn.Close()
		return
	}

	if !conn.IsOpen() {
		conn.Close()
		p.numOpen--
		return
	}

	// Hand off to a waiter before parking the connection.
	if len(p.waitQueue) > 0 {
		waiter := p.waitQueue[0]
		p.waitQueue = p.waitQueue[1:]
		select {
		case waiter <- conn:
			return
		default:
			// Waiter timed out or cancelled.
		}
	}

	p.conns = append(p.conns, pooledConn{conn: conn, idleSince: time.Now()})
}

// Close closes all connections in the pool and prevents new connections
// from being acquired.
func (p *ConnPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true

	if p.config.IdleTimeout > 0 {
		close(p.stopCleaner)
	}

	for _, pc := range p.conns {
		pc.conn.Close()
	}
	p.conns = nil

	for _, waiter := range p.waitQueue {
		close(waiter)
	}
	p.waitQueue = nil

	p.mu.Unlock()

	if p.config.IdleTimeout > 0 {
		<-p.cleanerDone
	}
	log().Debug("pool closed")
}

// PoolStats provides statistics about the connection pool.
type PoolStats struct {
	Available int // connections available in the pool
	InUse     int // connections currently in use
	Total     int // total open connections
	Waiting   int // goroutines waiting for a connection
}

// Stats returns current pool statistics.
func (p *ConnPool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return PoolStats{
		Available: len(p.conns),
		InUse:     p.numOpen - len(p.conns),
		Total:     p.numOpen,
		Waiting:   len(p.waitQueue),
	}
}

// cleanIdleConnections runs in a background goroutine to close idle
// connections above MinSize.
func (p *ConnPool) cleanIdleConnections() {
	defer close(p.cleanerDone)

	ticker := time.NewTicker(p.config.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.mu.Lock()

			now := time.Now()
			keepConns := make([]pooledConn, 0, len(p.conns))
			closed := 0

			for _, pc := range p.conns {
				if now.Sub(pc.idleSince) < p.config.IdleTimeout || len(keepConns) < p.config.MinSize {
					keepConns = append(keepConns, pc)
				} else {
					pc.conn.Close()
					p.numOpen--
					closed++
				}
			}

			p.conns = keepConns
			p.mu.Unlock()

			if closed > 0 {
				log().Debug("pool closed idle connections", zap.Int("closed", closed))
			}

		case <-p.stopCleaner:
			return
		}
	}
}

// NewDatabaseWithPool creates a Database backed by a connection pool.
// The Database takes ownership of the pool and closes it on Close.
func NewDatabaseWithPool(config PoolConfig, factory func() (Conn, error)) (*Database, error) {
	pool, err := NewConnPool(config, factory)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	return &Database{
		conn:    &poolConnAdapter{pool: pool},
		ownConn: true,
	}, nil
}

// poolConnAdapter adapts a ConnPool to the Conn interface. It acquires a
// connection from the pool for each operation and returns it as soon as
// the operation (or transaction) finishes.
type poolConnAdapter struct {
	pool *ConnPool
}

func (pca *poolConnAdapter) Query(query string) ([]map[string]any, error) {
	return pca.QueryWithContext(context.Background(), query)
}

func (pca *poolConnAdapter) QueryWithContext(ctx context.Context, query string) ([]map[string]any, error) {
	conn, err := pca.pool.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get connection from pool: %w", err)
	}
	defer pca.pool.Put(conn)
	return conn.QueryWithContext(ctx, query)
}

// Begin opens a transaction using a connection from the pool. The
// transaction holds the connection until Commit, Rollback or Close.
func (pca *poolConnAdapter) Begin(readOnly bool) (Tx, error) {
	conn, err := pca.pool.Get(context.Background())
	if err != nil {
		return nil, fmt.Errorf("get connection from pool: %w", err)
	}

	tx, err := conn.Begin(readOnly)
	if err != nil {
		pca.pool.Put(conn)
		return nil, err
	}
	return &pooledTx{tx: tx, conn: conn, pool: pca.pool}, nil
}

func (pca *poolConnAdapter) Close() {
	pca.pool.Close()
}

func (pca *poolConnAdapter) IsOpen() bool {
	pca.pool.mu.Lock()
	defer pca.pool.mu.Unlock()
	return !pca.pool.closed
}

// pooledTx wraps a transaction and returns its connection to the pool
// when the transaction finishes.
type pooledTx struct {
	tx   Tx
	conn Conn
	pool *ConnPool
	once sync.Once
}

func (pt *pooledTx) Query(query string) ([]map[string]any, error) {
	return pt.tx.Query(query)
}

func (pt *pooledTx) QueryWithContext(ctx context.Context, query string) ([]map[string]any, error) {
	return pt.tx.QueryWithContext(ctx, query)
}

func (pt *pooledTx) Commit() error {
	err := pt.tx.Commit()
	pt.once.Do(func() { pt.pool.Put(pt.conn) })
	return err
}

func (pt *pooledTx) Rollback() error {
	err := pt.tx.Rollback()
	pt.once.Do(func() { pt.pool.Put(pt.conn) })
	return err
}

func (pt *pooledTx) Close() {
	pt.tx.Close()
	pt.once.Do(func() { pt.pool.Put(pt.conn) })
}

func (pt *pooledTx) IsOpen() bool {
	return pt.tx.IsOpen()
}
