//go:build cgo && kuzu

package kuzu

// #include <kuzu.h>
// #include <stdlib.h>
import "C"
import (
	"context"
	"sync"
	"time"
	"unsafe"
)

// Connection is a session with a Database through which statements run.
// Queries take a read lock so Interrupt can reach the engine while a
// statement is in flight; Close write-locks and therefore waits for
// running statements to drain.
type Connection struct {
	handle C.kuzu_connection
	db     *Database
	mu     sync.RWMutex
	open   bool
}

// IsOpen reports whether the connection is still usable.
func (c *Connection) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.open
}

// Close releases the connection. It blocks until in-flight statements
// finish. Close is idempotent.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open {
		C.kuzu_connection_destroy(&c.handle)
		c.open = false
	}
}

// Query executes a Cypher statement and returns its result. The caller
// must close the result.
func (c *Connection) Query(query string) (*QueryResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.open {
		return nil, ErrConnectionClosed
	}

	cQuery := C.CString(query)
	defer C.free(unsafe.Pointer(cQuery))

	res := &QueryResult{}
	state := C.kuzu_connection_query(&c.handle, cQuery, &res.handle)
	return checkResult(res, state)
}

// QueryWithContext executes a Cypher statement with cancellation support.
// If the context ends while the statement is in flight, the connection is
// interrupted and ctx.Err() is returned.
func (c *Connection) QueryWithContext(ctx context.Context, query string) (*QueryResult, error) {
	// Fast path: bail immediately if already cancelled.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type outcome struct {
		res *QueryResult
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, err := c.Query(query)
		ch <- outcome{res: res, err: err}
	}()

	select {
	case <-ctx.Done():
		c.Interrupt()
		out := <-ch // drain after interrupt unblocks the engine
		if out.res != nil {
			out.res.Close()
		}
		return nil, ctx.Err()
	case out := <-ch:
		return out.res, out.err
	}
}

// Prepare compiles a parameterized Cypher statement for later execution.
// The caller must close the returned statement.
func (c *Connection) Prepare(query string) (*PreparedStatement, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.open {
		return nil, ErrConnectionClosed
	}

	cQuery := C.CString(query)
	defer C.free(unsafe.Pointer(cQuery))

	ps := &PreparedStatement{conn: c}
	state := C.kuzu_connection_prepare(&c.handle, cQuery, &ps.handle)
	if state != C.KuzuSuccess || !bool(C.kuzu_prepared_statement_is_success(&ps.handle)) {
		err := statementError(&ps.handle)
		C.kuzu_prepared_statement_destroy(&ps.handle)
		return nil, err
	}
	ps.open = true
	return ps, nil
}

// Execute runs a prepared statement with its currently bound parameters.
// The caller must close the result.
func (c *Connection) Execute(ps *PreparedStatement) (*QueryResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.open {
		return nil, ErrConnectionClosed
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	if !ps.open {
		return nil, ErrStatementClosed
	}

	res := &QueryResult{}
	state := C.kuzu_connection_execute(&c.handle, &ps.handle, &res.handle)
	return checkResult(res, state)
}

// ExecuteWithContext runs a prepared statement with cancellation support,
// interrupting the connection if the context ends first.
func (c *Connection) ExecuteWithContext(ctx context.Context, ps *PreparedStatement) (*QueryResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type outcome struct {
		res *QueryResult
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, err := c.Execute(ps)
		ch <- outcome{res: res, err: err}
	}()

	select {
	case <-ctx.Done():
		c.Interrupt()
		out := <-ch
		if out.res != nil {
			out.res.Close()
		}
		return nil, ctx.Err()
	case out := <-ch:
		return out.res, out.err
	}
}

// Interrupt aborts the statements currently running on this connection.
// Interrupted statements fail with the engine's interrupt error.
func (c *Connection) Interrupt() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.open {
		C.kuzu_connection_interrupt(&c.handle)
	}
}

// SetQueryTimeout bounds every subsequent statement on this connection.
// A zero duration disables the timeout.
func (c *Connection) SetQueryTimeout(d time.Duration) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.open {
		return ErrConnectionClosed
	}
	if C.kuzu_connection_set_query_timeout(&c.handle, C.uint64_t(d.Milliseconds())) != C.KuzuSuccess {
		return &EngineError{Message: "failed to set query timeout"}
	}
	return nil
}

// SetMaxNumThreads caps the threads the engine may use for statements on
// this connection.
func (c *Connection) SetMaxNumThreads(n uint64) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.open {
		return ErrConnectionClosed
	}
	if C.kuzu_connection_set_max_num_thread_for_exec(&c.handle, C.uint64_t(n)) != C.KuzuSuccess {
		return &EngineError{Message: "failed to set max threads"}
	}
	return nil
}

// MaxNumThreads returns the connection's current thread cap.
func (c *Connection) MaxNumThreads() (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.open {
		return 0, ErrConnectionClosed
	}
	var out C.uint64_t
	if C.kuzu_connection_get_max_num_thread_for_exec(&c.handle, &out) != C.KuzuSuccess {
		return 0, &EngineError{Message: "failed to read max threads"}
	}
	return uint64(out), nil
}
