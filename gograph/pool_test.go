package gograph

import (
	"context"
	"errors"
	"testing"
	"time"
)

// newCountingFactory returns a factory producing fresh mockConns, plus a
// pointer to the number of connections created so far.
func newCountingFactory() (func() (Conn, error), *[]*mockConn) {
	made := &[]*mockConn{}
	factory := func() (Conn, error) {
		c := &mockConn{}
		*made = append(*made, c)
		return c, nil
	}
	return factory, made
}

func TestPoolPreWarmsMinSize(t *testing.T) {
	factory, made := newCountingFactory()
	pool, err := NewConnPool(PoolConfig{MinSize: 3, MaxSize: 5}, factory)
	if err != nil {
		t.Fatalf("NewConnPool returned error: %v", err)
	}
	defer pool.Close()

	if len(*made) != 3 {
		t.Errorf("pre-warmed %d connections, want 3", len(*made))
	}
	stats := pool.Stats()
	if stats.Available != 3 || stats.Total != 3 || stats.InUse != 0 {
		t.Errorf("stats = %+v, want 3 available / 3 total", stats)
	}
}

func TestPoolPreWarmFailureReturnsError(t *testing.T) {
	calls := 0
	factory := func() (Conn, error) {
		calls++
		if calls >= 2 {
			return nil, errors.New("engine unavailable")
		}
		return &mockConn{}, nil
	}

	// IdleTimeout > 0 makes Close wait on the cleaner goroutine; the
	// constructor must still surface the factory error promptly.
	type result struct {
		pool *ConnPool
		err  error
	}
	done := make(chan result, 1)
	go func() {
		pool, err := NewConnPool(PoolConfig{MinSize: 2, MaxSize: 4, IdleTimeout: time.Minute}, factory)
		done <- result{pool, err}
	}()

	select {
	case res := <-done:
		if res.err == nil {
			t.Fatal("expected pre-warm failure error")
		}
		if res.pool != nil {
			t.Error("expected nil pool on pre-warm failure")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("NewConnPool did not return after pre-warm failure")
	}
}

func TestPoolRejectsInvalidConfig(t *testing.T) {
	factory, _ := newCountingFactory()
	if _, err := NewConnPool(PoolConfig{MinSize: 5, MaxSize: 2}, factory); err == nil {
		t.Fatal("expected error for MinSize > MaxSize")
	}
}

func TestPoolGetReusesReturnedConn(t *testing.T) {
	factory, made := newCountingFactory()
	pool, err := NewConnPool(PoolConfig{MaxSize: 2}, factory)
	if err != nil {
		t.Fatalf("NewConnPool returned error: %v", err)
	}
	defer pool.Close()

	conn, err := pool.Get(context.Background())
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	pool.Put(conn)

	again, err := pool.Get(context.Background())
	if err != nil {
		t.Fatalf("second Get returned error: %v", err)
	}
	if again != conn {
		t.Error("expected the returned connection to be reused")
	}
	if len(*made) != 1 {
		t.Errorf("factory called %d times, want 1", len(*made))
	}
}

func TestPoolDiscardsDeadConns(t *testing.T) {
	factory, made := newCountingFactory()
	pool, err := NewConnPool(PoolConfig{MaxSize: 2}, factory)
	if err != nil {
		t.Fatalf("NewConnPool returned error: %v", err)
	}
	defer pool.Close()

	conn, _ := pool.Get(context.Background())
	conn.Close()
	pool.Put(conn)

	next, err := pool.Get(context.Background())
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if next == conn {
		t.Error("expected a fresh connection after the dead one was discarded")
	}
	if len(*made) != 2 {
		t.Errorf("factory called %d times, want 2", len(*made))
	}
}

func TestPoolWaitTimeout(t *testing.T) {
	factory, _ := newCountingFactory()
	pool, err := NewConnPool(PoolConfig{MaxSize: 1, WaitTimeout: 20 * time.Millisecond}, factory)
	if err != nil {
		t.Fatalf("NewConnPool returned error: %v", err)
	}
	defer pool.Close()

	held, err := pool.Get(context.Background())
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	defer pool.Put(held)

	if _, err := pool.Get(context.Background()); !errors.Is(err, ErrPoolTimeout) {
		t.Errorf("expected ErrPoolTimeout, got %v", err)
	}
}

func TestPoolHandsOffToWaiter(t *testing.T) {
	factory, _ := newCountingFactory()
	pool, err := NewConnPool(PoolConfig{MaxSize: 1, WaitTimeout: time.Second}, factory)
	if err != nil {
		t.Fatalf("NewConnPool returned error: %v", err)
	}
	defer pool.Close()

	held, _ := pool.Get(context.Background())

	got := make(chan Conn, 1)
	go func() {
		conn, err := pool.Get(context.Background())
		if err != nil {
			close(got)
			return
		}
		got <- conn
	}()

	// Give the waiter time to enqueue before releasing the connection.
	time.Sleep(10 * time.Millisecond)
	pool.Put(held)

	select {
	case conn, ok := <-got:
		if !ok {
			t.Fatal("waiter did not receive a connection")
		}
		if conn != held {
			t.Error("expected the released connection to reach the waiter")
		}
		pool.Put(conn)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for hand-off")
	}
}

func TestPoolGetAfterClose(t *testing.T) {
	factory, made := newCountingFactory()
	pool, err := NewConnPool(PoolConfig{MinSize: 1, MaxSize: 2}, factory)
	if err != nil {
		t.Fatalf("NewConnPool returned error: %v", err)
	}
	pool.Close()

	if _, err := pool.Get(context.Background()); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed, got %v", err)
	}
	if !(*made)[0].closed {
		t.Error("expected pooled connection to be closed with the pool")
	}
}

func TestPoolCancelledContext(t *testing.T) {
	factory, _ := newCountingFactory()
	pool, err := NewConnPool(PoolConfig{MaxSize: 1}, factory)
	if err != nil {
		t.Fatalf("NewConnPool returned error: %v", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := pool.Get(ctx); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestPooledDatabaseReleasesConnAfterTx(t *testing.T) {
	registerTestModels(t)

	var conns []*mockConn
	db, err := NewDatabaseWithPool(PoolConfig{MaxSize: 1}, func() (Conn, error) {
		c := &mockConn{script: []mockResponse{{rows: []map[string]any{newIDRow(0, 1)}}}}
		conns = append(conns, c)
		return c, nil
	})
	if err != nil {
		t.Fatalf("NewDatabaseWithPool returned error: %v", err)
	}
	defer db.Close()

	users := NewManager[testUser](db)
	if err := users.Insert(context.Background(), &testUser{Name: "Alice"}); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}

	// A MaxSize 1 pool only works for a second operation if the first
	// transaction returned its connection.
	if _, err := db.ExecuteRead(context.Background(), "MATCH (e:testUser) RETURN e AS e"); err != nil {
		t.Fatalf("ExecuteRead returned error: %v", err)
	}
	if len(conns) != 1 {
		t.Errorf("pool created %d connections, want 1", len(conns))
	}
}
