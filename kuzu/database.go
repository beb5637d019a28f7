//go:build cgo && kuzu

// The binding follows the C API's handle convention: each engine object is
// a small C struct owned by its Go wrapper and released by an explicit
// Close. Engine calls report success through kuzu_state; where the API
// carries an error message (queries, prepared statements) it is surfaced
// as a *QueryError.

package kuzu

// #include <kuzu.h>
// #include <stdlib.h>
import "C"
import (
	"sync"
	"unsafe"
)

// InMemoryPath is the database path that selects a transient in-memory
// database. An empty path selects the same mode.
const InMemoryPath = ":memory:"

// Database is an instance of the embedded engine bound to a directory on
// disk, or held entirely in memory. All Connections must be closed before
// the Database is.
type Database struct {
	handle C.kuzu_database
	mu     sync.Mutex
	open   bool
}

// OpenDatabase opens or creates a database at the given path with the
// provided system configuration.
func OpenDatabase(path string, config SystemConfig) (*Database, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	db := &Database{}
	if C.kuzu_database_init(cPath, config.toC(), &db.handle) != C.KuzuSuccess {
		return nil, &EngineError{Message: "failed to open database at " + displayPath(path)}
	}
	db.open = true
	return db, nil
}

// OpenInMemory opens a transient database that lives entirely in memory
// and is discarded on Close.
func OpenInMemory(config SystemConfig) (*Database, error) {
	return OpenDatabase(InMemoryPath, config)
}

func displayPath(path string) string {
	if path == "" {
		return InMemoryPath
	}
	return path
}

// IsOpen reports whether the database handle is still usable.
func (db *Database) IsOpen() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.open
}

// Close releases the engine instance. Close is idempotent.
func (db *Database) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.open {
		C.kuzu_database_destroy(&db.handle)
		db.open = false
	}
}

// Connect opens a new connection to the database. Use one connection per
// goroutine for concurrent workloads; the engine schedules them against
// the shared buffer pool.
func (db *Database) Connect() (*Connection, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if !db.open {
		return nil, ErrDatabaseClosed
	}

	conn := &Connection{db: db}
	if C.kuzu_connection_init(&db.handle, &conn.handle) != C.KuzuSuccess {
		return nil, &EngineError{Message: "failed to open connection"}
	}
	conn.open = true
	return conn, nil
}
