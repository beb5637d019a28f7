package kuzu

import "errors"

// EngineError represents a failure reported by the engine outside of
// statement execution, such as opening a database or a connection.
type EngineError struct {
	// Message describes the failure.
	Message string
}

func (e *EngineError) Error() string {
	return e.Message
}

// QueryError is returned when the engine rejects or fails a statement.
// Message carries the engine's own error text, including binder and
// parser diagnostics.
type QueryError struct {
	// Message is the error message produced by the engine.
	Message string
}

func (e *QueryError) Error() string {
	return e.Message
}

// UnsupportedTypeError is returned when a result value has a logical type
// with no Go mapping.
type UnsupportedTypeError struct {
	// TypeID is the unmapped logical type.
	TypeID DataTypeID
}

func (e *UnsupportedTypeError) Error() string {
	return "kuzu: unsupported data type " + e.TypeID.String()
}

var (
	// ErrDatabaseClosed is returned when an operation is attempted on a closed database.
	ErrDatabaseClosed = errors.New("kuzu: database is closed")
	// ErrConnectionClosed is returned when an operation is attempted on a closed connection.
	ErrConnectionClosed = errors.New("kuzu: connection is closed")
	// ErrStatementClosed is returned when an operation is attempted on a closed prepared statement.
	ErrStatementClosed = errors.New("kuzu: prepared statement is closed")
	// ErrResultClosed is returned when an operation is attempted on a closed query result.
	ErrResultClosed = errors.New("kuzu: query result is closed")
	// ErrTupleClosed is returned when a value is read from a closed tuple.
	ErrTupleClosed = errors.New("kuzu: tuple is closed")
	// ErrResultExhausted is returned by Next when no tuples remain.
	ErrResultExhausted = errors.New("kuzu: no more tuples in result")
)
