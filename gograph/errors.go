package gograph

import (
	"errors"
	"fmt"
)

// ErrDriverUnavailable is returned by Open when the binary was built
// without the embedded engine (missing cgo or the kuzu build tag).
var ErrDriverUnavailable = errors.New("gograph: engine driver unavailable (built without cgo and the kuzu build tag)")

// ErrPoolClosed is returned when acquiring a connection from a pool
// that has been closed.
var ErrPoolClosed = errors.New("gograph: connection pool is closed")

// ErrTxDone is returned when committing or rolling back a transaction
// that has already finished.
var ErrTxDone = errors.New("gograph: transaction already committed or rolled back")

// NotRegisteredError is returned when an operation is attempted on a Go
// type that has not been registered.
type NotRegisteredError struct {
	TypeName string
}

// Error returns the error message for NotRegisteredError.
func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("type %q is not registered", e.TypeName)
}

// PrimaryKeyError is returned when a primary key value is missing or
// unusable for an insert, update or lookup operation.
type PrimaryKeyError struct {
	TableName string
	FieldName string
	Operation string
}

// Error returns the error message for PrimaryKeyError.
func (e *PrimaryKeyError) Error() string {
	return fmt.Sprintf("primary key %q on %s is required for %s",
		e.FieldName, e.TableName, e.Operation)
}

// HydrationError is returned when an error occurs while populating a Go
// struct with data from a query result.
type HydrationError struct {
	TypeName string
	Field    string
	Cause    error
}

// Error returns the error message for HydrationError.
func (e *HydrationError) Error() string {
	return fmt.Sprintf("hydrating %s.%s: %v", e.TypeName, e.Field, e.Cause)
}

// Unwrap returns the underlying cause of the HydrationError.
func (e *HydrationError) Unwrap() error {
	return e.Cause
}

// SchemaValidationError is returned when a registered Go model does not
// form a valid table definition.
type SchemaValidationError struct {
	TypeName string
	Message  string
}

// Error returns the error message for SchemaValidationError.
func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("schema validation %s: %s", e.TypeName, e.Message)
}

// SchemaConflictError is returned when a proposed schema change conflicts
// with the existing database schema in a non-recoverable way.
type SchemaConflictError struct {
	TableName string
	Change    string
}

// Error returns the error message for SchemaConflictError.
func (e *SchemaConflictError) Error() string {
	return fmt.Sprintf("schema conflict %s: %s", e.TableName, e.Change)
}

// MigrationError is returned when an error occurs during the execution
// of a schema migration.
type MigrationError struct {
	Operation string
	Cause     error
}

// Error returns the error message for MigrationError.
func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %s: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying cause of the MigrationError.
func (e *MigrationError) Unwrap() error {
	return e.Cause
}

// ChecksumMismatchError is returned when an applied migration's recorded
// checksum no longer matches the statements in code.
type ChecksumMismatchError struct {
	Name     string
	Recorded string
	Current  string
}

// Error returns the error message for ChecksumMismatchError.
func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("migration %q: checksum mismatch (recorded %s, current %s)",
		e.Name, e.Recorded, e.Current)
}

// NotFoundError is returned when a query expected to return an instance
// finds no matching results.
type NotFoundError struct {
	TypeName string
}

// Error returns the error message for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: not found", e.TypeName)
}

// NotUniqueError is returned when a query expected to return a single
// unique instance finds multiple matches.
type NotUniqueError struct {
	TypeName string
	Count    int
}

// Error returns the error message for NotUniqueError.
func (e *NotUniqueError) Error() string {
	return fmt.Sprintf("%s: expected unique, got %d", e.TypeName, e.Count)
}
