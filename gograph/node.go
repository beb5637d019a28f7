// Package gograph provides reflection-based mapping between Go structs and
// Kuzu node and relationship tables.
package gograph

import "fmt"

// InternalID identifies a stored node or relationship by its table and the
// offset within that table. It mirrors the engine's internal identifier.
type InternalID struct {
	// TableID identifies the node or relationship table.
	TableID int64
	// Offset is the position of the record in its table.
	Offset int64
}

// String renders the identifier in the table:offset form used by the shell.
func (id InternalID) String() string {
	return fmt.Sprintf("%d:%d", id.TableID, id.Offset)
}

// Node is the marker interface for node table models.
// Structs that represent node tables must satisfy this interface,
// typically by embedding the BaseNode type.
type Node interface {
	node()
	// GetID returns the internal identifier assigned by the engine.
	GetID() InternalID
	// HasID reports whether the instance is bound to a stored node.
	HasID() bool
	// SetID binds the instance to a stored node.
	SetID(id InternalID)
}

// BaseNode is an embeddable base type for all Go structs mapping to node
// tables. It provides the internal state and methods required to satisfy
// the Node interface.
//
// Example usage:
//
//	type Person struct {
//	    gograph.BaseNode
//	    Name string `kuzu:"name,primary"`
//	}
type BaseNode struct {
	id    InternalID
	bound bool
}

func (BaseNode) node() {}

// GetID returns the engine-assigned internal identifier.
func (n *BaseNode) GetID() InternalID { return n.id }

// HasID reports whether the instance is bound to a stored node.
func (n *BaseNode) HasID() bool { return n.bound }

// SetID binds the instance to a stored node.
func (n *BaseNode) SetID(id InternalID) {
	n.id = id
	n.bound = true
}

// ClearID unbinds the instance from its stored node.
func (n *BaseNode) ClearID() {
	n.id = InternalID{}
	n.bound = false
}
