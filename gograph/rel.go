// Package gograph provides reflection-based mapping to rel tables.
package gograph

// Rel is the marker interface for rel table models.
// Structs that represent rel tables must satisfy this interface,
// typically by embedding the BaseRel type.
type Rel interface {
	rel()
	// GetID returns the internal identifier assigned by the engine.
	GetID() InternalID
	// HasID reports whether the instance is bound to a stored relationship.
	HasID() bool
	// SetID binds the instance to a stored relationship.
	SetID(id InternalID)
}

// BaseRel is an embeddable base type for all Go structs mapping to rel
// tables. It provides the internal state and methods required to satisfy
// the Rel interface.
//
// Example usage:
//
//	type Knows struct {
//	    gograph.BaseRel
//	    From  *Person `kuzu:"from"`
//	    To    *Person `kuzu:"to"`
//	    Since int64   `kuzu:"since"`
//	}
type BaseRel struct {
	id    InternalID
	bound bool
}

func (BaseRel) rel() {}

// GetID returns the engine-assigned internal identifier.
func (r *BaseRel) GetID() InternalID { return r.id }

// HasID reports whether the instance is bound to a stored relationship.
func (r *BaseRel) HasID() bool { return r.bound }

// SetID binds the instance to a stored relationship.
func (r *BaseRel) SetID(id InternalID) {
	r.id = id
	r.bound = true
}

// ClearID unbinds the instance from its stored relationship.
func (r *BaseRel) ClearID() {
	r.id = InternalID{}
	r.bound = false
}

// EndpointInfo contains metadata about a rel model field holding one of the
// relationship's endpoint nodes.
type EndpointInfo struct {
	// FieldName is the name of the Go struct field holding the endpoint.
	FieldName string

	// FieldIndex is the 0-based index of the field in the Go struct.
	FieldIndex int

	// TableName is the node table the endpoint belongs to.
	TableName string
}

// Multiplicity constrains how many relationships may attach to each
// endpoint of a rel table. The zero value is ManyToMany, the engine's
// default.
type Multiplicity int

const (
	// ManyToMany places no constraint on either endpoint.
	ManyToMany Multiplicity = iota
	// ManyToOne allows each source node at most one outgoing relationship.
	ManyToOne
	// OneToMany allows each destination node at most one incoming relationship.
	OneToMany
	// OneToOne allows at most one relationship on both endpoints.
	OneToOne
)

// String returns the DDL keyword for the multiplicity.
func (m Multiplicity) String() string {
	switch m {
	case ManyToOne:
		return "MANY_ONE"
	case OneToMany:
		return "ONE_MANY"
	case OneToOne:
		return "ONE_ONE"
	default:
		return "MANY_MANY"
	}
}

// parseMultiplicity maps a mult= tag value to its Multiplicity.
func parseMultiplicity(s string) (Multiplicity, bool) {
	switch s {
	case "MANY_MANY":
		return ManyToMany, true
	case "MANY_ONE":
		return ManyToOne, true
	case "ONE_MANY":
		return OneToMany, true
	case "ONE_ONE":
		return OneToOne, true
	}
	return ManyToMany, false
}
