// Package ddlgen provides tools for parsing Kuzu DDL and generating Go
// model code from it.
package ddlgen

// ParsedSchema holds all table definitions extracted from a Kuzu DDL
// script, node tables and rel tables separately.
type ParsedSchema struct {
	// Nodes is a list of all node table definitions in the script.
	Nodes []NodeSpec
	// Rels is a list of all rel table definitions in the script.
	Rels []RelSpec
}

// NodeSpec describes a CREATE NODE TABLE statement.
type NodeSpec struct {
	// Name is the table name.
	Name string
	// IfNotExists records whether the statement carried IF NOT EXISTS.
	IfNotExists bool
	// Properties is the ordered list of property columns.
	Properties []PropertySpec
	// PrimaryKey lists the primary key column names.
	PrimaryKey []string
}

// RelSpec describes a CREATE REL TABLE statement.
type RelSpec struct {
	// Name is the table name.
	Name string
	// IfNotExists records whether the statement carried IF NOT EXISTS.
	IfNotExists bool
	// From is the source node table name.
	From string
	// To is the destination node table name.
	To string
	// Properties is the ordered list of property columns.
	Properties []PropertySpec
	// Multiplicity is one of MANY_MANY, MANY_ONE, ONE_MANY, ONE_ONE, or
	// empty when the statement does not constrain it (MANY_MANY).
	Multiplicity string
}

// PropertySpec describes a single property column.
type PropertySpec struct {
	// Name is the column name.
	Name string
	// Type is the canonical Kuzu type text (e.g. "INT64", "STRING[]",
	// "DOUBLE[3]", "STRUCT(x INT64, y INT64)", "MAP(STRING, INT64)").
	Type string
	// Default is the literal text of the DEFAULT clause, empty if none.
	Default string
}

// IsPrimaryKey reports whether the named column is part of the node
// table's primary key.
func (n *NodeSpec) IsPrimaryKey(column string) bool {
	for _, pk := range n.PrimaryKey {
		if pk == column {
			return true
		}
	}
	return false
}

// NodeByName returns the node table spec with the given name.
func (s *ParsedSchema) NodeByName(name string) (*NodeSpec, bool) {
	for i := range s.Nodes {
		if s.Nodes[i].Name == name {
			return &s.Nodes[i], true
		}
	}
	return nil, false
}
