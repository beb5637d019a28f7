// Package cypher defines the Abstract Syntax Tree (AST) for Cypher queries.
package cypher

// QueryNode is the base marker interface for all AST nodes.
type QueryNode interface {
	queryNode()
}

// --- Expressions ---

// Expr is the marker interface for expressions usable in WHERE, RETURN,
// SET and property positions.
type Expr interface {
	QueryNode
	expr()
}

// Variable is a reference to a bound variable (e.g. a in MATCH (a:Person)).
type Variable struct {
	// Name is the variable name without any sigil.
	Name string
}

func (Variable) queryNode() {}
func (Variable) expr()      {}

// PropertyRef is a property access expression (e.g. a.name).
type PropertyRef struct {
	// Variable is the variable the property belongs to.
	Variable string
	// Name is the property name.
	Name string
}

func (PropertyRef) queryNode() {}
func (PropertyRef) expr()      {}

// Literal is a Go value compiled to a Cypher literal.
type Literal struct {
	// Val is the Go value. Supported kinds include strings, booleans,
	// integers, floats, time.Time, time.Duration, uuid.UUID, []byte,
	// slices and string-keyed maps. Compiling a value with no Cypher
	// literal representation fails with an error naming the type.
	Val any
}

func (Literal) queryNode() {}
func (Literal) expr()      {}

// ParamRef is a reference to a named query parameter (e.g. $name).
type ParamRef struct {
	// Name is the parameter name without the leading dollar sign.
	Name string
}

func (ParamRef) queryNode() {}
func (ParamRef) expr()      {}

// BinaryExpr applies a binary operator to two operands.
// Comparison operators compile without parentheses; logical and
// arithmetic operators compile parenthesized.
type BinaryExpr struct {
	// Left is the left operand.
	Left Expr
	// Operator is the Cypher operator (e.g. =, <>, <, AND, +).
	Operator string
	// Right is the right operand.
	Right Expr
}

func (BinaryExpr) queryNode() {}
func (BinaryExpr) expr()      {}

// NotExpr negates a boolean expression.
type NotExpr struct {
	// Operand is the expression to negate.
	Operand Expr
}

func (NotExpr) queryNode() {}
func (NotExpr) expr()      {}

// IsNullExpr tests an expression for NULL (e.g. a.name IS NULL).
type IsNullExpr struct {
	// Operand is the expression being tested.
	Operand Expr
	// Negated selects IS NOT NULL instead of IS NULL.
	Negated bool
}

func (IsNullExpr) queryNode() {}
func (IsNullExpr) expr()      {}

// FunctionCall is a call to a Cypher function (e.g. count(a), id(n)).
type FunctionCall struct {
	// Name is the function name.
	Name string
	// Args are the function arguments.
	Args []Expr
	// Distinct inserts DISTINCT before the first argument (count(DISTINCT a)).
	Distinct bool
	// Star compiles the call as name(*), ignoring Args.
	Star bool
}

func (FunctionCall) queryNode() {}
func (FunctionCall) expr()      {}

// ListExpr is a list literal built from expressions (e.g. [1, 2, 3]).
type ListExpr struct {
	// Items are the list elements.
	Items []Expr
}

func (ListExpr) queryNode() {}
func (ListExpr) expr()      {}

// MapExpr is a struct literal with ordered keys (e.g. {name: "a", age: 1}).
// Keys and Values are parallel slices so compilation order is stable.
type MapExpr struct {
	// Keys are the struct field names, in output order.
	Keys []string
	// Values are the field values, parallel to Keys.
	Values []Expr
}

func (MapExpr) queryNode() {}
func (MapExpr) expr()      {}

// RawExpr is a raw Cypher fragment emitted verbatim.
type RawExpr struct {
	// Content is the raw Cypher text.
	Content string
}

func (RawExpr) queryNode() {}
func (RawExpr) expr()      {}

// --- Patterns ---

// Pattern is the marker interface for graph patterns used in MATCH,
// CREATE and MERGE clauses.
type Pattern interface {
	QueryNode
	pattern()
}

// Property is an inline property assignment inside a node or relationship
// pattern (the {name: value} part). Patterns hold properties as slices so
// compiled output is deterministic.
type Property struct {
	// Name is the property name.
	Name string
	// Value is the property value expression.
	Value Expr
}

// NodePattern matches or creates a node (e.g. (a:Person {name: "Alice"})).
type NodePattern struct {
	// Variable is the optional variable bound to the node.
	Variable string
	// Labels are the node table names. Multiple labels compile as a:A:B.
	Labels []string
	// Properties are inline property constraints.
	Properties []Property
}

func (NodePattern) queryNode() {}
func (NodePattern) pattern()   {}

// Direction is the orientation of a relationship pattern.
type Direction int

const (
	// Outgoing compiles as -[..]->.
	Outgoing Direction = iota
	// Incoming compiles as <-[..]-.
	Incoming
	// Undirected compiles as -[..]-.
	Undirected
)

// RelPattern is a relationship step inside a path (e.g. -[e:Knows]->).
// It never appears as a standalone pattern; use PathPattern.
type RelPattern struct {
	// Variable is the optional variable bound to the relationship.
	Variable string
	// Types are the relationship table names. Multiple types compile as e:A|B.
	Types []string
	// Properties are inline property constraints.
	Properties []Property
	// Direction is the relationship orientation relative to the path.
	Direction Direction
	// VarLength enables Kleene-star matching (*min..max).
	VarLength bool
	// MinHops is the lower hop bound. Zero omits the bound (*..max).
	MinHops int
	// MaxHops is the upper hop bound. Zero omits the bound (*min..).
	MaxHops int
}

func (RelPattern) queryNode() {}

// PathPattern is an alternating sequence of nodes and relationships.
// Nodes must hold exactly one more element than Rels.
type PathPattern struct {
	// Nodes are the node patterns along the path.
	Nodes []NodePattern
	// Rels are the relationship patterns between consecutive nodes.
	Rels []RelPattern
}

func (PathPattern) queryNode() {}
func (PathPattern) pattern()   {}

// --- Clauses ---

// Clause is the marker interface for top-level query clauses.
type Clause interface {
	QueryNode
	clause()
}

// MatchClause is a MATCH or OPTIONAL MATCH clause with an optional
// attached WHERE subclause.
type MatchClause struct {
	// Patterns are the graph patterns to match, joined by commas.
	Patterns []Pattern
	// Optional compiles the clause as OPTIONAL MATCH.
	Optional bool
	// Where is the optional filter expression.
	Where Expr
}

func (MatchClause) queryNode() {}
func (MatchClause) clause()    {}

// CreateClause is a CREATE clause.
type CreateClause struct {
	// Patterns are the patterns to create.
	Patterns []Pattern
}

func (CreateClause) queryNode() {}
func (CreateClause) clause()    {}

// MergeClause is a MERGE clause with optional ON CREATE and ON MATCH
// property assignments.
type MergeClause struct {
	// Pattern is the pattern to match or create.
	Pattern Pattern
	// OnCreate holds SET items applied when the pattern was created.
	OnCreate []SetItem
	// OnMatch holds SET items applied when the pattern already existed.
	OnMatch []SetItem
}

func (MergeClause) queryNode() {}
func (MergeClause) clause()    {}

// SetItem assigns a value to a property in SET, ON CREATE or ON MATCH.
type SetItem struct {
	// Property is the target property reference.
	Property PropertyRef
	// Value is the value expression to assign.
	Value Expr
}

// SetClause is a SET clause.
type SetClause struct {
	// Items are the property assignments.
	Items []SetItem
}

func (SetClause) queryNode() {}
func (SetClause) clause()    {}

// DeleteClause is a DELETE or DETACH DELETE clause.
type DeleteClause struct {
	// Variables name the nodes or relationships to delete.
	Variables []string
	// Detach compiles the clause as DETACH DELETE.
	Detach bool
}

func (DeleteClause) queryNode() {}
func (DeleteClause) clause()    {}

// ReturnItem is a projection in a RETURN or WITH clause.
type ReturnItem struct {
	// Expression is the projected expression.
	Expression Expr
	// Alias is the optional AS alias.
	Alias string
}

// ReturnClause is a RETURN clause.
type ReturnClause struct {
	// Items are the projections.
	Items []ReturnItem
	// Distinct compiles the clause as RETURN DISTINCT.
	Distinct bool
}

func (ReturnClause) queryNode() {}
func (ReturnClause) clause()    {}

// WithClause is a WITH clause carrying projections between query parts,
// with an optional attached WHERE subclause.
type WithClause struct {
	// Items are the projections.
	Items []ReturnItem
	// Distinct compiles the clause as WITH DISTINCT.
	Distinct bool
	// Where is the optional filter expression.
	Where Expr
}

func (WithClause) queryNode() {}
func (WithClause) clause()    {}

// UnwindClause is an UNWIND clause expanding a list into rows.
type UnwindClause struct {
	// Expression is the list expression to expand.
	Expression Expr
	// Alias is the variable bound to each element.
	Alias string
}

func (UnwindClause) queryNode() {}
func (UnwindClause) clause()    {}

// CallClause invokes a built-in table function (e.g. CALL show_tables()).
// Follow it with a ReturnClause to project the produced rows.
type CallClause struct {
	// Procedure is the function name.
	Procedure string
	// Args are the function arguments.
	Args []Expr
}

func (CallClause) queryNode() {}
func (CallClause) clause()    {}

// OrderItem is a single sort key in an ORDER BY clause.
type OrderItem struct {
	// Expression is the sort key.
	Expression Expr
	// Descending selects DESC instead of ASC.
	Descending bool
}

// OrderByClause is an ORDER BY clause. It must follow a ReturnClause or
// WithClause in the query.
type OrderByClause struct {
	// Items are the sort keys.
	Items []OrderItem
}

func (OrderByClause) queryNode() {}
func (OrderByClause) clause()    {}

// SkipClause is a SKIP clause.
type SkipClause struct {
	// Count is the number of rows to skip.
	Count int64
}

func (SkipClause) queryNode() {}
func (SkipClause) clause()    {}

// LimitClause is a LIMIT clause.
type LimitClause struct {
	// Count is the maximum number of rows to return.
	Count int64
}

func (LimitClause) queryNode() {}
func (LimitClause) clause()    {}

// RawClause is a raw Cypher fragment emitted verbatim as a clause.
type RawClause struct {
	// Content is the raw Cypher text.
	Content string
}

func (RawClause) queryNode() {}
func (RawClause) clause()    {}

// Query is an ordered sequence of clauses forming one statement.
type Query struct {
	// Clauses are the clauses in emission order.
	Clauses []Clause
}
