// Package cypher provides builder helpers for ergonomic AST construction.
package cypher

// Match creates a MatchClause with the given patterns.
func Match(patterns ...Pattern) MatchClause {
	return MatchClause{Patterns: patterns}
}

// OptionalMatch creates an OPTIONAL MATCH clause with the given patterns.
func OptionalMatch(patterns ...Pattern) MatchClause {
	return MatchClause{Patterns: patterns, Optional: true}
}

// WithWhere returns a copy of the clause with the given filter expression.
func (m MatchClause) WithWhere(cond Expr) MatchClause {
	m.Where = cond
	return m
}

// Create creates a CreateClause with the given patterns.
func Create(patterns ...Pattern) CreateClause {
	return CreateClause{Patterns: patterns}
}

// Merge creates a MergeClause for the given pattern.
func Merge(pattern Pattern) MergeClause {
	return MergeClause{Pattern: pattern}
}

// Set creates a SetClause with the given assignments.
func Set(items ...SetItem) SetClause {
	return SetClause{Items: items}
}

// SetProp creates a SetItem assigning a value to variable.property.
// Non-Expr values are wrapped as literals.
func SetProp(variable, property string, value any) SetItem {
	return SetItem{
		Property: PropertyRef{Variable: variable, Name: property},
		Value:    asExpr(value),
	}
}

// Delete creates a DeleteClause for the given variables.
func Delete(variables ...string) DeleteClause {
	return DeleteClause{Variables: variables}
}

// DetachDelete creates a DETACH DELETE clause for the given variables.
func DetachDelete(variables ...string) DeleteClause {
	return DeleteClause{Variables: variables, Detach: true}
}

// Return creates a ReturnClause with the given items.
func Return(items ...ReturnItem) ReturnClause {
	return ReturnClause{Items: items}
}

// ReturnDistinct creates a RETURN DISTINCT clause with the given items.
func ReturnDistinct(items ...ReturnItem) ReturnClause {
	return ReturnClause{Items: items, Distinct: true}
}

// ReturnAll creates a RETURN * clause.
func ReturnAll() ReturnClause {
	return ReturnClause{Items: []ReturnItem{{Expression: RawExpr{Content: "*"}}}}
}

// Item creates a ReturnItem without an alias.
func Item(e Expr) ReturnItem {
	return ReturnItem{Expression: e}
}

// As creates a ReturnItem with an AS alias.
func As(e Expr, alias string) ReturnItem {
	return ReturnItem{Expression: e, Alias: alias}
}

// With creates a WithClause with the given items.
func With(items ...ReturnItem) WithClause {
	return WithClause{Items: items}
}

// Unwind creates an UnwindClause binding each element of list to alias.
func Unwind(list Expr, alias string) UnwindClause {
	return UnwindClause{Expression: list, Alias: alias}
}

// Call creates a CallClause invoking a built-in table function.
func Call(procedure string, args ...Expr) CallClause {
	return CallClause{Procedure: procedure, Args: args}
}

// OrderBy creates an OrderByClause with the given sort keys.
func OrderBy(items ...OrderItem) OrderByClause {
	return OrderByClause{Items: items}
}

// Asc creates an ascending OrderItem.
func Asc(e Expr) OrderItem {
	return OrderItem{Expression: e}
}

// Desc creates a descending OrderItem.
func Desc(e Expr) OrderItem {
	return OrderItem{Expression: e, Descending: true}
}

// Skip creates a SkipClause.
func Skip(count int64) SkipClause {
	return SkipClause{Count: count}
}

// Limit creates a LimitClause.
func Limit(count int64) LimitClause {
	return LimitClause{Count: count}
}

// Node creates a NodePattern with a variable, a single label and optional
// inline properties. Use the struct directly for multi-label patterns.
func Node(variable, label string, properties ...Property) NodePattern {
	var labels []string
	if label != "" {
		labels = []string{label}
	}
	return NodePattern{Variable: variable, Labels: labels, Properties: properties}
}

// AnyNode creates an unlabeled NodePattern bound to variable.
func AnyNode(variable string) NodePattern {
	return NodePattern{Variable: variable}
}

// Rel creates an outgoing RelPattern with a variable, a single type and
// optional inline properties.
func Rel(variable, relType string, properties ...Property) RelPattern {
	var types []string
	if relType != "" {
		types = []string{relType}
	}
	return RelPattern{Variable: variable, Types: types, Properties: properties}
}

// RelIn returns a copy of the pattern directed toward the preceding node.
func (r RelPattern) RelIn() RelPattern {
	r.Direction = Incoming
	return r
}

// RelBoth returns a copy of the pattern with no direction.
func (r RelPattern) RelBoth() RelPattern {
	r.Direction = Undirected
	return r
}

// Hops returns a copy of the pattern with variable-length bounds.
// A zero bound is omitted from the compiled form.
func (r RelPattern) Hops(min, max int) RelPattern {
	r.VarLength = true
	r.MinHops = min
	r.MaxHops = max
	return r
}

// Path starts a PathPattern at the given node.
func Path(start NodePattern) PathPattern {
	return PathPattern{Nodes: []NodePattern{start}}
}

// To extends the path with a relationship step and its target node.
func (p PathPattern) To(rel RelPattern, node NodePattern) PathPattern {
	p.Rels = append(p.Rels, rel)
	p.Nodes = append(p.Nodes, node)
	return p
}

// PropLit creates an inline pattern property with a literal value.
func PropLit(name string, value any) Property {
	return Property{Name: name, Value: asExpr(value)}
}

// PropParam creates an inline pattern property bound to a query parameter.
func PropParam(name, param string) Property {
	return Property{Name: name, Value: ParamRef{Name: param}}
}

// Var creates a Variable reference.
func Var(name string) Variable {
	return Variable{Name: name}
}

// Prop creates a PropertyRef for variable.name.
func Prop(variable, name string) PropertyRef {
	return PropertyRef{Variable: variable, Name: name}
}

// Lit creates a Literal from any Go value.
func Lit(value any) Literal {
	return Literal{Val: value}
}

// Param creates a ParamRef for the given parameter name.
func Param(name string) ParamRef {
	return ParamRef{Name: name}
}

// Raw creates a RawExpr emitted verbatim.
func Raw(content string) RawExpr {
	return RawExpr{Content: content}
}

// Func creates a FunctionCall with the given arguments.
func Func(name string, args ...Expr) FunctionCall {
	return FunctionCall{Name: name, Args: args}
}

// Count creates a count(arg) call.
func Count(arg Expr) FunctionCall {
	return FunctionCall{Name: "count", Args: []Expr{arg}}
}

// CountAll creates a count(*) call.
func CountAll() FunctionCall {
	return FunctionCall{Name: "count", Star: true}
}

// ID creates an id(variable) call returning the internal identifier.
func ID(variable string) FunctionCall {
	return FunctionCall{Name: "id", Args: []Expr{Variable{Name: variable}}}
}

// Eq creates an equality comparison. Non-Expr values are wrapped as literals.
func Eq(left Expr, right any) BinaryExpr {
	return BinaryExpr{Left: left, Operator: "=", Right: asExpr(right)}
}

// Neq creates an inequality comparison.
func Neq(left Expr, right any) BinaryExpr {
	return BinaryExpr{Left: left, Operator: "<>", Right: asExpr(right)}
}

// Lt creates a less-than comparison.
func Lt(left Expr, right any) BinaryExpr {
	return BinaryExpr{Left: left, Operator: "<", Right: asExpr(right)}
}

// Lte creates a less-than-or-equal comparison.
func Lte(left Expr, right any) BinaryExpr {
	return BinaryExpr{Left: left, Operator: "<=", Right: asExpr(right)}
}

// Gt creates a greater-than comparison.
func Gt(left Expr, right any) BinaryExpr {
	return BinaryExpr{Left: left, Operator: ">", Right: asExpr(right)}
}

// Gte creates a greater-than-or-equal comparison.
func Gte(left Expr, right any) BinaryExpr {
	return BinaryExpr{Left: left, Operator: ">=", Right: asExpr(right)}
}

// In creates a list membership test.
func In(left Expr, right any) BinaryExpr {
	return BinaryExpr{Left: left, Operator: "IN", Right: asExpr(right)}
}

// Contains creates a substring containment test.
func Contains(left Expr, right any) BinaryExpr {
	return BinaryExpr{Left: left, Operator: "CONTAINS", Right: asExpr(right)}
}

// StartsWith creates a prefix test.
func StartsWith(left Expr, right any) BinaryExpr {
	return BinaryExpr{Left: left, Operator: "STARTS WITH", Right: asExpr(right)}
}

// EndsWith creates a suffix test.
func EndsWith(left Expr, right any) BinaryExpr {
	return BinaryExpr{Left: left, Operator: "ENDS WITH", Right: asExpr(right)}
}

// And folds the given expressions into a conjunction. A single expression
// is returned unchanged; no expressions yields nil.
func And(exprs ...Expr) Expr {
	return fold("AND", exprs)
}

// Or folds the given expressions into a disjunction.
func Or(exprs ...Expr) Expr {
	return fold("OR", exprs)
}

func fold(op string, exprs []Expr) Expr {
	if len(exprs) == 0 {
		return nil
	}
	out := exprs[0]
	for _, e := range exprs[1:] {
		out = BinaryExpr{Left: out, Operator: op, Right: e}
	}
	return out
}

// Not creates a negation.
func Not(e Expr) NotExpr {
	return NotExpr{Operand: e}
}

// IsNull creates an IS NULL test.
func IsNull(e Expr) IsNullExpr {
	return IsNullExpr{Operand: e}
}

// IsNotNull creates an IS NOT NULL test.
func IsNotNull(e Expr) IsNullExpr {
	return IsNullExpr{Operand: e, Negated: true}
}

// List creates a ListExpr from Go values, wrapping non-Expr values as
// literals.
func List(items ...any) ListExpr {
	exprs := make([]Expr, 0, len(items))
	for _, item := range items {
		exprs = append(exprs, asExpr(item))
	}
	return ListExpr{Items: exprs}
}

// asExpr passes Expr values through and wraps everything else as a Literal.
func asExpr(v any) Expr {
	if e, ok := v.(Expr); ok {
		return e
	}
	return Literal{Val: v}
}
