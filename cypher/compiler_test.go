package cypher

import (
	"strings"
	"testing"
)

func TestCompiler_MatchClause(t *testing.T) {
	c := &Compiler{}
	tests := []struct {
		name string
		node QueryNode
		want string
	}{
		{
			name: "simple node match",
			node: MatchClause{
				Patterns: []Pattern{
					NodePattern{Variable: "a", Labels: []string{"Person"}},
				},
			},
			want: "MATCH (a:Person)",
		},
		{
			name: "node with inline properties",
			node: MatchClause{
				Patterns: []Pattern{
					NodePattern{
						Variable: "a",
						Labels:   []string{"Person"},
						Properties: []Property{
							{Name: "name", Value: Literal{Val: "Alice"}},
							{Name: "age", Value: Literal{Val: 30}},
						},
					},
				},
			},
			want: `MATCH (a:Person {name: "Alice", age: 30})`,
		},
		{
			name: "unlabeled node",
			node: MatchClause{
				Patterns: []Pattern{
					NodePattern{Variable: "n"},
				},
			},
			want: "MATCH (n)",
		},
		{
			name: "anonymous labeled node",
			node: MatchClause{
				Patterns: []Pattern{
					NodePattern{Labels: []string{"Person"}},
				},
			},
			want: "MATCH (:Person)",
		},
		{
			name: "multiple patterns",
			node: MatchClause{
				Patterns: []Pattern{
					NodePattern{Variable: "a", Labels: []string{"Person"}},
					NodePattern{Variable: "b", Labels: []string{"City"}},
				},
			},
			want: "MATCH (a:Person), (b:City)",
		},
		{
			name: "optional match",
			node: MatchClause{
				Patterns: []Pattern{
					NodePattern{Variable: "a", Labels: []string{"Person"}},
				},
				Optional: true,
			},
			want: "OPTIONAL MATCH (a:Person)",
		},
		{
			name: "match with where",
			node: MatchClause{
				Patterns: []Pattern{
					NodePattern{Variable: "a", Labels: []string{"Person"}},
				},
				Where: BinaryExpr{
					Left:     PropertyRef{Variable: "a", Name: "age"},
					Operator: ">",
					Right:    Literal{Val: 30},
				},
			},
			want: "MATCH (a:Person)\nWHERE a.age > 30",
		},
		{
			name: "path with outgoing relationship",
			node: MatchClause{
				Patterns: []Pattern{
					PathPattern{
						Nodes: []NodePattern{
							{Variable: "a", Labels: []string{"Person"}},
							{Variable: "b", Labels: []string{"Person"}},
						},
						Rels: []RelPattern{
							{Variable: "e", Types: []string{"Knows"}},
						},
					},
				},
			},
			want: "MATCH (a:Person)-[e:Knows]->(b:Person)",
		},
		{
			name: "path with incoming relationship",
			node: MatchClause{
				Patterns: []Pattern{
					PathPattern{
						Nodes: []NodePattern{
							{Variable: "a"},
							{Variable: "b"},
						},
						Rels: []RelPattern{
							{Variable: "e", Types: []string{"Knows"}, Direction: Incoming},
						},
					},
				},
			},
			want: "MATCH (a)<-[e:Knows]-(b)",
		},
		{
			name: "path with undirected relationship",
			node: MatchClause{
				Patterns: []Pattern{
					PathPattern{
						Nodes: []NodePattern{
							{Variable: "a"},
							{Variable: "b"},
						},
						Rels: []RelPattern{
							{Variable: "e", Types: []string{"Knows"}, Direction: Undirected},
						},
					},
				},
			},
			want: "MATCH (a)-[e:Knows]-(b)",
		},
		{
			name: "anonymous relationship",
			node: MatchClause{
				Patterns: []Pattern{
					PathPattern{
						Nodes: []NodePattern{
							{Variable: "a"},
							{Variable: "b"},
						},
						Rels: []RelPattern{{}},
					},
				},
			},
			want: "MATCH (a)-[]->(b)",
		},
		{
			name: "multi type relationship",
			node: MatchClause{
				Patterns: []Pattern{
					PathPattern{
						Nodes: []NodePattern{
							{Variable: "a"},
							{Variable: "b"},
						},
						Rels: []RelPattern{
							{Variable: "e", Types: []string{"Knows", "WorksWith"}},
						},
					},
				},
			},
			want: "MATCH (a)-[e:Knows|WorksWith]->(b)",
		},
		{
			name: "variable length relationship",
			node: MatchClause{
				Patterns: []Pattern{
					PathPattern{
						Nodes: []NodePattern{
							{Variable: "a"},
							{Variable: "b"},
						},
						Rels: []RelPattern{
							{Variable: "e", Types: []string{"Knows"}, VarLength: true, MinHops: 1, MaxHops: 3},
						},
					},
				},
			},
			want: "MATCH (a)-[e:Knows*1..3]->(b)",
		},
		{
			name: "variable length without lower bound",
			node: MatchClause{
				Patterns: []Pattern{
					PathPattern{
						Nodes: []NodePattern{
							{Variable: "a"},
							{Variable: "b"},
						},
						Rels: []RelPattern{
							{Types: []string{"Knows"}, VarLength: true, MaxHops: 3},
						},
					},
				},
			},
			want: "MATCH (a)-[:Knows*..3]->(b)",
		},
		{
			name: "relationship with properties",
			node: MatchClause{
				Patterns: []Pattern{
					PathPattern{
						Nodes: []NodePattern{
							{Variable: "a"},
							{Variable: "b"},
						},
						Rels: []RelPattern{
							{
								Variable: "e",
								Types:    []string{"Knows"},
								Properties: []Property{
									{Name: "since", Value: Literal{Val: 2020}},
								},
							},
						},
					},
				},
			},
			want: "MATCH (a)-[e:Knows {since: 2020}]->(b)",
		},
		{
			name: "two hop path",
			node: MatchClause{
				Patterns: []Pattern{
					PathPattern{
						Nodes: []NodePattern{
							{Variable: "a", Labels: []string{"Person"}},
							{Variable: "b", Labels: []string{"Person"}},
							{Variable: "c", Labels: []string{"City"}},
						},
						Rels: []RelPattern{
							{Types: []string{"Knows"}},
							{Types: []string{"LivesIn"}},
						},
					},
				},
			},
			want: "MATCH (a:Person)-[:Knows]->(b:Person)-[:LivesIn]->(c:City)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Compile(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestCompiler_Mutations(t *testing.T) {
	c := &Compiler{}
	tests := []struct {
		name string
		node QueryNode
		want string
	}{
		{
			name: "create node",
			node: CreateClause{
				Patterns: []Pattern{
					NodePattern{
						Variable: "a",
						Labels:   []string{"Person"},
						Properties: []Property{
							{Name: "name", Value: Literal{Val: "Alice"}},
						},
					},
				},
			},
			want: `CREATE (a:Person {name: "Alice"})`,
		},
		{
			name: "create relationship",
			node: CreateClause{
				Patterns: []Pattern{
					PathPattern{
						Nodes: []NodePattern{
							{Variable: "a"},
							{Variable: "b"},
						},
						Rels: []RelPattern{
							{Types: []string{"Knows"}, Properties: []Property{
								{Name: "since", Value: Literal{Val: 2021}},
							}},
						},
					},
				},
			},
			want: "CREATE (a)-[:Knows {since: 2021}]->(b)",
		},
		{
			name: "merge with on create and on match",
			node: MergeClause{
				Pattern: NodePattern{
					Variable: "a",
					Labels:   []string{"Person"},
					Properties: []Property{
						{Name: "name", Value: Literal{Val: "Alice"}},
					},
				},
				OnCreate: []SetItem{
					{Property: PropertyRef{Variable: "a", Name: "visits"}, Value: Literal{Val: 1}},
				},
				OnMatch: []SetItem{
					{Property: PropertyRef{Variable: "a", Name: "visits"}, Value: RawExpr{Content: "a.visits + 1"}},
				},
			},
			want: `MERGE (a:Person {name: "Alice"})
ON CREATE SET a.visits = 1
ON MATCH SET a.visits = a.visits + 1`,
		},
		{
			name: "plain merge",
			node: MergeClause{
				Pattern: NodePattern{Variable: "a", Labels: []string{"Person"}},
			},
			want: "MERGE (a:Person)",
		},
		{
			name: "set single property",
			node: SetClause{
				Items: []SetItem{
					{Property: PropertyRef{Variable: "a", Name: "age"}, Value: Literal{Val: 40}},
				},
			},
			want: "SET a.age = 40",
		},
		{
			name: "set multiple properties",
			node: SetClause{
				Items: []SetItem{
					{Property: PropertyRef{Variable: "a", Name: "age"}, Value: Literal{Val: 40}},
					{Property: PropertyRef{Variable: "a", Name: "name"}, Value: Literal{Val: "Bob"}},
				},
			},
			want: `SET a.age = 40, a.name = "Bob"`,
		},
		{
			name: "set property to null",
			node: SetClause{
				Items: []SetItem{
					{Property: PropertyRef{Variable: "a", Name: "nickname"}, Value: Literal{Val: nil}},
				},
			},
			want: "SET a.nickname = NULL",
		},
		{
			name: "delete",
			node: DeleteClause{Variables: []string{"e"}},
			want: "DELETE e",
		},
		{
			name: "detach delete",
			node: DeleteClause{Variables: []string{"a", "b"}, Detach: true},
			want: "DETACH DELETE a, b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Compile(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestCompiler_Projections(t *testing.T) {
	c := &Compiler{}
	tests := []struct {
		name string
		node QueryNode
		want string
	}{
		{
			name: "return variable",
			node: ReturnClause{
				Items: []ReturnItem{
					{Expression: Variable{Name: "a"}},
				},
			},
			want: "RETURN a",
		},
		{
			name: "return property with alias",
			node: ReturnClause{
				Items: []ReturnItem{
					{Expression: PropertyRef{Variable: "a", Name: "name"}, Alias: "name"},
					{Expression: FunctionCall{Name: "count", Star: true}},
				},
			},
			want: "RETURN a.name AS name, count(*)",
		},
		{
			name: "return distinct",
			node: ReturnClause{
				Items: []ReturnItem{
					{Expression: PropertyRef{Variable: "a", Name: "city"}},
				},
				Distinct: true,
			},
			want: "RETURN DISTINCT a.city",
		},
		{
			name: "return star",
			node: ReturnClause{
				Items: []ReturnItem{
					{Expression: RawExpr{Content: "*"}},
				},
			},
			want: "RETURN *",
		},
		{
			name: "with projection",
			node: WithClause{
				Items: []ReturnItem{
					{Expression: Variable{Name: "a"}},
					{Expression: FunctionCall{Name: "count", Args: []Expr{Variable{Name: "b"}}}, Alias: "cnt"},
				},
			},
			want: "WITH a, count(b) AS cnt",
		},
		{
			name: "with where",
			node: WithClause{
				Items: []ReturnItem{
					{Expression: Variable{Name: "a"}},
					{Expression: FunctionCall{Name: "count", Args: []Expr{Variable{Name: "b"}}}, Alias: "cnt"},
				},
				Where: BinaryExpr{
					Left:     Variable{Name: "cnt"},
					Operator: ">",
					Right:    Literal{Val: 2},
				},
			},
			want: "WITH a, count(b) AS cnt\nWHERE cnt > 2",
		},
		{
			name: "unwind list",
			node: UnwindClause{
				Expression: ListExpr{Items: []Expr{
					Literal{Val: 1}, Literal{Val: 2}, Literal{Val: 3},
				}},
				Alias: "x",
			},
			want: "UNWIND [1, 2, 3] AS x",
		},
		{
			name: "call table function",
			node: CallClause{
				Procedure: "table_info",
				Args:      []Expr{Literal{Val: "Person"}},
			},
			want: `CALL table_info("Person")`,
		},
		{
			name: "call without args",
			node: CallClause{Procedure: "show_tables"},
			want: "CALL show_tables()",
		},
		{
			name: "order by",
			node: OrderByClause{
				Items: []OrderItem{
					{Expression: PropertyRef{Variable: "a", Name: "name"}},
					{Expression: PropertyRef{Variable: "a", Name: "age"}, Descending: true},
				},
			},
			want: "ORDER BY a.name ASC, a.age DESC",
		},
		{
			name: "skip",
			node: SkipClause{Count: 5},
			want: "SKIP 5",
		},
		{
			name: "limit",
			node: LimitClause{Count: 10},
			want: "LIMIT 10",
		},
		{
			name: "raw clause",
			node: RawClause{Content: "CALL threads=4"},
			want: "CALL threads=4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Compile(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestCompiler_Expressions(t *testing.T) {
	c := &Compiler{}
	tests := []struct {
		name string
		node QueryNode
		want string
	}{
		{
			name: "parameter reference",
			node: ParamRef{Name: "name"},
			want: "$name",
		},
		{
			name: "comparison without parentheses",
			node: BinaryExpr{
				Left:     PropertyRef{Variable: "a", Name: "age"},
				Operator: ">=",
				Right:    Literal{Val: 18},
			},
			want: "a.age >= 18",
		},
		{
			name: "conjunction is parenthesized",
			node: BinaryExpr{
				Left: BinaryExpr{
					Left:     PropertyRef{Variable: "a", Name: "age"},
					Operator: ">",
					Right:    Literal{Val: 30},
				},
				Operator: "AND",
				Right: BinaryExpr{
					Left:     PropertyRef{Variable: "a", Name: "name"},
					Operator: "=",
					Right:    Literal{Val: "Alice"},
				},
			},
			want: `(a.age > 30 AND a.name = "Alice")`,
		},
		{
			name: "arithmetic is parenthesized",
			node: BinaryExpr{
				Left:     PropertyRef{Variable: "a", Name: "age"},
				Operator: "+",
				Right:    Literal{Val: 1},
			},
			want: "(a.age + 1)",
		},
		{
			name: "not",
			node: NotExpr{
				Operand: BinaryExpr{
					Left:     PropertyRef{Variable: "a", Name: "age"},
					Operator: "<",
					Right:    Literal{Val: 18},
				},
			},
			want: "NOT (a.age < 18)",
		},
		{
			name: "is null",
			node: IsNullExpr{Operand: PropertyRef{Variable: "a", Name: "email"}},
			want: "a.email IS NULL",
		},
		{
			name: "is not null",
			node: IsNullExpr{Operand: PropertyRef{Variable: "a", Name: "email"}, Negated: true},
			want: "a.email IS NOT NULL",
		},
		{
			name: "in list",
			node: BinaryExpr{
				Left:     PropertyRef{Variable: "a", Name: "name"},
				Operator: "IN",
				Right: ListExpr{Items: []Expr{
					Literal{Val: "Alice"}, Literal{Val: "Bob"},
				}},
			},
			want: `a.name IN ["Alice", "Bob"]`,
		},
		{
			name: "function with distinct",
			node: FunctionCall{
				Name:     "count",
				Args:     []Expr{Variable{Name: "a"}},
				Distinct: true,
			},
			want: "count(DISTINCT a)",
		},
		{
			name: "id function",
			node: FunctionCall{Name: "id", Args: []Expr{Variable{Name: "n"}}},
			want: "id(n)",
		},
		{
			name: "map expression",
			node: MapExpr{
				Keys:   []string{"name", "age"},
				Values: []Expr{Literal{Val: "Alice"}, Literal{Val: 30}},
			},
			want: `{name: "Alice", age: 30}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Compile(tt.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestCompiler_CompileQuery(t *testing.T) {
	c := &Compiler{}
	q := Query{Clauses: []Clause{
		MatchClause{
			Patterns: []Pattern{
				PathPattern{
					Nodes: []NodePattern{
						{Variable: "a", Labels: []string{"Person"}},
						{Variable: "b", Labels: []string{"Person"}},
					},
					Rels: []RelPattern{
						{Variable: "e", Types: []string{"Knows"}},
					},
				},
			},
			Where: BinaryExpr{
				Left:     PropertyRef{Variable: "a", Name: "name"},
				Operator: "=",
				Right:    ParamRef{Name: "name"},
			},
		},
		ReturnClause{
			Items: []ReturnItem{
				{Expression: PropertyRef{Variable: "b", Name: "name"}, Alias: "friend"},
			},
		},
		OrderByClause{
			Items: []OrderItem{
				{Expression: Variable{Name: "friend"}},
			},
		},
		SkipClause{Count: 2},
		LimitClause{Count: 10},
	}}

	got, err := c.CompileQuery(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `MATCH (a:Person)-[e:Knows]->(b:Person)
WHERE a.name = $name
RETURN b.name AS friend
ORDER BY friend ASC
SKIP 2
LIMIT 10`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestCompiler_Errors(t *testing.T) {
	c := &Compiler{}
	tests := []struct {
		name    string
		node    QueryNode
		wantErr string
	}{
		{
			name:    "match without patterns",
			node:    MatchClause{},
			wantErr: "no patterns",
		},
		{
			name:    "create without patterns",
			node:    CreateClause{},
			wantErr: "no patterns",
		},
		{
			name:    "merge without pattern",
			node:    MergeClause{},
			wantErr: "no pattern",
		},
		{
			name:    "return without items",
			node:    ReturnClause{},
			wantErr: "no items",
		},
		{
			name:    "delete without variables",
			node:    DeleteClause{},
			wantErr: "no variables",
		},
		{
			name: "path with mismatched nodes and rels",
			node: MatchClause{
				Patterns: []Pattern{
					PathPattern{
						Nodes: []NodePattern{{Variable: "a"}},
						Rels:  []RelPattern{{Types: []string{"Knows"}}},
					},
				},
			},
			wantErr: "path pattern",
		},
		{
			name: "binary expression with nil operand",
			node: BinaryExpr{Operator: "="},
			wantErr: "nil operand",
		},
		{
			name: "map with mismatched keys and values",
			node: MapExpr{Keys: []string{"a"}, Values: nil},
			wantErr: "map expression",
		},
		{
			name:    "literal with no Cypher representation",
			node:    Literal{Val: struct{ F func() }{}},
			wantErr: "cannot format struct { F func() }",
		},
		{
			name:    "channel literal",
			node:    Literal{Val: make(chan int)},
			wantErr: "cannot format chan int",
		},
		{
			name: "unformattable value nested in list",
			node: Literal{Val: []any{1, make(chan int)}},
			wantErr: "cannot format chan int",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Compile(tt.node)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}

	if _, err := c.CompileQuery(Query{}); err == nil {
		t.Error("expected error for empty query, got nil")
	}
}
