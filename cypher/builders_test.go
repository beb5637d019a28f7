package cypher

import "testing"

func compileNode(t *testing.T, node QueryNode) string {
	t.Helper()
	c := &Compiler{}
	got, err := c.Compile(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return got
}

func TestBuilders_MatchReturn(t *testing.T) {
	q := Query{Clauses: []Clause{
		Match(
			Path(Node("a", "Person", PropLit("name", "Alice"))).
				To(Rel("e", "Knows"), Node("b", "Person")),
		),
		Return(As(Prop("b", "name"), "friend"), Item(CountAll())),
	}}

	c := &Compiler{}
	got, err := c.CompileQuery(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `MATCH (a:Person {name: "Alice"})-[e:Knows]->(b:Person)
RETURN b.name AS friend, count(*)`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuilders_WhereComposition(t *testing.T) {
	clause := Match(Node("a", "Person")).WithWhere(And(
		Gt(Prop("a", "age"), 30),
		Or(
			Eq(Prop("a", "city"), "Berlin"),
			Eq(Prop("a", "city"), "Paris"),
		),
	))

	got := compileNode(t, clause)
	want := `MATCH (a:Person)
WHERE (a.age > 30 AND (a.city = "Berlin" OR a.city = "Paris"))`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuilders_RelDirections(t *testing.T) {
	tests := []struct {
		name string
		rel  RelPattern
		want string
	}{
		{"outgoing", Rel("e", "Knows"), "(a)-[e:Knows]->(b)"},
		{"incoming", Rel("e", "Knows").RelIn(), "(a)<-[e:Knows]-(b)"},
		{"undirected", Rel("e", "Knows").RelBoth(), "(a)-[e:Knows]-(b)"},
		{"variable length", Rel("e", "Knows").Hops(1, 3), "(a)-[e:Knows*1..3]->(b)"},
		{"unbounded", Rel("e", "Knows").Hops(0, 0), "(a)-[e:Knows*]->(b)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Path(AnyNode("a")).To(tt.rel, AnyNode("b"))
			got := compileNode(t, p)
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBuilders_MergeAndSet(t *testing.T) {
	m := Merge(Node("a", "Person", PropParam("name", "name")))
	m.OnCreate = []SetItem{SetProp("a", "seen", 1)}
	m.OnMatch = []SetItem{SetProp("a", "seen", Raw("a.seen + 1"))}

	got := compileNode(t, m)
	want := `MERGE (a:Person {name: $name})
ON CREATE SET a.seen = 1
ON MATCH SET a.seen = a.seen + 1`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	set := Set(SetProp("a", "age", 40), SetProp("a", "name", Param("n")))
	got = compileNode(t, set)
	want = "SET a.age = 40, a.name = $n"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestBuilders_Predicates(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"eq literal", Eq(Prop("a", "name"), "x"), `a.name = "x"`},
		{"neq", Neq(Prop("a", "name"), "x"), `a.name <> "x"`},
		{"lt", Lt(Prop("a", "age"), 10), "a.age < 10"},
		{"lte", Lte(Prop("a", "age"), 10), "a.age <= 10"},
		{"gt", Gt(Prop("a", "age"), 10), "a.age > 10"},
		{"gte", Gte(Prop("a", "age"), 10), "a.age >= 10"},
		{"in", In(Prop("a", "name"), List("x", "y")), `a.name IN ["x", "y"]`},
		{"contains", Contains(Prop("a", "name"), "li"), `a.name CONTAINS "li"`},
		{"starts with", StartsWith(Prop("a", "name"), "A"), `a.name STARTS WITH "A"`},
		{"ends with", EndsWith(Prop("a", "name"), "e"), `a.name ENDS WITH "e"`},
		{"not", Not(Eq(Prop("a", "x"), 1)), "NOT (a.x = 1)"},
		{"is null", IsNull(Prop("a", "x")), "a.x IS NULL"},
		{"is not null", IsNotNull(Prop("a", "x")), "a.x IS NOT NULL"},
		{"param comparison", Eq(Prop("a", "name"), Param("name")), "a.name = $name"},
		{"id helper", Eq(ID("a"), Param("iid")), "id(a) = $iid"},
		{"count distinct", FunctionCall{Name: "count", Args: []Expr{Var("a")}, Distinct: true}, "count(DISTINCT a)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compileNode(t, tt.expr)
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBuilders_SingleExprFold(t *testing.T) {
	e := And(Eq(Prop("a", "x"), 1))
	got := compileNode(t, e)
	if got != "a.x = 1" {
		t.Errorf("single And operand should compile unchanged, got %s", got)
	}
	if And() != nil {
		t.Error("And() with no operands should be nil")
	}
}

func TestBuilders_CatalogCalls(t *testing.T) {
	q := Query{Clauses: []Clause{
		Call("show_tables"),
		ReturnAll(),
	}}
	c := &Compiler{}
	got, err := c.CompileQuery(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "CALL show_tables()\nRETURN *"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
