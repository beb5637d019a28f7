package gograph

import "testing"

// compileFilter renders a filter the way the query builder does, with the
// model bound to the "e" variable.
func compileFilter(t *testing.T, f Filter) string {
	t.Helper()
	expr := f.ToExpr("e")
	if expr == nil {
		t.Fatal("filter produced a nil expression")
	}
	s, err := compiler.Compile(expr)
	if err != nil {
		t.Fatalf("compile filter: %v", err)
	}
	return s
}

func TestComparisonFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"eq string", Eq("name", "Alice"), `e.name = "Alice"`},
		{"eq int", Eq("age", 30), "e.age = 30"},
		{"neq", Neq("name", "Bob"), `e.name <> "Bob"`},
		{"gt", Gt("age", 21), "e.age > 21"},
		{"gte", Gte("age", 21), "e.age >= 21"},
		{"lt", Lt("age", 65), "e.age < 65"},
		{"lte", Lte("age", 65), "e.age <= 65"},
		{"contains", Contains("email", "@"), `e.email CONTAINS "@"`},
		{"starts with", StartsWith("name", "Al"), `e.name STARTS WITH "Al"`},
		{"ends with", EndsWith("email", ".com"), `e.email ENDS WITH ".com"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compileFilter(t, tt.filter); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInFilters(t *testing.T) {
	got := compileFilter(t, In("name", "Alice", "Bob"))
	want := `e.name IN ["Alice", "Bob"]`
	if got != want {
		t.Errorf("In = %q, want %q", got, want)
	}

	got = compileFilter(t, NotIn("age", 1, 2, 3))
	want = "NOT (e.age IN [1, 2, 3])"
	if got != want {
		t.Errorf("NotIn = %q, want %q", got, want)
	}
}

func TestRangeFilter(t *testing.T) {
	got := compileFilter(t, Range("age", 18, 65))
	want := "(e.age >= 18 AND e.age <= 65)"
	if got != want {
		t.Errorf("Range = %q, want %q", got, want)
	}
}

func TestNullFilters(t *testing.T) {
	if got := compileFilter(t, IsNull("age")); got != "e.age IS NULL" {
		t.Errorf("IsNull = %q", got)
	}
	if got := compileFilter(t, NotNull("age")); got != "e.age IS NOT NULL" {
		t.Errorf("NotNull = %q", got)
	}
}

func TestIDFilterComparesOffset(t *testing.T) {
	got := compileFilter(t, ByID(InternalID{TableID: 2, Offset: 19}))
	want := "offset(id(e)) = 19"
	if got != want {
		t.Errorf("ByID = %q, want %q", got, want)
	}
}

func TestBooleanCombinators(t *testing.T) {
	got := compileFilter(t, And(Eq("name", "Alice"), Gt("age", 21)))
	want := `(e.name = "Alice" AND e.age > 21)`
	if got != want {
		t.Errorf("And = %q, want %q", got, want)
	}

	got = compileFilter(t, Or(Eq("name", "Alice"), Eq("name", "Bob")))
	want = `(e.name = "Alice" OR e.name = "Bob")`
	if got != want {
		t.Errorf("Or = %q, want %q", got, want)
	}

	got = compileFilter(t, Not(Eq("name", "Alice")))
	want = `NOT (e.name = "Alice")`
	if got != want {
		t.Errorf("Not = %q, want %q", got, want)
	}
}

func TestAndFlattensNestedAnds(t *testing.T) {
	nested := And(And(Eq("a", 1), Eq("b", 2)), Eq("c", 3))
	af, ok := nested.(*AndFilter)
	if !ok {
		t.Fatalf("And returned %T, want *AndFilter", nested)
	}
	if len(af.Filters) != 3 {
		t.Errorf("flattened filter count = %d, want 3", len(af.Filters))
	}

	got := compileFilter(t, nested)
	want := "((e.a = 1 AND e.b = 2) AND e.c = 3)"
	if got != want {
		t.Errorf("nested And = %q, want %q", got, want)
	}
}
