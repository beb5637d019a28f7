package ddlgen

import (
	"strings"
	"testing"
)

const testDDL = `// Social graph schema.
CREATE NODE TABLE User (
    name STRING,
    email STRING,
    age INT64,
    joined TIMESTAMP DEFAULT current_timestamp(),
    PRIMARY KEY (name)
);

CREATE NODE TABLE IF NOT EXISTS City (
    id SERIAL,
    name STRING,
    population INT64,
    area DOUBLE,
    tags STRING[],
    PRIMARY KEY (id)
);

/* Relationships below. */
CREATE REL TABLE Follows (FROM User TO User, since DATE);

CREATE REL TABLE IF NOT EXISTS LivesIn (
    FROM User TO City,
    moved_on DATE,
    weight DOUBLE DEFAULT 1.0,
    MANY_ONE
);
`

func TestParseSchema_Nodes(t *testing.T) {
	schema, err := ParseSchema(testDDL)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}

	if len(schema.Nodes) != 2 {
		t.Fatalf("expected 2 node tables, got %d", len(schema.Nodes))
	}

	u := schema.Nodes[0]
	if u.Name != "User" {
		t.Errorf("expected User, got %s", u.Name)
	}
	if u.IfNotExists {
		t.Error("User should not carry IF NOT EXISTS")
	}
	if len(u.Properties) != 4 {
		t.Fatalf("expected 4 properties on User, got %d", len(u.Properties))
	}
	if u.Properties[0].Name != "name" || u.Properties[0].Type != "STRING" {
		t.Errorf("expected name:STRING, got %s:%s", u.Properties[0].Name, u.Properties[0].Type)
	}
	if u.Properties[3].Default != "current_timestamp()" {
		t.Errorf("expected default current_timestamp(), got %q", u.Properties[3].Default)
	}
	if len(u.PrimaryKey) != 1 || u.PrimaryKey[0] != "name" {
		t.Errorf("expected primary key [name], got %v", u.PrimaryKey)
	}
	if !u.IsPrimaryKey("name") || u.IsPrimaryKey("email") {
		t.Error("IsPrimaryKey misreports key columns")
	}

	c := schema.Nodes[1]
	if c.Name != "City" || !c.IfNotExists {
		t.Errorf("expected City with IF NOT EXISTS, got %s (%v)", c.Name, c.IfNotExists)
	}
	if c.Properties[0].Type != "SERIAL" {
		t.Errorf("expected SERIAL id, got %s", c.Properties[0].Type)
	}
	if c.Properties[4].Type != "STRING[]" {
		t.Errorf("expected STRING[] tags, got %s", c.Properties[4].Type)
	}
}

func TestParseSchema_Rels(t *testing.T) {
	schema, err := ParseSchema(testDDL)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}

	if len(schema.Rels) != 2 {
		t.Fatalf("expected 2 rel tables, got %d", len(schema.Rels))
	}

	f := schema.Rels[0]
	if f.Name != "Follows" || f.From != "User" || f.To != "User" {
		t.Errorf("expected Follows FROM User TO User, got %s FROM %s TO %s", f.Name, f.From, f.To)
	}
	if f.Multiplicity != "" {
		t.Errorf("expected no multiplicity, got %q", f.Multiplicity)
	}
	if len(f.Properties) != 1 || f.Properties[0].Type != "DATE" {
		t.Errorf("expected one DATE property, got %v", f.Properties)
	}

	l := schema.Rels[1]
	if !l.IfNotExists {
		t.Error("LivesIn should carry IF NOT EXISTS")
	}
	if l.Multiplicity != "MANY_ONE" {
		t.Errorf("expected MANY_ONE, got %q", l.Multiplicity)
	}
	if len(l.Properties) != 2 {
		t.Fatalf("expected 2 properties on LivesIn, got %d", len(l.Properties))
	}
	if l.Properties[1].Default != "1.0" {
		t.Errorf("expected default 1.0, got %q", l.Properties[1].Default)
	}
}

func TestParseSchema_CaseInsensitiveKeywords(t *testing.T) {
	schema, err := ParseSchema(`create node table Person (name string, primary key (name));`)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}
	if len(schema.Nodes) != 1 {
		t.Fatalf("expected 1 node table, got %d", len(schema.Nodes))
	}
	if schema.Nodes[0].Properties[0].Type != "STRING" {
		t.Errorf("type should canonicalize to STRING, got %s", schema.Nodes[0].Properties[0].Type)
	}
	if schema.Nodes[0].PrimaryKey[0] != "name" {
		t.Errorf("expected primary key name, got %v", schema.Nodes[0].PrimaryKey)
	}
}

func TestParseSchema_SkipsUnsupportedStatements(t *testing.T) {
	script := `
CREATE NODE TABLE Person (name STRING, PRIMARY KEY (name));
COPY Person FROM "people.csv";
CREATE MACRO adult(a) AS a >= 18;
CREATE REL TABLE GROUP Interacts (FROM Person TO Person, FROM Person TO City);
CREATE REL TABLE Knows (FROM Person TO Person);
`
	schema, err := ParseSchema(script)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}
	if len(schema.Nodes) != 1 || len(schema.Rels) != 1 {
		t.Fatalf("expected 1 node and 1 rel, got %d nodes %d rels", len(schema.Nodes), len(schema.Rels))
	}
	if schema.Rels[0].Name != "Knows" {
		t.Errorf("expected Knows, got %s", schema.Rels[0].Name)
	}
}

func TestParseSchema_ComplexTypes(t *testing.T) {
	schema, err := ParseSchema(`
CREATE NODE TABLE Sensor (
    id UUID,
    matrix DOUBLE[3][],
    reading STRUCT(value DOUBLE, unit STRING),
    labels MAP(STRING, INT64),
    precision DECIMAL(18, 3),
    PRIMARY KEY (id)
);`)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}
	props := schema.Nodes[0].Properties
	want := map[string]string{
		"id":        "UUID",
		"matrix":    "DOUBLE[3][]",
		"reading":   "STRUCT(value DOUBLE, unit STRING)",
		"labels":    "MAP(STRING, INT64)",
		"precision": "DECIMAL(18, 3)",
	}
	for _, p := range props {
		if want[p.Name] != p.Type {
			t.Errorf("property %s: expected type %q, got %q", p.Name, want[p.Name], p.Type)
		}
	}
}

func TestParseSchema_BacktickIdentifiers(t *testing.T) {
	schema, err := ParseSchema("CREATE NODE TABLE `order item` (`line no` INT64, PRIMARY KEY (`line no`));")
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}
	n := schema.Nodes[0]
	if n.Name != "order item" {
		t.Errorf("expected unquoted name, got %q", n.Name)
	}
	if n.Properties[0].Name != "line no" || n.PrimaryKey[0] != "line no" {
		t.Errorf("backtick columns not unquoted: %v / %v", n.Properties[0], n.PrimaryKey)
	}
}

func TestParseSchema_MalformedStatement(t *testing.T) {
	_, err := ParseSchema(`CREATE NODE TABLE Person (name STRING PRIMARY KEY name);`)
	if err == nil {
		t.Fatal("expected parse error for malformed statement")
	}
	if !strings.Contains(err.Error(), "parse statement") {
		t.Errorf("error should name the failing statement, got: %v", err)
	}
}

func TestSplitStatements(t *testing.T) {
	script := `CREATE NODE TABLE A (s STRING DEFAULT 'x;y', PRIMARY KEY (s)); // tail; comment
/* block; comment */
CREATE NODE TABLE B (n INT64, PRIMARY KEY (n))`

	stmts := SplitStatements(script)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %v", len(stmts), stmts)
	}
	if !strings.Contains(stmts[0], "'x;y'") {
		t.Errorf("semicolon inside string should not split: %q", stmts[0])
	}
	if strings.Contains(stmts[1], "comment") {
		t.Errorf("comments should be stripped: %q", stmts[1])
	}
}

func TestNodeByName(t *testing.T) {
	schema, err := ParseSchema(testDDL)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}
	if n, ok := schema.NodeByName("City"); !ok || n.Name != "City" {
		t.Errorf("NodeByName(City) = %v, %v", n, ok)
	}
	if _, ok := schema.NodeByName("Nope"); ok {
		t.Error("NodeByName should miss on unknown table")
	}
}
