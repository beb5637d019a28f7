package ddlgen

import (
	"strings"
	"testing"
)

func renderToString(t *testing.T, ddl string, cfg RenderConfig) string {
	t.Helper()
	schema, err := ParseSchema(ddl)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}
	var b strings.Builder
	if err := Render(&b, schema, cfg); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return b.String()
}

func TestRender_NodeStruct(t *testing.T) {
	out := renderToString(t, `
CREATE NODE TABLE User (
    name STRING,
    email STRING,
    age INT64,
    PRIMARY KEY (name)
);`, DefaultConfig())

	if !strings.Contains(out, "// Code generated by kuzugen. DO NOT EDIT.") {
		t.Error("missing generated-code header")
	}
	if !strings.Contains(out, "package models") {
		t.Error("missing package clause")
	}
	if !strings.Contains(out, `"github.com/CaliLuke/go-kuzu/gograph"`) {
		t.Error("missing gograph import")
	}
	if !strings.Contains(out, "type User struct {\n\tgograph.BaseNode\n") {
		t.Errorf("missing User struct:\n%s", out)
	}
	if !strings.Contains(out, "Name string `kuzu:\"name,primary\"`") {
		t.Errorf("missing primary key field:\n%s", out)
	}
	if !strings.Contains(out, "Email string `kuzu:\"email\"`") {
		t.Errorf("missing plain field:\n%s", out)
	}
	if !strings.Contains(out, "Age int64 `kuzu:\"age\"`") {
		t.Errorf("missing int64 field:\n%s", out)
	}
	if strings.Contains(out, `"time"`) {
		t.Error("time should not be imported without temporal columns")
	}
}

func TestRender_SerialAndUUIDKeys(t *testing.T) {
	out := renderToString(t, `
CREATE NODE TABLE Ticket (id SERIAL, title STRING, PRIMARY KEY (id));
CREATE NODE TABLE Doc (doc_id UUID, body STRING, PRIMARY KEY (doc_id));`, DefaultConfig())

	if !strings.Contains(out, "ID int64 `kuzu:\"id,serial\"`") {
		t.Errorf("serial key should map to int64 with serial tag:\n%s", out)
	}
	if !strings.Contains(out, "DocID uuid.UUID `kuzu:\"doc_id,uuid\"`") {
		t.Errorf("uuid key should map to uuid.UUID with uuid tag:\n%s", out)
	}
	if !strings.Contains(out, `"github.com/google/uuid"`) {
		t.Error("missing uuid import")
	}
}

func TestRender_RelStruct(t *testing.T) {
	out := renderToString(t, `
CREATE NODE TABLE User (name STRING, PRIMARY KEY (name));
CREATE NODE TABLE City (name STRING, PRIMARY KEY (name));
CREATE REL TABLE LivesIn (FROM User TO City, since DATE, MANY_ONE);`, DefaultConfig())

	if !strings.Contains(out, "// LivesIn connects User to City.") {
		t.Errorf("missing rel comment:\n%s", out)
	}
	if !strings.Contains(out, "type LivesIn struct {\n\tgograph.BaseRel\n") {
		t.Errorf("missing LivesIn struct:\n%s", out)
	}
	if !strings.Contains(out, "User *User `kuzu:\",from,mult=MANY_ONE\"`") {
		t.Errorf("missing from endpoint with multiplicity:\n%s", out)
	}
	if !strings.Contains(out, "City *City `kuzu:\",to\"`") {
		t.Errorf("missing to endpoint:\n%s", out)
	}
	if !strings.Contains(out, "Since time.Time `kuzu:\"since\"`") {
		t.Errorf("missing rel property:\n%s", out)
	}
	if !strings.Contains(out, "\t\"time\"\n") {
		t.Error("missing time import for DATE column")
	}
}

func TestRender_SelfReferencingRel(t *testing.T) {
	out := renderToString(t, `
CREATE NODE TABLE User (name STRING, PRIMARY KEY (name));
CREATE REL TABLE Follows (FROM User TO User, since DATE);`, DefaultConfig())

	if !strings.Contains(out, "FromUser *User `kuzu:\",from\"`") {
		t.Errorf("self-referencing from endpoint should be prefixed:\n%s", out)
	}
	if !strings.Contains(out, "ToUser *User `kuzu:\",to\"`") {
		t.Errorf("self-referencing to endpoint should be prefixed:\n%s", out)
	}
}

func TestRender_ManyManyOmitsMultTag(t *testing.T) {
	out := renderToString(t, `
CREATE NODE TABLE User (name STRING, PRIMARY KEY (name));
CREATE REL TABLE Follows (FROM User TO User, MANY_MANY);`, DefaultConfig())

	if strings.Contains(out, "mult=") {
		t.Errorf("MANY_MANY is the default and should not be tagged:\n%s", out)
	}
}

func TestRender_TableNameOverride(t *testing.T) {
	out := renderToString(t, `
CREATE NODE TABLE lives_in_log (entry STRING, PRIMARY KEY (entry));`, DefaultConfig())

	if !strings.Contains(out, "type LivesInLog struct") {
		t.Errorf("snake_case table should become PascalCase struct:\n%s", out)
	}
	if !strings.Contains(out, "Entry string `kuzu:\"entry,primary,type:lives_in_log\"`") {
		t.Errorf("first field should carry the table name override:\n%s", out)
	}
}

func TestRender_DefaultsAndComplexTypes(t *testing.T) {
	out := renderToString(t, `
CREATE NODE TABLE Sensor (
    id SERIAL,
    status STRING DEFAULT 'active',
    reading STRUCT(value DOUBLE, unit STRING),
    labels MAP(STRING, INT64),
    samples DOUBLE[],
    precision DECIMAL(18, 3),
    payload BLOB,
    uptime INTERVAL,
    PRIMARY KEY (id)
);`, DefaultConfig())

	checks := []string{
		"Status string `kuzu:\"status,default='active'\"`",
		"Reading map[string]any `kuzu:\"reading\"`",
		"Labels map[string]any `kuzu:\"labels\"`",
		"Samples []float64 `kuzu:\"samples\"`",
		"Precision string `kuzu:\"precision\"`",
		"Payload []byte `kuzu:\"payload\"`",
		"Uptime time.Duration `kuzu:\"uptime\"`",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRender_SchemaVersionHeader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SchemaVersion = "v3"
	out := renderToString(t, `CREATE NODE TABLE A (s STRING, PRIMARY KEY (s));`, cfg)
	if !strings.Contains(out, "// Schema version: v3") {
		t.Errorf("missing schema version header:\n%s", out)
	}
}

func TestRenderRegistry(t *testing.T) {
	schema, err := ParseSchema(`
CREATE NODE TABLE User (name STRING, PRIMARY KEY (name));
CREATE NODE TABLE City (name STRING, PRIMARY KEY (name));
CREATE REL TABLE LivesIn (FROM User TO City);`)
	if err != nil {
		t.Fatalf("ParseSchema failed: %v", err)
	}

	var b strings.Builder
	if err := RenderRegistry(&b, schema, RegistryConfig{PackageName: "models", UseAcronyms: true}); err != nil {
		t.Fatalf("RenderRegistry failed: %v", err)
	}
	out := b.String()

	if !strings.Contains(out, "func RegisterAll() {") {
		t.Errorf("missing RegisterAll:\n%s", out)
	}
	nodeAt := strings.Index(out, "gograph.MustRegister[City]()")
	relAt := strings.Index(out, "gograph.MustRegister[LivesIn]()")
	if nodeAt < 0 || relAt < 0 {
		t.Fatalf("missing registrations:\n%s", out)
	}
	if relAt < nodeAt {
		t.Error("rel models must register after node models")
	}
}

func TestKuzuToGo(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"STRING", "string"},
		{"INT64", "int64"},
		{"INT32", "int32"},
		{"SERIAL", "int64"},
		{"DOUBLE", "float64"},
		{"FLOAT", "float32"},
		{"BOOL", "bool"},
		{"TIMESTAMP", "time.Time"},
		{"TIMESTAMP_TZ", "time.Time"},
		{"DATE", "time.Time"},
		{"INTERVAL", "time.Duration"},
		{"UUID", "uuid.UUID"},
		{"BLOB", "[]byte"},
		{"DECIMAL(18, 3)", "string"},
		{"INT128", "string"},
		{"STRING[]", "[]string"},
		{"INT64[4]", "[]int64"},
		{"DOUBLE[3][]", "[][]float64"},
		{"STRUCT(a INT64)", "map[string]any"},
		{"MAP(STRING, INT64)", "map[string]any"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := kuzuToGo(tt.in); got != tt.out {
				t.Errorf("kuzuToGo(%q) = %q, want %q", tt.in, got, tt.out)
			}
		})
	}
}
