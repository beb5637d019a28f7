// Package ddlgen provides Go model generation from Kuzu DDL scripts.
package ddlgen

import (
	"fmt"
	"io"
	"strings"
	"text/template"
)

// RenderConfig specifies the settings for generating Go code from a Kuzu schema.
type RenderConfig struct {
	// PackageName is the name of the Go package for the generated code.
	PackageName string
	// ModulePath is the module import path for the 'gograph' package.
	ModulePath string
	// UseAcronyms, if true, applies Go acronym naming conventions (e.g., 'ID' instead of 'Id').
	UseAcronyms bool
	// SchemaVersion is an optional string included in the generated file header.
	SchemaVersion string
}

// DefaultConfig returns a standard RenderConfig with sensible defaults.
func DefaultConfig() RenderConfig {
	return RenderConfig{
		PackageName: "models",
		ModulePath:  "github.com/CaliLuke/go-kuzu/gograph",
		UseAcronyms: true,
	}
}

// Render processes a ParsedSchema and writes the generated Go source code to the provided writer.
func Render(w io.Writer, schema *ParsedSchema, cfg RenderConfig) error {
	if cfg.PackageName == "" {
		cfg.PackageName = "models"
	}
	if cfg.ModulePath == "" {
		cfg.ModulePath = "github.com/CaliLuke/go-kuzu/gograph"
	}

	data := &renderData{
		PackageName:   cfg.PackageName,
		ModulePath:    cfg.ModulePath,
		SchemaVersion: cfg.SchemaVersion,
		NeedsTime:     needsImport(schema, "time.Time", "time.Duration"),
		NeedsUUID:     needsImport(schema, "uuid.UUID"),
	}

	for _, n := range schema.Nodes {
		data.Nodes = append(data.Nodes, buildNodeCtx(n, cfg))
	}
	for _, r := range schema.Rels {
		data.Rels = append(data.Rels, buildRelCtx(r, schema, cfg))
	}

	return renderTemplate.Execute(w, data)
}

// --- Template context types ---

type renderData struct {
	PackageName   string
	ModulePath    string
	SchemaVersion string
	NeedsTime     bool
	NeedsUUID     bool
	Nodes         []modelCtx
	Rels          []modelCtx
}

type modelCtx struct {
	GoName    string
	TableName string
	Base      string // "BaseNode" or "BaseRel"
	Comment   string
	Fields    []fieldCtx
}

type fieldCtx struct {
	GoName string
	GoType string
	Tag    string
}

// --- Context builders ---

func buildNodeCtx(n NodeSpec, cfg RenderConfig) modelCtx {
	ctx := modelCtx{
		GoName:    goTypeName(n.Name, cfg),
		TableName: n.Name,
		Base:      "BaseNode",
	}

	for i, p := range n.Properties {
		f := fieldCtx{
			GoName: goFieldName(p.Name, cfg),
			GoType: kuzuToGo(p.Type),
		}

		var opts []string
		opts = append(opts, p.Name)
		if n.IsPrimaryKey(p.Name) {
			switch {
			case strings.EqualFold(p.Type, "SERIAL"):
				opts = append(opts, "serial")
			case strings.EqualFold(p.Type, "UUID"):
				opts = append(opts, "uuid")
			default:
				opts = append(opts, "primary")
			}
		}
		if p.Default != "" {
			opts = append(opts, "default="+p.Default)
		}
		// The table name override rides on the first field when the Go
		// type name would not round-trip back to the DDL name.
		if i == 0 && ctx.GoName != n.Name {
			opts = append(opts, "type:"+n.Name)
		}
		f.Tag = fmt.Sprintf("`kuzu:%q`", strings.Join(opts, ","))

		ctx.Fields = append(ctx.Fields, f)
	}

	return ctx
}

func buildRelCtx(r RelSpec, schema *ParsedSchema, cfg RenderConfig) modelCtx {
	ctx := modelCtx{
		GoName:    goTypeName(r.Name, cfg),
		TableName: r.Name,
		Base:      "BaseRel",
		Comment:   fmt.Sprintf("connects %s to %s", r.From, r.To),
	}

	fromOpts := []string{"", "from"}
	if r.Multiplicity != "" && r.Multiplicity != "MANY_MANY" {
		fromOpts = append(fromOpts, "mult="+r.Multiplicity)
	}
	if ctx.GoName != r.Name {
		fromOpts = append(fromOpts, "type:"+r.Name)
	}

	fromName := endpointFieldName(r.From, cfg)
	toName := endpointFieldName(r.To, cfg)
	if fromName == toName {
		// Self-referencing rel: both endpoints point at one table.
		fromName = "From" + fromName
		toName = "To" + toName
	}

	ctx.Fields = append(ctx.Fields, fieldCtx{
		GoName: fromName,
		GoType: "*" + goTypeName(r.From, cfg),
		Tag:    fmt.Sprintf("`kuzu:%q`", strings.Join(fromOpts, ",")),
	})
	ctx.Fields = append(ctx.Fields, fieldCtx{
		GoName: toName,
		GoType: "*" + goTypeName(r.To, cfg),
		Tag:    "`kuzu:\",to\"`",
	})

	for _, p := range r.Properties {
		opts := []string{p.Name}
		if p.Default != "" {
			opts = append(opts, "default="+p.Default)
		}
		ctx.Fields = append(ctx.Fields, fieldCtx{
			GoName: goFieldName(p.Name, cfg),
			GoType: kuzuToGo(p.Type),
			Tag:    fmt.Sprintf("`kuzu:%q`", strings.Join(opts, ",")),
		})
	}

	return ctx
}

// endpointFieldName derives the Go field name for a rel endpoint from the
// node table it references.
func endpointFieldName(nodeTable string, cfg RenderConfig) string {
	return goTypeName(nodeTable, cfg)
}

func goTypeName(name string, cfg RenderConfig) string {
	if cfg.UseAcronyms {
		return ToPascalCaseAcronyms(name)
	}
	return ToPascalCase(name)
}

func goFieldName(name string, cfg RenderConfig) string {
	return goTypeName(name, cfg)
}

// kuzuToGo maps canonical Kuzu type text to the Go type used in generated
// structs. List types map to slices of the element's Go type.
func kuzuToGo(kuzuType string) string {
	t := strings.TrimSpace(kuzuType)

	// LIST (T[]) and ARRAY (T[n]) suffixes.
	if strings.HasSuffix(t, "]") {
		if i := strings.LastIndexByte(t, '['); i >= 0 {
			return "[]" + kuzuToGo(t[:i])
		}
	}
	// Parameterized and nested types.
	upper := strings.ToUpper(t)
	switch {
	case strings.HasPrefix(upper, "DECIMAL"):
		// Decimals travel as strings so precision survives the trip.
		return "string"
	case strings.HasPrefix(upper, "STRUCT"), strings.HasPrefix(upper, "MAP"):
		return "map[string]any"
	case strings.HasPrefix(upper, "TIMESTAMP"):
		// Covers TIMESTAMP, TIMESTAMP_TZ, TIMESTAMP_NS and friends.
		return "time.Time"
	}

	switch upper {
	case "STRING":
		return "string"
	case "INT64", "SERIAL":
		return "int64"
	case "INT32":
		return "int32"
	case "INT16":
		return "int16"
	case "INT8":
		return "int8"
	case "UINT64":
		return "uint64"
	case "UINT32":
		return "uint32"
	case "UINT16":
		return "uint16"
	case "UINT8":
		return "uint8"
	case "DOUBLE":
		return "float64"
	case "FLOAT":
		return "float32"
	case "BOOL", "BOOLEAN":
		return "bool"
	case "DATE":
		return "time.Time"
	case "INTERVAL":
		return "time.Duration"
	case "UUID":
		return "uuid.UUID"
	case "BLOB", "BYTEA":
		return "[]byte"
	case "INT128":
		// No native Go 128-bit integer; carried as decimal text.
		return "string"
	default:
		return "string"
	}
}

// needsImport reports whether any property in the schema maps to one of
// the given Go types.
func needsImport(schema *ParsedSchema, goTypes ...string) bool {
	uses := func(props []PropertySpec) bool {
		for _, p := range props {
			mapped := kuzuToGo(p.Type)
			mapped = strings.TrimPrefix(mapped, "[]")
			for _, want := range goTypes {
				if mapped == want {
					return true
				}
			}
		}
		return false
	}
	for _, n := range schema.Nodes {
		if uses(n.Properties) {
			return true
		}
	}
	for _, r := range schema.Rels {
		if uses(r.Properties) {
			return true
		}
	}
	return false
}

// --- Go template ---

var renderTemplate = template.Must(template.New("models").Parse(`// Code generated by kuzugen. DO NOT EDIT.
{{- if .SchemaVersion}}
// Schema version: {{.SchemaVersion}}
{{- end}}

package {{.PackageName}}

import (
	"{{.ModulePath}}"
{{- if .NeedsTime}}
	"time"
{{- end}}
{{- if .NeedsUUID}}

	"github.com/google/uuid"
{{- end}}
)
{{range .Nodes}}
{{- if .Comment}}
// {{.GoName}} {{.Comment}}.
{{- end}}
type {{.GoName}} struct {
	gograph.{{.Base}}
{{- range .Fields}}
	{{.GoName}} {{.GoType}} {{.Tag}}
{{- end}}
}
{{end}}
{{- range .Rels}}
// {{.GoName}} {{.Comment}}.
type {{.GoName}} struct {
	gograph.{{.Base}}
{{- range .Fields}}
	{{.GoName}} {{.GoType}} {{.Tag}}
{{- end}}
}
{{end}}`))
