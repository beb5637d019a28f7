package ddlgen

import (
	"io"
	"text/template"
)

// RegistryConfig specifies settings for generating a model registry file.
type RegistryConfig struct {
	// PackageName is the Go package name for the generated code (required).
	PackageName string
	// ModulePath is the module import path for the 'gograph' package.
	ModulePath string
	// UseAcronyms applies Go acronym naming conventions (e.g., "ID" not "Id").
	UseAcronyms bool
}

// registryData holds the template context for registry code generation.
type registryData struct {
	PackageName string
	ModulePath  string
	Nodes       []string
	Rels        []string
}

// RenderRegistry writes a RegisterAll function that registers every
// generated model with the gograph registry. Node models register first
// so rel endpoint lookups resolve.
func RenderRegistry(w io.Writer, schema *ParsedSchema, cfg RegistryConfig) error {
	if cfg.PackageName == "" {
		cfg.PackageName = "models"
	}
	if cfg.ModulePath == "" {
		cfg.ModulePath = "github.com/CaliLuke/go-kuzu/gograph"
	}

	data := &registryData{
		PackageName: cfg.PackageName,
		ModulePath:  cfg.ModulePath,
	}
	rcfg := RenderConfig{UseAcronyms: cfg.UseAcronyms}
	for _, n := range schema.Nodes {
		data.Nodes = append(data.Nodes, goTypeName(n.Name, rcfg))
	}
	for _, r := range schema.Rels {
		data.Rels = append(data.Rels, goTypeName(r.Name, rcfg))
	}

	return registryTemplate.Execute(w, data)
}

var registryTemplate = template.Must(template.New("registry").Parse(`// Code generated by kuzugen. DO NOT EDIT.

package {{.PackageName}}

import (
	"{{.ModulePath}}"
)

// RegisterAll registers every generated model. Call it once at startup,
// before opening a database.
func RegisterAll() {
{{- range .Nodes}}
	gograph.MustRegister[{{.}}]()
{{- end}}
{{- range .Rels}}
	gograph.MustRegister[{{.}}]()
{{- end}}
}
`))
