// kuzugen generates Go model structs from Kuzu DDL scripts.
//
// Usage:
//
//	kuzugen -ddl schema.cypher [-out models_gen.go] [-pkg models] [-acronyms]
//	kuzugen -ddl schema.cypher -registry [-out registry_gen.go] [-pkg models]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/CaliLuke/go-kuzu/ddlgen"
)

const version = "0.2.0"

func main() {
	ddlFile := flag.String("ddl", "", "Path to Kuzu DDL script (required)")
	outFile := flag.String("out", "", "Output Go file (default: stdout)")
	pkg := flag.String("pkg", "models", "Package name for generated code")
	acronyms := flag.Bool("acronyms", true, "Apply Go naming conventions for acronyms (ID, URL, etc.)")
	registry := flag.Bool("registry", false, "Generate a RegisterAll file instead of model structs")
	schemaVersion := flag.String("schema-version", "", "Schema version string (included in generated header)")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("kuzugen %s\n", version)
		os.Exit(0)
	}

	if *ddlFile == "" {
		fmt.Fprintln(os.Stderr, "error: -ddl flag is required")
		flag.Usage()
		os.Exit(1)
	}

	schema, err := ddlgen.ParseSchemaFile(*ddlFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if len(schema.Nodes) == 0 && len(schema.Rels) == 0 {
		fmt.Fprintln(os.Stderr, "error: no CREATE NODE TABLE or CREATE REL TABLE statements found")
		os.Exit(1)
	}

	var w *os.File
	if *outFile != "" {
		w, err = os.Create(*outFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating output: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = w.Close() }()
	} else {
		w = os.Stdout
	}

	if *registry {
		cfg := ddlgen.RegistryConfig{
			PackageName: *pkg,
			UseAcronyms: *acronyms,
		}
		if err := ddlgen.RenderRegistry(w, schema, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "error rendering registry: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg := ddlgen.RenderConfig{
			PackageName:   *pkg,
			UseAcronyms:   *acronyms,
			SchemaVersion: *schemaVersion,
		}
		if err := ddlgen.Render(w, schema, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "error rendering: %v\n", err)
			os.Exit(1)
		}
	}
}
