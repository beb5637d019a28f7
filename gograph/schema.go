// Package gograph provides utilities for generating table DDL from Go models.
package gograph

import (
	"fmt"
	"strings"
)

// GenerateSchema produces CREATE NODE TABLE / CREATE REL TABLE statements
// for all models in the global registry, node tables first so rel table
// FROM/TO references resolve. All statements use IF NOT EXISTS.
func GenerateSchema() ([]string, error) {
	infos := RegisteredModels()
	if len(infos) == 0 {
		return nil, nil
	}

	statements := make([]string, 0, len(infos))
	for _, info := range infos {
		stmt, err := GenerateSchemaFor(info)
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

// GenerateSchemaFor produces the CREATE TABLE statement for a single model.
func GenerateSchemaFor(info *ModelInfo) (string, error) {
	switch info.Kind {
	case ModelKindNode:
		return generateNodeTable(info)
	case ModelKindRel:
		return generateRelTable(info)
	default:
		return "", &SchemaValidationError{TypeName: info.GoType.Name(), Message: "unknown model kind"}
	}
}

func generateNodeTable(info *ModelInfo) (string, error) {
	if info.PK == nil {
		return "", &SchemaValidationError{
			TypeName: info.GoType.Name(),
			Message:  "node table has no primary key",
		}
	}

	var cols []string
	for _, f := range info.Fields {
		cols = append(cols, columnDef(f))
	}
	cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", info.PK.Tag.Name))

	return fmt.Sprintf("CREATE NODE TABLE IF NOT EXISTS %s (%s)",
		info.TableName, strings.Join(cols, ", ")), nil
}

func generateRelTable(info *ModelInfo) (string, error) {
	if info.From == nil || info.To == nil {
		return "", &SchemaValidationError{
			TypeName: info.GoType.Name(),
			Message:  "rel table missing from/to endpoint",
		}
	}

	cols := []string{fmt.Sprintf("FROM %s TO %s", info.From.TableName, info.To.TableName)}
	for _, f := range info.Fields {
		cols = append(cols, columnDef(f))
	}
	if info.Mult != ManyToMany {
		cols = append(cols, info.Mult.String())
	}

	return fmt.Sprintf("CREATE REL TABLE IF NOT EXISTS %s (%s)",
		info.TableName, strings.Join(cols, ", ")), nil
}

func columnDef(f FieldInfo) string {
	def := f.Tag.Name + " " + f.ColumnType
	if f.Tag.HasDefault {
		def += " DEFAULT " + f.Tag.Default
	}
	return def
}
