// Package gograph provides automated schema migration capabilities.
package gograph

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// CatalogTable describes one table in the live catalog.
type CatalogTable struct {
	Name    string
	Kind    ModelKind
	Columns map[string]string // column name → engine type
}

// CatalogSchema is the live catalog state, introspected from the engine.
type CatalogSchema struct {
	Tables map[string]CatalogTable
}

// IntrospectSchema reads the live catalog through CALL show_tables() and
// CALL table_info(...).
func IntrospectSchema(ctx context.Context, db *Database) (*CatalogSchema, error) {
	rows, err := db.ExecuteRead(ctx, "CALL show_tables() RETURN *")
	if err != nil {
		return nil, fmt.Errorf("introspect: show_tables: %w", err)
	}

	schema := &CatalogSchema{Tables: make(map[string]CatalogTable)}
	for _, row := range rows {
		name, _ := row["name"].(string)
		if name == "" {
			continue
		}
		kindStr, _ := row["type"].(string)
		kind := ModelKindNode
		if strings.EqualFold(kindStr, "REL") {
			kind = ModelKindRel
		}

		cols, err := introspectColumns(ctx, db, name)
		if err != nil {
			return nil, err
		}
		schema.Tables[name] = CatalogTable{Name: name, Kind: kind, Columns: cols}
	}
	return schema, nil
}

func introspectColumns(ctx context.Context, db *Database, table string) (map[string]string, error) {
	rows, err := db.ExecuteRead(ctx, fmt.Sprintf("CALL table_info('%s') RETURN *", table))
	if err != nil {
		return nil, fmt.Errorf("introspect: table_info(%s): %w", table, err)
	}
	cols := make(map[string]string, len(rows))
	for _, row := range rows {
		name, _ := row["name"].(string)
		if name == "" {
			continue
		}
		colType, _ := row["type"].(string)
		cols[name] = colType
	}
	return cols, nil
}

// ColumnChange describes a column to add or remove on an existing table.
type ColumnChange struct {
	TableName  string
	ColumnName string
	ColumnType string
	Default    string
}

// SchemaDiff represents the calculated differences between the schema
// defined by registered Go models and the live catalog.
type SchemaDiff struct {
	// AddTables are new tables to be created, node tables first.
	AddTables []*ModelInfo
	// AddColumns are new columns to be added to existing tables.
	AddColumns []ColumnChange
	// RemoveColumns identifies columns present in the catalog but not in code.
	RemoveColumns []ColumnChange
	// RemoveTables identifies tables present in the catalog but not in code.
	RemoveTables []string
}

// IsEmpty returns true if no schema differences were detected.
func (d *SchemaDiff) IsEmpty() bool {
	return len(d.AddTables) == 0 &&
		len(d.AddColumns) == 0 &&
		len(d.RemoveColumns) == 0 &&
		len(d.RemoveTables) == 0
}

// HasDestructiveChanges returns true if applying the full diff would drop
// tables or columns.
func (d *SchemaDiff) HasDestructiveChanges() bool {
	return len(d.RemoveColumns) > 0 || len(d.RemoveTables) > 0
}

// Summary returns a human-readable description of the changes in the diff.
func (d *SchemaDiff) Summary() string {
	if d.IsEmpty() {
		return "schema is up to date"
	}
	var parts []string
	if n := len(d.AddTables); n > 0 {
		names := make([]string, n)
		for i, t := range d.AddTables {
			names[i] = t.TableName
		}
		parts = append(parts, fmt.Sprintf("add %d table(s): %s", n, strings.Join(names, ", ")))
	}
	if n := len(d.AddColumns); n > 0 {
		parts = append(parts, fmt.Sprintf("add %d column(s)", n))
	}
	if len(d.RemoveTables) > 0 {
		parts = append(parts, fmt.Sprintf("WARNING: %d table(s) in catalog not in code: %s",
			len(d.RemoveTables), strings.Join(d.RemoveTables, ", ")))
	}
	if len(d.RemoveColumns) > 0 {
		parts = append(parts, fmt.Sprintf("WARNING: %d column(s) in catalog not in code", len(d.RemoveColumns)))
	}
	return strings.Join(parts, "; ")
}

// GenerateMigration produces the DDL statements for the additive changes
// in the diff.
func (d *SchemaDiff) GenerateMigration() ([]string, error) {
	return d.generate(false)
}

// GenerateMigrationWithDestructive produces the DDL statements for all
// changes in the diff, including DROPs.
func (d *SchemaDiff) GenerateMigrationWithDestructive() ([]string, error) {
	return d.generate(true)
}

func (d *SchemaDiff) generate(destructive bool) ([]string, error) {
	var stmts []string

	for _, info := range d.AddTables {
		stmt, err := GenerateSchemaFor(info)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	for _, c := range d.AddColumns {
		stmt := fmt.Sprintf("ALTER TABLE %s ADD %s %s", c.TableName, c.ColumnName, c.ColumnType)
		if c.Default != "" {
			stmt += " DEFAULT " + c.Default
		}
		stmts = append(stmts, stmt)
	}
	if destructive {
		for _, c := range d.RemoveColumns {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s DROP %s", c.TableName, c.ColumnName))
		}
		for _, name := range d.RemoveTables {
			stmts = append(stmts, "DROP TABLE "+name)
		}
	}
	return stmts, nil
}

// DiffSchema compares the registered Go models against the live catalog
// and returns the changes needed to bring the catalog up to date.
func DiffSchema(current *CatalogSchema) *SchemaDiff {
	diff := &SchemaDiff{}
	desired := RegisteredModels()

	desiredNames := make(map[string]bool, len(desired))
	for _, info := range desired {
		desiredNames[info.TableName] = true

		cur, exists := current.Tables[info.TableName]
		if !exists {
			diff.AddTables = append(diff.AddTables, info)
			continue
		}

		desiredCols := make(map[string]bool, len(info.Fields))
		for _, f := range info.Fields {
			desiredCols[f.Tag.Name] = true
			if _, ok := cur.Columns[f.Tag.Name]; !ok {
				diff.AddColumns = append(diff.AddColumns, ColumnChange{
					TableName:  info.TableName,
					ColumnName: f.Tag.Name,
					ColumnType: f.ColumnType,
					Default:    f.Tag.Default,
				})
			}
		}
		for col, colType := range cur.Columns {
			if !desiredCols[col] && !isInternalColumn(col) {
				diff.RemoveColumns = append(diff.RemoveColumns, ColumnChange{
					TableName:  info.TableName,
					ColumnName: col,
					ColumnType: colType,
				})
			}
		}
	}

	for name := range current.Tables {
		if !desiredNames[name] && name != migrationTableName {
			diff.RemoveTables = append(diff.RemoveTables, name)
		}
	}
	return diff
}

func isInternalColumn(name string) bool {
	return strings.HasPrefix(name, "_")
}

// Migrate introspects the live catalog, diffs it against registered Go
// models, and applies additive changes. It returns the computed diff.
func Migrate(ctx context.Context, db *Database) (*SchemaDiff, error) {
	current, err := IntrospectSchema(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	diff := DiffSchema(current)
	if diff.IsEmpty() {
		return diff, nil
	}

	stmts, err := diff.GenerateMigration()
	if err != nil {
		return diff, fmt.Errorf("migrate: %w", err)
	}
	for _, stmt := range stmts {
		if err := db.ExecuteDDL(ctx, stmt); err != nil {
			return diff, fmt.Errorf("migrate: execute %q: %w", stmt, err)
		}
	}
	log().Info("schema migrated", zap.String("changes", diff.Summary()))
	return diff, nil
}

// SyncSchemaOption configures SyncSchema behavior.
type SyncSchemaOption func(*syncSchemaConfig)

type syncSchemaConfig struct {
	force       bool
	skipIfMatch bool
}

// WithForce enables destructive changes (dropping tables and columns).
func WithForce() SyncSchemaOption {
	return func(c *syncSchemaConfig) { c.force = true }
}

// WithSkipIfExists skips the migration if the schema already matches.
func WithSkipIfExists() SyncSchemaOption {
	return func(c *syncSchemaConfig) { c.skipIfMatch = true }
}

// SyncSchema performs a one-shot schema synchronization: introspect the
// live catalog, diff against registered Go models, and apply changes.
// Destructive changes (DROPs) are only applied with WithForce.
func SyncSchema(ctx context.Context, db *Database, opts ...SyncSchemaOption) (*SchemaDiff, error) {
	cfg := syncSchemaConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	current, err := IntrospectSchema(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("sync schema: %w", err)
	}

	diff := DiffSchema(current)
	if cfg.skipIfMatch {
		// Only create wholly missing tables; leave existing tables untouched.
		diff.AddColumns = nil
	}
	if diff.IsEmpty() {
		return diff, nil
	}

	var stmts []string
	if cfg.force {
		stmts, err = diff.GenerateMigrationWithDestructive()
	} else {
		stmts, err = diff.GenerateMigration()
	}
	if err != nil {
		return diff, fmt.Errorf("sync schema: %w", err)
	}

	for _, stmt := range stmts {
		if err := db.ExecuteDDL(ctx, stmt); err != nil {
			return diff, fmt.Errorf("sync schema: execute %q: %w", stmt, err)
		}
	}
	log().Info("schema synced", zap.String("changes", diff.Summary()), zap.Bool("force", cfg.force))
	return diff, nil
}
