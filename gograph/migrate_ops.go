// Package gograph defines discrete migration operations.
package gograph

import "fmt"

// Operation defines the interface for a single, atomic schema migration step.
type Operation interface {
	// ToCypher returns the DDL statement required to perform the operation.
	ToCypher() string
	// IsReversible returns true if the operation can be undone without data loss.
	IsReversible() bool
	// RollbackCypher returns the DDL statement required to undo the operation.
	RollbackCypher() string
	// IsDestructive returns true if the operation deletes schema elements or data.
	IsDestructive() bool
}

// AddNodeTable represents the creation of a new node table.
type AddNodeTable struct {
	Name string
	DDL  string // The full CREATE NODE TABLE statement.
}

func (op AddNodeTable) ToCypher() string       { return op.DDL }
func (op AddNodeTable) IsReversible() bool     { return true }
func (op AddNodeTable) IsDestructive() bool    { return false }
func (op AddNodeTable) RollbackCypher() string { return "DROP TABLE " + op.Name }

// AddRelTable represents the creation of a new relationship table.
type AddRelTable struct {
	Name string
	DDL  string // The full CREATE REL TABLE statement.
}

func (op AddRelTable) ToCypher() string       { return op.DDL }
func (op AddRelTable) IsReversible() bool     { return true }
func (op AddRelTable) IsDestructive() bool    { return false }
func (op AddRelTable) RollbackCypher() string { return "DROP TABLE " + op.Name }

// AddColumn represents adding a property column to an existing table.
type AddColumn struct {
	TableName  string
	ColumnName string
	ColumnType string
	Default    string
}

func (op AddColumn) ToCypher() string {
	s := fmt.Sprintf("ALTER TABLE %s ADD %s %s", op.TableName, op.ColumnName, op.ColumnType)
	if op.Default != "" {
		s += " DEFAULT " + op.Default
	}
	return s
}
func (op AddColumn) IsReversible() bool  { return true }
func (op AddColumn) IsDestructive() bool { return false }
func (op AddColumn) RollbackCypher() string {
	return fmt.Sprintf("ALTER TABLE %s DROP %s", op.TableName, op.ColumnName)
}

// RenameTable renames a table. Data is preserved.
type RenameTable struct {
	OldName string
	NewName string
}

func (op RenameTable) ToCypher() string {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", op.OldName, op.NewName)
}
func (op RenameTable) IsReversible() bool  { return true }
func (op RenameTable) IsDestructive() bool { return false }
func (op RenameTable) RollbackCypher() string {
	return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", op.NewName, op.OldName)
}

// RenameColumn renames a property column on a table. Data is preserved.
type RenameColumn struct {
	TableName string
	OldName   string
	NewName   string
}

func (op RenameColumn) ToCypher() string {
	return fmt.Sprintf("ALTER TABLE %s RENAME %s TO %s", op.TableName, op.OldName, op.NewName)
}
func (op RenameColumn) IsReversible() bool  { return true }
func (op RenameColumn) IsDestructive() bool { return false }
func (op RenameColumn) RollbackCypher() string {
	return fmt.Sprintf("ALTER TABLE %s RENAME %s TO %s", op.TableName, op.NewName, op.OldName)
}

// --- Destructive operations ---

// DropColumn removes a property column and its data from a table.
type DropColumn struct {
	TableName  string
	ColumnName string
}

func (op DropColumn) ToCypher() string {
	return fmt.Sprintf("ALTER TABLE %s DROP %s", op.TableName, op.ColumnName)
}
func (op DropColumn) IsReversible() bool     { return false }
func (op DropColumn) IsDestructive() bool    { return true }
func (op DropColumn) RollbackCypher() string { return "" }

// DropTable removes a table and all of its data.
type DropTable struct {
	Name string
}

func (op DropTable) ToCypher() string       { return "DROP TABLE " + op.Name }
func (op DropTable) IsReversible() bool     { return false }
func (op DropTable) IsDestructive() bool    { return true }
func (op DropTable) RollbackCypher() string { return "" }

// --- Arbitrary Cypher ---

// RunCypher executes arbitrary Cypher as a migration step.
// Provide Up for the forward migration and optionally Down for rollback.
type RunCypher struct {
	Up   string
	Down string
}

func (op RunCypher) ToCypher() string       { return op.Up }
func (op RunCypher) IsReversible() bool     { return op.Down != "" }
func (op RunCypher) IsDestructive() bool    { return false }
func (op RunCypher) RollbackCypher() string { return op.Down }

// BreakingChange describes a change that could cause data loss.
type BreakingChange struct {
	Type   string // "table_removal", "column_removal"
	Table  string // affected table name
	Detail string // human-readable description
}

// BreakingChanges analyzes the diff for changes that could cause data loss.
func (d *SchemaDiff) BreakingChanges() []BreakingChange {
	var changes []BreakingChange

	for _, name := range d.RemoveTables {
		changes = append(changes, BreakingChange{
			Type:   "table_removal",
			Table:  name,
			Detail: fmt.Sprintf("table %q exists in catalog but not in Go structs; dropping would delete all rows", name),
		})
	}

	for _, c := range d.RemoveColumns {
		changes = append(changes, BreakingChange{
			Type:   "column_removal",
			Table:  c.TableName,
			Detail: fmt.Sprintf("column %s.%s exists in catalog but not in Go structs; dropping would delete its data", c.TableName, c.ColumnName),
		})
	}

	return changes
}

// HasBreakingChanges returns true if the diff contains any breaking changes.
func (d *SchemaDiff) HasBreakingChanges() bool {
	return d.HasDestructiveChanges()
}

// Operations converts the diff into a list of discrete, ordered operations.
func (d *SchemaDiff) Operations() ([]Operation, error) {
	var ops []Operation

	// Table creation first; RegisteredModels already orders node tables
	// before rel tables.
	for _, info := range d.AddTables {
		ddl, err := GenerateSchemaFor(info)
		if err != nil {
			return nil, err
		}
		if info.Kind == ModelKindRel {
			ops = append(ops, AddRelTable{Name: info.TableName, DDL: ddl})
		} else {
			ops = append(ops, AddNodeTable{Name: info.TableName, DDL: ddl})
		}
	}

	for _, c := range d.AddColumns {
		ops = append(ops, AddColumn{
			TableName:  c.TableName,
			ColumnName: c.ColumnName,
			ColumnType: c.ColumnType,
			Default:    c.Default,
		})
	}

	return ops, nil
}

// DestructiveOperations returns operations that remove schema elements.
// These are only applied when explicitly requested.
func (d *SchemaDiff) DestructiveOperations() []Operation {
	var ops []Operation

	// Drop columns before tables.
	for _, c := range d.RemoveColumns {
		ops = append(ops, DropColumn{TableName: c.TableName, ColumnName: c.ColumnName})
	}
	for _, name := range d.RemoveTables {
		ops = append(ops, DropTable{Name: name})
	}

	return ops
}
