package gograph

import (
	"context"
	"testing"
)

// catalogWithTestModels builds a live-catalog snapshot matching the three
// registered test models.
func catalogWithTestModels() *CatalogSchema {
	return &CatalogSchema{Tables: map[string]CatalogTable{
		"testUser": {
			Name: "testUser",
			Kind: ModelKindNode,
			Columns: map[string]string{
				"name": "STRING", "email": "STRING", "age": "INT64",
			},
		},
		"testCity": {
			Name: "testCity",
			Kind: ModelKindNode,
			Columns: map[string]string{
				"name": "STRING", "population": "INT64",
			},
		},
		"testLivesIn": {
			Name:    "testLivesIn",
			Kind:    ModelKindRel,
			Columns: map[string]string{"since": "INT64"},
		},
	}}
}

func TestDiffSchemaUpToDate(t *testing.T) {
	registerTestModels(t)

	diff := DiffSchema(catalogWithTestModels())
	if !diff.IsEmpty() {
		t.Errorf("expected empty diff, got %s", diff.Summary())
	}
}

func TestDiffSchemaMissingTable(t *testing.T) {
	registerTestModels(t)

	catalog := catalogWithTestModels()
	delete(catalog.Tables, "testCity")
	delete(catalog.Tables, "testLivesIn")

	diff := DiffSchema(catalog)
	if len(diff.AddTables) != 2 {
		t.Fatalf("AddTables = %d, want 2", len(diff.AddTables))
	}
	if diff.HasDestructiveChanges() {
		t.Error("missing tables are additive, not destructive")
	}

	stmts, err := diff.GenerateMigration()
	if err != nil {
		t.Fatalf("GenerateMigration returned error: %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	assertContains(t, stmts[0], "CREATE NODE TABLE IF NOT EXISTS testCity")
	assertContains(t, stmts[1], "CREATE REL TABLE IF NOT EXISTS testLivesIn")
}

func TestDiffSchemaMissingColumn(t *testing.T) {
	registerTestModels(t)

	catalog := catalogWithTestModels()
	tbl := catalog.Tables["testUser"]
	delete(tbl.Columns, "age")

	diff := DiffSchema(catalog)
	if len(diff.AddColumns) != 1 {
		t.Fatalf("AddColumns = %d, want 1", len(diff.AddColumns))
	}
	c := diff.AddColumns[0]
	if c.TableName != "testUser" || c.ColumnName != "age" || c.ColumnType != "INT64" {
		t.Errorf("unexpected column change: %+v", c)
	}

	stmts, err := diff.GenerateMigration()
	if err != nil {
		t.Fatalf("GenerateMigration returned error: %v", err)
	}
	if stmts[0] != "ALTER TABLE testUser ADD age INT64" {
		t.Errorf("stmt = %q", stmts[0])
	}
}

func TestDiffSchemaDetectsStrays(t *testing.T) {
	registerTestModels(t)

	catalog := catalogWithTestModels()
	catalog.Tables["legacy"] = CatalogTable{
		Name: "legacy", Kind: ModelKindNode,
		Columns: map[string]string{"name": "STRING"},
	}
	tbl := catalog.Tables["testUser"]
	tbl.Columns["nickname"] = "STRING"

	diff := DiffSchema(catalog)
	if len(diff.RemoveTables) != 1 || diff.RemoveTables[0] != "legacy" {
		t.Errorf("RemoveTables = %v, want [legacy]", diff.RemoveTables)
	}
	if len(diff.RemoveColumns) != 1 || diff.RemoveColumns[0].ColumnName != "nickname" {
		t.Errorf("RemoveColumns = %v", diff.RemoveColumns)
	}
	if !diff.HasDestructiveChanges() {
		t.Error("stray tables and columns are destructive changes")
	}

	// DROPs only appear in the destructive migration.
	additive, _ := diff.GenerateMigration()
	if len(additive) != 0 {
		t.Errorf("additive migration = %v, want none", additive)
	}
	destructive, _ := diff.GenerateMigrationWithDestructive()
	if len(destructive) != 2 {
		t.Fatalf("destructive migration = %v, want 2 statements", destructive)
	}
	assertContains(t, destructive[0], "ALTER TABLE testUser DROP nickname")
	assertContains(t, destructive[1], "DROP TABLE legacy")
}

func TestDiffSchemaIgnoresInternalTablesAndColumns(t *testing.T) {
	registerTestModels(t)

	catalog := catalogWithTestModels()
	catalog.Tables[migrationTableName] = CatalogTable{
		Name: migrationTableName, Kind: ModelKindNode,
		Columns: map[string]string{"name": "STRING", "checksum": "STRING"},
	}
	tbl := catalog.Tables["testUser"]
	tbl.Columns["_internal"] = "STRING"

	diff := DiffSchema(catalog)
	if !diff.IsEmpty() {
		t.Errorf("expected empty diff, got %s", diff.Summary())
	}
}

func TestIntrospectSchemaParsesCatalogCalls(t *testing.T) {
	registerTestModels(t)
	db, conn := newMockDB()
	conn.script = []mockResponse{
		{rows: []map[string]any{
			{"name": "testUser", "type": "NODE"},
			{"name": "testLivesIn", "type": "REL"},
		}},
		{rows: []map[string]any{
			{"name": "name", "type": "STRING"},
			{"name": "age", "type": "INT64"},
		}},
		{rows: []map[string]any{
			{"name": "since", "type": "INT64"},
		}},
	}

	schema, err := IntrospectSchema(context.Background(), db)
	if err != nil {
		t.Fatalf("IntrospectSchema returned error: %v", err)
	}

	assertContains(t, conn.queries[0], "CALL show_tables() RETURN *")
	assertContains(t, conn.queries[1], "CALL table_info('testUser') RETURN *")

	users, ok := schema.Tables["testUser"]
	if !ok {
		t.Fatal("testUser missing from introspected schema")
	}
	if users.Kind != ModelKindNode || users.Columns["age"] != "INT64" {
		t.Errorf("unexpected table: %+v", users)
	}
	if rel := schema.Tables["testLivesIn"]; rel.Kind != ModelKindRel {
		t.Errorf("testLivesIn kind = %v, want rel", rel.Kind)
	}
}

func TestMigrateAppliesAdditiveChanges(t *testing.T) {
	registerTestModels(t)
	db, conn := newMockDB()
	conn.script = []mockResponse{
		{rows: []map[string]any{
			{"name": "testUser", "type": "NODE"},
			{"name": "testCity", "type": "NODE"},
		}},
		{rows: []map[string]any{
			{"name": "name", "type": "STRING"},
			{"name": "email", "type": "STRING"},
			{"name": "age", "type": "INT64"},
		}},
		{rows: []map[string]any{
			{"name": "name", "type": "STRING"},
			{"name": "population", "type": "INT64"},
		}},
	}

	diff, err := Migrate(context.Background(), db)
	if err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}
	if len(diff.AddTables) != 1 || diff.AddTables[0].TableName != "testLivesIn" {
		t.Fatalf("unexpected diff: %s", diff.Summary())
	}

	last := conn.queries[len(conn.queries)-1]
	assertContains(t, last, "CREATE REL TABLE IF NOT EXISTS testLivesIn")
}

// --- Operations ---

func TestDiffOperations(t *testing.T) {
	registerTestModels(t)

	catalog := catalogWithTestModels()
	delete(catalog.Tables, "testLivesIn")
	tbl := catalog.Tables["testUser"]
	delete(tbl.Columns, "age")

	ops, err := DiffSchema(catalog).Operations()
	if err != nil {
		t.Fatalf("Operations returned error: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("len(ops) = %d, want 2", len(ops))
	}

	rel, ok := ops[0].(AddRelTable)
	if !ok {
		t.Fatalf("ops[0] = %T, want AddRelTable", ops[0])
	}
	if rel.Name != "testLivesIn" || !rel.IsReversible() || rel.IsDestructive() {
		t.Errorf("unexpected op: %+v", rel)
	}
	if rel.RollbackCypher() != "DROP TABLE testLivesIn" {
		t.Errorf("rollback = %q", rel.RollbackCypher())
	}

	col, ok := ops[1].(AddColumn)
	if !ok {
		t.Fatalf("ops[1] = %T, want AddColumn", ops[1])
	}
	if col.ToCypher() != "ALTER TABLE testUser ADD age INT64" {
		t.Errorf("cypher = %q", col.ToCypher())
	}
	if col.RollbackCypher() != "ALTER TABLE testUser DROP age" {
		t.Errorf("rollback = %q", col.RollbackCypher())
	}
}

func TestDestructiveOperationsOrder(t *testing.T) {
	registerTestModels(t)

	diff := &SchemaDiff{
		RemoveColumns: []ColumnChange{{TableName: "testUser", ColumnName: "nickname"}},
		RemoveTables:  []string{"legacy"},
	}
	ops := diff.DestructiveOperations()
	if len(ops) != 2 {
		t.Fatalf("len(ops) = %d, want 2", len(ops))
	}
	if _, ok := ops[0].(DropColumn); !ok {
		t.Errorf("ops[0] = %T, columns must drop before tables", ops[0])
	}
	drop, ok := ops[1].(DropTable)
	if !ok {
		t.Fatalf("ops[1] = %T, want DropTable", ops[1])
	}
	if drop.IsReversible() || !drop.IsDestructive() {
		t.Error("DropTable must be irreversible and destructive")
	}
}

func TestRenameOperationsRoundTrip(t *testing.T) {
	rt := RenameTable{OldName: "person", NewName: "user"}
	if rt.ToCypher() != "ALTER TABLE person RENAME TO user" {
		t.Errorf("cypher = %q", rt.ToCypher())
	}
	if rt.RollbackCypher() != "ALTER TABLE user RENAME TO person" {
		t.Errorf("rollback = %q", rt.RollbackCypher())
	}

	rc := RenameColumn{TableName: "user", OldName: "mail", NewName: "email"}
	if rc.ToCypher() != "ALTER TABLE user RENAME mail TO email" {
		t.Errorf("cypher = %q", rc.ToCypher())
	}
	if rc.RollbackCypher() != "ALTER TABLE user RENAME email TO mail" {
		t.Errorf("rollback = %q", rc.RollbackCypher())
	}
}

func TestBreakingChanges(t *testing.T) {
	diff := &SchemaDiff{
		RemoveTables:  []string{"legacy"},
		RemoveColumns: []ColumnChange{{TableName: "testUser", ColumnName: "nickname"}},
	}

	changes := diff.BreakingChanges()
	if len(changes) != 2 {
		t.Fatalf("len(changes) = %d, want 2", len(changes))
	}
	if changes[0].Type != "table_removal" || changes[0].Table != "legacy" {
		t.Errorf("unexpected change: %+v", changes[0])
	}
	if changes[1].Type != "column_removal" || changes[1].Table != "testUser" {
		t.Errorf("unexpected change: %+v", changes[1])
	}
	if !diff.HasBreakingChanges() {
		t.Error("expected breaking changes")
	}
}

// --- SyncSchema ---

func TestSyncSchemaForceAppliesDrops(t *testing.T) {
	registerTestModels(t)
	db, conn := newMockDB()
	conn.script = []mockResponse{
		{rows: []map[string]any{
			{"name": "testUser", "type": "NODE"},
			{"name": "testCity", "type": "NODE"},
			{"name": "testLivesIn", "type": "REL"},
			{"name": "legacy", "type": "NODE"},
		}},
		{rows: []map[string]any{
			{"name": "name", "type": "STRING"},
			{"name": "email", "type": "STRING"},
			{"name": "age", "type": "INT64"},
		}},
		{rows: []map[string]any{
			{"name": "name", "type": "STRING"},
			{"name": "population", "type": "INT64"},
		}},
		{rows: []map[string]any{
			{"name": "since", "type": "INT64"},
		}},
		{rows: []map[string]any{
			{"name": "name", "type": "STRING"},
		}},
	}

	diff, err := SyncSchema(context.Background(), db, WithForce())
	if err != nil {
		t.Fatalf("SyncSchema returned error: %v", err)
	}
	if len(diff.RemoveTables) != 1 {
		t.Fatalf("unexpected diff: %s", diff.Summary())
	}

	last := conn.queries[len(conn.queries)-1]
	if last != "DROP TABLE legacy" {
		t.Errorf("last statement = %q, want DROP TABLE legacy", last)
	}
}

func TestSyncSchemaWithoutForceSkipsDrops(t *testing.T) {
	registerTestModels(t)
	db, conn := newMockDB()
	conn.script = []mockResponse{
		{rows: []map[string]any{
			{"name": "testUser", "type": "NODE"},
			{"name": "testCity", "type": "NODE"},
			{"name": "testLivesIn", "type": "REL"},
			{"name": "legacy", "type": "NODE"},
		}},
		{rows: []map[string]any{
			{"name": "name", "type": "STRING"},
			{"name": "email", "type": "STRING"},
			{"name": "age", "type": "INT64"},
		}},
		{rows: []map[string]any{
			{"name": "name", "type": "STRING"},
			{"name": "population", "type": "INT64"},
		}},
		{rows: []map[string]any{
			{"name": "since", "type": "INT64"},
		}},
		{rows: []map[string]any{
			{"name": "name", "type": "STRING"},
		}},
	}

	introspectQueries := 5
	if _, err := SyncSchema(context.Background(), db); err != nil {
		t.Fatalf("SyncSchema returned error: %v", err)
	}
	for _, q := range conn.queries[introspectQueries:] {
		assertNotContains(t, q, "DROP")
	}
}
