//go:build integration && cgo && kuzu

package kuzusql

import (
	"database/sql"
	"testing"
)

// These tests run against the real embedded engine:
//
//	go test -tags "integration kuzu" ./kuzusql/

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("kuzu", t.TempDir()+"/db")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPingAndDDL(t *testing.T) {
	db := openTestDB(t)

	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if _, err := db.Exec("CREATE NODE TABLE Person (name STRING, age INT64, PRIMARY KEY (name))"); err != nil {
		t.Fatalf("create table: %v", err)
	}
}

func TestNamedArgsRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.Exec("CREATE NODE TABLE Person (name STRING, age INT64, PRIMARY KEY (name))"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec("CREATE (p:Person {name: $name, age: $age})",
		sql.Named("name", "Alice"), sql.Named("age", int64(30))); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var name string
	var age int64
	row := db.QueryRow("MATCH (p:Person) WHERE p.age = $age RETURN p.name, p.age",
		sql.Named("age", int64(30)))
	if err := row.Scan(&name, &age); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if name != "Alice" || age != 30 {
		t.Errorf("got %s/%d, want Alice/30", name, age)
	}
}

func TestPositionalArgsRejected(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Query("RETURN $x", int64(1))
	if err == nil {
		t.Fatal("expected positional args to be rejected")
	}
}

func TestColumnTypeNames(t *testing.T) {
	db := openTestDB(t)

	rows, err := db.Query(`RETURN 1 AS n, "s" AS s, true AS b`)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		t.Fatalf("column types: %v", err)
	}
	want := []string{"INT64", "STRING", "BOOL"}
	for i, ct := range types {
		if ct.DatabaseTypeName() != want[i] {
			t.Errorf("column %d: got %s, want %s", i, ct.DatabaseTypeName(), want[i])
		}
	}
}

func TestTransactionRollback(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.Exec("CREATE NODE TABLE Person (name STRING, PRIMARY KEY (name))"); err != nil {
		t.Fatalf("create table: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := tx.Exec(`CREATE (p:Person {name: "Ghost"})`); err != nil {
		t.Fatalf("insert in tx: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	var n int64
	if err := db.QueryRow("MATCH (p:Person) RETURN count(p)").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("rolled-back insert persisted, count = %d", n)
	}
}
