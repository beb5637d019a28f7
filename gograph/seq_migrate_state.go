// Package gograph provides state tracking for sequential migrations.
package gograph

import (
	"context"
	"fmt"
	"time"

	"github.com/CaliLuke/go-kuzu/cypher"
)

// migrationTableName is the node table used to record applied migrations.
// It is excluded from schema diffs.
const migrationTableName = "_Migration"

// seqMigrationSchemaDDL defines the ledger table for sequential migrations.
const seqMigrationSchemaDDL = `CREATE NODE TABLE IF NOT EXISTS _Migration (name STRING, checksum STRING, applied_at TIMESTAMP, PRIMARY KEY (name))`

// seqMigrationRecord is one row of the migration ledger.
type seqMigrationRecord struct {
	Name      string
	Checksum  string
	AppliedAt time.Time
}

// seqMigrationState tracks applied sequential migrations in the database.
type seqMigrationState struct {
	db *Database
}

func newSeqMigrationState(db *Database) *seqMigrationState {
	return &seqMigrationState{db: db}
}

// EnsureSchema creates the ledger table. Idempotent.
func (s *seqMigrationState) EnsureSchema(ctx context.Context) error {
	return s.db.ExecuteDDL(ctx, seqMigrationSchemaDDL)
}

// Applied returns a map of migration name to its ledger record.
func (s *seqMigrationState) Applied(ctx context.Context) (map[string]seqMigrationRecord, error) {
	query := fmt.Sprintf(
		"MATCH (m:%s) RETURN m.name AS name, m.checksum AS checksum, m.applied_at AS applied_at",
		migrationTableName)

	results, err := s.db.ExecuteRead(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("seq migration state: query applied: %w", err)
	}

	applied := make(map[string]seqMigrationRecord)
	for _, row := range results {
		name, _ := row["name"].(string)
		if name == "" {
			continue
		}
		rec := seqMigrationRecord{Name: name}
		rec.Checksum, _ = row["checksum"].(string)
		if at, err := coerceToTime(row["applied_at"]); err == nil {
			rec.AppliedAt = at.(time.Time)
		}
		applied[name] = rec
	}
	return applied, nil
}

// Record inserts a new ledger row.
func (s *seqMigrationState) Record(ctx context.Context, name, checksum string) error {
	query := fmt.Sprintf("CREATE (:%s {name: %s, checksum: %s, applied_at: %s})",
		migrationTableName,
		cypher.FormatGoValue(name),
		cypher.FormatGoValue(checksum),
		cypher.FormatGoValue(time.Now().UTC()))

	if _, err := s.db.ExecuteWrite(ctx, query); err != nil {
		return fmt.Errorf("seq migration state: record %q: %w", name, err)
	}
	return nil
}

// Delete removes a ledger row (for rollback).
func (s *seqMigrationState) Delete(ctx context.Context, name string) error {
	query := fmt.Sprintf("MATCH (m:%s) WHERE m.name = %s DELETE m",
		migrationTableName, cypher.FormatGoValue(name))

	if _, err := s.db.ExecuteWrite(ctx, query); err != nil {
		return fmt.Errorf("seq migration state: delete %q: %w", name, err)
	}
	return nil
}
