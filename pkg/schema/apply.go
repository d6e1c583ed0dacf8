package schema

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// driverName maps a Dialect to its database/sql driver name.
func driverName(d Dialect) (string, error) {
	switch d {
	case DialectPostgres:
		return "postgres", nil
	case DialectMySQL:
		return "mysql", nil
	default:
		return "", fmt.Errorf("schema: unknown dialect %q", d)
	}
}

// Open opens a *sql.DB for dialect using dsn. Callers are responsible for
// closing the returned handle.
func Open(dialect Dialect, dsn string) (*sql.DB, error) {
	driver, err := driverName(dialect)
	if err != nil {
		return nil, err
	}
	return sql.Open(driver, dsn)
}

// Apply emits and executes the data mart's full DDL (the entity
// documents table and its supporting indexes) against db. On Postgres
// every statement uses IF NOT EXISTS, so re-running Apply against an
// already-provisioned database is a no-op. On MySQL the CREATE INDEX
// statement has no IF NOT EXISTS, so re-running Apply there returns the
// driver's duplicate-index error.
func Apply(ctx context.Context, db *sql.DB, dialect Dialect) error {
	builder := NewBuilder(dialect)
	table := EntityDocumentsTable()

	createTable, err := builder.CreateTableSQL(table)
	if err != nil {
		return fmt.Errorf("schema: building CREATE TABLE: %w", err)
	}
	if _, execErr := db.ExecContext(ctx, createTable); execErr != nil {
		return fmt.Errorf("schema: applying CREATE TABLE: %w", execErr)
	}

	index := Index{Name: "idx_entity_documents_projected_at", Columns: []string{"projected_at"}}
	createIndex := builder.CreateIndexSQL(table.Name, index)
	if _, execErr := db.ExecContext(ctx, createIndex); execErr != nil {
		return fmt.Errorf("schema: applying CREATE INDEX: %w", execErr)
	}

	return nil
}
