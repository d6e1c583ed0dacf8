/*
Package schema emits DDL for the data mart's relational schema across two
dialects, PostgreSQL and MySQL, and applies it through database/sql using
github.com/lib/pq and github.com/go-sql-driver/mysql. This package is
deliberately straight-line data-definition code: per spec.md §1 it is an
external collaborator of the locking core, not part of its interesting
concurrency surface, so Apply never touches a lock.Service.

# Architecture

	┌────────────────────────────────────────────────────────────┐
	│                    Table / Column / Index                  │
	│             (dialect-neutral schema description)            │
	└───────────────────────────┬──────────────────────────────--─┘
	                            │
	                            ▼
	┌────────────────────────────────────────────────────────────┐
	│                          Builder                            │
	│       dialect-specific type mapping + identifier quoting     │
	│           CreateTableSQL / CreateIndexSQL                    │
	└───────────────────────────┬──────────────────────────────--─┘
	                            │
	                            ▼
	                   Apply(ctx, db, dialect)
	                            │
	                            ▼
	              database/sql ──► lib/pq or go-sql-driver/mysql
	                            │
	                            ▼
	                     entity_documents table

Builder never executes anything itself - it only renders SQL strings.
Apply is the one function in this package that touches a live *sql.DB,
keeping the SQL-generation logic (easy to unit test without a database)
separate from the execution logic (which needs one).

# Core Components

Dialect: a two-value enum (DialectPostgres, DialectMySQL) threaded
through every function in this package that needs to vary its SQL.

ColumnType: a small, portable set of column kinds (text, json,
timestamp, bigint) Builder maps onto each dialect's concrete type
(e.g. TypeJSON becomes "jsonb" on Postgres, "json" on MySQL).

Table / Column / Index: a dialect-neutral description of one table;
EntityDocumentsTable returns the single table this repository defines.

Builder: renders CreateTableSQL and CreateIndexSQL for a Table/Index in
one Dialect, including dialect-specific identifier quoting
(double-quotes on Postgres, backticks on MySQL) and the "IF NOT
EXISTS" caveat MySQL's CREATE INDEX lacks before 8.0.29.

Open / Apply: Open returns a *sql.DB for a Dialect and DSN, selecting
the driver name; Apply executes the full DDL (table plus indexes)
against an already-open *sql.DB, idempotently on Postgres.

# Usage Examples

## Opening a database and applying the schema

	db, err := schema.Open(schema.DialectPostgres, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := schema.Apply(ctx, db, schema.DialectPostgres); err != nil {
		return err
	}

## Rendering DDL without executing it (e.g. for a migration review)

	builder := schema.NewBuilder(schema.DialectMySQL)
	ddl, err := builder.CreateTableSQL(schema.EntityDocumentsTable())
	if err != nil {
		return err
	}
	fmt.Println(ddl)

# Integration Points

## pkg/datamart

datamart.DataMart's upsert and delete statements are hand-written
against the exact column list EntityDocumentsTable() declares
(resource_key, document, projected_at); a change to one without the
other is a latent bug this package's tests alone cannot catch.

## cmd/datamartreplicator

The apply-schema command is this package's primary caller: it loads
config, opens a *sql.DB via Open, and calls Apply once, exiting
non-zero on any DDL error. The serve command also calls Open (but not
Apply) to obtain the *sql.DB it hands to pkg/datamart.

# Design Patterns

## Separate rendering from execution

Builder methods are pure string-building functions with no side
effects; only Apply touches the database. This split is what makes
CreateTableSQL/CreateIndexSQL straightforward to unit test with plain
string comparisons, no test database required.

## Idempotent DDL via IF NOT EXISTS

On Postgres every statement Apply executes is safe to re-run against
an already-provisioned database - CREATE TABLE IF NOT EXISTS and CREATE
INDEX IF NOT EXISTS - so the apply-schema command can run on every
deploy without an explicit "has this already run" check. On MySQL only
the CREATE TABLE carries IF NOT EXISTS; the CREATE INDEX does not, so a
second Apply against the same MySQL database fails with a
duplicate-index error.

## Driver registration via blank import

apply.go blank-imports github.com/lib/pq and
github.com/go-sql-driver/mysql solely for their init() side effects
(registering themselves with database/sql); Open only ever references
them by their registered driver name string, never by package symbol.

# Performance Characteristics

Builder's rendering is string concatenation over a handful of columns
and indexes - negligible next to Apply's own cost, which is dominated
by the database executing two DDL statements once per process
lifetime (not per request). Neither scales with data volume.

# Troubleshooting

## "schema: unknown dialect" from Open or driverName

Only DialectPostgres and DialectMySQL are recognized; check
config.Config.Database.Dialect (or whatever caller constructed the
Dialect value) for a typo.

## CREATE INDEX fails with a duplicate-key error on older MySQL

MySQL before 8.0.29 doesn't support "IF NOT EXISTS" on CREATE INDEX;
CreateIndexSQL already omits that clause for DialectMySQL, but a
caller re-running Apply against such a version against an
already-indexed table should expect and tolerate this specific error
rather than treating it as fatal.

## "column type ... has no mapping for dialect ..." from CreateTableSQL

A Column uses a ColumnType this package's sqlType switch doesn't
recognize for the target Dialect - check for a copy-pasted ColumnType
value, or extend sqlType's switch if this is a genuinely new type.

# Monitoring Metrics

This package exports no Prometheus metrics; Apply is a one-shot
startup/migration operation, not a steady-state code path worth
instrumenting.

# Best Practices

 1. Always run the apply-schema command (or call Apply directly)
    before starting the serve command against a fresh database.
 2. Keep EntityDocumentsTable() and pkg/datamart's hand-written SQL in
    sync manually - changing one without the other is a silent
    runtime failure this package's own tests cannot detect.
 3. Prefer adding a new Table/Index description over hand-writing DDL
    elsewhere in the repository, so every schema change goes through
    the same dialect-aware rendering path.

# See Also

  - pkg/datamart - the sole consumer of entity_documents' schema
  - cmd/datamartreplicator - apply-schema and serve, this package's callers
*/
package schema
