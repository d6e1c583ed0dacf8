package schema

import (
	"fmt"
	"strings"
)

// Dialect selects which SQL database the builder targets.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// ColumnType is a portable column type name; Builder maps it to the
// concrete SQL type for the target Dialect.
type ColumnType string

const (
	TypeText      ColumnType = "text"
	TypeJSON      ColumnType = "json"
	TypeTimestamp ColumnType = "timestamp"
	TypeBigInt    ColumnType = "bigint"
)

// Column describes one column of a Table.
type Column struct {
	Name     string
	Type     ColumnType
	NotNull  bool
	PrimaryKey bool
}

// Table describes one table this repository creates in the data mart.
type Table struct {
	Name    string
	Columns []Column
	Indexes []Index
}

// Index describes a secondary index on a Table.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// Builder emits DDL for a Table in a specific Dialect. It is
// intentionally straight-line: spec.md classifies schema construction as
// data-definition code, not part of the locking core's interesting
// surface, so Builder does nothing beyond string assembly.
type Builder struct {
	dialect Dialect
}

// NewBuilder returns a Builder targeting dialect.
func NewBuilder(dialect Dialect) *Builder {
	return &Builder{dialect: dialect}
}

// CreateTableSQL renders a CREATE TABLE IF NOT EXISTS statement for t.
func (b *Builder) CreateTableSQL(t Table) (string, error) {
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("schema: table %s has no columns", t.Name)
	}

	var cols []string
	var pk []string
	for _, c := range t.Columns {
		sqlType, err := b.sqlType(c.Type)
		if err != nil {
			return "", fmt.Errorf("schema: table %s column %s: %w", t.Name, c.Name, err)
		}
		def := fmt.Sprintf("%s %s", quoteIdent(b.dialect, c.Name), sqlType)
		if c.NotNull {
			def += " NOT NULL"
		}
		cols = append(cols, def)
		if c.PrimaryKey {
			pk = append(pk, quoteIdent(b.dialect, c.Name))
		}
	}
	if len(pk) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pk, ", ")))
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)",
		quoteIdent(b.dialect, t.Name),
		strings.Join(cols, ",\n\t"),
	), nil
}

// CreateIndexSQL renders a CREATE INDEX IF NOT EXISTS statement for idx
// on table tableName. MySQL lacks "IF NOT EXISTS" on CREATE INDEX before
// 8.0.29; callers targeting older MySQL should tolerate a duplicate-key
// error from Apply instead.
func (b *Builder) CreateIndexSQL(tableName string, idx Index) string {
	kind := "INDEX"
	if idx.Unique {
		kind = "UNIQUE INDEX"
	}

	quoted := make([]string, len(idx.Columns))
	for i, c := range idx.Columns {
		quoted[i] = quoteIdent(b.dialect, c)
	}

	ifNotExists := "IF NOT EXISTS "
	if b.dialect == DialectMySQL {
		ifNotExists = ""
	}

	return fmt.Sprintf(
		"CREATE %s %s%s ON %s (%s)",
		kind, ifNotExists, quoteIdent(b.dialect, idx.Name),
		quoteIdent(b.dialect, tableName), strings.Join(quoted, ", "),
	)
}

func (b *Builder) sqlType(t ColumnType) (string, error) {
	switch b.dialect {
	case DialectPostgres:
		switch t {
		case TypeText:
			return "text", nil
		case TypeJSON:
			return "jsonb", nil
		case TypeTimestamp:
			return "timestamptz", nil
		case TypeBigInt:
			return "bigint", nil
		}
	case DialectMySQL:
		switch t {
		case TypeText:
			return "text", nil
		case TypeJSON:
			return "json", nil
		case TypeTimestamp:
			return "datetime(6)", nil
		case TypeBigInt:
			return "bigint", nil
		}
	default:
		return "", fmt.Errorf("unknown dialect %q", b.dialect)
	}
	return "", fmt.Errorf("column type %q has no mapping for dialect %q", t, b.dialect)
}

func quoteIdent(dialect Dialect, name string) string {
	if dialect == DialectMySQL {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

// EntityDocumentsTable is the single table the data mart projects JSON
// documents into, keyed by a lock.ResourceKey's canonical string.
func EntityDocumentsTable() Table {
	return Table{
		Name: "entity_documents",
		Columns: []Column{
			{Name: "resource_key", Type: TypeText, NotNull: true, PrimaryKey: true},
			{Name: "document", Type: TypeJSON, NotNull: true},
			{Name: "projected_at", Type: TypeTimestamp, NotNull: true},
		},
	}
}
