package database

// Dialect abstracts SQL syntax differences between SQLite and PostgreSQL.
type Dialect interface {
	// DriverName returns the driver name for sql.Open().
	DriverName() string

	// Placeholder returns the parameter placeholder for the given
	// position (1-indexed). SQLite: "?", PostgreSQL: "$1", "$2", ...
	Placeholder(position int) string

	// SupportsLastInsertID returns true if the database supports
	// LastInsertId(); PostgreSQL uses a RETURNING clause instead.
	SupportsLastInsertID() bool

	// ReturningClause returns the RETURNING clause for INSERT statements.
	ReturningClause(column string) string

	// AutoIncrementPK returns the column definition for an
	// auto-incrementing integer primary key.
	AutoIncrementPK() string

	// InitStatements returns database-specific initialization statements.
	InitStatements() []string

	// IsDuplicateKeyError returns true if the error is a unique
	// constraint violation.
	IsDuplicateKeyError(err error) bool

	// CaseInsensitiveCollation returns the collation suffix for
	// case-insensitive text comparison, or "" if unsupported.
	CaseInsensitiveCollation() string
}

// DialectType identifies the database dialect.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect creates a new Dialect for the given type.
func NewDialect(dialectType DialectType) Dialect {
	switch dialectType {
	case DialectPostgres:
		return &PostgresDialect{}
	default:
		return &SQLiteDialect{}
	}
}
