package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect defines the interface for database-specific operations
type Dialect interface {
	// Name returns a short identifier such as "sqlite"
	Name() string

	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed (e.g., ? to $1 for postgres)
	RewriteQuery(query string) string

	// InsertIgnore turns a plain "INSERT INTO" statement into one that skips
	// rows whose primary key already exists
	InsertIgnore(query string) string

	// UpsertSettingQuery returns an INSERT that overwrites the value of an
	// existing app_settings row. Arguments are key then value.
	UpsertSettingQuery() string

	// ConfigureConnection applies any database-specific connection settings
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir returns the subdirectory name for migrations (e.g., "sqlite", "postgres")
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL to create the migrations tracking table
	CreateMigrationsTableQuery() string
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

// placeholderRegexp matches ? placeholders
var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(match string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}

var insertPrefixRegexp = regexp.MustCompile(`(?i)^\s*INSERT\s+INTO`)

// replaceInsertPrefix swaps the leading INSERT INTO keyword pair
func replaceInsertPrefix(query, replacement string) string {
	return insertPrefixRegexp.ReplaceAllLiteralString(query, replacement)
}
