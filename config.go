package main

import (
	"database/sql"
	"fmt"
	"os"
	"os/user"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Config carries the database connection parameters and grid options
// collected from flags.
type Config struct {
	Database string
	Host     string
	Port     string
	Username string
	Password string

	PageSize int
	Plain    bool
	VimMode  bool

	// DBTypeOverride allows explicitly selecting the database type via flags
	DBTypeOverride *DatabaseType
}

type DatabaseType int

const (
	SQLite DatabaseType = iota
	PostgreSQL
	MySQL
)

type databaseFeature struct {
	driver                string
	defaultPort           string
	positionalPlaceholder bool
}

var databaseFeatures = map[DatabaseType]databaseFeature{
	SQLite:     {driver: "sqlite3"},
	PostgreSQL: {driver: "postgres", defaultPort: "5432", positionalPlaceholder: true},
	MySQL:      {driver: "mysql", defaultPort: "3306"},
}

var databaseIcons = map[DatabaseType]string{
	SQLite:     "🪶",
	PostgreSQL: "🐘",
	MySQL:      "🐬",
}

func (c *Config) detectDatabaseType() DatabaseType {
	if c.DBTypeOverride != nil {
		return *c.DBTypeOverride
	}
	if strings.HasSuffix(c.Database, ".sqlite") || strings.HasSuffix(c.Database, ".db") {
		return SQLite
	}
	return PostgreSQL
}

// username returns the explicit username or falls back to the OS user,
// matching what the servers themselves default to.
func (c *Config) username() string {
	if c.Username != "" {
		return c.Username
	}
	if current, err := user.Current(); err == nil {
		return current.Username
	}
	return ""
}

func (c *Config) buildConnectionString() (string, DatabaseType, error) {
	dbType := c.detectDatabaseType()

	switch dbType {
	case SQLite:
		if _, err := os.Stat(c.Database); os.IsNotExist(err) {
			return "", dbType, fmt.Errorf("sqlite file does not exist: %s", c.Database)
		}
		return c.Database, dbType, nil

	case PostgreSQL:
		parts := []string{fmt.Sprintf("dbname=%s", c.Database)}
		if c.Host != "" {
			parts = append(parts, fmt.Sprintf("host=%s", c.Host))
		}
		if c.Port != "" {
			parts = append(parts, fmt.Sprintf("port=%s", c.Port))
		}
		if u := c.username(); u != "" {
			parts = append(parts, fmt.Sprintf("user=%s", u))
		}
		if c.Password != "" {
			parts = append(parts, fmt.Sprintf("password=%s", c.Password))
		}
		parts = append(parts, "sslmode=disable")
		return strings.Join(parts, " "), dbType, nil

	case MySQL:
		var b strings.Builder
		b.WriteString(c.username())
		if c.Password != "" {
			b.WriteString(":" + c.Password)
		}
		host := c.Host
		if host == "" {
			host = "localhost"
		}
		port := c.Port
		if port == "" {
			port = databaseFeatures[MySQL].defaultPort
		}
		fmt.Fprintf(&b, "@tcp(%s:%s)/%s", host, port, c.Database)
		return b.String(), dbType, nil

	default:
		return "", dbType, fmt.Errorf("unsupported database type")
	}
}

func (c *Config) connect() (*sql.DB, DatabaseType, error) {
	connStr, dbType, err := c.buildConnectionString()
	if err != nil {
		return nil, dbType, err
	}

	db, err := sql.Open(databaseFeatures[dbType].driver, connStr)
	if err != nil {
		return nil, dbType, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, dbType, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, dbType, nil
}

var tableListQueries = map[DatabaseType]string{
	PostgreSQL: "SELECT table_name FROM information_schema.tables WHERE table_schema = 'public'",
	MySQL:      "SELECT table_name FROM information_schema.tables WHERE table_schema = ?",
	SQLite:     "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'",
}

// GetTables retrieves a list of table names from the database.
func (c *Config) GetTables() ([]string, error) {
	db, dbType, err := c.connect()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query, ok := tableListQueries[dbType]
	if !ok {
		return nil, fmt.Errorf("unsupported database type for GetTables")
	}

	var rows *sql.Rows
	if dbType == MySQL {
		// MySQL scopes information_schema by schema name, which is the
		// database we connected to.
		rows, err = db.Query(query, c.Database)
	} else {
		rows, err = db.Query(query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}
	return tables, rows.Err()
}

// placeholder renders the n-th statement parameter for the database type
// (1-based).
func placeholder(dbType DatabaseType, n int) string {
	if databaseFeatures[dbType].positionalPlaceholder {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// quoteIdent quotes an identifier for interpolation into SQL text.
func quoteIdent(dbType DatabaseType, name string) string {
	if dbType == MySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
