package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Driver names accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DB wraps a sql.DB with the dialect it was opened with.
type DB struct {
	*sql.DB
	driver string
}

// Open connects to the credential database. For sqlite the dsn is a file
// path; for postgres it is a connection string understood by pgx.
func Open(driver, dsn string) (*DB, error) {
	var (
		sqlDB *sql.DB
		err   error
	)

	switch driver {
	case DriverSQLite, "":
		driver = DriverSQLite
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		sqlDB, err = sql.Open("sqlite", dsn+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	case DriverPostgres:
		sqlDB, err = sql.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, driver: driver}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// OpenMemory creates an in-memory SQLite database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// Every new connection to :memory: is a fresh database.
	sqlDB.SetMaxOpenConns(1)

	d := &DB{DB: sqlDB, driver: DriverSQLite}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// Driver reports which dialect the handle speaks.
func (d *DB) Driver() string { return d.driver }

// Rebind rewrites ? placeholders into the $N form postgres expects.
// Queries for sqlite are returned unchanged.
func (d *DB) Rebind(query string) string {
	if d.driver != DriverPostgres {
		return query
	}
	var (
		b strings.Builder
		n int
	)
	b.Grow(len(query) + 8)
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// migrate runs all schema migrations.
func (d *DB) migrate() error {
	_, err := d.Exec(schema)
	return err
}

// schema holds the credential tables. Timestamps are RFC 3339 text so the
// same statements work on both dialects.
const schema = `
CREATE TABLE IF NOT EXISTS slack_teams (
    id TEXT PRIMARY KEY,
    auth TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    modified_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS slack_users (
    id TEXT NOT NULL,
    team_id TEXT NOT NULL,
    token TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    modified_at TEXT NOT NULL,
    PRIMARY KEY (id, team_id)
);

CREATE INDEX IF NOT EXISTS idx_slack_users_team ON slack_users(team_id);
`
