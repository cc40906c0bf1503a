package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DB wraps *sql.DB with the driver name so repositories can write queries
// with "?" placeholders and have them rebound for postgres.
type DB struct {
	*sql.DB
	driver string
}

func NewDB(db *sql.DB, driver string) *DB {
	return &DB{DB: db, driver: driver}
}

func (db *DB) Driver() string { return db.driver }

func InitDB(driver, dsn string) (*DB, error) {
	if driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error open db: %w", err)
	}

	if driver == DriverSQLite {
		// sqlite serialises writers; a single connection avoids SQLITE_BUSY
		// between the scheduler and API handlers.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("error ping db: %w", err)
	}

	db := NewDB(sqlDB, driver)
	if err := db.migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

var schema = []struct {
	name string
	stmt string
}{
	{"sites", `
	CREATE TABLE IF NOT EXISTS sites (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		created_at {{timestamp}} NOT NULL
	);`},
	{"checks", `
	CREATE TABLE IF NOT EXISTS checks (
		id TEXT PRIMARY KEY,
		site_id TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
		status TEXT NOT NULL,
		status_code INTEGER,
		error TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		checked_at {{timestamp}} NOT NULL
	);`},
	{"checks index", `
	CREATE INDEX IF NOT EXISTS idx_checks_site_checked_at ON checks(site_id, checked_at);`},
	{"incidents", `
	CREATE TABLE IF NOT EXISTS incidents (
		id TEXT PRIMARY KEY,
		site_id TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
		check_id TEXT NOT NULL REFERENCES checks(id) ON DELETE CASCADE,
		status TEXT NOT NULL DEFAULT 'open',
		opened_at {{timestamp}} NOT NULL,
		resolved_at {{timestamp}}
	);`},
	{"one open incident index", `
	CREATE UNIQUE INDEX IF NOT EXISTS ux_incidents_one_open_per_site ON incidents(site_id) WHERE status = 'open';`},
	{"contacts", `
	CREATE TABLE IF NOT EXISTS contacts (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		address TEXT NOT NULL,
		label TEXT NOT NULL DEFAULT '',
		created_at {{timestamp}} NOT NULL
	);`},
	{"settings", `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`},
}

func (db *DB) migrate() error {
	tsType := "TIMESTAMP"
	if db.driver == DriverPostgres {
		tsType = "TIMESTAMPTZ"
	}
	for _, s := range schema {
		stmt := strings.ReplaceAll(s.stmt, "{{timestamp}}", tsType)
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("error creating %s: %w", s.name, err)
		}
	}
	return nil
}

func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
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

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
