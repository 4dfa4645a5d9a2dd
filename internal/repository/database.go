package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Dialect captures the SQL differences between the supported stores.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

// Drivers accepted by InitDB.
const (
	DriverSQLite  = "sqlite"  // modernc.org/sqlite
	DriverSQLite3 = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPgx     = "pgx"     // github.com/jackc/pgx/v5/stdlib
)

type DB struct {
	*sql.DB
	dialect Dialect
}

func (db *DB) Dialect() Dialect {
	return db.dialect
}

// InitDB opens the store, checks the connection and creates the todos table.
func InitDB(driver, dsn string) (*DB, error) {
	db, err := open(driver, dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// OpenReadOnly opens and pings the store without creating anything. SQLite
// files are opened with mode=ro, so a missing file is an error rather than a
// new empty database.
func OpenReadOnly(driver, dsn string) (*DB, error) {
	dialect, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}
	if dialect == DialectSQLite {
		dsn = readOnlyDSN(dsn)
	}
	return open(driver, dsn)
}

func readOnlyDSN(path string) string {
	if path == ":memory:" {
		return path
	}
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	if strings.Contains(path, "?") {
		return path + "&mode=ro"
	}
	return path + "?mode=ro"
}

func open(driver, dsn string) (*DB, error) {
	dialect, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// One connection: keeps :memory: databases coherent and serializes writers.
	if dialect == DialectSQLite {
		sqlDB.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return &DB{DB: sqlDB, dialect: dialect}, nil
}

// HasTodosTable reports whether the todos table exists.
func (db *DB) HasTodosTable(ctx context.Context) (bool, error) {
	query := `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'todos'`
	if db.dialect == DialectPostgres {
		query = `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = 'todos'`
	}

	var n int
	if err := db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return false, fmt.Errorf("look up todos table: %w", err)
	}
	return n > 0, nil
}

func dialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverSQLite, DriverSQLite3:
		return DialectSQLite, nil
	case DriverPgx:
		return DialectPostgres, nil
	default:
		return 0, fmt.Errorf("unsupported db driver %q", driver)
	}
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS todos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    completed BOOLEAN NOT NULL DEFAULT 0,
    priority TEXT NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high')),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS todos (
    id BIGSERIAL PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    priority TEXT NOT NULL DEFAULT 'medium' CHECK (priority IN ('low', 'medium', 'high')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

func createTables(ctx context.Context, db *DB) error {
	schema := sqliteSchema
	if db.dialect == DialectPostgres {
		schema = postgresSchema
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create todos table: %w", err)
	}
	return nil
}

// rebind rewrites ? placeholders into $n for Postgres.
func (db *DB) rebind(query string) string {
	if db.dialect != DialectPostgres {
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
