package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Init opens the configured database and verifies it is reachable. For
// sqlite the connection string is a file path, optionally carrying
// ?_pragma=... options; for pgx it is a Postgres URL or DSN.
func Init(driver, connection string) (*sqlx.DB, error) {
	if driver == "sqlite" {
		if err := ensureSQLiteDir(connection); err != nil {
			return nil, err
		}
	}

	conn, err := sqlx.Connect(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	// A single sqlite file gains nothing from a wide pool; its writers
	// would only contend on the file lock.
	if driver == "sqlite" {
		conn.SetMaxOpenConns(4)
		conn.SetMaxIdleConns(4)
	} else {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(5)
	}
	conn.SetConnMaxLifetime(5 * time.Minute)

	slog.Info("database connected", "driver", driver)
	return conn, nil
}

// ensureSQLiteDir creates the directory holding the database file. Pragma
// options after "?" are not part of the file name, and in-memory databases
// have no directory at all.
func ensureSQLiteDir(connection string) error {
	path := connection
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == ":memory:" {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create sqlite directory %s: %w", dir, err)
	}
	return nil
}

func Close(db *sqlx.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}
