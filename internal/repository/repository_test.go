package repository

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// Schema generations observed in historical deployments, oldest first. Tests
// build each generation directly so capability detection and the dynamic SQL
// paths are exercised against real databases, not mocks.
const (
	ddlUsersMinimal = `CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		surname TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL UNIQUE,
		city TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL
	)`

	ddlUsersFull = `CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		surname TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL UNIQUE,
		city TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		buddy_id INTEGER,
		buddy_trust BOOLEAN NOT NULL DEFAULT FALSE
	)`

	ddlDreamsMinimal = `CREATE TABLE dreams (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		dream TEXT NOT NULL
	)`

	ddlDreamsLegacyStatus = `CREATE TABLE dreams (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		dream TEXT NOT NULL,
		status TEXT
	)`

	ddlDreamsFull = `CREATE TABLE dreams (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		dream TEXT NOT NULL,
		status_id INTEGER NOT NULL DEFAULT 1,
		category_id INTEGER,
		deadline DATE,
		price REAL,
		is_public BOOLEAN NOT NULL DEFAULT TRUE
	)`

	ddlSteps = `CREATE TABLE dream_steps (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		dream_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		sort_order INTEGER NOT NULL DEFAULT 0,
		deadline DATE,
		deleted BOOLEAN NOT NULL DEFAULT FALSE
	)`

	ddlFulfillments = `CREATE TABLE fulfillments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		dream_id INTEGER NOT NULL,
		fulfilled_on DATE NOT NULL,
		fulfilled_by INTEGER NOT NULL
	)`

	ddlStatuses = `CREATE TABLE statuses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		label TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT ''
	)`

	ddlCategories = `CREATE TABLE categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		label TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT ''
	)`
)

func newTestDB(t *testing.T, ddl ...string) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range ddl {
		db.MustExec(stmt)
	}

	return db
}

// fullDB builds the current schema generation and detects its capabilities.
func fullDB(t *testing.T) (*sqlx.DB, Capabilities) {
	t.Helper()

	db := newTestDB(t,
		ddlUsersFull, ddlDreamsFull, ddlSteps, ddlFulfillments, ddlStatuses, ddlCategories)
	db.MustExec(`INSERT INTO statuses (id, code, label, icon) VALUES
		(1, 'planned', 'Planned', ''),
		(2, 'in_progress', 'In progress', ''),
		(3, 'done', 'Done', '')`)

	caps, err := Detect(db)
	require.NoError(t, err)
	return db, caps
}

func seedUser(t *testing.T, db *sqlx.DB, phone string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(
		`INSERT INTO users (name, phone, password_hash) VALUES ('Test', $1, 'x') RETURNING id`,
		phone,
	).Scan(&id)
	require.NoError(t, err)
	return id
}
