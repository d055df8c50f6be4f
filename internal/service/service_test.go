package service

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/islandlabs/dreamtrack/internal/repository"
)

var testSchema = []string{
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		surname TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL UNIQUE,
		city TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		buddy_id INTEGER,
		buddy_trust BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE dreams (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		dream TEXT NOT NULL,
		status_id INTEGER NOT NULL DEFAULT 1,
		category_id INTEGER,
		deadline DATE,
		price REAL,
		is_public BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE dream_steps (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		dream_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		sort_order INTEGER NOT NULL DEFAULT 0,
		deadline DATE,
		deleted BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE fulfillments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		dream_id INTEGER NOT NULL,
		fulfilled_on DATE NOT NULL,
		fulfilled_by INTEGER NOT NULL
	)`,
	`CREATE TABLE statuses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		label TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		label TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT ''
	)`,
	`INSERT INTO statuses (id, code, label) VALUES
		(1, 'planned', 'Planned'),
		(2, 'in_progress', 'In progress'),
		(3, 'done', 'Done')`,
}

// testEnv wires the full service stack over an in-memory database, the same
// way the application wires it at startup.
type testEnv struct {
	db *sqlx.DB

	users  repository.UserRepository
	dreams repository.DreamRepository
	steps  repository.StepRepository
	ledger repository.FulfillmentRepository

	perms    *PermissionService
	taxonomy *TaxonomyService
	dreamSvc *DreamService
	auth     *AuthService
	userSvc  *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, testSchema)
}

func newTestEnvWith(t *testing.T, schema []string) *testEnv {
	t.Helper()

	db, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range schema {
		db.MustExec(stmt)
	}

	caps, err := repository.Detect(db)
	require.NoError(t, err)

	env := &testEnv{
		db:     db,
		users:  repository.NewUserRepository(db, caps),
		dreams: repository.NewDreamRepository(db, caps),
		steps:  repository.NewStepRepository(db, caps),
		ledger: repository.NewFulfillmentRepository(db, caps),
	}
	env.perms = NewPermissionService(env.users)
	env.taxonomy = NewTaxonomyService(repository.NewTaxonomyRepository(db, caps))
	env.dreamSvc = NewDreamService(env.dreams, env.steps, env.ledger, env.users, env.taxonomy, env.perms)
	env.auth = NewAuthService(env.users)
	env.userSvc = NewUserService(env.users)

	return env
}

func (e *testEnv) seedUser(t *testing.T, phone string) int64 {
	t.Helper()

	var id int64
	err := e.db.QueryRow(
		`INSERT INTO users (name, phone, password_hash) VALUES ('Test', $1, 'x') RETURNING id`,
		phone,
	).Scan(&id)
	require.NoError(t, err)
	return id
}
