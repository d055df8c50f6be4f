package repository

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// ErrSchemaExhausted means even the minimal guaranteed table shape is
// unavailable. Unlike a missing optional column this is fatal: the base
// table itself does not exist.
var ErrSchemaExhausted = errors.New("schema exhausted: base table unavailable")

// Capabilities records which optional columns and tables exist in the
// database the server was pointed at. Historical deployments run several
// schema generations; instead of retrying statement shapes on every request,
// the set is probed once at startup and repositories dispatch on it.
type Capabilities struct {
	// dreams table, optional columns
	DreamStatusID bool // status_id foreign key into statuses
	DreamStatus   bool // legacy literal status code column
	DreamCategory bool
	DreamDeadline bool
	DreamPrice    bool
	DreamIsPublic bool

	// dream_steps table
	Steps        bool
	StepDeadline bool
	StepDeleted  bool

	// users table, buddy columns
	Buddy bool

	// fulfillments ledger and taxonomy reference tables
	Fulfillments bool
	Statuses     bool
	Categories   bool
}

// Detect probes the schema generation of db. Every probe is a single
// autocommit SELECT so a failed attempt leaves no transactional state behind.
// Only the missing-column / missing-table error class downgrades a
// capability; any other error aborts detection.
func Detect(db *sqlx.DB) (Capabilities, error) {
	caps := Capabilities{}

	// Minimal guaranteed dream shape. Without it nothing can work.
	if err := probe(db, `SELECT id, user_id, dream FROM dreams LIMIT 1`); err != nil {
		if isMissingSchema(err) {
			return caps, fmt.Errorf("%w: %v", ErrSchemaExhausted, err)
		}
		return caps, fmt.Errorf("probe dreams: %w", err)
	}

	checks := []struct {
		flag  *bool
		query string
	}{
		{&caps.DreamStatusID, `SELECT status_id FROM dreams LIMIT 1`},
		{&caps.DreamStatus, `SELECT status FROM dreams LIMIT 1`},
		{&caps.DreamCategory, `SELECT category_id FROM dreams LIMIT 1`},
		{&caps.DreamDeadline, `SELECT deadline FROM dreams LIMIT 1`},
		{&caps.DreamPrice, `SELECT price FROM dreams LIMIT 1`},
		{&caps.DreamIsPublic, `SELECT is_public FROM dreams LIMIT 1`},
		{&caps.Steps, `SELECT id, dream_id, title, completed, sort_order FROM dream_steps LIMIT 1`},
		{&caps.Buddy, `SELECT buddy_id, buddy_trust FROM users LIMIT 1`},
		{&caps.Fulfillments, `SELECT dream_id, fulfilled_on, fulfilled_by FROM fulfillments LIMIT 1`},
		{&caps.Statuses, `SELECT id, code, label, icon FROM statuses LIMIT 1`},
		{&caps.Categories, `SELECT id, code, label, icon FROM categories LIMIT 1`},
	}

	for _, check := range checks {
		err := probe(db, check.query)
		if err == nil {
			*check.flag = true
			continue
		}
		if !isMissingSchema(err) {
			return caps, fmt.Errorf("probe %q: %w", check.query, err)
		}
	}

	// Step sub-columns only matter when the table itself exists.
	if caps.Steps {
		for _, check := range []struct {
			flag  *bool
			query string
		}{
			{&caps.StepDeadline, `SELECT deadline FROM dream_steps LIMIT 1`},
			{&caps.StepDeleted, `SELECT deleted FROM dream_steps LIMIT 1`},
		} {
			err := probe(db, check.query)
			if err == nil {
				*check.flag = true
				continue
			}
			if !isMissingSchema(err) {
				return caps, fmt.Errorf("probe %q: %w", check.query, err)
			}
		}
	}

	slog.Info("schema capabilities detected",
		"dream_status_id", caps.DreamStatusID,
		"dream_status", caps.DreamStatus,
		"dream_category", caps.DreamCategory,
		"dream_deadline", caps.DreamDeadline,
		"dream_price", caps.DreamPrice,
		"dream_is_public", caps.DreamIsPublic,
		"steps", caps.Steps,
		"step_deadline", caps.StepDeadline,
		"step_deleted", caps.StepDeleted,
		"buddy", caps.Buddy,
		"fulfillments", caps.Fulfillments,
		"statuses", caps.Statuses,
		"categories", caps.Categories,
	)

	return caps, nil
}

func probe(db *sqlx.DB, query string) error {
	rows, err := db.Query(query)
	if err != nil {
		return err
	}
	return rows.Close()
}

// isMissingSchema reports whether err is the "column or table does not
// exist" class, for both supported drivers. Postgres signals SQLSTATE 42703
// (undefined column) or 42P01 (undefined table); SQLite reports by message.
func isMissingSchema(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42703" || pgErr.Code == "42P01"
	}

	msg := err.Error()
	return strings.Contains(msg, "no such column") || strings.Contains(msg, "no such table")
}
