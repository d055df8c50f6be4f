package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/islandlabs/dreamtrack/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicatePhone = errors.New("phone already registered")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id int64) (*model.User, error)
	ByPhone(ctx context.Context, phone, alternate string) (*model.User, error)
	BuddyLink(ctx context.Context, userID int64) (*model.BuddyLink, error)
	SetBuddy(ctx context.Context, userID, buddyID int64, trust bool) error
	ClearBuddy(ctx context.Context, userID int64) error
}

type userRepository struct {
	db   *sqlx.DB
	caps Capabilities
}

func NewUserRepository(db *sqlx.DB, caps Capabilities) UserRepository {
	return &userRepository{db: db, caps: caps}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (name, surname, phone, city, password_hash)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		user.Name,
		user.Surname,
		user.Phone,
		user.City,
		user.PasswordHash,
	).Scan(&user.ID)

	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicatePhone
		}
		return err
	}

	return nil
}

func (r *userRepository) ByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getUser(ctx, `WHERE id = $1`, id)
}

// ByPhone finds a user under either spelling of the normalized login handle.
func (r *userRepository) ByPhone(ctx context.Context, phone, alternate string) (*model.User, error) {
	return r.getUser(ctx, `WHERE phone = $1 OR phone = $2`, phone, alternate)
}

func (r *userRepository) getUser(ctx context.Context, where string, args ...any) (*model.User, error) {
	columns := `id, name, surname, phone, city, password_hash`
	if r.caps.Buddy {
		columns += `, buddy_id, buddy_trust`
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM users `+where, args...)

	user := &model.User{}
	dest := []any{&user.ID, &user.Name, &user.Surname, &user.Phone, &user.City, &user.PasswordHash}

	var buddyID sql.NullInt64
	var buddyTrust sql.NullBool
	if r.caps.Buddy {
		dest = append(dest, &buddyID, &buddyTrust)
	}

	err := row.Scan(dest...)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if buddyID.Valid {
		user.BuddyID = &buddyID.Int64
	}
	user.BuddyTrust = buddyTrust.Valid && buddyTrust.Bool

	return user, nil
}

// BuddyLink resolves the directed sharing edge for a user. A database
// generation without buddy columns reports no link rather than failing.
func (r *userRepository) BuddyLink(ctx context.Context, userID int64) (*model.BuddyLink, error) {
	if !r.caps.Buddy {
		return nil, nil
	}

	var buddyID sql.NullInt64
	var trust sql.NullBool
	query := `SELECT buddy_id, buddy_trust FROM users WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, userID).Scan(&buddyID, &trust)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if !buddyID.Valid {
		return nil, nil
	}

	return &model.BuddyLink{
		BuddyID: buddyID.Int64,
		Trusted: trust.Valid && trust.Bool,
	}, nil
}

func (r *userRepository) SetBuddy(ctx context.Context, userID, buddyID int64, trust bool) error {
	if !r.caps.Buddy {
		return ErrSchemaExhausted
	}

	query := `UPDATE users SET buddy_id = $1, buddy_trust = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, buddyID, trust, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepository) ClearBuddy(ctx context.Context, userID int64) error {
	if !r.caps.Buddy {
		return ErrSchemaExhausted
	}

	query := `UPDATE users SET buddy_id = NULL, buddy_trust = FALSE WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// isDuplicate reports a unique-constraint violation for both drivers:
// Postgres SQLSTATE 23505, SQLite by message.
func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
