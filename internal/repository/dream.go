package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/jmoiron/sqlx"

	"github.com/islandlabs/dreamtrack/internal/model"
)

var ErrDreamNotFound = errors.New("dream not found")

type DreamRepository interface {
	Dreams(ctx context.Context, ownerID int64) ([]*model.Dream, error)
	ByID(ctx context.Context, dreamID int64) (*model.Dream, error)
	Create(ctx context.Context, dream *model.Dream) error
	Update(ctx context.Context, dreamID int64, patch model.DreamPatch) error
	Delete(ctx context.Context, dreamID int64) error
	TracksStatus() bool
}

// dreamRepository reads and writes dreams against whichever schema
// generation was detected at startup. Reads select only existing columns and
// fill defaults for the rest; writes apply only supplied fields whose target
// column exists.
type dreamRepository struct {
	db   *sqlx.DB
	caps Capabilities
}

func NewDreamRepository(db *sqlx.DB, caps Capabilities) DreamRepository {
	return &dreamRepository{db: db, caps: caps}
}

// TracksStatus reports whether this schema generation persists a dream
// status in any form. Without it a status patch is a no-op on disk.
func (r *dreamRepository) TracksStatus() bool {
	return r.caps.DreamStatusID || r.caps.DreamStatus
}

// selectColumns lists the dream columns present in this schema generation,
// in a fixed order matched by scanDream.
func (r *dreamRepository) selectColumns() string {
	columns := []string{"id", "user_id", "dream"}
	if r.caps.DreamStatusID {
		columns = append(columns, "status_id")
	}
	if r.caps.DreamStatus {
		columns = append(columns, "status")
	}
	if r.caps.DreamCategory {
		columns = append(columns, "category_id")
	}
	if r.caps.DreamDeadline {
		columns = append(columns, "deadline")
	}
	if r.caps.DreamPrice {
		columns = append(columns, "price")
	}
	if r.caps.DreamIsPublic {
		columns = append(columns, "is_public")
	}
	return strings.Join(columns, ", ")
}

func (r *dreamRepository) scanDream(row sqlx.ColScanner) (*model.Dream, error) {
	dream := &model.Dream{Steps: []*model.Step{}}
	dest := []any{&dream.ID, &dream.UserID, &dream.Dream}

	var statusID sql.NullInt64
	var statusCode sql.NullString
	var categoryID sql.NullInt64
	var deadline sql.NullTime
	var price sql.NullFloat64
	var isPublic sql.NullBool

	if r.caps.DreamStatusID {
		dest = append(dest, &statusID)
	}
	if r.caps.DreamStatus {
		dest = append(dest, &statusCode)
	}
	if r.caps.DreamCategory {
		dest = append(dest, &categoryID)
	}
	if r.caps.DreamDeadline {
		dest = append(dest, &deadline)
	}
	if r.caps.DreamPrice {
		dest = append(dest, &price)
	}
	if r.caps.DreamIsPublic {
		dest = append(dest, &isPublic)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	switch {
	case statusID.Valid:
		dream.StatusID = statusID.Int64
		dream.Status = model.StatusCodeByID(statusID.Int64)
	case statusCode.Valid && statusCode.String != "":
		dream.Status = statusCode.String
		if id, ok := model.StatusIDByCode(statusCode.String); ok {
			dream.StatusID = id
		}
	default:
		dream.StatusID = model.StatusIDPlanned
		dream.Status = model.StatusPlanned
	}

	if categoryID.Valid {
		dream.CategoryID = &categoryID.Int64
	}
	if deadline.Valid {
		d := strfmt.Date(deadline.Time)
		dream.Deadline = &d
	}
	if price.Valid {
		dream.Price = &price.Float64
	}
	// Rows predating the visibility column are public.
	dream.IsPublic = !isPublic.Valid || isPublic.Bool

	return dream, nil
}

func (r *dreamRepository) Dreams(ctx context.Context, ownerID int64) ([]*model.Dream, error) {
	query := `SELECT ` + r.selectColumns() + ` FROM dreams WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.QueryxContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dreams := []*model.Dream{}
	for rows.Next() {
		dream, err := r.scanDream(rows)
		if err != nil {
			return nil, err
		}
		dreams = append(dreams, dream)
	}

	return dreams, rows.Err()
}

func (r *dreamRepository) ByID(ctx context.Context, dreamID int64) (*model.Dream, error) {
	query := `SELECT ` + r.selectColumns() + ` FROM dreams WHERE id = $1`

	row := r.db.QueryRowxContext(ctx, query, dreamID)
	dream, err := r.scanDream(row)
	if err == sql.ErrNoRows {
		return nil, ErrDreamNotFound
	}
	if err != nil {
		return nil, err
	}

	return dream, nil
}

func (r *dreamRepository) Create(ctx context.Context, dream *model.Dream) error {
	columns := []string{"user_id", "dream"}
	args := []any{dream.UserID, dream.Dream}

	switch {
	case r.caps.DreamStatusID:
		columns = append(columns, "status_id")
		args = append(args, dream.StatusID)
	case r.caps.DreamStatus:
		columns = append(columns, "status")
		args = append(args, dream.Status)
	}
	if r.caps.DreamCategory && dream.CategoryID != nil {
		columns = append(columns, "category_id")
		args = append(args, *dream.CategoryID)
	}
	if r.caps.DreamDeadline && dream.Deadline != nil {
		columns = append(columns, "deadline")
		args = append(args, time.Time(*dream.Deadline))
	}
	if r.caps.DreamPrice && dream.Price != nil {
		columns = append(columns, "price")
		args = append(args, *dream.Price)
	}
	if r.caps.DreamIsPublic {
		columns = append(columns, "is_public")
		args = append(args, dream.IsPublic)
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := `INSERT INTO dreams (` + strings.Join(columns, ", ") + `)
	          VALUES (` + strings.Join(placeholders, ", ") + `) RETURNING id`

	return r.db.QueryRowContext(ctx, query, args...).Scan(&dream.ID)
}

func (r *dreamRepository) Update(ctx context.Context, dreamID int64, patch model.DreamPatch) error {
	sets := []string{}
	args := []any{}

	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if patch.Dream.Set && patch.Dream.Valid {
		set("dream", strings.TrimSpace(patch.Dream.Value))
	}
	if patch.StatusID.Set && patch.StatusID.Valid {
		switch {
		case r.caps.DreamStatusID:
			set("status_id", patch.StatusID.Value)
		case r.caps.DreamStatus:
			set("status", model.StatusCodeByID(patch.StatusID.Value))
		}
	}
	if patch.CategoryID.Set && r.caps.DreamCategory {
		if patch.CategoryID.Valid {
			set("category_id", patch.CategoryID.Value)
		} else {
			set("category_id", nil)
		}
	}
	if patch.Deadline.Set && r.caps.DreamDeadline {
		if patch.Deadline.Valid {
			set("deadline", time.Time(patch.Deadline.Value))
		} else {
			set("deadline", nil)
		}
	}
	if patch.Price.Set && r.caps.DreamPrice {
		if patch.Price.Valid {
			set("price", patch.Price.Value)
		} else {
			set("price", nil)
		}
	}
	if patch.IsPublic.Set && patch.IsPublic.Valid && r.caps.DreamIsPublic {
		set("is_public", patch.IsPublic.Value)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, dreamID)
	query := fmt.Sprintf("UPDATE dreams SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrDreamNotFound
	}

	return nil
}

// Delete removes a dream and all of its steps as one logical unit. The
// cascade is done here because historical schemas carry no foreign-key
// cascade.
func (r *dreamRepository) Delete(ctx context.Context, dreamID int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if r.caps.Steps {
		_, err = tx.ExecContext(ctx, `DELETE FROM dream_steps WHERE dream_id = $1`, dreamID)
		if err != nil {
			return err
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM dreams WHERE id = $1`, dreamID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrDreamNotFound
	}

	return tx.Commit()
}
