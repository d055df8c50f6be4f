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

var ErrStepNotFound = errors.New("step not found")

type StepRepository interface {
	ByDreamIDs(ctx context.Context, dreamIDs []int64) (map[int64][]*model.Step, error)
	ByID(ctx context.Context, dreamID, stepID int64) (*model.Step, error)
	Create(ctx context.Context, step *model.Step) error
	Update(ctx context.Context, dreamID, stepID int64, patch model.StepPatch) error
}

type stepRepository struct {
	db   *sqlx.DB
	caps Capabilities
}

func NewStepRepository(db *sqlx.DB, caps Capabilities) StepRepository {
	return &stepRepository{db: db, caps: caps}
}

func (r *stepRepository) selectColumns() string {
	columns := []string{"id", "dream_id", "title", "completed", "sort_order"}
	if r.caps.StepDeadline {
		columns = append(columns, "deadline")
	}
	return strings.Join(columns, ", ")
}

// activeFilter hides soft-deleted rows on generations that track them.
func (r *stepRepository) activeFilter() string {
	if r.caps.StepDeleted {
		return ` AND deleted = FALSE`
	}
	return ``
}

func (r *stepRepository) scanStep(row sqlx.ColScanner) (*model.Step, error) {
	step := &model.Step{}
	var completed sql.NullBool
	dest := []any{&step.ID, &step.DreamID, &step.Title, &completed, &step.SortOrder}

	var deadline sql.NullTime
	if r.caps.StepDeadline {
		dest = append(dest, &deadline)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	step.Completed = completed.Valid && completed.Bool
	if deadline.Valid {
		d := strfmt.Date(deadline.Time)
		step.Deadline = &d
	}

	return step, nil
}

// ByDreamIDs loads the active steps for a batch of dreams, keyed by dream id
// and ordered by their explicit sort position. A schema generation without a
// steps table reports every dream as stepless.
func (r *stepRepository) ByDreamIDs(ctx context.Context, dreamIDs []int64) (map[int64][]*model.Step, error) {
	steps := map[int64][]*model.Step{}
	if !r.caps.Steps || len(dreamIDs) == 0 {
		return steps, nil
	}

	query, args, err := sqlx.In(
		`SELECT `+r.selectColumns()+` FROM dream_steps WHERE dream_id IN (?)`+r.activeFilter()+
			` ORDER BY dream_id, sort_order, id`,
		dreamIDs,
	)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		step, err := r.scanStep(rows)
		if err != nil {
			return nil, err
		}
		steps[step.DreamID] = append(steps[step.DreamID], step)
	}

	return steps, rows.Err()
}

func (r *stepRepository) ByID(ctx context.Context, dreamID, stepID int64) (*model.Step, error) {
	if !r.caps.Steps {
		return nil, ErrStepNotFound
	}

	query := `SELECT ` + r.selectColumns() + ` FROM dream_steps WHERE id = $1 AND dream_id = $2` + r.activeFilter()

	row := r.db.QueryRowxContext(ctx, query, stepID, dreamID)
	step, err := r.scanStep(row)
	if err == sql.ErrNoRows {
		return nil, ErrStepNotFound
	}
	if err != nil {
		return nil, err
	}

	return step, nil
}

// Create appends a step at the next sort position. Position assignment and
// insert run in one transaction so concurrent appends cannot reuse a slot.
func (r *stepRepository) Create(ctx context.Context, step *model.Step) error {
	if !r.caps.Steps {
		return ErrSchemaExhausted
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sort_order), -1) + 1 FROM dream_steps WHERE dream_id = $1`,
		step.DreamID,
	).Scan(&step.SortOrder)
	if err != nil {
		return err
	}

	columns := []string{"dream_id", "title", "completed", "sort_order"}
	args := []any{step.DreamID, step.Title, step.Completed, step.SortOrder}

	if r.caps.StepDeadline && step.Deadline != nil {
		columns = append(columns, "deadline")
		args = append(args, time.Time(*step.Deadline))
	}
	if r.caps.StepDeleted {
		columns = append(columns, "deleted")
		args = append(args, false)
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := `INSERT INTO dream_steps (` + strings.Join(columns, ", ") + `)
	          VALUES (` + strings.Join(placeholders, ", ") + `) RETURNING id`

	err = tx.QueryRowContext(ctx, query, args...).Scan(&step.ID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *stepRepository) Update(ctx context.Context, dreamID, stepID int64, patch model.StepPatch) error {
	if !r.caps.Steps {
		return ErrStepNotFound
	}

	sets := []string{}
	args := []any{}

	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if patch.Title.Set && patch.Title.Valid {
		set("title", strings.TrimSpace(patch.Title.Value))
	}
	if patch.Completed.Set && patch.Completed.Valid {
		set("completed", patch.Completed.Value)
	}
	if patch.SortOrder.Set && patch.SortOrder.Valid {
		set("sort_order", patch.SortOrder.Value)
	}
	if patch.Deadline.Set && r.caps.StepDeadline {
		if patch.Deadline.Valid {
			set("deadline", time.Time(patch.Deadline.Value))
		} else {
			set("deadline", nil)
		}
	}
	if patch.Deleted.Set && patch.Deleted.Valid && patch.Deleted.Value && r.caps.StepDeleted {
		set("deleted", true)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, stepID, dreamID)
	query := fmt.Sprintf("UPDATE dream_steps SET %s WHERE id = $%d AND dream_id = $%d%s",
		strings.Join(sets, ", "), len(args)-1, len(args), r.activeFilter())

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrStepNotFound
	}

	return nil
}
