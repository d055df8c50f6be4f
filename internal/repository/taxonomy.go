package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/islandlabs/dreamtrack/internal/model"
)

type TaxonomyRepository interface {
	Statuses(ctx context.Context) ([]*model.TaxonomyEntry, error)
	Categories(ctx context.Context) ([]*model.TaxonomyEntry, error)
}

// taxonomyRepository reads the small status/category reference tables.
// An absent table reports an empty taxonomy, never an error.
type taxonomyRepository struct {
	db   *sqlx.DB
	caps Capabilities
}

func NewTaxonomyRepository(db *sqlx.DB, caps Capabilities) TaxonomyRepository {
	return &taxonomyRepository{db: db, caps: caps}
}

func (r *taxonomyRepository) Statuses(ctx context.Context) ([]*model.TaxonomyEntry, error) {
	if !r.caps.Statuses {
		return []*model.TaxonomyEntry{}, nil
	}
	return r.entries(ctx, "statuses")
}

func (r *taxonomyRepository) Categories(ctx context.Context) ([]*model.TaxonomyEntry, error) {
	if !r.caps.Categories {
		return []*model.TaxonomyEntry{}, nil
	}
	return r.entries(ctx, "categories")
}

func (r *taxonomyRepository) entries(ctx context.Context, table string) ([]*model.TaxonomyEntry, error) {
	entries := []*model.TaxonomyEntry{}
	query := `SELECT id, code, label, icon FROM ` + table + ` ORDER BY id`

	err := r.db.SelectContext(ctx, &entries, query)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return entries, nil
}
