package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/islandlabs/dreamtrack/internal/model"
	"github.com/islandlabs/dreamtrack/internal/repository"
)

// TaxonomyService resolves status and category ids to display metadata.
// The reference tables are tiny and read-only, so they are loaded once and
// cached. An absent reference resolves to nil metadata, never an error.
type TaxonomyService struct {
	repo repository.TaxonomyRepository

	once         sync.Once
	loadErr      error
	statuses     []*model.TaxonomyEntry
	categories   []*model.TaxonomyEntry
	statusByID   map[int64]*model.TaxonomyEntry
	categoryByID map[int64]*model.TaxonomyEntry
}

func NewTaxonomyService(repo repository.TaxonomyRepository) *TaxonomyService {
	return &TaxonomyService{repo: repo}
}

func (s *TaxonomyService) load(ctx context.Context) error {
	s.once.Do(func() {
		s.statusByID = map[int64]*model.TaxonomyEntry{}
		s.categoryByID = map[int64]*model.TaxonomyEntry{}

		statuses, err := s.repo.Statuses(ctx)
		if err != nil {
			s.loadErr = err
			return
		}
		categories, err := s.repo.Categories(ctx)
		if err != nil {
			s.loadErr = err
			return
		}

		s.statuses = statuses
		s.categories = categories
		for _, entry := range statuses {
			s.statusByID[entry.ID] = entry
		}
		for _, entry := range categories {
			s.categoryByID[entry.ID] = entry
		}
	})
	return s.loadErr
}

func (s *TaxonomyService) Statuses(ctx context.Context) ([]*model.TaxonomyEntry, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s.statuses, nil
}

func (s *TaxonomyService) Categories(ctx context.Context) ([]*model.TaxonomyEntry, error) {
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s.categories, nil
}

// StatusByID resolves a status id to its metadata, nil when unknown.
func (s *TaxonomyService) StatusByID(ctx context.Context, id int64) *model.TaxonomyEntry {
	if err := s.load(ctx); err != nil {
		slog.Warn("taxonomy unavailable", "error", err)
		return nil
	}
	return s.statusByID[id]
}

// CategoryByID resolves a category id to its metadata, nil when unknown.
func (s *TaxonomyService) CategoryByID(ctx context.Context, id int64) *model.TaxonomyEntry {
	if err := s.load(ctx); err != nil {
		slog.Warn("taxonomy unavailable", "error", err)
		return nil
	}
	return s.categoryByID[id]
}
