package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/islandlabs/dreamtrack/internal/model"
	"github.com/islandlabs/dreamtrack/internal/repository"
	"github.com/islandlabs/dreamtrack/internal/validation"
)

// DreamService composes dreams with their ordered steps and fulfillment
// counters, and owns the status-transition side effect: a transition into
// done appends exactly one ledger entry attributed to the acting user.
type DreamService struct {
	dreams       repository.DreamRepository
	steps        repository.StepRepository
	fulfillments repository.FulfillmentRepository
	users        repository.UserRepository
	taxonomy     *TaxonomyService
	perms        *PermissionService
}

func NewDreamService(
	dreams repository.DreamRepository,
	steps repository.StepRepository,
	fulfillments repository.FulfillmentRepository,
	users repository.UserRepository,
	taxonomy *TaxonomyService,
	perms *PermissionService,
) *DreamService {
	return &DreamService{
		dreams:       dreams,
		steps:        steps,
		fulfillments: fulfillments,
		users:        users,
		taxonomy:     taxonomy,
		perms:        perms,
	}
}

// DreamList is the full listing response: decorated dreams plus the three
// ledger counters, which are present even when the dream list is empty.
type DreamList struct {
	Dreams []*model.Dream `json:"dreams"`
	model.FulfillmentCounts
}

// List returns ownerID's dreams for viewerID's perspective. A zero viewerID
// means the owner is viewing their own list. The assist counter is computed
// for the viewing identity, the other two for the list owner.
func (s *DreamService) List(ctx context.Context, ownerID, viewerID int64) (*DreamList, error) {
	subject := ownerID
	if viewerID != 0 && viewerID != ownerID {
		if err := s.perms.CanView(ctx, viewerID, ownerID); err != nil {
			return nil, err
		}
		subject = viewerID
	}

	dreams, err := s.dreams.Dreams(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	dreamIDs := make([]int64, len(dreams))
	for i, dream := range dreams {
		dreamIDs[i] = dream.ID
	}

	stepsByDream, err := s.steps.ByDreamIDs(ctx, dreamIDs)
	if err != nil {
		return nil, err
	}

	for _, dream := range dreams {
		if steps, ok := stepsByDream[dream.ID]; ok {
			dream.Steps = steps
		}
		s.decorate(ctx, dream)
	}

	distinct, times, err := s.fulfillments.CountsForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	assists, err := s.fulfillments.CountAssists(ctx, subject)
	if err != nil {
		return nil, err
	}

	return &DreamList{
		Dreams: dreams,
		FulfillmentCounts: model.FulfillmentCounts{
			Distinct: distinct,
			Times:    times,
			ByViewer: assists,
		},
	}, nil
}

func (s *DreamService) decorate(ctx context.Context, dream *model.Dream) {
	dream.StatusMeta = s.taxonomy.StatusByID(ctx, dream.StatusID)
	if dream.CategoryID != nil {
		dream.CategoryMeta = s.taxonomy.CategoryByID(ctx, *dream.CategoryID)
	}
}

// CreateDreamInput carries the optional creation fields; nil means the
// documented default (status planned, visibility public).
type CreateDreamInput struct {
	Dream      string
	StatusID   *int64
	CategoryID *int64
	Deadline   *strfmt.Date
	Price      *float64
	IsPublic   *bool
}

func (s *DreamService) Create(ctx context.Context, ownerID, actorID int64, in CreateDreamInput) (*model.Dream, error) {
	if err := validation.ValidateDreamText(in.Dream); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	if in.Price != nil && *in.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	if _, err := s.users.ByID(ctx, ownerID); err != nil {
		return nil, err
	}
	if err := s.perms.CanMutate(ctx, actorID, ownerID); err != nil {
		return nil, err
	}

	statusID := model.StatusIDPlanned
	if in.StatusID != nil {
		if !model.ValidStatusID(*in.StatusID) {
			return nil, fmt.Errorf("%w: unknown status id %d", ErrValidation, *in.StatusID)
		}
		statusID = *in.StatusID
	}

	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}

	dream := &model.Dream{
		UserID:     ownerID,
		Dream:      strings.TrimSpace(in.Dream),
		StatusID:   statusID,
		Status:     model.StatusCodeByID(statusID),
		CategoryID: in.CategoryID,
		Deadline:   in.Deadline,
		Price:      in.Price,
		IsPublic:   isPublic,
		Steps:      []*model.Step{},
	}

	if err := s.dreams.Create(ctx, dream); err != nil {
		return nil, fmt.Errorf("create dream: %w", err)
	}

	s.decorate(ctx, dream)
	return dream, nil
}

func (s *DreamService) validatePatch(patch model.DreamPatch) error {
	if patch.Dream.Set {
		if !patch.Dream.Valid {
			return fmt.Errorf("%w: dream text cannot be null", ErrValidation)
		}
		if err := validation.ValidateDreamText(patch.Dream.Value); err != nil {
			return fmt.Errorf("%w: %s", ErrValidation, err)
		}
	}
	if patch.StatusID.Set {
		if !patch.StatusID.Valid {
			return fmt.Errorf("%w: status cannot be null", ErrValidation)
		}
		if !model.ValidStatusID(patch.StatusID.Value) {
			return fmt.Errorf("%w: unknown status id %d", ErrValidation, patch.StatusID.Value)
		}
	}
	if patch.Price.Set && patch.Price.Valid && patch.Price.Value < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if patch.IsPublic.Set && !patch.IsPublic.Valid {
		return fmt.Errorf("%w: is_public cannot be null", ErrValidation)
	}
	return nil
}

// Update applies a partial dream update. Only supplied fields change; a
// supplied null clears its column. Exactly one ledger entry is appended when
// the status transitions into done from any other state.
func (s *DreamService) Update(ctx context.Context, dreamID, actorID int64, patch model.DreamPatch) error {
	dream, err := s.dreams.ByID(ctx, dreamID)
	if err != nil {
		return err
	}
	if err := s.perms.CanMutate(ctx, actorID, dream.UserID); err != nil {
		return err
	}
	if err := s.validatePatch(patch); err != nil {
		return err
	}
	if patch.Empty() {
		return nil
	}

	if err := s.dreams.Update(ctx, dreamID, patch); err != nil {
		return err
	}

	// A generation without a status column never persisted the transition,
	// so there is nothing to ledger.
	becameDone := s.dreams.TracksStatus() &&
		patch.StatusID.Set && patch.StatusID.Valid &&
		patch.StatusID.Value == model.StatusIDDone &&
		dream.Status != model.StatusDone
	if !becameDone {
		return nil
	}

	if err := s.fulfillments.Append(ctx, dreamID, actorID, today()); err != nil {
		// Roll the status back so a retry can transition (and log) again.
		revert := model.DreamPatch{
			StatusID: model.Field[int64]{Set: true, Valid: true, Value: dream.StatusID},
		}
		if revErr := s.dreams.Update(ctx, dreamID, revert); revErr != nil {
			slog.Error("failed to revert status after ledger error",
				"error", revErr, "dream_id", dreamID)
		}
		return fmt.Errorf("record fulfillment: %w", err)
	}

	return nil
}

func (s *DreamService) Delete(ctx context.Context, dreamID, actorID int64) error {
	dream, err := s.dreams.ByID(ctx, dreamID)
	if err != nil {
		return err
	}
	if err := s.perms.CanMutate(ctx, actorID, dream.UserID); err != nil {
		return err
	}

	return s.dreams.Delete(ctx, dreamID)
}

// CreateStep appends a step to a dream. Permission is checked against the
// parent dream's owner; steps carry no independent ownership.
func (s *DreamService) CreateStep(ctx context.Context, dreamID, actorID int64, title string, deadline *strfmt.Date) (*model.Step, error) {
	dream, err := s.dreams.ByID(ctx, dreamID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.CanMutate(ctx, actorID, dream.UserID); err != nil {
		return nil, err
	}
	if err := validation.ValidateStepTitle(title); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	step := &model.Step{
		DreamID:  dreamID,
		Title:    strings.TrimSpace(title),
		Deadline: deadline,
	}
	if err := s.steps.Create(ctx, step); err != nil {
		return nil, fmt.Errorf("create step: %w", err)
	}

	return step, nil
}

func (s *DreamService) validateStepPatch(patch model.StepPatch) error {
	if patch.Title.Set {
		if !patch.Title.Valid {
			return fmt.Errorf("%w: title cannot be null", ErrValidation)
		}
		if err := validation.ValidateStepTitle(patch.Title.Value); err != nil {
			return fmt.Errorf("%w: %s", ErrValidation, err)
		}
	}
	if patch.Completed.Set && !patch.Completed.Valid {
		return fmt.Errorf("%w: completed cannot be null", ErrValidation)
	}
	if patch.SortOrder.Set && !patch.SortOrder.Valid {
		return fmt.Errorf("%w: sort_order cannot be null", ErrValidation)
	}
	if patch.Deleted.Set && (!patch.Deleted.Valid || !patch.Deleted.Value) {
		// Soft-deleted steps stay deleted; they are never resurrected.
		return fmt.Errorf("%w: deleted can only be set to true", ErrValidation)
	}
	return nil
}

func (s *DreamService) UpdateStep(ctx context.Context, dreamID, stepID, actorID int64, patch model.StepPatch) error {
	dream, err := s.dreams.ByID(ctx, dreamID)
	if err != nil {
		return err
	}
	if err := s.perms.CanMutate(ctx, actorID, dream.UserID); err != nil {
		return err
	}
	if err := s.validateStepPatch(patch); err != nil {
		return err
	}
	if patch.Empty() {
		return nil
	}

	return s.steps.Update(ctx, dreamID, stepID, patch)
}

// Step returns one active step of a dream, permission-checked against the
// parent dream's owner.
func (s *DreamService) Step(ctx context.Context, dreamID, stepID, actorID int64) (*model.Step, error) {
	dream, err := s.dreams.ByID(ctx, dreamID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.CanView(ctx, actorID, dream.UserID); err != nil {
		return nil, err
	}

	return s.steps.ByID(ctx, dreamID, stepID)
}

// GlobalStats reports the ledger-wide aggregates.
func (s *DreamService) GlobalStats(ctx context.Context) (model.GlobalStats, error) {
	return s.fulfillments.GlobalStats(ctx)
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
