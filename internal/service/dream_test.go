package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/islandlabs/dreamtrack/internal/model"
	"github.com/islandlabs/dreamtrack/internal/repository"
)

func donePatch() model.DreamPatch {
	return model.DreamPatch{
		StatusID: model.Field[int64]{Set: true, Valid: true, Value: model.StatusIDDone},
	}
}

func TestCreateDreamDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "+70000000001")

	dream, err := env.dreamSvc.Create(ctx, owner, owner, CreateDreamInput{Dream: "  see the ocean  "})
	require.NoError(t, err)

	assert.Equal(t, "see the ocean", dream.Dream)
	assert.Equal(t, model.StatusIDPlanned, dream.StatusID)
	assert.Equal(t, model.StatusPlanned, dream.Status)
	assert.True(t, dream.IsPublic)
	require.NotNil(t, dream.StatusMeta)
	assert.Equal(t, "planned", dream.StatusMeta.Code)
}

func TestCreateDreamValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "+70000000001")

	_, err := env.dreamSvc.Create(ctx, owner, owner, CreateDreamInput{Dream: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	price := -5.0
	_, err = env.dreamSvc.Create(ctx, owner, owner, CreateDreamInput{Dream: "x", Price: &price})
	assert.ErrorIs(t, err, ErrValidation)

	bad := int64(99)
	_, err = env.dreamSvc.Create(ctx, owner, owner, CreateDreamInput{Dream: "x", StatusID: &bad})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateDreamUnknownOwner(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.dreamSvc.Create(context.Background(), 12345, 12345, CreateDreamInput{Dream: "x"})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

// Transitioning into done appends exactly one ledger entry. Re-submitting
// done on an already-done dream appends nothing.
func TestUpdateStatusToDoneAppendsOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "+70000000001")
	dream, err := env.dreamSvc.Create(ctx, owner, owner, CreateDreamInput{Dream: "finish the thesis"})
	require.NoError(t, err)

	require.NoError(t, env.dreamSvc.Update(ctx, dream.ID, owner, donePatch()))
	require.NoError(t, env.dreamSvc.Update(ctx, dream.ID, owner, donePatch()))

	_, times, err := env.ledger.CountsForOwner(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), times)
}

// Leaving done and returning to it logs a second entry: the counter tracks
// transitions, not the current state.
func TestUpdateStatusReentersDone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "+70000000001")
	dream, err := env.dreamSvc.Create(ctx, owner, owner, CreateDreamInput{Dream: "repeating goal"})
	require.NoError(t, err)

	reopen := model.DreamPatch{
		StatusID: model.Field[int64]{Set: true, Valid: true, Value: model.StatusIDInProgress},
	}

	require.NoError(t, env.dreamSvc.Update(ctx, dream.ID, owner, donePatch()))
	require.NoError(t, env.dreamSvc.Update(ctx, dream.ID, owner, reopen))
	require.NoError(t, env.dreamSvc.Update(ctx, dream.ID, owner, donePatch()))

	distinct, times, err := env.ledger.CountsForOwner(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), distinct)
	assert.Equal(t, int64(2), times)
}

// A hand-built generation can carry the ledger table while the dreams table
// predates status columns. A status patch persists nothing there, so it must
// not be ledgered as a transition either.
func TestUpdateStatusNotLedgeredWithoutStatusColumn(t *testing.T) {
	schema := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			surname TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL UNIQUE,
			city TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL
		)`,
		`CREATE TABLE dreams (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			dream TEXT NOT NULL
		)`,
		`CREATE TABLE fulfillments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			dream_id INTEGER NOT NULL,
			fulfilled_on DATE NOT NULL,
			fulfilled_by INTEGER NOT NULL
		)`,
	}
	env := newTestEnvWith(t, schema)
	ctx := context.Background()

	owner := env.seedUser(t, "+70000000001")
	dream, err := env.dreamSvc.Create(ctx, owner, owner, CreateDreamInput{Dream: "old-world goal"})
	require.NoError(t, err)

	require.NoError(t, env.dreamSvc.Update(ctx, dream.ID, owner, donePatch()))

	_, times, err := env.ledger.CountsForOwner(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, times, "no status was persisted, so no transition is recorded")
}

type failingLedger struct {
	repository.FulfillmentRepository
}

func (failingLedger) Append(ctx context.Context, dreamID, userID int64, on time.Time) error {
	return errors.New("ledger unavailable")
}

// A failed ledger append rolls the status back so the client can retry the
// transition and have it recorded.
func TestUpdateLedgerFailureRevertsStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	svc := NewDreamService(env.dreams, env.steps,
		failingLedger{env.ledger}, env.users, env.taxonomy, env.perms)

	owner := env.seedUser(t, "+70000000001")
	dream, err := svc.Create(ctx, owner, owner, CreateDreamInput{Dream: "fragile goal"})
	require.NoError(t, err)

	err = svc.Update(ctx, dream.ID, owner, donePatch())
	require.Error(t, err)

	got, err := env.dreams.ByID(ctx, dream.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusIDPlanned, got.StatusID)
}

func TestUpdateForbiddenBeforeValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "+70000000001")
	stranger := env.seedUser(t, "+70000000002")
	dream, err := env.dreamSvc.Create(ctx, owner, owner, CreateDreamInput{Dream: "private goal"})
	require.NoError(t, err)

	err = env.dreamSvc.Update(ctx, dream.ID, stranger, donePatch())
	assert.ErrorIs(t, err, ErrForbidden)

	// A missing dream is reported as missing even to a stranger.
	err = env.dreamSvc.Update(ctx, 12345, stranger, donePatch())
	assert.ErrorIs(t, err, repository.ErrDreamNotFound)
}

func TestUpdatePatchValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "+70000000001")
	dream, err := env.dreamSvc.Create(ctx, owner, owner, CreateDreamInput{Dream: "goal"})
	require.NoError(t, err)

	nullText := model.DreamPatch{Dream: model.Field[string]{Set: true}}
	assert.ErrorIs(t, env.dreamSvc.Update(ctx, dream.ID, owner, nullText), ErrValidation)

	nullStatus := model.DreamPatch{StatusID: model.Field[int64]{Set: true}}
	assert.ErrorIs(t, env.dreamSvc.Update(ctx, dream.ID, owner, nullStatus), ErrValidation)

	negativePrice := model.DreamPatch{Price: model.Field[float64]{Set: true, Valid: true, Value: -1}}
	assert.ErrorIs(t, env.dreamSvc.Update(ctx, dream.ID, owner, negativePrice), ErrValidation)
}

func TestStepPatchDeletedFalseRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "+70000000001")
	dream, err := env.dreamSvc.Create(ctx, owner, owner, CreateDreamInput{Dream: "goal"})
	require.NoError(t, err)
	step, err := env.dreamSvc.CreateStep(ctx, dream.ID, owner, "step one", nil)
	require.NoError(t, err)

	resurrect := model.StepPatch{Deleted: model.Field[bool]{Set: true, Valid: true, Value: false}}
	err = env.dreamSvc.UpdateStep(ctx, dream.ID, step.ID, owner, resurrect)
	assert.ErrorIs(t, err, ErrValidation)
}

// The documented buddy flow end to end: a trusted buddy marks the owner's
// dream done, the transition lands on the owner's counters, and the assist
// is attributed to the buddy's viewing identity.
func TestBuddyFulfillmentScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "+70000000001")
	buddy := env.seedUser(t, "+70000000002")
	require.NoError(t, env.userSvc.SetBuddy(ctx, buddy, owner, true))

	dream, err := env.dreamSvc.Create(ctx, owner, owner, CreateDreamInput{Dream: "shared adventure"})
	require.NoError(t, err)

	require.NoError(t, env.dreamSvc.Update(ctx, dream.ID, buddy, donePatch()))

	// Owner's own view of their list.
	list, err := env.dreamSvc.List(ctx, owner, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Distinct)
	assert.Equal(t, int64(1), list.Times)
	assert.Zero(t, list.ByViewer, "the owner recorded no assists")

	// Buddy viewing the owner's list sees their assist.
	list, err = env.dreamSvc.List(ctx, owner, buddy)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Distinct)
	assert.Equal(t, int64(1), list.ByViewer)

	require.Len(t, list.Dreams, 1)
	assert.Equal(t, model.StatusDone, list.Dreams[0].Status)
}

// Deleting a dream takes its steps with it; a later step lookup reports the
// dream missing, not the step.
func TestStepLookupAfterDreamDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "+70000000001")
	dream, err := env.dreamSvc.Create(ctx, owner, owner, CreateDreamInput{Dream: "goal"})
	require.NoError(t, err)
	step, err := env.dreamSvc.CreateStep(ctx, dream.ID, owner, "only step", nil)
	require.NoError(t, err)

	require.NoError(t, env.dreamSvc.Delete(ctx, dream.ID, owner))

	_, err = env.dreamSvc.Step(ctx, dream.ID, step.ID, owner)
	assert.ErrorIs(t, err, repository.ErrDreamNotFound)
}

func TestStepReadableByUntrustedBuddy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "+70000000001")
	buddy := env.seedUser(t, "+70000000002")
	require.NoError(t, env.userSvc.SetBuddy(ctx, buddy, owner, false))

	dream, err := env.dreamSvc.Create(ctx, owner, owner, CreateDreamInput{Dream: "goal"})
	require.NoError(t, err)
	step, err := env.dreamSvc.CreateStep(ctx, dream.ID, owner, "shared step", nil)
	require.NoError(t, err)

	got, err := env.dreamSvc.Step(ctx, dream.ID, step.ID, buddy)
	require.NoError(t, err)
	assert.Equal(t, "shared step", got.Title)
}

func TestListForbiddenForStranger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "+70000000001")
	stranger := env.seedUser(t, "+70000000002")

	_, err := env.dreamSvc.List(ctx, owner, stranger)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListIncludesStepsInOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.seedUser(t, "+70000000001")
	dream, err := env.dreamSvc.Create(ctx, owner, owner, CreateDreamInput{Dream: "goal"})
	require.NoError(t, err)

	_, err = env.dreamSvc.CreateStep(ctx, dream.ID, owner, "first", nil)
	require.NoError(t, err)
	_, err = env.dreamSvc.CreateStep(ctx, dream.ID, owner, "second", nil)
	require.NoError(t, err)

	list, err := env.dreamSvc.List(ctx, owner, 0)
	require.NoError(t, err)
	require.Len(t, list.Dreams, 1)
	require.Len(t, list.Dreams[0].Steps, 2)
	assert.Equal(t, "first", list.Dreams[0].Steps[0].Title)
	assert.Equal(t, "second", list.Dreams[0].Steps[1].Title)
}
