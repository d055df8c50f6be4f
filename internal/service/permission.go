package service

import (
	"context"
	"errors"

	"github.com/islandlabs/dreamtrack/internal/model"
	"github.com/islandlabs/dreamtrack/internal/repository"
)

// PermissionService decides whether an actor may view or mutate another
// user's dream list. The rule is intentionally small: owners may do
// everything; a user whose own buddy link points at the owner may view, and
// may mutate only when the link is trusted.
type PermissionService struct {
	users repository.UserRepository
}

func NewPermissionService(users repository.UserRepository) *PermissionService {
	return &PermissionService{users: users}
}

// CanView grants viewing when the actor is the owner or the actor's buddy
// link points at the owner. Trust is not required to view.
func (s *PermissionService) CanView(ctx context.Context, actorID, ownerID int64) error {
	if actorID == ownerID {
		return nil
	}

	link, err := s.buddyLink(ctx, actorID)
	if err != nil {
		return err
	}
	if link != nil && link.BuddyID == ownerID {
		return nil
	}

	return ErrForbidden
}

// CanMutate grants create/update/delete only to the owner, or to a buddy
// whose link carries the trust flag.
func (s *PermissionService) CanMutate(ctx context.Context, actorID, ownerID int64) error {
	if actorID == ownerID {
		return nil
	}

	link, err := s.buddyLink(ctx, actorID)
	if err != nil {
		return err
	}
	if link != nil && link.BuddyID == ownerID && link.Trusted {
		return nil
	}

	return ErrForbidden
}

func (s *PermissionService) buddyLink(ctx context.Context, actorID int64) (*model.BuddyLink, error) {
	link, err := s.users.BuddyLink(ctx, actorID)
	if err != nil {
		// An unknown actor holds no buddy link; deny rather than 404.
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return link, nil
}
