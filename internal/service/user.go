package service

import (
	"context"
	"fmt"

	"github.com/islandlabs/dreamtrack/internal/repository"
)

// UserService manages the buddy edge on a user. Everything else about user
// rows is plain pass-through persistence handled elsewhere.
type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// SetBuddy points userID's buddy edge at buddyID. Trust decides whether the
// buddy may mutate or only view.
func (s *UserService) SetBuddy(ctx context.Context, userID, buddyID int64, trust bool) error {
	if userID == buddyID {
		return fmt.Errorf("%w: cannot set yourself as buddy", ErrValidation)
	}

	if _, err := s.users.ByID(ctx, userID); err != nil {
		return err
	}
	if _, err := s.users.ByID(ctx, buddyID); err != nil {
		return err
	}

	return s.users.SetBuddy(ctx, userID, buddyID, trust)
}

func (s *UserService) ClearBuddy(ctx context.Context, userID int64) error {
	return s.users.ClearBuddy(ctx, userID)
}
