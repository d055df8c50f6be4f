package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/islandlabs/dreamtrack/internal/model"
	"github.com/islandlabs/dreamtrack/internal/repository"
	"github.com/islandlabs/dreamtrack/internal/validation"
)

// AuthService handles registration and password login. Token issuance is
// deliberately out of scope; login returns the user row itself.
type AuthService struct {
	users repository.UserRepository
}

func NewAuthService(users repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	Password string `json:"password"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if err := validation.ValidatePhone(in.Phone); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	// Check both spellings of the handle so 8XXXXXXXXXX and +7XXXXXXXXXX
	// cannot register as two accounts.
	_, err := s.users.ByPhone(ctx, in.Phone, validation.PhoneAlternate(in.Phone))
	if err == nil {
		return nil, repository.ErrDuplicatePhone
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Surname:      strings.TrimSpace(in.Surname),
		Phone:        strings.TrimSpace(in.Phone),
		City:         strings.TrimSpace(in.City),
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies a phone/password pair. Rows written before hashing was
// introduced store the bare password; those still verify by equality and
// are not silently upgraded here.
func (s *AuthService) Login(ctx context.Context, phone, password string) (*model.User, error) {
	user, err := s.users.ByPhone(ctx, phone, validation.PhoneAlternate(phone))
	if err != nil {
		return nil, err
	}

	stored := user.PasswordHash
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") {
		if bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
	} else if stored != password {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
