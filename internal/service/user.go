package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"github.com/fabianroy/Bistro-Boss-Server/internal/repo"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo repo.UserRepository
	logger   *zap.SugaredLogger
}

func NewUserService(userRepo repo.UserRepository, logger *zap.SugaredLogger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Register stores user unless a user with the same email already exists.
// Roles are never taken from the caller; new users start as regular.
// The boolean result is false when nothing was inserted.
func (s *UserService) Register(ctx context.Context, user *domain.User) (bool, error) {
	if user.Email == "" {
		return false, fmt.Errorf("%w: email is required", ErrValidation)
	}

	_, err := s.userRepo.GetByEmail(ctx, user.Email)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, repo.ErrNotFound):
		return false, fmt.Errorf("failed to look up user: %w", err)
	}

	user.Role = domain.RoleRegular
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent sign-in for the same email
		if errors.Is(err, repo.ErrDuplicate) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infow("user registered", "user_id", user.ID.Hex(), "email", user.Email)

	return true, nil
}

// IsAdmin reports whether email belongs to an admin. An unknown email is
// not an error.
func (s *UserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up user role: %w", err)
	}

	return user.IsAdmin(), nil
}
