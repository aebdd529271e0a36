package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lenslink-backend-go/internal/db"
	"lenslink-backend-go/internal/models"
)

// ErrUserNotFound is returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// userService implements the UserService interface.
type userService struct {
	userRepo db.UserRepository
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// InitializeProfile retrieves a profile by Firebase UID, creating it on first
// call. Role and phone number come from the request only at creation time; an
// existing profile is returned as-is, so the role is effectively write-once
// from the backend's point of view (the store itself does not enforce this).
func (s *userService) InitializeProfile(ctx context.Context, userID, email string, req models.InitializeProfileRequest) (*models.User, bool, error) {
	if s.userRepo == nil {
		return nil, false, errors.New("UserRepository not initialized in UserService")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			newUser := &models.User{
				ID:          userID,
				Email:       email,
				Role:        req.Role,
				PhoneNumber: req.PhoneNumber,
				DisplayName: req.DisplayName,
				City:        req.City,
				About:       req.About,
				CreatedAt:   time.Now().UTC(),
				UpdatedAt:   time.Now().UTC(),
			}
			if createErr := s.userRepo.Create(ctx, newUser); createErr != nil {
				return nil, false, fmt.Errorf("failed to create user (id: %s) after not found: %w", userID, createErr)
			}
			return newUser, true, nil
		}
		return nil, false, fmt.Errorf("failed to get user by ID '%s' from repository: %w", userID, err)
	}

	return user, false, nil
}

// GetByID retrieves a user by their Firebase UID.
func (s *userService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if s.userRepo == nil {
		return nil, errors.New("UserRepository not initialized in UserService")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: user with ID '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user by ID '%s' from repository: %w", userID, err)
	}
	return user, nil
}

// ListUsers retrieves all user profiles for the admin dashboard.
func (s *userService) ListUsers(ctx context.Context) ([]*models.User, error) {
	if s.userRepo == nil {
		return nil, errors.New("UserRepository not initialized in UserService")
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users from repository: %w", err)
	}
	return users, nil
}
