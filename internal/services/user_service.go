package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yukikurage/project-tracker-api/internal/models"
	"github.com/yukikurage/project-tracker-api/internal/repository"
)

var (
	ErrUIDRequired  = errors.New("uid is required")
	ErrUserNotFound = errors.New("user not found")
)

// UserService keeps the local copy of identities issued by the identity provider.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// UpsertUserInput carries the profile reported at sign-in.
type UpsertUserInput struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// UpsertUser inserts the user or refreshes its profile and returns the stored row.
func (s *UserService) UpsertUser(ctx context.Context, input UpsertUserInput) (*models.User, error) {
	uid := strings.TrimSpace(input.UID)
	if uid == "" {
		return nil, ErrUIDRequired
	}

	user := &models.User{
		UID:         uid,
		Email:       input.Email,
		DisplayName: input.DisplayName,
		PhotoURL:    input.PhotoURL,
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	stored, err := s.userRepo.FindByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}

	return stored, nil
}

// GetUser retrieves a user by uid.
func (s *UserService) GetUser(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.userRepo.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
