package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"userhub/internal/cache"
	apperrors "userhub/internal/errors"
	"userhub/internal/model"
	"userhub/internal/repository"
)

const (
	rosterCacheKey = "users:roster"
	rosterCacheTTL = 5 * time.Minute
)

// UserService exposes the admin roster operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.Summary, error)
	CreateUser(ctx context.Context, username, password string, role model.Role) (*model.User, error)
	DeleteUser(ctx context.Context, username string) error
	EnsureAdmin(ctx context.Context, password string) error
}

type userService struct {
	userRepo repository.UserRepository
	cache    cache.Store
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(userRepo repository.UserRepository, cache cache.Store) UserService {
	return &userService{userRepo: userRepo, cache: cache}
}

// ListUsers returns the roster in insertion order, as identity
// summaries only.
func (s *userService) ListUsers(ctx context.Context) ([]model.Summary, error) {
	if data, _ := s.cache.Get(ctx, rosterCacheKey); data != nil {
		var cached []model.Summary
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	roster := make([]model.Summary, 0, len(users))
	for i := range users {
		roster = append(roster, users[i].Summary())
	}

	if payload, err := json.Marshal(roster); err == nil {
		_ = s.cache.Set(ctx, rosterCacheKey, payload, rosterCacheTTL)
	}
	return roster, nil
}

// CreateUser inserts an account with a caller-supplied role. Unknown
// roles are rejected before any store access.
func (s *userService) CreateUser(ctx context.Context, username, password string, role model.Role) (*model.User, error) {
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, rosterCacheKey)
	return user, nil
}

// DeleteUser removes an account by username. The admin account is
// protected and can never be deleted.
func (s *userService) DeleteUser(ctx context.Context, username string) error {
	if username == model.AdminUsername {
		return apperrors.ErrAdminProtected
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return err
	}

	_ = s.cache.Delete(ctx, rosterCacheKey)
	return nil
}

// EnsureAdmin seeds the admin account on first startup if it does not
// exist yet.
func (s *userService) EnsureAdmin(ctx context.Context, password string) error {
	_, err := s.userRepo.FindByUsername(ctx, model.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("find admin: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &model.User{
		Username:     model.AdminUsername,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		// A concurrent startup may have seeded it first.
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			return nil
		}
		return fmt.Errorf("create admin: %w", err)
	}

	log.Println("seeded admin account")
	return nil
}
