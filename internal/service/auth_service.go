package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"userhub/internal/auth"
	"userhub/internal/cache"
	apperrors "userhub/internal/errors"
	"userhub/internal/model"
	"userhub/internal/repository"
)

const bcryptCost = 10

// AuthService handles registration and session lifecycle.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (token string, user *model.User, err error)
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error
}

type authService struct {
	userRepo     repository.UserRepository
	tokenService *auth.TokenService
	sessionStore auth.SessionStoreInterface
	cache        cache.Store
	sessionTTL   time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, tokenService *auth.TokenService, sessionStore auth.SessionStoreInterface, cache cache.Store, sessionTTL time.Duration) AuthService {
	return &authService{
		userRepo:     userRepo,
		tokenService: tokenService,
		sessionStore: sessionStore,
		cache:        cache,
		sessionTTL:   sessionTTL,
	}
}

// Register creates a student account with a hashed password. There is
// no auto-login; the caller authenticates separately.
func (s *authService) Register(ctx context.Context, username, password string) (*model.User, error) {
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleStudent,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// The new account must show up in the admin roster immediately.
	_ = s.cache.Delete(ctx, rosterCacheKey)
	return user, nil
}

// Login authenticates a user and establishes a server-side session,
// returning the signed token for the session cookie.
func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	sessionID, token, err := s.tokenService.IssueSessionToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue session token: %w", err)
	}

	session := &model.Session{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
	if err := s.sessionStore.Store(ctx, sessionID, session, s.sessionTTL); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}

	return token, user, nil
}

// Logout destroys the session behind the given token. It is
// idempotent: an absent, expired, or garbled token is not an error.
func (s *authService) Logout(ctx context.Context, token string) error {
	sessionID, err := s.tokenService.ExtractSessionID(token)
	if err != nil {
		return nil
	}
	return s.sessionStore.Delete(ctx, sessionID)
}

// ChangePassword verifies the current password, validates the new one
// against the policy, and stores the new hash. Existing sessions stay
// valid.
func (s *authService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return apperrors.ErrCurrentPassword
	}

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, userID, string(hashedPassword))
}
