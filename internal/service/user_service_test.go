package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"userhub/internal/auth"
	apperrors "userhub/internal/errors"
	"userhub/internal/model"
)

func TestUserService_ListUsers(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("List", mock.Anything).Return([]model.User{
		{ID: 1, Username: "admin", PasswordHash: "x", Role: model.RoleAdmin},
		{ID: 2, Username: "alice", PasswordHash: "y", Role: model.RoleStudent},
	}, nil)

	svc := NewUserService(mockRepo, newFakeCache())
	roster, err := svc.ListUsers(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []model.Summary{
		{Username: "admin", Role: model.RoleAdmin},
		{Username: "alice", Role: model.RoleStudent},
	}, roster)
	mockRepo.AssertExpectations(t)
}

func TestUserService_RosterIsFreshAfterRegistration(t *testing.T) {
	// Self-registration must invalidate the cached roster view, or a
	// new account stays invisible to admins until the TTL expires.
	sharedCache := newFakeCache()

	mockRepo := new(MockUserRepository)
	mockRepo.On("List", mock.Anything).Return([]model.User{
		{ID: 1, Username: "admin", Role: model.RoleAdmin},
	}, nil).Once()
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
	mockRepo.On("List", mock.Anything).Return([]model.User{
		{ID: 1, Username: "admin", Role: model.RoleAdmin},
		{ID: 2, Username: "alice", Role: model.RoleStudent},
	}, nil).Once()

	userSvc := NewUserService(mockRepo, sharedCache)
	authSvc := NewAuthService(mockRepo, auth.NewTokenService("test-secret", time.Hour), new(MockSessionStore), sharedCache, time.Hour)

	// Prime the cache.
	roster, err := userSvc.ListUsers(context.Background())
	assert.NoError(t, err)
	assert.Len(t, roster, 1)

	_, err = authSvc.Register(context.Background(), "alice", "Passw0rd")
	assert.NoError(t, err)

	roster, err = userSvc.ListUsers(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []model.Summary{
		{Username: "admin", Role: model.RoleAdmin},
		{Username: "alice", Role: model.RoleStudent},
	}, roster)
	mockRepo.AssertExpectations(t)
}

func TestUserService_CreateUser(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		role          model.Role
		setupMock     func(*MockUserRepository)
		expectedError error
		wantPolicyErr bool
	}{
		{
			name:     "successful create with explicit role",
			username: "teach",
			password: "Teach3r",
			role:     model.RoleAdmin,
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:          "unknown role rejected before the store",
			username:      "eve",
			password:      "Passw0rd",
			role:          model.Role("superuser"),
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrInvalidRole,
		},
		{
			name:          "weak password rejected before the store",
			username:      "eve",
			password:      "weak",
			role:          model.RoleStudent,
			setupMock:     func(m *MockUserRepository) {},
			wantPolicyErr: true,
		},
		{
			name:     "duplicate username",
			username: "alice",
			password: "Passw0rd",
			role:     model.RoleStudent,
			setupMock: func(m *MockUserRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(apperrors.ErrUsernameTaken)
			},
			expectedError: apperrors.ErrUsernameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewUserService(mockRepo, newFakeCache())
			user, err := svc.CreateUser(context.Background(), tt.username, tt.password, tt.role)

			switch {
			case tt.wantPolicyErr:
				var policyErr *apperrors.PolicyError
				assert.ErrorAs(t, err, &policyErr)
				assert.Nil(t, user)
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.role, user.Role)
				assert.NotEmpty(t, user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_DeleteUser(t *testing.T) {
	t.Run("admin account is protected even for admins", func(t *testing.T) {
		mockRepo := new(MockUserRepository)

		svc := NewUserService(mockRepo, newFakeCache())
		err := svc.DeleteUser(context.Background(), "admin")

		assert.ErrorIs(t, err, apperrors.ErrAdminProtected)
		mockRepo.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing target", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

		svc := NewUserService(mockRepo, newFakeCache())
		err := svc.DeleteUser(context.Background(), "ghost")

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("successful delete", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "alice").Return(&model.User{ID: 2, Username: "alice", Role: model.RoleStudent}, nil)
		mockRepo.On("Delete", mock.Anything, uint(2)).Return(nil)

		svc := NewUserService(mockRepo, newFakeCache())
		assert.NoError(t, svc.DeleteUser(context.Background(), "alice"))
		mockRepo.AssertExpectations(t)
	})
}

func TestUserService_EnsureAdmin(t *testing.T) {
	t.Run("seeds admin when absent", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "admin").Return(nil, gorm.ErrRecordNotFound)

		var seeded *model.User
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
			Run(func(args mock.Arguments) {
				seeded = args.Get(1).(*model.User)
			}).Return(nil)

		svc := NewUserService(mockRepo, newFakeCache())
		assert.NoError(t, svc.EnsureAdmin(context.Background(), "Admin@123"))
		assert.Equal(t, "admin", seeded.Username)
		assert.Equal(t, model.RoleAdmin, seeded.Role)
		assert.NotEqual(t, "Admin@123", seeded.PasswordHash)
	})

	t.Run("no-op when admin exists", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "admin").Return(&model.User{ID: 1, Username: "admin", Role: model.RoleAdmin}, nil)

		svc := NewUserService(mockRepo, newFakeCache())
		assert.NoError(t, svc.EnsureAdmin(context.Background(), "Admin@123"))
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("lost seeding race is not an error", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "admin").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(apperrors.ErrUsernameTaken)

		svc := NewUserService(mockRepo, newFakeCache())
		assert.NoError(t, svc.EnsureAdmin(context.Background(), "Admin@123"))
	})
}
