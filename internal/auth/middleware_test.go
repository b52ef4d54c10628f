package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"userhub/internal/model"
)

// MockSessionStore is a mock implementation of SessionStoreInterface.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Store(ctx context.Context, sessionID string, session *model.Session, ttl time.Duration) error {
	args := m.Called(ctx, sessionID, session, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

const testSecret = "test-secret"

// newTestServer wires one self-service route and one admin route
// behind the real middleware chains.
func newTestServer(store SessionStoreInterface) *echo.Echo {
	e := echo.New()

	okHandler := func(c echo.Context) error {
		session := CurrentSession(c)
		return c.JSON(http.StatusOK, session)
	}

	me := e.Group("/api", RequireSession(testSecret, store)...)
	me.GET("/current-user", okHandler)

	admin := e.Group("/api/users", RequireAdmin(testSecret, store)...)
	admin.GET("", okHandler)

	return e
}

func issueCookie(t *testing.T, user *model.User) (sessionID string, cookie *http.Cookie) {
	t.Helper()
	svc := NewTokenService(testSecret, time.Hour)
	sessionID, token, err := svc.IssueSessionToken(user)
	assert.NoError(t, err)
	return sessionID, &http.Cookie{Name: SessionCookieName, Value: token}
}

func TestMiddleware_AnonymousRejections(t *testing.T) {
	// Self-service answers 401, admin answers 403; the admin error
	// never reveals whether the caller was logged in.
	tests := []struct {
		name         string
		path         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "whoami without cookie",
			path:         "/api/current-user",
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"error":"Not authenticated","code":"NOT_AUTHENTICATED"}`,
		},
		{
			name:         "admin route without cookie",
			path:         "/api/users",
			expectedCode: http.StatusForbidden,
			expectedBody: `{"error":"Unauthorized","code":"FORBIDDEN"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(new(MockSessionStore))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.JSONEq(t, tt.expectedBody, rec.Body.String())
		})
	}
}

func TestMiddleware_ValidSessionPasses(t *testing.T) {
	alice := &model.User{ID: 7, Username: "alice", Role: model.RoleStudent}
	sessionID, cookie := issueCookie(t, alice)

	store := new(MockSessionStore)
	store.On("Get", mock.Anything, sessionID).Return(&model.Session{
		UserID:   7,
		Username: "alice",
		Role:     model.RoleStudent,
	}, nil)

	e := newTestServer(store)
	req := httptest.NewRequest(http.MethodGet, "/api/current-user", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":7,"username":"alice","role":"student"}`, rec.Body.String())
	store.AssertExpectations(t)
}

func TestMiddleware_RevokedSessionRejected(t *testing.T) {
	// The token still verifies, but logout removed the server-side
	// record.
	alice := &model.User{ID: 7, Username: "alice", Role: model.RoleStudent}
	sessionID, cookie := issueCookie(t, alice)

	store := new(MockSessionStore)
	store.On("Get", mock.Anything, sessionID).Return(nil, nil)

	e := newTestServer(store)
	req := httptest.NewRequest(http.MethodGet, "/api/current-user", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_StudentCannotReachAdminRoutes(t *testing.T) {
	alice := &model.User{ID: 7, Username: "alice", Role: model.RoleStudent}
	sessionID, cookie := issueCookie(t, alice)

	store := new(MockSessionStore)
	store.On("Get", mock.Anything, sessionID).Return(&model.Session{
		UserID:   7,
		Username: "alice",
		Role:     model.RoleStudent,
	}, nil)

	e := newTestServer(store)
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized","code":"FORBIDDEN"}`, rec.Body.String())
}

func TestMiddleware_AdminSessionReachesAdminRoutes(t *testing.T) {
	root := &model.User{ID: 1, Username: "admin", Role: model.RoleAdmin}
	sessionID, cookie := issueCookie(t, root)

	store := new(MockSessionStore)
	store.On("Get", mock.Anything, sessionID).Return(&model.Session{
		UserID:   1,
		Username: "admin",
		Role:     model.RoleAdmin,
	}, nil)

	e := newTestServer(store)
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddleware_TamperedClaimsRejected(t *testing.T) {
	// A session record that no longer matches the token claims (e.g.
	// a role edited directly in storage) does not pass.
	alice := &model.User{ID: 7, Username: "alice", Role: model.RoleStudent}
	sessionID, cookie := issueCookie(t, alice)

	store := new(MockSessionStore)
	store.On("Get", mock.Anything, sessionID).Return(&model.Session{
		UserID:   7,
		Username: "alice",
		Role:     model.RoleAdmin,
	}, nil)

	e := newTestServer(store)
	req := httptest.NewRequest(http.MethodGet, "/api/current-user", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
