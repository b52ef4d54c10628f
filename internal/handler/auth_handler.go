package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"userhub/internal/auth"
	"userhub/internal/config"
	"userhub/internal/errors"
	"userhub/internal/service"
)

// AuthHandler handles the authentication and self-service endpoints.
type AuthHandler struct {
	authService service.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest represents a self-registration request.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=80"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest represents a password change request.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// SessionResponse is the identity returned on login and whoami.
type SessionResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// MessageResponse is a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// Login godoc
// @Summary Log in and establish a session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return missingFields(c)
	}
	if err := c.Validate(&req); err != nil {
		return missingFields(c)
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	c.SetCookie(auth.NewSessionCookie(token, h.cfg.SessionTTL, h.cfg.CookieSecure))
	return c.JSON(http.StatusOK, SessionResponse{
		Username: user.Username,
		Role:     string(user.Role),
	})
}

// Register godoc
// @Summary Register a new student account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return missingFields(c)
	}
	if err := c.Validate(&req); err != nil {
		return missingFields(c)
	}

	if _, err := h.authService.Register(c.Request().Context(), req.Username, req.Password); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: "Registration successful"})
}

// Logout godoc
// @Summary Destroy the current session
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(auth.SessionCookieName); err == nil {
		// Best effort: logout succeeds even when the token is stale.
		_ = h.authService.Logout(c.Request().Context(), cookie.Value)
	}

	c.SetCookie(auth.ClearSessionCookie(h.cfg.CookieSecure))
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// CurrentUser godoc
// @Summary Return the identity behind the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} SessionResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /current-user [get]
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	session := auth.CurrentSession(c)
	if session == nil {
		return respondError(c, errors.ErrNotAuthenticated)
	}

	return c.JSON(http.StatusOK, SessionResponse{
		Username: session.Username,
		Role:     string(session.Role),
	})
}

// ChangePassword godoc
// @Summary Change the current user's password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Current and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	session := auth.CurrentSession(c)
	if session == nil {
		return respondError(c, errors.ErrNotAuthenticated)
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return missingFields(c)
	}
	if err := c.Validate(&req); err != nil {
		return missingFields(c)
	}

	if err := h.authService.ChangePassword(c.Request().Context(), session.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Password changed successfully"})
}

// respondError maps a domain error to its HTTP response.
func respondError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// missingFields is the shared 400 for malformed bodies and absent
// required fields.
func missingFields(c echo.Context) error {
	return respondError(c, errors.ErrMissingFields)
}
