package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"userhub/internal/model"
	"userhub/internal/service"
)

// UserHandler handles the admin roster endpoints. All routes are
// guarded by the admin middleware.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest represents an admin create-user request.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=80"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// ListUsers godoc
// @Summary List all users
// @Tags users
// @Produce json
// @Success 200 {array} model.Summary
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	roster, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, roster)
}

// CreateUser godoc
// @Summary Create a user with an explicit role
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User data"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return missingFields(c)
	}
	if err := c.Validate(&req); err != nil {
		return missingFields(c)
	}

	if _, err := h.userService.CreateUser(c.Request().Context(), req.Username, req.Password, model.Role(req.Role)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: "User created successfully"})
}

// DeleteUser godoc
// @Summary Delete a user by username
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{username} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	username := c.Param("username")

	if err := h.userService.DeleteUser(c.Request().Context(), username); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}
