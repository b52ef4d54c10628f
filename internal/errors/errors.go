package errors

import (
	"errors"
	"net/http"
)

// Sentinel domain errors. The messages double as the API-facing error
// text, so they keep the exact wording clients already depend on.
var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("Invalid username or password")
	// ErrNotAuthenticated is returned when a self-service route has no valid session.
	ErrNotAuthenticated = errors.New("Not authenticated")
	// ErrForbidden is returned for admin routes, for anonymous and
	// non-admin callers alike.
	ErrForbidden = errors.New("Unauthorized")
	// ErrMissingFields is returned when required request fields are absent.
	ErrMissingFields = errors.New("Please fill all fields")
	// ErrUsernameTaken is returned when the username unique index rejects an insert.
	ErrUsernameTaken = errors.New("Username already exists")
	// ErrUserNotFound is returned when the target user does not exist.
	ErrUserNotFound = errors.New("User not found")
	// ErrAdminProtected is returned when deleting the admin account.
	ErrAdminProtected = errors.New("Cannot delete admin user")
	// ErrCurrentPassword is returned when the current password does not verify.
	ErrCurrentPassword = errors.New("Current password is incorrect")
	// ErrInvalidRole is returned when a role is outside the known set.
	ErrInvalidRole = errors.New("Invalid role")
)

// PolicyError reports a password rejected by the strength policy.
type PolicyError struct {
	Message string
}

func (e *PolicyError) Error() string {
	return e.Message
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var policyErr *PolicyError
	if errors.As(err, &policyErr) {
		return NewHTTPError(http.StatusBadRequest, policyErr.Message, "WEAK_PASSWORD")
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrNotAuthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "NOT_AUTHENTICATED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrMissingFields):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MISSING_FIELDS")
	case errors.Is(err, ErrUsernameTaken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "USERNAME_TAKEN")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrAdminProtected):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ADMIN_PROTECTED")
	case errors.Is(err, ErrCurrentPassword):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "WRONG_PASSWORD")
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ROLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
