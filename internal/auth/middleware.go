package auth

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "userhub/internal/errors"
	"userhub/internal/model"
)

// sessionContextKey is where the resolved session is stored on the
// echo context.
const sessionContextKey = "session"

// RequireSession guards self-service routes. Any failure, from a
// missing cookie to a revoked session, is rejected with 401.
func RequireSession(secret string, store SessionStoreInterface) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		cookieJWT(secret, rejectWith(apperrors.ErrNotAuthenticated)),
		resolveSession(store, apperrors.ErrNotAuthenticated, ""),
	}
}

// RequireAdmin guards admin routes. Anonymous callers and
// authenticated non-admins are both rejected with 403; admin routes
// never reveal which of the two applied.
func RequireAdmin(secret string, store SessionStoreInterface) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		cookieJWT(secret, rejectWith(apperrors.ErrForbidden)),
		resolveSession(store, apperrors.ErrForbidden, model.RoleAdmin),
	}
}

// CurrentSession returns the session resolved by the middleware, or
// nil outside a guarded route.
func CurrentSession(c echo.Context) *model.Session {
	session, _ := c.Get(sessionContextKey).(*model.Session)
	return session
}

// cookieJWT extracts and verifies the session token from the cookie.
func cookieJWT(secret string, errorHandler func(echo.Context, error) error) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(secret),
		TokenLookup: "cookie:" + SessionCookieName,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(SessionClaims)
		},
		ErrorHandler: errorHandler,
	})
}

// resolveSession loads the server-side session record for a verified
// token and checks it still matches the claims. reject is the domain
// error for this route class; requiredRole is empty when any role may
// pass.
func resolveSession(store SessionStoreInterface, reject error, requiredRole model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return rejectWith(reject)(c, reject)
			}
			claims, ok := token.Claims.(*SessionClaims)
			if !ok {
				return rejectWith(reject)(c, reject)
			}

			session, err := store.Get(c.Request().Context(), claims.ID)
			if err != nil || session == nil {
				return rejectWith(reject)(c, reject)
			}
			if session.UserID != claims.UserID || session.Username != claims.Username || session.Role != claims.Role {
				return rejectWith(reject)(c, reject)
			}
			if requiredRole != "" && session.Role != requiredRole {
				return rejectWith(reject)(c, reject)
			}

			c.Set(sessionContextKey, session)
			return next(c)
		}
	}
}

func rejectWith(domainErr error) func(echo.Context, error) error {
	return func(c echo.Context, _ error) error {
		httpErr := apperrors.MapErrorToHTTP(domainErr)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
}
