package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"userhub/internal/auth"
	"userhub/internal/config"
	"userhub/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	sessionStore auth.SessionStoreInterface,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// The API is cookie-authenticated, so the browser client needs
	// credentialed CORS.
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"http://localhost:" + cfg.ServerPort, "http://127.0.0.1:" + cfg.ServerPort},
		AllowCredentials: true,
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/login", authHandler.Login)
	api.POST("/register", authHandler.Register)
	api.POST("/logout", authHandler.Logout)

	// Self-service routes: failures answer 401
	me := api.Group("", auth.RequireSession(cfg.SessionSecret, sessionStore)...)
	me.GET("/current-user", authHandler.CurrentUser)
	me.POST("/change-password", authHandler.ChangePassword)

	// Admin routes: failures answer 403 regardless of cause
	admin := api.Group("/users", auth.RequireAdmin(cfg.SessionSecret, sessionStore)...)
	admin.GET("", userHandler.ListUsers)
	admin.POST("", userHandler.CreateUser)
	admin.DELETE("/:username", userHandler.DeleteUser)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
