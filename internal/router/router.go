package router

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"crimetracker/internal/config"
	"crimetracker/internal/handler"
	"crimetracker/internal/repository"
	"crimetracker/internal/session"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	sessions session.Store,
	users repository.UserRepository,
	authHandler *handler.AuthHandler,
	reportHandler *handler.ReportHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// The front end is hosted separately, so responses carry CORS headers and
	// preflight requests short-circuit before any auth runs.
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch,
			http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.Validator = NewCustomValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// The session middleware only resolves identity; each handler decides
	// between 401 and 403 itself, so public and protected routes share the
	// same group.
	api := e.Group("/api", session.Middleware(sessions, users, cfg.SessionTTL))

	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/logout", authHandler.Logout)
	api.GET("/user", authHandler.CurrentUser)
	api.POST("/auth/request-reset", authHandler.RequestPasswordReset)
	api.POST("/auth/reset-password", authHandler.ResetPassword)

	api.GET("/reports", reportHandler.List)
	api.POST("/reports", reportHandler.Create)
	api.GET("/reports/:id", reportHandler.Get)
	api.PATCH("/reports/:id/status", reportHandler.UpdateStatus)
	api.DELETE("/reports/:id", reportHandler.Delete)

	api.GET("/users", userHandler.List)
	api.POST("/users", userHandler.Create)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewCustomValidator builds the request validator. Field names in error
// messages come from json tags so they match the wire format.
func NewCustomValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
