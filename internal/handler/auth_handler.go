package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"crimetracker/internal/config"
	"crimetracker/internal/notify"
	"crimetracker/internal/service"
	"crimetracker/internal/session"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	mailer      *notify.Mailer
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, mailer *notify.Mailer, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		mailer:      mailer,
		cfg:         cfg,
	}
}

// RegisterRequest represents a self-registration request.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=reporter admin"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RequestResetRequest represents a password reset request.
type RequestResetRequest struct {
	Username string `json:"username" validate:"required"`
}

// ResetPasswordRequest represents a reset token consumption request.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// Register godoc
// @Summary Register a new user
// @Description Creates a user and immediately establishes a session.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	user, token, err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		return toHTTPError(err)
	}

	session.SetCookie(c, token, h.cfg.SessionTTL, h.cfg.CookieSecure)
	return c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Login with username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	session.SetCookie(c, token, h.cfg.SessionTTL, h.cfg.CookieSecure)
	return c.JSON(http.StatusOK, user)
}

// Logout godoc
// @Summary Logout the current session
// @Description Revokes the session. Logging out twice succeeds silently.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), session.Token(c)); err != nil {
		return toHTTPError(err)
	}

	session.ClearCookie(c, h.cfg.CookieSecure)
	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// CurrentUser godoc
// @Summary Return the authenticated user
// @Tags auth
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /user [get]
func (h *AuthHandler) CurrentUser(c echo.Context) error {
	user, ok := session.CurrentUser(c)
	if !ok {
		return unauthenticated()
	}
	return c.JSON(http.StatusOK, user)
}

// RequestPasswordReset godoc
// @Summary Request a password reset token
// @Description Issues a single-use reset token, delivered by email. The token
// @Description is echoed in the response only when RETURN_RESET_TOKEN is set.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RequestResetRequest true "Account username"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/request-reset [post]
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var req RequestResetRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	user, token, err := h.authService.RequestPasswordReset(c.Request().Context(), req.Username)
	if err != nil {
		return toHTTPError(err)
	}

	if h.cfg.ReturnResetToken {
		// Development mode only: production delivers the token out-of-band.
		return c.JSON(http.StatusOK, map[string]string{
			"message": "reset token issued",
			"token":   token,
		})
	}

	go h.mailer.PasswordReset(user, token)
	return c.JSON(http.StatusOK, map[string]string{
		"message": "reset token issued, check your email",
	})
}

// ResetPassword godoc
// @Summary Reset a password with a reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Token and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	if _, err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "password updated",
	})
}
