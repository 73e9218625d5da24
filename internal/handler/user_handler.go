package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"crimetracker/internal/service"
	"crimetracker/internal/session"
)

// UserHandler handles the admin-only users resource.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest represents an admin-issued user creation request.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=reporter admin"`
}

// List godoc
// @Summary List all users
// @Description Admin only. Password hashes are never serialized.
// @Tags users
// @Produce json
// @Success 200 {array} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	caller, ok := session.CurrentUser(c)
	if !ok {
		return unauthenticated()
	}

	users, err := h.userService.List(c.Request().Context(), caller)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// Create godoc
// @Summary Create a user
// @Description Admin only. Same validation rules as self-registration.
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "User fields"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	caller, ok := session.CurrentUser(c)
	if !ok {
		return unauthenticated()
	}

	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	user, err := h.userService.Create(c.Request().Context(), caller, req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, user)
}
