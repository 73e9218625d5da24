package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "crimetracker/internal/errors"
)

// toHTTPError converts a service error into an echo error carrying the
// standard error envelope. Unknown errors are logged and collapse to 500.
func toHTTPError(err error) *echo.HTTPError {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// validationError converts a validator failure into a 400 listing every
// failing field.
func validationError(err error) *echo.HTTPError {
	httpErr := apperrors.NewValidationError(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func unauthenticated() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: "authentication required",
		Code:  "UNAUTHENTICATED",
	})
}

func badRequest(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
		Error: message,
		Code:  "BAD_REQUEST",
	})
}
