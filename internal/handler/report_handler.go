package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "crimetracker/internal/errors"
	"crimetracker/internal/service"
	"crimetracker/internal/session"
)

// ReportHandler handles the reports resource.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// CreateReportRequest represents a report submission.
type CreateReportRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required"`
	Location    string `json:"location" validate:"required"`
}

// UpdateStatusRequest represents a report status change. The status enum is
// checked in the service so a non-admin gets 403 before any 400.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// List godoc
// @Summary List reports
// @Description Admins see all reports, optionally filtered; reporters see only their own.
// @Tags reports
// @Produce json
// @Param status query string false "Filter by status (admin only)"
// @Param category query string false "Filter by category (admin only)"
// @Success 200 {array} model.Report
// @Failure 401 {object} errors.ErrorResponse
// @Router /reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	caller, ok := session.CurrentUser(c)
	if !ok {
		return unauthenticated()
	}

	reports, err := h.reportService.List(c.Request().Context(), caller, c.QueryParam("status"), c.QueryParam("category"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, reports)
}

// Create godoc
// @Summary Submit a new report
// @Tags reports
// @Accept json
// @Produce json
// @Param request body CreateReportRequest true "Report fields"
// @Success 201 {object} model.Report
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /reports [post]
func (h *ReportHandler) Create(c echo.Context) error {
	caller, ok := session.CurrentUser(c)
	if !ok {
		return unauthenticated()
	}

	var req CreateReportRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	report, err := h.reportService.Create(c.Request().Context(), caller, service.ReportInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, report)
}

// Get godoc
// @Summary Get a report by id
// @Tags reports
// @Produce json
// @Param id path int true "Report id"
// @Success 200 {object} model.Report
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reports/{id} [get]
func (h *ReportHandler) Get(c echo.Context) error {
	caller, ok := session.CurrentUser(c)
	if !ok {
		return unauthenticated()
	}

	id, err := reportID(c)
	if err != nil {
		return toHTTPError(apperrors.ErrReportNotFound)
	}

	report, err := h.reportService.Get(c.Request().Context(), caller, id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, report)
}

// UpdateStatus godoc
// @Summary Update a report's status
// @Description Admin only. Accepts pending, reviewed, or closed from any prior state.
// @Tags reports
// @Accept json
// @Produce json
// @Param id path int true "Report id"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} model.Report
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reports/{id}/status [patch]
func (h *ReportHandler) UpdateStatus(c echo.Context) error {
	caller, ok := session.CurrentUser(c)
	if !ok {
		return unauthenticated()
	}

	id, err := reportID(c)
	if err != nil {
		return toHTTPError(apperrors.ErrReportNotFound)
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	report, err := h.reportService.UpdateStatus(c.Request().Context(), caller, id, req.Status)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, report)
}

// Delete godoc
// @Summary Delete a report
// @Description Admin only.
// @Tags reports
// @Produce json
// @Param id path int true "Report id"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reports/{id} [delete]
func (h *ReportHandler) Delete(c echo.Context) error {
	caller, ok := session.CurrentUser(c)
	if !ok {
		return unauthenticated()
	}

	id, err := reportID(c)
	if err != nil {
		return toHTTPError(apperrors.ErrReportNotFound)
	}

	if err := h.reportService.Delete(c.Request().Context(), caller, id); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "report deleted",
	})
}

func reportID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
