package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleetops/fleet-reports/internal/application/service"
	"github.com/fleetops/fleet-reports/internal/backend"
	"github.com/fleetops/fleet-reports/internal/export"
	"github.com/fleetops/fleet-reports/internal/models"
	"github.com/fleetops/fleet-reports/internal/report"
	"github.com/fleetops/fleet-reports/pkg/utils"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	reports service.ReportService
	exports service.ExportService
	health  HealthChecker
	logger  *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	reports service.ReportService,
	exports service.ExportService,
	health HealthChecker,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		reports: reports,
		exports: exports,
		health:  health,
		logger:  logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// OpenSessionRequest starts a report session
type OpenSessionRequest struct {
	CompanyID   string `json:"company_id" binding:"required"`
	CompanyName string `json:"company_name" binding:"max=200"`
	StartDate   string `json:"start_date" binding:"isodate"`
	EndDate     string `json:"end_date" binding:"isodate"`
}

// UpdateSessionRequest changes the report scope; omitted fields are kept
type UpdateSessionRequest struct {
	CompanyID   *string `json:"company_id" binding:"omitempty,min=1"`
	CompanyName *string `json:"company_name" binding:"omitempty,max=200"`
	StartDate   *string `json:"start_date" binding:"omitempty,isodate"`
	EndDate     *string `json:"end_date" binding:"omitempty,isodate"`
}

// SearchRequest replaces the free-text filter
type SearchRequest struct {
	Term string `json:"term" binding:"max=200"`
}

// ListExportsRequest represents query parameters for export history
type ListExportsRequest struct {
	CompanyID string `form:"company_id" binding:"required"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

type categoryURI struct {
	ID       string `uri:"id" binding:"required"`
	Category string `uri:"category" binding:"required"`
}

type recordURI struct {
	ID       string `uri:"id" binding:"required"`
	Kind     string `uri:"kind" binding:"required,entrykind"`
	RecordID string `uri:"record_id" binding:"required"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	if h.health != nil {
		if err := h.health.Health(c.Request.Context()); err != nil {
			h.logger.Error("Health check failed", zap.Error(err))
			response.Status = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, Response{Success: false, Data: response, Error: err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// OpenSession handles POST /api/v1/sessions
func (h *Handlers) OpenSession(c *gin.Context) {
	var req OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	state, err := h.reports.OpenSession(service.OpenSessionInput{
		CompanyID:   req.CompanyID,
		CompanyName: utils.SanitizeString(req.CompanyName),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: state})
}

// GetSession handles GET /api/v1/sessions/:id
func (h *Handlers) GetSession(c *gin.Context) {
	state, err := h.reports.GetSession(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: state})
}

// UpdateSession handles PATCH /api/v1/sessions/:id
func (h *Handlers) UpdateSession(c *gin.Context) {
	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	state, err := h.reports.UpdateSession(c.Param("id"), report.SessionUpdate{
		CompanyID:   req.CompanyID,
		CompanyName: req.CompanyName,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: state})
}

// CloseSession handles DELETE /api/v1/sessions/:id
func (h *Handlers) CloseSession(c *gin.Context) {
	if err := h.reports.CloseSession(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ToggleCategory handles POST /api/v1/sessions/:id/categories/:category/toggle
func (h *Handlers) ToggleCategory(c *gin.Context) {
	var uri categoryURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.badRequest(c, err)
		return
	}

	state, err := h.reports.ToggleCategory(uri.ID, report.Category(uri.Category))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: state})
}

// SelectAll handles POST /api/v1/sessions/:id/categories/select-all
func (h *Handlers) SelectAll(c *gin.Context) {
	state, err := h.reports.SelectAll(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: state})
}

// SetSearch handles PUT /api/v1/sessions/:id/search
func (h *Handlers) SetSearch(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	state, err := h.reports.SetSearch(c.Param("id"), utils.SanitizeString(req.Term))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: state})
}

// Refresh handles POST /api/v1/sessions/:id/refresh
func (h *Handlers) Refresh(c *gin.Context) {
	snap, err := h.reports.Refresh(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	counts := make(map[models.Kind]int, len(models.AllKinds))
	for _, k := range models.AllKinds {
		counts[k] = snap.Count(k)
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{
		"fetched_at":        snap.FetchedAt,
		"counts":            counts,
		"failed_categories": snap.Failed,
	}})
}

// Feed handles GET /api/v1/sessions/:id/feed
func (h *Handlers) Feed(c *gin.Context) {
	feed, err := h.reports.Feed(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: feed})
}

// ExportDailyLog handles GET /api/v1/sessions/:id/exports/daily-log
func (h *Handlers) ExportDailyLog(c *gin.Context) {
	result, err := h.exports.ExportDailyLog(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.download(c, result)
}

// ExportPremium handles GET /api/v1/sessions/:id/exports/premium
func (h *Handlers) ExportPremium(c *gin.Context) {
	result, err := h.exports.ExportPremium(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.download(c, result)
}

// DeleteRecord handles DELETE /api/v1/sessions/:id/records/:kind/:record_id
func (h *Handlers) DeleteRecord(c *gin.Context) {
	var uri recordURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.badRequest(c, err)
		return
	}

	kind, err := models.ParseKind(uri.Kind)
	if err != nil {
		h.badRequest(c, err)
		return
	}

	if err := h.reports.DeleteRecord(c.Request.Context(), uri.ID, kind, uri.RecordID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListExports handles GET /api/v1/exports
func (h *Handlers) ListExports(c *gin.Context) {
	var req ListExportsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	logs, err := h.exports.ListExports(c.Request.Context(), req.CompanyID, req.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: logs})
}

// DownloadExport handles GET /api/v1/exports/:export_id/file
func (h *Handlers) DownloadExport(c *gin.Context) {
	result, err := h.exports.DownloadExport(c.Request.Context(), c.Param("export_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.download(c, result)
}

func (h *Handlers) download(c *gin.Context, result *export.Result) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.FileName))
	c.Header(exportRowsHeader, strconv.Itoa(result.RowCount))
	c.Data(http.StatusOK, export.ContentType, result.Content)
}

func (h *Handlers) badRequest(c *gin.Context, err error) {
	h.logger.Debug("Invalid request", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request: " + err.Error()})
}

// fail maps service errors onto status codes. Export precondition and
// backend delete failures carry their message to the user.
func (h *Handlers) fail(c *gin.Context, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
	}
	c.JSON(status, Response{Success: false, Error: message})
}

func statusFor(err error) (int, string) {
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, report.ErrSessionNotFound),
		errors.Is(err, service.ErrExportNotFound),
		errors.Is(err, service.ErrExportNotArchived):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, report.ErrMissingCompany),
		errors.Is(err, report.ErrInvalidDateRange),
		errors.Is(err, backend.ErrUnknownKind),
		errors.Is(err, backend.ErrMissingRecordID):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, export.ErrNoData):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, report.ErrStaleResponse):
		return http.StatusConflict, err.Error()
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, apiErr.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
