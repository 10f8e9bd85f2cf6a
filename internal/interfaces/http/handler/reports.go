package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apptt "github.com/timeclock/backend/internal/application/timetracking"
	"github.com/timeclock/backend/internal/domain/reporting"
	"github.com/timeclock/backend/internal/interfaces/http/dto"
	"github.com/timeclock/backend/internal/interfaces/http/middleware"
)

// ReportsHandler handles progress and summary API endpoints
type ReportsHandler struct {
	BaseHandler
	sessions *apptt.SessionService
}

// NewReportsHandler creates a new ReportsHandler
func NewReportsHandler(sessions *apptt.SessionService) *ReportsHandler {
	return &ReportsHandler{sessions: sessions}
}

// RegisterRoutes registers report routes on the given group
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/daily", h.Daily)
		reports.GET("/weekly", h.Weekly)
		reports.GET("/monthly", h.Monthly)
		reports.GET("/metrics", h.Metrics)
		reports.GET("/export", h.Export)
	}
}

// Daily returns today's work summary for the calling user
func (h *ReportsHandler) Daily(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	summary, err := h.sessions.TodayProgress(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Weekly returns this week's work summary for the calling user
func (h *ReportsHandler) Weekly(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	summary, err := h.sessions.WeeklyProgress(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Monthly returns this month's work summary for the calling user
func (h *ReportsHandler) Monthly(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}
	summary, err := h.sessions.MonthlyProgress(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Metrics returns behavioral work metrics over an inclusive date range
func (h *ReportsHandler) Metrics(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req dto.DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	from, _ := time.Parse("2006-01-02", req.From)
	to, _ := time.Parse("2006-01-02", req.To)
	if to.Before(from) {
		h.BadRequest(c, "'to' must not be before 'from'")
		return
	}

	metrics, err := h.sessions.ProgressMetrics(c.Request.Context(), userID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, metrics)
}

// Export returns a summary rendered as JSON or CSV for download.
// Query parameters: period=daily|weekly|monthly, format=json|csv.
func (h *ReportsHandler) Export(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	format := reporting.ExportFormat(c.DefaultQuery("format", "json"))
	if !format.IsValid() {
		h.BadRequest(c, "format must be json or csv")
		return
	}

	var summary any
	switch c.DefaultQuery("period", "daily") {
	case "daily":
		summary, err = h.sessions.TodayProgress(c.Request.Context(), userID)
	case "weekly":
		summary, err = h.sessions.WeeklyProgress(c.Request.Context(), userID)
	case "monthly":
		summary, err = h.sessions.MonthlyProgress(c.Request.Context(), userID)
	default:
		h.BadRequest(c, "period must be daily, weekly or monthly")
		return
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out, err := reporting.ExportSummary(summary, format)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	switch format {
	case reporting.ExportFormatCSV:
		c.Header("Content-Disposition", `attachment; filename="summary.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(out))
	default:
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(out))
	}
}
