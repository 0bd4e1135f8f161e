package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/crm-service/internal/services"
)

// ReportHandler handles HTTP requests for dashboard reporting
type ReportHandler struct {
	reports *services.ReportService
	logger  *logrus.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *services.ReportService, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger,
	}
}

// Dashboard returns the aggregated dashboard figures
// GET /api/v1/reports/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	summary, err := h.reports.DashboardSummary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to build dashboard summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// SalesByDay returns the daily Won totals within a date range.
// The range defaults to the last 30 days.
// GET /api/v1/reports/sales-by-day?from=2026-01-01&to=2026-01-31
func (h *ReportHandler) SalesByDay(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date, use YYYY-MM-DD"})
			return
		}
		from = parsed
	}
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date, use YYYY-MM-DD"})
			return
		}
		to = parsed
	}

	sales, err := h.reports.SalesByDay(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, err, "Failed to compute sales by day")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from":  from.Format("2006-01-02"),
		"to":    to.Format("2006-01-02"),
		"sales": sales,
	})
}
