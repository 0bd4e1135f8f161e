package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/crm-service/internal/services"
)

// ExportHandler streams CSV snapshots of the CRM entities
type ExportHandler struct {
	exports *services.ExportService
	logger  *logrus.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(exports *services.ExportService, logger *logrus.Logger) *ExportHandler {
	return &ExportHandler{
		exports: exports,
		logger:  logger,
	}
}

// Customers downloads all customers as CSV
// GET /api/v1/exports/customers
func (h *ExportHandler) Customers(c *gin.Context) {
	data, err := h.exports.Customers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to export customers")
		return
	}
	h.sendCSV(c, "customers", data)
}

// Opportunities downloads all opportunities as CSV
// GET /api/v1/exports/opportunities
func (h *ExportHandler) Opportunities(c *gin.Context) {
	data, err := h.exports.Opportunities(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to export opportunities")
		return
	}
	h.sendCSV(c, "opportunities", data)
}

// Tasks downloads all tasks as CSV
// GET /api/v1/exports/tasks
func (h *ExportHandler) Tasks(c *gin.Context) {
	data, err := h.exports.Tasks(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to export tasks")
		return
	}
	h.sendCSV(c, "tasks", data)
}

func (h *ExportHandler) sendCSV(c *gin.Context, entity string, data []byte) {
	filename := services.ExportFilename(entity, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", data)
}
