package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/crm-service/internal/models"
	"github.com/tesseract-hub/crm-service/internal/services"
)

// OpportunityHandler handles HTTP requests for the sales funnel
type OpportunityHandler struct {
	opportunities *services.OpportunityService
	logger        *logrus.Logger
}

// NewOpportunityHandler creates a new opportunity handler
func NewOpportunityHandler(opportunities *services.OpportunityService, logger *logrus.Logger) *OpportunityHandler {
	return &OpportunityHandler{
		opportunities: opportunities,
		logger:        logger,
	}
}

// Create creates a new opportunity
// POST /api/v1/opportunities
func (h *OpportunityHandler) Create(c *gin.Context) {
	var opp models.Opportunity
	if err := c.ShouldBindJSON(&opp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	id, err := h.opportunities.Create(c.Request.Context(), &opp)
	if err != nil {
		respondServiceError(c, err, "Failed to create opportunity")
		return
	}

	opp.ID = id
	c.JSON(http.StatusCreated, opp)
}

// Update updates an existing opportunity
// PUT /api/v1/opportunities/:id
func (h *OpportunityHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var opp models.Opportunity
	if err := c.ShouldBindJSON(&opp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	opp.ID = id

	if _, err := h.opportunities.Update(c.Request.Context(), &opp); err != nil {
		respondServiceError(c, err, "Failed to update opportunity")
		return
	}

	c.JSON(http.StatusOK, opp)
}

// MoveStage moves an opportunity to another funnel stage
// PATCH /api/v1/opportunities/:id/stage
func (h *OpportunityHandler) MoveStage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var request struct {
		Stage models.OpportunityStage `json:"stage" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	moved, err := h.opportunities.MoveStage(c.Request.Context(), id, request.Stage)
	if err != nil {
		respondServiceError(c, err, "Failed to move opportunity stage")
		return
	}
	if !moved {
		c.JSON(http.StatusNotFound, gin.H{"error": "Opportunity not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Opportunity stage updated successfully",
		"stage":   request.Stage,
	})
}

// Get retrieves a single opportunity
// GET /api/v1/opportunities/:id
func (h *OpportunityHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	opp, err := h.opportunities.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to get opportunity")
		return
	}
	if opp == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Opportunity not found"})
		return
	}

	c.JSON(http.StatusOK, opp)
}

// List lists opportunities, optionally filtered by stage or customer
// GET /api/v1/opportunities?stage=&customer_id=
func (h *OpportunityHandler) List(c *gin.Context) {
	var (
		opps []models.Opportunity
		err  error
	)

	switch {
	case c.Query("stage") != "":
		opps, err = h.opportunities.ByStage(c.Request.Context(), models.OpportunityStage(c.Query("stage")))
	case c.Query("customer_id") != "":
		var customerID uint
		var ok bool
		if customerID, ok = parseQueryID(c, "customer_id"); !ok {
			return
		}
		opps, err = h.opportunities.ByCustomer(c.Request.Context(), customerID)
	default:
		opps, err = h.opportunities.List(c.Request.Context())
	}
	if err != nil {
		respondServiceError(c, err, "Failed to list opportunities")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  opps,
		"count": len(opps),
	})
}

// ByCustomer lists a customer's opportunities
// GET /api/v1/customers/:id/opportunities
func (h *OpportunityHandler) ByCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	opps, err := h.opportunities.ByCustomer(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to list opportunities by customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  opps,
		"count": len(opps),
	})
}

// Metrics returns the pipeline forecast numbers
// GET /api/v1/opportunities/metrics
func (h *OpportunityHandler) Metrics(c *gin.Context) {
	weighted, err := h.opportunities.TotalWeightedOpenValue(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to compute pipeline metrics")
		return
	}

	rate, err := h.opportunities.ConversionRate(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to compute pipeline metrics")
		return
	}

	c.JSON(http.StatusOK, models.OpportunityMetrics{
		WeightedOpenValue: weighted,
		ConversionRate:    rate,
	})
}

// Delete removes an opportunity
// DELETE /api/v1/opportunities/:id
func (h *OpportunityHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := h.opportunities.Delete(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to delete opportunity")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Opportunity not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Opportunity deleted successfully"})
}
