package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/crm-service/internal/models"
	"github.com/tesseract-hub/crm-service/internal/services"
)

// CustomerHandler handles HTTP requests for customers
type CustomerHandler struct {
	customers    *services.CustomerService
	interactions *services.InteractionService
	logger       *logrus.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customers *services.CustomerService, interactions *services.InteractionService, logger *logrus.Logger) *CustomerHandler {
	return &CustomerHandler{
		customers:    customers,
		interactions: interactions,
		logger:       logger,
	}
}

// Create creates a new customer
// POST /api/v1/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	id, err := h.customers.Create(c.Request.Context(), &customer)
	if err != nil {
		respondServiceError(c, err, "Failed to create customer")
		return
	}

	customer.ID = id
	c.JSON(http.StatusCreated, customer)
}

// Update updates an existing customer
// PUT /api/v1/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	customer.ID = id

	if _, err := h.customers.Update(c.Request.Context(), &customer); err != nil {
		respondServiceError(c, err, "Failed to update customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// Get retrieves a single customer
// GET /api/v1/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.customers.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to get customer")
		return
	}
	if customer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	c.JSON(http.StatusOK, customer)
}

// List lists all customers, optionally filtered by a search term
// GET /api/v1/customers?search=
func (h *CustomerHandler) List(c *gin.Context) {
	var (
		customers []models.Customer
		err       error
	)

	if term := c.Query("search"); term != "" {
		customers, err = h.customers.Search(c.Request.Context(), term)
	} else {
		customers, err = h.customers.List(c.Request.Context())
	}
	if err != nil {
		respondServiceError(c, err, "Failed to list customers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  customers,
		"count": len(customers),
	})
}

// Delete removes a customer and its opportunities, tasks and pending work
// DELETE /api/v1/customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := h.customers.Delete(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to delete customer")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

// Interactions retrieves a customer's interaction history, newest first
// GET /api/v1/customers/:id/interactions
func (h *CustomerHandler) Interactions(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.interactions.ByCustomer(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to get customer interactions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  entries,
		"count": len(entries),
	})
}
