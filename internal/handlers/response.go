package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tesseract-hub/crm-service/internal/services"
)

// respondServiceError maps a service-layer error onto the wire: validation
// failures become 400 with the field and message, everything else is a 500
// with a generic message (the detail is already logged by the service).
func respondServiceError(c *gin.Context, err error, fallback string) {
	if verr, ok := services.IsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

// parseIDParam reads a positive integer id from the named path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// parseQueryID reads a positive integer id from the named query parameter
func parseQueryID(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
