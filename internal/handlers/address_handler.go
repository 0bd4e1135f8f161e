package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/crm-service/internal/clients/viacep"
	"github.com/tesseract-hub/crm-service/internal/validation"
)

// AddressHandler resolves postal codes for address autofill
type AddressHandler struct {
	viacep *viacep.Client
	logger *logrus.Logger
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(client *viacep.Client, logger *logrus.Logger) *AddressHandler {
	return &AddressHandler{
		viacep: client,
		logger: logger,
	}
}

// Lookup resolves a postal code to street/district/city/state
// GET /api/v1/addresses/:cep
func (h *AddressHandler) Lookup(c *gin.Context) {
	cep := c.Param("cep")
	if !validation.ValidCEP(cep) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Postal code must have 8 digits"})
		return
	}

	address, err := h.viacep.Lookup(c.Request.Context(), cep)
	if err != nil {
		h.logger.WithError(err).WithField("cep", cep).Error("Failed to look up postal code")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Postal code lookup unavailable"})
		return
	}
	if address == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Postal code not found"})
		return
	}

	c.JSON(http.StatusOK, address)
}
