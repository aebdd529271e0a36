package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lenslink-backend-go/internal/core"
	"lenslink-backend-go/internal/models"
)

// ContactHandler handles the public contact form endpoint.
type ContactHandler struct {
	contactService core.ContactService
	logger         *zap.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(cs core.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{contactService: cs, logger: logger}
}

// CreateMessage handles POST /contact.
func (h *ContactHandler) CreateMessage(c *gin.Context) {
	var req models.CreateContactMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	msg, err := h.contactService.CreateMessage(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("Failed to create contact message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to submit contact message"})
		return
	}
	c.JSON(http.StatusCreated, msg)
}
