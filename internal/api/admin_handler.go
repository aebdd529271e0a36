package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lenslink-backend-go/internal/core"
)

// AdminHandler serves the admin dashboard listings. Routes using it are
// guarded by RequireRoles(RoleAdmin).
type AdminHandler struct {
	userService    core.UserService
	eventService   core.EventService
	contactService core.ContactService
	logger         *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(us core.UserService, es core.EventService, cs core.ContactService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		userService:    us,
		eventService:   es,
		contactService: cs,
		logger:         logger,
	}
}

// ListEvents handles GET /admin/events.
func (h *AdminHandler) ListEvents(c *gin.Context) {
	events, err := h.eventService.ListAllEvents(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list events for admin", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list users for admin", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListContactMessages handles GET /admin/contacts.
func (h *AdminHandler) ListContactMessages(c *gin.Context) {
	msgs, err := h.contactService.ListMessages(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list contact messages for admin", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list contact messages"})
		return
	}
	c.JSON(http.StatusOK, msgs)
}
