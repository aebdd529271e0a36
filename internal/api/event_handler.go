package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lenslink-backend-go/internal/core"
	"lenslink-backend-go/internal/middleware"
	"lenslink-backend-go/internal/models"
)

// EventHandler handles API endpoints related to event bookings.
type EventHandler struct {
	eventService core.EventService
	logger       *zap.Logger
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(es core.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{eventService: es, logger: logger}
}

// mapEventErrorToStatus maps errors from core.EventService to HTTP status codes.
func (h *EventHandler) mapEventErrorToStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrEventNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrEventNotFound.Error()})
	case errors.Is(err, core.ErrForbiddenAccess):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: core.ErrForbiddenAccess.Error()})
	case errors.Is(err, core.ErrInvalidTransition):
		// Someone else got there first, or the event isn't in the right state.
		c.JSON(http.StatusConflict, ErrorResponse{Error: core.ErrInvalidTransition.Error(), Details: err.Error()})
	case errors.Is(err, core.ErrNotAssigned):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: core.ErrNotAssigned.Error()})
	default:
		h.logger.Error("Unexpected event service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// CreateEvent handles POST /events (hosts only).
func (h *EventHandler) CreateEvent(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User profile not found in context"})
		return
	}

	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), user.Email, req)
	if err != nil {
		h.mapEventErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// ListMyEvents handles GET /events/mine (hosts only).
func (h *EventHandler) ListMyEvents(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User profile not found in context"})
		return
	}

	events, err := h.eventService.ListHostEvents(c.Request.Context(), user.Email)
	if err != nil {
		h.mapEventErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetEvent handles GET /events/:eventId.
func (h *EventHandler) GetEvent(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User profile not found in context"})
		return
	}
	eventID := c.Param("eventId")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Event ID is required"})
		return
	}

	event, err := h.eventService.GetEventByID(c.Request.Context(), user, eventID)
	if err != nil {
		h.mapEventErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// ListMarketplace handles GET /marketplace (photographers only): the open
// jobs a photographer can still accept.
func (h *EventHandler) ListMarketplace(c *gin.Context) {
	events, err := h.eventService.ListOpenJobs(c.Request.Context())
	if err != nil {
		h.mapEventErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// AcceptEvent handles POST /events/:eventId/accept (photographers only).
func (h *EventHandler) AcceptEvent(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User profile not found in context"})
		return
	}
	eventID := c.Param("eventId")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Event ID is required"})
		return
	}

	event, err := h.eventService.AcceptEvent(c.Request.Context(), user.ID, eventID)
	if err != nil {
		h.mapEventErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// MarkUploaded handles POST /events/:eventId/uploaded (assigned photographer).
func (h *EventHandler) MarkUploaded(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User profile not found in context"})
		return
	}
	eventID := c.Param("eventId")
	if eventID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Event ID is required"})
		return
	}

	event, err := h.eventService.MarkUploaded(c.Request.Context(), user.ID, eventID)
	if err != nil {
		h.mapEventErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}
