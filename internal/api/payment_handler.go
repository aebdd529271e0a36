package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lenslink-backend-go/internal/config"
	"lenslink-backend-go/internal/core"
)

// PaymentHandler handles the payment gateway redirect. The gateway sends the
// payer's browser back here after authorizing the charge; on success the
// event moves from submitted to paid.
type PaymentHandler struct {
	eventService core.EventService
	appConfig    *config.Config
	logger       *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(es core.EventService, appConfig *config.Config, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{eventService: es, appConfig: appConfig, logger: logger}
}

// HandleCallback handles GET|POST /payments/callback. Query parameters follow
// the gateway's redirect contract: Order is the event ID the charge was
// opened for, Id the gateway transaction ID, CCode "0" on success. The
// browser ends up redirected back to the client app either way.
func (h *PaymentHandler) HandleCallback(c *gin.Context) {
	eventID := c.Query("Order")
	transactionID := c.Query("Id")
	code := c.Query("CCode")

	if eventID == "" || transactionID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Order and Id query parameters are required"})
		return
	}

	if code != "0" {
		h.logger.Warn("Payment gateway reported failure",
			zap.String("eventId", eventID),
			zap.String("transactionId", transactionID),
			zap.String("ccode", code))
		c.Redirect(http.StatusFound, fmt.Sprintf("%s/events/%s?payment=failed", h.appConfig.ClientURL, eventID))
		return
	}

	if _, err := h.eventService.MarkPaid(c.Request.Context(), eventID, transactionID); err != nil {
		// A duplicate redirect lands here as an invalid transition; the first
		// callback already moved the event, so send the payer on their way.
		if errors.Is(err, core.ErrInvalidTransition) {
			h.logger.Info("Ignoring duplicate payment callback", zap.String("eventId", eventID))
			c.Redirect(http.StatusFound, fmt.Sprintf("%s/events/%s?payment=success", h.appConfig.ClientURL, eventID))
			return
		}
		if errors.Is(err, core.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: core.ErrEventNotFound.Error()})
			return
		}
		h.logger.Error("Failed to mark event paid",
			zap.String("eventId", eventID),
			zap.String("transactionId", transactionID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to record payment"})
		return
	}

	h.logger.Info("Event marked paid",
		zap.String("eventId", eventID),
		zap.String("transactionId", transactionID))
	c.Redirect(http.StatusFound, fmt.Sprintf("%s/events/%s?payment=success", h.appConfig.ClientURL, eventID))
}
