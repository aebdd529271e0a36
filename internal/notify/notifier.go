package notify

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"lenslink-backend-go/internal/db"
	"lenslink-backend-go/internal/gateway"
	"lenslink-backend-go/internal/models"
)

// Action is the semantic transition the notifier derived from an event
// change. Deriving it is a pure function of the change envelope so the same
// envelope always yields the same branch; the side effects themselves carry
// no dedup and run once per delivery.
type Action string

const (
	// ActionNone covers deletions, writes that don't change status, and
	// creations in any status other than submitted.
	ActionNone Action = "none"
	// ActionWelcome thanks the host for a newly submitted event and prompts payment.
	ActionWelcome Action = "welcome"
	// ActionFanOut advertises a freshly paid event to every photographer.
	ActionFanOut Action = "fan-out"
	// ActionBookingConfirmed exchanges contact details between host and
	// photographer and commits the authorized payment.
	ActionBookingConfirmed Action = "booking-confirmed"
	// ActionUploadReminder nudges the assigned photographer to upload.
	ActionUploadReminder Action = "upload-reminder"
	// ActionDelivered tells the host the photos are ready.
	ActionDelivered Action = "delivered"
	// ActionUnknownStatus is logged and otherwise ignored.
	ActionUnknownStatus Action = "unknown-status"
)

// Decide derives the semantic transition from a change envelope.
func Decide(change models.EventChange) Action {
	switch change.Kind {
	case models.ChangeDeleted:
		return ActionNone
	case models.ChangeCreated:
		if change.After != nil && change.After.Status == models.StatusSubmitted {
			return ActionWelcome
		}
		return ActionNone
	case models.ChangeUpdated:
		if change.Before == nil || change.After == nil {
			return ActionNone
		}
		if change.Before.Status == change.After.Status {
			return ActionNone
		}
		switch change.After.Status {
		case models.StatusPaid:
			return ActionFanOut
		case models.StatusAccepted:
			return ActionBookingConfirmed
		case models.StatusPendingUpload:
			return ActionUploadReminder
		case models.StatusUploaded:
			return ActionDelivered
		default:
			return ActionUnknownStatus
		}
	default:
		return ActionNone
	}
}

// Notifier turns event-document writes into SMS and payment side effects.
// It is purely reactive: it persists nothing, retries nothing, and always
// completes without surfacing an error to the queue consumer.
type Notifier struct {
	userRepo  db.UserRepository
	sms       gateway.SMSSender
	payments  gateway.PaymentGateway
	clientURL string
	logger    *zap.Logger
}

// NewNotifier creates a Notifier.
func NewNotifier(
	userRepo db.UserRepository,
	sms gateway.SMSSender,
	payments gateway.PaymentGateway,
	clientURL string,
	logger *zap.Logger,
) *Notifier {
	return &Notifier{
		userRepo:  userRepo,
		sms:       sms,
		payments:  payments,
		clientURL: clientURL,
		logger:    logger,
	}
}

// HandleMessage decodes a queue payload and dispatches it. Undecodable
// payloads are logged and dropped.
func (n *Notifier) HandleMessage(ctx context.Context, body []byte) {
	var change models.EventChange
	if err := json.Unmarshal(body, &change); err != nil {
		n.logger.Error("Dropping undecodable event change", zap.Error(err))
		return
	}
	n.HandleChange(ctx, change)
}

// HandleChange runs the side effects for one event change. Every lookup miss
// and every external-call failure is logged and swallowed here; sibling
// operations in the same invocation are never blocked by one failure.
func (n *Notifier) HandleChange(ctx context.Context, change models.EventChange) {
	action := Decide(change)
	if action == ActionNone {
		n.logger.Debug("Event change requires no notification", zap.String("kind", string(change.Kind)))
		return
	}

	event := change.After
	n.logger.Info("Handling event change",
		zap.String("action", string(action)),
		zap.String("eventId", event.ID),
		zap.String("status", event.Status))

	switch action {
	case ActionWelcome:
		n.welcomeHost(ctx, event)
	case ActionFanOut:
		n.advertiseToPhotographers(ctx, event)
	case ActionBookingConfirmed:
		n.confirmBooking(ctx, event)
	case ActionUploadReminder:
		n.remindUpload(ctx, event)
	case ActionDelivered:
		n.announceDelivery(ctx, event)
	case ActionUnknownStatus:
		n.logger.Info("Event moved to unrecognized status, no notification sent",
			zap.String("eventId", event.ID), zap.String("status", event.Status))
	}
}

// welcomeHost thanks the host for a new submission and prompts payment.
func (n *Notifier) welcomeHost(ctx context.Context, event *models.Event) {
	host, ok := n.lookupHost(ctx, event)
	if !ok {
		return
	}
	n.trySend(ctx, host.PhoneNumber, welcomeMessage(event), "host", event.ID)
}

// advertiseToPhotographers fans one SMS out to every photographer with a
// phone number. Sends run concurrently and independently; one failure never
// blocks the rest.
func (n *Notifier) advertiseToPhotographers(ctx context.Context, event *models.Event) {
	photographers, err := n.userRepo.ListByRole(ctx, models.RolePhotographer)
	if err != nil {
		n.logger.Error("Failed to list photographers for job advertisement",
			zap.String("eventId", event.ID), zap.Error(err))
		return
	}

	message := newJobMessage(event, n.clientURL)

	var wg sync.WaitGroup
	for _, p := range photographers {
		if p.PhoneNumber == "" {
			n.logger.Info("Skipping photographer without phone number",
				zap.String("photographerId", p.ID), zap.String("eventId", event.ID))
			continue
		}
		wg.Add(1)
		go func(phone, id string) {
			defer wg.Done()
			n.trySend(ctx, phone, message, "photographer "+id, event.ID)
		}(p.PhoneNumber, p.ID)
	}
	wg.Wait()
}

// confirmBooking exchanges contact details between host and photographer and
// then commits the authorized payment. Both SMS are attempted before the
// commit call is issued; a missing transaction ID aborts the whole branch
// before any SMS goes out.
func (n *Notifier) confirmBooking(ctx context.Context, event *models.Event) {
	if event.PhotographerID == "" {
		n.logger.Warn("Accepted event has no photographer assigned, skipping",
			zap.String("eventId", event.ID))
		return
	}
	if event.TransactionID == "" {
		// Without a transaction there is nothing to commit, and confirming
		// the booking over SMS would promise a payment that cannot happen.
		n.logger.Error("Accepted event has no transaction ID, skipping",
			zap.String("eventId", event.ID))
		return
	}

	photographer, err := n.userRepo.GetByID(ctx, event.PhotographerID)
	if err != nil {
		n.logger.Error("Failed to look up photographer for accepted event",
			zap.String("eventId", event.ID),
			zap.String("photographerId", event.PhotographerID),
			zap.Error(err))
		return
	}
	host, ok := n.lookupHost(ctx, event)
	if !ok {
		return
	}

	// Both sends are attempted regardless of each other's outcome.
	n.trySend(ctx, host.PhoneNumber, hostBookingMessage(event, photographer), "host", event.ID)
	n.trySend(ctx, photographer.PhoneNumber, photographerBookingMessage(event, host), "photographer", event.ID)

	if err := n.payments.CommitTransaction(ctx, event.TransactionID); err != nil {
		n.logger.Error("Payment commit failed",
			zap.String("eventId", event.ID),
			zap.String("transactionId", event.TransactionID),
			zap.Error(err))
		return
	}
	n.logger.Info("Payment commit succeeded",
		zap.String("eventId", event.ID),
		zap.String("transactionId", event.TransactionID))
}

// remindUpload nudges the assigned photographer to upload within 24 hours.
func (n *Notifier) remindUpload(ctx context.Context, event *models.Event) {
	if event.PhotographerID == "" {
		n.logger.Warn("Pending-upload event has no photographer assigned, skipping",
			zap.String("eventId", event.ID))
		return
	}
	photographer, err := n.userRepo.GetByID(ctx, event.PhotographerID)
	if err != nil {
		n.logger.Error("Failed to look up photographer for upload reminder",
			zap.String("eventId", event.ID),
			zap.String("photographerId", event.PhotographerID),
			zap.Error(err))
		return
	}
	n.trySend(ctx, photographer.PhoneNumber, uploadReminderMessage(event), "photographer", event.ID)
}

// announceDelivery tells the host the photos are ready.
func (n *Notifier) announceDelivery(ctx context.Context, event *models.Event) {
	host, ok := n.lookupHost(ctx, event)
	if !ok {
		return
	}
	n.trySend(ctx, host.PhoneNumber, deliveredMessage(event), "host", event.ID)
}

// lookupHost fetches the host record by the event's user email and verifies
// it carries a phone number. Misses degrade gracefully: log and stop.
func (n *Notifier) lookupHost(ctx context.Context, event *models.Event) (*models.User, bool) {
	host, err := n.userRepo.GetByEmail(ctx, event.User)
	if err != nil {
		n.logger.Error("Failed to look up event host",
			zap.String("eventId", event.ID),
			zap.String("hostEmail", event.User),
			zap.Error(err))
		return nil, false
	}
	if host.PhoneNumber == "" {
		n.logger.Warn("Event host has no phone number, skipping notification",
			zap.String("eventId", event.ID),
			zap.String("hostEmail", event.User))
		return nil, false
	}
	return host, true
}

// trySend submits one SMS and logs the outcome. Failures are swallowed.
func (n *Notifier) trySend(ctx context.Context, phone, message, recipient, eventID string) {
	if phone == "" {
		n.logger.Warn("No phone number for recipient, skipping SMS",
			zap.String("recipient", recipient), zap.String("eventId", eventID))
		return
	}
	if err := n.sms.Send(ctx, phone, message); err != nil {
		n.logger.Error("SMS send failed",
			zap.String("recipient", recipient),
			zap.String("eventId", eventID),
			zap.Error(err))
		return
	}
	n.logger.Info("SMS sent",
		zap.String("recipient", recipient),
		zap.String("eventId", eventID))
}
