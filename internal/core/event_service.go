package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"lenslink-backend-go/internal/cache"
	"lenslink-backend-go/internal/db"
	"lenslink-backend-go/internal/models"
	"lenslink-backend-go/internal/queue"
)

// Custom errors for the EventService.
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrForbiddenAccess   = errors.New("user does not have permission for this action on the event")
	ErrInvalidTransition = errors.New("event status cannot move to the requested state")
	ErrNotAssigned       = errors.New("photographer is not assigned to this event")
)

// openJobsCacheKey holds the marketplace listing; short TTL, invalidated on
// any event write.
const (
	openJobsCacheKey = "events:open-jobs"
	openJobsCacheTTL = 30 * time.Second
)

// validTransitions encodes the forward-only status lifecycle.
var validTransitions = map[string]string{
	models.StatusSubmitted:     models.StatusPaid,
	models.StatusPaid:          models.StatusAccepted,
	models.StatusAccepted:      models.StatusPendingUpload,
	models.StatusPendingUpload: models.StatusUploaded,
}

// eventService implements the EventService interface.
type eventService struct {
	eventRepo db.EventRepository
	cache     cache.Cache // optional; nil disables caching
	publisher queue.Publisher
	logger    *zap.Logger
}

// NewEventService creates a new EventService instance. cache may be nil.
func NewEventService(
	eventRepo db.EventRepository,
	eventCache cache.Cache,
	publisher queue.Publisher,
	logger *zap.Logger,
) EventService {
	return &eventService{
		eventRepo: eventRepo,
		cache:     eventCache,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateEvent posts a new event for a host in status submitted.
func (s *eventService) CreateEvent(ctx context.Context, hostEmail string, req models.CreateEventRequest) (*models.Event, error) {
	newEvent := &models.Event{
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		Region:      req.Region,
		Type:        req.Type,
		Date:        req.Date,
		Time:        req.Time,
		ContactName: req.ContactName,
		User:        hostEmail,
		Status:      models.StatusSubmitted,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	eventID, err := s.eventRepo.Create(ctx, newEvent)
	if err != nil {
		return nil, fmt.Errorf("failed to create event in repository: %w", err)
	}
	newEvent.ID = eventID

	s.publishChange(models.EventChange{Kind: models.ChangeCreated, After: newEvent})
	return newEvent, nil
}

// GetEventByID retrieves an event if the requester is the host, the assigned
// photographer, or an admin.
func (s *eventService) GetEventByID(ctx context.Context, requester *models.User, eventID string) (*models.Event, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if requester.Role != models.RoleAdmin &&
		event.User != requester.Email &&
		event.PhotographerID != requester.ID {
		return nil, fmt.Errorf("%w: user '%s' cannot view event '%s'", ErrForbiddenAccess, requester.ID, eventID)
	}
	return event, nil
}

// ListHostEvents retrieves all events posted by a host.
func (s *eventService) ListHostEvents(ctx context.Context, hostEmail string) ([]*models.Event, error) {
	events, err := s.eventRepo.GetByHost(ctx, hostEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for host '%s': %w", hostEmail, err)
	}
	return events, nil
}

// ListOpenJobs returns events photographers can still accept. The listing is
// served from cache when fresh.
func (s *eventService) ListOpenJobs(ctx context.Context) ([]*models.Event, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(openJobsCacheKey); err == nil && cached != "" {
			var events []*models.Event
			if err := json.Unmarshal([]byte(cached), &events); err == nil {
				return events, nil
			}
			// Corrupt entry: fall through to the repository and overwrite it.
		}
	}

	events, err := s.eventRepo.GetByStatus(ctx, models.StatusPaid)
	if err != nil {
		return nil, fmt.Errorf("failed to list open jobs: %w", err)
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(events); err == nil {
			if cacheErr := s.cache.Set(openJobsCacheKey, string(encoded), openJobsCacheTTL); cacheErr != nil {
				s.logger.Warn("Failed to cache open jobs listing", zap.Error(cacheErr))
			}
		}
	}
	return events, nil
}

// MarkPaid records a successful payment callback: submitted -> paid, storing
// the gateway transaction ID for the later commit.
func (s *eventService) MarkPaid(ctx context.Context, eventID, transactionID string) (*models.Event, error) {
	if transactionID == "" {
		return nil, errors.New("transactionID cannot be empty for MarkPaid")
	}
	return s.transition(ctx, eventID, models.StatusPaid, func(event *models.Event) error {
		event.TransactionID = transactionID
		return nil
	})
}

// AcceptEvent assigns a photographer to a paid event: paid -> accepted.
// First to accept wins; a second accept fails the transition check.
func (s *eventService) AcceptEvent(ctx context.Context, photographerID, eventID string) (*models.Event, error) {
	if photographerID == "" {
		return nil, errors.New("photographerID cannot be empty for AcceptEvent")
	}
	return s.transition(ctx, eventID, models.StatusAccepted, func(event *models.Event) error {
		event.PhotographerID = photographerID
		return nil
	})
}

// MarkPendingUpload moves an accepted event whose date passed to
// pending-upload. Called by the date sweeper.
func (s *eventService) MarkPendingUpload(ctx context.Context, eventID string) (*models.Event, error) {
	return s.transition(ctx, eventID, models.StatusPendingUpload, nil)
}

// MarkUploaded records that the assigned photographer finished uploading.
func (s *eventService) MarkUploaded(ctx context.Context, photographerID, eventID string) (*models.Event, error) {
	return s.transition(ctx, eventID, models.StatusUploaded, func(event *models.Event) error {
		if event.PhotographerID != photographerID {
			return fmt.Errorf("%w: photographer '%s' on event '%s'", ErrNotAssigned, photographerID, eventID)
		}
		return nil
	})
}

// ListAllEvents retrieves every event for the admin dashboard.
func (s *eventService) ListAllEvents(ctx context.Context) ([]*models.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// transition applies a single forward status move. mutate, when non-nil, can
// adjust the event (or veto the move) after the transition check passes but
// before the write.
func (s *eventService) transition(ctx context.Context, eventID, next string, mutate func(*models.Event) error) (*models.Event, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if validTransitions[event.Status] != next {
		return nil, fmt.Errorf("%w: '%s' -> '%s' on event '%s'", ErrInvalidTransition, event.Status, next, eventID)
	}

	before := *event
	if mutate != nil {
		if err := mutate(event); err != nil {
			return nil, err
		}
	}
	event.Status = next
	event.UpdatedAt = time.Now().UTC()

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event '%s': %w", eventID, err)
	}

	s.invalidateOpenJobs()
	s.publishChange(models.EventChange{Kind: models.ChangeUpdated, Before: &before, After: event})
	return event, nil
}

func (s *eventService) getEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: event with ID '%s'", ErrEventNotFound, eventID)
		}
		return nil, fmt.Errorf("failed to get event '%s' from repository: %w", eventID, err)
	}
	return event, nil
}

// publishChange sends the change envelope to the event-changes queue. A
// publish failure loses that notification; the document write itself stands.
func (s *eventService) publishChange(change models.EventChange) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(change)
	if err != nil {
		s.logger.Error("Failed to marshal event change", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(queue.EventChangesQueue, body); err != nil {
		s.logger.Error("Failed to publish event change",
			zap.String("eventId", change.After.ID),
			zap.String("kind", string(change.Kind)),
			zap.Error(err))
	}
}

// invalidateOpenJobs drops the marketplace cache entry after any event write.
func (s *eventService) invalidateOpenJobs() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(openJobsCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate open jobs cache", zap.Error(err))
	}
}
