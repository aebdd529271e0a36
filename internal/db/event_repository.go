package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lenslink-backend-go/internal/models"
)

const eventsCollection = "events"

// firestoreEventRepository implements the EventRepository interface using Firestore.
type firestoreEventRepository struct {
	client *firestore.Client
}

// NewFirestoreEventRepository creates a new instance of firestoreEventRepository.
func NewFirestoreEventRepository(client *firestore.Client) EventRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for EventRepository.")
	}
	return &firestoreEventRepository{client: client}
}

// Create adds a new event document to Firestore with an auto-generated ID.
// It sets event.ID with the new document ID before creation.
func (r *firestoreEventRepository) Create(ctx context.Context, event *models.Event) (string, error) {
	docRef := r.client.Collection(eventsCollection).NewDoc()
	event.ID = docRef.ID

	_, err := docRef.Create(ctx, event)
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves an event document from Firestore by its ID.
func (r *firestoreEventRepository) GetByID(ctx context.Context, eventID string) (*models.Event, error) {
	if eventID == "" {
		return nil, errors.New("eventID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(eventsCollection).Doc(eventID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("event with ID '%s' not found: %w", eventID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get event with ID '%s': %w", eventID, err)
	}

	var event models.Event
	if err := docSnap.DataTo(&event); err != nil {
		return nil, fmt.Errorf("failed to decode event data for ID '%s': %w", eventID, err)
	}
	event.ID = docSnap.Ref.ID

	return &event, nil
}

// GetByHost retrieves all events posted by the given host email, newest first.
func (r *firestoreEventRepository) GetByHost(ctx context.Context, hostEmail string) ([]*models.Event, error) {
	if hostEmail == "" {
		return nil, errors.New("hostEmail cannot be empty for GetByHost operation")
	}
	query := r.client.Collection(eventsCollection).Where("user", "==", hostEmail).OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query.Documents(ctx))
}

// GetByStatus retrieves all events currently in the given status.
func (r *firestoreEventRepository) GetByStatus(ctx context.Context, eventStatus string) ([]*models.Event, error) {
	if eventStatus == "" {
		return nil, errors.New("status cannot be empty for GetByStatus operation")
	}
	query := r.client.Collection(eventsCollection).Where("status", "==", eventStatus).OrderBy("date", firestore.Asc)
	return r.collect(ctx, query.Documents(ctx))
}

// GetDueForUpload retrieves accepted events whose date is not after the cutoff.
// These are the bookings the sweeper moves to pending-upload.
func (r *firestoreEventRepository) GetDueForUpload(ctx context.Context, cutoff time.Time) ([]*models.Event, error) {
	query := r.client.Collection(eventsCollection).
		Where("status", "==", models.StatusAccepted).
		Where("date", "<=", cutoff)
	return r.collect(ctx, query.Documents(ctx))
}

// List retrieves all events, newest first, for the admin dashboard.
func (r *firestoreEventRepository) List(ctx context.Context) ([]*models.Event, error) {
	query := r.client.Collection(eventsCollection).OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query.Documents(ctx))
}

// Update overwrites an existing event document with the given state.
func (r *firestoreEventRepository) Update(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		return errors.New("event ID cannot be empty for Update operation")
	}
	_, err := r.client.Collection(eventsCollection).Doc(event.ID).Set(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to update event with ID '%s': %w", event.ID, err)
	}
	return nil
}

// collect drains a document iterator into event models, skipping documents
// that fail to decode.
func (r *firestoreEventRepository) collect(ctx context.Context, iter *firestore.DocumentIterator) ([]*models.Event, error) {
	defer iter.Stop()

	var events []*models.Event
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate events: %w", err)
		}

		var event models.Event
		if err := doc.DataTo(&event); err != nil {
			log.Printf("Error decoding event data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		event.ID = doc.Ref.ID
		events = append(events, &event)
	}

	return events, nil
}
