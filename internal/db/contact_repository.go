package db

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"lenslink-backend-go/internal/models"
)

const contactMessagesCollection = "contact_messages"

// firestoreContactRepository implements the ContactRepository interface using Firestore.
type firestoreContactRepository struct {
	client *firestore.Client
}

// NewFirestoreContactRepository creates a new instance of firestoreContactRepository.
func NewFirestoreContactRepository(client *firestore.Client) ContactRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ContactRepository.")
	}
	return &firestoreContactRepository{client: client}
}

// Create adds a new contact message document with an auto-generated ID.
// Messages are never updated or deleted afterwards.
func (r *firestoreContactRepository) Create(ctx context.Context, msg *models.ContactMessage) (string, error) {
	docRef := r.client.Collection(contactMessagesCollection).NewDoc()
	msg.ID = docRef.ID

	_, err := docRef.Create(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("failed to create contact message: %w", err)
	}
	return docRef.ID, nil
}

// List retrieves all contact messages, newest first, for the admin dashboard.
func (r *firestoreContactRepository) List(ctx context.Context) ([]*models.ContactMessage, error) {
	iter := r.client.Collection(contactMessagesCollection).OrderBy("timestamp", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var msgs []*models.ContactMessage
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate contact messages: %w", err)
		}

		var msg models.ContactMessage
		if err := doc.DataTo(&msg); err != nil {
			log.Printf("Error decoding contact message (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		msg.ID = doc.Ref.ID
		msgs = append(msgs, &msg)
	}

	return msgs, nil
}
