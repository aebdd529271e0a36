package core

import (
	"context"
	"fmt"
	"time"

	"lenslink-backend-go/internal/db"
	"lenslink-backend-go/internal/models"
)

// contactService implements the ContactService interface.
type contactService struct {
	contactRepo db.ContactRepository
}

// NewContactService creates a new ContactService instance.
func NewContactService(contactRepo db.ContactRepository) ContactService {
	return &contactService{contactRepo: contactRepo}
}

// CreateMessage stores a contact form submission.
func (s *contactService) CreateMessage(ctx context.Context, req models.CreateContactMessageRequest) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		Timestamp: time.Now().UTC(),
	}

	msgID, err := s.contactRepo.Create(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact message in repository: %w", err)
	}
	msg.ID = msgID
	return msg, nil
}

// ListMessages retrieves all contact messages for the admin dashboard.
func (s *contactService) ListMessages(ctx context.Context) ([]*models.ContactMessage, error) {
	msgs, err := s.contactRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return msgs, nil
}
