package db

import (
	"context"
	"time"

	"lenslink-backend-go/internal/models"
)

// UserRepository defines the interface for user profile storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]*models.User, error) // admin dashboard
}

// EventRepository defines the interface for event document storage operations.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) (string, error) // Returns new event ID
	GetByID(ctx context.Context, eventID string) (*models.Event, error)
	GetByHost(ctx context.Context, hostEmail string) ([]*models.Event, error)
	GetByStatus(ctx context.Context, status string) ([]*models.Event, error)
	// GetDueForUpload returns accepted events whose date is not after the cutoff.
	GetDueForUpload(ctx context.Context, cutoff time.Time) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	List(ctx context.Context) ([]*models.Event, error) // admin dashboard
}

// ContactRepository defines the interface for contact message storage operations.
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) (string, error)
	List(ctx context.Context) ([]*models.ContactMessage, error) // admin dashboard
}

// FolderRepository defines the interface for deliverables folder storage operations.
type FolderRepository interface {
	Create(ctx context.Context, folder *models.Folder) (string, error)
	GetByID(ctx context.Context, folderID string) (*models.Folder, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]*models.Folder, error)
	Update(ctx context.Context, folder *models.Folder) error
	Delete(ctx context.Context, folderID string) error
}
