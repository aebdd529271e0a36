package core

import (
	"context"

	"lenslink-backend-go/internal/models"
)

// UserService defines the interface for user profile operations.
type UserService interface {
	// InitializeProfile retrieves the profile for a Firebase UID, creating it
	// from the request on first call. Returns the profile and whether it was
	// just created.
	InitializeProfile(ctx context.Context, userID, email string, req models.InitializeProfileRequest) (*models.User, bool, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error) // admin dashboard
}

// EventService defines the interface for event booking operations. Every
// write publishes an EventChange envelope for the notifier.
type EventService interface {
	CreateEvent(ctx context.Context, hostEmail string, req models.CreateEventRequest) (*models.Event, error)
	GetEventByID(ctx context.Context, requester *models.User, eventID string) (*models.Event, error)
	ListHostEvents(ctx context.Context, hostEmail string) ([]*models.Event, error)
	// ListOpenJobs returns events photographers can still accept (status paid).
	ListOpenJobs(ctx context.Context) ([]*models.Event, error)
	// MarkPaid records the payment gateway callback: submitted -> paid.
	MarkPaid(ctx context.Context, eventID, transactionID string) (*models.Event, error)
	// AcceptEvent assigns a photographer to a paid event: paid -> accepted.
	AcceptEvent(ctx context.Context, photographerID, eventID string) (*models.Event, error)
	// MarkPendingUpload moves an accepted event whose date passed: accepted -> pending-upload.
	MarkPendingUpload(ctx context.Context, eventID string) (*models.Event, error)
	// MarkUploaded records the photographer finished uploading: pending-upload -> uploaded.
	MarkUploaded(ctx context.Context, photographerID, eventID string) (*models.Event, error)
	ListAllEvents(ctx context.Context) ([]*models.Event, error) // admin dashboard
}

// ContactService defines the interface for contact form operations.
type ContactService interface {
	CreateMessage(ctx context.Context, req models.CreateContactMessageRequest) (*models.ContactMessage, error)
	ListMessages(ctx context.Context) ([]*models.ContactMessage, error) // admin dashboard
}

// FolderService defines the interface for deliverables folder operations.
type FolderService interface {
	CreateFolder(ctx context.Context, ownerID string, req models.CreateFolderRequest) (*models.Folder, error)
	ListFolders(ctx context.Context, ownerID string) ([]*models.Folder, error)
	GetFolderByID(ctx context.Context, requester *models.User, folderID string) (*models.Folder, error)
	RenameFolder(ctx context.Context, ownerID, folderID string, req models.RenameFolderRequest) (*models.Folder, error)
	DeleteFolder(ctx context.Context, ownerID, folderID string) error
	AddFile(ctx context.Context, ownerID, folderID string, req models.AddFolderFileRequest) (*models.Folder, error)
	ShareFolder(ctx context.Context, ownerID, folderID string, req models.ShareFolderRequest) (*models.Folder, error)
}
