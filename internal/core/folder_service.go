package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lenslink-backend-go/internal/db"
	"lenslink-backend-go/internal/models"
)

// Custom errors for the FolderService.
var (
	ErrFolderNotFound = errors.New("folder not found")
)

// folderService implements the FolderService interface.
type folderService struct {
	folderRepo db.FolderRepository
	// storageBaseURL is the public prefix uploaded objects are served from.
	storageBaseURL string
}

// NewFolderService creates a new FolderService instance.
func NewFolderService(folderRepo db.FolderRepository, storageBaseURL string) FolderService {
	return &folderService{folderRepo: folderRepo, storageBaseURL: storageBaseURL}
}

// CreateFolder creates an empty deliverables folder for a user.
func (s *folderService) CreateFolder(ctx context.Context, ownerID string, req models.CreateFolderRequest) (*models.Folder, error) {
	newFolder := &models.Folder{
		OwnerID:   ownerID,
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	folderID, err := s.folderRepo.Create(ctx, newFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to create folder in repository: %w", err)
	}
	newFolder.ID = folderID
	return newFolder, nil
}

// ListFolders retrieves all folders owned by a user.
func (s *folderService) ListFolders(ctx context.Context, ownerID string) ([]*models.Folder, error) {
	folders, err := s.folderRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders for owner '%s': %w", ownerID, err)
	}
	return folders, nil
}

// GetFolderByID retrieves a folder if the requester owns it or it has been
// shared with their email.
func (s *folderService) GetFolderByID(ctx context.Context, requester *models.User, folderID string) (*models.Folder, error) {
	folder, err := s.getOwned(ctx, requester.ID, folderID)
	if err == nil {
		return folder, nil
	}
	if !errors.Is(err, ErrForbiddenAccess) {
		return nil, err
	}

	// Not the owner: shared access by email still grants read.
	folder, getErr := s.folderRepo.GetByID(ctx, folderID)
	if getErr != nil {
		return nil, s.wrapGetError(folderID, getErr)
	}
	if !folder.SharedWithEmail(requester.Email) {
		return nil, fmt.Errorf("%w: user '%s' cannot view folder '%s'", ErrForbiddenAccess, requester.ID, folderID)
	}
	return folder, nil
}

// RenameFolder renames a folder the user owns.
func (s *folderService) RenameFolder(ctx context.Context, ownerID, folderID string, req models.RenameFolderRequest) (*models.Folder, error) {
	folder, err := s.getOwned(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	folder.Name = req.Name
	folder.UpdatedAt = time.Now().UTC()
	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to rename folder '%s': %w", folderID, err)
	}
	return folder, nil
}

// DeleteFolder removes a folder the user owns.
func (s *folderService) DeleteFolder(ctx context.Context, ownerID, folderID string) error {
	if _, err := s.getOwned(ctx, ownerID, folderID); err != nil {
		return err
	}
	if err := s.folderRepo.Delete(ctx, folderID); err != nil {
		return fmt.Errorf("failed to delete folder '%s': %w", folderID, err)
	}
	return nil
}

// AddFile appends an uploaded deliverable to a folder the user owns. When the
// request carries no direct URL, one is generated from a fresh object key so
// uploads never collide.
func (s *folderService) AddFile(ctx context.Context, ownerID, folderID string, req models.AddFolderFileRequest) (*models.Folder, error) {
	folder, err := s.getOwned(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	fileURL := req.URL
	if fileURL == "" {
		fileURL = fmt.Sprintf("%s/%s/%s/%s", s.storageBaseURL, ownerID, folderID, uuid.NewString())
	}

	folder.Files = append(folder.Files, models.FileRef{Name: req.Name, URL: fileURL})
	folder.UpdatedAt = time.Now().UTC()
	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to add file to folder '%s': %w", folderID, err)
	}
	return folder, nil
}

// ShareFolder grants read access to the given emails on a folder the user
// owns. Duplicate emails are ignored.
func (s *folderService) ShareFolder(ctx context.Context, ownerID, folderID string, req models.ShareFolderRequest) (*models.Folder, error) {
	folder, err := s.getOwned(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	for _, email := range req.Emails {
		if email == "" || folder.SharedWithEmail(email) {
			continue
		}
		folder.SharedWith = append(folder.SharedWith, email)
	}
	folder.UpdatedAt = time.Now().UTC()
	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to share folder '%s': %w", folderID, err)
	}
	return folder, nil
}

// getOwned fetches a folder and verifies ownership.
func (s *folderService) getOwned(ctx context.Context, ownerID, folderID string) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, s.wrapGetError(folderID, err)
	}
	if folder.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: user '%s' is not owner of folder '%s'", ErrForbiddenAccess, ownerID, folderID)
	}
	return folder, nil
}

func (s *folderService) wrapGetError(folderID string, err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return fmt.Errorf("%w: folder with ID '%s'", ErrFolderNotFound, folderID)
	}
	return fmt.Errorf("failed to get folder '%s' from repository: %w", folderID, err)
}
