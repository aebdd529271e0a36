package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lenslink-backend-go/internal/models"
)

const foldersCollection = "folders"

// firestoreFolderRepository implements the FolderRepository interface using Firestore.
type firestoreFolderRepository struct {
	client *firestore.Client
}

// NewFirestoreFolderRepository creates a new instance of firestoreFolderRepository.
func NewFirestoreFolderRepository(client *firestore.Client) FolderRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for FolderRepository.")
	}
	return &firestoreFolderRepository{client: client}
}

// Create adds a new folder document to Firestore with an auto-generated ID.
func (r *firestoreFolderRepository) Create(ctx context.Context, folder *models.Folder) (string, error) {
	docRef := r.client.Collection(foldersCollection).NewDoc()
	folder.ID = docRef.ID

	_, err := docRef.Create(ctx, folder)
	if err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a folder document from Firestore by its ID.
func (r *firestoreFolderRepository) GetByID(ctx context.Context, folderID string) (*models.Folder, error) {
	if folderID == "" {
		return nil, errors.New("folderID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(foldersCollection).Doc(folderID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("folder with ID '%s' not found: %w", folderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get folder with ID '%s': %w", folderID, err)
	}

	var folder models.Folder
	if err := docSnap.DataTo(&folder); err != nil {
		return nil, fmt.Errorf("failed to decode folder data for ID '%s': %w", folderID, err)
	}
	folder.ID = docSnap.Ref.ID

	return &folder, nil
}

// GetByOwnerID retrieves all folders owned by a specific user, newest first.
func (r *firestoreFolderRepository) GetByOwnerID(ctx context.Context, ownerID string) ([]*models.Folder, error) {
	if ownerID == "" {
		return nil, errors.New("ownerID cannot be empty for GetByOwnerID operation")
	}
	iter := r.client.Collection(foldersCollection).
		Where("ownerId", "==", ownerID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var folders []*models.Folder
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate folders for owner '%s': %w", ownerID, err)
		}

		var folder models.Folder
		if err := doc.DataTo(&folder); err != nil {
			log.Printf("Error decoding folder data (ID: %s) for owner '%s': %v. Skipping.", doc.Ref.ID, ownerID, err)
			continue
		}
		folder.ID = doc.Ref.ID
		folders = append(folders, &folder)
	}

	return folders, nil
}

// Update overwrites an existing folder document with the given state.
func (r *firestoreFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	if folder.ID == "" {
		return errors.New("folder ID cannot be empty for Update operation")
	}
	_, err := r.client.Collection(foldersCollection).Doc(folder.ID).Set(ctx, folder)
	if err != nil {
		return fmt.Errorf("failed to update folder with ID '%s': %w", folder.ID, err)
	}
	return nil
}

// Delete removes a folder document from Firestore.
func (r *firestoreFolderRepository) Delete(ctx context.Context, folderID string) error {
	if folderID == "" {
		return errors.New("folderID cannot be empty for Delete operation")
	}
	_, err := r.client.Collection(foldersCollection).Doc(folderID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete folder with ID '%s': %w", folderID, err)
	}
	return nil
}
