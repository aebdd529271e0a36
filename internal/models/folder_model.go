package models

import "time"

// FileRef points at an uploaded deliverable inside a folder.
type FileRef struct {
	Name string `json:"name" firestore:"name"`
	URL  string `json:"url" firestore:"url"`
}

// Folder is a container for event deliverables. A photographer uploads files
// into a folder and shares it with the host by email.
type Folder struct {
	ID         string    `json:"id" firestore:"-"` // Document ID, auto-generated
	OwnerID    string    `json:"ownerId" firestore:"ownerId"`
	Name       string    `json:"name" firestore:"name"`
	Files      []FileRef `json:"files,omitempty" firestore:"files,omitempty"`
	SharedWith []string  `json:"sharedWith,omitempty" firestore:"sharedWith,omitempty"` // emails granted read access
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt  time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// SharedWithEmail reports whether the folder has been shared with the given email.
func (f *Folder) SharedWithEmail(email string) bool {
	for _, e := range f.SharedWith {
		if e == email {
			return true
		}
	}
	return false
}
