package models

import "time"

// InitializeProfileRequest carries the profile fields a user sets right after
// their first Firebase sign-in. Role and phone number are only applied on the
// first call; subsequent calls return the existing profile unchanged.
type InitializeProfileRequest struct {
	Role        string `json:"role" binding:"required,oneof=photographer client"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	DisplayName string `json:"displayName,omitempty"`
	City        string `json:"city,omitempty"`
	About       string `json:"about,omitempty"`
}

// CreateEventRequest represents the request body for posting a new event.
type CreateEventRequest struct {
	Name        string    `json:"name" binding:"required"`
	Address     string    `json:"address" binding:"required"`
	City        string    `json:"city" binding:"required"`
	Region      string    `json:"region,omitempty"`
	Type        string    `json:"type,omitempty"`
	Date        time.Time `json:"date" binding:"required"`
	Time        string    `json:"time,omitempty"`
	ContactName string    `json:"contactName,omitempty"`
}

// CreateContactMessageRequest represents the public contact form payload.
type CreateContactMessageRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message" binding:"required"`
}

// CreateFolderRequest represents the request body for creating a folder.
type CreateFolderRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameFolderRequest represents the request body for renaming a folder.
type RenameFolderRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddFolderFileRequest records an uploaded deliverable in a folder.
type AddFolderFileRequest struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url,omitempty"` // optional direct URL; generated from the object key when empty
}

// ShareFolderRequest represents the request body for sharing a folder.
type ShareFolderRequest struct {
	Emails []string `json:"emails" binding:"required,min=1"`
}
