package models

import "time"

// Role values a user profile can carry. The role is chosen once when the
// profile is initialized after the first Firebase sign-in and is not
// re-validated by the store afterwards.
const (
	RolePhotographer = "photographer"
	RoleClient       = "client"
	RoleAdmin        = "admin"
)

// User represents a user profile in the system.
type User struct {
	ID          string    `json:"id" firestore:"-"` // Firebase Auth UID, used as the document ID
	Email       string    `json:"email" firestore:"email"`
	DisplayName string    `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	Role        string    `json:"role" firestore:"role"` // "photographer", "client" or "admin"
	PhoneNumber string    `json:"phoneNumber,omitempty" firestore:"phoneNumber,omitempty"`
	City        string    `json:"city,omitempty" firestore:"city,omitempty"`   // photographer profile field
	About       string    `json:"about,omitempty" firestore:"about,omitempty"` // photographer profile field
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// IsPhotographer reports whether the user can take jobs from the marketplace.
func (u *User) IsPhotographer() bool {
	return u.Role == RolePhotographer
}
