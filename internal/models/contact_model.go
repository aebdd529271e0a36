package models

import "time"

// ContactMessage is a message left through the public contact form.
// Messages are immutable once created.
type ContactMessage struct {
	ID        string    `json:"id" firestore:"-"` // Document ID, auto-generated
	Name      string    `json:"name" firestore:"name"`
	Email     string    `json:"email" firestore:"email"`
	Phone     string    `json:"phone,omitempty" firestore:"phone,omitempty"`
	Message   string    `json:"message" firestore:"message"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp,serverTimestamp"`
}
