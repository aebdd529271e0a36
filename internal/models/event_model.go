package models

import "time"

// Event status lifecycle. A booking only moves forward through this ordered
// sequence; the notifier treats anything else as unrecognized.
const (
	StatusSubmitted     = "submitted"      // host created the event, payment pending
	StatusPaid          = "paid"           // payment authorized, job visible on the marketplace
	StatusAccepted      = "accepted"       // a photographer took the job
	StatusPendingUpload = "pending-upload" // event date passed, photos expected
	StatusUploaded      = "uploaded"       // deliverables are ready
)

// Event represents a photography booking posted by a host.
type Event struct {
	ID             string    `json:"id" firestore:"-"` // Document ID, auto-generated
	Name           string    `json:"name" firestore:"name"`
	Address        string    `json:"address" firestore:"address"`
	City           string    `json:"city" firestore:"city"`
	Region         string    `json:"region,omitempty" firestore:"region,omitempty"`
	Type           string    `json:"type,omitempty" firestore:"type,omitempty"` // e.g. "wedding", "bar-mitzvah", "birthday"
	Date           time.Time `json:"date" firestore:"date"`
	Time           string    `json:"time,omitempty" firestore:"time,omitempty"` // wall-clock start time, e.g. "19:30"
	ContactName    string    `json:"contactName,omitempty" firestore:"contactName,omitempty"`
	User           string    `json:"user" firestore:"user"` // host email
	Status         string    `json:"status" firestore:"status"`
	PhotographerID string    `json:"photographerId,omitempty" firestore:"photographerId,omitempty"`
	TransactionID  string    `json:"transaction_id,omitempty" firestore:"transaction_id,omitempty"`
	CreatedAt      time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt      time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// ChangeKind tags an EventChange envelope. Using an explicit tag instead of
// inferring creation/deletion from absent snapshots removes any ambiguity
// about what a consumer is looking at.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// EventChange is the envelope published to the message queue on every write
// to an event document. Before is nil for created, After is nil for deleted.
type EventChange struct {
	Kind   ChangeKind `json:"kind"`
	Before *Event     `json:"before,omitempty"`
	After  *Event     `json:"after,omitempty"`
}
