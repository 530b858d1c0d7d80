package domain

import "time"

// Notification is a queued alert for a user. Delivery is fire-and-forget;
// rows are written after the triggering state change is persisted.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	CreatedAt time.Time
}
