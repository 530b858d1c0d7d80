package dto

import "time"

// CreateBusinessRequest payload.
type CreateBusinessRequest struct {
	Name string `json:"name"`
}

// BusinessResponse is the tenant representation.
type BusinessResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationResponse represents one delivered notification.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
