package dto

import (
	"time"

	"github.com/samraify/multicore-crm-new/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	BusinessID   string                `json:"business_id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Priority     domain.TicketPriority `json:"priority"`
	AssignedToID *string               `json:"assigned_to_id"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// AddCommentRequest payload.
type AddCommentRequest struct {
	Comment string `json:"comment"`
}

// TicketResponse is the ticket representation returned by every endpoint.
type TicketResponse struct {
	ID           string                `json:"id"`
	BusinessID   string                `json:"business_id"`
	CreatedByID  string                `json:"created_by_id"`
	AssignedToID *string               `json:"assigned_to_id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Status       domain.TicketStatus   `json:"status"`
	Priority     domain.TicketPriority `json:"priority"`
	SLADueAt     time.Time             `json:"sla_due_at"`
	IsEscalated  bool                  `json:"is_escalated"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// TicketCommentResponse represents one comment in a thread.
type TicketCommentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  string    `json:"author_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketHistoryResponse represents one audit trail entry.
type TicketHistoryResponse struct {
	ID        string              `json:"id"`
	TicketID  string              `json:"ticket_id"`
	ActorID   *string             `json:"actor_id"`
	Action    domain.TicketAction `json:"action"`
	OldValue  *string             `json:"old_value"`
	NewValue  *string             `json:"new_value"`
	CreatedAt time.Time           `json:"created_at"`
}

// TicketAnalyticsResponse aggregates per-business counters.
type TicketAnalyticsResponse struct {
	Total      int64 `json:"total"`
	Open       int64 `json:"open"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Closed     int64 `json:"closed"`
	Low        int64 `json:"low"`
	Medium     int64 `json:"medium"`
	High       int64 `json:"high"`
	Urgent     int64 `json:"urgent"`
}
