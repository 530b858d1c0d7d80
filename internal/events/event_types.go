package events

import (
	"time"

	"github.com/samraify/multicore-crm-new/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketCommentAdded  EventType = "ticket_comment_added"
	EventTicketEscalated     EventType = "ticket_escalated"
	EventTicketSLABreached   EventType = "ticket_sla_breached"
)

// Actor encapsulates actor metadata for an event. A nil UserID marks a
// system-driven event such as a scanner escalation.
type Actor struct {
	UserID *string `json:"user_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	BusinessID string                `json:"business_id"`
	Priority   domain.TicketPriority `json:"priority"`
	Title      string                `json:"title"`
	SLADueAt   time.Time             `json:"sla_due_at"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	OldAssigneeID *string `json:"old_assignee_id,omitempty"`
	AssigneeID    string  `json:"assignee_id"`
}

// TicketCommentAddedPayload payload.
type TicketCommentAddedPayload struct {
	CommentID string `json:"comment_id"`
	AuthorID  string `json:"author_id"`
}

// TicketEscalatedPayload payload covers both manual escalation and scanner
// breaches. NotifyUserID is the delivery target: assignee when present,
// creator otherwise.
type TicketEscalatedPayload struct {
	OldPriority  domain.TicketPriority `json:"old_priority"`
	SLADueAt     time.Time             `json:"sla_due_at"`
	NotifyUserID string                `json:"notify_user_id"`
	Auto         bool                  `json:"auto"`
}
