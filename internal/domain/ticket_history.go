package domain

import "time"

// TicketAction tags a history entry with the lifecycle operation it records.
type TicketAction string

const (
	ActionCreate       TicketAction = "CREATE"
	ActionStatusChange TicketAction = "STATUS_CHANGE"
	ActionAssign       TicketAction = "ASSIGN"
	ActionComment      TicketAction = "COMMENT"
	ActionEscalate     TicketAction = "ESCALATE"
	ActionSLABreach    TicketAction = "SLA_BREACH"
)

// TicketHistory is an immutable audit trail entry. ActorID is nil for
// system-driven changes such as scanner escalations.
type TicketHistory struct {
	ID        string
	TicketID  string
	ActorID   *string
	Action    TicketAction
	OldValue  *string
	NewValue  *string
	CreatedAt time.Time
}
