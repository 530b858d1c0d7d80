package domain

import "time"

// TicketComment captures a comment on a ticket thread. Append-only.
type TicketComment struct {
	ID        string
	TicketID  string
	AuthorID  string
	Comment   string
	CreatedAt time.Time
}
