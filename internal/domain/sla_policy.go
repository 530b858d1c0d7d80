package domain

import "time"

// SLAPolicy maps a ticket priority to the allowed hours before breach.
type SLAPolicy struct {
	ID           string
	Priority     TicketPriority
	AllowedHours int
	CreatedAt    time.Time
}

// DefaultSLAHours are seeded at startup when no policy row exists yet.
var DefaultSLAHours = map[TicketPriority]int{
	TicketPriorityLow:    72,
	TicketPriorityMedium: 48,
	TicketPriorityHigh:   24,
	TicketPriorityUrgent: 8,
}

// FallbackSLAHours is used when no policy row can be resolved for a priority.
// Due-date computation must never fail.
const FallbackSLAHours = 24

// SLADue computes the due timestamp from a reference time and allowed hours.
func SLADue(from time.Time, allowedHours int) time.Time {
	return from.Add(time.Duration(allowedHours) * time.Hour)
}
