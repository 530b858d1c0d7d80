package domain

import "time"

// Business is a tenant. Every ticket and tenant-bound user belongs to exactly
// one business, and that ownership never changes.
type Business struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
