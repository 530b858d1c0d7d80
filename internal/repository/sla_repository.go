package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samraify/multicore-crm-new/internal/domain"
)

// SLARepository stores the priority to allowed-hours policy table.
type SLARepository interface {
	Create(ctx context.Context, policy *domain.SLAPolicy) error
	GetByPriority(ctx context.Context, priority domain.TicketPriority) (*domain.SLAPolicy, error)
}

type slaRepository struct {
	pool *pgxpool.Pool
}

// NewSLARepository instantiates repository.
func NewSLARepository(pool *pgxpool.Pool) SLARepository {
	return &slaRepository{pool: pool}
}

func (r *slaRepository) Create(ctx context.Context, policy *domain.SLAPolicy) error {
	const query = `
        INSERT INTO sla_policies (id, priority, allowed_hours, created_at)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (priority) DO NOTHING`
	_, err := r.pool.Exec(ctx, query,
		policy.ID,
		policy.Priority,
		policy.AllowedHours,
		policy.CreatedAt,
	)
	return err
}

func (r *slaRepository) GetByPriority(ctx context.Context, priority domain.TicketPriority) (*domain.SLAPolicy, error) {
	const query = `
        SELECT id, priority, allowed_hours, created_at
        FROM sla_policies WHERE priority=$1`
	var policy domain.SLAPolicy
	if err := r.pool.QueryRow(ctx, query, priority).Scan(
		&policy.ID,
		&policy.Priority,
		&policy.AllowedHours,
		&policy.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &policy, nil
}
