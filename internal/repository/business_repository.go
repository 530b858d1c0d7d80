package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samraify/multicore-crm-new/internal/domain"
)

// BusinessRepository encapsulates tenant persistence. Provisioning workflows
// live outside this service; only lookup and creation are exposed.
type BusinessRepository interface {
	Create(ctx context.Context, business *domain.Business) error
	GetByID(ctx context.Context, id string) (*domain.Business, error)
}

type businessRepository struct {
	pool *pgxpool.Pool
}

// NewBusinessRepository instantiates repository.
func NewBusinessRepository(pool *pgxpool.Pool) BusinessRepository {
	return &businessRepository{pool: pool}
}

func (r *businessRepository) Create(ctx context.Context, business *domain.Business) error {
	const query = `
        INSERT INTO businesses (id, name, active, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5)`
	_, err := r.pool.Exec(ctx, query,
		business.ID,
		business.Name,
		business.Active,
		business.CreatedAt,
		business.UpdatedAt,
	)
	return err
}

func (r *businessRepository) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	const query = `
        SELECT id, name, active, created_at, updated_at
        FROM businesses WHERE id=$1`
	var business domain.Business
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&business.ID,
		&business.Name,
		&business.Active,
		&business.CreatedAt,
		&business.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &business, nil
}
