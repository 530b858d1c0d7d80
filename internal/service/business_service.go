package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/samraify/multicore-crm-new/internal/domain"
	"github.com/samraify/multicore-crm-new/internal/repository"
	apperrors "github.com/samraify/multicore-crm-new/pkg/util"
)

// BusinessService manages tenant records. Provisioning is a platform-level
// operation; tenants never create or modify each other.
type BusinessService struct {
	businesses repository.BusinessRepository
}

// NewBusinessService constructs the service.
func NewBusinessService(businesses repository.BusinessRepository) *BusinessService {
	return &BusinessService{businesses: businesses}
}

// CreateBusiness provisions a new tenant.
func (s *BusinessService) CreateBusiness(ctx context.Context, name string) (*domain.Business, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}

	now := time.Now()
	business := &domain.Business{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.businesses.Create(ctx, business); err != nil {
		return nil, apperrors.MapError(err)
	}
	return business, nil
}

// GetBusiness fetches a tenant record.
func (s *BusinessService) GetBusiness(ctx context.Context, id string) (*domain.Business, error) {
	business, err := s.businesses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("business", map[string]any{"business_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return business, nil
}
