package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samraify/multicore-crm-new/internal/domain"
	"github.com/samraify/multicore-crm-new/internal/repository"
)

// SLAService resolves priority to allowed hours from the policy table.
type SLAService struct {
	policies repository.SLARepository
	logger   *zap.Logger
}

// NewSLAService constructs the service.
func NewSLAService(policies repository.SLARepository, logger *zap.Logger) *SLAService {
	return &SLAService{policies: policies, logger: logger}
}

// Seed inserts the default policy rows when missing. Existing rows win.
func (s *SLAService) Seed(ctx context.Context) error {
	for priority, hours := range domain.DefaultSLAHours {
		policy := &domain.SLAPolicy{
			ID:           uuid.NewString(),
			Priority:     priority,
			AllowedHours: hours,
			CreatedAt:    time.Now(),
		}
		if err := s.policies.Create(ctx, policy); err != nil {
			return err
		}
	}
	s.logger.Info("sla policies seeded")
	return nil
}

// AllowedHours returns the configured hours for a priority. A missing row or
// lookup failure falls back to the default so due-date computation never
// fails.
func (s *SLAService) AllowedHours(ctx context.Context, priority domain.TicketPriority) int {
	policy, err := s.policies.GetByPriority(ctx, priority)
	if err != nil {
		s.logger.Debug("sla policy lookup fell back to default",
			zap.String("priority", string(priority)),
			zap.Int("hours", domain.FallbackSLAHours))
		return domain.FallbackSLAHours
	}
	return policy.AllowedHours
}

// DueAt computes the SLA deadline for a priority from the reference time.
func (s *SLAService) DueAt(ctx context.Context, from time.Time, priority domain.TicketPriority) time.Time {
	return domain.SLADue(from, s.AllowedHours(ctx, priority))
}
