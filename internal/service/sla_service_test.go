package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/samraify/multicore-crm-new/internal/domain"
)

func TestSeedInsertsDefaultsAndKeepsExistingRows(t *testing.T) {
	repo := newFakeSLARepo()
	custom := &domain.SLAPolicy{ID: "p-1", Priority: domain.TicketPriorityHigh, AllowedHours: 4, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), custom))

	slaService := NewSLAService(repo, zap.NewNop())
	require.NoError(t, slaService.Seed(context.Background()))

	assert.Len(t, repo.policies, len(domain.DefaultSLAHours))
	// Operator-tuned row survives the seed.
	assert.Equal(t, 4, slaService.AllowedHours(context.Background(), domain.TicketPriorityHigh))
	assert.Equal(t, 72, slaService.AllowedHours(context.Background(), domain.TicketPriorityLow))
	assert.Equal(t, 8, slaService.AllowedHours(context.Background(), domain.TicketPriorityUrgent))
}

func TestAllowedHoursFallsBackOnLookupFailure(t *testing.T) {
	repo := newFakeSLARepo()
	repo.failGet = errors.New("connection refused")

	slaService := NewSLAService(repo, zap.NewNop())
	assert.Equal(t, domain.FallbackSLAHours, slaService.AllowedHours(context.Background(), domain.TicketPriorityUrgent))
}

func TestAllowedHoursFallsBackOnMissingRow(t *testing.T) {
	slaService := NewSLAService(newFakeSLARepo(), zap.NewNop())
	assert.Equal(t, domain.FallbackSLAHours, slaService.AllowedHours(context.Background(), domain.TicketPriorityMedium))
}

func TestDueAtAddsAllowedHours(t *testing.T) {
	repo := newFakeSLARepo()
	slaService := NewSLAService(repo, zap.NewNop())
	require.NoError(t, slaService.Seed(context.Background()))

	from := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, from.Add(48*time.Hour), slaService.DueAt(context.Background(), from, domain.TicketPriorityMedium))
	assert.Equal(t, from.Add(8*time.Hour), slaService.DueAt(context.Background(), from, domain.TicketPriorityUrgent))
}
