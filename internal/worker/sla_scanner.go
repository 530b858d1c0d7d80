package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samraify/multicore-crm-new/internal/domain"
	"github.com/samraify/multicore-crm-new/internal/observability"
	"github.com/samraify/multicore-crm-new/internal/repository"
	"github.com/samraify/multicore-crm-new/internal/service"
)

// Notifier delivers fire-and-forget alerts. Satisfied by
// service.NotificationService.
type Notifier interface {
	NotifyUser(ctx context.Context, userID, title, message string)
}

// SLAScanner periodically sweeps for overdue tickets and auto-escalates them.
// Passes never overlap: the loop runs one pass at a time and a concurrent
// manual trigger is skipped while a pass is in flight.
type SLAScanner struct {
	tickets  repository.TicketRepository
	history  repository.TicketHistoryRepository
	sla      *service.SLAService
	notifier Notifier
	metrics  *observability.Metrics
	logger   *zap.Logger
	interval time.Duration

	passMu sync.Mutex

	statsMu       sync.Mutex
	totalPasses   int64
	totalBreaches int64
	lastPassAt    time.Time
	lastBreaches  int
}

// ScannerStats is a snapshot of scanner counters.
type ScannerStats struct {
	TotalPasses   int64
	TotalBreaches int64
	LastPassAt    time.Time
	LastBreaches  int
}

// ScannerDependencies bundles collaborators for the scanner.
type ScannerDependencies struct {
	TicketRepo  repository.TicketRepository
	HistoryRepo repository.TicketHistoryRepository
	SLA         *service.SLAService
	Notifier    Notifier
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// NewSLAScanner constructs the scanner.
func NewSLAScanner(deps ScannerDependencies, interval time.Duration) *SLAScanner {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &SLAScanner{
		tickets:  deps.TicketRepo,
		history:  deps.HistoryRepo,
		sla:      deps.SLA,
		notifier: deps.Notifier,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		interval: interval,
	}
}

// Run executes passes on the configured interval until the context is
// cancelled. Intended to be started as a goroutine from main.
func (s *SLAScanner) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sla breach scanner started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			passes, escalated := s.metrics.ScannerTotals()
			s.logger.Info("sla breach scanner stopped",
				zap.Int64("passes", passes),
				zap.Int64("auto_escalated", escalated))
			return
		case <-ticker.C:
			s.RunPass(ctx)
		}
	}
}

// RunPass performs a single sweep. If another pass is already running the
// call is skipped, preserving mutual exclusion on each ticket's escalation
// latch. A failure on one candidate never aborts the rest of the pass.
func (s *SLAScanner) RunPass(ctx context.Context) {
	if !s.passMu.TryLock() {
		s.logger.Debug("scan pass already running; skipping tick")
		return
	}
	defer s.passMu.Unlock()

	now := time.Now()
	candidates, err := s.tickets.ListOverdue(ctx, now, []domain.TicketStatus{
		domain.TicketStatusOpen,
		domain.TicketStatusInProgress,
	})
	if err != nil {
		s.logger.Error("overdue ticket query failed", zap.Error(err))
		return
	}

	escalated := 0
	for i := range candidates {
		changed, err := s.escalateBreached(ctx, &candidates[i])
		if err != nil {
			s.logger.Error("sla breach handling failed",
				zap.String("ticket_id", candidates[i].ID),
				zap.Error(err))
			continue
		}
		if changed {
			escalated++
		}
	}

	s.metrics.RecordScannerPass(escalated)
	s.statsMu.Lock()
	s.totalPasses++
	s.totalBreaches += int64(escalated)
	s.lastPassAt = now
	s.lastBreaches = escalated
	s.statsMu.Unlock()

	if escalated > 0 {
		s.logger.Info("sla breach pass complete",
			zap.Int("candidates", len(candidates)),
			zap.Int("escalated", escalated))
	}
}

// escalateBreached applies the one-shot auto-escalation to a single overdue
// ticket. Already-escalated tickets are skipped so repeated passes never
// escalate the same ticket twice. Notification happens strictly after the
// state change and history record are persisted.
func (s *SLAScanner) escalateBreached(ctx context.Context, ticket *domain.Ticket) (bool, error) {
	if ticket.IsEscalated {
		return false, nil
	}

	now := time.Now()
	ticket.IsEscalated = true
	ticket.Priority = domain.TicketPriorityUrgent
	ticket.SLADueAt = s.sla.DueAt(ctx, now, domain.TicketPriorityUrgent)
	ticket.UpdatedAt = now
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return false, err
	}

	autoEscalated := "auto-escalated"
	entry := &domain.TicketHistory{
		ID:        uuid.NewString(),
		TicketID:  ticket.ID,
		ActorID:   nil,
		Action:    domain.ActionSLABreach,
		OldValue:  nil,
		NewValue:  &autoEscalated,
		CreatedAt: now,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		return false, err
	}

	target := ticket.CreatedByID
	if ticket.AssignedToID != nil {
		target = *ticket.AssignedToID
	}
	s.notifier.NotifyUser(ctx, target,
		"Ticket SLA breached",
		"Ticket "+ticket.ID+" has breached SLA and was auto-escalated.")
	return true, nil
}

// Stats returns a snapshot of scanner counters.
func (s *SLAScanner) Stats() ScannerStats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return ScannerStats{
		TotalPasses:   s.totalPasses,
		TotalBreaches: s.totalBreaches,
		LastPassAt:    s.lastPassAt,
		LastBreaches:  s.lastBreaches,
	}
}
