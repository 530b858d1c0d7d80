package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/samraify/multicore-crm-new/internal/domain"
	"github.com/samraify/multicore-crm-new/internal/observability"
	"github.com/samraify/multicore-crm-new/internal/repository"
	"github.com/samraify/multicore-crm-new/internal/service"
)

type fakeTicketRepo struct {
	mu         sync.Mutex
	tickets    map[string]*domain.Ticket
	failUpdate map[string]error
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}, failUpdate: map[string]error{}}
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *ticket
	f.tickets[ticket.ID] = &copied
	return nil
}

func (f *fakeTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failUpdate[ticket.ID]; ok {
		return err
	}
	if _, ok := f.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *ticket
	f.tickets[ticket.ID] = &copied
	return nil
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	return nil, nil
}

func (f *fakeTicketRepo) ListOverdue(ctx context.Context, before time.Time, statuses []domain.TicketStatus) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Ticket
	for _, ticket := range f.tickets {
		if ticket.SLADueAt.After(before) {
			continue
		}
		for _, status := range statuses {
			if ticket.Status == status {
				out = append(out, *ticket)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeTicketRepo) CountByBusiness(ctx context.Context, businessID string) (int64, error) {
	return 0, nil
}

func (f *fakeTicketRepo) CountByBusinessAndStatus(ctx context.Context, businessID string, status domain.TicketStatus) (int64, error) {
	return 0, nil
}

func (f *fakeTicketRepo) CountByBusinessAndPriority(ctx context.Context, businessID string, priority domain.TicketPriority) (int64, error) {
	return 0, nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.TicketHistory
}

func (f *fakeHistoryRepo) Create(ctx context.Context, history *domain.TicketHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *history)
	return nil
}

func (f *fakeHistoryRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.TicketHistory
	for _, entry := range f.entries {
		if entry.TicketID == ticketID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeSLARepo struct{}

func (fakeSLARepo) Create(ctx context.Context, policy *domain.SLAPolicy) error { return nil }

func (fakeSLARepo) GetByPriority(ctx context.Context, priority domain.TicketPriority) (*domain.SLAPolicy, error) {
	hours, ok := domain.DefaultSLAHours[priority]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &domain.SLAPolicy{ID: "p", Priority: priority, AllowedHours: hours}, nil
}

type notifyCall struct {
	userID  string
	title   string
	message string
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

func (f *fakeNotifier) NotifyUser(ctx context.Context, userID, title, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, notifyCall{userID: userID, title: title, message: message})
}

type scannerFixture struct {
	scanner  *SLAScanner
	tickets  *fakeTicketRepo
	history  *fakeHistoryRepo
	notifier *fakeNotifier
}

func newScannerFixture(t *testing.T) *scannerFixture {
	t.Helper()
	f := &scannerFixture{
		tickets:  newFakeTicketRepo(),
		history:  &fakeHistoryRepo{},
		notifier: &fakeNotifier{},
	}
	f.scanner = NewSLAScanner(ScannerDependencies{
		TicketRepo:  f.tickets,
		HistoryRepo: f.history,
		SLA:         service.NewSLAService(fakeSLARepo{}, zap.NewNop()),
		Notifier:    f.notifier,
		Metrics:     observability.NewMetrics(),
		Logger:      zap.NewNop(),
	}, time.Minute)
	return f
}

func (f *scannerFixture) seedTicket(t *testing.T, id string, status domain.TicketStatus, dueAt time.Time, assignee *string, escalated bool) {
	t.Helper()
	now := time.Now()
	require.NoError(t, f.tickets.Create(context.Background(), &domain.Ticket{
		ID:           id,
		BusinessID:   "biz-1",
		CreatedByID:  "user-creator",
		AssignedToID: assignee,
		Title:        "t",
		Description:  "d",
		Status:       status,
		Priority:     domain.TicketPriorityLow,
		SLADueAt:     dueAt,
		IsEscalated:  escalated,
		CreatedAt:    now.Add(-72 * time.Hour),
		UpdatedAt:    now.Add(-72 * time.Hour),
	}))
}

func (f *scannerFixture) breachEntries(ticketID string) []domain.TicketHistory {
	f.history.mu.Lock()
	defer f.history.mu.Unlock()
	var out []domain.TicketHistory
	for _, entry := range f.history.entries {
		if entry.TicketID == ticketID && entry.Action == domain.ActionSLABreach {
			out = append(out, entry)
		}
	}
	return out
}

func TestScannerEscalatesOverdueTicket(t *testing.T) {
	f := newScannerFixture(t)
	overdue := time.Now().Add(-time.Hour)
	f.seedTicket(t, "t-1", domain.TicketStatusOpen, overdue, nil, false)

	f.scanner.RunPass(context.Background())

	ticket, err := f.tickets.GetByID(context.Background(), "t-1")
	require.NoError(t, err)
	assert.True(t, ticket.IsEscalated)
	assert.Equal(t, domain.TicketPriorityUrgent, ticket.Priority)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), ticket.SLADueAt, 5*time.Second)

	entries := f.breachEntries("t-1")
	require.Len(t, entries, 1)
	assert.Nil(t, entries[0].ActorID)
	require.NotNil(t, entries[0].NewValue)
	assert.Equal(t, "auto-escalated", *entries[0].NewValue)

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, "user-creator", f.notifier.calls[0].userID)
	assert.Equal(t, "Ticket SLA breached", f.notifier.calls[0].title)

	stats := f.scanner.Stats()
	assert.Equal(t, int64(1), stats.TotalPasses)
	assert.Equal(t, int64(1), stats.TotalBreaches)
}

func TestScannerNotifiesAssigneeWhenPresent(t *testing.T) {
	f := newScannerFixture(t)
	assignee := "user-agent"
	f.seedTicket(t, "t-1", domain.TicketStatusInProgress, time.Now().Add(-time.Minute), &assignee, false)

	f.scanner.RunPass(context.Background())

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, "user-agent", f.notifier.calls[0].userID)
}

func TestScannerSkipsFutureAndTerminalTickets(t *testing.T) {
	f := newScannerFixture(t)
	future := time.Now().Add(time.Hour)
	overdue := time.Now().Add(-time.Hour)
	f.seedTicket(t, "t-future", domain.TicketStatusOpen, future, nil, false)
	f.seedTicket(t, "t-resolved", domain.TicketStatusResolved, overdue, nil, false)
	f.seedTicket(t, "t-closed", domain.TicketStatusClosed, overdue, nil, false)

	f.scanner.RunPass(context.Background())

	for _, id := range []string{"t-future", "t-resolved", "t-closed"} {
		ticket, err := f.tickets.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Falsef(t, ticket.IsEscalated, "ticket %s must not be touched", id)
	}
	assert.Empty(t, f.notifier.calls)
}

func TestScannerEscalatesEachTicketAtMostOnce(t *testing.T) {
	f := newScannerFixture(t)
	f.seedTicket(t, "t-1", domain.TicketStatusOpen, time.Now().Add(-time.Hour), nil, false)

	f.scanner.RunPass(context.Background())
	require.Len(t, f.notifier.calls, 1)

	// The ticket is still overdue on later passes but the latch holds.
	f.tickets.mu.Lock()
	f.tickets.tickets["t-1"].SLADueAt = time.Now().Add(-time.Hour)
	f.tickets.mu.Unlock()

	f.scanner.RunPass(context.Background())
	f.scanner.RunPass(context.Background())

	assert.Len(t, f.notifier.calls, 1)
	assert.Len(t, f.breachEntries("t-1"), 1)
	stats := f.scanner.Stats()
	assert.Equal(t, int64(3), stats.TotalPasses)
	assert.Equal(t, int64(1), stats.TotalBreaches)
}

func TestScannerIsolatesPerTicketFailures(t *testing.T) {
	f := newScannerFixture(t)
	overdue := time.Now().Add(-time.Hour)
	f.seedTicket(t, "t-bad", domain.TicketStatusOpen, overdue, nil, false)
	f.seedTicket(t, "t-good", domain.TicketStatusOpen, overdue, nil, false)
	f.tickets.failUpdate["t-bad"] = errors.New("deadlock detected")

	f.scanner.RunPass(context.Background())

	good, err := f.tickets.GetByID(context.Background(), "t-good")
	require.NoError(t, err)
	assert.True(t, good.IsEscalated)

	bad, err := f.tickets.GetByID(context.Background(), "t-bad")
	require.NoError(t, err)
	assert.False(t, bad.IsEscalated)
	assert.Empty(t, f.breachEntries("t-bad"))

	require.Len(t, f.notifier.calls, 1)
	stats := f.scanner.Stats()
	assert.Equal(t, int64(1), stats.TotalBreaches)

	// The failed candidate is retried on the next pass once the fault clears.
	delete(f.tickets.failUpdate, "t-bad")
	f.scanner.RunPass(context.Background())
	bad, err = f.tickets.GetByID(context.Background(), "t-bad")
	require.NoError(t, err)
	assert.True(t, bad.IsEscalated)
}

func TestScannerRunStopsOnContextCancel(t *testing.T) {
	f := newScannerFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		f.scanner.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scanner did not stop after cancellation")
	}
}
