package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/samraify/multicore-crm-new/internal/domain"
	"github.com/samraify/multicore-crm-new/internal/events"
	"github.com/samraify/multicore-crm-new/internal/repository"
)

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
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
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Ticket
	for _, ticket := range f.tickets {
		if ticket.BusinessID != filter.BusinessID {
			continue
		}
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && ticket.Priority != *filter.Priority {
			continue
		}
		if filter.AssignedToID != nil {
			if ticket.AssignedToID == nil || *ticket.AssignedToID != *filter.AssignedToID {
				continue
			}
		}
		out = append(out, *ticket)
	}
	return out, nil
}

func (f *fakeTicketRepo) ListOverdue(ctx context.Context, before time.Time, statuses []domain.TicketStatus) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Ticket
	for _, ticket := range f.tickets {
		if !ticket.SLADueAt.Before(before) && !ticket.SLADueAt.Equal(before) {
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
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, ticket := range f.tickets {
		if ticket.BusinessID == businessID {
			count++
		}
	}
	return count, nil
}

func (f *fakeTicketRepo) CountByBusinessAndStatus(ctx context.Context, businessID string, status domain.TicketStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, ticket := range f.tickets {
		if ticket.BusinessID == businessID && ticket.Status == status {
			count++
		}
	}
	return count, nil
}

func (f *fakeTicketRepo) CountByBusinessAndPriority(ctx context.Context, businessID string, priority domain.TicketPriority) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, ticket := range f.tickets {
		if ticket.BusinessID == businessID && ticket.Priority == priority {
			count++
		}
	}
	return count, nil
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

func (f *fakeHistoryRepo) byAction(ticketID string, action domain.TicketAction) []domain.TicketHistory {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.TicketHistory
	for _, entry := range f.entries {
		if entry.TicketID == ticketID && entry.Action == action {
			out = append(out, entry)
		}
	}
	return out
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments []domain.TicketComment
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *domain.TicketComment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.comments = append(f.comments, *comment)
	return nil
}

func (f *fakeCommentRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketComment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.TicketComment
	for _, comment := range f.comments {
		if comment.TicketID == ticketID {
			out = append(out, comment)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeBusinessRepo struct {
	mu         sync.Mutex
	businesses map[string]*domain.Business
}

func newFakeBusinessRepo() *fakeBusinessRepo {
	return &fakeBusinessRepo{businesses: map[string]*domain.Business{}}
}

func (f *fakeBusinessRepo) Create(ctx context.Context, business *domain.Business) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *business
	f.businesses[business.ID] = &copied
	return nil
}

func (f *fakeBusinessRepo) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	business, ok := f.businesses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *business
	return &copied, nil
}

type fakeSLARepo struct {
	mu       sync.Mutex
	policies map[domain.TicketPriority]*domain.SLAPolicy
	failGet  error
}

func newFakeSLARepo() *fakeSLARepo {
	return &fakeSLARepo{policies: map[domain.TicketPriority]*domain.SLAPolicy{}}
}

func (f *fakeSLARepo) Create(ctx context.Context, policy *domain.SLAPolicy) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.policies[policy.Priority]; ok {
		return nil
	}
	copied := *policy
	f.policies[policy.Priority] = &copied
	return nil
}

func (f *fakeSLARepo) GetByPriority(ctx context.Context, priority domain.TicketPriority) (*domain.SLAPolicy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	policy, ok := f.policies[priority]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *policy
	return &copied, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []domain.Notification
	failCreate    error
}

func (f *fakeNotificationRepo) Create(ctx context.Context, notification *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return f.failCreate
	}
	f.notifications = append(f.notifications, *notification)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Notification
	for _, notification := range f.notifications {
		if notification.UserID == userID {
			out = append(out, notification)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

type capturingDispatcher struct {
	mu       sync.Mutex
	captured []events.Event
}

func (d *capturingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.captured = append(d.captured, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *capturingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, event := range d.captured {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}
