package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/samraify/multicore-crm-new/internal/domain"
	"github.com/samraify/multicore-crm-new/internal/events"
	"github.com/samraify/multicore-crm-new/internal/repository"
	apperrors "github.com/samraify/multicore-crm-new/pkg/util"
)

// assigneeNone is the sentinel recorded as the old value when a ticket had no
// assignee before an assignment.
const assigneeNone = "none"

// TicketService coordinates the ticket lifecycle. Every operation starts with
// a tenant isolation check against the requester's business, regardless of
// role, and appends exactly one history record.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.TicketCommentRepository
	history    repository.TicketHistoryRepository
	users      repository.UserRepository
	businesses repository.BusinessRepository
	sla        *SLAService
	dispatcher events.Dispatcher
	analytics  *AnalyticsCache
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CommentRepo  repository.TicketCommentRepository
	HistoryRepo  repository.TicketHistoryRepository
	UserRepo     repository.UserRepository
	BusinessRepo repository.BusinessRepository
	SLA          *SLAService
	Dispatcher   events.Dispatcher
	Analytics    *AnalyticsCache
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	BusinessID   string
	Title        string
	Description  string
	Priority     domain.TicketPriority
	AssignedToID *string
}

// TicketListInput describes listing filters for one business.
type TicketListInput struct {
	Status       *domain.TicketStatus
	Priority     *domain.TicketPriority
	AssignedToID *string
	Page         int
	Size         int
}

// TicketAnalytics aggregates per-business counters by status and priority.
type TicketAnalytics struct {
	Total      int64 `json:"total"`
	Open       int64 `json:"open"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Closed     int64 `json:"closed"`
	Low        int64 `json:"low"`
	Medium     int64 `json:"medium"`
	High       int64 `json:"high"`
	Urgent     int64 `json:"urgent"`
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		history:    deps.HistoryRepo,
		users:      deps.UserRepo,
		businesses: deps.BusinessRepo,
		sla:        deps.SLA,
		dispatcher: deps.Dispatcher,
		analytics:  deps.Analytics,
	}
}

// CreateTicket opens a ticket for the requester's business. The SLA deadline
// is stamped from the priority's allowed hours at creation time.
func (s *TicketService) CreateTicket(ctx context.Context, requesterBusinessID *string, actorUserID string, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}
	if input.Priority == "" {
		input.Priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(input.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}
	if err := enforceSameBusiness(input.BusinessID, requesterBusinessID); err != nil {
		return nil, err
	}

	if _, err := s.businesses.GetByID(ctx, input.BusinessID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("business", map[string]any{"business_id": input.BusinessID})
		}
		return nil, apperrors.MapError(err)
	}
	if input.AssignedToID != nil {
		if _, err := s.users.GetByID(ctx, *input.AssignedToID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("assignee", map[string]any{"user_id": *input.AssignedToID})
			}
			return nil, apperrors.MapError(err)
		}
	}

	now := time.Now()
	ticket := &domain.Ticket{
		ID:           uuid.NewString(),
		BusinessID:   input.BusinessID,
		CreatedByID:  actorUserID,
		AssignedToID: input.AssignedToID,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Status:       domain.TicketStatusOpen,
		Priority:     input.Priority,
		SLADueAt:     s.sla.DueAt(ctx, now, input.Priority),
		IsEscalated:  false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordHistory(ctx, ticket.ID, &actorUserID, domain.ActionCreate, nil, strPtr("Ticket created")); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.analytics.Invalidate(ctx, ticket.BusinessID)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: &actorUserID},
		Payload: events.TicketCreatedPayload{
			BusinessID: ticket.BusinessID,
			Priority:   ticket.Priority,
			Title:      ticket.Title,
			SLADueAt:   ticket.SLADueAt,
		},
	})
	return ticket, nil
}

// GetTicket fetches a ticket, enforcing tenant isolation.
func (s *TicketService) GetTicket(ctx context.Context, requesterBusinessID *string, ticketID string) (*domain.Ticket, error) {
	return s.getTicketForBusiness(ctx, ticketID, requesterBusinessID)
}

// ListTickets returns a filtered page of the business's tickets.
func (s *TicketService) ListTickets(ctx context.Context, requesterBusinessID *string, businessID string, input TicketListInput) ([]domain.Ticket, error) {
	if err := enforceSameBusiness(businessID, requesterBusinessID); err != nil {
		return nil, err
	}
	size := input.Size
	if size <= 0 {
		size = 20
	}
	page := input.Page
	if page < 0 {
		page = 0
	}
	return s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		BusinessID:   businessID,
		Status:       input.Status,
		Priority:     input.Priority,
		AssignedToID: input.AssignedToID,
		Limit:        size,
		Offset:       page * size,
	})
}

// UpdateStatus changes the ticket status. Transitions are unconstrained: any
// status may follow any other. The SLA deadline is not recomputed.
func (s *TicketService) UpdateStatus(ctx context.Context, requesterBusinessID *string, actorUserID, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}
	ticket, err := s.getTicketForBusiness(ctx, ticketID, requesterBusinessID)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	ticket.UpdatedAt = time.Now()
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordHistory(ctx, ticket.ID, &actorUserID, domain.ActionStatusChange, strPtr(string(oldStatus)), strPtr(string(newStatus))); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.analytics.Invalidate(ctx, ticket.BusinessID)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: &actorUserID},
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return ticket, nil
}

// AssignTicket sets the assignee, recording the previous one ("none" when the
// ticket was unassigned).
func (s *TicketService) AssignTicket(ctx context.Context, requesterBusinessID *string, actorUserID, ticketID, assigneeID string) (*domain.Ticket, error) {
	ticket, err := s.getTicketForBusiness(ctx, ticketID, requesterBusinessID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, assigneeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("assignee", map[string]any{"user_id": assigneeID})
		}
		return nil, apperrors.MapError(err)
	}

	oldAssignee := assigneeNone
	if ticket.AssignedToID != nil {
		oldAssignee = *ticket.AssignedToID
	}
	ticket.AssignedToID = &assigneeID
	ticket.UpdatedAt = time.Now()
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordHistory(ctx, ticket.ID, &actorUserID, domain.ActionAssign, strPtr(oldAssignee), strPtr(assigneeID)); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.analytics.Invalidate(ctx, ticket.BusinessID)
	oldPtr := &oldAssignee
	if oldAssignee == assigneeNone {
		oldPtr = nil
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: &actorUserID},
		Payload: events.TicketAssignedPayload{
			OldAssigneeID: oldPtr,
			AssigneeID:    assigneeID,
		},
	})
	return ticket, nil
}

// AddComment appends a comment. The history entry stores only a marker, not
// the comment body.
func (s *TicketService) AddComment(ctx context.Context, requesterBusinessID *string, actorUserID, ticketID, text string) (*domain.TicketComment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("comment required", nil)
	}
	ticket, err := s.getTicketForBusiness(ctx, ticketID, requesterBusinessID)
	if err != nil {
		return nil, err
	}

	comment := &domain.TicketComment{
		ID:        uuid.NewString(),
		TicketID:  ticket.ID,
		AuthorID:  actorUserID,
		Comment:   strings.TrimSpace(text),
		CreatedAt: time.Now(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordHistory(ctx, ticket.ID, &actorUserID, domain.ActionComment, nil, strPtr("comment added")); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCommentAdded,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: &actorUserID},
		Payload: events.TicketCommentAddedPayload{
			CommentID: comment.ID,
			AuthorID:  actorUserID,
		},
	})
	return comment, nil
}

// Escalate forces the ticket to URGENT and re-stamps the SLA deadline from the
// current time. Deliberately not idempotent: every call moves the deadline.
func (s *TicketService) Escalate(ctx context.Context, requesterBusinessID *string, actorUserID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicketForBusiness(ctx, ticketID, requesterBusinessID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	oldPriority := ticket.Priority
	ticket.IsEscalated = true
	ticket.Priority = domain.TicketPriorityUrgent
	ticket.SLADueAt = s.sla.DueAt(ctx, now, domain.TicketPriorityUrgent)
	ticket.UpdatedAt = now
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.recordHistory(ctx, ticket.ID, &actorUserID, domain.ActionEscalate, nil, strPtr(string(domain.TicketPriorityUrgent))); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.analytics.Invalidate(ctx, ticket.BusinessID)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketEscalated,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: &actorUserID},
		Payload: events.TicketEscalatedPayload{
			OldPriority:  oldPriority,
			SLADueAt:     ticket.SLADueAt,
			NotifyUserID: notifyTarget(ticket),
			Auto:         false,
		},
	})
	return ticket, nil
}

// ListHistory returns the ticket's audit trail, enforcing tenant isolation.
func (s *TicketService) ListHistory(ctx context.Context, requesterBusinessID *string, ticketID string) ([]domain.TicketHistory, error) {
	ticket, err := s.getTicketForBusiness(ctx, ticketID, requesterBusinessID)
	if err != nil {
		return nil, err
	}
	return s.history.ListByTicket(ctx, ticket.ID)
}

// ListComments returns the ticket's comment thread, enforcing tenant isolation.
func (s *TicketService) ListComments(ctx context.Context, requesterBusinessID *string, ticketID string) ([]domain.TicketComment, error) {
	ticket, err := s.getTicketForBusiness(ctx, ticketID, requesterBusinessID)
	if err != nil {
		return nil, err
	}
	return s.comments.ListByTicket(ctx, ticket.ID)
}

// Analytics aggregates status and priority counters for a business, serving
// from the cache when a fresh entry exists.
func (s *TicketService) Analytics(ctx context.Context, requesterBusinessID *string, businessID string) (*TicketAnalytics, error) {
	if err := enforceSameBusiness(businessID, requesterBusinessID); err != nil {
		return nil, err
	}
	if cached, ok := s.analytics.Get(ctx, businessID); ok {
		return cached, nil
	}

	result := &TicketAnalytics{}
	var err error
	if result.Total, err = s.tickets.CountByBusiness(ctx, businessID); err != nil {
		return nil, apperrors.MapError(err)
	}
	statusCounts := []struct {
		status domain.TicketStatus
		dest   *int64
	}{
		{domain.TicketStatusOpen, &result.Open},
		{domain.TicketStatusInProgress, &result.InProgress},
		{domain.TicketStatusResolved, &result.Resolved},
		{domain.TicketStatusClosed, &result.Closed},
	}
	for _, sc := range statusCounts {
		if *sc.dest, err = s.tickets.CountByBusinessAndStatus(ctx, businessID, sc.status); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	priorityCounts := []struct {
		priority domain.TicketPriority
		dest     *int64
	}{
		{domain.TicketPriorityLow, &result.Low},
		{domain.TicketPriorityMedium, &result.Medium},
		{domain.TicketPriorityHigh, &result.High},
		{domain.TicketPriorityUrgent, &result.Urgent},
	}
	for _, pc := range priorityCounts {
		if *pc.dest, err = s.tickets.CountByBusinessAndPriority(ctx, businessID, pc.priority); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	s.analytics.Put(ctx, businessID, result)
	return result, nil
}

// enforceSameBusiness is the tenant isolation check applied to every ticket
// operation, unconditionally: roles never bypass it.
func enforceSameBusiness(targetBusinessID string, requesterBusinessID *string) error {
	if targetBusinessID == "" || requesterBusinessID == nil || targetBusinessID != *requesterBusinessID {
		return apperrors.NewCrossTenantAccess(nil)
	}
	return nil
}

func (s *TicketService) getTicketForBusiness(ctx context.Context, ticketID string, requesterBusinessID *string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if err := enforceSameBusiness(ticket.BusinessID, requesterBusinessID); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) recordHistory(ctx context.Context, ticketID string, actorID *string, action domain.TicketAction, oldValue, newValue *string) error {
	entry := &domain.TicketHistory{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		ActorID:   actorID,
		Action:    action,
		OldValue:  oldValue,
		NewValue:  newValue,
		CreatedAt: time.Now(),
	}
	return s.history.Create(ctx, entry)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func notifyTarget(ticket *domain.Ticket) string {
	if ticket.AssignedToID != nil {
		return *ticket.AssignedToID
	}
	return ticket.CreatedByID
}

func strPtr(v string) *string {
	return &v
}
