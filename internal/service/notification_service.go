package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samraify/multicore-crm-new/internal/config"
	"github.com/samraify/multicore-crm-new/internal/domain"
	"github.com/samraify/multicore-crm-new/internal/events"
	"github.com/samraify/multicore-crm-new/internal/repository"
)

// NotificationService delivers alerts for domain events. Delivery is
// fire-and-forget: every failure is logged and discarded, never propagated to
// the operation that triggered it.
type NotificationService struct {
	notifications repository.NotificationRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	cfg           config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(notifications repository.NotificationRepository, dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		dispatcher:    dispatcher,
		logger:        logger,
		cfg:           cfg,
	}
}

// RegisterHandlers subscribes to ticket events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventTicketEscalated, n.handleTicketEscalated)
}

// NotifyUser queues a notification for the user. Errors are logged and
// swallowed; the caller's state change has already been persisted and must
// not be rolled back or retried over a delivery failure.
func (n *NotificationService) NotifyUser(ctx context.Context, userID, title, message string) {
	if userID == "" {
		return
	}
	notification := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		n.logger.Warn("notification delivery failed",
			zap.String("user_id", userID),
			zap.String("title", title),
			zap.Error(err))
		return
	}
	n.logger.Debug("notification queued",
		zap.String("user_id", userID),
		zap.String("title", title))
	n.sendEmailStub(userID, title)
	n.sendWebhookStub(userID, title)
}

// ListForUser returns the user's most recent notifications.
func (n *NotificationService) ListForUser(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return n.notifications.ListByUser(ctx, userID, limit)
}

func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return nil
	}
	n.NotifyUser(ctx, payload.AssigneeID,
		"Ticket assigned",
		"Ticket "+event.TicketID+" has been assigned to you.")
	return nil
}

func (n *NotificationService) handleTicketEscalated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketEscalatedPayload)
	if !ok {
		return nil
	}
	n.NotifyUser(ctx, payload.NotifyUserID,
		"Ticket escalated",
		"Ticket "+event.TicketID+" was escalated to URGENT.")
	return nil
}

func (n *NotificationService) sendEmailStub(userID, title string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("user_id", userID),
		zap.String("title", title))
}

func (n *NotificationService) sendWebhookStub(userID, title string) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("user_id", userID),
		zap.String("title", title))
}
