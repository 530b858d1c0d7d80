package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samraify/multicore-crm-new/internal/api/dto"
	"github.com/samraify/multicore-crm-new/internal/auth"
	"github.com/samraify/multicore-crm-new/internal/service"
	apperrors "github.com/samraify/multicore-crm-new/pkg/util"
)

// NotificationsHandler exposes the caller's notification feed.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// List GET /api/notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	notifications, err := h.service.ListForUser(c.Context(), principal.UserID, parseInt(c.Query("limit"), 50))
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		items = append(items, dto.NotificationResponse{
			ID:        notification.ID,
			Title:     notification.Title,
			Message:   notification.Message,
			CreatedAt: notification.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
