package handlers

import (
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/services"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List serves GET /notifications?read=&orderBy=
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	read, err := services.ParseOptionalBool(c.Query("read"))
	if err != nil {
		return writeError(c, err)
	}
	orderBy, err := services.ParseOrdering(c.Query("orderBy"))
	if err != nil {
		return writeError(c, err)
	}

	notifications, err := h.notificationService.Notifications(c.UserContext(), services.NotificationFilter{
		Read:    read,
		OrderBy: orderBy,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NotificationsResponse{Notifications: notifications})
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	notification, err := h.notificationService.MarkAsRead(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MarkAsReadResponse{Notification: notification})
}
