package server

import (
	"paragraph/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /v1/notifications, newest first, with the
// unread count alongside the page.
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	userID := s.currentUserID(c)

	notifs, err := s.notifRepo.ListByRecipient(c.UserContext(), userID, limit, offset)
	if err != nil {
		return internalError(c, err)
	}
	unread, err := s.notifRepo.CountUnread(c.UserContext(), userID)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"notifications": notifs,
		"unread_count":  unread,
		"limit":         limit,
		"offset":        offset,
	})
}

// MarkNotificationRead handles PUT /v1/notifications/:id/read. Notifications
// belonging to other users read as missing.
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}

	notif, err := s.notifRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return notFound(c, err, models.MsgNotifNotFound)
	}
	if notif.UserID != s.currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError(models.MsgNotifNotFound))
	}

	if err := s.notifRepo.MarkRead(c.UserContext(), id); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"message": models.MsgNotifRead})
}
