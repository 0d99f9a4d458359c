package server

import (
	"errors"
	"time"

	"paragraph/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// currentUserID returns the authenticated user's ID, zero when anonymous.
func (s *Server) currentUserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}

// currentUser returns the user loaded by AuthRequired/OptionalAuth, nil when
// anonymous.
func (s *Server) currentUser(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals("user").(*models.User); ok {
		return user
	}
	return nil
}

func (s *Server) isAdmin(c *fiber.Ctx) bool {
	user := s.currentUser(c)
	return user != nil && user.IsAdmin()
}

// idParam parses the named path parameter as an unsigned ID.
func idParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// pageParams parses limit/offset query parameters with sane bounds.
func pageParams(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// notFound maps a repository error to 404 when the record is missing and 500
// otherwise, with the given Persian message.
func notFound(c *fiber.Ctx, err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError(message))
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}

func internalError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}

func badRequest(c *fiber.Ctx, message string) error {
	return models.RespondWithError(c, fiber.StatusBadRequest,
		models.NewValidationError(message))
}

// weekdaySlot maps a timestamp to the Persian week bucket, Saturday 0 through
// Friday 6.
func weekdaySlot(t time.Time) int {
	return (int(t.Weekday()) + 1) % 7
}

// canViewPost is the publish gate: drafts are visible only to their author
// and admins.
func (s *Server) canViewPost(c *fiber.Ctx, post *models.Post) bool {
	if post.IsPublished {
		return true
	}
	return s.isAdmin(c) || (s.currentUserID(c) != 0 && s.currentUserID(c) == post.UserID)
}
