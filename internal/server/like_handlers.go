package server

import (
	"paragraph/internal/models"
	"paragraph/internal/notifications"

	"github.com/gofiber/fiber/v2"
)

// ToggleLike handles POST /v1/likes. Creates the like when absent, removes it
// when present. Only toggle-on notifies the post's author.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	var req struct {
		PostID uint `json:"post_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, models.MsgInvalidBody)
	}

	post, err := s.postRepo.GetByID(c.UserContext(), req.PostID)
	if err != nil {
		return notFound(c, err, models.MsgPostNotFound)
	}
	if !s.canViewPost(c, post) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError(models.MsgPostNotFound))
	}

	userID := s.currentUserID(c)
	liked, err := s.postRepo.ToggleLike(c.UserContext(), userID, req.PostID)
	if err != nil {
		return internalError(c, err)
	}

	count, err := s.postRepo.LikeCount(c.UserContext(), req.PostID)
	if err != nil {
		return internalError(c, err)
	}

	message := models.MsgUnliked
	if liked {
		message = models.MsgLiked
		s.dispatcher.Publish(notifications.Event{
			Type:    notifications.EventPostLiked,
			ActorID: userID,
			PostID:  req.PostID,
		})
	}

	return c.JSON(fiber.Map{
		"message":     message,
		"liked":       liked,
		"likes_count": count,
	})
}
