package server

import (
	"paragraph/internal/models"
	"paragraph/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// GetTopics handles GET /v1/topics. Returns the full topic forest with
// per-topic post counts from one grouped query.
func (s *Server) GetTopics(c *fiber.Ctx) error {
	topics, err := s.topicRepo.ListAll(c.UserContext())
	if err != nil {
		return internalError(c, err)
	}
	counts, err := s.postRepo.TopicPostCounts(c.UserContext())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"topics": repository.BuildTopicTree(topics, counts),
	})
}

// CreateTopic handles POST /v1/topics (admin).
func (s *Server) CreateTopic(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		ParentID    *uint  `json:"parent_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, models.MsgInvalidBody)
	}
	if req.Name == "" {
		return badRequest(c, models.MsgTopicNameRequired)
	}

	if err := s.validateTopicParent(c, req.ParentID, 0); err != nil {
		return err
	}

	existing, err := s.topicRepo.GetByName(c.UserContext(), req.Name)
	if err != nil {
		return internalError(c, err)
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError(models.MsgTopicExists))
	}

	topic := &models.Topic{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		IsMainTopic: req.ParentID == nil,
	}
	if err := s.topicRepo.Create(c.UserContext(), topic); err != nil {
		// GetByName skips soft-deleted topics but the unique index on name
		// does not.
		if repository.IsUniqueViolation(err) {
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewConflictError(models.MsgTopicExists))
		}
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": models.MsgTopicCreated,
		"topic":   topic,
	})
}

// UpdateTopic handles PUT /v1/topics/:id (admin).
func (s *Server) UpdateTopic(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}

	topic, err := s.topicRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return notFound(c, err, models.MsgTopicNotFound)
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		ParentID    *uint   `json:"parent_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, models.MsgInvalidBody)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return badRequest(c, models.MsgTopicNameRequired)
		}
		existing, err := s.topicRepo.GetByName(c.UserContext(), *req.Name)
		if err != nil {
			return internalError(c, err)
		}
		if existing != nil && existing.ID != id {
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewConflictError(models.MsgTopicExists))
		}
		topic.Name = *req.Name
	}
	if req.Description != nil {
		topic.Description = *req.Description
	}
	if req.ParentID != nil {
		if err := s.validateTopicParent(c, req.ParentID, id); err != nil {
			return err
		}
		topic.ParentID = req.ParentID
		topic.IsMainTopic = false
	}

	if err := s.topicRepo.Update(c.UserContext(), topic); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": models.MsgTopicUpdated,
		"topic":   topic,
	})
}

// validateTopicParent enforces the one-level nesting rule at write time: the
// parent must exist, be top-level, and differ from the topic itself.
func (s *Server) validateTopicParent(c *fiber.Ctx, parentID *uint, selfID uint) error {
	if parentID == nil {
		return nil
	}
	if selfID != 0 && *parentID == selfID {
		return badRequest(c, models.MsgTopicNestedParent)
	}
	parent, err := s.topicRepo.GetByID(c.UserContext(), *parentID)
	if err != nil {
		return notFound(c, err, models.MsgTopicNotFound)
	}
	if parent.ParentID != nil {
		return badRequest(c, models.MsgTopicNestedParent)
	}
	return nil
}

// DeleteTopic handles DELETE /v1/topics/:id (admin).
func (s *Server) DeleteTopic(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}

	if _, err := s.topicRepo.GetByID(c.UserContext(), id); err != nil {
		return notFound(c, err, models.MsgTopicNotFound)
	}
	if err := s.topicRepo.Delete(c.UserContext(), id); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"message": models.MsgTopicDeleted})
}

// FollowTopic handles POST /v1/topics/:id/follow
func (s *Server) FollowTopic(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}

	if _, err := s.topicRepo.GetByID(c.UserContext(), id); err != nil {
		return notFound(c, err, models.MsgTopicNotFound)
	}
	if err := s.topicRepo.Follow(c.UserContext(), s.currentUserID(c), id); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"message": models.MsgTopicFollowed})
}

// UnfollowTopic handles POST /v1/topics/:id/unfollow
func (s *Server) UnfollowTopic(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}

	if err := s.topicRepo.Unfollow(c.UserContext(), s.currentUserID(c), id); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"message": models.MsgTopicUnfollowed})
}
