package server

import (
	"paragraph/internal/models"
	"paragraph/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// GetLists handles GET /v1/lists, returning the caller's own lists.
func (s *Server) GetLists(c *fiber.Ctx) error {
	lists, err := s.listRepo.ListByUser(c.UserContext(), s.currentUserID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"lists": lists})
}

// CreateList handles POST /v1/lists. Names are unique per owner.
func (s *Server) CreateList(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		IsPublic bool   `json:"is_public"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, models.MsgInvalidBody)
	}
	if req.Name == "" {
		return badRequest(c, models.MsgListNameRequired)
	}

	list := &models.List{
		UserID:   s.currentUserID(c),
		Name:     req.Name,
		IsPublic: req.IsPublic,
	}
	if err := s.listRepo.Create(c.UserContext(), list); err != nil {
		if repository.IsUniqueViolation(err) {
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewConflictError(models.MsgListExists))
		}
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": models.MsgListCreated,
		"list":    list,
	})
}

// ownedList loads the list and enforces ownership.
func (s *Server) ownedList(c *fiber.Ctx) (*models.List, error) {
	id, err := idParam(c, "id")
	if err != nil {
		return nil, badRequest(c, models.MsgInvalidID)
	}
	list, err := s.listRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return nil, notFound(c, err, models.MsgListNotFound)
	}
	if list.UserID != s.currentUserID(c) {
		return nil, models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError(models.MsgListOwnerOnly))
	}
	return list, nil
}

// UpdateList handles PUT /v1/lists/:id
func (s *Server) UpdateList(c *fiber.Ctx) error {
	list, ferr := s.ownedList(c)
	if list == nil {
		return ferr
	}

	var req struct {
		Name     *string `json:"name"`
		IsPublic *bool   `json:"is_public"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, models.MsgInvalidBody)
	}
	if req.Name != nil {
		if *req.Name == "" {
			return badRequest(c, models.MsgListNameRequired)
		}
		list.Name = *req.Name
	}
	if req.IsPublic != nil {
		list.IsPublic = *req.IsPublic
	}

	if err := s.listRepo.Update(c.UserContext(), list); err != nil {
		if repository.IsUniqueViolation(err) {
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewConflictError(models.MsgListExists))
		}
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": models.MsgListUpdated,
		"list":    list,
	})
}

// DeleteList handles DELETE /v1/lists/:id
func (s *Server) DeleteList(c *fiber.Ctx) error {
	list, ferr := s.ownedList(c)
	if list == nil {
		return ferr
	}

	if err := s.listRepo.Delete(c.UserContext(), list.ID); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"message": models.MsgListDeleted})
}

// AddPostToList handles POST /v1/lists/:id/posts/:postId
func (s *Server) AddPostToList(c *fiber.Ctx) error {
	list, ferr := s.ownedList(c)
	if list == nil {
		return ferr
	}

	postID, err := idParam(c, "postId")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}
	post, err := s.postRepo.GetByID(c.UserContext(), postID)
	if err != nil {
		return notFound(c, err, models.MsgPostNotFound)
	}
	if !s.canViewPost(c, post) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError(models.MsgPostNotFound))
	}

	if err := s.listRepo.AddPost(c.UserContext(), list, post); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"message": models.MsgListPostAdded})
}

// RemovePostFromList handles DELETE /v1/lists/:id/posts/:postId
func (s *Server) RemovePostFromList(c *fiber.Ctx) error {
	list, ferr := s.ownedList(c)
	if list == nil {
		return ferr
	}

	postID, err := idParam(c, "postId")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}
	post, err := s.postRepo.GetByID(c.UserContext(), postID)
	if err != nil {
		return notFound(c, err, models.MsgPostNotFound)
	}

	if err := s.listRepo.RemovePost(c.UserContext(), list, post); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"message": models.MsgListPostRemoved})
}
