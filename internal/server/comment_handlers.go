package server

import (
	"paragraph/internal/models"
	"paragraph/internal/notifications"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /v1/posts/:id/comments. Non-admins get approved
// comments only.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := idParam(c, "id")
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

	comments, err := s.commentRepo.ListByPost(c.UserContext(), postID, !s.isAdmin(c))
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"comments": comments})
}

// CreateComment handles POST /v1/comments. Comments start pending; a non-zero
// rating is folded into the post's running average immediately and is never
// reverted, even if the comment is later rejected.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		PostID   uint    `json:"post_id"`
		Content  string  `json:"content"`
		Rating   float64 `json:"rating"`
		ParentID *uint   `json:"parent_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, models.MsgInvalidBody)
	}
	if req.Content == "" {
		return badRequest(c, models.MsgCommentContent)
	}
	if req.Rating < 0 || req.Rating > 5 {
		return badRequest(c, models.MsgCommentRating)
	}

	post, err := s.postRepo.GetByID(c.UserContext(), req.PostID)
	if err != nil {
		return notFound(c, err, models.MsgPostNotFound)
	}
	if !s.canViewPost(c, post) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError(models.MsgPostNotFound))
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(c.UserContext(), *req.ParentID)
		if err != nil {
			return notFound(c, err, models.MsgCommentNotFound)
		}
		if parent.PostID != req.PostID || parent.ParentID != nil {
			// Replies attach to top-level comments of the same post only.
			return badRequest(c, models.MsgCommentNotFound)
		}
	}

	comment := &models.Comment{
		Content:  req.Content,
		Rating:   req.Rating,
		UserID:   s.currentUserID(c),
		PostID:   req.PostID,
		ParentID: req.ParentID,
		Status:   models.CommentPending,
	}
	if err := s.commentRepo.Create(c.UserContext(), comment); err != nil {
		return internalError(c, err)
	}

	// Zero means the commenter skipped the rating widget.
	if req.Rating > 0 {
		if err := s.postRepo.ApplyRating(c.UserContext(), req.PostID, req.Rating); err != nil {
			return internalError(c, err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": models.MsgCommentCreated,
		"comment": comment,
	})
}

// UpdateComment handles PUT /v1/comments/:id. Only the comment's author may
// edit, and editing resets the comment to pending.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}

	comment, err := s.commentRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return notFound(c, err, models.MsgCommentNotFound)
	}
	if comment.UserID != s.currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError(models.MsgCommentOwnerOnly))
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, models.MsgInvalidBody)
	}
	if req.Content == "" {
		return badRequest(c, models.MsgCommentContent)
	}

	comment.Content = req.Content
	comment.Status = models.CommentPending
	if err := s.commentRepo.Update(c.UserContext(), comment); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": models.MsgCommentUpdated,
		"comment": comment,
	})
}

// DeleteComment handles DELETE /v1/comments/:id (author or admin).
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}

	comment, err := s.commentRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return notFound(c, err, models.MsgCommentNotFound)
	}
	if comment.UserID != s.currentUserID(c) && !s.isAdmin(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError(models.MsgCommentOwnerOnly))
	}

	if err := s.commentRepo.Delete(c.UserContext(), id); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"message": models.MsgCommentDeleted})
}

// ApproveComment handles PATCH /v1/comments/:id/approve (admin). Approving an
// already-approved comment is a 400 and fans out nothing.
func (s *Server) ApproveComment(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}

	comment, err := s.commentRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return notFound(c, err, models.MsgCommentNotFound)
	}

	changed, err := s.commentRepo.Approve(c.UserContext(), id)
	if err != nil {
		return internalError(c, err)
	}
	if !changed {
		return badRequest(c, models.MsgCommentAlreadyDone)
	}

	s.dispatcher.Publish(notifications.Event{
		Type:      notifications.EventCommentApproved,
		ActorID:   s.currentUserID(c),
		PostID:    comment.PostID,
		CommentID: id,
	})

	return c.JSON(fiber.Map{"message": models.MsgCommentApproved})
}

// RejectComment handles PATCH /v1/comments/:id/reject (admin). The rating
// contribution made at creation time stays in place.
func (s *Server) RejectComment(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}

	if _, err := s.commentRepo.GetByID(c.UserContext(), id); err != nil {
		return notFound(c, err, models.MsgCommentNotFound)
	}

	changed, err := s.commentRepo.Reject(c.UserContext(), id)
	if err != nil {
		return internalError(c, err)
	}
	if !changed {
		return badRequest(c, models.MsgCommentAlreadyGone)
	}

	return c.JSON(fiber.Map{"message": models.MsgCommentRejected})
}
