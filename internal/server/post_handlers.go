package server

import (
	"time"

	"paragraph/internal/markdown"
	"paragraph/internal/models"
	"paragraph/internal/notifications"
	"paragraph/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /v1/posts. Non-admin callers only see published
// posts with their approved comments; admins see everything.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	admin := s.isAdmin(c)

	opts := repository.PostListOptions{
		Limit:              limit,
		Offset:             offset,
		Search:             c.Query("search"),
		IncludeUnpublished: admin,
		AllComments:        admin,
	}
	if authorID := c.QueryInt("author_id", 0); authorID > 0 {
		opts.AuthorID = uint(authorID)
		// Authors browsing their own page see drafts too.
		if uint(authorID) == s.currentUserID(c) {
			opts.IncludeUnpublished = true
		}
	}

	posts, err := s.postRepo.List(c.UserContext(), opts)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"limit":  limit,
		"offset": offset,
	})
}

// CreatePost handles POST /v1/posts. Posts are always created as drafts;
// publishing is a separate admin action.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title         string `json:"title"`
		Content       string `json:"content"`
		Summary       string `json:"summary"`
		Tags          string `json:"tags"`
		CoverImageURL string `json:"cover_image_url"`
		PodcastURL    string `json:"podcast_url"`
		TopicIDs      []uint `json:"topic_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, models.MsgInvalidBody)
	}
	if req.Title == "" || req.Content == "" {
		return badRequest(c, models.MsgPostTitleRequired)
	}

	post := &models.Post{
		Title:         req.Title,
		Content:       req.Content,
		Summary:       req.Summary,
		Tags:          req.Tags,
		CoverImageURL: req.CoverImageURL,
		PodcastURL:    req.PodcastURL,
		UserID:        s.currentUserID(c),
		ReadMinutes:   markdown.ReadMinutes(req.Content),
		Rating:        5,
	}
	if err := s.postRepo.Create(c.UserContext(), post, req.TopicIDs); err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": models.MsgPostCreated,
		"post":    post,
	})
}

// GetPost handles GET /v1/posts/:id. Each visible fetch bumps the weekday
// view bucket and returns the rendered HTML body.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}

	post, err := s.postRepo.GetDetailed(c.UserContext(), id, s.isAdmin(c))
	if err != nil {
		return notFound(c, err, models.MsgPostNotFound)
	}
	if !s.canViewPost(c, post) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError(models.MsgPostNotFound))
	}

	slot := weekdaySlot(time.Now())
	if err := s.postRepo.IncrementView(c.UserContext(), post.ID, slot); err != nil {
		return internalError(c, err)
	}
	post.Views[slot]++
	post.TotalViews++

	post.RenderedContent = markdown.Render(post.Content)
	return c.JSON(post)
}

// UpdatePost handles PUT /v1/posts/:id. Only the author may edit the body;
// admins moderate through publish and delete, never by rewriting.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}

	post, err := s.postRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return notFound(c, err, models.MsgPostNotFound)
	}
	if post.UserID != s.currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError(models.MsgPostOwnerOnly))
	}

	var req struct {
		Title         *string `json:"title"`
		Content       *string `json:"content"`
		Summary       *string `json:"summary"`
		Tags          *string `json:"tags"`
		CoverImageURL *string `json:"cover_image_url"`
		PodcastURL    *string `json:"podcast_url"`
		TopicIDs      []uint  `json:"topic_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, models.MsgInvalidBody)
	}

	if req.Title != nil {
		if *req.Title == "" {
			return badRequest(c, models.MsgPostTitleRequired)
		}
		post.Title = *req.Title
	}
	if req.Content != nil {
		if *req.Content == "" {
			return badRequest(c, models.MsgPostTitleRequired)
		}
		post.Content = *req.Content
		post.ReadMinutes = markdown.ReadMinutes(*req.Content)
	}
	if req.Summary != nil {
		post.Summary = *req.Summary
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
	}
	if req.CoverImageURL != nil {
		post.CoverImageURL = *req.CoverImageURL
	}
	if req.PodcastURL != nil {
		post.PodcastURL = *req.PodcastURL
	}

	if err := s.postRepo.Update(c.UserContext(), post, req.TopicIDs); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": models.MsgPostUpdated,
		"post":    post,
	})
}

// DeletePost handles DELETE /v1/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}

	post, err := s.postRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return notFound(c, err, models.MsgPostNotFound)
	}
	if post.UserID != s.currentUserID(c) && !s.isAdmin(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError(models.MsgPostOwnerOnly))
	}

	if err := s.postRepo.Delete(c.UserContext(), id); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"message": models.MsgPostDeleted})
}

// PublishPost handles PUT /v1/posts/:id/publish (admin). The flag flips at
// most once; repeat calls get a 400 and no notification fan-out.
func (s *Server) PublishPost(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}

	if _, err := s.postRepo.GetByID(c.UserContext(), id); err != nil {
		return notFound(c, err, models.MsgPostNotFound)
	}

	changed, err := s.postRepo.SetPublished(c.UserContext(), id)
	if err != nil {
		return internalError(c, err)
	}
	if !changed {
		return badRequest(c, models.MsgPostAlreadyPublished)
	}

	s.dispatcher.Publish(notifications.Event{
		Type:    notifications.EventPostPublished,
		ActorID: s.currentUserID(c),
		PostID:  id,
	})

	return c.JSON(fiber.Map{"message": models.MsgPostPublished})
}
