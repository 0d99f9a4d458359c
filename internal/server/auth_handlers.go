package server

import (
	"paragraph/internal/models"
	"paragraph/internal/notifications"
	"paragraph/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Register handles POST /v1/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, models.MsgInvalidBody)
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return badRequest(c, models.MsgRegisterFields)
	}

	exists, err := s.userRepo.ExistsByIdentity(c.UserContext(), req.Username, req.Email, req.Phone)
	if err != nil {
		return internalError(c, err)
	}
	if exists {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError(models.MsgUserExists))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c, err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hashedPassword),
		DisplayName:  req.DisplayName,
		Role:         models.RoleUser,
	}
	if err := s.userRepo.Create(c.UserContext(), user); err != nil {
		// The pre-check skips soft-deleted accounts but the unique indexes
		// do not, so a reused identity can still trip the constraint here.
		if repository.IsUniqueViolation(err) {
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewConflictError(models.MsgUserExists))
		}
		return internalError(c, err)
	}

	token, err := s.issueToken(user, uuid.NewString())
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": models.MsgUserCreated,
		"token":   token,
		"user":    user,
	})
}

// Login handles POST /v1/auth/login. The identity field accepts either the
// username or the email address.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Identity string `json:"identity"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, models.MsgInvalidBody)
	}

	user, err := s.userRepo.GetByEmail(c.UserContext(), req.Identity)
	if err != nil {
		return internalError(c, err)
	}
	if user == nil {
		user, err = s.userRepo.GetByUsername(c.UserContext(), req.Identity)
		if err != nil {
			return internalError(c, err)
		}
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError(models.MsgInvalidCredentials))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError(models.MsgInvalidCredentials))
	}

	if user.IsBanned {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError(models.MsgUserBanned))
	}

	token, err := s.issueToken(user, uuid.NewString())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Me handles GET /v1/auth/me
func (s *Server) Me(c *fiber.Ctx) error {
	user := s.currentUser(c)
	followers, following, err := s.userRepo.FollowCounts(c.UserContext(), user.ID)
	if err != nil {
		return internalError(c, err)
	}
	user.FollowersCount = followers
	user.FollowingCount = following
	return c.JSON(user)
}

// GetUser handles GET /v1/auth/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}

	user, err := s.userRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return notFound(c, err, models.MsgUserNotFound)
	}

	followers, following, err := s.userRepo.FollowCounts(c.UserContext(), user.ID)
	if err != nil {
		return internalError(c, err)
	}
	user.FollowersCount = followers
	user.FollowingCount = following
	return c.JSON(user)
}

// UpdateUser handles PUT /v1/auth/:id. Users edit their own profile; admins
// may edit anyone's.
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}
	if id != s.currentUserID(c) && !s.isAdmin(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError(models.MsgAdminOnly))
	}

	user, err := s.userRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return notFound(c, err, models.MsgUserNotFound)
	}

	var req struct {
		DisplayName *string `json:"display_name"`
		Bio         *string `json:"bio"`
		AvatarURL   *string `json:"avatar_url"`
		Website     *string `json:"website"`
		Twitter     *string `json:"twitter"`
		Instagram   *string `json:"instagram"`
		Phone       *string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, models.MsgInvalidBody)
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.Website != nil {
		user.Website = *req.Website
	}
	if req.Twitter != nil {
		user.Twitter = *req.Twitter
	}
	if req.Instagram != nil {
		user.Instagram = *req.Instagram
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	if err := s.userRepo.Update(c.UserContext(), user); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": models.MsgUserUpdated,
		"user":    user,
	})
}

// DeleteUser handles DELETE /v1/auth/:id. Posts, comments and likes authored
// by the removed user stay in place.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}
	if id != s.currentUserID(c) && !s.isAdmin(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError(models.MsgAdminOnly))
	}

	if _, err := s.userRepo.GetByID(c.UserContext(), id); err != nil {
		return notFound(c, err, models.MsgUserNotFound)
	}
	if err := s.userRepo.Delete(c.UserContext(), id); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"message": models.MsgUserDeleted})
}

// FollowUser handles POST /v1/auth/:userId/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	followeeID, err := idParam(c, "userId")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}
	followerID := s.currentUserID(c)
	if followeeID == followerID {
		return badRequest(c, models.MsgFollowSelf)
	}

	if _, err := s.userRepo.GetByID(c.UserContext(), followeeID); err != nil {
		return notFound(c, err, models.MsgUserNotFound)
	}

	already, err := s.userRepo.IsFollowing(c.UserContext(), followerID, followeeID)
	if err != nil {
		return internalError(c, err)
	}

	if err := s.userRepo.Follow(c.UserContext(), followerID, followeeID); err != nil {
		return internalError(c, err)
	}

	// Repeat follows are no-ops and never fan out a second notification.
	if !already {
		s.dispatcher.Publish(notifications.Event{
			Type:        notifications.EventUserFollowed,
			ActorID:     followerID,
			RecipientID: followeeID,
		})
	}

	return c.JSON(fiber.Map{"message": models.MsgFollowed})
}

// UnfollowUser handles POST /v1/auth/:userId/unfollow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	followeeID, err := idParam(c, "userId")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}

	if err := s.userRepo.Unfollow(c.UserContext(), s.currentUserID(c), followeeID); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"message": models.MsgUnfollowed})
}

// BanUser handles PUT /v1/auth/:id/ban (admin)
func (s *Server) BanUser(c *fiber.Ctx) error {
	return s.setBanned(c, true, models.MsgUserBannedDone)
}

// UnbanUser handles PUT /v1/auth/:id/unban (admin)
func (s *Server) UnbanUser(c *fiber.Ctx) error {
	return s.setBanned(c, false, models.MsgUserUnbannedDone)
}

func (s *Server) setBanned(c *fiber.Ctx, banned bool, message string) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}

	user, err := s.userRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return notFound(c, err, models.MsgUserNotFound)
	}

	user.IsBanned = banned
	if err := s.userRepo.Update(c.UserContext(), user); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": message,
		"user":    user,
	})
}

// ChangeRole handles PUT /v1/auth/:id/change-role (admin)
func (s *Server) ChangeRole(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, models.MsgInvalidID)
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, models.MsgInvalidBody)
	}
	if req.Role != models.RoleUser && req.Role != models.RoleAdmin {
		return badRequest(c, models.MsgRoleInvalid)
	}

	user, err := s.userRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return notFound(c, err, models.MsgUserNotFound)
	}

	user.Role = req.Role
	if err := s.userRepo.Update(c.UserContext(), user); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": models.MsgRoleChanged,
		"user":    user,
	})
}
