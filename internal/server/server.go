// Package server contains the HTTP handlers and routing for the API.
package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"paragraph/internal/cache"
	"paragraph/internal/config"
	"paragraph/internal/database"
	"paragraph/internal/middleware"
	"paragraph/internal/models"
	"paragraph/internal/notifications"
	"paragraph/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "paragraph-api"
	tokenAudience = "paragraph-client"
	tokenTTL      = 24 * time.Hour
)

// Server holds all dependencies and provides handlers
type Server struct {
	config      *config.Config
	db          *gorm.DB
	redis       *redis.Client
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	topicRepo   repository.TopicRepository
	listRepo    repository.ListRepository
	notifRepo   repository.NotificationRepository
	statsRepo   repository.StatsRepository
	notifier    *notifications.Notifier
	dispatcher  *notifications.Dispatcher

	dispatcherCancel context.CancelFunc
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient), nil
}

// NewServerWithDeps wires a server over already-initialized connections.
// Tests use it with an in-memory database and optional Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	s := &Server{
		config:      cfg,
		db:          db,
		redis:       redisClient,
		userRepo:    repository.NewUserRepository(db),
		postRepo:    repository.NewPostRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		topicRepo:   repository.NewTopicRepository(db),
		listRepo:    repository.NewListRepository(db),
		notifRepo:   repository.NewNotificationRepository(db),
		statsRepo:   repository.NewStatsRepository(db),
	}

	if redisClient != nil {
		s.notifier = notifications.NewNotifier(redisClient)
	}

	s.dispatcher = notifications.NewDispatcher(
		s.userRepo, s.postRepo, s.commentRepo, s.notifRepo,
		s.notifier, middleware.Logger,
	)
	ctx, cancel := context.WithCancel(context.Background())
	s.dispatcherCancel = cancel
	s.dispatcher.Start(ctx)

	return s
}

// Dispatcher exposes the notification dispatcher so callers can flush it.
func (s *Server) Dispatcher() *notifications.Dispatcher {
	return s.dispatcher
}

// App assembles the Fiber application with middleware and routes configured.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "Paragraph API",
		BodyLimit: 32 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return models.RespondWithError(c, fe.Code, models.NewValidationError(fe.Message))
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
				"path", c.Path(), "error", err.Error())
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.StructuredLogger())

	// Global rate limiting (100 requests per minute per IP)
	if s.config.Env != "test" {
		app.Use(limiter.New(limiter.Config{
			Max:        100,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "rate limit exceeded",
				})
			},
		}))
	}

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.HealthLive)
	app.Get("/health/ready", s.HealthReady)
	app.Static("/uploads", s.config.UploadDir)

	v1 := app.Group("/v1")

	v1.Get("/metrics", monitor.New(monitor.Config{
		Title: "Paragraph API Metrics",
	}))

	// Auth routes. Specific segments before the generic /:id routes.
	auth := v1.Group("/auth")
	auth.Post("/register", middleware.RateLimit(s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/me", s.AuthRequired(), s.Me)
	auth.Post("/:userId/follow", s.AuthRequired(), s.FollowUser)
	auth.Post("/:userId/unfollow", s.AuthRequired(), s.UnfollowUser)
	auth.Put("/:id/ban", s.AuthRequired(), s.AdminRequired(), s.BanUser)
	auth.Put("/:id/unban", s.AuthRequired(), s.AdminRequired(), s.UnbanUser)
	auth.Put("/:id/change-role", s.AuthRequired(), s.AdminRequired(), s.ChangeRole)
	auth.Get("/:id", s.GetUser)
	auth.Put("/:id", s.AuthRequired(), s.UpdateUser)
	auth.Delete("/:id", s.AuthRequired(), s.DeleteUser)

	// Post routes
	posts := v1.Group("/posts")
	posts.Get("/", s.OptionalAuth(), s.GetPosts)
	posts.Post("/", s.AuthRequired(), middleware.RateLimit(s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	posts.Get("/:id/comments", s.OptionalAuth(), s.GetComments)
	posts.Put("/:id/publish", s.AuthRequired(), s.AdminRequired(), s.PublishPost)
	posts.Get("/:id", s.OptionalAuth(), s.GetPost)
	posts.Put("/:id", s.AuthRequired(), s.UpdatePost)
	posts.Delete("/:id", s.AuthRequired(), s.DeletePost)

	// Comment routes
	comments := v1.Group("/comments")
	comments.Post("/", s.AuthRequired(), middleware.RateLimit(s.redis, 5, time.Minute, "create_comment"), s.CreateComment)
	comments.Patch("/:id/approve", s.AuthRequired(), s.AdminRequired(), s.ApproveComment)
	comments.Patch("/:id/reject", s.AuthRequired(), s.AdminRequired(), s.RejectComment)
	comments.Put("/:id", s.AuthRequired(), s.UpdateComment)
	comments.Delete("/:id", s.AuthRequired(), s.DeleteComment)

	// Topic routes
	topics := v1.Group("/topics")
	topics.Get("/", s.GetTopics)
	topics.Post("/", s.AuthRequired(), s.AdminRequired(), s.CreateTopic)
	topics.Post("/:id/follow", s.AuthRequired(), s.FollowTopic)
	topics.Post("/:id/unfollow", s.AuthRequired(), s.UnfollowTopic)
	topics.Put("/:id", s.AuthRequired(), s.AdminRequired(), s.UpdateTopic)
	topics.Delete("/:id", s.AuthRequired(), s.AdminRequired(), s.DeleteTopic)

	// Like toggle
	v1.Post("/likes", s.AuthRequired(), s.ToggleLike)

	// List routes
	lists := v1.Group("/lists", s.AuthRequired())
	lists.Get("/", s.GetLists)
	lists.Post("/", s.CreateList)
	lists.Post("/:id/posts/:postId", s.AddPostToList)
	lists.Delete("/:id/posts/:postId", s.RemovePostFromList)
	lists.Put("/:id", s.UpdateList)
	lists.Delete("/:id", s.DeleteList)

	// Notification routes
	notifs := v1.Group("/notifications", s.AuthRequired())
	notifs.Get("/", s.GetNotifications)
	notifs.Put("/:id/read", s.MarkNotificationRead)

	// Upload
	v1.Post("/upload", s.AuthRequired(), middleware.RateLimit(s.redis, 20, time.Minute, "upload"), s.Upload)

	// Dashboard
	v1.Get("/dashboard/stats", s.AuthRequired(), s.DashboardStats)
}

// HealthLive reports process liveness only.
func (s *Server) HealthLive(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "time": time.Now()})
}

// HealthReady checks the database and Redis connections.
func (s *Server) HealthReady(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": "ok",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// issueToken signs a 1-day HMAC token for the user.
func (s *Server) issueToken(user *models.User, jti string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(user.ID), 10),
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
		"jti": jti,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// parseToken validates the bearer token and returns the user ID it carries.
func (s *Server) parseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, fmt.Errorf("missing subject")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid subject")
	}
	return uint(userID), nil
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// AuthRequired returns the authentication middleware. It validates the bearer
// token, loads the user and rejects banned accounts.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(models.MsgAuthRequired))
		}

		userID, err := s.parseToken(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(models.MsgInvalidToken))
		}

		user, err := s.userRepo.GetByID(c.UserContext(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(models.MsgInvalidToken))
		}
		if user.IsBanned {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError(models.MsgUserBanned))
		}

		c.Locals("userID", user.ID)
		c.Locals("user", user)
		return c.Next()
	}
}

// AdminRequired must run after AuthRequired; it gates admin-only routes.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := s.currentUser(c)
		if user == nil || !user.IsAdmin() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError(models.MsgAdminOnly))
		}
		return c.Next()
	}
}

// OptionalAuth resolves the user when a valid token is present but never
// rejects the request. Public listings use it to lift gates for admins.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return c.Next()
		}
		userID, err := s.parseToken(tokenString)
		if err != nil {
			return c.Next()
		}
		user, err := s.userRepo.GetByID(c.UserContext(), userID)
		if err != nil || user.IsBanned {
			return c.Next()
		}
		c.Locals("userID", user.ID)
		c.Locals("user", user)
		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown drains the notification dispatcher and closes connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.dispatcher != nil {
		s.dispatcher.Flush()
	}
	if s.dispatcherCancel != nil {
		s.dispatcherCancel()
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Warn("error closing sql DB", "error", cerr.Error())
		}
	}
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Warn("error closing redis", "error", rerr.Error())
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
