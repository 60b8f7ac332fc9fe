// Package server contains the HTTP handlers for the blog API.
package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/mailer"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// initMetrics builds the Prometheus middleware exactly once. The collectors
// register in the default registry, so a second construction would panic when
// tests stand up multiple servers in one process.
func initMetrics() *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New("inkwell-api")
	})
	return prom
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	articleRepo repository.ArticleRepository

	authService         *service.AuthService
	articleService      *service.ArticleService
	categoryService     *service.CategoryService
	tagService          *service.TagService
	commentService      *service.CommentService
	subscriptionService *service.SubscriptionService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with an in-memory database and no Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	mail := mailer.NewLogMailer(cfg.AppURL, cfg.SMTPFrom)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: initMetrics(),
		userRepo:       userRepo,
		articleRepo:    articleRepo,
	}
	server.authService = service.NewAuthService(userRepo)
	server.articleService = service.NewArticleService(articleRepo, categoryRepo, tagRepo)
	server.categoryService = service.NewCategoryService(categoryRepo, articleRepo)
	server.tagService = service.NewTagService(tagRepo)
	server.commentService = service.NewCommentService(commentRepo, articleRepo)
	server.subscriptionService = service.NewSubscriptionService(subscriptionRepo, articleRepo, mail)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid so the id is in scope)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c, &models.AppError{
				Code:    "RATE_LIMITED",
				Message: "Too many requests, please try again later",
				Status:  fiber.StatusTooManyRequests,
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health check
	app.Get("/health", s.HealthCheck)
	api.Get("/health", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Syndication endpoints live at the root, not under /api
	app.Get("/rss.xml", s.GetRSSFeed)
	app.Get("/sitemap.xml", s.GetSitemap)
	app.Get("/robots.txt", s.GetRobots)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/me", s.AuthRequired(), s.Me)

	// Search
	api.Get("/search", middleware.RateLimit(
		s.redis, 30, time.Minute, "search"), s.Search)

	// Public article routes. Specific routes go before the generic /:slug.
	articles := api.Group("/articles")
	articles.Get("/", s.GetArticles)
	articles.Get("/by-id/:id", s.AuthRequired(), s.GetArticleByID)
	articles.Get("/:slug", s.GetArticle)

	// Protected article routes
	articles.Post("/", s.AuthRequired(), s.CreateArticle)
	articles.Put("/:id", s.AuthRequired(), s.UpdateArticle)
	articles.Delete("/:id", s.AuthRequired(), s.DeleteArticle)

	// Category routes
	categories := api.Group("/categories")
	categories.Get("/", s.GetCategories)
	categories.Get("/:slug", s.GetCategory)
	categories.Post("/", s.AuthRequired(), s.CreateCategory)
	categories.Put("/:id", s.AuthRequired(), s.UpdateCategory)
	categories.Delete("/:id", s.AuthRequired(), s.DeleteCategory)

	// Tag routes
	tags := api.Group("/tags")
	tags.Get("/", s.GetTags)
	tags.Get("/:slug", s.GetTag)
	tags.Post("/", s.AuthRequired(), s.CreateTag)
	tags.Put("/:id", s.AuthRequired(), s.UpdateTag)
	tags.Delete("/:id", s.AuthRequired(), s.DeleteTag)

	// Subscription routes
	subscribe := api.Group("/subscribe")
	subscribe.Post("/", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "subscribe"), s.Subscribe)
	subscribe.Get("/verify", s.VerifyEmail)
	subscribe.Delete("/", s.Unsubscribe)

	// Comment routes live at the root, not under /api
	app.Get("/articles/:slug/comments", s.GetComments)
	app.Post("/articles/:slug/comments", middleware.RateLimit(
		s.redis, 5, time.Minute, "create_comment"), s.CreateComment)

	// Admin routes live at the root, not under /api
	admin := app.Group("/admin", s.AuthRequired())
	admin.Get("/comments", s.GetAllComments)
	admin.Get("/comments/pending", s.GetPendingComments)
	admin.Put("/comments/:id", s.UpdateCommentStatus)
	admin.Delete("/comments/:id", s.DeleteComment)
	admin.Get("/subscriptions", s.GetSubscriptions)
}

// HealthCheck reports database and Redis health.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
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
		// The API works without Redis, just without caching or rate limits.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != "inkwell-api" {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != "inkwell-client" {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		c.Locals("userID", uint(userID))
		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	models.SafeMode = s.config.IsProduction()

	app := fiber.New(fiber.Config{
		AppName: "Inkwell API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, err)
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	middleware.Logger.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
