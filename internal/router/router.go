package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/arkodeep/vibely/backend/internal/handlers"
	"github.com/arkodeep/vibely/backend/internal/middleware"
	"github.com/arkodeep/vibely/backend/internal/models"
	"github.com/arkodeep/vibely/backend/internal/realtime"
	"github.com/arkodeep/vibely/backend/internal/repositories"
	"github.com/arkodeep/vibely/backend/internal/services"
	"github.com/arkodeep/vibely/backend/pkg/logging"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	logging.Info().Msg("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, hub *realtime.Hub) {
	// AutoMigrate models
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Tag{},
		&models.Comment{},
		&models.Reaction{},
		&models.Notification{},
	)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to auto migrate models")
		panic(err)
	}
	logging.Info().Msg("Auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewGormUserRepository(db)
	postRepo := repositories.NewGormPostRepository(db)
	commentRepo := repositories.NewGormCommentRepository(db)
	reactionRepo := repositories.NewGormReactionRepository(db)
	notificationRepo := repositories.NewGormNotificationRepository(db)

	// --- Initialize Services ---
	events := realtime.NewBroadcaster(hub)
	mentionService := services.NewMentionService(userRepo, notificationRepo)
	reactionService := services.NewReactionService(db, reactionRepo, postRepo, commentRepo, notificationRepo, events)
	commentService := services.NewCommentService(db, commentRepo, postRepo, reactionRepo, notificationRepo, mentionService, events)
	postService := services.NewPostService(db, postRepo, commentRepo, reactionRepo, notificationRepo, mentionService, events)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	logging.Info().Msg("JWT authentication middleware applied to /api/v1 group.")

	// Post routes
	postHandler := handlers.NewPostHandler(postService, postRepo)
	postHandler.RegisterPostRoutes(api)
	logging.Info().Msg("Post routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentService, commentRepo)
	commentHandler.RegisterCommentRoutes(api)
	logging.Info().Msg("Comment routes configured.")

	// Reaction routes
	reactionHandler := handlers.NewReactionHandler(reactionService)
	reactionHandler.RegisterReactionRoutes(api)
	logging.Info().Msg("Reaction routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	logging.Info().Msg("Notification routes configured.")

	// Websocket route (token arrives as query parameter)
	ws := e.Group("")
	ws.Use(middleware.JWTAuthMiddleware())
	wsHandler := handlers.NewWebSocketHandler(hub)
	wsHandler.RegisterWebSocketRoutes(ws)
	logging.Info().Msg("Websocket route configured.")

	logging.Info().Msg("All routes configured.")
}
