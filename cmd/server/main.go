package main

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/arkodeep/vibely/backend/internal/realtime"
	"github.com/arkodeep/vibely/backend/internal/router"
	"github.com/arkodeep/vibely/backend/pkg/config"
	"github.com/arkodeep/vibely/backend/pkg/logging"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// Initialize database connection
	db, err := config.InitDB()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize database")
		panic(err)
	}
	defer db.CloseDB() // Ensure database connection is closed when main exits

	// Start the realtime hub
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := realtime.NewHub()
	go func() {
		if err := hub.Run(ctx); err != nil && err != context.Canceled {
			logging.Error().Err(err).Msg("realtime hub stopped")
		}
	}()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, hub)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
