package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"proselit_go/config"
	"proselit_go/db"
	"proselit_go/handlers"
	"proselit_go/models"
	"proselit_go/services"
	"proselit_go/services/sambanova"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Open the persistent store
	store, err := db.Open(cfg.DBPath, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	// Run migrations
	err = store.Migrate(
		&models.Case{},
		&models.CaseFile{},
		&models.CaseDocument{},
		&models.Violation{},
		&models.ViolationStatute{},
		&models.Evidence{},
		&models.TimelineEvent{},
		&models.LegalAuthority{},
		&models.NuclearStrategy{},
		&models.SystemLog{},
		&models.AIInteraction{},
		&models.UserPreference{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// One collaborator client per process, injected everywhere
	ai := sambanova.NewClient(cfg)

	// Evidence file storage (R2 or local fallback)
	storage := services.NewStorage(cfg)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))

	// Routes
	h := handlers.New(store, ai, storage)
	h.RegisterRoutes(e)

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
