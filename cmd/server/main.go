package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/config"     // Internal config loader
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/database"   // MySQL connection helper
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/handler"    // HTTP handlers
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/newbook"    // Alternate booking backend
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/queue"      // Booking event consumer
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/repository" // Data access layer
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/router"     // Internal router setup
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/service"    // Reservation engine
)

func main() {
	_ = godotenv.Load() // Load .env if present; real env wins in production

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // May be nil; middleware degrades gracefully

	instances := repository.NewInstanceRepo(db)
	bookingLogs := repository.NewBookingLogRepo(db)

	registry := service.NewRegistry(cfg.PMSBaseURL, cfg.CatalogSnapshot)

	// The booking consumer reconnects on its own; a startup failure here
	// only delays reporting rows, never bookings.
	go func() {
		if err := queue.StartBookingConsumer(bookingLogs); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterPMS(e, handler.NewPMSHandler(registry), instances, rdb)
	if cfg.NewbookBaseURL != "" {
		nb := newbook.NewService(newbook.NewClient(cfg.NewbookBaseURL, cfg.NewbookUser, cfg.NewbookPass), cfg.NewbookRegion, cfg.NewbookAPIKey)
		router.RegisterNewbook(e, handler.NewNewbookHandler(nb), rdb)
	} else {
		log.Println("newbook backend disabled: NEWBOOK_API_BASE not set")
	}
	router.RegisterAdmin(e, handler.NewAdminHandler(cfg, instances), handler.NewBookingLogHandler(bookingLogs), cfg.JWTSecret)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
