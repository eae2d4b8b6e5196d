// Package main is the entry point for the fraud-monitoring API.
// It initializes all dependencies, sets up the HTTP server and the
// periodic pattern scan, and starts the application.
package main

import (
	"context"
	"log"
	"time"

	"vigil/internal/config"
	"vigil/internal/repositories"
	"vigil/internal/routes"
	"vigil/internal/services/monitor"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	// Initialize databases (PostgreSQL + Redis)
	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Failed to close database connection: %v", err)
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("Failed to close Redis connection: %v", err)
			}
		}
	}()

	// Create Fiber app
	app := fiber.New()

	// CORS for the dashboard SPA
	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnv("CORS_ORIGIN", "http://localhost:5173"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/api/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	// Only submissions are capped; reads pass through.
	app.Use("/api/transactions", limiter.New(limiter.Config{
		Max:        config.GetIntEnv("SUBMIT_RATE_LIMIT", 60),
		Expiration: 1 * time.Minute,
		Next:       skipNonSubmit,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	// Routes; SetupRoutes returns the pattern monitor for scheduling.
	patternMonitor := routes.SetupRoutes(app, repositories.DB)

	// Periodic pattern scan with an explicit cancel handle.
	scanInterval := config.GetDurationEnv("SCAN_INTERVAL", 15*time.Minute)
	scheduler := monitor.NewScheduler(scanInterval, func(ctx context.Context) error {
		return patternMonitor.Scan(ctx)
	})
	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}

// skipNonSubmit exempts transaction reads from the submission limiter.
func skipNonSubmit(c *fiber.Ctx) bool {
	return c.Method() != fiber.MethodPost
}
