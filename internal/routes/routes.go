// Package routes defines the API routing configuration.
// It wires repositories into services and handlers and applies
// authentication middleware per route group.
package routes

import (
	"vigil/internal/config"
	"vigil/internal/handlers"
	"vigil/internal/middleware"
	"vigil/internal/models"
	"vigil/internal/repositories"
	"vigil/internal/services/alert"
	"vigil/internal/services/auth"
	"vigil/internal/services/dashboard"
	"vigil/internal/services/monitor"
	"vigil/internal/services/notification"
	"vigil/internal/services/reputation"
	"vigil/internal/services/risk"
	"vigil/internal/services/riskmetrics"
	"vigil/internal/services/security"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes and returns the pattern
// monitor so the caller can schedule periodic scans.
func SetupRoutes(app *fiber.App, db *gorm.DB) *monitor.Monitor {
	// Repositories
	txRepo := repositories.NewTransactionRepository(db)
	alertRepo := repositories.NewAlertRepository(db)
	metricsRepo := repositories.NewRiskMetricsRepository(db)
	securityRepo := repositories.NewSecurityAlertRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// Services
	notifier := notification.NewService(notification.LogSender{})
	publisher := alert.NewPublisher(alertRepo, notifier)
	aggregator := riskmetrics.NewAggregator(metricsRepo)
	patternMonitor := monitor.NewMonitor(txRepo, publisher)

	provider := newReputationProvider()
	reputationService := reputation.NewService(provider, publisher)

	history := risk.NewHistoryLoader(txRepo, repositories.CacheService)
	riskService := risk.NewService(
		txRepo,
		history,
		publisher,
		aggregator,
		patternMonitor,
		reputationService,
		repositories.CacheService,
	)

	authService := auth.NewService(userRepo)
	securityService := security.NewService(securityRepo)
	dashboardService := dashboard.NewService(txRepo, alertRepo, metricsRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	txHandler := handlers.NewTransactionHandler(riskService, txRepo)
	alertHandler := handlers.NewAlertHandler(alertRepo, metricsRepo)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, metricsRepo)
	monitorHandler := handlers.NewMonitorHandler(patternMonitor)
	securityHandler := handlers.NewSecurityHandler(securityService)

	// Public routes
	app.Get("/health", handlers.HealthCheck)
	app.Post("/api/login", authHandler.Login)
	app.Post("/api/refresh", authHandler.Refresh)

	// Authenticated routes
	api := app.Group("/api", middleware.Auth())
	api.Post("/logout", authHandler.Logout)

	api.Post("/transactions", middleware.RequirePermission(models.PermissionTransactionWrite), txHandler.Submit)
	api.Get("/transactions", middleware.RequirePermission(models.PermissionTransactionRead), txHandler.List)
	api.Get("/transactions/:id", middleware.RequirePermission(models.PermissionTransactionRead), txHandler.Get)
	api.Get("/accounts/:accountID/transactions", middleware.RequirePermission(models.PermissionTransactionRead), txHandler.ListByAccount)

	api.Get("/alerts", middleware.RequirePermission(models.PermissionAlertRead), alertHandler.List)
	api.Get("/alerts/:id", middleware.RequirePermission(models.PermissionAlertRead), alertHandler.Get)
	api.Patch("/alerts/:id/status", middleware.RequirePermission(models.PermissionAlertWrite), alertHandler.UpdateStatus)

	api.Get("/dashboard", middleware.RequirePermission(models.PermissionMetricsRead), dashboardHandler.Overview)
	api.Get("/accounts/:accountID/dashboard", middleware.RequirePermission(models.PermissionMetricsRead), dashboardHandler.AccountOverview)
	api.Get("/accounts/:accountID/metrics", middleware.RequirePermission(models.PermissionMetricsRead), dashboardHandler.Metrics)

	api.Post("/monitor/scan", middleware.RequirePermission(models.PermissionMonitorRun), monitorHandler.TriggerScan)

	api.Post("/security-alerts", middleware.RequirePermission(models.PermissionAlertWrite), securityHandler.Record)
	api.Get("/accounts/:accountID/security-alerts", middleware.RequirePermission(models.PermissionAlertRead), securityHandler.List)
	api.Patch("/security-alerts/:id/ack", middleware.RequirePermission(models.PermissionAlertWrite), securityHandler.Acknowledge)

	return patternMonitor
}

// newReputationProvider picks the Stripe Radar provider when an API key
// is configured, otherwise the deterministic mock.
func newReputationProvider() reputation.Provider {
	apiKey := config.GetEnv("STRIPE_API_KEY", "")
	if apiKey == "" {
		return reputation.NewMockProvider(uint32(config.GetIntEnv("REPUTATION_MOCK_SEED", 0)))
	}
	return reputation.NewStripeRadarProvider(
		apiKey,
		config.GetEnv("RADAR_IP_LIST", ""),
		config.GetEnv("RADAR_DEVICE_LIST", ""),
		config.GetEnv("RADAR_AML_LIST", ""),
		config.GetEnv("RADAR_SANCTIONS_LIST", ""),
	)
}
