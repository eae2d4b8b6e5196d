package handlers

import (
	"errors"
	"log"

	"vigil/internal/repositories"
	"vigil/internal/services/dashboard"
	"vigil/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	service     dashboard.Service
	metricsRepo repositories.RiskMetricsRepository
}

func NewDashboardHandler(service dashboard.Service, metricsRepo repositories.RiskMetricsRepository) *DashboardHandler {
	return &DashboardHandler{
		service:     service,
		metricsRepo: metricsRepo,
	}
}

func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	stats, err := h.service.GetOverview(c.Context())
	if err != nil {
		log.Printf("Dashboard overview failed: %v", err)
		return response.ServerError(c, "Failed to build dashboard")
	}
	return response.Success(c, "Dashboard retrieved", stats)
}

func (h *DashboardHandler) AccountOverview(c *fiber.Ctx) error {
	accountID := c.Params("accountID")
	if accountID == "" {
		return response.BadRequest(c, "Account id is required")
	}

	view, err := h.service.GetAccountOverview(c.Context(), accountID)
	if err != nil {
		log.Printf("Account dashboard failed: %v", err)
		return response.ServerError(c, "Failed to build account dashboard")
	}
	return response.Success(c, "Account dashboard retrieved", view)
}

// Metrics returns the raw rolling risk metrics for an account.
func (h *DashboardHandler) Metrics(c *fiber.Ctx) error {
	accountID := c.Params("accountID")
	if accountID == "" {
		return response.BadRequest(c, "Account id is required")
	}

	m, err := h.metricsRepo.Get(c.Context(), accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "No metrics for account")
		}
		log.Printf("Metrics lookup failed: %v", err)
		return response.ServerError(c, "Failed to retrieve metrics")
	}
	return response.Success(c, "Metrics retrieved", m)
}
