package handlers

import (
	"errors"
	"log"
	"strconv"

	"vigil/internal/models"
	"vigil/internal/repositories"
	"vigil/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AlertHandler struct {
	alertRepo   repositories.AlertRepository
	metricsRepo repositories.RiskMetricsRepository
}

func NewAlertHandler(alertRepo repositories.AlertRepository, metricsRepo repositories.RiskMetricsRepository) *AlertHandler {
	return &AlertHandler{alertRepo: alertRepo, metricsRepo: metricsRepo}
}

func (h *AlertHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	filter := repositories.AlertFilter{
		AccountID:       c.Query("account_id"),
		Severity:        c.Query("severity"),
		Status:          c.Query("status"),
		DetectionMethod: c.Query("detection_method"),
	}

	alerts, total, err := h.alertRepo.List(c.Context(), filter, limit, offset)
	if err != nil {
		log.Printf("Alert list failed: %v", err)
		return response.ServerError(c, "Failed to retrieve alerts")
	}

	return c.JSON(fiber.Map{
		"data":  alerts,
		"total": total,
	})
}

func (h *AlertHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid alert id")
	}

	a, err := h.alertRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Alert not found")
		}
		log.Printf("Alert lookup failed: %v", err)
		return response.ServerError(c, "Failed to retrieve alert")
	}

	return response.Success(c, "Alert retrieved", a)
}

// UpdateStatus applies a reviewer status transition. Closed alerts
// cannot be reopened.
func (h *AlertHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid alert id")
	}

	var input struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	a, err := h.alertRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Alert not found")
		}
		log.Printf("Alert lookup failed: %v", err)
		return response.ServerError(c, "Failed to retrieve alert")
	}

	if !models.ValidAlertTransition(a.Status, input.Status) {
		return response.BadRequest(c, "Invalid status transition")
	}

	a.Status = input.Status
	if err := h.alertRepo.Update(c.Context(), a); err != nil {
		log.Printf("Alert update failed: %v", err)
		return response.ServerError(c, "Failed to update alert")
	}

	// Resolving an alert confirms the fraud; count it against the account.
	if a.Status == models.AlertStatusResolved {
		if err := h.metricsRepo.IncrementFraudAttempts(c.Context(), a.AccountID); err != nil {
			log.Printf("Failed to record fraud attempt for account %s: %v", a.AccountID, err)
		}
	}

	return response.Success(c, "Alert updated", a)
}
