package handlers

import (
	"log"
	"strconv"

	"vigil/internal/models"
	"vigil/internal/services/security"
	"vigil/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type SecurityHandler struct {
	service security.Service
}

func NewSecurityHandler(service security.Service) *SecurityHandler {
	return &SecurityHandler{service: service}
}

func (h *SecurityHandler) Record(c *fiber.Ctx) error {
	var input struct {
		AccountID string                 `json:"account_id"`
		EventType string                 `json:"event_type"`
		Severity  string                 `json:"severity"`
		Details   map[string]interface{} `json:"details"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.AccountID == "" {
		return response.BadRequest(c, "Account id is required")
	}

	a, err := h.service.Record(c.Context(), input.AccountID, input.EventType, input.Severity, models.JSON(input.Details))
	if err != nil {
		log.Printf("Security alert record failed: %v", err)
		return response.BadRequest(c, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Security alert recorded",
		"data":    a,
	})
}

func (h *SecurityHandler) List(c *fiber.Ctx) error {
	accountID := c.Params("accountID")
	if accountID == "" {
		return response.BadRequest(c, "Account id is required")
	}
	limit, offset := pagination(c)

	alerts, err := h.service.List(c.Context(), accountID, limit, offset)
	if err != nil {
		log.Printf("Security alert list failed: %v", err)
		return response.ServerError(c, "Failed to retrieve security alerts")
	}
	return response.Success(c, "Security alerts retrieved", alerts)
}

func (h *SecurityHandler) Acknowledge(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid alert id")
	}

	a, err := h.service.Acknowledge(c.Context(), uint(id))
	if err != nil {
		log.Printf("Security alert acknowledge failed: %v", err)
		return response.ServerError(c, "Failed to acknowledge security alert")
	}
	return response.Success(c, "Security alert acknowledged", a)
}
