package handlers

import (
	"context"
	"log"
	"time"

	"vigil/internal/services/monitor"

	"github.com/gofiber/fiber/v2"
)

type MonitorHandler struct {
	monitor *monitor.Monitor
}

func NewMonitorHandler(m *monitor.Monitor) *MonitorHandler {
	return &MonitorHandler{monitor: m}
}

// TriggerScan kicks off a full pattern sweep in the background and
// returns immediately.
func (h *MonitorHandler) TriggerScan(c *fiber.Ctx) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := h.monitor.Scan(ctx); err != nil {
			log.Printf("Manual pattern scan failed: %v", err)
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Scan started",
	})
}
