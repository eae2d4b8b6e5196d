package handlers

import (
	"vigil/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

func HealthCheck(c *fiber.Ctx) error {
	dbStatus := "connected"
	if sqlDB, err := repositories.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "unavailable"
	}

	redisStatus := "connected"
	if repositories.CacheService == nil || repositories.CacheService.HealthCheck(c.Context()) != nil {
		redisStatus = "unavailable"
	}

	return c.JSON(fiber.Map{
		"status": "ok",
		"services": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}
