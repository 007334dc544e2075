package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"hbnb/internal/model"
	"hbnb/internal/repository"
)

const healthTimeout = 2 * time.Second

// HealthCheck godoc
// @Summary  Readiness probe
// @Tags     health
// @Success  200 {object} map[string]string
// @Failure  503 {object} errorPayload
// @Router   /health [get]
//
// Database-backed repositories are pinged; the others must answer a country listing.
func HealthCheck(repo repository.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()

		var err error
		if p, ok := repo.(interface{ DB() *sql.DB }); ok {
			err = p.DB().PingContext(ctx)
		} else {
			_, err = repo.GetAll(ctx, model.NameCountry)
		}
		if err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe answers 200 as long as the process serves requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
