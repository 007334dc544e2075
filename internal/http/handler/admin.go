package handler

import (
	"github.com/gofiber/fiber/v2"

	"hbnb/internal/model"
	"hbnb/internal/repository"
)

// RepositoryStats godoc
// @Summary  Count the stored records of every model
// @Tags     admin
// @Success  200 {object} map[string]int
// @Failure  401 {object} errorPayload
// @Failure  403 {object} errorPayload
// @Security BearerAuth
// @Router   /admin/stats [get]
func RepositoryStats(repo repository.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		names := model.DefaultRegistry().Names()
		counts := make(map[model.Name]int, len(names))
		for _, name := range names {
			all, err := repo.GetAll(c.UserContext(), name)
			if err != nil {
				return serviceError(c, err)
			}
			counts[name] = len(all)
		}
		return c.JSON(counts)
	}
}
