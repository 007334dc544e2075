package handler

import (
	"github.com/gofiber/fiber/v2"

	"hbnb/internal/service"
)

// ListCities godoc
// @Summary  List cities
// @Tags     cities
// @Success  200 {array} model.City
// @Router   /cities [get]
func ListCities(svc service.CityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cities, err := svc.List(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(cities)
	}
}

// GetCity godoc
// @Summary  Get a city
// @Tags     cities
// @Param    id path string true "City ID"
// @Success  200 {object} model.City
// @Failure  404 {object} errorPayload
// @Router   /cities/{id} [get]
func GetCity(svc service.CityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		city, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(city)
	}
}

// CreateCity godoc
// @Summary  Create a city
// @Tags     cities
// @Security BearerAuth
// @Param    body body service.CityInput true "City"
// @Success  201 {object} model.City
// @Failure  400 {object} errorPayload
// @Router   /cities [post]
func CreateCity(svc service.CityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CityInput
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		city, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(city)
	}
}

// UpdateCity godoc
// @Summary  Update a city
// @Tags     cities
// @Security BearerAuth
// @Param    id path string true "City ID"
// @Param    body body service.CityUpdate true "Fields to change"
// @Success  200 {object} model.City
// @Router   /cities/{id} [put]
func UpdateCity(svc service.CityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CityUpdate
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		city, err := svc.Update(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(city)
	}
}

// DeleteCity godoc
// @Summary  Delete a city
// @Tags     cities
// @Security BearerAuth
// @Param    id path string true "City ID"
// @Success  204
// @Router   /cities/{id} [delete]
func DeleteCity(svc service.CityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
