package handler

import (
	"github.com/gofiber/fiber/v2"

	"hbnb/internal/http/middleware"
	"hbnb/internal/service"
)

// ListPlaces godoc
// @Summary  List places
// @Tags     places
// @Success  200 {array} model.Place
// @Router   /places [get]
func ListPlaces(svc service.PlaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		places, err := svc.List(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(places)
	}
}

// GetPlace godoc
// @Summary  Get a place
// @Tags     places
// @Param    id path string true "Place ID"
// @Success  200 {object} model.Place
// @Failure  404 {object} errorPayload
// @Router   /places/{id} [get]
func GetPlace(svc service.PlaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(p)
	}
}

// CreatePlace godoc
// @Summary  Create a place
// @Description host_id defaults to the authenticated user; only admins may list for someone else.
// @Tags     places
// @Security BearerAuth
// @Param    body body service.PlaceInput true "Place"
// @Success  201 {object} model.Place
// @Failure  400 {object} errorPayload
// @Router   /places [post]
func CreatePlace(svc service.PlaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.PlaceInput
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		if in.HostID == "" {
			if claims := middleware.ClaimsFrom(c); claims != nil {
				in.HostID = claims.Subject
			}
		}
		if ok, err := authorize(c, in.HostID); !ok {
			return err
		}
		p, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// UpdatePlace godoc
// @Summary  Update a place
// @Tags     places
// @Security BearerAuth
// @Param    id path string true "Place ID"
// @Param    body body service.PlaceUpdate true "Fields to change"
// @Success  200 {object} model.Place
// @Router   /places/{id} [put]
func UpdatePlace(svc service.PlaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		if ok, err := authorize(c, p.HostID); !ok {
			return err
		}
		var in service.PlaceUpdate
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		updated, err := svc.Update(c.UserContext(), p.ID, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(updated)
	}
}

// DeletePlace godoc
// @Summary  Delete a place with its reviews and amenity links
// @Tags     places
// @Security BearerAuth
// @Param    id path string true "Place ID"
// @Success  204
// @Router   /places/{id} [delete]
func DeletePlace(svc service.PlaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		if ok, err := authorize(c, p.HostID); !ok {
			return err
		}
		if err := svc.Delete(c.UserContext(), p.ID); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
