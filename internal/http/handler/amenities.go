package handler

import (
	"github.com/gofiber/fiber/v2"

	"hbnb/internal/service"
)

// ListAmenities godoc
// @Summary  List amenities
// @Tags     amenities
// @Success  200 {array} model.Amenity
// @Router   /amenities [get]
func ListAmenities(svc service.AmenityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		amenities, err := svc.List(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(amenities)
	}
}

// GetAmenity godoc
// @Summary  Get an amenity
// @Tags     amenities
// @Param    id path string true "Amenity ID"
// @Success  200 {object} model.Amenity
// @Failure  404 {object} errorPayload
// @Router   /amenities/{id} [get]
func GetAmenity(svc service.AmenityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(a)
	}
}

// CreateAmenity godoc
// @Summary  Create an amenity
// @Tags     amenities
// @Security BearerAuth
// @Param    body body service.AmenityInput true "Amenity"
// @Success  201 {object} model.Amenity
// @Failure  409 {object} errorPayload
// @Router   /amenities [post]
func CreateAmenity(svc service.AmenityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.AmenityInput
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		a, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

// UpdateAmenity godoc
// @Summary  Rename an amenity
// @Tags     amenities
// @Security BearerAuth
// @Param    id path string true "Amenity ID"
// @Param    body body service.AmenityInput true "Amenity"
// @Success  200 {object} model.Amenity
// @Router   /amenities/{id} [put]
func UpdateAmenity(svc service.AmenityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.AmenityInput
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		a, err := svc.Update(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(a)
	}
}

// DeleteAmenity godoc
// @Summary  Delete an amenity and unlink it from every place
// @Tags     amenities
// @Security BearerAuth
// @Param    id path string true "Amenity ID"
// @Success  204
// @Router   /amenities/{id} [delete]
func DeleteAmenity(svc service.AmenityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("id")); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListPlaceAmenities godoc
// @Summary  List the amenities of a place
// @Tags     amenities
// @Param    id path string true "Place ID"
// @Success  200 {array} model.Amenity
// @Router   /places/{id}/amenities [get]
func ListPlaceAmenities(svc service.AmenityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		amenities, err := svc.ListForPlace(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(amenities)
	}
}

// AddPlaceAmenity godoc
// @Summary  Link an amenity to a place
// @Tags     amenities
// @Security BearerAuth
// @Param    id path string true "Place ID"
// @Param    amenity_id path string true "Amenity ID"
// @Success  201 {object} model.PlaceAmenity
// @Failure  409 {object} errorPayload
// @Router   /places/{id}/amenities/{amenity_id} [post]
func AddPlaceAmenity(places service.PlaceService, amenities service.AmenityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := places.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		if ok, err := authorize(c, p.HostID); !ok {
			return err
		}
		link, err := amenities.AddToPlace(c.UserContext(), p.ID, c.Params("amenity_id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(link)
	}
}

// RemovePlaceAmenity godoc
// @Summary  Unlink an amenity from a place
// @Tags     amenities
// @Security BearerAuth
// @Param    id path string true "Place ID"
// @Param    amenity_id path string true "Amenity ID"
// @Success  204
// @Router   /places/{id}/amenities/{amenity_id} [delete]
func RemovePlaceAmenity(places service.PlaceService, amenities service.AmenityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := places.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		if ok, err := authorize(c, p.HostID); !ok {
			return err
		}
		if err := amenities.RemoveFromPlace(c.UserContext(), p.ID, c.Params("amenity_id")); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
