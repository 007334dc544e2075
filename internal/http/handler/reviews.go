package handler

import (
	"github.com/gofiber/fiber/v2"

	"hbnb/internal/http/middleware"
	"hbnb/internal/service"
)

// ListReviews godoc
// @Summary  List reviews
// @Tags     reviews
// @Success  200 {array} model.Review
// @Router   /reviews [get]
func ListReviews(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reviews, err := svc.List(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(reviews)
	}
}

// GetReview godoc
// @Summary  Get a review
// @Tags     reviews
// @Param    id path string true "Review ID"
// @Success  200 {object} model.Review
// @Failure  404 {object} errorPayload
// @Router   /reviews/{id} [get]
func GetReview(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(r)
	}
}

// ListPlaceReviews godoc
// @Summary  List the reviews of a place
// @Tags     reviews
// @Param    id path string true "Place ID"
// @Success  200 {array} model.Review
// @Router   /places/{id}/reviews [get]
func ListPlaceReviews(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reviews, err := svc.ListByPlace(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(reviews)
	}
}

// CreatePlaceReview godoc
// @Summary  Review a place
// @Description user_id defaults to the authenticated user.
// @Tags     reviews
// @Security BearerAuth
// @Param    id path string true "Place ID"
// @Param    body body service.ReviewInput true "Review"
// @Success  201 {object} model.Review
// @Failure  400 {object} errorPayload
// @Router   /places/{id}/reviews [post]
func CreatePlaceReview(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.ReviewInput
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		in.PlaceID = c.Params("id")
		if in.UserID == "" {
			if claims := middleware.ClaimsFrom(c); claims != nil {
				in.UserID = claims.Subject
			}
		}
		if ok, err := authorize(c, in.UserID); !ok {
			return err
		}
		r, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(r)
	}
}

// UpdateReview godoc
// @Summary  Update a review
// @Tags     reviews
// @Security BearerAuth
// @Param    id path string true "Review ID"
// @Param    body body service.ReviewUpdate true "Fields to change"
// @Success  200 {object} model.Review
// @Router   /reviews/{id} [put]
func UpdateReview(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		if ok, err := authorize(c, r.UserID); !ok {
			return err
		}
		var in service.ReviewUpdate
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		updated, err := svc.Update(c.UserContext(), r.ID, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(updated)
	}
}

// DeleteReview godoc
// @Summary  Delete a review
// @Tags     reviews
// @Security BearerAuth
// @Param    id path string true "Review ID"
// @Success  204
// @Router   /reviews/{id} [delete]
func DeleteReview(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		if ok, err := authorize(c, r.UserID); !ok {
			return err
		}
		if err := svc.Delete(c.UserContext(), r.ID); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
