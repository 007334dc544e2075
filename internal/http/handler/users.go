package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"hbnb/internal/auth"
	"hbnb/internal/http/middleware"
	"hbnb/internal/model"
	"hbnb/internal/service"
)

// userResponse is the public view of a user; the password hash never leaves the server.
type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ListUsers godoc
// @Summary  List users
// @Tags     users
// @Produce  json
// @Success  200 {array} userResponse
// @Router   /users [get]
func ListUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := svc.List(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		out := make([]userResponse, 0, len(users))
		for _, u := range users {
			out = append(out, toUserResponse(u))
		}
		return c.JSON(out)
	}
}

// GetUser godoc
// @Summary  Get a user
// @Tags     users
// @Param    id path string true "User ID"
// @Success  200 {object} userResponse
// @Failure  404 {object} errorPayload
// @Router   /users/{id} [get]
func GetUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(toUserResponse(u))
	}
}

// CreateUser godoc
// @Summary  Register a user
// @Tags     users
// @Accept   json
// @Param    body body service.UserInput true "User"
// @Success  201 {object} userResponse
// @Failure  400 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /users [post]
//
// Only admins may create other admins.
func CreateUser(svc service.UserService, issuer *auth.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.UserInput
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		if in.IsAdmin && !isAdminRequest(c, issuer) {
			return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "only admins can create admins")
		}
		u, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(toUserResponse(u))
	}
}

// UpdateUser godoc
// @Summary  Update a user
// @Tags     users
// @Security BearerAuth
// @Param    id path string true "User ID"
// @Param    body body service.UserUpdate true "Fields to change"
// @Success  200 {object} userResponse
// @Router   /users/{id} [put]
func UpdateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if ok, err := authorize(c, id); !ok {
			return err
		}
		var in service.UserUpdate
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		u, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(toUserResponse(u))
	}
}

// DeleteUser godoc
// @Summary  Delete a user
// @Tags     users
// @Security BearerAuth
// @Param    id path string true "User ID"
// @Success  204
// @Router   /users/{id} [delete]
func DeleteUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if ok, err := authorize(c, id); !ok {
			return err
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Login godoc
// @Summary  Exchange credentials for an access token
// @Tags     users
// @Accept   json
// @Param    body body loginRequest true "Credentials"
// @Success  200 {object} loginResponse
// @Failure  401 {object} errorPayload
// @Router   /users/login [post]
func Login(svc service.UserService, issuer *auth.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in loginRequest
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		u, err := svc.Authenticate(c.UserContext(), in.Email, in.Password)
		if err != nil {
			return serviceError(c, err)
		}
		token, exp, err := issuer.Issue(u.ID, u.Email, u.IsAdmin)
		if err != nil {
			return err
		}
		return c.JSON(loginResponse{AccessToken: token, TokenType: "Bearer", ExpiresAt: exp.UTC()})
	}
}

// ListUserReviews godoc
// @Summary  List the reviews written by a user
// @Tags     reviews
// @Param    id path string true "User ID"
// @Success  200 {array} model.Review
// @Router   /users/{id}/reviews [get]
func ListUserReviews(svc service.ReviewService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reviews, err := svc.ListByUser(c.UserContext(), c.Params("id"))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(reviews)
	}
}

// isAdminRequest checks an optional bearer token on a public route.
func isAdminRequest(c *fiber.Ctx, issuer *auth.Issuer) bool {
	token, ok := middleware.BearerToken(c)
	if !ok {
		return false
	}
	claims, err := issuer.Parse(token)
	return err == nil && claims.IsAdmin
}
