package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"hbnb/internal/auth"
)

// ClaimsLocalKey holds the *auth.Claims of an authenticated request.
const ClaimsLocalKey = "claims"

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(c *fiber.Ctx) (string, bool) {
	token, found := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if !found {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAuth rejects requests without a valid "Authorization: Bearer" token
// with 401 and stores the token's claims in locals.
func RequireAuth(issuer *auth.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := BearerToken(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		claims, err := issuer.Parse(token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				return fiber.NewError(fiber.StatusUnauthorized, "token has expired")
			}
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		c.Locals(ClaimsLocalKey, claims)
		return c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil || !claims.IsAdmin {
			return fiber.NewError(fiber.StatusForbidden, "admin access required")
		}
		return c.Next()
	}
}

// ClaimsFrom returns the claims stored by RequireAuth, or nil.
func ClaimsFrom(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(ClaimsLocalKey).(*auth.Claims)
	return claims
}
