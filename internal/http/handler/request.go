package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"hbnb/internal/http/middleware"
)

// parseBody decodes a JSON body into v. It writes the 400 itself and
// reports whether the handler should continue.
func parseBody(c *fiber.Ctx, v any) (bool, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		return false, writeError(c, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "content type must be application/json")
	}
	if err := c.BodyParser(v); err != nil {
		return false, writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON")
	}
	return true, nil
}

// authorize allows the owner of a resource or an admin. It writes the 403 itself.
func authorize(c *fiber.Ctx, ownerID string) (bool, error) {
	claims := middleware.ClaimsFrom(c)
	if claims != nil && (claims.IsAdmin || claims.Subject == ownerID) {
		return true, nil
	}
	return false, writeError(c, fiber.StatusForbidden, "FORBIDDEN", "not allowed to modify this resource")
}
