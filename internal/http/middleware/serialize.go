package middleware

import (
	"sync"

	"github.com/gofiber/fiber/v2"
)

// Serialize runs one request at a time under mu. The memory and file
// repositories hold no locks of their own; anything else touching them
// (the file watcher, for one) must take the same mu.
func Serialize(mu sync.Locker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		mu.Lock()
		defer mu.Unlock()
		return c.Next()
	}
}
