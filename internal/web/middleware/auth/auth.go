package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/web/handler"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/web/session"
)

// CurrentSessionKey is the fiber.Locals key the session data is stored under.
const CurrentSessionKey = "CurrentSession"

// openPaths need no session.
var openPaths = []string{"/login", "/logout", "/metrics", "/checkalive"}

// Middleware is a Fiber middleware that rejects unauthenticated requests.
func Middleware(c *fiber.Ctx) error {
	originalURL := strings.ToLower(c.OriginalURL())

	for _, p := range openPaths {
		if strings.HasPrefix(originalURL, p) {
			return c.Next()
		}
	}

	sessionID := c.Cookies(handler.SessionCookie)
	if sessionID == "" {
		return unauthorized(c)
	}

	sessData := new(session.Data)
	if err := sessData.Read(sessionID); err != nil || sessData.UserID == "" {
		return unauthorized(c)
	}

	c.Locals(CurrentSessionKey, sessData)

	return c.Next()
}

// FromLocals returns the session data the middleware stored, or nil.
func FromLocals(c *fiber.Ctx) *session.Data {
	data, ok := c.Locals(CurrentSessionKey).(*session.Data)
	if !ok {
		return nil
	}

	return data
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "authentication required",
	})
}
