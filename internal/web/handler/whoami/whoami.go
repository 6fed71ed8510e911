// Package whoami exposes the session's identity and rights snapshot, the
// surface the host platform polls to build its workspace list.
package whoami

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/config"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/web/handler"
	middleware "github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/web/middleware/auth"
)

// Path is the path to the whoami endpoint.
const Path = "/whoami"

// Service is the whoami handler service.
type Service struct {
	cfg *config.Config
}

// Handler is the whoami handler.
var Handler = Service{}

// Init initializes the whoami handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config) {
	if app == nil || cfg == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg

	app.Get(Path, s.Get)
}

// Get returns the authenticated session's data.
func (s *Service) Get(c *fiber.Ctx) error {
	sessData := middleware.FromLocals(c)
	if sessData == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	}

	return c.JSON(sessData)
}
