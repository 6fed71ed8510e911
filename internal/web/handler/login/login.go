// Package login implements the login endpoint. The admin account verifies
// against the local user table; every other login is delegated to the
// groepsadmin directory and followed by a profile sync.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/auth"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/config"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/db/controller/profile"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/db/models"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/web/handler"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/web/session"
)

const (
	// Path is the path to the login endpoint.
	Path = "/login"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg    *config.Config
	db     *gorm.DB
	driver *auth.Driver
}

// Handler is the login handler.
var Handler = Service{}

// request is the login request body.
type request struct {
	Login    string `json:"login" form:"login"`
	Password string `json:"password" form:"password"`
}

// response is the successful login response body.
type response struct {
	UserID      string            `json:"user_id"`
	DisplayName string            `json:"display_name"`
	Email       string            `json:"email"`
	Rights      map[string]string `json:"rights"`
}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, driver *auth.Driver) error {
	if app == nil || cfg == nil || db == nil || driver == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.driver = driver

	app.Post(Path, s.Post)

	return nil
}

// Post handles the login request.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(request)
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request")
	}

	if req.Login == "" || req.Password == "" {
		return s.unauthorized(c)
	}

	ok, err := s.verify(c, req)
	if err != nil {
		// The directory is down. Tell the user it is not their password.
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": auth.ErrUpstreamUnavailable.Error(),
		})
	}

	if !ok {
		return s.unauthorized(c)
	}

	userID, err := s.driver.ResolveRemoteID(c.UserContext(), req.Login)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": auth.ErrUpstreamUnavailable.Error(),
		})
	}

	if err := s.driver.OnSuccessfulAuth(c.UserContext(), userID); err != nil {
		if errors.Is(err, auth.ErrUpstreamUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": auth.ErrUpstreamUnavailable.Error(),
			})
		}

		log.Error().Err(err).Str("user", userID).Msg("post-login sync failed")

		return fiber.NewError(fiber.StatusInternalServerError, msgInternalError)
	}

	return s.openSession(c, userID)
}

// verify checks the credentials. The admin login is local only; everything
// else goes through the directory driver.
func (s *Service) verify(c *fiber.Ctx, req *request) (bool, error) {
	if req.Login == auth.AdminLogin {
		// Operator hash bypass applies to admin too.
		if ok, err := s.driver.CheckPassword(c.UserContext(), req.Login, req.Password); err == nil && ok {
			return true, nil
		}

		var dbUser models.User
		result := s.db.Where("username = ?", req.Login).First(&dbUser)
		if result.Error != nil {
			return false, nil
		}

		return dbUser.Active && dbUser.VerifyPassword(req.Password), nil
	}

	return s.driver.CheckPassword(c.UserContext(), req.Login, req.Password)
}

// openSession writes the session from the freshly synced profile and sets
// the cookie.
func (s *Service) openSession(c *fiber.Ctx, userID string) error {
	p, err := profile.Get(s.db, userID)
	if err != nil {
		log.Error().Err(err).Str("user", userID).Msg("failed to load synced profile")

		return fiber.NewError(fiber.StatusInternalServerError, msgInternalError)
	}

	entries, err := profile.ACL(s.db, userID)
	if err != nil {
		log.Error().Err(err).Str("user", userID).Msg("failed to load grants")

		return fiber.NewError(fiber.StatusInternalServerError, msgInternalError)
	}

	rights := make(map[string]string, len(entries))
	for _, e := range entries {
		rights[e.RepositoryID] = e.Right
	}

	sessionID := session.GenerateSessionID()

	userSession := &session.Data{
		UserID:      userID,
		DisplayName: p.DisplayName,
		Email:       p.Email,
		Rights:      rights,
	}

	if err := userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return fiber.NewError(fiber.StatusInternalServerError, msgInternalError)
	}

	cookieSettings := &fiber.Cookie{
		Name:     handler.SessionCookie,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	return c.JSON(response{
		UserID:      userID,
		DisplayName: p.DisplayName,
		Email:       p.Email,
		Rights:      rights,
	})
}

func (s *Service) unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": msgInvalidCredentials,
	})
}
