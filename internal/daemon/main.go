// Package daemon wires the service together: database, session storage,
// directory client, auth driver and web surface.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/storage"
	sessionmemory "github.com/gofiber/storage/memory"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/auth"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/config"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/db/dsn"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/db/models"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/groepsadmin"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/web"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := gorm.Open(dialector(cfg), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
		return nil
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.ACLEntry{},
		&models.Repository{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
		return nil
	}

	seed(cfg, db)

	session.Init(sessionStorage(cfg))

	directory := groepsadmin.NewClient(
		cfg.Groepsadmin.Endpoint,
		cfg.Groepsadmin.Group,
		cfg.Groepsadmin.Timeout,
	)

	refresher := session.NewRefresher(db, cfg.Webserver.Session.ExpiryTime)

	driver := auth.New(db, directory, auth.OSPathChecker{}, refresher, auth.Config{
		AdminPasswordSHA1: cfg.Groepsadmin.AdminPasswordSHA1,
		AdminEmail:        cfg.Groepsadmin.AdminEmail,
		EmailDomain:       cfg.Groepsadmin.EmailDomain,
		MountRoot:         cfg.Groepsadmin.MountRoot,
	})

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, driver),
	}
}

// dialector picks the gorm driver for the configured engine.
func dialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.GormEngine {
	case "postgres":
		return gormpostgres.Open(dsn.Create(cfg))
	case "sqlite":
		return sqlite.Open(dsn.Create(cfg))
	default: // mysql
		return gormmysql.Open(dsn.Create(cfg))
	}
}

// sessionStorage picks the session backend matching the database engine.
// The sqlite engine keeps sessions in memory; they do not survive a restart,
// which only costs users a new login.
func sessionStorage(cfg *config.Config) storage.Storage {
	switch cfg.DB.GormEngine {
	case "postgres":
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	case "sqlite":
		return sessionmemory.New()
	default: // mysql
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	}
}
