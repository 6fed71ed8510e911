package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/config"
	"github.com/GoGroepsadmin-Auth/GoGroepsadmin-Auth/internal/db/models"
)

func seed(cfg *config.Config, db *gorm.DB) {
	// Seed the local admin account if the user table is empty.

	var count int64
	db.Model(&models.User{}).Count(&count)

	if count == 0 {
		db.Create(
			&models.User{
				Username: "admin",
				Email:    cfg.Groepsadmin.AdminEmail,
				Password: models.HashPassword("changeme"),
				Active:   true,
			},
		)

		log.Warn().Msg("created default admin user with password 'changeme', change it")
	}
}
