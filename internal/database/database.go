package database

import (
	"github.com/athletix/events-api/internal/config"
	"github.com/athletix/events-api/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Registration{},
		&models.ModerationLog{},
		&models.APIKey{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to auto migrate")
	}

	return db
}
