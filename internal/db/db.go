package db

import (
	"fmt"
	"time"

	"councilboard/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to PostgreSQL and migrates the schema.
func Open(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), Config())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("Database connection established")

	if err := Migrate(conn); err != nil {
		return nil, err
	}
	log.Info("Database migration completed")

	return conn, nil
}

// Config is the gorm configuration shared by production and tests.
// TranslateError maps driver unique violations to gorm.ErrDuplicatedKey.
func Config() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

// Migrate creates or updates all tables.
func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&models.Identity{},
		&models.Issue{},
		&models.Announcement{},
		&models.Comment{},
		&models.Vote{},
		&models.CouncilMember{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}
