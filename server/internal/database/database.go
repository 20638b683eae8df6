// Package database opens the optional postgres archive for assembled reports.
package database

import (
	"fmt"

	"fhfa-go/server/internal/config"
	logging "fhfa-go/server/internal/logging"
	"fhfa-go/server/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is nil when the archive is disabled.
var DB *gorm.DB

// Init connects to the archive and migrates it. It does nothing when the
// archive is disabled.
func Init(log *zap.Logger, conf config.DatabaseConfig) error {
	if !conf.Enabled {
		log.Info("Report archive disabled")
		return nil
	}

	db, err := gorm.Open(postgres.Open(conf.DSN()), &gorm.Config{
		Logger: logging.NewGormZapLogger(log, logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("connect to archive: %w", err)
	}
	log.Info("Database connection established successfully.")

	if err := Migrate(db); err != nil {
		return err
	}
	log.Info("Database migrations completed successfully.")

	DB = db
	return nil
}

// Migrate creates the archive tables and their query index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.ReportRecord{}); err != nil {
		return fmt.Errorf("migrate archive: %w", err)
	}
	// AutoMigrate does not create composite indexes.
	index := `CREATE INDEX IF NOT EXISTS idx_report_records_subject ON report_records (subject_name, created_at DESC);`
	if err := db.Exec(index).Error; err != nil {
		return fmt.Errorf("create archive index: %w", err)
	}
	return nil
}
