package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	gormModels "boba-atlas/importer/internal/models/gorm"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitPostgresORM opens GORM over an existing lib/pq pool
func InitPostgresORM(sqlDB *sql.DB) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	return db, nil
}

// Migrate creates or upgrades the tables the importer owns.
// zip_code is maintained outside the importer and is not touched.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&gormModels.BubbleTea{},
		&gormModels.Hours{},
		&gormModels.ImportRun{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
