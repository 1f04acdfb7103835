package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/config"
	"github.com/ahmetcoskunkizilkaya/social-notifications/internal/models"
	"gorm.io/driver/postgres"
	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: slogGorm.New(slogGorm.WithLogger(slog.Default())),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// Migrate creates the graph tables: nodes, edges and the uniqueness indexes
// the upserts rely on.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Block{},
		&models.Notification{},
		&models.Report{},
		&models.FiledReport{},
		&models.ReportReview{},
		&models.SystemLog{},
	)
}

// MigrateShared migrates the package-level connection.
func MigrateShared() error {
	return Migrate(DB)
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
