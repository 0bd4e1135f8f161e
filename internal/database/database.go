package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tesseract-hub/crm-service/internal/config"
	"github.com/tesseract-hub/crm-service/internal/models"
)

// Connect establishes the database connection and configures the pool
func Connect(cfg config.DatabaseConfig, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// EnsureDatabase creates the service database when it does not exist yet,
// connecting through the maintenance database to issue the CREATE DATABASE.
func EnsureDatabase(cfg *config.Config, logger *logrus.Logger) error {
	maintDB, err := gorm.Open(postgres.Open(cfg.GetMaintenanceDSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to maintenance database: %w", err)
	}
	sqlDB, err := maintDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying maintenance database: %w", err)
	}
	defer sqlDB.Close()

	var exists bool
	err = maintDB.Raw("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = ?)", cfg.Database.DBName).
		Scan(&exists).Error
	if err != nil {
		return fmt.Errorf("failed to check database existence: %w", err)
	}
	if exists {
		return nil
	}

	// Identifiers cannot be bound as parameters, so the name is sanitized
	// before interpolation.
	name := sanitizeIdentifier(cfg.Database.DBName)
	if err := maintDB.Exec(fmt.Sprintf(`CREATE DATABASE %q`, name)).Error; err != nil {
		return fmt.Errorf("failed to create database %s: %w", name, err)
	}

	logger.WithField("database", name).Info("Created database")
	return nil
}

// Migrate creates or updates each table independently, so one broken table
// does not block the rest. It fails only when no table could be verified.
func Migrate(db *gorm.DB, logger *logrus.Logger) error {
	tables := []struct {
		name  string
		model interface{}
	}{
		{"customers", &models.Customer{}},
		{"opportunities", &models.Opportunity{}},
		{"tasks", &models.Task{}},
		{"interaction_log", &models.InteractionLog{}},
		{"users", &models.User{}},
	}

	migrated := 0
	for _, table := range tables {
		if err := db.AutoMigrate(table.model); err != nil {
			logger.WithError(err).WithField("table", table.name).Warn("Failed to migrate table")
			continue
		}
		migrated++
	}

	if migrated == 0 {
		return fmt.Errorf("failed to migrate any table")
	}

	logger.WithFields(logrus.Fields{
		"migrated": migrated,
		"total":    len(tables),
	}).Info("Database migrations completed")

	return nil
}

func sanitizeIdentifier(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return -1
	}, name)
}
