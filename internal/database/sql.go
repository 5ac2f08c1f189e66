package database

import (
	"embed"
	"fmt"

	"dashboard/internal/configuration"
	"dashboard/internal/models"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

func dialector(config models.DatabaseConfiguration) (gorm.Dialector, string) {
	if config.Type == configuration.DatabaseSQLite {
		return sqlite.Open(config.Path), "sqlite3"
	}

	sslMode := config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		config.Host, config.User, config.Password, config.Name, config.Port, sslMode,
	)
	return postgres.Open(dsn), "postgres"
}

// Migrate applies the embedded goose migrations.
func Migrate(db *gorm.DB, dialect string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql handle: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err = goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err = goose.Up(sqlDB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func InitDB(config models.DatabaseConfiguration) *gorm.DB {
	dial, dialect := dialector(config)

	db, err := gorm.Open(dial, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		zap.L().Fatal("Failed to connect to database", zap.String("type", config.Type), zap.Error(err))
	}

	if err = Migrate(db, dialect); err != nil {
		zap.L().Fatal("Failed to migrate database", zap.Error(err))
	}

	zap.L().Info("Database ready", zap.String("type", config.Type))
	return db
}
