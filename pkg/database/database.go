package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"aroma-inventory/internal/config"
	"aroma-inventory/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured store and sets up connection pooling
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  parseLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Driver) {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	case "postgres", "":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true, // Disables implicit prepared statements for pgbouncer transaction mode
		})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger,
		PrepareStmt:    false,
		TranslateError: true, // unique violations surface as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Migrate creates the tables and the indexes GORM tags cannot express
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Product{}, &model.Client{}, &model.StockHistory{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	indexes := []string{
		// product names are unique per type regardless of letter case
		`DROP INDEX IF EXISTS idx_products_name_type`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_products_lower_name_type
			ON products (lower(name), product_type)`,
		// NIPT is unique among active business clients only
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_clients_active_nipt
			ON clients (nipt) WHERE is_active = true AND nipt IS NOT NULL`,
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
