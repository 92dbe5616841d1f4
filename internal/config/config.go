package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName     string
	Port        string
	LogMode     string
	CORSOrigins string

	Database DatabaseConfig

	JWTSecret string
	JWTTTL    time.Duration

	LowStockThreshold int
	DefaultCurrency   string

	AdminEmail    string
	AdminPassword string
}

type DatabaseConfig struct {
	Driver       string // postgres | sqlite
	DSN          string
	SQLitePath   string
	LogLevel     string
	MaxIdleConns int
	MaxOpenConns int
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	cfg := &Config{
		AppName:     getEnv("APP_NAME", "Aroma Inventory API"),
		Port:        getEnv("PORT", "3000"),
		LogMode:     getEnv("LOG_MODE", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", "postgres"),
			DSN:          postgresDSN(),
			SQLitePath:   getEnv("SQLITE_PATH", "inventory.db"),
			LogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
			MaxIdleConns: getInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns: getInt("DB_MAX_OPEN_CONNS", 100),
		},
		JWTSecret:         getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		JWTTTL:            time.Duration(getInt("JWT_TTL_HOURS", 24)) * time.Hour,
		LowStockThreshold: getInt("LOW_STOCK_THRESHOLD", 10),
		DefaultCurrency:   getEnv("DEFAULT_CURRENCY", "ALL"),
		AdminEmail:        getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", "admin123"),
	}
	return cfg
}

func postgresDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		getEnv("DB_NAME", "inventory"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_TIMEZONE", "Europe/Tirane"),
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Printf("Warning: invalid value %q for %s, using %d", raw, key, fallback)
		return fallback
	}
	return v
}
