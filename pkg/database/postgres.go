package database

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-retail-ws/internal/model"
)

// Config holds the connection settings read from the environment
type Config struct {
	DSN          string
	MaxIdleConns int
	MaxOpenConns int
	LogLevel     logger.LogLevel
}

// ConfigFromEnv reads DATABASE_URL or the DB_* variables
func ConfigFromEnv() Config {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		tz := os.Getenv("DB_TIMEZONE")
		if tz == "" {
			tz = "UTC"
		}
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			os.Getenv("DB_PORT"),
			tz,
		)
	}

	cfg := Config{
		DSN:          dsn,
		MaxIdleConns: intEnv("DB_MAX_IDLE_CONNS", 10),
		MaxOpenConns: intEnv("DB_MAX_OPEN_CONNS", 100),
		LogLevel:     logger.Warn,
	}
	if os.Getenv("DB_LOG_SQL") == "true" {
		cfg.LogLevel = logger.Info
	}
	return cfg
}

func intEnv(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return def
}

func ConnectDB(cfg Config) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  cfg.LogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN,
		PreferSimpleProtocol: true, // Disables implicit prepared statements for pooled connections
	}), &gorm.Config{
		Logger:         newLogger,
		PrepareStmt:    false,
		TranslateError: true, // unique violations surface as gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// Connection Pooling Setup
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Migrate creates or updates every table used by the repository backend
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Account{},
		&model.Profile{},
		&model.Store{},
		&model.StaffMember{},
		&model.Product{},
		&model.Sale{},
		&model.Metric{},
	)
}
