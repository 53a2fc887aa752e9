package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bravo68web/repodash/internal/config"
	"github.com/bravo68web/repodash/internal/domain/models"
	"github.com/bravo68web/repodash/pkg/logger"
)

// Connection pool settings
const (
	maxIdleConns    = 10
	maxOpenConns    = 100
	connMaxLifetime = time.Hour
	connMaxIdleTime = 10 * time.Minute
)

// Database wraps the GORM database connection
type Database struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewDatabase opens a PostgreSQL connection and verifies it with a ping
func NewDatabase(ctx context.Context, cfg *config.DatabaseConfig) (*Database, error) {
	log := logger.Get().WithFields(logger.Component("database"))

	log.Info("Initializing database connection...",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("database", cfg.DBName),
		logger.String("user", cfg.User),
	)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	database := &Database{db: db, log: log}

	if err := database.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Database connection established successfully")
	return database, nil
}

// DB returns the underlying GORM database instance
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Migrate creates or updates the record tables
func (d *Database) Migrate(ctx context.Context) error {
	d.log.Info("Running schema migration")
	if err := d.db.WithContext(ctx).AutoMigrate(&models.Repo{}, &models.UploadRepo{}); err != nil {
		d.log.Error("Schema migration failed", logger.Error(err))
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Ping checks the database connection
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		d.log.Error("Database ping failed", logger.Error(err))
		return err
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	d.log.Info("Closing database connection...")

	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	return sqlDB.Close()
}

// Stats returns database connection pool statistics
func (d *Database) Stats() map[string]any {
	sqlDB, err := d.db.DB()
	if err != nil {
		return nil
	}

	stats := sqlDB.Stats()
	return map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration.String(),
	}
}
