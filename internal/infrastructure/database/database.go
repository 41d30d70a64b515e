package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	migrate "github.com/rubenv/sql-migrate"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/media-review/pkg/config"
)

// connectAttempts bounds the startup ping retries
const connectAttempts = 5

// Open creates the GORM connection for the SQL-backed reviewer state store
func Open(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Store.Backend {
	case "postgres":
		dialector = postgres.Open(cfg.Store.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.Store.DSN)
	default:
		return nil, fmt.Errorf("store backend %q is not SQL", cfg.Store.Backend)
	}

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.Server.Environment == "production" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	if cfg.Store.Backend == "sqlite" {
		// single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(5)
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), connectAttempts)
	if err := backoff.Retry(func() error {
		return sqlDB.PingContext(ctx)
	}, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("✅ Database connected successfully (%s)", cfg.Store.Backend)

	return db, nil
}

// Migrate applies the embedded schema migrations
func Migrate(db *gorm.DB, dialect string) (int, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get db connection during migrate up, error: %v", err)
	}

	if dialect == "sqlite" {
		dialect = "sqlite3"
	}
	n, err := migrate.Exec(sqlDB, dialect, Migrations(), migrate.Up)
	if err != nil {
		return 0, fmt.Errorf("failed to apply migration, error: %v", err)
	}
	return n, nil
}

// Migrations returns the schema history of the reviewer state store
func Migrations() *migrate.MemoryMigrationSource {
	return &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "0001_reviewer_state",
				Up: []string{
					`CREATE TABLE IF NOT EXISTS reviewer_state (
						state_key VARCHAR(255) PRIMARY KEY,
						value TEXT NOT NULL,
						updated_at TIMESTAMP NOT NULL
					)`,
				},
				Down: []string{`DROP TABLE IF EXISTS reviewer_state`},
			},
		},
	}
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("✅ Database connection closed")
	return nil
}
