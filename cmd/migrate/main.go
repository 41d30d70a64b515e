package main

import (
	"context"
	"log"
	"os"

	migrate "github.com/rubenv/sql-migrate"

	"github.com/johnquangdev/media-review/internal/infrastructure/database"
	"github.com/johnquangdev/media-review/pkg/config"
)

// Usage: migrate [up|down]
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	direction := migrate.Up
	if len(os.Args) > 1 && os.Args[1] == "down" {
		direction = migrate.Down
	}

	// Initialize database using GORM
	db, err := database.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database connection: %v", err)
	}

	dialect := cfg.Store.Backend
	if dialect == "sqlite" {
		dialect = "sqlite3"
	}

	log.Printf("🔄 Applying %s migrations...", map[migrate.MigrationDirection]string{migrate.Up: "up", migrate.Down: "down"}[direction])
	n, err := migrate.Exec(sqlDB, dialect, database.Migrations(), direction)
	if err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	log.Printf("✅ Successfully applied %d migration(s)!\n", n)
}
