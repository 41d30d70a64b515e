package repository

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/media-review/internal/infrastructure/database"
)

func newStateRepo(t *testing.T) *StateRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if _, err := database.Migrate(db, "sqlite"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewStateRepository(db)
}

func TestStateRepository_LastWriterWins(t *testing.T) {
	ctx := context.Background()
	repo := newStateRepo(t)

	if _, ok, err := repo.Get(ctx, "review:default:display_url"); err != nil || ok {
		t.Fatalf("expected empty store ok=%v err=%v", ok, err)
	}
	if err := repo.Set(ctx, "review:default:display_url", "https://x/videos/a.mp4"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, "review:default:display_url", "https://x/videos/b.mp4"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := repo.Get(ctx, "review:default:display_url")
	if err != nil || !ok {
		t.Fatalf("get ok=%v err=%v", ok, err)
	}
	if got != "https://x/videos/b.mp4" {
		t.Fatalf("want b.mp4 got %q", got)
	}

	if err := repo.Delete(ctx, "review:default:display_url"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, "review:default:display_url"); ok {
		t.Fatalf("expected key removed")
	}
}
