// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/db"
)

// NewDB returns a migrated sqlite database in the test's temp dir.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "salon.db")
	cfg := config.DatabaseConfig{
		Driver:      "sqlite",
		URL:         path + "?_busy_timeout=5000&_foreign_keys=on",
		AutoMigrate: true,
	}

	conn, err := db.NewDB(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Migrate(conn, cfg, zap.NewNop()); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	t.Cleanup(func() { _ = db.Close(conn) })
	return conn
}
