package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsAndLegacyEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Addr() != ":9090" {
		t.Fatalf("expected :9090, got %s", cfg.Addr())
	}
	if cfg.Auth.JWTSecret != "test-secret" {
		t.Fatalf("legacy JWT_SECRET not bound")
	}
	if cfg.Scheduling.DefaultHorizonDays != 30 || cfg.Scheduling.RegenerationTimeout != 30*time.Second {
		t.Fatalf("unexpected scheduling defaults %+v", cfg.Scheduling)
	}
}

func TestLoadFileAndPrefixedEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
auth:
  jwt_secret: from-file
scheduling:
  default_horizon_days: 14
database:
  driver: sqlite
  url: file.db
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SALON_SCHEDULING_BULK_CONCURRENCY", "8")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Scheduling.DefaultHorizonDays != 14 || cfg.Scheduling.BulkConcurrency != 8 {
		t.Fatalf("unexpected scheduling %+v", cfg.Scheduling)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("unexpected driver %s", cfg.Database.Driver)
	}
}

func TestValidateRejectsMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SALON_AUTH_JWT_SECRET", "")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error without jwt secret")
	}
}
