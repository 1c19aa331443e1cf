package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "dev" {
		t.Fatalf("expected App.Env to be dev, got %q", cfg.App.Env)
	}
	if cfg.Cart.StorageKey != "cart.items" {
		t.Fatalf("unexpected storage key %q", cfg.Cart.StorageKey)
	}
	if cfg.Cart.TaxRate != 0.10 {
		t.Fatalf("expected default tax rate 0.10, got %v", cfg.Cart.TaxRate)
	}
	if got := cfg.Cart.PersistTimeout; got != 2*time.Second {
		t.Fatalf("expected persist timeout 2s, got %v", got)
	}
	if cfg.Cart.MaxSessions != 1024 {
		t.Fatalf("expected max sessions 1024, got %d", cfg.Cart.MaxSessions)
	}
	if cfg.Storage.Driver != StorageDriverMemory {
		t.Fatalf("expected memory driver by default, got %q", cfg.Storage.Driver)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RedisDriverNeedsAddress(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageDriver, StorageDriverRedis)

	if _, err := Load(); err == nil {
		t.Fatal("expected redis driver without url to fail")
	}

	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}
}

func TestLoad_PostgresBuildsDSNFromParts(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageDriver, StorageDriverPostgres)
	t.Setenv(EnvDBHost, "db.local")
	t.Setenv(EnvDBUser, "cart")
	t.Setenv(EnvDBName, "carts")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DB.DSN != "postgres://cart@db.local:5432/carts?sslmode=disable" {
		t.Fatalf("unexpected DSN %q", cfg.DB.DSN)
	}
}

func TestLoad_RejectsUnknownDriverAndNegativeTax(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageDriver, "mongo")
	if _, err := Load(); err == nil {
		t.Fatal("expected unknown driver to fail")
	}

	unsetEnv(t, EnvStorageDriver)
	t.Setenv(EnvTaxRate, "-0.5")
	if _, err := Load(); err == nil {
		t.Fatal("expected negative tax rate to fail")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "dev")
	t.Setenv(EnvPort, "8081")
	for _, key := range []string{
		EnvStorageDriver,
		EnvTaxRate,
		EnvStorageKey,
		EnvPersistTimeout,
		EnvRedisURL,
		EnvRedisAddr,
		EnvDBDSN,
		EnvDBHost,
		EnvDBUser,
		EnvDBName,
	} {
		unsetEnv(t, key)
	}
}

// unsetEnv clears key for the test; envconfig only applies defaults to unset keys.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset %s: %v", key, err)
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
