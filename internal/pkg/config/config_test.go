package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}

	if cfg.Port != "8080" || cfg.Storage != StorageMongo {
		t.Errorf("unexpected defaults: port=%q storage=%q", cfg.Port, cfg.Storage)
	}
	if cfg.Auth.AccessTokenTTL != 5*time.Minute || cfg.Auth.RefreshTokenTTL != 24*time.Hour {
		t.Errorf("unexpected TTLs: %v %v", cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	}
	if cfg.Argon2.MemoryKiB != 64*1024 || cfg.Argon2.Iterations != 3 || cfg.Argon2.Parallelism != 2 {
		t.Errorf("unexpected argon2 defaults: %+v", cfg.Argon2)
	}
	if !cfg.Redis.BlacklistCache {
		t.Errorf("blacklist cache should default to on")
	}
	if !cfg.IsDevelopment() {
		t.Errorf("expected development environment by default")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":        "s3cret",
		"ENV":               "production",
		"STORAGE":           "memory",
		"ACCESS_TOKEN_TTL":  "1m",
		"REFRESH_TOKEN_TTL": "2h",
		"AUDIT_WORKERS":     "8",
		"REDIS_DB":          "3",
		"BLACKLIST_CACHE":   "false",
	}))
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}

	if cfg.Storage != StorageMemory || cfg.Audit.Workers != 8 || cfg.Redis.DB != 3 || cfg.Redis.BlacklistCache {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Auth.AccessTokenTTL != time.Minute || cfg.Auth.RefreshTokenTTL != 2*time.Hour {
		t.Errorf("unexpected TTLs: %v %v", cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	}
	if cfg.IsDevelopment() {
		t.Errorf("production must not be development")
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"unknown storage", map[string]string{"JWT_SECRET": "s", "STORAGE": "postgres"}},
		{"access not shorter than refresh", map[string]string{"JWT_SECRET": "s", "ACCESS_TOKEN_TTL": "2h", "REFRESH_TOKEN_TTL": "1h"}},
		{"bad duration", map[string]string{"JWT_SECRET": "s", "ACCESS_TOKEN_TTL": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(tt.env)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
