package config

import (
	"testing"
	"time"
)

func TestUsePostgres(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"postgres scheme", "postgres://u:p@localhost:5432/db", true},
		{"postgresql scheme", "postgresql://u:p@localhost:5432/db", true},
		{"empty falls back to sqlite", "", false},
		{"other scheme", "mysql://u:p@localhost/db", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DatabaseConfig{DATABASE_URL: tt.url}
			if got := cfg.UsePostgres(); got != tt.want {
				t.Errorf("UsePostgres() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "Production")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL", "2h")

	cfg := GetConfig()

	if !cfg.IsProduction() {
		t.Errorf("expected production config")
	}
	if cfg.Auth.AccessTokenTTL != 2*time.Hour {
		t.Errorf("AccessTokenTTL = %v, want 2h", cfg.Auth.AccessTokenTTL)
	}
	if cfg.Auth.RefreshTokenTTL != 7*24*time.Hour {
		t.Errorf("RefreshTokenTTL = %v, want 168h", cfg.Auth.RefreshTokenTTL)
	}
	if cfg.Minio.Enabled() && cfg.Minio.ENDPOINT == "" {
		t.Errorf("minio must be disabled without an endpoint")
	}
}

func TestCorsOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOW_ORIGINS", "https://lab.example.org, http://localhost:3000,")

	cfg := GetConfig()

	want := []string{"https://lab.example.org", "http://localhost:3000"}
	if len(cfg.Cors.AllowOrigins) != len(want) {
		t.Fatalf("AllowOrigins = %v, want %v", cfg.Cors.AllowOrigins, want)
	}
	for i := range want {
		if cfg.Cors.AllowOrigins[i] != want[i] {
			t.Errorf("AllowOrigins[%d] = %q, want %q", i, cfg.Cors.AllowOrigins[i], want[i])
		}
	}
}
