package configs

import (
	"strings"
	"testing"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"ENVIRONMENT", "PORT", "LOG_FILE", "ALLOWED_ORIGINS", "JWT_SECRET",
		"S3_BUCKET_NAME", "S3_ENDPOINT", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY",
		"DATABASE_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDevelopmentDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		t.Errorf("development run should fall back to a default JWT secret")
	}
	if cfg.DatabaseDSN == "" {
		t.Errorf("development run should fall back to a default database DSN")
	}
	if cfg.S3Configured() {
		t.Errorf("S3Configured() = true with no S3 settings")
	}
}

func TestLoadConfigRejectsInvalidPort(t *testing.T) {
	clearConfigEnv(t)

	for _, port := range []string{"not-a-number", "80", "70000"} {
		t.Setenv("PORT", port)
		if _, err := LoadConfig(); err == nil {
			t.Errorf("PORT=%s accepted, want error", port)
		}
	}
}

func TestLoadConfigProductionRequiresSecrets(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ENVIRONMENT", "production")

	if _, err := LoadConfig(); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("missing JWT_SECRET: got %v", err)
	}

	t.Setenv("JWT_SECRET", "super-secret")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("production config accepted without S3 settings")
	}

	t.Setenv("S3_BUCKET_NAME", "bucket")
	t.Setenv("S3_ENDPOINT", "https://s3.example.com")
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")
	if _, err := LoadConfig(); err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("missing DATABASE_URL: got %v", err)
	}

	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/dmchat")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("fully configured production: %v", err)
	}
	if !cfg.S3Configured() {
		t.Errorf("S3Configured() = false with all S3 settings present")
	}
}

func TestLoadConfigParsesAllowedOrigins(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Errorf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], want[i])
		}
	}
}
