package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "HTTP_ADDR", "PORT", "CORS_ORIGINS", "CORS_ALLOW_ALL", "CORS_ALLOW_CREDENTIALS",
		"MAX_BODY_BYTES", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "SHUTDOWN_TIMEOUT",
		"LAYOUT_FILE", "DEFAULT_LAYOUT", "MINIO_ENDPOINT", "LAYOUT_BUCKET", "LAYOUT_PREFIX",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("MAX_BODY_BYTES", "52428800")
	t.Setenv("RATE_LIMIT_RPS", "0")
	t.Setenv("SHUTDOWN_TIMEOUT", "10s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.GetHTTPAddr() != ":3000" {
		t.Fatalf("expected :3000, got %q", cfg.GetHTTPAddr())
	}
	if !cfg.GetCORSAllowAll() {
		t.Fatalf("expected wildcard origin to enable allow-all")
	}
	if cfg.GetMaxBodyBytes() != 50<<20 {
		t.Fatalf("expected 50 MiB body limit, got %d", cfg.GetMaxBodyBytes())
	}
	if cfg.GetShutdownTimeout() != 10*time.Second {
		t.Fatalf("expected 10s shutdown timeout, got %s", cfg.GetShutdownTimeout())
	}
	if cfg.IsMinIOEnabled() {
		t.Fatalf("expected object storage to be disabled without endpoint")
	}
}

func TestLoadPortOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("MAX_BODY_BYTES", "1024")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.GetHTTPAddr() != ":8081" {
		t.Fatalf("expected :8081, got %q", cfg.GetHTTPAddr())
	}
}

func TestLoadHTTPAddrWinsOverPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("MAX_BODY_BYTES", "1024")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.GetHTTPAddr() != "127.0.0.1:9000" {
		t.Fatalf("expected HTTP_ADDR to win, got %q", cfg.GetHTTPAddr())
	}
}

func TestLoadRejectsBucketWithoutEndpoint(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_BODY_BYTES", "1024")
	t.Setenv("LAYOUT_BUCKET", "layouts")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when LAYOUT_BUCKET is set without MINIO_ENDPOINT")
	}
}

func TestLoadRejectsInvalidBodyLimit(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_BODY_BYTES", "lots")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric MAX_BODY_BYTES")
	}
}
