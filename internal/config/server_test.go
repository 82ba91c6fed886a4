package config

import "testing"

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/balatro?sslmode=disable")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.MaxUploadMB != 10 {
		t.Fatalf("MaxUploadMB = %d, want 10", cfg.MaxUploadMB)
	}
	if cfg.ScreenshotDir == "" {
		t.Fatal("ScreenshotDir should have a default")
	}
}

func TestLoadServerRequiresPostgresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")

	_, err := LoadServer()
	if err == nil {
		t.Fatal("LoadServer() expected error, got nil")
	}
}

func TestLoadServerParseTypes(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/balatro?sslmode=disable")
	t.Setenv("MAX_UPLOAD_MB", "25")
	t.Setenv("SCREENSHOT_DIR", "/tmp/shots")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.MaxUploadMB != 25 {
		t.Fatalf("MaxUploadMB = %d, want 25", cfg.MaxUploadMB)
	}
	if cfg.ScreenshotDir != "/tmp/shots" {
		t.Fatalf("ScreenshotDir = %q, want /tmp/shots", cfg.ScreenshotDir)
	}
}
