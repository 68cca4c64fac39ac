package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file must yield defaults, got %v", err)
	}
	def := Default()
	if cfg.Server.Port != def.Server.Port || cfg.Storage.DataDir != def.Storage.DataDir {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9090"
simulation:
  start_delay: 500ms
auth:
  jwt_secret: s3cret
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Simulation.StartDelay != "500ms" {
		t.Fatalf("start_delay = %q", cfg.Simulation.StartDelay)
	}
	if cfg.Auth.JWTSecret != "s3cret" {
		t.Fatalf("jwt_secret = %q", cfg.Auth.JWTSecret)
	}
	// Fields absent from the file keep defaults.
	if cfg.Directory.BaseURL != Default().Directory.BaseURL {
		t.Fatalf("directory base url lost its default: %q", cfg.Directory.BaseURL)
	}
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestParseDuration(t *testing.T) {
	if got := ParseDuration("250ms", time.Second); got != 250*time.Millisecond {
		t.Fatalf("valid duration: %v", got)
	}
	if got := ParseDuration("", time.Second); got != time.Second {
		t.Fatalf("empty falls back: %v", got)
	}
	if got := ParseDuration("garbage", time.Second); got != time.Second {
		t.Fatalf("invalid falls back: %v", got)
	}
	if got := ParseDuration("-5s", time.Second); got != time.Second {
		t.Fatalf("non-positive falls back: %v", got)
	}
}
