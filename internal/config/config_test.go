package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/coursekit/promogen/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	wantFields := []string{"twitterThread", "salesEmail", "instagramPost", "tiktokScript"}
	if len(cfg.Content.RequiredFields) != len(wantFields) {
		t.Fatalf("RequiredFields = %v", cfg.Content.RequiredFields)
	}
	for i, f := range wantFields {
		if cfg.Content.RequiredFields[i] != f {
			t.Errorf("RequiredFields[%d] = %q, want %q", i, cfg.Content.RequiredFields[i], f)
		}
	}
	if cfg.Content.Aliases["twitterThread"] != "twitter" {
		t.Errorf("Aliases[twitterThread] = %q", cfg.Content.Aliases["twitterThread"])
	}
	if cfg.Content.DefaultPlaceholder == "" {
		t.Error("DefaultPlaceholder is empty")
	}
	if cfg.Auth.RequiredAccessLevel != "admin" {
		t.Errorf("RequiredAccessLevel = %q, want admin", cfg.Auth.RequiredAccessLevel)
	}
	if cfg.Providers.RateLimitFailover {
		t.Error("RateLimitFailover defaults on, want off")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PROMOGEN_SERVER_PORT", "9999")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 7070
providers:
  attempt_timeout: 5s
  candidates:
    - name: groq-llama
      type: openai
      model: llama-3.1-8b-instant
      api_key: key-1
      base_url: https://api.groq.com/openai/v1
    - name: claude
      type: anthropic
      model: claude-3-5-haiku-latest
      api_key: key-2
auth:
  signing_key: sekrit
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if len(cfg.Providers.Candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(cfg.Providers.Candidates))
	}
	if cfg.Providers.Candidates[0].Name != "groq-llama" {
		t.Errorf("candidate order not preserved: %q first", cfg.Providers.Candidates[0].Name)
	}
	if cfg.Providers.Candidates[1].Type != "anthropic" {
		t.Errorf("Candidates[1].Type = %q", cfg.Providers.Candidates[1].Type)
	}
	if cfg.Auth.SigningKey != "sekrit" {
		t.Errorf("SigningKey = %q", cfg.Auth.SigningKey)
	}
	if got := config.Duration(cfg.Providers.AttemptTimeout, 30*time.Second); got != 5*time.Second {
		t.Errorf("AttemptTimeout = %v, want 5s", got)
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		in   string
		def  time.Duration
		want time.Duration
	}{
		{"", time.Minute, time.Minute},
		{"15s", time.Minute, 15 * time.Second},
		{"garbage", time.Minute, time.Minute},
	}
	for _, tt := range tests {
		if got := config.Duration(tt.in, tt.def); got != tt.want {
			t.Errorf("Duration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
