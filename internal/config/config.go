package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Providers ProvidersConfig `koanf:"providers"`
	Content   ContentConfig   `koanf:"content"`
	Auth      AuthConfig      `koanf:"auth"`
	Catalog   CatalogConfig   `koanf:"catalog"`
}

type ServerConfig struct {
	Port           int    `koanf:"port"`
	RequestTimeout string `koanf:"request_timeout"` // Duration string like "60s"
}

// CandidateConfig describes one (vendor, model) pair in the ordered fallback
// list. List order is the fallback priority; the shipped default is
// fastest-first.
type CandidateConfig struct {
	Name    string `koanf:"name"`
	Type    string `koanf:"type"` // openai, anthropic
	Model   string `koanf:"model"`
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url"`
}

type ProvidersConfig struct {
	Candidates []CandidateConfig `koanf:"candidates"`

	// AttemptTimeout bounds each individual candidate call.
	AttemptTimeout string `koanf:"attempt_timeout"`

	// RateLimitFailover treats a 429 like any other retryable failure
	// instead of aborting the whole invocation. Off by default: if the
	// account itself is throttled, trying more candidates will not help.
	RateLimitFailover bool `koanf:"rate_limit_failover"`
}

type ContentConfig struct {
	// RequiredFields is the closed set of canonical field names every
	// successful generation must populate.
	RequiredFields []string `koanf:"required_fields"`

	// Aliases maps canonical field names to the legacy names older
	// collaborators still read and some provider replies still emit.
	Aliases map[string]string `koanf:"aliases"`

	// FieldHints are the per-field instructions embedded in the prompt.
	FieldHints map[string]string `koanf:"field_hints"`

	// Placeholders substitute for fields the provider failed to produce.
	Placeholders map[string]string `koanf:"placeholders"`

	// DefaultPlaceholder covers fields without a specific placeholder.
	DefaultPlaceholder string `koanf:"default_placeholder"`

	// PromptTokenBudget caps the rendered user prompt. 0 disables the check.
	PromptTokenBudget int `koanf:"prompt_token_budget"`

	// SchemaVersion is embedded in the prompt as the shape marker.
	SchemaVersion string `koanf:"schema_version"`
}

type AuthConfig struct {
	// SigningKey verifies caller user tokens (HS256).
	SigningKey string `koanf:"signing_key"`

	// Issuer, when set, must match the token's iss claim.
	Issuer string `koanf:"issuer"`

	// RequiredAccessLevel gates product listing. Default "admin".
	RequiredAccessLevel string `koanf:"required_access_level"`
}

type CatalogConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
	Timeout string `koanf:"timeout"`
}

// Duration parses a duration string with a fallback default.
func Duration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// Load reads configuration from an optional yaml file layered under
// PROMOGEN_-prefixed environment variables. Defaults are applied for
// anything neither source provides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	applyDefaults(k)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	// Environment variables override the file:
	// PROMOGEN_SERVER_PORT -> server.port
	if err := k.Load(env.Provider("PROMOGEN_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "PROMOGEN_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(k *koanf.Koanf) {
	k.Set("server.port", 8080)
	k.Set("server.request_timeout", "60s")
	k.Set("providers.attempt_timeout", "30s")
	k.Set("content.required_fields", []string{
		"twitterThread", "salesEmail", "instagramPost", "tiktokScript",
	})
	k.Set("content.aliases", map[string]string{
		"twitterThread": "twitter",
		"salesEmail":    "email",
		"instagramPost": "instagram",
		"tiktokScript":  "tiktok",
	})
	k.Set("content.field_hints", map[string]string{
		"twitterThread": "5 tweet thread about the course (separate tweets with ---)",
		"salesEmail":    "Sales email with subject and body",
		"instagramPost": "Instagram caption with emojis and hashtags",
		"tiktokScript":  "60-second TikTok script with [HOOK], [CONTENT], [CTA]",
	})
	k.Set("content.default_placeholder", "Content generation failed. Please try again.")
	k.Set("content.schema_version", "v2")
	k.Set("auth.required_access_level", "admin")
	k.Set("catalog.timeout", "15s")
}
