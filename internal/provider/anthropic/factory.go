package anthropic

import (
	"github.com/coursekit/promogen/internal/config"
	"github.com/coursekit/promogen/internal/provider"
)

// ProviderType is the provider type identifier used in configuration.
const ProviderType = "anthropic"

func init() {
	provider.RegisterFactory(provider.Factory{
		Type:        ProviderType,
		Description: "Anthropic Messages API provider (Claude models)",
		Create:      CreateFromConfig,
	})
}

// CreateFromConfig creates a provider from candidate configuration.
func CreateFromConfig(cfg config.CandidateConfig) (provider.Provider, error) {
	var opts []ProviderOption
	if cfg.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.BaseURL))
	}
	return New(cfg.APIKey, cfg.Model, opts...), nil
}
