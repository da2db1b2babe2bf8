// Package provider defines the generative-text provider abstraction, the
// factory registry that builds candidates from configuration, and the
// ordered-fallback invoker.
package provider

import (
	"context"

	"github.com/coursekit/promogen/internal/domain"
)

// Provider is one configured (vendor, model) pair capable of serving a
// generative-text request. Implementations classify upstream failures into
// domain.APIError so the invoker can apply its fallback policy.
type Provider interface {
	// Name returns the provider identifier, e.g. "openai".
	Name() string

	// Complete sends the prompt and returns the raw reply text. The reply
	// is expected, but not guaranteed, to contain a single JSON object.
	Complete(ctx context.Context, p domain.Prompt) (string, error)
}

// Candidate is one entry of the ordered fallback list.
type Candidate struct {
	// Name identifies the candidate in logs and diagnostics.
	Name string

	// Model is the model identifier the candidate was configured with.
	Model string

	// Provider issues the actual calls.
	Provider Provider
}
