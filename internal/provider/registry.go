package provider

import (
	"fmt"
	"sync"

	"github.com/coursekit/promogen/internal/config"
)

// Factory defines how to create a provider of a specific type. Each vendor
// package registers a factory from init(); vendor packages must be imported
// (via blank import in internal/registration) for the init to run.
type Factory struct {
	// Type is the provider type identifier used in configuration
	// (e.g. "openai", "anthropic").
	Type string

	// Description is a human-readable description of the provider.
	Description string

	// Create instantiates a provider from candidate configuration.
	Create func(cfg config.CandidateConfig) (Provider, error)
}

var (
	factoryMu  sync.RWMutex
	factoryMap = make(map[string]Factory)
)

// RegisterFactory registers a provider factory for a specific type.
// Panics if a factory with the same type is already registered.
func RegisterFactory(f Factory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()

	if f.Type == "" {
		panic("provider factory type cannot be empty")
	}
	if f.Create == nil {
		panic(fmt.Sprintf("provider factory %q must have a Create function", f.Type))
	}
	if _, exists := factoryMap[f.Type]; exists {
		panic(fmt.Sprintf("provider factory %q already registered", f.Type))
	}

	factoryMap[f.Type] = f
}

// Registry creates provider candidates from configuration.
type Registry struct{}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// CreateCandidate creates one candidate from configuration.
func (r *Registry) CreateCandidate(cfg config.CandidateConfig) (Candidate, error) {
	factoryMu.RLock()
	f, ok := factoryMap[cfg.Type]
	factoryMu.RUnlock()
	if !ok {
		return Candidate{}, fmt.Errorf("unknown provider type: %q", cfg.Type)
	}

	p, err := f.Create(cfg)
	if err != nil {
		return Candidate{}, fmt.Errorf("create provider %q: %w", cfg.Type, err)
	}

	name := cfg.Name
	if name == "" {
		name = cfg.Type + "/" + cfg.Model
	}
	return Candidate{Name: name, Model: cfg.Model, Provider: p}, nil
}

// CreateCandidates builds the ordered fallback list. Configuration order is
// preserved: it is the fallback priority.
func (r *Registry) CreateCandidates(cfgs []config.CandidateConfig) ([]Candidate, error) {
	candidates := make([]Candidate, 0, len(cfgs))
	for _, cfg := range cfgs {
		c, err := r.CreateCandidate(cfg)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}
