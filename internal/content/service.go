// Package content orchestrates course-text generation: prompt building,
// provider invocation with fallback, and extraction/repair of the reply.
package content

import (
	"context"
	"log/slog"
	"strings"

	"github.com/coursekit/promogen/internal/domain"
	"github.com/coursekit/promogen/internal/extract"
	"github.com/coursekit/promogen/internal/prompt"
	"github.com/coursekit/promogen/internal/provider"
)

// Invoker abstracts the provider fallback invoker.
type Invoker interface {
	Invoke(ctx context.Context, p domain.Prompt) (string, provider.Candidate, error)
}

// Service implements the GenerateContent operation.
type Service struct {
	builder   *prompt.Builder
	invoker   Invoker
	extractor *extract.Extractor
	logger    *slog.Logger
}

// NewService creates the generation service.
func NewService(builder *prompt.Builder, invoker Invoker, extractor *extract.Extractor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		builder:   builder,
		invoker:   invoker,
		extractor: extractor,
		logger:    logger,
	}
}

// Generate turns course text into structured marketing content. Either
// every required field comes back populated, or a classified error does;
// partial results never surface as success.
func (s *Service) Generate(ctx context.Context, courseText string) (domain.StructuredContent, error) {
	if strings.TrimSpace(courseText) == "" {
		return nil, domain.ErrInvalidRequest("course text must not be empty")
	}

	p, err := s.builder.Build(courseText)
	if err != nil {
		return nil, err
	}

	reply, used, err := s.invoker.Invoke(ctx, p)
	if err != nil {
		return nil, err
	}

	result, err := s.extractor.Extract(reply)
	if err != nil {
		s.logger.Warn("extraction failed",
			slog.String("candidate", used.Name),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.logger.Info("content generated",
		slog.String("candidate", used.Name),
		slog.Int("fields", len(result)))
	return result, nil
}
