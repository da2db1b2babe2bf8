package provider

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/coursekit/promogen/internal/domain"
)

// InvokerOption configures the invoker.
type InvokerOption func(*Invoker)

// WithAttemptTimeout bounds each candidate call.
func WithAttemptTimeout(d time.Duration) InvokerOption {
	return func(inv *Invoker) {
		inv.attemptTimeout = d
	}
}

// WithRateLimitFailover makes a 429 behave like any other retryable failure
// instead of aborting the whole invocation.
func WithRateLimitFailover(enabled bool) InvokerOption {
	return func(inv *Invoker) {
		inv.rateLimitFailover = enabled
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) InvokerOption {
	return func(inv *Invoker) {
		inv.logger = logger
	}
}

// Invoker tries an ordered, immutable list of candidates serially until one
// returns a non-empty reply. Serial trial trades latency for availability
// across a frequently-deprecated model catalog, and keeps rate-limit
// exposure bounded.
type Invoker struct {
	candidates        []Candidate
	attemptTimeout    time.Duration
	rateLimitFailover bool
	logger            *slog.Logger
}

// NewInvoker creates an invoker over the given fallback list. The slice is
// copied; the configured order defines priority.
func NewInvoker(candidates []Candidate, opts ...InvokerOption) *Invoker {
	inv := &Invoker{
		candidates:     make([]Candidate, len(candidates)),
		attemptTimeout: 30 * time.Second,
		logger:         slog.Default(),
	}
	copy(inv.candidates, candidates)

	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Invoke walks the candidate list in order. First non-empty success wins.
// Timeouts, transport failures, 5xx, unknown models, and empty replies move
// on to the next candidate. Missing credentials abort immediately, as does
// rate limiting unless failover is configured. When every candidate fails,
// the returned error wraps the last observed failure.
func (inv *Invoker) Invoke(ctx context.Context, p domain.Prompt) (string, Candidate, error) {
	if len(inv.candidates) == 0 {
		return "", Candidate{}, domain.ErrInternal("no provider candidates configured")
	}

	tracer := otel.Tracer("promogen/provider")

	var lastErr error
	for _, cand := range inv.candidates {
		if err := ctx.Err(); err != nil {
			// Caller aborted; don't start further upstream calls.
			return "", Candidate{}, domain.ErrUpstreamUnavailable("invocation canceled").WithCause(err)
		}

		reply, err := inv.attempt(ctx, tracer, cand, p)
		if err == nil {
			if strings.TrimSpace(reply) == "" {
				lastErr = domain.NewAPIError(domain.ErrorTypeUpstreamUnavailable, "empty completion").
					WithCode(domain.ErrorCodeEmptyCompletion).
					WithProvider(cand.Name)
				inv.logger.Warn("candidate returned empty reply",
					slog.String("candidate", cand.Name))
				continue
			}
			return reply, cand, nil
		}

		switch domain.ErrorTypeOf(err) {
		case domain.ErrorTypeMissingCredential:
			// Fallback cannot fix a missing or rejected API key.
			return "", Candidate{}, err
		case domain.ErrorTypeRateLimited:
			if !inv.rateLimitFailover {
				return "", Candidate{}, err
			}
			lastErr = err
			inv.logger.Warn("candidate rate limited, failing over",
				slog.String("candidate", cand.Name))
		case domain.ErrorTypeNotFound:
			// Expected during provider model migrations.
			lastErr = err
			inv.logger.Debug("candidate model not found",
				slog.String("candidate", cand.Name),
				slog.String("model", cand.Model))
		default:
			lastErr = err
			inv.logger.Warn("candidate attempt failed",
				slog.String("candidate", cand.Name),
				slog.String("error", err.Error()))
		}
	}

	return "", Candidate{}, domain.ErrProviderExhausted("all provider candidates failed", lastErr)
}

func (inv *Invoker) attempt(ctx context.Context, tracer trace.Tracer, cand Candidate, p domain.Prompt) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, inv.attemptTimeout)
	defer cancel()

	attemptCtx, span := tracer.Start(attemptCtx, "provider.attempt")
	span.SetAttributes(
		attribute.String("candidate", cand.Name),
		attribute.String("model", cand.Model),
	)
	defer span.End()

	start := time.Now()
	reply, err := cand.Provider.Complete(attemptCtx, p)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if attemptCtx.Err() == context.DeadlineExceeded {
			return "", domain.ErrUpstreamUnavailable("candidate timed out").
				WithProvider(cand.Name).
				WithCause(err)
		}
		return "", err
	}

	inv.logger.Info("candidate completed",
		slog.String("candidate", cand.Name),
		slog.Duration("duration", time.Since(start)))
	return reply, nil
}
