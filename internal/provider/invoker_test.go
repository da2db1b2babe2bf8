package provider_test

import (
	"context"
	"testing"
	"time"

	"github.com/coursekit/promogen/internal/domain"
	"github.com/coursekit/promogen/internal/provider"
)

// stubProvider scripts one outcome per candidate and records calls.
type stubProvider struct {
	name   string
	reply  string
	err    error
	delay  time.Duration
	called int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Complete(ctx context.Context, p domain.Prompt) (string, error) {
	s.called++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.reply, s.err
}

func candidate(name string, p *stubProvider) provider.Candidate {
	return provider.Candidate{Name: name, Model: "test-model", Provider: p}
}

var prompt = domain.Prompt{System: "sys", User: "user"}

func TestInvoke_FirstSuccessWins(t *testing.T) {
	a := &stubProvider{name: "a", err: domain.ErrNotFound("no such model").WithCode(domain.ErrorCodeModelNotFound)}
	b := &stubProvider{name: "b", delay: time.Second}
	c := &stubProvider{name: "c", reply: `{"ok":"yes"}`}
	d := &stubProvider{name: "d", reply: `{"ok":"never"}`}

	inv := provider.NewInvoker(
		[]provider.Candidate{candidate("a", a), candidate("b", b), candidate("c", c), candidate("d", d)},
		provider.WithAttemptTimeout(50*time.Millisecond),
	)

	reply, used, err := inv.Invoke(context.Background(), prompt)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if reply != `{"ok":"yes"}` {
		t.Errorf("reply = %q", reply)
	}
	if used.Name != "c" {
		t.Errorf("used = %q, want c", used.Name)
	}
	if d.called != 0 {
		t.Errorf("fourth candidate was invoked %d times, want 0", d.called)
	}
}

func TestInvoke_RateLimitAbortsImmediately(t *testing.T) {
	a := &stubProvider{name: "a", err: domain.ErrRateLimited("throttled")}
	b := &stubProvider{name: "b", reply: "never tried"}

	inv := provider.NewInvoker([]provider.Candidate{candidate("a", a), candidate("b", b)})

	_, _, err := inv.Invoke(context.Background(), prompt)
	if err == nil {
		t.Fatal("Invoke() expected error, got nil")
	}
	if domain.ErrorTypeOf(err) != domain.ErrorTypeRateLimited {
		t.Errorf("error type = %q, want rate_limited", domain.ErrorTypeOf(err))
	}
	if b.called != 0 {
		t.Errorf("second candidate was invoked after 429")
	}
}

func TestInvoke_RateLimitFailoverContinues(t *testing.T) {
	a := &stubProvider{name: "a", err: domain.ErrRateLimited("throttled")}
	b := &stubProvider{name: "b", reply: `{"ok":"yes"}`}

	inv := provider.NewInvoker(
		[]provider.Candidate{candidate("a", a), candidate("b", b)},
		provider.WithRateLimitFailover(true),
	)

	_, used, err := inv.Invoke(context.Background(), prompt)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if used.Name != "b" {
		t.Errorf("used = %q, want b", used.Name)
	}
}

func TestInvoke_MissingCredentialIsFatal(t *testing.T) {
	a := &stubProvider{name: "a", err: domain.ErrMissingCredential("no api key")}
	b := &stubProvider{name: "b", reply: "never tried"}

	inv := provider.NewInvoker([]provider.Candidate{candidate("a", a), candidate("b", b)})

	_, _, err := inv.Invoke(context.Background(), prompt)
	if domain.ErrorTypeOf(err) != domain.ErrorTypeMissingCredential {
		t.Fatalf("error type = %q, want missing_credential", domain.ErrorTypeOf(err))
	}
	if b.called != 0 {
		t.Errorf("fallback ran after credential failure")
	}
}

func TestInvoke_EmptyReplyIsFailure(t *testing.T) {
	a := &stubProvider{name: "a", reply: "   \n"}
	b := &stubProvider{name: "b", reply: `{"ok":"yes"}`}

	inv := provider.NewInvoker([]provider.Candidate{candidate("a", a), candidate("b", b)})

	_, used, err := inv.Invoke(context.Background(), prompt)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if used.Name != "b" {
		t.Errorf("used = %q, want b", used.Name)
	}
}

func TestInvoke_ExhaustedCarriesLastError(t *testing.T) {
	a := &stubProvider{name: "a", err: domain.ErrNotFound("gone")}
	b := &stubProvider{name: "b", err: domain.ErrUpstreamUnavailable("boom")}

	inv := provider.NewInvoker([]provider.Candidate{candidate("a", a), candidate("b", b)})

	_, _, err := inv.Invoke(context.Background(), prompt)
	if err == nil {
		t.Fatal("Invoke() expected error, got nil")
	}
	apiErr, ok := domain.AsAPIError(err)
	if !ok {
		t.Fatalf("error is not *domain.APIError: %v", err)
	}
	if apiErr.Type != domain.ErrorTypeProviderExhausted {
		t.Errorf("type = %q, want provider_exhausted", apiErr.Type)
	}
	if apiErr.Err == nil {
		t.Error("exhausted error carries no cause")
	}
}

func TestInvoke_TimeoutMovesToNextCandidate(t *testing.T) {
	slow := &stubProvider{name: "slow", delay: 500 * time.Millisecond, reply: "late"}
	fast := &stubProvider{name: "fast", reply: `{"ok":"yes"}`}

	inv := provider.NewInvoker(
		[]provider.Candidate{candidate("slow", slow), candidate("fast", fast)},
		provider.WithAttemptTimeout(20*time.Millisecond),
	)

	start := time.Now()
	_, used, err := inv.Invoke(context.Background(), prompt)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if used.Name != "fast" {
		t.Errorf("used = %q, want fast", used.Name)
	}
	if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
		t.Errorf("invocation blocked on slow candidate: %v", elapsed)
	}
}

func TestInvoke_CallerCancellation(t *testing.T) {
	a := &stubProvider{name: "a", err: domain.ErrUpstreamUnavailable("boom")}
	b := &stubProvider{name: "b", reply: "never"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inv := provider.NewInvoker([]provider.Candidate{candidate("a", a), candidate("b", b)})

	_, _, err := inv.Invoke(ctx, prompt)
	if err == nil {
		t.Fatal("Invoke() expected error, got nil")
	}
	if a.called != 0 || b.called != 0 {
		t.Error("candidates were invoked after caller canceled")
	}
}

func TestInvoke_NoCandidates(t *testing.T) {
	inv := provider.NewInvoker(nil)
	_, _, err := inv.Invoke(context.Background(), prompt)
	if domain.ErrorTypeOf(err) != domain.ErrorTypeInternal {
		t.Errorf("error type = %q, want internal", domain.ErrorTypeOf(err))
	}
}
