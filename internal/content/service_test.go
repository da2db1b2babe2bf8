package content_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/coursekit/promogen/internal/config"
	"github.com/coursekit/promogen/internal/content"
	"github.com/coursekit/promogen/internal/domain"
	"github.com/coursekit/promogen/internal/extract"
	"github.com/coursekit/promogen/internal/prompt"
	"github.com/coursekit/promogen/internal/provider"
)

// stubInvoker returns a scripted reply regardless of prompt.
type stubInvoker struct {
	reply string
	err   error
}

func (s *stubInvoker) Invoke(ctx context.Context, p domain.Prompt) (string, provider.Candidate, error) {
	return s.reply, provider.Candidate{Name: "stub"}, s.err
}

func contentConfig() config.ContentConfig {
	return config.ContentConfig{
		RequiredFields: []string{"twitterThread", "salesEmail"},
		Aliases: map[string]string{
			"twitterThread": "twitter",
			"salesEmail":    "email",
		},
		DefaultPlaceholder: "Content generation failed. Please try again.",
		SchemaVersion:      "v2",
	}
}

func newService(inv content.Invoker) *content.Service {
	cfg := contentConfig()
	return content.NewService(prompt.NewBuilder(cfg), inv, extract.New(cfg), nil)
}

func TestGenerate_AllFieldsPopulated(t *testing.T) {
	s := newService(&stubInvoker{
		reply: "Here you go!\n```json\n{\"twitterThread\": \"1/5 ...\"}\n```",
	})

	got, err := s.Generate(context.Background(), "Go course")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got["twitterThread"] != "1/5 ..." {
		t.Errorf("twitterThread = %q", got["twitterThread"])
	}
	// The missing field comes back as placeholder, never empty and never absent.
	if got["salesEmail"] == "" {
		t.Error("salesEmail is empty")
	}
}

func TestGenerate_EmptyInput(t *testing.T) {
	s := newService(&stubInvoker{reply: `{}`})

	for _, input := range []string{"", "   ", "\n\t"} {
		if _, err := s.Generate(context.Background(), input); domain.ErrorTypeOf(err) != domain.ErrorTypeInvalidRequest {
			t.Errorf("Generate(%q) error type = %q, want invalid_request", input, domain.ErrorTypeOf(err))
		}
	}
}

func TestGenerate_InvokerErrorPassesThrough(t *testing.T) {
	s := newService(&stubInvoker{err: domain.ErrProviderExhausted("all failed", nil)})

	_, err := s.Generate(context.Background(), "Go course")
	if domain.ErrorTypeOf(err) != domain.ErrorTypeProviderExhausted {
		t.Errorf("error type = %q, want provider_exhausted", domain.ErrorTypeOf(err))
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	s := newService(&stubInvoker{
		reply: `{"twitterThread": "1/5 ...", "salesEmail": "Subject: Go"}`,
	})

	first, err := s.Generate(context.Background(), "Go course")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	second, err := s.Generate(context.Background(), "Go course")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical input against deterministic provider differed:\n%v\n%v", first, second)
	}
}
