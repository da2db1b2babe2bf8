// Package prompt renders provider requests from caller course text.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coursekit/promogen/internal/config"
	"github.com/coursekit/promogen/internal/domain"
	"github.com/coursekit/promogen/internal/tokens"
)

const systemInstruction = "You are a marketing content generator. " +
	"Always output valid JSON with exactly the requested fields. " +
	"Each field must be a non-empty string."

// Builder renders the fixed instruction template plus the caller's text into
// a provider prompt. Identical input always yields an identical prompt.
type Builder struct {
	fields        []string
	hints         map[string]string
	schemaVersion string
	budget        int
	counter       *tokens.Counter
}

// NewBuilder creates a builder for the configured content schema.
func NewBuilder(cfg config.ContentConfig) *Builder {
	fields := make([]string, len(cfg.RequiredFields))
	copy(fields, cfg.RequiredFields)
	sort.Strings(fields)

	return &Builder{
		fields:        fields,
		hints:         cfg.FieldHints,
		schemaVersion: cfg.SchemaVersion,
		budget:        cfg.PromptTokenBudget,
		counter:       tokens.NewCounter(),
	}
}

// Build renders the prompt. courseText must already be validated non-empty
// after trim by the caller. It fails only when the rendered prompt exceeds
// the configured token budget.
func (b *Builder) Build(courseText string) (domain.Prompt, error) {
	var shape strings.Builder
	shape.WriteString("{\n")
	for i, f := range b.fields {
		hint := b.hints[f]
		if hint == "" {
			hint = "Non-empty string content for " + f
		}
		fmt.Fprintf(&shape, "  %q: %q", f, hint)
		if i < len(b.fields)-1 {
			shape.WriteString(",")
		}
		shape.WriteString("\n")
	}
	shape.WriteString("}")

	user := fmt.Sprintf(
		"Generate marketing content in JSON format (schema %s) with these %d fields:\n\n%s\n\nCourse: %s",
		b.schemaVersion, len(b.fields), shape.String(), courseText,
	)

	if b.budget > 0 {
		n, err := b.counter.Count(user)
		if err != nil {
			return domain.Prompt{}, domain.ErrInternal("token count failed").WithCause(err)
		}
		if n > b.budget {
			return domain.Prompt{}, domain.ErrInvalidRequest(
				fmt.Sprintf("course text renders to %d tokens, budget is %d", n, b.budget),
			).WithCode(domain.ErrorCodePromptBudget)
		}
	}

	return domain.Prompt{
		System:        systemInstruction,
		User:          user,
		SchemaVersion: b.schemaVersion,
	}, nil
}

// Fields returns the canonical field names the builder asks for.
func (b *Builder) Fields() []string {
	out := make([]string, len(b.fields))
	copy(out, b.fields)
	return out
}
