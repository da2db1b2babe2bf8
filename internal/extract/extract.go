// Package extract locates and repairs the structured payload embedded in a
// provider's free-text reply. Providers wrap the JSON in prose, markdown
// fences, or both, and frequently drop fields; the extractor's contract is
// to always return a fully-populated result or a classified error, never a
// half-empty object.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/coursekit/promogen/internal/config"
	"github.com/coursekit/promogen/internal/domain"
)

var (
	fenceRe         = regexp.MustCompile("```(?:json)?\n?")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// Extractor parses raw replies against a configured field schema.
type Extractor struct {
	required           []string
	aliases            map[string]string
	placeholders       map[string]string
	defaultPlaceholder string
}

// New creates an extractor for the configured content schema.
func New(cfg config.ContentConfig) *Extractor {
	required := make([]string, len(cfg.RequiredFields))
	copy(required, cfg.RequiredFields)

	return &Extractor{
		required:           required,
		aliases:            cfg.Aliases,
		placeholders:       cfg.Placeholders,
		defaultPlaceholder: cfg.DefaultPlaceholder,
	}
}

// Extract parses rawReply and returns content with every required field
// populated. Missing or empty fields are substituted with the configured
// placeholder. It fails only when no brace-delimited structure is present
// at all, or when the located span cannot be parsed even after repair.
func (e *Extractor) Extract(rawReply string) (domain.StructuredContent, error) {
	span, err := braceSpan(rawReply)
	if err != nil {
		return nil, err
	}

	parsed, err := parseObject(span)
	if err != nil {
		return nil, err
	}

	out := make(domain.StructuredContent, len(e.required))
	for _, field := range e.required {
		if v, ok := stringValue(parsed, field); ok {
			out[field] = v
			continue
		}
		if alias := e.aliases[field]; alias != "" {
			if v, ok := stringValue(parsed, alias); ok {
				out[field] = v
				continue
			}
		}
		out[field] = e.placeholder(field)
	}

	return out, nil
}

func (e *Extractor) placeholder(field string) string {
	if p, ok := e.placeholders[field]; ok && p != "" {
		return p
	}
	return e.defaultPlaceholder
}

// braceSpan strips markdown fences and slices the outermost brace span.
// Multiple brace-delimited blocks collapse to the span from the first `{`
// to the last `}`; prose outside that span is discarded. This is a
// heuristic, not JSON boundary detection, which is why parse failures are
// repaired rather than trusted.
func braceSpan(raw string) (string, error) {
	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))

	first := strings.Index(cleaned, "{")
	last := strings.LastIndex(cleaned, "}")
	if first == -1 || last == -1 || last < first {
		return "", domain.ErrMalformedOutput("no structured payload in provider reply").
			WithCode(domain.ErrorCodeNoStructure)
	}
	return cleaned[first : last+1], nil
}

// parseObject parses the span, retrying once with trailing commas removed,
// the most common malformation in model output.
func parseObject(span string) (map[string]any, error) {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(span), &parsed); err == nil {
		return parsed, nil
	}

	repaired := trailingCommaRe.ReplaceAllString(span, "$1")
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return nil, domain.ErrMalformedOutput("structured payload is not valid JSON").
			WithCode(domain.ErrorCodeMalformedStructure).
			WithCause(err)
	}
	return parsed, nil
}

func stringValue(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
