// Package anthropic implements the provider interface for the Anthropic
// Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/coursekit/promogen/internal/domain"
)

const (
	defaultBaseURL   = "https://api.anthropic.com/v1"
	anthropicVersion = "2023-06-01"
	defaultMaxTokens = 4096
)

// ProviderOption configures the provider.
type ProviderOption func(*Provider)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *Provider) {
		p.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ProviderOption {
	return func(p *Provider) {
		p.httpClient = httpClient
	}
}

// Provider speaks the Anthropic Messages wire format.
type Provider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// New creates a new provider for one model.
func New(apiKey, model string, opts ...ProviderOption) *Provider {
	p := &Provider{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string {
	return "anthropic"
}

type messagesRequest struct {
	Model     string            `json:"model"`
	MaxTokens int               `json:"max_tokens"`
	System    string            `json:"system,omitempty"`
	Messages  []messagesMessage `json:"messages"`
}

type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the prompt and returns the reply text.
func (p *Provider) Complete(ctx context.Context, prompt domain.Prompt) (string, error) {
	if p.apiKey == "" {
		return "", domain.ErrMissingCredential("anthropic api key is not configured").
			WithCode(domain.ErrorCodeInvalidAPIKey)
	}

	req := messagesRequest{
		Model:     p.model,
		MaxTokens: defaultMaxTokens,
		System:    prompt.System,
		Messages: []messagesMessage{
			{Role: "user", Content: prompt.User},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", domain.ErrUpstreamUnavailable("messages request failed").WithCause(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.ErrUpstreamUnavailable("read response failed").WithCause(err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyError(resp.StatusCode, respBody)
	}

	var result messagesResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", domain.ErrMalformedOutput("unparseable messages envelope").WithCause(err)
	}

	var text strings.Builder
	for _, block := range result.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}

func classifyError(status int, body []byte) *domain.APIError {
	msg := fmt.Sprintf("api error (status %d)", status)
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Message != "" {
		msg = er.Error.Message
	}

	var apiErr *domain.APIError
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		apiErr = domain.ErrMissingCredential(msg).WithCode(domain.ErrorCodeInvalidAPIKey)
	case status == http.StatusNotFound:
		apiErr = domain.ErrNotFound(msg).WithCode(domain.ErrorCodeModelNotFound)
	case status == http.StatusTooManyRequests:
		apiErr = domain.ErrRateLimited(msg)
	case status >= 500:
		apiErr = domain.ErrUpstreamUnavailable(msg)
	default:
		apiErr = domain.ErrInvalidRequest(msg)
	}
	return apiErr.WithStatusCode(status).WithProvider("anthropic")
}
