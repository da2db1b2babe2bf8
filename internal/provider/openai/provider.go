// Package openai implements the provider interface for OpenAI-compatible
// chat-completion APIs (OpenAI, Groq, and other conforming vendors).
package openai

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

const defaultBaseURL = "https://api.openai.com/v1"

// ProviderOption configures the provider.
type ProviderOption func(*Provider)

// WithBaseURL sets a custom base URL, e.g. the Groq endpoint.
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

// Provider speaks the chat-completions wire format.
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
	return "openai"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Complete sends the prompt and returns the reply text.
func (p *Provider) Complete(ctx context.Context, prompt domain.Prompt) (string, error) {
	if p.apiKey == "" {
		return "", domain.ErrMissingCredential("openai api key is not configured").
			WithCode(domain.ErrorCodeInvalidAPIKey)
	}

	req := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Temperature: 0.3,
	}
	req.ResponseFormat.Type = "json_object"

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", domain.ErrUpstreamUnavailable("chat completion request failed").WithCause(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.ErrUpstreamUnavailable("read response failed").WithCause(err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyError(resp.StatusCode, respBody)
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", domain.ErrMalformedOutput("unparseable completion envelope").WithCause(err)
	}
	if len(result.Choices) == 0 {
		return "", nil
	}
	return result.Choices[0].Message.Content, nil
}

// classifyError maps an upstream status to the canonical taxonomy.
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
	return apiErr.WithStatusCode(status).WithProvider("openai")
}
