// Package catalog talks to the upstream marketplace API: access-level
// lookups and the product listing the fetcher filters per tenant.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coursekit/promogen/internal/domain"
	"github.com/coursekit/promogen/internal/tenant"
)

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds each upstream call.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// Client is the HTTP client for the marketplace API. The API key is the
// service's own credential, never the caller's token, and is never logged.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a marketplace API client.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
		timeout:    15 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckAccess resolves the caller's access level on a company. A 404 means
// the user holds no access at all, which is a valid answer, not a failure.
func (c *Client) CheckAccess(ctx context.Context, companyID, userID string) (tenant.AccessLevel, error) {
	path := fmt.Sprintf("/companies/%s/users/%s/access",
		url.PathEscape(companyID), url.PathEscape(userID))

	body, status, err := c.get(ctx, path)
	if err != nil {
		return tenant.AccessLevelNone, err
	}

	switch {
	case status == http.StatusOK:
		var result struct {
			AccessLevel string `json:"access_level"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			return tenant.AccessLevelNone, domain.ErrUpstreamUnavailable("unparseable access response").WithCause(err)
		}
		return tenant.ParseAccessLevel(result.AccessLevel), nil
	case status == http.StatusNotFound:
		return tenant.AccessLevelNone, nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return tenant.AccessLevelNone, domain.ErrMissingCredential("catalog api key rejected").
			WithCode(domain.ErrorCodeInvalidAPIKey)
	default:
		return tenant.AccessLevelNone, domain.ErrUpstreamUnavailable(
			fmt.Sprintf("access check failed (status %d)", status))
	}
}

// ListProducts retrieves the full upstream catalog. No tenant-scoped
// upstream query is assumed reliable; filtering happens in the fetcher.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	body, status, err := c.get(ctx, "/company/products")
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusOK:
		var result struct {
			Data []domain.Product `json:"data"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, domain.ErrUpstreamUnavailable("unparseable product listing").WithCause(err)
		}
		return result.Data, nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, domain.ErrMissingCredential("catalog api key rejected").
			WithCode(domain.ErrorCodeInvalidAPIKey)
	default:
		return nil, domain.ErrUpstreamUnavailable(
			fmt.Sprintf("product listing failed (status %d)", status))
	}
}

func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, domain.ErrUpstreamUnavailable("catalog request failed").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, domain.ErrUpstreamUnavailable("read catalog response failed").WithCause(err)
	}
	return body, resp.StatusCode, nil
}
