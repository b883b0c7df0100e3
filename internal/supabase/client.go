package supabase

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/marketgreen/api/internal/httputil"
)

const (
	maxResponseBytes  = 8 << 20  // 8 MiB
	maxErrorBodyBytes = 32 << 10 // 32 KiB
)

// Config holds Supabase client configuration.
type Config struct {
	// ProjectURL is the Supabase project URL (e.g. https://xxx.supabase.co).
	ProjectURL string
	// AnonKey is the public API key used for user-scoped operations.
	AnonKey string
	// ServiceKey is the optional service-role key for privileged operations.
	ServiceKey string
	// Timeout for HTTP requests. Defaults to 30 seconds.
	Timeout time.Duration
	// HTTPClient overrides the default client. Intended for tests.
	HTTPClient *http.Client
}

// Client is the Supabase REST client.
type Client struct {
	config     Config
	httpClient *http.Client

	baseURL string
	restURL string
	authURL string

	auth     *AuthClient
	database *DatabaseClient
}

// New creates a Supabase client. ProjectURL and AnonKey are required.
func New(cfg Config) (*Client, error) {
	if cfg.ProjectURL == "" {
		return nil, fmt.Errorf("project URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("anon key is required")
	}

	baseURL := strings.TrimRight(cfg.ProjectURL, "/")
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid project URL: %q", cfg.ProjectURL)
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		transport := http.DefaultTransport
		if base, ok := http.DefaultTransport.(*http.Transport); ok {
			cloned := base.Clone()
			if cloned.TLSClientConfig == nil {
				cloned.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
			} else if cloned.TLSClientConfig.MinVersion < tls.VersionTLS12 {
				cloned.TLSClientConfig = cloned.TLSClientConfig.Clone()
				cloned.TLSClientConfig.MinVersion = tls.VersionTLS12
			}
			transport = cloned
		}
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		}
	}

	c := &Client{
		config:     cfg,
		httpClient: httpClient,
		baseURL:    baseURL,
		restURL:    baseURL + "/rest/v1",
		authURL:    baseURL + "/auth/v1",
	}
	c.auth = &AuthClient{client: c}
	c.database = &DatabaseClient{client: c}

	return c, nil
}

// Auth returns the auth client.
func (c *Client) Auth() *AuthClient {
	return c.auth
}

// Database returns the database client.
func (c *Client) Database() *DatabaseClient {
	return c.database
}

// HasServiceKey reports whether a service role key is configured.
func (c *Client) HasServiceKey() bool {
	return c.config.ServiceKey != ""
}

// =============================================================================
// Internal HTTP Methods
// =============================================================================

// request performs an HTTP request authenticated with the anon key.
func (c *Client) request(ctx context.Context, method, urlPath string, body []byte, headers map[string]string) ([]byte, int, error) {
	return c.do(ctx, method, urlPath, body, headers, c.config.AnonKey)
}

// requestWithServiceKey performs an HTTP request with the service role key.
func (c *Client) requestWithServiceKey(ctx context.Context, method, urlPath string, body []byte, headers map[string]string) ([]byte, int, error) {
	if c.config.ServiceKey == "" {
		return nil, 0, fmt.Errorf("service key not configured")
	}
	return c.do(ctx, method, urlPath, body, headers, c.config.ServiceKey)
}

// requestWithToken performs an HTTP request carrying a user's access token.
// The anon key still identifies the project via the apikey header.
func (c *Client) requestWithToken(ctx context.Context, method, urlPath string, body []byte, headers map[string]string, accessToken string) ([]byte, int, error) {
	if headers == nil {
		headers = make(map[string]string)
	}
	headers["Authorization"] = "Bearer " + accessToken
	return c.do(ctx, method, urlPath, body, headers, c.config.AnonKey)
}

func (c *Client) do(ctx context.Context, method, urlPath string, body []byte, headers map[string]string, apiKey string) ([]byte, int, error) {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlPath, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", apiKey)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		// A truncated error body is still parseable enough to report.
		respBody, _, err := httputil.ReadAllWithLimit(resp.Body, maxErrorBodyBytes)
		if err != nil {
			return nil, resp.StatusCode, fmt.Errorf("read error response: %w", err)
		}
		return respBody, resp.StatusCode, nil
	}

	respBody, err := httputil.ReadAllStrict(resp.Body, maxResponseBytes)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	return respBody, resp.StatusCode, nil
}
