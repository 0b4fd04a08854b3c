package api

import (
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"golang.org/x/net/http/httpproxy"

	apierrors "github.com/diogo/teestudio/internal/errors"
	"github.com/diogo/teestudio/internal/models"
)

// transportTimeoutSeconds is the hard ceiling of the underlying HTTP client.
// Per-call limits come from the caller's context.
const transportTimeoutSeconds = 300

// GeminiClient talks to the generateContent REST endpoint
type GeminiClient struct {
	httpClient tls_client.HttpClient
	apiKey     string
	baseURL    string
	model      models.Model
	logger     *slog.Logger
	mu         sync.RWMutex
	closed     bool
}

// ClientOption is a function that configures the client
type ClientOption func(*GeminiClient)

// WithModel sets the default model for the client
func WithModel(model models.Model) ClientOption {
	return func(c *GeminiClient) {
		c.model = model
	}
}

// WithBaseURL points the client at another API root, e.g. a test server
func WithBaseURL(base string) ClientOption {
	return func(c *GeminiClient) {
		c.baseURL = base
	}
}

// WithHTTPClient replaces the TLS client
func WithHTTPClient(hc tls_client.HttpClient) ClientOption {
	return func(c *GeminiClient) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *GeminiClient) {
		c.logger = logger
	}
}

// NewClient creates a new GeminiClient
func NewClient(apiKey string, opts ...ClientOption) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, apierrors.ErrNoAPIKey
	}

	client := &GeminiClient{
		apiKey: apiKey,
		model:  models.DefaultModel,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		hc, err := newTLSClient(models.GenerateEndpoint(client.baseURL, client.model.Name))
		if err != nil {
			return nil, err
		}
		client.httpClient = hc
	}

	return client, nil
}

// newTLSClient builds the browser-profile HTTP client, honouring the usual
// HTTPS_PROXY / NO_PROXY environment for the target endpoint.
func newTLSClient(endpoint string) (tls_client.HttpClient, error) {
	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(transportTimeoutSeconds),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithNotFollowRedirects(),
	}

	if proxy := proxyFor(endpoint, httpproxy.FromEnvironment()); proxy != "" {
		options = append(options, tls_client.WithProxyUrl(proxy))
	}

	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	return httpClient, nil
}

// proxyFor returns the proxy URL cfg selects for endpoint, or "" for direct
func proxyFor(endpoint string, cfg *httpproxy.Config) string {
	u, err := url.Parse(endpoint)
	if err != nil || cfg == nil {
		return ""
	}
	proxy, err := cfg.ProxyFunc()(u)
	if err != nil || proxy == nil {
		return ""
	}
	return proxy.String()
}

// Close releases idle connections. Further calls fail with ErrClientClosed.
func (c *GeminiClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *GeminiClient) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// GetModel returns the default model
func (c *GeminiClient) GetModel() models.Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// SetModel sets the default model
func (c *GeminiClient) SetModel(model models.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}

// Endpoint returns the generateContent URL for the current model
func (c *GeminiClient) Endpoint() string {
	return models.GenerateEndpoint(c.baseURL, c.GetModel().Name)
}
