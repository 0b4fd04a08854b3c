package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"google.golang.org/genai"

	apierrors "github.com/diogo/teestudio/internal/errors"
	"github.com/diogo/teestudio/internal/models"
)

// genaiModels is the part of genai.Models the SDK backend uses
type genaiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var newGoogleClient = func(ctx context.Context, cfg *genai.ClientConfig) (*genai.Client, error) {
	return genai.NewClient(ctx, cfg)
}

// SDKClient reaches Gemini through google.golang.org/genai
type SDKClient struct {
	models genaiModels
	model  models.Model
	logger *slog.Logger
	mu     sync.RWMutex
	closed bool
}

// SDKOption configures an SDKClient
type SDKOption func(*sdkOptions)

type sdkOptions struct {
	model   models.Model
	baseURL string
	logger  *slog.Logger
}

// WithSDKModel sets the default model
func WithSDKModel(model models.Model) SDKOption {
	return func(o *sdkOptions) { o.model = model }
}

// WithSDKBaseURL overrides the API root
func WithSDKBaseURL(base string) SDKOption {
	return func(o *sdkOptions) { o.baseURL = base }
}

// WithSDKLogger sets the logger
func WithSDKLogger(logger *slog.Logger) SDKOption {
	return func(o *sdkOptions) { o.logger = logger }
}

// NewSDKClient creates a genai-backed client for the Gemini API
func NewSDKClient(ctx context.Context, apiKey string, opts ...SDKOption) (*SDKClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, apierrors.ErrNoAPIKey
	}

	o := sdkOptions{model: models.DefaultModel, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if o.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: o.baseURL}
	}

	client, err := newGoogleClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create google client: %w", err)
	}

	o.logger.Debug("sdk_client_ready", slog.String("model", o.model.Name))
	return &SDKClient{models: client.Models, model: o.model, logger: o.logger}, nil
}

// GenerateContent sends a prompt to Gemini and returns the response
func (c *SDKClient) GenerateContent(ctx context.Context, prompt string) (*models.ModelOutput, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}
	if c.IsClosed() {
		return nil, apierrors.ErrClientClosed
	}

	model := c.GetModel()
	resp, err := c.models.GenerateContent(ctx, model.Name, genai.Text(prompt), nil)
	if err != nil {
		return nil, convertSDKError(model.Name, err)
	}

	output := &models.ModelOutput{Model: model.Name}
	if resp == nil {
		return output, nil
	}
	for _, cand := range resp.Candidates {
		if cand == nil {
			continue
		}
		output.Candidates = append(output.Candidates, models.Candidate{
			Text:         visibleText(cand.Content),
			FinishReason: string(cand.FinishReason),
		})
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		c.logger.Warn("prompt_blocked", slog.String("reason", string(resp.PromptFeedback.BlockReason)))
	}
	return output, nil
}

func visibleText(content *genai.Content) string {
	if content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

// convertSDKError maps genai API errors onto the package's typed errors
func convertSDKError(model string, err error) error {
	endpoint := models.GenerateEndpoint("", model)

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apierrors.NewAPIError(apiErr.Code, endpoint, apiErr.Message)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apierrors.NewAPIError(apiErrPtr.Code, endpoint, apiErrPtr.Message)
	}
	return apierrors.NewNetworkErrorWithEndpoint("generate content", endpoint, err)
}

// Close marks the client closed. genai clients hold no resources to release.
func (c *SDKClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// IsClosed returns whether the client is closed
func (c *SDKClient) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// GetModel returns the default model
func (c *SDKClient) GetModel() models.Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// SetModel sets the default model
func (c *SDKClient) SetModel(model models.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}
