package api

import (
	"context"
	"log/slog"

	"github.com/diogo/teestudio/internal/config"
	apierrors "github.com/diogo/teestudio/internal/errors"
	"github.com/diogo/teestudio/internal/models"
)

// NewGenerator builds the backend named by cfg.Backend
func NewGenerator(ctx context.Context, cfg config.Config, apiKey string, logger *slog.Logger) (Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	model := models.ModelFromName(cfg.DefaultModel)

	switch cfg.Backend {
	case config.BackendSDK:
		return NewSDKClient(ctx, apiKey,
			WithSDKModel(model),
			WithSDKBaseURL(cfg.APIBaseURL),
			WithSDKLogger(logger),
		)
	case config.BackendREST, "":
		return NewClient(apiKey,
			WithModel(model),
			WithBaseURL(cfg.APIBaseURL),
			WithLogger(logger),
		)
	default:
		return nil, apierrors.NewConfigError("backend", "unknown backend "+cfg.Backend)
	}
}
