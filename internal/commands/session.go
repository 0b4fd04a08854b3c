package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/diogo/teestudio/internal/api"
	"github.com/diogo/teestudio/internal/chat"
	"github.com/diogo/teestudio/internal/config"
	"github.com/diogo/teestudio/internal/logging"
	"github.com/diogo/teestudio/internal/models"
	"github.com/diogo/teestudio/internal/state"
)

// session is the runtime shared by the one-shot query and the studio:
// effective config, logger, color store, chat panel and generator.
type session struct {
	cfg    config.Config
	logger *slog.Logger
	store  *state.Store
	panel  *chat.Panel
	gen    api.Generator
}

// loadConfig reads the config file, applies the environment and then the
// command line flags, and validates the result.
func loadConfig(flags *globalFlags) (config.Config, error) {
	cfg, err := config.LoadEffective()
	if err != nil {
		return cfg, err
	}
	if m := strings.TrimSpace(flags.model); m != "" {
		cfg.DefaultModel = m
	}
	if b := strings.TrimSpace(flags.backend); b != "" {
		cfg.Backend = strings.ToLower(b)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openSession wires everything needed to talk to Gemini
func openSession(ctx context.Context, flags *globalFlags, deps *Dependencies) (*session, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	logger, err := logging.Init(cfg)
	if err != nil {
		// Logging is diagnostics only; keep going with the discard logger
		logger.Warn("log_init_failed", slog.String("error", err.Error()))
	}

	gen := deps.Client
	if gen == nil {
		key, err := deps.ResolveKey(ctx, cfg.APIKeySource)
		if err != nil {
			return nil, err
		}
		gen, err = api.NewGenerator(ctx, cfg, key, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create client: %w", err)
		}
	} else {
		gen.SetModel(models.ModelFromName(cfg.DefaultModel))
	}

	store := state.NewStore()
	panel := chat.NewPanel(store,
		chat.WithLogger(logger),
		chat.WithTimeout(time.Duration(cfg.APITimeoutSeconds)*time.Second),
	)

	logger.Info("session_started",
		slog.String("model", gen.GetModel().Name),
		slog.String("backend", cfg.Backend),
	)

	return &session{
		cfg:    cfg,
		logger: logger,
		store:  store,
		panel:  panel,
		gen:    gen,
	}, nil
}

func (s *session) close() {
	s.gen.Close()
}
