package commands

import (
	"context"
	"log/slog"

	"github.com/diogo/teestudio/internal/api"
	"github.com/diogo/teestudio/internal/clipboard"
	"github.com/diogo/teestudio/internal/credentials"
	"github.com/diogo/teestudio/internal/preview"
	"github.com/diogo/teestudio/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunStudio(ctx context.Context, opts tui.Options) error
}

// PreviewFunc opens the preview window and blocks until it closes.
type PreviewFunc func(ctx context.Context, colors preview.ColorSource, options preview.OptionsSource, logger *slog.Logger) error

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Client is the Gemini generator. When nil one is built from config.
	Client api.Generator

	// ResolveKey returns the API key for an api_key_source value.
	ResolveKey func(ctx context.Context, source string) (string, error)

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Preview opens the shirt preview window.
	Preview PreviewFunc

	// Copier writes to the clipboard.
	Copier tui.Copier
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunStudio(ctx context.Context, opts tui.Options) error {
	return tui.Run(ctx, opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		ResolveKey: credentials.Resolve,
		TUI:        &DefaultTUI{},
		Preview:    preview.Run,
		Copier:     clipboard.New(),
	}
}

// withDefaults fills the fields a test left empty
func (d *Dependencies) withDefaults() *Dependencies {
	out := NewDependencies()
	if d == nil {
		return out
	}
	out.Client = d.Client
	if d.ResolveKey != nil {
		out.ResolveKey = d.ResolveKey
	}
	if d.TUI != nil {
		out.TUI = d.TUI
	}
	if d.Preview != nil {
		out.Preview = d.Preview
	}
	if d.Copier != nil {
		out.Copier = d.Copier
	}
	return out
}
