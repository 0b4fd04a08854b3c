package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/diogo/teestudio/internal/render"
	"github.com/diogo/teestudio/internal/scene"
	"github.com/diogo/teestudio/internal/speech"
	"github.com/diogo/teestudio/internal/tui"
)

// NewStudioCmd creates the interactive customizer command
func NewStudioCmd(flags *globalFlags, deps *Dependencies) *cobra.Command {
	var window bool

	cmd := &cobra.Command{
		Use:   "studio",
		Short: "Open the interactive t-shirt customizer",
		Long: `Open the interactive customizer: chat with Gemini about your shirt,
pick a color by hand with Ctrl+P and toggle decals.

Colors named in the chat are applied to the shirt. With --window a
preview window shows the shirt next to the terminal.
Type 'exit', 'quit', or press Esc to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStudio(cmd.Context(), flags, deps, window)
		},
	}

	cmd.Flags().BoolVar(&window, "window", false, "Also open the preview window")
	return cmd
}

func runStudio(ctx context.Context, flags *globalFlags, deps *Dependencies, window bool) error {
	sess, err := openSession(ctx, flags, deps)
	if err != nil {
		return err
	}
	defer sess.close()

	cfg, logger := sess.cfg, sess.logger

	if !render.SetTUITheme(cfg.TUITheme) {
		logger.Warn("unknown_tui_theme", slog.String("theme", cfg.TUITheme))
	}
	tui.UpdateTheme()

	opts := tui.Options{
		Panel:     sess.panel,
		Generator: sess.gen,
		Store:     sess.store,
		Scene:     tui.NewSceneControl(scene.OptionsFromConfig(cfg)),
		ModelName: sess.gen.GetModel().Name,
		Markdown:  render.OptionsFromConfig(cfg.Markdown),
		Copier:    deps.Copier,
		Logger:    logger,
	}

	// Missing speech programs leave the fields nil, which hides the shortcuts
	synth, canSpeak := speech.NewSynthesizer(cfg.Speech.Synthesizer, speech.WithLogger(logger))
	if canSpeak {
		opts.Speaker = synth
	}
	rec, canListen := speech.NewRecognizer(cfg.Speech.Recognizer, speech.WithLogger(logger))
	if canListen {
		opts.Listener = rec
	}
	logger.Info("capabilities",
		slog.Bool("speech_synthesis", canSpeak),
		slog.Bool("speech_recognition", canListen),
		slog.Bool("preview_window", window),
	)

	if !window {
		return deps.TUI.RunStudio(ctx, opts)
	}

	// The preview window needs the main goroutine, so the TUI moves to a
	// goroutine and quitting it closes the window.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- deps.TUI.RunStudio(ctx, opts)
		cancel()
	}()

	if err := deps.Preview(ctx, sess.store, opts.Scene.Options, logger); err != nil {
		logger.Warn("preview_failed", slog.String("error", err.Error()))
	}
	return <-done
}
