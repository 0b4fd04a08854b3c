// Package speech drives optional text-to-speech and speech-to-text programs.
// Both capabilities are detected at startup; when absent the UI hides them.
package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// synthesizerCandidates are tried in order when no synthesizer is configured
var synthesizerCandidates = []string{"spd-say", "espeak", "say"}

// ErrNoSpeech is returned when the recognizer finished without a transcript
var ErrNoSpeech = errors.New("speech: nothing recognized")

// Option configures a Synthesizer or Recognizer
type Option func(*options)

type options struct {
	runner Runner
	logger *slog.Logger
}

// WithRunner replaces the os/exec runner
func WithRunner(r Runner) Option {
	return func(o *options) { o.runner = r }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{runner: execRunner{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Synthesizer reads text aloud with an external program
type Synthesizer struct {
	argv   []string
	runner Runner
	logger *slog.Logger
}

// NewSynthesizer returns the configured synthesizer command, or the first of
// spd-say, espeak and say found on PATH. ok is false when none is usable.
func NewSynthesizer(configured string, opts ...Option) (*Synthesizer, bool) {
	o := buildOptions(opts)

	var candidates [][]string
	if argv := strings.Fields(configured); len(argv) > 0 {
		candidates = [][]string{argv}
	} else {
		for _, name := range synthesizerCandidates {
			candidates = append(candidates, []string{name})
		}
	}

	for _, argv := range candidates {
		if _, err := o.runner.LookPath(argv[0]); err == nil {
			o.logger.Debug("speech_synthesizer_found", slog.String("command", argv[0]))
			return &Synthesizer{argv: argv, runner: o.runner, logger: o.logger}, true
		}
	}
	return nil, false
}

// Name returns the program used
func (s *Synthesizer) Name() string {
	return s.argv[0]
}

// Speak plays text and returns when playback ends or ctx is done.
// Markdown emphasis markers are dropped so they are not read out.
func (s *Synthesizer) Speak(ctx context.Context, text string) error {
	text = plainText(text)
	if text == "" {
		return nil
	}
	args := append(append([]string(nil), s.argv[1:]...), text)
	if _, err := s.runner.Output(ctx, s.argv[0], args...); err != nil {
		s.logger.Warn("speech_synthesis_failed", slog.String("error", err.Error()))
		return fmt.Errorf("speak: %w", err)
	}
	return nil
}

// Recognizer records one utterance through an external program that prints
// the transcript on stdout.
type Recognizer struct {
	argv   []string
	runner Runner
	logger *slog.Logger
}

// NewRecognizer returns the configured recognizer. There is no default
// program, so an empty configuration leaves the feature off.
func NewRecognizer(configured string, opts ...Option) (*Recognizer, bool) {
	argv := strings.Fields(configured)
	if len(argv) == 0 {
		return nil, false
	}
	o := buildOptions(opts)
	if _, err := o.runner.LookPath(argv[0]); err != nil {
		o.logger.Debug("speech_recognizer_missing", slog.String("command", argv[0]))
		return nil, false
	}
	return &Recognizer{argv: argv, runner: o.runner, logger: o.logger}, true
}

// Name returns the program used
func (r *Recognizer) Name() string {
	return r.argv[0]
}

// Listen runs one recognition session. The last non-empty output line is the
// final transcript. Cancelling ctx stops the session.
func (r *Recognizer) Listen(ctx context.Context) (string, error) {
	out, err := r.runner.Output(ctx, r.argv[0], r.argv[1:]...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		r.logger.Warn("speech_recognition_failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("recognize: %w", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line, nil
		}
	}
	return "", ErrNoSpeech
}

var markdownNoise = strings.NewReplacer("**", "", "__", "", "`", "", "#", "", "*", "")

func plainText(text string) string {
	return strings.TrimSpace(markdownNoise.Replace(text))
}
