// Package chat runs the assistant conversation: it records the transcript,
// feeds user text through the color extractor and prompt builder, makes one
// Gemini call per submission and turns the result into a visible message.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	apierrors "github.com/diogo/teestudio/internal/errors"
	"github.com/diogo/teestudio/internal/models"
	"github.com/diogo/teestudio/internal/stylist"
)

// Fixed assistant texts
const (
	Greeting   = "👋 Hi! I'm Gemini. How can I help you design your t-shirt?"
	Apology    = "Something went wrong. Please try again later."
	EmptyReply = "Sorry, I couldn't come up with a response."
)

var (
	// ErrEmptyInput is returned for input that is blank after trimming
	ErrEmptyInput = errors.New("chat: empty input")
	// ErrBusy is returned while a reply is outstanding
	ErrBusy = errors.New("chat: awaiting reply")
	// ErrNoPendingTurn is returned by Finish for a turn that is not outstanding
	ErrNoPendingTurn = errors.New("chat: no pending turn")
)

// Status is the panel state
type Status int

const (
	Idle Status = iota
	AwaitingReply
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingReply:
		return "awaiting_reply"
	default:
		return "unknown"
	}
}

// Generator is the one call the panel makes. api.Generator satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (*models.ModelOutput, error)
}

// Panel is the chat state machine. It is safe for concurrent use; the TUI
// calls Begin on its update loop and Finish when the reply message arrives.
type Panel struct {
	mu         sync.Mutex
	transcript *models.Transcript
	extractor  *stylist.Extractor
	status     Status
	pending    uint64
	nextTurn   uint64
	timeout    time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Panel
type Option func(*Panel)

// WithTimeout bounds each call. Zero, the default, sets no local limit.
func WithTimeout(d time.Duration) Option {
	return func(p *Panel) { p.timeout = d }
}

// WithLogger sets the logger used for call diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(p *Panel) { p.logger = logger }
}

// WithClock replaces time.Now for message timestamps
func WithClock(now func() time.Time) Option {
	return func(p *Panel) { p.now = now }
}

// NewPanel creates an idle panel whose transcript holds the greeting.
// Colors found in the conversation are written to store.
func NewPanel(store stylist.ColorSetter, opts ...Option) *Panel {
	p := &Panel{
		transcript: &models.Transcript{},
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.extractor = stylist.NewExtractor(store, p.logger)
	p.transcript.Append(models.NewMessage(models.SenderAssistant, Greeting, p.now()))
	return p
}

// Turn is one submitted user message waiting for its reply
type Turn struct {
	id      uint64
	timeout time.Duration

	Input       string
	Prompt      stylist.Prompt
	UserMatch   stylist.Match
	UserMatched bool
}

// Outcome is the result of a finished turn
type Outcome struct {
	// Message is the assistant message appended to the transcript
	Message models.Message
	// Failed is set when Message is the apology
	Failed bool
	// Err is the call error behind a failure, for diagnostics only
	Err error
	// ReplyMatch is a color found in the reply when the user text had none
	ReplyMatch   stylist.Match
	ReplyMatched bool
}

// Begin submits input. It appends the user message, applies any color the
// user named, builds the prompt and moves the panel to AwaitingReply.
func (p *Panel) Begin(input string) (*Turn, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyInput
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.status == AwaitingReply {
		return nil, ErrBusy
	}

	p.transcript.Append(models.NewMessage(models.SenderUser, input, p.now()))

	p.nextTurn++
	turn := &Turn{
		id:      p.nextTurn,
		timeout: p.timeout,
		Input:   input,
	}
	turn.UserMatch, turn.UserMatched = p.extractor.Extract(input)
	turn.Prompt = stylist.BuildPrompt(input)

	p.status = AwaitingReply
	p.pending = turn.id

	p.logger.Debug("turn_started",
		slog.Uint64("turn", turn.id),
		slog.Bool("on_topic", turn.Prompt.OnTopic),
		slog.Bool("user_color", turn.UserMatched),
	)
	return turn, nil
}

// Run makes the turn's single Gemini call
func (t *Turn) Run(ctx context.Context, g Generator) (*models.ModelOutput, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	return g.GenerateContent(ctx, t.Prompt.Text)
}

// Finish records the result of turn and returns the panel to Idle. Exactly
// one assistant message is appended: the reply, or the apology on error.
func (p *Panel) Finish(turn *Turn, out *models.ModelOutput, callErr error) (Outcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if turn == nil || p.status != AwaitingReply || turn.id != p.pending {
		return Outcome{}, ErrNoPendingTurn
	}
	p.status = Idle
	p.pending = 0

	if callErr != nil {
		p.logCallError(turn, callErr)
		msg := models.NewMessage(models.SenderAssistant, Apology, p.now())
		p.transcript.Append(msg)
		return Outcome{Message: msg, Failed: true, Err: callErr}, nil
	}

	text := out.Text()
	if strings.TrimSpace(text) == "" {
		p.logger.Warn("empty_reply",
			slog.Uint64("turn", turn.id),
			slog.String("finish_reason", out.FinishReason()),
		)
		text = EmptyReply
	}

	msg := models.NewMessage(models.SenderAssistant, text, p.now())
	p.transcript.Append(msg)
	outcome := Outcome{Message: msg}

	// A reply only drives the color when the user asked about the shirt
	// without naming one.
	if !turn.UserMatched && turn.Prompt.OnTopic && text != EmptyReply {
		outcome.ReplyMatch, outcome.ReplyMatched = p.extractor.Extract(text)
	}
	return outcome, nil
}

// Send runs Begin, Run and Finish in one go. One-shot mode uses it.
func (p *Panel) Send(ctx context.Context, g Generator, input string) (Outcome, error) {
	turn, err := p.Begin(input)
	if err != nil {
		return Outcome{}, err
	}
	out, callErr := turn.Run(ctx, g)
	return p.Finish(turn, out, callErr)
}

// Status returns the current state
func (p *Panel) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Messages returns the transcript in order
func (p *Panel) Messages() []models.Message {
	return p.transcript.Messages()
}

// LastAssistant returns the most recent assistant message
func (p *Panel) LastAssistant() (models.Message, bool) {
	return p.transcript.LastFrom(models.SenderAssistant)
}

func (p *Panel) logCallError(turn *Turn, err error) {
	attrs := []any{
		slog.Uint64("turn", turn.id),
		slog.String("error", err.Error()),
	}
	if status := apierrors.GetHTTPStatus(err); status != 0 {
		attrs = append(attrs, slog.Int("status", status))
	}
	switch {
	case apierrors.IsAuthError(err):
		attrs = append(attrs, slog.String("kind", "auth"))
	case apierrors.IsRateLimitError(err):
		attrs = append(attrs, slog.String("kind", "rate_limit"))
	case apierrors.IsNetworkError(err):
		attrs = append(attrs, slog.String("kind", "network"))
	case errors.Is(err, context.DeadlineExceeded):
		attrs = append(attrs, slog.String("kind", "timeout"))
	}
	if body := apierrors.GetResponseBody(err); body != "" {
		attrs = append(attrs, slog.String("body", body))
	}
	p.logger.Error("chat_call_failed", attrs...)
}
