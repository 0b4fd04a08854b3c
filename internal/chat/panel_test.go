package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/diogo/teestudio/internal/api"
	apierrors "github.com/diogo/teestudio/internal/errors"
	"github.com/diogo/teestudio/internal/logging"
	"github.com/diogo/teestudio/internal/models"
	"github.com/diogo/teestudio/internal/palette"
	"github.com/diogo/teestudio/internal/state"
)

func newPanel(t *testing.T, opts ...Option) (*Panel, *state.Store) {
	t.Helper()
	store := state.NewStore()
	opts = append([]Option{WithLogger(logging.Discard())}, opts...)
	return NewPanel(store, opts...), store
}

func red(t *testing.T) palette.RGB {
	t.Helper()
	e, ok := palette.Lookup("red")
	require.True(t, ok)
	return e.Value
}

func TestNewPanel_Greeting(t *testing.T) {
	p, _ := newPanel(t)

	msgs := p.Messages()
	require.Len(t, msgs, 1)
	require.Equal(t, models.SenderAssistant, msgs[0].Sender)
	require.Equal(t, Greeting, msgs[0].Text)
	require.Equal(t, Idle, p.Status())
}

func TestBegin_EmptyInput(t *testing.T) {
	p, store := newPanel(t)
	gen := api.NewMockGenerator("unused")

	for _, in := range []string{"", "   ", "\n\t"} {
		_, err := p.Begin(in)
		require.ErrorIs(t, err, ErrEmptyInput)

		_, err = p.Send(context.Background(), gen, in)
		require.ErrorIs(t, err, ErrEmptyInput)
	}

	require.Len(t, p.Messages(), 1)
	require.Equal(t, Idle, p.Status())
	require.Zero(t, gen.Calls())
	require.Equal(t, palette.White, store.Color())
}

func TestBegin_AwaitingAndBusy(t *testing.T) {
	p, _ := newPanel(t)

	turn, err := p.Begin("any ideas for a summer shirt?")
	require.NoError(t, err)
	require.Equal(t, AwaitingReply, p.Status())
	require.True(t, turn.Prompt.OnTopic)

	msgs := p.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, models.SenderUser, msgs[1].Sender)
	require.Equal(t, "any ideas for a summer shirt?", msgs[1].Text)

	_, err = p.Begin("another one")
	require.ErrorIs(t, err, ErrBusy)
	require.Len(t, p.Messages(), 2)
}

func TestBegin_KeepsRawText(t *testing.T) {
	p, _ := newPanel(t)

	turn, err := p.Begin("  Make it RED please  ")
	require.NoError(t, err)
	require.Equal(t, "  Make it RED please  ", p.Messages()[1].Text)
	require.Contains(t, turn.Prompt.Text, "Make it RED please")
}

func TestSend_UserColorAppliedBeforeCall(t *testing.T) {
	p, store := newPanel(t)

	var colorDuringCall palette.RGB
	gen := &api.MockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (*models.ModelOutput, error) {
			colorDuringCall = store.Color()
			return &models.ModelOutput{Candidates: []models.Candidate{{Text: "Red is bold, nice pick."}}}, nil
		},
	}

	outcome, err := p.Send(context.Background(), gen, "I love red")
	require.NoError(t, err)
	require.False(t, outcome.Failed)
	require.Equal(t, red(t), colorDuringCall)
	require.Equal(t, red(t), store.Color())
	require.False(t, outcome.ReplyMatched, "reply is not scanned when the user named a color")
	require.Equal(t, 1, gen.Calls())
}

func TestSend_SuccessAppendsOneReply(t *testing.T) {
	p, _ := newPanel(t)
	gen := api.NewMockGenerator("Try a crisp **navy** tee.")

	outcome, err := p.Send(context.Background(), gen, "what goes with khaki shorts?")
	require.NoError(t, err)

	msgs := p.Messages()
	require.Len(t, msgs, 3)
	require.Equal(t, models.SenderAssistant, msgs[2].Sender)
	require.Equal(t, "Try a crisp **navy** tee.", msgs[2].Text)
	require.Equal(t, msgs[2], outcome.Message)
	require.Equal(t, Idle, p.Status())
}

func TestSend_FailureAppendsApology(t *testing.T) {
	p, store := newPanel(t)
	callErr := apierrors.NewAPIError(500, "generate", "boom")
	gen := &api.MockGenerator{Err: callErr}

	outcome, err := p.Send(context.Background(), gen, "suggest a color for my shirt")
	require.NoError(t, err)
	require.True(t, outcome.Failed)
	require.ErrorIs(t, outcome.Err, callErr)

	msgs := p.Messages()
	require.Len(t, msgs, 3)
	require.Equal(t, Apology, msgs[2].Text)
	require.Equal(t, Idle, p.Status())
	require.Equal(t, palette.White, store.Color())
	require.NotContains(t, msgs[2].Text, "boom")
}

func TestSend_EmptyReplyFallback(t *testing.T) {
	p, store := newPanel(t)
	gen := &api.MockGenerator{Output: &models.ModelOutput{}}

	outcome, err := p.Send(context.Background(), gen, "what color shirt for a wedding?")
	require.NoError(t, err)
	require.False(t, outcome.Failed)
	require.Equal(t, EmptyReply, outcome.Message.Text)
	require.Equal(t, palette.White, store.Color())
}

func TestSend_ReplyColorWhenUserNamedNone(t *testing.T) {
	p, store := newPanel(t)
	gen := api.NewMockGenerator("For a beach party, go with teal.")

	outcome, err := p.Send(context.Background(), gen, "what shirt color for a beach party?")
	require.NoError(t, err)
	require.True(t, outcome.ReplyMatched)
	require.Equal(t, "teal", outcome.ReplyMatch.Name)

	teal, _ := palette.Lookup("teal")
	require.Equal(t, teal.Value, store.Color())
}

func TestSend_OffTopicReplyNeverRecolors(t *testing.T) {
	p, store := newPanel(t)
	gen := api.NewMockGenerator("I can only help with your t-shirt. Maybe a sunny yellow?")

	turn, err := p.Begin("what's the weather")
	require.NoError(t, err)
	require.False(t, turn.Prompt.OnTopic)
	require.False(t, turn.UserMatched)
	require.True(t, strings.Contains(turn.Prompt.Text, "only help"))

	out, callErr := turn.Run(context.Background(), gen)
	outcome, err := p.Finish(turn, out, callErr)
	require.NoError(t, err)
	require.False(t, outcome.ReplyMatched)
	require.Equal(t, palette.White, store.Color())
}

func TestFinish_StaleOrUnknownTurn(t *testing.T) {
	p, _ := newPanel(t)

	_, err := p.Finish(nil, nil, nil)
	require.ErrorIs(t, err, ErrNoPendingTurn)

	turn, err := p.Begin("hello shirt")
	require.NoError(t, err)
	_, err = p.Finish(turn, &models.ModelOutput{}, nil)
	require.NoError(t, err)

	// Finishing the same turn twice appends nothing
	before := len(p.Messages())
	_, err = p.Finish(turn, &models.ModelOutput{}, nil)
	require.ErrorIs(t, err, ErrNoPendingTurn)
	require.Len(t, p.Messages(), before)
}

func TestTurnRun_Timeout(t *testing.T) {
	p, _ := newPanel(t, WithTimeout(20*time.Millisecond))
	gen := &api.MockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (*models.ModelOutput, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	outcome, err := p.Send(context.Background(), gen, "a tee for hiking?")
	require.NoError(t, err)
	require.True(t, outcome.Failed)
	require.True(t, errors.Is(outcome.Err, context.DeadlineExceeded))
}

func TestTurnRun_NoTimeoutByDefault(t *testing.T) {
	p, _ := newPanel(t)
	gen := &api.MockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string) (*models.ModelOutput, error) {
			_, hasDeadline := ctx.Deadline()
			require.False(t, hasDeadline)
			return &models.ModelOutput{Candidates: []models.Candidate{{Text: "ok"}}}, nil
		},
	}

	_, err := p.Send(context.Background(), gen, "shirt?")
	require.NoError(t, err)
}

func TestClockStampsMessages(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p, _ := newPanel(t, WithClock(func() time.Time { return at }))

	require.Equal(t, "2024-05-01T12:00:00Z", p.Messages()[0].Timestamp)
}

func TestLastAssistant(t *testing.T) {
	p, _ := newPanel(t)
	m, ok := p.LastAssistant()
	require.True(t, ok)
	require.Equal(t, Greeting, m.Text)

	_, err := p.Send(context.Background(), api.NewMockGenerator("Olive works."), "a shirt for autumn?")
	require.NoError(t, err)
	m, _ = p.LastAssistant()
	require.Equal(t, "Olive works.", m.Text)
}

func TestConcurrentBeginOnlyOneWins(t *testing.T) {
	p, _ := newPanel(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Begin("design my shirt"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, wins)
	require.Len(t, p.Messages(), 2)
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "idle", Idle.String())
	require.Equal(t, "awaiting_reply", AwaitingReply.String())
	require.Equal(t, "unknown", Status(9).String())
}
