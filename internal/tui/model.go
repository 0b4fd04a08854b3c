package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/teestudio/internal/chat"
	"github.com/diogo/teestudio/internal/clipboard"
	"github.com/diogo/teestudio/internal/models"
	"github.com/diogo/teestudio/internal/palette"
	"github.com/diogo/teestudio/internal/render"
	"github.com/diogo/teestudio/internal/scene"
	"github.com/diogo/teestudio/internal/speech"
	"github.com/diogo/teestudio/internal/state"
)

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	replyMsg struct {
		turn   *chat.Turn
		output *models.ModelOutput
		err    error
	}
	copiedMsg struct {
		method clipboard.Method
		err    error
	}
	spokenMsg struct {
		err error
	}
	heardMsg struct {
		text string
		err  error
	}
)

// Speaker reads text aloud. *speech.Synthesizer satisfies it.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Listener records one utterance. *speech.Recognizer satisfies it.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

// Copier places text on the clipboard. *clipboard.Copier satisfies it.
type Copier interface {
	Copy(text string) (clipboard.Method, error)
}

// ColorStore is the shared shirt color. *state.Store satisfies it.
type ColorStore interface {
	Color() palette.RGB
	Set(c palette.RGB, src state.Source) state.Change
	Reset() state.Change
}

// Options wires the studio. Speaker and Listener are nil when the
// capability is missing; their shortcuts are then hidden.
type Options struct {
	Panel     *chat.Panel
	Generator chat.Generator
	Store     ColorStore
	Scene     *SceneControl
	ModelName string
	Markdown  render.Options
	Speaker   Speaker
	Listener  Listener
	Copier    Copier
	Logger    *slog.Logger
}

const (
	headerHeight = 3
	inputHeight  = 5
	statusHeight = 2
	swatchWidth  = 26
)

// Model represents the TUI state
type Model struct {
	ctx       context.Context
	panel     *chat.Panel
	generator chat.Generator
	store     ColorStore
	scene     *SceneControl
	modelName string
	markdown  render.Options
	speaker   Speaker
	listener  Listener
	copier    Copier
	logger    *slog.Logger

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	ready          bool
	animationFrame int
	selected       int // transcript index for copy and speak, -1 follows the newest reply
	picking        bool
	picker         picker
	listening      bool
	stopListening  context.CancelFunc
	notice         string
	err            error

	width  int
	height int
}

// NewModel creates the studio model
func NewModel(ctx context.Context, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about colors, or say \"make it navy\"..."
	ta.CharLimit = 2000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	if opts.Scene == nil {
		opts.Scene = NewSceneControl(scene.DefaultOptions())
	}
	if opts.Markdown.Width == 0 {
		opts.Markdown = render.DefaultOptions()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return Model{
		ctx:       ctx,
		panel:     opts.Panel,
		generator: opts.Generator,
		store:     opts.Store,
		scene:     opts.Scene,
		modelName: opts.ModelName,
		markdown:  opts.Markdown,
		speaker:   opts.Speaker,
		listener:  opts.Listener,
		copier:    opts.Copier,
		logger:    opts.Logger,
		textarea:  ta,
		spinner:   s,
		selected:  -1,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// awaiting reports whether a reply is outstanding. The panel owns the state.
func (m Model) awaiting() bool {
	return m.panel.Status() == chat.AwaitingReply
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.picking {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() != "ctrl+c" {
			return m.updatePicker(key)
		}
		m.picker, _, cmd = m.picker.update(msg)
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.stopListening != nil {
				m.stopListening()
			}
			return m, tea.Quit

		case "enter":
			if m.awaiting() {
				return m, nil
			}
			return m.submit()

		case "ctrl+p":
			m.picking = true
			m.picker = newPicker(m.store.Color())
			m.textarea.Blur()
			return m, nil

		case "ctrl+l":
			m.toggleDecal(func(o scene.Options) scene.Options { o.ShowLogo = !o.ShowLogo; return o })
			return m, nil

		case "ctrl+f":
			m.toggleDecal(func(o scene.Options) scene.Options { o.ShowFull = !o.ShowFull; return o })
			return m, nil

		case "ctrl+y":
			return m, m.copySelected()

		case "ctrl+s":
			if m.speaker == nil {
				return m, nil
			}
			return m, m.speakSelected()

		case "ctrl+r":
			if m.listener == nil {
				return m, nil
			}
			return m.toggleListening()

		case "alt+up":
			m.moveSelection(-1)
			m.updateViewport()
			return m, nil

		case "alt+down":
			m.moveSelection(1)
			m.updateViewport()
			return m, nil
		}

	case replyMsg:
		outcome, err := m.panel.Finish(msg.turn, msg.output, msg.err)
		if err != nil {
			m.logger.Warn("stale_reply", slog.String("error", err.Error()))
			break
		}
		if outcome.ReplyMatched {
			m.notice = "Shirt set to " + outcome.ReplyMatch.Name
		}
		m.updateViewport()
		m.viewport.GotoBottom()
		if !m.picking {
			cmds = append(cmds, m.textarea.Focus())
		}

	case copiedMsg:
		switch {
		case msg.err != nil:
			m.logger.Warn("clipboard_failed", slog.String("error", msg.err.Error()))
			m.notice = "Copy failed"
		case msg.method == clipboard.MethodOSC52:
			m.notice = "Copied through the terminal"
		default:
			m.notice = "Copied to clipboard"
		}

	case spokenMsg:
		if msg.err != nil {
			m.logger.Warn("speech_playback_failed", slog.String("error", msg.err.Error()))
			m.notice = "Speech playback failed"
		}

	case heardMsg:
		m.listening = false
		if m.stopListening != nil {
			m.stopListening()
			m.stopListening = nil
		}
		switch {
		case msg.err == nil:
			m.textarea.SetValue(msg.text)
			m.notice = ""
		case errors.Is(msg.err, context.Canceled):
			m.notice = ""
		case errors.Is(msg.err, speech.ErrNoSpeech):
			m.notice = "Didn't catch that"
		default:
			m.logger.Warn("speech_recognition_failed", slog.String("error", msg.err.Error()))
			m.notice = "Speech recognition failed"
		}

	case spinner.TickMsg:
		if m.awaiting() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.awaiting() {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only KeyMsg reaches the textarea to prevent escape sequence leaks
	if !m.awaiting() && !m.picking {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) resize() {
	contentWidth := max(m.width-2, 40)
	messagesWidth := contentWidth - swatchWidth - 4

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - 2
	if vpHeight < 5 {
		vpHeight = 5
	}

	if !m.ready {
		m.viewport = viewport.New(messagesWidth-2, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = messagesWidth - 2
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 6)
	m.updateViewport()
}

// submit hands the input to the panel and starts the call
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := m.textarea.Value()
	switch strings.TrimSpace(input) {
	case "exit", "quit", "/exit", "/quit":
		return m, tea.Quit
	}

	turn, err := m.panel.Begin(input)
	if errors.Is(err, chat.ErrEmptyInput) {
		return m, nil
	}
	if err != nil {
		m.err = err
		return m, nil
	}

	m.textarea.Reset()
	m.textarea.Blur()
	m.err = nil
	m.notice = ""
	if turn.UserMatched {
		m.notice = "Shirt set to " + turn.UserMatch.Name
	}
	m.animationFrame = 0
	m.selected = -1
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.runTurn(turn),
		m.spinner.Tick,
		animationTick(),
	)
}

// runTurn makes the Gemini call off the update loop
func (m Model) runTurn(turn *chat.Turn) tea.Cmd {
	ctx, g := m.ctx, m.generator
	return func() tea.Msg {
		out, err := turn.Run(ctx, g)
		return replyMsg{turn: turn, output: out, err: err}
	}
}

func (m Model) updatePicker(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.picker.hexMode {
		switch key.String() {
		case "[":
			m.scene.Update(func(o scene.Options) scene.Options { return o.MoveLogo(-1) })
			return m, nil
		case "]":
			m.scene.Update(func(o scene.Options) scene.Options { return o.MoveLogo(1) })
			return m, nil
		case "-":
			m.scene.Update(func(o scene.Options) scene.Options { return o.ResizeLogo(-1) })
			return m, nil
		case "=", "+":
			m.scene.Update(func(o scene.Options) scene.Options { return o.ResizeLogo(1) })
			return m, nil
		case "ctrl+l":
			m.toggleDecal(func(o scene.Options) scene.Options { o.ShowLogo = !o.ShowLogo; return o })
			return m, nil
		case "ctrl+f":
			m.toggleDecal(func(o scene.Options) scene.Options { o.ShowFull = !o.ShowFull; return o })
			return m, nil
		case "r":
			change := m.store.Reset()
			m.picker.setColor(change.Color)
			m.picker.preset = -1
			m.logger.Debug("color_changed", slog.String("source", string(change.Source)))
			return m, nil
		}
	}

	p, res, cmd := m.picker.update(key)
	m.picker = p
	if res.changed {
		change := m.store.Set(p.color(), state.SourcePicker)
		m.logger.Debug("color_changed",
			slog.String("source", string(change.Source)),
			slog.String("color", change.Color.Hex()),
		)
	}
	if res.closed {
		m.picking = false
		if !m.awaiting() {
			cmd = tea.Batch(cmd, m.textarea.Focus())
		}
	}
	return m, cmd
}

func (m Model) toggleDecal(fn func(scene.Options) scene.Options) {
	opts := m.scene.Update(fn)
	m.logger.Debug("scene_options_changed",
		slog.Bool("show_logo", opts.ShowLogo),
		slog.Bool("show_full", opts.ShowFull),
	)
}

// selectedMessage is the selected message, or the newest assistant message
func (m Model) selectedMessage() (models.Message, bool) {
	msgs := m.panel.Messages()
	if m.selected >= 0 && m.selected < len(msgs) {
		return msgs[m.selected], true
	}
	return m.panel.LastAssistant()
}

func (m *Model) moveSelection(delta int) {
	n := len(m.panel.Messages())
	if n == 0 {
		return
	}
	i := m.selected
	if i < 0 {
		i = n - 1
	}
	i += delta
	switch {
	case i >= n:
		m.selected = -1
	case i < 0:
		m.selected = 0
	default:
		m.selected = i
	}
}

func (m Model) copySelected() tea.Cmd {
	msg, ok := m.selectedMessage()
	if !ok || m.copier == nil {
		return nil
	}
	copier, text := m.copier, msg.Text
	return func() tea.Msg {
		method, err := copier.Copy(text)
		return copiedMsg{method: method, err: err}
	}
}

func (m Model) speakSelected() tea.Cmd {
	msg, ok := m.selectedMessage()
	if !ok {
		return nil
	}
	ctx, speaker, text := m.ctx, m.speaker, msg.Text
	return func() tea.Msg {
		return spokenMsg{err: speaker.Speak(ctx, text)}
	}
}

// toggleListening starts one recognition, or stops the running one. Either
// way exactly one heardMsg follows.
func (m Model) toggleListening() (tea.Model, tea.Cmd) {
	if m.listening {
		m.stopListening()
		return m, nil
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.listening = true
	m.stopListening = cancel
	m.notice = "Listening..."
	listener := m.listener
	return m, func() tea.Msg {
		text, err := listener.Listen(ctx)
		return heardMsg{text: text, err: err}
	}
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := max(m.width-2, 40)

	// Header
	headerParts := []string{
		titleStyle.Render("👕 teestudio"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.modelName),
		hintStyle.Render("  •  "),
		Chip(m.store.Color()),
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)
	sections = append(sections, headerStyle.Width(contentWidth-2).Render(headerContent))

	// Messages and swatch
	messagesPanel := messagesAreaStyle.
		Width(contentWidth - swatchWidth - 4).
		Height(m.viewport.Height).
		Render(m.viewport.View())
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, messagesPanel, m.renderSwatch()))

	// Input area
	switch {
	case m.picking:
		sections = append(sections, m.picker.view(contentWidth-2))
	case m.awaiting():
		sections = append(sections, inputPanelStyle.Width(contentWidth-2).Render(m.renderLoadingAnimation()))
	default:
		inputContent := lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
		sections = append(sections, inputPanelStyle.Width(contentWidth-2).Render(inputContent))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	switch {
	case m.err != nil:
		sections = append(sections, FormatError(m.err))
	case m.notice != "":
		sections = append(sections, noticeStyle.Render(m.notice))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderSwatch draws the stand-in for the 3D view: the material color the
// renderer would use and the decal settings.
func (m Model) renderSwatch() string {
	color := m.store.Color()
	opts := m.scene.Options()
	sc := scene.Build(color, opts)

	onOff := func(on bool) string {
		if on {
			return swatchOnStyle.Render("on")
		}
		return swatchOffStyle.Render("off")
	}
	row := func(label, value string) string {
		return swatchLabelStyle.Render(fmt.Sprintf("%-6s", label)) + value
	}

	logo := onOff(opts.ShowLogo)
	if opts.ShowLogo {
		logo = swatchValueStyle.Render(labelAt(scene.PositionNames, opts.LogoPosition) + " / " + labelAt(scene.SizeNames, opts.LogoSize))
	}

	lines := []string{
		swatchTitleStyle.Render("3D view"),
		swatch(sc.Material, swatchWidth-2, 4),
		"",
		row("color", swatchValueStyle.Render(sc.Material.Hex())),
		row("near", swatchValueStyle.Render(palette.Nearest(color).Name)),
		row("logo", logo),
		row("full", onOff(opts.ShowFull)),
	}
	return swatchPanelStyle.Width(swatchWidth).Height(m.viewport.Height).Render(strings.Join(lines, "\n"))
}

func labelAt(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return "?"
	}
	return names[i]
}

// renderLoadingAnimation renders a colorful animated loading indicator
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	spinIdx := frame % len(chars)
	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)
		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	dots := ""
	numDots := (frame / 3) % 4
	for i := 0; i < numDots; i++ {
		dotColor := gradientColors[(frame+i)%len(gradientColors)]
		dots += lipgloss.NewStyle().Foreground(dotColor).Render("●")
	}
	for i := numDots; i < 3; i++ {
		dots += lipgloss.NewStyle().Foreground(colorTextMute).Render("○")
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Gemini is thinking ")

	return fmt.Sprintf("%s %s %s %s", spin, bar.String(), text, dots)
}

type shortcut struct {
	key  string
	desc string
}

// shortcuts lists the active bindings. Missing capabilities are left out.
func (m Model) shortcuts() []shortcut {
	if m.picking {
		return []shortcut{
			{"[ ]", "Logo position"},
			{"- =", "Logo size"},
			{"^L", "Logo"},
			{"^F", "Full"},
			{"r", "White"},
			{"Esc", "Done"},
		}
	}
	items := []shortcut{
		{"Enter", "Send"},
		{"^P", "Color"},
		{"^L", "Logo"},
		{"^F", "Full"},
		{"^Y", "Copy"},
	}
	if m.speaker != nil {
		items = append(items, shortcut{"^S", "Speak"})
	}
	if m.listener != nil {
		desc := "Listen"
		if m.listening {
			desc = "Stop"
		}
		items = append(items, shortcut{"^R", desc})
	}
	return append(items, shortcut{"Esc", "Quit"})
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	var items []string
	for _, s := range m.shortcuts() {
		item := lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		)
		items = append(items, item)
	}

	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	md := m.markdown.WithWidth(max(bubbleWidth-4, 20))

	for i, msg := range m.panel.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		mark := ""
		if i == m.selected {
			mark = selectedMarkStyle.Render("▸ ")
		}

		if msg.Sender == models.SenderUser {
			label := userLabelStyle.Render(mark + "⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Text)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render(mark + "✦ Gemini")
			rendered := render.MarkdownOrPlain(msg.Text, md)
			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// Run starts the studio and blocks until the user quits or ctx ends
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(
		NewModel(ctx, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
