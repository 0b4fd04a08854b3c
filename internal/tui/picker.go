package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/teestudio/internal/palette"
)

const (
	pickerStep     = 1
	pickerBigStep  = 16
	pickerBarWidth = 32
)

var channelNames = [3]string{"R", "G", "B"}

// picker is the manual color overlay. It edits 0-255 channels and reports
// every change; the model writes the store.
type picker struct {
	values  [3]uint8
	channel int
	preset  int // index into palette.Table of the last preset, -1 before tab
	hexMode bool
	hex     textinput.Model
	err     string
}

func newPicker(current palette.RGB) picker {
	ti := textinput.New()
	ti.Placeholder = "#rrggbb"
	ti.CharLimit = 7
	ti.Width = 9
	ti.Prompt = ""

	r, g, b := current.Bytes()
	return picker{
		values: [3]uint8{r, g, b},
		preset: -1,
		hex:    ti,
	}
}

// color returns the channels as an RGB
func (p picker) color() palette.RGB {
	return palette.FromBytes(p.values[0], p.values[1], p.values[2])
}

func (p *picker) setColor(c palette.RGB) {
	r, g, b := c.Bytes()
	p.values = [3]uint8{r, g, b}
}

// pickerResult tells the model what a key did
type pickerResult struct {
	changed bool
	closed  bool
}

// update handles one key. Non-key messages only feed the hex input.
func (p picker) update(msg tea.Msg) (picker, pickerResult, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if p.hexMode {
			var cmd tea.Cmd
			p.hex, cmd = p.hex.Update(msg)
			return p, pickerResult{}, cmd
		}
		return p, pickerResult{}, nil
	}

	if p.hexMode {
		return p.updateHex(key)
	}

	var res pickerResult
	switch key.String() {
	case "esc", "enter", "ctrl+p", "q":
		res.closed = true

	case "left", "h":
		p.channel = (p.channel + 2) % 3
	case "right", "l":
		p.channel = (p.channel + 1) % 3

	case "up", "k":
		res.changed = p.adjust(pickerStep)
	case "down", "j":
		res.changed = p.adjust(-pickerStep)
	case "pgup", "K":
		res.changed = p.adjust(pickerBigStep)
	case "pgdown", "J":
		res.changed = p.adjust(-pickerBigStep)

	case "tab":
		p.preset = (p.preset + 1) % len(palette.Table)
		p.setColor(palette.Table[p.preset].Value)
		res.changed = true
	case "shift+tab":
		if p.preset <= 0 {
			p.preset = len(palette.Table)
		}
		p.preset--
		p.setColor(palette.Table[p.preset].Value)
		res.changed = true

	case "#":
		p.hexMode = true
		p.err = ""
		p.hex.SetValue("#")
		p.hex.CursorEnd()
		return p, res, p.hex.Focus()
	}
	return p, res, nil
}

func (p picker) updateHex(key tea.KeyMsg) (picker, pickerResult, tea.Cmd) {
	switch key.String() {
	case "esc":
		p.hexMode = false
		p.err = ""
		p.hex.Blur()
		return p, pickerResult{}, nil

	case "enter":
		c, err := palette.ParseHex(strings.TrimSpace(p.hex.Value()))
		if err != nil {
			p.err = "not a #rgb or #rrggbb color"
			return p, pickerResult{}, nil
		}
		p.setColor(c)
		p.hexMode = false
		p.err = ""
		p.hex.Blur()
		return p, pickerResult{changed: true}, nil
	}

	var cmd tea.Cmd
	p.hex, cmd = p.hex.Update(key)
	return p, pickerResult{}, cmd
}

// adjust moves the active channel by delta, clamped to 0-255
func (p *picker) adjust(delta int) bool {
	v := int(p.values[p.channel]) + delta
	v = max(0, min(255, v))
	if uint8(v) == p.values[p.channel] {
		return false
	}
	p.values[p.channel] = uint8(v)
	return true
}

func (p picker) view(width int) string {
	var b strings.Builder

	c := p.color()
	b.WriteString(pickerTitleStyle.Render("Shirt color"))
	b.WriteString("  ")
	b.WriteString(Chip(c))
	if p.preset >= 0 {
		b.WriteString(hintStyle.Render("  preset: " + palette.Table[p.preset].Name))
	}
	b.WriteString("\n\n")

	for i, name := range channelNames {
		cursor := "  "
		label := pickerChannelStyle.Render(name)
		if i == p.channel {
			cursor = pickerCursorStyle.Render("▸ ")
			label = pickerActiveStyle.Render(name)
		}
		filled := int(p.values[i]) * pickerBarWidth / 255
		bar := pickerBarStyle.Render(strings.Repeat("█", filled)) +
			lipgloss.NewStyle().Foreground(colorSurface).Render(strings.Repeat("░", pickerBarWidth-filled))
		fmt.Fprintf(&b, "%s%s %s %3d\n", cursor, label, bar, p.values[i])
	}

	b.WriteString("\n")
	if p.hexMode {
		b.WriteString(inputLabelStyle.Render("Hex") + p.hex.View())
		if p.err != "" {
			b.WriteString("  " + errorStyle.Render(p.err))
		}
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("enter apply · esc cancel"))
	} else {
		b.WriteString(hintStyle.Render("←→ channel · ↑↓ ±1 · pgup/pgdn ±16 · tab preset · # hex · esc close"))
	}

	return pickerPanelStyle.Width(width).Render(b.String())
}
