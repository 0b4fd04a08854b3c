package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the TUI interface
type TUITheme struct {
	Name        string
	Description string

	// Base colors
	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Accent colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	// Text colors
	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// Built-in TUI themes
var (
	// DenimTheme is the default: washed indigo with stitching orange
	DenimTheme = TUITheme{
		Name:        "denim",
		Description: "Denim - indigo background with orange stitching accents",

		Background: lipgloss.Color("#151c2c"),
		Surface:    lipgloss.Color("#1f2940"),
		Border:     lipgloss.Color("#3c4b6e"),

		Primary:   lipgloss.Color("#6f9ceb"),
		Secondary: lipgloss.Color("#e8a24a"),
		Accent:    lipgloss.Color("#c4a7e7"),
		Warning:   lipgloss.Color("#f2c94c"),
		Error:     lipgloss.Color("#eb6f6f"),

		Text:     lipgloss.Color("#d8def0"),
		TextDim:  lipgloss.Color("#6b7899"),
		TextMute: lipgloss.Color("#36415c"),
	}

	// CharcoalTheme is a neutral dark gray
	CharcoalTheme = TUITheme{
		Name:        "charcoal",
		Description: "Charcoal - neutral grays with a mint accent",

		Background: lipgloss.Color("#1b1b1d"),
		Surface:    lipgloss.Color("#28282b"),
		Border:     lipgloss.Color("#47474d"),

		Primary:   lipgloss.Color("#8fd6b4"),
		Secondary: lipgloss.Color("#b9c1c9"),
		Accent:    lipgloss.Color("#f08fb8"),
		Warning:   lipgloss.Color("#e6c36a"),
		Error:     lipgloss.Color("#e0716c"),

		Text:     lipgloss.Color("#e4e4e7"),
		TextDim:  lipgloss.Color("#7d7d86"),
		TextMute: lipgloss.Color("#4a4a52"),
	}

	// CanvasTheme is a light theme for bright terminals
	CanvasTheme = TUITheme{
		Name:        "canvas",
		Description: "Canvas - light cream with navy ink",

		Background: lipgloss.Color("#f7f3e8"),
		Surface:    lipgloss.Color("#ebe4d2"),
		Border:     lipgloss.Color("#b8ad92"),

		Primary:   lipgloss.Color("#1f3a6e"),
		Secondary: lipgloss.Color("#2f7a4f"),
		Accent:    lipgloss.Color("#9c3d6b"),
		Warning:   lipgloss.Color("#a36a00"),
		Error:     lipgloss.Color("#b3261e"),

		Text:     lipgloss.Color("#1e1e24"),
		TextDim:  lipgloss.Color("#6a6458"),
		TextMute: lipgloss.Color("#b8ad92"),
	}
)

var (
	themeMu         sync.RWMutex
	currentTUITheme = DenimTheme
)

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme sets the active TUI theme by name
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	themeMu.Lock()
	currentTUITheme = theme
	themeMu.Unlock()
	return true
}

// GetTUIThemeByName returns a TUI theme by its name, case-insensitively
func GetTUIThemeByName(name string) (TUITheme, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range AvailableTUIThemes() {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes returns a list of all available TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{DenimTheme, CharcoalTheme, CanvasTheme}
}

// TUIThemeNames returns just the theme names for selection
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
