// Package render turns assistant markdown into styled terminal text and holds
// the TUI color themes.
package render

// Options configures the markdown renderer
type Options struct {
	// Width is the wrap column
	Width int

	// Style is a glamour standard style ("dark", "light", "notty", ...) or
	// a path to a JSON style file
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
}

// DefaultOptions returns the default configuration
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// WithWidth returns Options with the specified width
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
