package render

import (
	"os"

	"github.com/diogo/teestudio/internal/config"
)

// OptionsFromConfig builds render options from the markdown section of the
// configuration. GLAMOUR_STYLE overrides the style.
func OptionsFromConfig(md config.MarkdownConfig) Options {
	opts := DefaultOptions()
	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	return opts
}
