// Package clipboard copies message text to the system clipboard, falling back
// to an OSC 52 escape for terminals without a clipboard utility (SSH, tmux).
package clipboard

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// Method reports how text was copied
type Method string

const (
	MethodSystem Method = "system"
	MethodOSC52  Method = "osc52"
)

// Copier writes text to a clipboard
type Copier struct {
	writeAll    func(string) error
	unsupported func() bool
	terminal    io.Writer
}

// New returns a Copier using the system clipboard and stdout for OSC 52
func New() *Copier {
	return &Copier{
		writeAll:    clipboard.WriteAll,
		unsupported: func() bool { return clipboard.Unsupported },
		terminal:    os.Stdout,
	}
}

// Copy places text on the clipboard
func (c *Copier) Copy(text string) (Method, error) {
	if !c.unsupported() {
		if err := c.writeAll(text); err == nil {
			return MethodSystem, nil
		}
	}
	if _, err := fmt.Fprint(c.terminal, osc52.New(text)); err != nil {
		return "", fmt.Errorf("copy to clipboard: %w", err)
	}
	return MethodOSC52, nil
}

// Copy uses a default Copier
func Copy(text string) (Method, error) {
	return New().Copy(text)
}
