package tui

import (
	"sync"

	"github.com/diogo/teestudio/internal/scene"
)

// SceneControl holds the view options the TUI edits and the preview window
// reads each frame.
type SceneControl struct {
	mu   sync.RWMutex
	opts scene.Options
}

// NewSceneControl starts from opts
func NewSceneControl(opts scene.Options) *SceneControl {
	return &SceneControl{opts: opts}
}

// Options returns the current options
func (s *SceneControl) Options() scene.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

// Update applies fn and returns the result
func (s *SceneControl) Update(fn func(scene.Options) scene.Options) scene.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = fn(s.opts)
	return s.opts
}
