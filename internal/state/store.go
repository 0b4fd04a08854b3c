// Package state holds the shared shirt color: one current value for the
// lifetime of the process, written by the manual picker and the chat color
// extractor and read by the views.
package state

import (
	"sync"
	"time"

	"github.com/diogo/teestudio/internal/palette"
)

// Source identifies which producer wrote a color.
type Source string

const (
	SourcePicker    Source = "picker"
	SourceExtractor Source = "extractor"
	SourceReset     Source = "reset"
)

// Change describes one write to the store.
type Change struct {
	Color  palette.RGB
	Source Source
	At     time.Time
}

// subscriberBuffer bounds how many pending changes a subscriber may hold
// before older ones are dropped.
const subscriberBuffer = 8

// Store is the shared color state. The zero value is not usable; use NewStore.
type Store struct {
	mu     sync.RWMutex
	color  palette.RGB
	subs   map[int]chan Change
	nextID int
	now    func() time.Time
}

// NewStore returns a store holding palette.White.
func NewStore() *Store {
	return NewStoreWithColor(palette.White)
}

// NewStoreWithColor returns a store holding c.
func NewStoreWithColor(c palette.RGB) *Store {
	return &Store{
		color: c,
		subs:  make(map[int]chan Change),
		now:   time.Now,
	}
}

// Color returns the current color.
func (s *Store) Color() palette.RGB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.color
}

// Set replaces the current color. Last write wins.
func (s *Store) Set(c palette.RGB, src Source) Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.color = c
	ch := Change{Color: c, Source: src, At: s.now()}
	for _, sub := range s.subs {
		publish(sub, ch)
	}
	return ch
}

// Reset puts the store back to white.
func (s *Store) Reset() Change {
	return s.Set(palette.White, SourceReset)
}

// Subscribe returns a channel receiving every subsequent change and a function
// that unsubscribes and closes the channel.
func (s *Store) Subscribe() (<-chan Change, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Change, subscriberBuffer)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// publish never blocks the writer: when the buffer is full the oldest pending
// change is discarded so the newest one always gets through.
func publish(sub chan Change, c Change) {
	for {
		select {
		case sub <- c:
			return
		default:
		}
		select {
		case <-sub:
		default:
		}
	}
}
