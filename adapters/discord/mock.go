package discord

import (
	"sync"

	"github.com/topiclens/topiclens/domain/notify"
	"github.com/topiclens/topiclens/ports"
)

// Mock records events for tests instead of delivering them.
type Mock struct {
	mu     sync.Mutex
	events []notify.Event
}

// NewMock creates an enabled recording notifier.
func NewMock() *Mock { return &Mock{} }

func (m *Mock) Enabled() bool { return true }

func (m *Mock) Notify(event notify.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// Events returns a copy of everything recorded so far.
func (m *Mock) Events() []notify.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]notify.Event, len(m.events))
	copy(out, m.events)
	return out
}

// Count reports how many events were recorded.
func (m *Mock) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

var _ ports.Notifier = (*Mock)(nil)
