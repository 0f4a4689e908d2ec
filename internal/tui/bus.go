package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/soraka/internal/nav"
	"github.com/naveenspark/soraka/internal/session"
)

// sessionChangedMsg is delivered after every session transition.
type sessionChangedMsg struct {
	change session.Change
}

// navigatedMsg is delivered after every history change.
type navigatedMsg struct {
	loc nav.Location
}

// eventBus carries events raised outside the program loop (session and
// history listeners) into it. Pushing never blocks, so listeners may fire
// from Update, View or a command goroutine alike. App.Pump drains it
// into the running program.
type eventBus struct {
	mu     sync.Mutex
	queue  []tea.Msg
	notify chan struct{}
}

func newEventBus() *eventBus {
	return &eventBus{notify: make(chan struct{}, 1)}
}

func (b *eventBus) push(msg tea.Msg) {
	b.mu.Lock()
	b.queue = append(b.queue, msg)
	b.mu.Unlock()
	select {
	case b.notify <- struct{}{}:
	default:
	}
}

func (b *eventBus) tryPop() (tea.Msg, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return nil, false
	}
	msg := b.queue[0]
	b.queue = b.queue[1:]
	return msg, true
}

// next blocks until an event is queued or ctx ends.
func (b *eventBus) next(ctx context.Context) (tea.Msg, bool) {
	for {
		if msg, ok := b.tryPop(); ok {
			return msg, true
		}
		select {
		case <-b.notify:
		case <-ctx.Done():
			return nil, false
		}
	}
}
