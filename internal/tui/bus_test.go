package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/soraka/internal/nav"
)

func TestEventBusOrder(t *testing.T) {
	b := newEventBus()
	b.push(navigatedMsg{loc: nav.Home})
	b.push(navigatedMsg{loc: nav.Login})

	for _, want := range []nav.Location{nav.Home, nav.Login} {
		msg, ok := b.tryPop()
		if !ok {
			t.Fatal("queue drained early")
		}
		if got := msg.(navigatedMsg).loc; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
	if _, ok := b.tryPop(); ok {
		t.Error("queue not empty")
	}
}

func TestEventBusNextWakesOnPush(t *testing.T) {
	b := newEventBus()
	got := make(chan tea.Msg, 1)
	go func() {
		msg, _ := b.next(context.Background())
		got <- msg
	}()

	b.push(navigatedMsg{loc: nav.Dashboard})
	select {
	case msg := <-got:
		if msg.(navigatedMsg).loc != nav.Dashboard {
			t.Errorf("got %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("next did not return after push")
	}
}

func TestEventBusNextStopsOnCancel(t *testing.T) {
	b := newEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok := b.next(ctx); ok {
		t.Error("next returned a message from an empty bus")
	}
}

func TestAppPumpForwardsEvents(t *testing.T) {
	h := newHarness(t, "", nav.Home)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan tea.Msg, 4)
	done := make(chan struct{})
	go func() {
		h.app.Pump(ctx, func(m tea.Msg) { got <- m })
		close(done)
	}()

	h.history.Navigate(nav.Specialists, false)
	select {
	case msg := <-got:
		if nm, ok := msg.(navigatedMsg); !ok || nm.loc != nav.Specialists {
			t.Errorf("pumped %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("navigation not pumped")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Pump did not stop after cancel")
	}
}
