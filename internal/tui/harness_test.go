package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/soraka/internal/backendtest"
	"github.com/naveenspark/soraka/internal/nav"
	"github.com/naveenspark/soraka/internal/session"
	"github.com/naveenspark/soraka/internal/store"
	"github.com/naveenspark/soraka/pkg/client"
	"github.com/naveenspark/soraka/pkg/domain"
)

const patientID = 42

// harness drives an App against the fake backend the way the Bubbletea
// runtime would: every Update is followed by a View, commands run to
// completion and bus events are fed back in order.
type harness struct {
	t       *testing.T
	srv     *backendtest.Server
	store   *store.MemoryStore
	sess    *session.Context
	history *nav.History
	app     App
	quit    bool
}

// newHarness starts at start with a stored credential for role. An empty
// role starts logged out.
func newHarness(t *testing.T, role domain.Role, start nav.Location) *harness {
	t.Helper()
	h := &harness{t: t, srv: backendtest.New(t), history: nav.NewHistory(start)}

	token := ""
	if role != "" {
		token = backendtest.Mint(t, role, time.Now().Add(time.Hour))
		h.srv.Accept(token, backendtest.Principal{ID: patientID, Role: role})
	}
	h.store = store.NewMemoryStore(token)
	h.sess = session.New(h.store, session.WithNavigator(h.history))
	h.sess.Initialize()

	c := client.New(h.srv.URL, client.NewGateway(h.store, h.sess.Logout))
	h.app = NewApp(Deps{Client: c, Session: h.sess, History: h.history, Timeout: 5 * time.Second})
	t.Cleanup(h.app.Close)

	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	h.app.Init()
	h.settle()
	return h
}

// send delivers msg and everything it causes.
func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	queue := []tea.Msg{msg}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			h.t.Fatal("message loop did not settle")
		}
		m := queue[0]
		queue = queue[1:]

		model, cmd := h.app.Update(m)
		h.app = model.(App)
		h.app.View()
		queue = append(queue, h.exec(cmd)...)
		queue = append(queue, h.drain()...)
	}
}

// settle processes whatever is already waiting on the bus.
func (h *harness) settle() {
	h.t.Helper()
	for _, m := range h.drain() {
		h.send(m)
	}
}

func (h *harness) drain() []tea.Msg {
	var out []tea.Msg
	for {
		m, ok := h.app.bus.tryPop()
		if !ok {
			return out
		}
		out = append(out, m)
	}
}

func (h *harness) exec(cmd tea.Cmd) []tea.Msg {
	h.t.Helper()
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(5 * time.Second):
		h.t.Fatal("command did not finish")
	}

	switch msg := msg.(type) {
	case nil, shimmerTickMsg:
		return nil
	case tea.QuitMsg:
		h.quit = true
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, h.exec(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func (h *harness) key(keys ...string) {
	h.t.Helper()
	for _, k := range keys {
		h.send(keyMsg(k))
	}
}

// typeText sends s one rune at a time.
func (h *harness) typeText(s string) {
	h.t.Helper()
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *harness) view() string {
	return h.app.View()
}

func (h *harness) assertLocation(want nav.Location) {
	h.t.Helper()
	if got := h.history.Current(); got != want {
		h.t.Fatalf("location = %q, want %q (history %v)", got, want, h.history.Entries())
	}
}

func (h *harness) assertViewContains(want string) {
	h.t.Helper()
	if v := h.view(); !strings.Contains(v, want) {
		h.t.Fatalf("view does not contain %q:\n%s", want, v)
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func sameEntries(got, want []nav.Location) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
