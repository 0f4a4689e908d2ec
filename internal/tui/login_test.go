package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestLoginFormValidation(t *testing.T) {
	m := newLoginModel(env{})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("submitted with empty fields")
	}
	if m.err == "" {
		t.Error("expected a validation message")
	}
}

func TestLoginFormFocusCycle(t *testing.T) {
	m := newLoginModel(env{})
	if m.focus != fieldEmail {
		t.Fatalf("initial focus = %d, want email", m.focus)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.focus != fieldPassword {
		t.Errorf("enter on email: focus = %d, want password", m.focus)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != fieldEmail {
		t.Errorf("shift+tab: focus = %d, want email", m.focus)
	}
}

func TestLoginPasswordMasked(t *testing.T) {
	m := newLoginModel(env{})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	for _, r := range "secreto" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if m.password != "secreto" {
		t.Fatalf("password = %q", m.password)
	}
	v := m.View()
	if strings.Contains(v, "secreto") {
		t.Error("password shown in clear text")
	}
	if !strings.Contains(v, "•••••••") {
		t.Error("masked password missing")
	}
}

func TestLoginIgnoresKeysWhileSubmitting(t *testing.T) {
	m := newLoginModel(env{})
	m.submitting = true
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if m.email != "" {
		t.Error("typed while a login was in flight")
	}
}

func TestLoginResetKeepsSize(t *testing.T) {
	m := newLoginModel(env{})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 90, Height: 20})
	m.email = "ana@clinica.es"
	m = m.reset()
	if m.email != "" || m.width != 90 || m.height != 20 {
		t.Errorf("reset = %+v", m)
	}
}
