package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/soraka/pkg/domain"
)

type loginResultMsg struct {
	identity domain.Identity
	err      error
}

const (
	fieldEmail = iota
	fieldPassword
)

// loginModel is the email/password form. While it is shown it owns the
// keyboard, except esc and ctrl+c.
type loginModel struct {
	env        env
	email      string
	password   string
	focus      int
	submitting bool
	err        string
	width      int
	height     int
}

func newLoginModel(e env) loginModel {
	return loginModel{env: e}
}

// reset clears the form but keeps the environment and size.
func (m loginModel) reset() loginModel {
	n := newLoginModel(m.env)
	n.width, n.height = m.width, m.height
	return n
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	if strings.TrimSpace(m.email) == "" || m.password == "" {
		m.err = "Introduce tu email y tu contraseña."
		return m, nil
	}
	m.submitting = true
	m.err = ""
	e, email, password := m.env, m.email, m.password
	return m, func() tea.Msg {
		ctx, cancel := e.ctx()
		defer cancel()
		token, err := e.client.Login(ctx, email, password)
		if err != nil {
			return loginResultMsg{err: err}
		}
		if err := e.session.Login(token); err != nil {
			return loginResultMsg{err: err}
		}
		id, _ := e.session.Current()
		return loginResultMsg{identity: id}
	}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = errorText(msg.err)
			m.password = ""
			m.focus = fieldPassword
			return m, nil
		}
		return m.reset(), nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down", "shift+tab", "up":
			m.focus = 1 - m.focus
		case "enter":
			if m.focus == fieldEmail {
				m.focus = fieldPassword
				return m, nil
			}
			return m.submit()
		default:
			if m.focus == fieldEmail {
				m.email = editRune(m.email, msg.String())
			} else {
				m.password = editRune(m.password, msg.String())
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m loginModel) View() string {
	var sb strings.Builder
	sb.WriteString(" " + titleStyle.Render("Iniciar sesión") + "\n")
	sb.WriteString(" " + dimStyle.Render("Accede con las credenciales de tu cuenta de paciente.") + "\n\n")

	field := func(label, value, placeholder string, focused bool) string {
		prompt := metaStyle.Render("  ")
		if focused {
			prompt = inputPromptStyle.Render("> ")
		}
		shown := normalStyle.Render(value)
		if value == "" {
			shown = inputPlaceholderStyle.Render(placeholder)
		}
		if focused {
			shown += accentStyle.Render("█")
		}
		return " " + prompt + dimStyle.Render(padRight(label, 11)) + shown + "\n"
	}
	sb.WriteString(field("Email", m.email, "nombre@correo.com", m.focus == fieldEmail))
	sb.WriteString(field("Contraseña", maskPassword(m.password), "********", m.focus == fieldPassword))
	sb.WriteString("\n")

	switch {
	case m.submitting:
		sb.WriteString(" " + dimStyle.Render("comprobando credenciales...") + "\n")
	case m.err != "":
		sb.WriteString(" " + errorStyle.Render(m.err) + "\n")
	}
	return sb.String()
}
