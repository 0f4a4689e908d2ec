package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/soraka/internal/browser"
	"github.com/naveenspark/soraka/pkg/domain"
)

type doctorsLoadedMsg struct {
	doctors []domain.Doctor
	err     error
}

type photoOpenedMsg struct {
	err error
}

// openURL is swapped out in tests.
var openURL = browser.Open

// specialistsModel lists the public doctor directory.
type specialistsModel struct {
	env     env
	doctors []domain.Doctor
	cursor  int
	loading bool
	err     string
	notice  string
	width   int
	height  int
}

func newSpecialistsModel(e env) specialistsModel {
	return specialistsModel{env: e}
}

func (m specialistsModel) Init() (specialistsModel, tea.Cmd) {
	m.loading = true
	m.notice = ""
	e := m.env
	return m, func() tea.Msg {
		ctx, cancel := e.ctx()
		defer cancel()
		docs, err := e.client.ListPublicDoctors(ctx)
		return doctorsLoadedMsg{doctors: docs, err: err}
	}
}

func (m specialistsModel) Update(msg tea.Msg) (specialistsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case doctorsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errorText(msg.err)
			return m, nil
		}
		m.doctors = msg.doctors
		m.err = ""
		if m.cursor >= len(m.doctors) {
			m.cursor = 0
		}

	case photoOpenedMsg:
		if msg.err != nil {
			m.notice = "No se pudo abrir la foto: " + msg.err.Error()
		} else {
			m.notice = "Foto abierta en el navegador."
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.doctors)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "o", "enter":
			if m.cursor < len(m.doctors) {
				link := m.doctors[m.cursor].PhotoURL
				if link == "" {
					m.notice = "Este especialista no tiene foto."
					return m, nil
				}
				return m, func() tea.Msg {
					return photoOpenedMsg{err: openURL(link)}
				}
			}
		case "r":
			return m.Init()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m specialistsModel) View() string {
	var sb strings.Builder
	sb.WriteString(" " + titleStyle.Render("Nuestros Especialistas") + "\n")
	sb.WriteString(" " + dimStyle.Render("Encuentra al profesional adecuado para tu cuidado.") + "\n\n")

	switch {
	case m.loading && len(m.doctors) == 0:
		sb.WriteString(" " + dimStyle.Render("cargando especialistas...") + "\n")
		return sb.String()
	case m.err != "":
		sb.WriteString(" " + errorStyle.Render(m.err) + "\n")
		return sb.String()
	case len(m.doctors) == 0:
		sb.WriteString(" " + dimStyle.Render("No se encontraron médicos disponibles.") + "\n")
		return sb.String()
	}

	nameW := 24
	for i, d := range m.doctors {
		cursor := "  "
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
		}
		location := d.Location
		if location == "" {
			location = "Consultorio Central"
		}
		line := fmt.Sprintf("%s%s %s  %s",
			cursor,
			selectedStyle.Render(padRight(d.Name, nameW)),
			accentStyle.Render(padRight(d.Specialty, 18)),
			dimStyle.Render("⌖ "+location),
		)
		if i == m.cursor {
			line = selectedRowBg.Render(line)
		}
		sb.WriteString(" " + line + "\n")
	}
	if m.notice != "" {
		sb.WriteString("\n " + metaStyle.Render(m.notice) + "\n")
	}
	return sb.String()
}
