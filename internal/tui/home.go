package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/soraka/pkg/domain"
)

type specialtiesLoadedMsg struct {
	specs []domain.Specialty
	err   error
}

// homeModel is the public landing view: a short welcome and the list of
// specialties the clinic offers.
type homeModel struct {
	env     env
	specs   []domain.Specialty
	loading bool
	err     string
	width   int
	height  int
}

func newHomeModel(e env) homeModel {
	return homeModel{env: e}
}

func (m homeModel) Init() (homeModel, tea.Cmd) {
	m.loading = true
	e := m.env
	return m, func() tea.Msg {
		ctx, cancel := e.ctx()
		defer cancel()
		specs, err := e.client.ListSpecialties(ctx)
		return specialtiesLoadedMsg{specs: specs, err: err}
	}
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case specialtiesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = errorText(msg.err)
		} else {
			m.specs = msg.specs
			m.err = ""
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m homeModel) View() string {
	var sb strings.Builder
	sb.WriteString(" " + titleStyle.Render("Clínica Virtual") + "\n")
	sb.WriteString(" " + dimStyle.Render("Reserva tu cita con nuestros especialistas sin esperas.") + "\n\n")

	sb.WriteString(" " + selectedStyle.Render("Especialidades") + "\n")
	switch {
	case m.loading && len(m.specs) == 0:
		sb.WriteString(" " + dimStyle.Render("cargando...") + "\n")
	case m.err != "":
		sb.WriteString(" " + errorStyle.Render(m.err) + "\n")
	case len(m.specs) == 0:
		sb.WriteString(" " + dimStyle.Render("no hay especialidades registradas") + "\n")
	default:
		for _, s := range m.specs {
			sb.WriteString("   " + accentStyle.Render("•") + " " + normalStyle.Render(s.Name) + "\n")
		}
	}
	sb.WriteString("\n " + dimStyle.Render("Pulsa ") + helpKeyStyle.Render("2") + dimStyle.Render(" para ver el equipo médico o ") +
		helpKeyStyle.Render("l") + dimStyle.Render(" para iniciar sesión."))
	return sb.String()
}
