package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/soraka/internal/paginate"
	"github.com/naveenspark/soraka/pkg/domain"
)

type appointmentsLoadedMsg struct {
	gen   int
	scope scope
	appts []domain.Appointment
	err   error
}

type cancelResultMsg struct {
	gen int
	id  int64
	err error
}

type copyResultMsg struct {
	err error
}

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// scope picks which list an appointmentsModel shows.
type scope int

const (
	scopeMine scope = iota // the caller's bookings, cancellable
	scopeAll               // every appointment, read-only (staff)
)

// appointmentsModel is a paginated appointment table. In scopeMine rows can
// be cancelled behind a confirmation modal and copied to the clipboard.
type appointmentsModel struct {
	env        env
	scope      scope
	gen        int
	pager      *paginate.Pager[domain.Appointment]
	cursor     int
	confirming *domain.Appointment
	loading    bool
	busy       bool
	err        string
	notice     string
	width      int
	height     int
}

func newAppointmentsModel(e env, s scope) appointmentsModel {
	return appointmentsModel{env: e, scope: s, pager: paginate.New[domain.Appointment](nil, paginate.DefaultSize)}
}

func (m appointmentsModel) Init() (appointmentsModel, tea.Cmd) {
	m.gen++
	m.loading = true
	m.err = ""
	m.confirming = nil
	gen, s, e := m.gen, m.scope, m.env
	return m, func() tea.Msg {
		ctx, cancel := e.ctx()
		defer cancel()
		var appts []domain.Appointment
		var err error
		if s == scopeAll {
			appts, err = e.client.ListAllAppointments(ctx)
		} else {
			appts, err = e.client.ListMyAppointments(ctx)
		}
		return appointmentsLoadedMsg{gen: gen, scope: s, appts: appts, err: err}
	}
}

// editing reports whether the confirmation modal owns the keyboard.
func (m appointmentsModel) editing() bool {
	return m.confirming != nil
}

func (m appointmentsModel) selected() (domain.Appointment, bool) {
	page := m.pager.Page()
	if m.cursor >= len(page) {
		return domain.Appointment{}, false
	}
	return page[m.cursor], true
}

func (m appointmentsModel) Update(msg tea.Msg) (appointmentsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case appointmentsLoadedMsg:
		if msg.gen != m.gen || msg.scope != m.scope {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = errorText(msg.err)
			return m, nil
		}
		page := m.pager.Current()
		m.pager = paginate.New(msg.appts, paginate.DefaultSize)
		m.pager.Goto(page)
		m.cursor = 0

	case cancelResultMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			m.err = errorText(msg.err)
			return m, nil
		}
		m.pager.Remove(func(a domain.Appointment) bool { return a.ID == msg.id })
		if n := len(m.pager.Page()); m.cursor >= n {
			m.cursor = max(0, n-1)
		}
		m.notice = fmt.Sprintf("Cita %d cancelada.", msg.id)

	case copyResultMsg:
		if msg.err != nil {
			m.notice = "No se pudo copiar: " + msg.err.Error()
		} else {
			m.notice = "Cita copiada al portapapeles."
		}

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		if m.confirming != nil {
			return m.updateConfirm(msg)
		}
		return m.updateList(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m appointmentsModel) updateList(msg tea.KeyMsg) (appointmentsModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.pager.Page())-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "l", "right":
		if m.pager.Next() {
			m.cursor = 0
		}
	case "h", "left":
		if m.pager.Prev() {
			m.cursor = 0
		}
	case "c":
		if m.scope != scopeMine {
			return m, nil
		}
		if a, ok := m.selected(); ok {
			m.confirming = &a
			m.err, m.notice = "", ""
		}
	case "y":
		if a, ok := m.selected(); ok {
			text := summary(a)
			return m, func() tea.Msg {
				return copyResultMsg{err: writeClipboard(text)}
			}
		}
	case "r":
		return m.Init()
	}
	return m, nil
}

func (m appointmentsModel) updateConfirm(msg tea.KeyMsg) (appointmentsModel, tea.Cmd) {
	switch msg.String() {
	case "y", "s", "enter":
		id, gen, e := m.confirming.ID, m.gen, m.env
		m.confirming = nil
		m.busy = true
		return m, func() tea.Msg {
			ctx, cancel := e.ctx()
			defer cancel()
			return cancelResultMsg{gen: gen, id: id, err: e.client.CancelAppointment(ctx, id)}
		}
	case "n", "esc":
		m.confirming = nil
	}
	return m, nil
}

// summary is the plain-text form of an appointment used for copying.
func summary(a domain.Appointment) string {
	s := fmt.Sprintf("Cita %d: %s a las %s con %s (%s)", a.ID, a.StartsAt.Date(), a.StartsAt.Clock(), a.DoctorName, a.DoctorSpecialty)
	if a.Reason != "" {
		s += ". Motivo: " + a.Reason
	}
	return s
}

func (m appointmentsModel) View() string {
	var sb strings.Builder
	if m.scope == scopeAll {
		sb.WriteString(" " + titleStyle.Render("Agenda de citas") + "\n\n")
	} else {
		sb.WriteString(" " + titleStyle.Render("Mis citas") + "\n\n")
	}

	switch {
	case m.loading && m.pager.Len() == 0:
		sb.WriteString(" " + dimStyle.Render("cargando citas...") + "\n")
		return sb.String()
	case m.err != "" && m.pager.Len() == 0:
		sb.WriteString(" " + errorStyle.Render(m.err) + "\n")
		return sb.String()
	case m.pager.Len() == 0:
		if m.scope == scopeMine {
			sb.WriteString(" " + dimStyle.Render("No tienes citas reservadas.") + "\n")
		} else {
			sb.WriteString(" " + dimStyle.Render("No hay citas.") + "\n")
		}
		if m.notice != "" {
			sb.WriteString("\n " + successStyle.Render(m.notice) + "\n")
		}
		return sb.String()
	}

	header := fmt.Sprintf("%-6s %-10s %-6s %-20s %-16s %-11s %s", "ID", "FECHA", "HORA", "MÉDICO", "ESPECIALIDAD", "ESTADO", "MOTIVO")
	sb.WriteString("   " + metaStyle.Render(header) + "\n")
	for i, a := range m.pager.Page() {
		marker := "  "
		if i == m.cursor {
			marker = accentStyle.Render("▸") + " "
		}
		line := fmt.Sprintf("%-6s %-10s %-6s %s %s ",
			strconv.FormatInt(a.ID, 10), a.StartsAt.Date(), a.StartsAt.Clock(),
			padRight(a.DoctorName, 20), padRight(a.DoctorSpecialty, 16))
		line = normalStyle.Render(line) + StatusStyle(a.Status).Render(padRight(string(a.Status), 11)) + " " + dimStyle.Render(truncStr(a.Reason, 30))
		if i == m.cursor {
			line = selectedRowBg.Render(line)
		}
		sb.WriteString(" " + marker + line + "\n")
	}
	sb.WriteString("   " + metaStyle.Render(fmt.Sprintf("página %d de %d · %d citas", m.pager.Current(), m.pager.Total(), m.pager.Len())) + "\n")

	if m.busy {
		sb.WriteString("\n " + dimStyle.Render("cancelando...") + "\n")
	}
	if m.err != "" {
		sb.WriteString("\n " + errorStyle.Render(m.err) + "\n")
	}
	if m.notice != "" {
		sb.WriteString("\n " + successStyle.Render(m.notice) + "\n")
	}

	if m.confirming != nil {
		body := selectedStyle.Render("¿Cancelar esta cita?") + "\n\n" +
			normalStyle.Render(summary(*m.confirming)) + "\n\n" +
			helpEntry("y", "sí, cancelar") + "   " + helpEntry("n", "volver")
		modal := modalStyle.Render(body)
		if m.width > 0 {
			modal = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, modal)
		}
		sb.WriteString("\n" + modal + "\n")
	}
	return sb.String()
}
