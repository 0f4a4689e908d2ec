package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/naveenspark/soraka/internal/paginate"
	"github.com/naveenspark/soraka/pkg/client"
	"github.com/naveenspark/soraka/pkg/domain"
)

type dashboardLoadedMsg struct {
	gen   int
	specs []domain.Specialty
	slots []domain.Appointment
	err   error
}

type reserveResultMsg struct {
	gen int
	id  int64
	err error
}

type dashboardFocus int

const (
	focusSpecialties dashboardFocus = iota
	focusSlots
	focusReason
)

// dashboardModel is the patient panel: pick a specialty, then an open slot,
// then state a reason to book it.
type dashboardModel struct {
	env        env
	gen        int
	specs      []domain.Specialty
	slots      []domain.Appointment
	selected   string
	pager      *paginate.Pager[domain.Appointment]
	specCursor int
	slotCursor int
	focus      dashboardFocus
	reason     string
	loading    bool
	busy       bool
	err        string
	notice     string
	width      int
	height     int
}

func newDashboardModel(e env) dashboardModel {
	return dashboardModel{env: e, pager: paginate.New[domain.Appointment](nil, paginate.DefaultSize)}
}

// Init fetches specialties and open slots in parallel. A response tagged
// with an older generation is dropped when it arrives.
func (m dashboardModel) Init() (dashboardModel, tea.Cmd) {
	m.gen++
	m.loading = true
	m.err = ""
	gen, e := m.gen, m.env
	return m, func() tea.Msg {
		ctx, cancel := e.ctx()
		defer cancel()

		var specs []domain.Specialty
		var slots []domain.Appointment
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			specs, err = e.client.ListSpecialties(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			slots, err = e.client.ListAvailableAppointments(gctx)
			return err
		})
		err := g.Wait()
		return dashboardLoadedMsg{gen: gen, specs: specs, slots: slots, err: err}
	}
}

// editing reports whether keys should go to the reason input.
func (m dashboardModel) editing() bool {
	return m.focus == focusReason
}

// capturesEsc reports whether esc steps back inside the view rather than
// leaving it.
func (m dashboardModel) capturesEsc() bool {
	return m.focus != focusSpecialties
}

func (m dashboardModel) selectSpecialty(name string) dashboardModel {
	m.selected = name
	m.pager = paginate.New(client.FilterBySpecialty(m.slots, name), paginate.DefaultSize)
	m.slotCursor = 0
	m.focus = focusSlots
	return m
}

func (m dashboardModel) reserve() (dashboardModel, tea.Cmd) {
	page := m.pager.Page()
	if m.slotCursor >= len(page) {
		return m, nil
	}
	reason := strings.TrimSpace(m.reason)
	if reason == "" {
		m.err = "Indica el motivo de la consulta."
		return m, nil
	}
	m.busy = true
	m.err = ""
	id, gen, e := page[m.slotCursor].ID, m.gen, m.env
	return m, func() tea.Msg {
		ctx, cancel := e.ctx()
		defer cancel()
		return reserveResultMsg{gen: gen, id: id, err: e.client.ReserveAppointment(ctx, id, reason)}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = errorText(msg.err)
			return m, nil
		}
		m.specs, m.slots = msg.specs, msg.slots
		if m.specCursor >= len(m.specs) {
			m.specCursor = 0
		}
		if m.selected != "" {
			focus := m.focus
			m = m.selectSpecialty(m.selected)
			m.focus = focus
		}

	case reserveResultMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			m.err = errorText(msg.err)
			return m, nil
		}
		m.notice = fmt.Sprintf("Cita %d reservada. Puedes verla en Mis citas.", msg.id)
		m.reason = ""
		m.focus = focusSlots
		match := func(a domain.Appointment) bool { return a.ID == msg.id }
		m.pager.Remove(match)
		for i, a := range m.slots {
			if match(a) {
				m.slots = append(m.slots[:i:i], m.slots[i+1:]...)
				break
			}
		}
		if m.slotCursor >= len(m.pager.Page()) && m.slotCursor > 0 {
			m.slotCursor--
		}

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch m.focus {
		case focusReason:
			return m.updateReason(msg)
		case focusSlots:
			return m.updateSlots(msg)
		default:
			return m.updateSpecialties(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m dashboardModel) updateSpecialties(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.specCursor < len(m.specs)-1 {
			m.specCursor++
		}
	case "k", "up":
		if m.specCursor > 0 {
			m.specCursor--
		}
	case "enter":
		if m.specCursor < len(m.specs) {
			m.notice = ""
			return m.selectSpecialty(m.specs[m.specCursor].Name), nil
		}
	case "r":
		return m.Init()
	}
	return m, nil
}

func (m dashboardModel) updateSlots(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = focusSpecialties
		m.notice = ""
	case "j", "down":
		if m.slotCursor < len(m.pager.Page())-1 {
			m.slotCursor++
		}
	case "k", "up":
		if m.slotCursor > 0 {
			m.slotCursor--
		}
	case "l", "right":
		if m.pager.Next() {
			m.slotCursor = 0
		}
	case "h", "left":
		if m.pager.Prev() {
			m.slotCursor = 0
		}
	case "enter":
		if m.slotCursor < len(m.pager.Page()) {
			m.focus = focusReason
			m.reason = ""
			m.err = ""
			m.notice = ""
		}
	case "r":
		return m.Init()
	}
	return m, nil
}

func (m dashboardModel) updateReason(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = focusSlots
		m.reason = ""
		m.err = ""
	case "enter":
		return m.reserve()
	default:
		m.reason = editRune(m.reason, msg.String())
	}
	return m, nil
}

func (m dashboardModel) View(name string) string {
	var sb strings.Builder
	sb.WriteString(" " + titleStyle.Render("Hola, "+name) + "\n")
	sb.WriteString(" " + dimStyle.Render("Selecciona una especialidad para ver las citas disponibles.") + "\n\n")

	if m.loading && len(m.specs) == 0 {
		sb.WriteString(" " + dimStyle.Render("cargando...") + "\n")
		return sb.String()
	}

	sb.WriteString(" " + selectedStyle.Render("Especialidad") + "\n")
	for i, s := range m.specs {
		marker := "  "
		if m.focus == focusSpecialties && i == m.specCursor {
			marker = accentStyle.Render("▸") + " "
		}
		label := normalStyle.Render(s.Name)
		if s.Name == m.selected {
			label = accentStyle.Render(s.Name + " ✓")
		}
		sb.WriteString("  " + marker + label + "\n")
	}

	if m.selected != "" {
		sb.WriteString("\n " + selectedStyle.Render("Citas disponibles · "+m.selected) + "\n")
		sb.WriteString(m.slotsView())
	}

	if m.focus == focusReason {
		page := m.pager.Page()
		if m.slotCursor < len(page) {
			a := page[m.slotCursor]
			sb.WriteString("\n " + dimStyle.Render(fmt.Sprintf("Reservar %s %s con %s", a.StartsAt.Date(), a.StartsAt.Clock(), a.DoctorName)) + "\n")
		}
		input := inputPlaceholderStyle.Render("motivo de la consulta")
		if m.reason != "" {
			input = normalStyle.Render(m.reason)
		}
		sb.WriteString(" " + inputPromptStyle.Render("> ") + input + accentStyle.Render("█") + "\n")
	}

	if m.busy {
		sb.WriteString("\n " + dimStyle.Render("reservando...") + "\n")
	}
	if m.err != "" {
		sb.WriteString("\n " + errorStyle.Render(m.err) + "\n")
	}
	if m.notice != "" {
		sb.WriteString("\n " + successStyle.Render(m.notice) + "\n")
	}
	return sb.String()
}

func (m dashboardModel) slotsView() string {
	page := m.pager.Page()
	if len(page) == 0 {
		return "   " + dimStyle.Render("No hay citas disponibles para esta especialidad.") + "\n"
	}
	var sb strings.Builder
	sb.WriteString("   " + metaStyle.Render(fmt.Sprintf("%-6s %-10s %-6s %s", "ID", "FECHA", "HORA", "MÉDICO")) + "\n")
	for i, a := range page {
		marker := "  "
		if m.focus != focusSpecialties && i == m.slotCursor {
			marker = accentStyle.Render("▸") + " "
		}
		line := fmt.Sprintf("%-6s %-10s %-6s %s", strconv.FormatInt(a.ID, 10), a.StartsAt.Date(), a.StartsAt.Clock(), a.DoctorName)
		sb.WriteString(" " + marker + normalStyle.Render(line) + "\n")
	}
	sb.WriteString("   " + metaStyle.Render(fmt.Sprintf("página %d de %d", m.pager.Current(), m.pager.Total())) + "\n")
	return sb.String()
}
