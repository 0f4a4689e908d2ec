package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/soraka/internal/guard"
	"github.com/naveenspark/soraka/internal/nav"
	"github.com/naveenspark/soraka/internal/session"
	"github.com/naveenspark/soraka/pkg/client"
	"github.com/naveenspark/soraka/pkg/domain"
)

// Deps wires the TUI to the rest of the client.
type Deps struct {
	Client  *client.Client
	Session *session.Context
	History *nav.History
	Timeout time.Duration // per backend call; zero means none
	Logger  *slog.Logger
}

// access lists the roles each protected location admits. Locations not in
// the map are public.
var access = map[nav.Location]guard.RoleSet{
	nav.Dashboard:       guard.Roles(domain.RolePatient),
	nav.MyAppointments:  guard.Roles(domain.RolePatient),
	nav.AllAppointments: guard.Roles(domain.RoleDoctor, domain.RoleAdmin),
}

// landing is where a fresh login takes each role.
func landing(r domain.Role) nav.Location {
	if r == domain.RolePatient {
		return nav.Dashboard
	}
	return nav.AllAppointments
}

type tab struct {
	key  string
	name string
	loc  nav.Location
}

var tabs = []tab{
	{"1", "Inicio", nav.Home},
	{"2", "Especialistas", nav.Specialists},
	{"3", "Panel", nav.Dashboard},
	{"4", "Mis citas", nav.MyAppointments},
	{"5", "Agenda", nav.AllAppointments},
}

// App is the root Bubbletea model. The current view is whatever location
// sits on top of the History; every protected view renders through the
// Guard.
type App struct {
	deps        Deps
	guard       *guard.Guard
	bus         *eventBus
	unsubscribe []func()

	home         homeModel
	specialists  specialistsModel
	login        loginModel
	dashboard    dashboardModel
	appointments appointmentsModel
	agenda       appointmentsModel

	flash  string
	width  int
	height int
	frame  int
}

// NewApp creates the TUI and subscribes it to session and history changes.
// Call Close once the program exits.
func NewApp(d Deps) App {
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e := env{client: d.Client, session: d.Session, timeout: d.Timeout, logger: d.Logger}
	bus := newEventBus()
	a := App{
		deps:         d,
		guard:        guard.New(d.Session, d.History),
		bus:          bus,
		home:         newHomeModel(e),
		specialists:  newSpecialistsModel(e),
		login:        newLoginModel(e),
		dashboard:    newDashboardModel(e),
		appointments: newAppointmentsModel(e, scopeMine),
		agenda:       newAppointmentsModel(e, scopeAll),
	}
	a.unsubscribe = []func(){
		d.Session.Subscribe(func(c session.Change) { bus.push(sessionChangedMsg{change: c}) }),
		d.History.Subscribe(func(loc nav.Location) { bus.push(navigatedMsg{loc: loc}) }),
	}
	return a
}

// Close detaches the App from the session and history.
func (a App) Close() {
	for _, fn := range a.unsubscribe {
		fn()
	}
}

// Init queues entry into the starting location so its state changes go
// through Update like any later navigation.
func (a App) Init() tea.Cmd {
	a.bus.push(navigatedMsg{loc: a.location()})
	return shimmerTickCmd()
}

// Pump delivers session and navigation events to send, typically
// (*tea.Program).Send, until ctx is cancelled. Run it on its own goroutine.
func (a App) Pump(ctx context.Context, send func(tea.Msg)) {
	for {
		msg, ok := a.bus.next(ctx)
		if !ok {
			return
		}
		send(msg)
	}
}

func (a App) location() nav.Location {
	return a.deps.History.Current()
}

// allowed is the guard decision without the redirect side effect.
func (a App) allowed(loc nav.Location) bool {
	required, protected := access[loc]
	if !protected {
		return true
	}
	id, ok := a.deps.Session.Current()
	return guard.Decide(id, ok, required) == guard.Allow
}

// enter prepares the view for loc, loading its data when access is allowed.
func (a App) enter(loc nav.Location) (App, tea.Cmd) {
	if !a.allowed(loc) {
		return a, nil
	}
	var cmd tea.Cmd
	switch loc {
	case nav.Home:
		a.home, cmd = a.home.Init()
	case nav.Specialists:
		a.specialists, cmd = a.specialists.Init()
	case nav.Login:
		a.login = a.login.reset()
	case nav.Dashboard:
		a.dashboard, cmd = a.dashboard.Init()
	case nav.MyAppointments:
		a.appointments, cmd = a.appointments.Init()
	case nav.AllAppointments:
		a.agenda, cmd = a.agenda.Init()
	}
	return a, cmd
}

// resetUserViews drops everything loaded on behalf of the previous identity.
func (a App) resetUserViews() App {
	e := a.dashboard.env
	size := tea.WindowSizeMsg{Width: a.width, Height: a.bodyHeight()}
	a.dashboard, _ = newDashboardModel(e).Update(size)
	a.appointments, _ = newAppointmentsModel(e, scopeMine).Update(size)
	a.agenda, _ = newAppointmentsModel(e, scopeAll).Update(size)
	return a
}

func (a App) bodyHeight() int {
	// Chrome: header(2) + tabs(1) + flash(1) + help(1)
	return a.height - 5
}

func (a App) isEditing() bool {
	switch a.location() {
	case nav.Login:
		return true
	case nav.Dashboard:
		return a.dashboard.editing()
	case nav.MyAppointments:
		return a.appointments.editing()
	}
	return false
}

func (a App) capturesEsc() bool {
	switch a.location() {
	case nav.Login:
		return false
	case nav.Dashboard:
		return a.dashboard.capturesEsc()
	}
	return a.isEditing()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		body := tea.WindowSizeMsg{Width: msg.Width, Height: a.bodyHeight()}
		a.home, _ = a.home.Update(body)
		a.specialists, _ = a.specialists.Update(body)
		a.login, _ = a.login.Update(body)
		a.dashboard, _ = a.dashboard.Update(body)
		a.appointments, _ = a.appointments.Update(body)
		a.agenda, _ = a.agenda.Update(body)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case navigatedMsg:
		var cmd tea.Cmd
		a, cmd = a.enter(msg.loc)
		return a, cmd

	case sessionChangedMsg:
		switch msg.change.Event {
		case session.EventLoggedOut:
			a.flash = "Sesión cerrada."
		case session.EventDiscarded:
			a.flash = "Tu sesión ha caducado. Inicia sesión de nuevo."
		case session.EventLoggedIn, session.EventRestored:
			a.flash = ""
		}
		if !msg.change.Authenticated {
			a = a.resetUserViews()
		}
		return a, nil

	case loginResultMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		if msg.err == nil {
			a.deps.History.Navigate(landing(msg.identity.Role), true)
		}
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if msg.String() == "esc" && !a.capturesEsc() {
			a.deps.History.Back()
			return a, nil
		}
		if !a.isEditing() {
			if cmd, handled := a.globalKey(msg.String()); handled {
				return a, cmd
			}
		}
	}

	return a.route(msg)
}

// globalKey handles navigation keys available outside text inputs.
func (a App) globalKey(key string) (tea.Cmd, bool) {
	for _, t := range tabs {
		if key == t.key {
			if a.location() != t.loc {
				a.deps.History.Navigate(t.loc, false)
			}
			return nil, true
		}
	}
	switch key {
	case "q":
		return tea.Quit, true
	case "l":
		if _, ok := a.deps.Session.Current(); !ok && a.location() != nav.Login {
			a.deps.History.Navigate(nav.Login, false)
			return nil, true
		}
	case "x":
		if _, ok := a.deps.Session.Current(); ok {
			a.deps.Session.Logout()
			return nil, true
		}
	}
	return nil, false
}

// route hands msg to the view on screen. Protected views only receive
// messages while the guard admits the current identity.
func (a App) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	loc := a.location()
	if !a.allowed(loc) {
		return a, nil
	}
	var cmd tea.Cmd
	switch loc {
	case nav.Home:
		a.home, cmd = a.home.Update(msg)
	case nav.Specialists:
		a.specialists, cmd = a.specialists.Update(msg)
	case nav.Login:
		a.login, cmd = a.login.Update(msg)
	case nav.Dashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case nav.MyAppointments:
		a.appointments, cmd = a.appointments.Update(msg)
	case nav.AllAppointments:
		a.agenda, cmd = a.agenda.Update(msg)
	}
	return a, cmd
}

// body renders the current view. Protected views go through Guard.Protect,
// which redirects and yields nothing when access is denied.
func (a App) body() string {
	loc := a.location()
	if required, ok := access[loc]; ok {
		return a.guard.Protect(required, func() string { return a.protectedView(loc) })
	}
	switch loc {
	case nav.Specialists:
		return a.specialists.View()
	case nav.Login:
		return a.login.View()
	default:
		return a.home.View()
	}
}

func (a App) protectedView(loc nav.Location) string {
	switch loc {
	case nav.Dashboard:
		id, _ := a.deps.Session.Current()
		return a.dashboard.View(id.DisplayName())
	case nav.MyAppointments:
		return a.appointments.View()
	default:
		return a.agenda.View()
	}
}

func (a App) helpLine() string {
	keys := [][2]string{{"1-5", "secciones"}, {"esc", "atrás"}}
	switch a.location() {
	case nav.Login:
		return helpBar([2]string{"tab", "campo"}, [2]string{"enter", "entrar"}, [2]string{"esc", "volver"})
	case nav.Specialists:
		keys = append(keys, [2]string{"j/k", "mover"}, [2]string{"o", "ver foto"})
	case nav.Dashboard:
		switch a.dashboard.focus {
		case focusReason:
			return helpBar([2]string{"enter", "reservar"}, [2]string{"esc", "cancelar"})
		case focusSlots:
			keys = append(keys, [2]string{"j/k", "cita"}, [2]string{"h/l", "página"}, [2]string{"enter", "reservar"})
		default:
			keys = append(keys, [2]string{"j/k", "especialidad"}, [2]string{"enter", "elegir"})
		}
	case nav.MyAppointments:
		if a.appointments.confirming != nil {
			return helpBar([2]string{"y", "confirmar"}, [2]string{"n", "volver"})
		}
		keys = append(keys, [2]string{"h/l", "página"}, [2]string{"c", "cancelar"}, [2]string{"y", "copiar"})
	case nav.AllAppointments:
		keys = append(keys, [2]string{"h/l", "página"}, [2]string{"y", "copiar"})
	}
	if _, ok := a.deps.Session.Current(); ok {
		keys = append(keys, [2]string{"x", "salir"})
	} else {
		keys = append(keys, [2]string{"l", "entrar"})
	}
	keys = append(keys, [2]string{"q", "cerrar"})
	return helpBar(keys...)
}

func (a App) header() string {
	logo := center(renderShimmerLogo(a.frame), a.width)
	var who string
	if id, ok := a.deps.Session.Current(); ok {
		who = normalStyle.Render(id.DisplayName()) + metaStyle.Render(" · ") + RoleBadge(id.Role)
	} else {
		who = metaStyle.Render("sin sesión")
	}
	return logo + "\n" + center(who, a.width)
}

func (a App) tabBar() string {
	if len(tabs) == 0 || a.width <= 0 {
		return ""
	}
	colWidth := a.width / len(tabs)
	cur := a.location()
	var sb strings.Builder
	for _, t := range tabs {
		var label string
		if t.loc == cur {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		w := lipgloss.Width(label)
		left := max(0, (colWidth-w)/2)
		right := max(0, colWidth-w-left)
		sb.WriteString(strings.Repeat(" ", left) + label + strings.Repeat(" ", right))
	}
	return sb.String()
}

func (a App) View() string {
	body := a.body()
	body = strings.TrimRight(truncateToHeight(body, a.bodyHeight()), "\n")

	flash := ""
	if a.flash != "" {
		flash = " " + warnStyle.Render(a.flash)
	}
	return a.header() + "\n" + a.tabBar() + "\n" + body + "\n" + flash + "\n" + a.helpLine()
}
