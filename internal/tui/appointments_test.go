package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/naveenspark/soraka/internal/nav"
	"github.com/naveenspark/soraka/pkg/domain"
)

func bookFor(h *harness, ids ...int64) {
	for _, id := range ids {
		h.srv.Book(id, patientID, "control")
	}
}

func TestMyAppointmentsCancelFlow(t *testing.T) {
	h := newHarness(t, domain.RolePatient, nav.Home)
	bookFor(h, 2, 5)

	h.key("4")
	h.assertLocation(nav.MyAppointments)
	if got := h.app.appointments.pager.Len(); got != 2 {
		t.Fatalf("appointments = %d, want 2", got)
	}

	h.key("j", "c")
	if h.app.appointments.confirming == nil || h.app.appointments.confirming.ID != 5 {
		t.Fatalf("confirming = %+v, want appointment 5", h.app.appointments.confirming)
	}
	h.assertViewContains("¿Cancelar esta cita?")

	h.key("y")

	a, _ := h.srv.Appointment(5)
	if a.Status != domain.StatusAvailable {
		t.Errorf("appointment 5 status = %s, want %s", a.Status, domain.StatusAvailable)
	}
	if got := h.app.appointments.pager.Len(); got != 1 {
		t.Errorf("appointments after cancel = %d, want 1", got)
	}
	if h.app.appointments.cursor != 0 {
		t.Errorf("cursor = %d, want 0", h.app.appointments.cursor)
	}
	h.assertViewContains("Cita 5 cancelada.")
}

func TestMyAppointmentsCancelAborted(t *testing.T) {
	h := newHarness(t, domain.RolePatient, nav.Home)
	bookFor(h, 2)
	h.key("4", "c")
	before := len(h.srv.Requests())

	h.key("n")

	if h.app.appointments.confirming != nil {
		t.Error("modal still open after n")
	}
	if got := len(h.srv.Requests()); got != before {
		t.Errorf("requests = %d, want %d", got, before)
	}
	a, _ := h.srv.Appointment(2)
	if a.Status != domain.StatusConfirmed {
		t.Errorf("appointment 2 status = %s, want untouched", a.Status)
	}
}

func TestMyAppointmentsEscClosesModalFirst(t *testing.T) {
	h := newHarness(t, domain.RolePatient, nav.Home)
	bookFor(h, 2)
	h.key("4", "c", "esc")

	h.assertLocation(nav.MyAppointments)
	if h.app.appointments.confirming != nil {
		t.Error("modal still open after esc")
	}
}

func TestMyAppointmentsCancelConflict(t *testing.T) {
	h := newHarness(t, domain.RolePatient, nav.Home)
	bookFor(h, 2)
	h.srv.Fail("POST", "/api/citas/2/cancelar", 409, "Solo se pueden cancelar citas confirmadas")

	h.key("4", "c", "y")

	h.assertViewContains("Solo se pueden cancelar citas confirmadas")
	if got := h.app.appointments.pager.Len(); got != 1 {
		t.Errorf("appointments = %d, want the row kept", got)
	}
}

func TestMyAppointmentsEmpty(t *testing.T) {
	h := newHarness(t, domain.RolePatient, nav.Home)
	h.key("4")
	h.assertViewContains("No tienes citas reservadas.")
}

func TestAgendaIsReadOnly(t *testing.T) {
	h := newHarness(t, domain.RoleDoctor, nav.AllAppointments)
	h.key("c")
	if h.app.agenda.confirming != nil {
		t.Error("agenda opened a cancel modal")
	}
}

func TestAppointmentsCopy(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { writeClipboard = orig })

	h := newHarness(t, domain.RolePatient, nav.Home)
	bookFor(h, 2)
	h.key("4", "y")

	if !strings.HasPrefix(copied, "Cita 2:") || !strings.Contains(copied, "Dr. Soto") || !strings.Contains(copied, "Motivo: control") {
		t.Errorf("copied %q", copied)
	}
	h.assertViewContains("Cita copiada al portapapeles.")
}

func TestAppointmentsCopyFailure(t *testing.T) {
	m := newAppointmentsModel(env{}, scopeMine)
	m, _ = m.Update(copyResultMsg{err: errors.New("no display")})
	if !strings.Contains(m.notice, "no display") {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestAppointmentsStepBackWhenPageEmpties(t *testing.T) {
	appts := make([]domain.Appointment, 6)
	for i := range appts {
		appts[i] = domain.Appointment{ID: int64(i + 1), Status: domain.StatusConfirmed}
	}
	m := newAppointmentsModel(env{}, scopeMine)
	m, _ = m.Init()
	m, _ = m.Update(appointmentsLoadedMsg{gen: m.gen, scope: scopeMine, appts: appts})
	m, _ = m.Update(keyMsg("l"))
	if m.pager.Current() != 2 {
		t.Fatalf("page = %d, want 2", m.pager.Current())
	}

	m, _ = m.Update(cancelResultMsg{gen: m.gen, id: 6})

	if m.pager.Current() != 1 {
		t.Errorf("page = %d, want 1 after its last row went away", m.pager.Current())
	}
	if len(m.pager.Page()) != 5 {
		t.Errorf("rows = %d, want 5", len(m.pager.Page()))
	}
}

func TestAppointmentsReloadKeepsPage(t *testing.T) {
	appts := make([]domain.Appointment, 12)
	for i := range appts {
		appts[i] = domain.Appointment{ID: int64(i + 1)}
	}
	m := newAppointmentsModel(env{}, scopeAll)
	m, _ = m.Init()
	m, _ = m.Update(appointmentsLoadedMsg{gen: m.gen, scope: scopeAll, appts: appts})
	m, _ = m.Update(keyMsg("l"))
	m, _ = m.Update(keyMsg("l"))

	m, _ = m.Init()
	m, _ = m.Update(appointmentsLoadedMsg{gen: m.gen, scope: scopeAll, appts: appts[:7]})

	if m.pager.Current() != 2 {
		t.Errorf("page = %d, want 2 (clamped to the shorter list)", m.pager.Current())
	}
}

func TestAppointmentsIgnoresOtherScope(t *testing.T) {
	m := newAppointmentsModel(env{}, scopeMine)
	m, _ = m.Init()
	m, _ = m.Update(appointmentsLoadedMsg{gen: m.gen, scope: scopeAll, appts: []domain.Appointment{{ID: 1}}})
	if m.pager.Len() != 0 {
		t.Error("agenda rows leaked into my appointments")
	}
}
