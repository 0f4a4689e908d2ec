package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/soraka/internal/backendtest"
	"github.com/naveenspark/soraka/internal/nav"
	"github.com/naveenspark/soraka/internal/session"
	"github.com/naveenspark/soraka/internal/store"
	"github.com/naveenspark/soraka/pkg/domain"
)

type harness struct {
	srv     *backendtest.Server
	store   *store.MemoryStore
	sess    *session.Context
	history *nav.History
	client  *Client
}

func newHarness(t *testing.T, token string) *harness {
	t.Helper()
	h := &harness{
		srv:     backendtest.New(t),
		store:   store.NewMemoryStore(token),
		history: nav.NewHistory(nav.Dashboard),
	}
	h.sess = session.New(h.store, session.WithNavigator(h.history))
	h.sess.Initialize()
	h.client = New(h.srv.URL+"/", NewGateway(h.store, h.sess.Logout))
	return h
}

func TestLogin(t *testing.T) {
	h := newHarness(t, "")
	tok := backendtest.Mint(t, domain.RolePatient, time.Now().Add(time.Hour))
	h.srv.AddAccount("ana@clinica.es", "secreto", tok)

	got, err := h.client.Login(context.Background(), " ana@clinica.es ", "secreto")
	require.NoError(t, err)
	assert.Equal(t, tok, got)

	req, ok := h.srv.LastRequest()
	require.True(t, ok)
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.JSONEq(t, `{"email":"ana@clinica.es","password":"secreto"}`, string(req.Body))
}

func TestLogin_BadCredentialsIsNotSessionEnd(t *testing.T) {
	h := newHarness(t, backendtest.Mint(t, domain.RolePatient, time.Now().Add(time.Hour)))

	_, err := h.client.Login(context.Background(), "ana@clinica.es", "wrong")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.False(t, errors.Is(err, ErrSessionEnded))
	_, present := h.sess.Current()
	assert.True(t, present, "a failed login must not clear the existing session")
}

func TestLogin_Validation(t *testing.T) {
	h := newHarness(t, "")
	tests := []struct{ email, password string }{
		{"", "x"},
		{"   ", "x"},
		{"a@b.c", ""},
	}
	for _, tt := range tests {
		_, err := h.client.Login(context.Background(), tt.email, tt.password)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Empty(t, h.srv.Requests())
}

func TestDirectoryIsPublic(t *testing.T) {
	h := newHarness(t, "")

	specs, err := h.client.ListSpecialties(context.Background())
	require.NoError(t, err)
	assert.Len(t, specs, 2)
	assert.Equal(t, "Cardiología", specs[0].Name)

	docs, err := h.client.ListPublicDoctors(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "https://img.example/ruiz.jpg", docs[0].PhotoURL)
	assert.Equal(t, "Madrid", docs[0].Location)

	for _, r := range h.srv.Requests() {
		assert.Empty(t, r.Header.Get("Authorization"), r.Path)
	}
}

func TestListAvailableAppointments(t *testing.T) {
	tok := backendtest.Mint(t, domain.RolePatient, time.Now().Add(time.Hour))
	h := newHarness(t, tok)
	h.srv.Accept(tok, backendtest.Principal{ID: 10, Role: domain.RolePatient})

	appts, err := h.client.ListAvailableAppointments(context.Background())
	require.NoError(t, err)
	assert.Len(t, appts, 7)

	cardio := FilterBySpecialty(appts, "Cardiología")
	assert.Len(t, cardio, 4)
	for _, a := range cardio {
		assert.Equal(t, "Dra. Ruiz", a.DoctorName)
	}

	req, _ := h.srv.LastRequest()
	assert.Equal(t, "Bearer "+tok, req.Header.Get("Authorization"))
}

func TestReserveAndCancel(t *testing.T) {
	tok := backendtest.Mint(t, domain.RolePatient, time.Now().Add(time.Hour))
	h := newHarness(t, tok)
	h.srv.Accept(tok, backendtest.Principal{ID: 10, Role: domain.RolePatient})
	ctx := context.Background()

	require.NoError(t, h.client.ReserveAppointment(ctx, 3, "  revisión anual "))
	req, _ := h.srv.LastRequest()
	assert.Equal(t, "/api/citas/3/reservar", req.Path)
	assert.JSONEq(t, `{"motivo":"revisión anual"}`, string(req.Body))

	mine, err := h.client.ListMyAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, domain.StatusConfirmed, mine[0].Status)
	assert.Equal(t, "revisión anual", mine[0].Reason)

	err = h.client.ReserveAppointment(ctx, 3, "otra vez")
	assert.True(t, IsStatus(err, http.StatusConflict))
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "La cita no está disponible", httpErr.Message)

	require.NoError(t, h.client.CancelAppointment(ctx, 3))
	a, _ := h.srv.Appointment(3)
	assert.Equal(t, domain.StatusAvailable, a.Status)

	err = h.client.CancelAppointment(ctx, 3)
	assert.True(t, IsStatus(err, http.StatusConflict))
	_, present := h.sess.Current()
	assert.True(t, present, "non-401 errors leave the session alone")
}

func TestReserveValidation(t *testing.T) {
	h := newHarness(t, "tok")
	tests := []struct {
		name   string
		id     int64
		reason string
	}{
		{"zero id", 0, "x"},
		{"negative id", -4, "x"},
		{"blank reason", 1, "   "},
		{"reason too long", 1, strings.Repeat("ñ", MaxReasonLength+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.client.ReserveAppointment(context.Background(), tt.id, tt.reason)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	assert.Empty(t, h.srv.Requests())

	err := h.client.ReserveAppointment(context.Background(), 1, strings.Repeat("ñ", MaxReasonLength))
	assert.NotErrorIs(t, err, ErrInvalidInput, "a reason of exactly the limit passes validation")
	assert.Len(t, h.srv.Requests(), 1)
}

func TestListAllAppointments_ForbiddenForPatients(t *testing.T) {
	tok := backendtest.Mint(t, domain.RolePatient, time.Now().Add(time.Hour))
	h := newHarness(t, tok)
	h.srv.Accept(tok, backendtest.Principal{ID: 10, Role: domain.RolePatient})

	_, err := h.client.ListAllAppointments(context.Background())
	assert.True(t, IsStatus(err, http.StatusForbidden))
	_, present := h.sess.Current()
	assert.True(t, present)
}

func TestRejectedCredentialEndsSession(t *testing.T) {
	tok := backendtest.Mint(t, domain.RolePatient, time.Now().Add(time.Hour))
	h := newHarness(t, tok)
	h.srv.Accept(tok, backendtest.Principal{ID: 10, Role: domain.RolePatient})
	h.srv.Revoke()

	var events []session.Event
	h.sess.Subscribe(func(c session.Change) { events = append(events, c.Event) })

	err := h.client.ReserveAppointment(context.Background(), 1, "dolor de cabeza")
	require.ErrorIs(t, err, ErrSessionEnded)

	_, present := h.sess.Current()
	assert.False(t, present)
	_, stored := h.store.Read()
	assert.False(t, stored)
	assert.Equal(t, nav.Home, h.history.Current())
	assert.Equal(t, []nav.Location{nav.Home}, h.history.Entries(), "logout replaces the current entry")
	assert.Equal(t, []session.Event{session.EventLoggedOut}, events)

	a, _ := h.srv.Appointment(1)
	assert.Equal(t, domain.StatusAvailable, a.Status)
}

func TestErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"backend body", `{"timestamp":"2025-01-01T10:00:00","mensaje":"Cita no encontrada","status":404}`, "Cita no encontrada"},
		{"framework body", `{"message":"No static resource"}`, "No static resource"},
		{"error field", `{"error":"Not Found"}`, "Not Found"},
		{"plain text", "gone fishing\n", "gone fishing"},
		{"empty", "", "Not Found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(tt.body)) //nolint:errcheck
			}))
			defer srv.Close()

			c := New(srv.URL, NewGateway(store.NewMemoryStore("tok"), nil))
			err := c.CancelAppointment(context.Background(), 99)
			var httpErr *HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
			assert.Equal(t, tt.want, httpErr.Message)
		})
	}
}

func TestDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json")) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, NewGateway(store.NewMemoryStore("tok"), nil))
	_, err := c.ListMyAppointments(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
	var syntaxErr *json.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr)
}

func TestBaseURLTrimmed(t *testing.T) {
	c := New("http://localhost:8080///", nil)
	assert.Equal(t, "http://localhost:8080", c.BaseURL())
}
