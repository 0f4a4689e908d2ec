// Package backendtest runs an in-process fake of the booking backend for
// tests. It speaks the same routes and error bodies as the real service.
package backendtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/naveenspark/soraka/pkg/domain"
)

// Mint returns an HS256 token carrying the claims the backend issues.
func Mint(t testing.TB, role domain.Role, exp time.Time) string {
	t.Helper()
	return MintClaims(t, jwt.MapClaims{
		"sub":    "ana@clinica.es",
		"nombre": "Ana",
		"Email":  "ana@clinica.es",
		"rol":    string(role),
		"iat":    time.Now().Unix(),
		"exp":    exp.Unix(),
	})
}

// MintClaims signs arbitrary claims.
func MintClaims(t testing.TB, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backendtest"))
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return tok
}

// Principal is the account behind an accepted token.
type Principal struct {
	ID   int64
	Role domain.Role
}

// Request is a recorded incoming request.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

type account struct {
	password string
	token    string
}

// Server is the fake backend. Zero or more fixtures can be set directly
// before the first request.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	Specialties  []domain.Specialty
	Doctors      []domain.Doctor
	Appointments []domain.Appointment
	accounts     map[string]account
	tokens       map[string]Principal
	failures     map[string]failure
	revoked      bool
	requests     []Request
}

type failure struct {
	status int
	msg    string
}

// New starts a server with a small clinic worth of fixtures. It is closed
// when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		Specialties: []domain.Specialty{{ID: 1, Name: "Cardiología"}, {ID: 2, Name: "Dermatología"}},
		Doctors: []domain.Doctor{
			{ID: 1, Name: "Dra. Ruiz", Specialty: "Cardiología", PhotoURL: "https://img.example/ruiz.jpg", Location: "Madrid"},
			{ID: 2, Name: "Dr. Soto", Specialty: "Dermatología", Location: "Sevilla"},
		},
		accounts: make(map[string]account),
		tokens:   make(map[string]Principal),
		failures: make(map[string]failure),
	}
	base := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	for i := int64(1); i <= 7; i++ {
		specialty, doc := "Cardiología", "Dra. Ruiz"
		if i%2 == 0 {
			specialty, doc = "Dermatología", "Dr. Soto"
		}
		s.Appointments = append(s.Appointments, domain.Appointment{
			ID:              i,
			DoctorName:      doc,
			DoctorSpecialty: specialty,
			StartsAt:        domain.LocalTime{Time: base.Add(time.Duration(i) * time.Hour)},
			Status:          domain.StatusAvailable,
		})
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// AddAccount makes email/password log in with token.
func (s *Server) AddAccount(email, password, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[email] = account{password: password, token: token}
}

// Accept makes token valid for authenticated routes.
func (s *Server) Accept(token string, p Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = p
}

// Revoke makes every authenticated route answer 401.
func (s *Server) Revoke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked = true
}

// Fail makes method+path answer status with msg in the backend's error body.
func (s *Server) Fail(method, path string, status int, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, msg: msg}
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Book marks appointment id as confirmed for patient with reason.
func (s *Server) Book(id, patient int64, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Appointments {
		if s.Appointments[i].ID == id {
			pid := patient
			s.Appointments[i].PatientID = &pid
			s.Appointments[i].Reason = reason
			s.Appointments[i].Status = domain.StatusConfirmed
		}
	}
}

// Appointment returns the current state of appointment id.
func (s *Server) Appointment(id int64) (domain.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.Appointments {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Appointment{}, false
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record, s.injectFailures)

	r.Post("/auth/login", s.handleLogin)
	r.Get("/api/especialidades", s.handleSpecialties)
	r.Get("/api/medicos/publicos", s.handleDoctors)

	r.Route("/api/citas", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/disponibles", s.handleAvailable)
		r.Get("/mis-citas", s.handleMine)
		r.Get("/todas", s.handleAll)
		r.Post("/{id}/reservar", s.handleReserve)
		r.Post("/{id}/cancelar", s.handleCancel)
	})
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			buf := new(strings.Builder)
			_, _ = copyLimited(buf, r)
			body = []byte(buf.String())
			r.Body = readCloser(body)
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone(), Body: body})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, ok := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if ok {
			writeError(w, f.status, f.msg)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type principalKey struct{}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		p, known := s.tokens[tok]
		revoked := s.revoked
		s.mu.Unlock()
		if !ok || !known || revoked {
			writeError(w, http.StatusUnauthorized, "Token inválido o expirado")
			return
		}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), p)))
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo inválido")
		return
	}
	s.mu.Lock()
	acc, ok := s.accounts[req.Email]
	s.mu.Unlock()
	if !ok || acc.password != req.Password {
		writeError(w, http.StatusUnauthorized, "Credenciales incorrectas")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": acc.token})
}

func (s *Server) handleSpecialties(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.Specialties)
}

func (s *Server) handleDoctors(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.Doctors)
}

func (s *Server) handleAvailable(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Appointment{}
	for _, a := range s.Appointments {
		if a.Status == domain.StatusAvailable {
			out = append(out, a)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMine(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Appointment{}
	for _, a := range s.Appointments {
		if a.PatientID != nil && *a.PatientID == p.ID {
			out = append(out, a)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAll(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	if p.Role != domain.RoleDoctor && p.Role != domain.RoleAdmin {
		writeError(w, http.StatusForbidden, "No tienes permisos para realizar esta acción")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.Appointments)
}

func (s *Server) handleReserve(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	if p.Role != domain.RolePatient {
		writeError(w, http.StatusForbidden, "No tienes permisos para realizar esta acción")
		return
	}
	var req struct {
		Motivo string `json:"motivo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Motivo) == "" {
		writeError(w, http.StatusBadRequest, "El motivo es obligatorio")
		return
	}
	s.withAppointment(w, r, func(a *domain.Appointment) {
		if a.Status != domain.StatusAvailable {
			writeError(w, http.StatusConflict, "La cita no está disponible")
			return
		}
		id := p.ID
		a.PatientID = &id
		a.Reason = req.Motivo
		a.Status = domain.StatusConfirmed
		w.WriteHeader(http.StatusOK)
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	s.withAppointment(w, r, func(a *domain.Appointment) {
		if a.Status != domain.StatusConfirmed {
			writeError(w, http.StatusConflict, "Solo se pueden cancelar citas confirmadas")
			return
		}
		if a.PatientID != nil && *a.PatientID != p.ID && p.Role == domain.RolePatient {
			writeError(w, http.StatusForbidden, "No puedes cancelar esta cita")
			return
		}
		a.PatientID = nil
		a.Reason = ""
		a.Status = domain.StatusAvailable
		w.WriteHeader(http.StatusOK)
	})
}

func (s *Server) withAppointment(w http.ResponseWriter, r *http.Request, fn func(*domain.Appointment)) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id inválido")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Appointments {
		if s.Appointments[i].ID == id {
			fn(&s.Appointments[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "Cita no encontrada")
}
