package guard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/naveenspark/soraka/internal/nav"
	"github.com/naveenspark/soraka/pkg/domain"
)

type fixedSource struct {
	id domain.Identity
	ok bool
}

func (f fixedSource) Current() (domain.Identity, bool) { return f.id, f.ok }

func as(role domain.Role) fixedSource {
	return fixedSource{id: domain.Identity{Role: role}, ok: true}
}

func TestDecide(t *testing.T) {
	patients := Roles(domain.RolePatient)
	tests := []struct {
		name     string
		src      fixedSource
		required RoleSet
		want     Decision
	}{
		{"anonymous", fixedSource{}, patients, RedirectLogin},
		{"anonymous any role", fixedSource{}, AnyRole, RedirectLogin},
		{"patient allowed", as(domain.RolePatient), patients, Allow},
		{"doctor denied", as(domain.RoleDoctor), patients, RedirectHome},
		{"admin in staff set", as(domain.RoleAdmin), Roles(domain.RoleDoctor, domain.RoleAdmin), Allow},
		{"empty set admits nobody", as(domain.RoleAdmin), Roles(), RedirectHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.src.id, tt.src.ok, tt.required)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProtect(t *testing.T) {
	tests := []struct {
		name     string
		src      fixedSource
		wantBody string
		wantNav  []nav.Location
		replace  bool
	}{
		{"renders for patient", as(domain.RolePatient), "protected", nil, false},
		{"doctor goes home", as(domain.RoleDoctor), "", []nav.Location{nav.Home}, false},
		{"anonymous goes to login", fixedSource{}, "", []nav.Location{nav.Login}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var locs []nav.Location
			var replaced bool
			n := nav.NavigatorFunc(func(l nav.Location, r bool) {
				locs = append(locs, l)
				replaced = r
			})
			rendered := false
			body := New(tt.src, n).Protect(Roles(domain.RolePatient), func() string {
				rendered = true
				return "protected"
			})

			assert.Equal(t, tt.wantBody, body)
			assert.Equal(t, tt.wantBody != "", rendered, "content is only built when allowed")
			assert.Equal(t, tt.wantNav, locs)
			assert.Equal(t, tt.replace, replaced)
		})
	}
}

func TestProtect_ReplacesHistory(t *testing.T) {
	h := nav.NewHistory(nav.Home)
	h.Navigate(nav.Dashboard, false)

	New(fixedSource{}, h).Protect(Roles(domain.RolePatient), func() string { return "x" })

	assert.Equal(t, []nav.Location{nav.Home, nav.Login}, h.Entries())
}

func TestCheck(t *testing.T) {
	g := New(fixedSource{}, nav.Discard)
	assert.True(t, errors.Is(g.Check(AnyRole), ErrNotAuthenticated))

	g = New(as(domain.RolePatient), nav.Discard)
	assert.True(t, errors.Is(g.Check(Roles(domain.RoleAdmin)), ErrForbidden))
	assert.NoError(t, g.Check(Roles(domain.RolePatient)))
}
