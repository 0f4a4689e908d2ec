// Package guard gates role-restricted views on the current session.
package guard

import (
	"errors"

	"github.com/naveenspark/soraka/internal/nav"
	"github.com/naveenspark/soraka/pkg/domain"
)

var (
	ErrNotAuthenticated = errors.New("not logged in")
	ErrForbidden        = errors.New("not allowed for this role")
)

// RoleSet is the set of roles allowed through a guard.
type RoleSet map[domain.Role]struct{}

// Roles builds a RoleSet.
func Roles(roles ...domain.Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// AnyRole admits every authenticated user.
var AnyRole = Roles(domain.RolePatient, domain.RoleDoctor, domain.RoleAdmin)

// Has reports whether r is in the set.
func (s RoleSet) Has(r domain.Role) bool {
	_, ok := s[r]
	return ok
}

// Decision is the outcome of evaluating a guard.
type Decision int

const (
	Allow         Decision = iota
	RedirectLogin          // no identity: go to login, replacing history
	RedirectHome           // identity with the wrong role: go home
)

// Decide is the pure access rule.
func Decide(id domain.Identity, authenticated bool, required RoleSet) Decision {
	if !authenticated {
		return RedirectLogin
	}
	if !required.Has(id.Role) {
		return RedirectHome
	}
	return Allow
}

// IdentitySource exposes the current identity. *session.Context satisfies it.
type IdentitySource interface {
	Current() (domain.Identity, bool)
}

// Guard evaluates Decide against a live session and performs the redirect.
// It holds no state of its own.
type Guard struct {
	src IdentitySource
	nav nav.Navigator
}

// New returns a Guard reading src and redirecting through n.
func New(src IdentitySource, n nav.Navigator) *Guard {
	return &Guard{src: src, nav: n}
}

// Evaluate decides and, when access is denied, emits the redirect.
func (g *Guard) Evaluate(required RoleSet) Decision {
	id, ok := g.src.Current()
	d := Decide(id, ok, required)
	switch d {
	case RedirectLogin:
		g.nav.Navigate(nav.Login, true)
	case RedirectHome:
		g.nav.Navigate(nav.Home, false)
	}
	return d
}

// Protect renders content only when the current identity holds one of the
// required roles. Otherwise it redirects and renders nothing.
func (g *Guard) Protect(required RoleSet, content func() string) string {
	if g.Evaluate(required) != Allow {
		return ""
	}
	return content()
}

// Check is Evaluate for callers that need an error, such as CLI commands.
func (g *Guard) Check(required RoleSet) error {
	switch g.Evaluate(required) {
	case RedirectLogin:
		return ErrNotAuthenticated
	case RedirectHome:
		return ErrForbidden
	}
	return nil
}
