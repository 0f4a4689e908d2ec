package domain

import "fmt"

// Role is the account role carried in the "rol" claim of a credential.
type Role string

const (
	RolePatient Role = "PACIENTE"
	RoleDoctor  Role = "MEDICO"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole validates a raw role claim.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Label returns a human-readable name for the role.
func (r Role) Label() string {
	switch r {
	case RolePatient:
		return "paciente"
	case RoleDoctor:
		return "médico"
	case RoleAdmin:
		return "admin"
	}
	return string(r)
}
