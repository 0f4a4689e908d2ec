package domain

import "time"

// Identity is the decoded form of a stored credential. It is never persisted
// on its own; it is always re-derived from the token.
type Identity struct {
	Subject   string         `json:"sub"`
	Name      string         `json:"nombre,omitempty"`
	Email     string         `json:"email,omitempty"`
	Role      Role           `json:"rol"`
	IssuedAt  time.Time      `json:"iat,omitempty"`
	ExpiresAt time.Time      `json:"exp"`
	Claims    map[string]any `json:"-"`
}

// Expired reports whether the identity's expiry is at or before now.
func (i Identity) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// DisplayName prefers the "nombre" claim and falls back to the subject.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Subject
}
