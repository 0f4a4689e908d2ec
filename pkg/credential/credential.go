// Package credential decodes bearer tokens issued by the booking backend.
//
// Decoding is for role routing and expiry checks only. Signatures are not
// verified here; the backend remains the sole authority on token validity.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/naveenspark/soraka/pkg/domain"
)

// ErrMalformed is returned when a token cannot be decoded into an identity.
var ErrMalformed = errors.New("malformed credential")

var parser = jwt.NewParser()

// Decode parses token into an Identity without verifying its signature.
// The token must be a three-part JWT whose payload carries a known "rol"
// claim and a numeric "exp" claim.
func Decode(token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, fmt.Errorf("%w: empty token", ErrMalformed)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return domain.Identity{}, fmt.Errorf("%w: token has %d segments, want 3", ErrMalformed, len(parts))
	}
	// Only the payload matters; the header is never inspected.
	payload, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: payload: %v", ErrMalformed, err)
	}
	claims := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: payload: %v", ErrMalformed, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: exp: %v", ErrMalformed, err)
	}
	if exp == nil {
		return domain.Identity{}, fmt.Errorf("%w: missing exp claim", ErrMalformed)
	}

	rawRole, _ := claims["rol"].(string)
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	id := domain.Identity{
		Role:      role,
		ExpiresAt: exp.Time,
		Name:      stringClaim(claims, "nombre"),
		Email:     stringClaim(claims, "email", "Email"),
		Claims:    maps.Clone(map[string]any(claims)),
	}
	if sub, err := claims.GetSubject(); err == nil {
		id.Subject = sub
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		id.IssuedAt = iat.Time
	}
	return id, nil
}

// stringClaim returns the first non-empty string value among keys.
func stringClaim(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if v, ok := claims[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
