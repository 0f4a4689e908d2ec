package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/naveenspark/soraka/internal/session"
	"github.com/naveenspark/soraka/pkg/client"
)

func TestErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"session ended", fmt.Errorf("wrap: %w", client.ErrSessionEnded), ""},
		{"invalid input", client.ErrInvalidInput, "Revisa los datos introducidos."},
		{"bad token", session.ErrInvalidCredential, "El servidor devolvió un token no válido."},
		{"timeout", context.DeadlineExceeded, "El servidor tardó demasiado en responder."},
		{"transport", &client.TransportError{Method: "GET", URL: "http://x", Err: errors.New("refused")}, "No se pudo contactar con el servidor."},
		{"server message", &client.HTTPError{StatusCode: 409, Message: "La cita no está disponible"}, "La cita no está disponible"},
		{"status text only", &client.HTTPError{StatusCode: 500, Message: "Internal Server Error"}, "Error del servidor (Internal Server Error)."},
		{"other", errors.New("boom"), "boom"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := errorText(tc.err); got != tc.want {
				t.Errorf("errorText = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEnvCtx(t *testing.T) {
	ctx, cancel := env{}.ctx()
	defer cancel()
	if _, ok := ctx.Deadline(); ok {
		t.Error("zero timeout should not set a deadline")
	}
}
