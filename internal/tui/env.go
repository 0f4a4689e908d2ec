package tui

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/naveenspark/soraka/internal/session"
	"github.com/naveenspark/soraka/pkg/client"
)

// env is what every view needs to talk to the backend.
type env struct {
	client  *client.Client
	session *session.Context
	timeout time.Duration
	logger  *slog.Logger
}

// ctx bounds one backend round trip. The Gateway imposes no deadline.
func (e env) ctx() (context.Context, context.CancelFunc) {
	if e.timeout > 0 {
		return context.WithTimeout(context.Background(), e.timeout)
	}
	return context.WithCancel(context.Background())
}

// errorText turns a request error into the line shown to the user. A
// rejected credential yields "": the session is already gone and the view
// is being replaced.
func errorText(err error) string {
	var httpErr *client.HTTPError
	switch {
	case err == nil, errors.Is(err, client.ErrSessionEnded):
		return ""
	case errors.Is(err, client.ErrInvalidInput):
		return "Revisa los datos introducidos."
	case errors.Is(err, session.ErrInvalidCredential):
		return "El servidor devolvió un token no válido."
	case errors.Is(err, context.DeadlineExceeded):
		return "El servidor tardó demasiado en responder."
	case client.IsTransport(err):
		return "No se pudo contactar con el servidor."
	case errors.As(err, &httpErr):
		if httpErr.Message != "" && httpErr.Message != http.StatusText(httpErr.StatusCode) {
			return httpErr.Message
		}
		return "Error del servidor (" + http.StatusText(httpErr.StatusCode) + ")."
	}
	return err.Error()
}
