package output

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fatih/color"

	"github.com/naveenspark/soraka/internal/guard"
	"github.com/naveenspark/soraka/internal/session"
	"github.com/naveenspark/soraka/pkg/client"
)

// Exit code constants
const (
	ExitSuccess    = 0
	ExitGeneral    = 1
	ExitUsageError = 2
	ExitAuth       = 3
	ExitConfig     = 4
	ExitNetwork    = 5
)

// CLIError is a structured error with user-facing context
type CLIError struct {
	Summary    string
	Detail     string
	Suggestion string
	ExitCode   int
	Err        error
}

// Error implements the error interface, returning the summary
func (e *CLIError) Error() string {
	return e.Summary
}

func (e *CLIError) Unwrap() error { return e.Err }

// Explain turns an error from the client or session layers into a CLIError.
// Errors it does not recognise keep their message and exit with ExitGeneral.
func Explain(err error) *CLIError {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	var httpErr *client.HTTPError

	switch {
	case errors.Is(err, client.ErrSessionEnded):
		return &CLIError{
			Summary:    "la sesión ha caducado o no es válida",
			Suggestion: "Inicia sesión de nuevo con 'soraka login'",
			ExitCode:   ExitAuth,
			Err:        err,
		}
	case errors.Is(err, guard.ErrNotAuthenticated):
		return &CLIError{
			Summary:    "no has iniciado sesión",
			Suggestion: "Ejecuta 'soraka login'",
			ExitCode:   ExitAuth,
			Err:        err,
		}
	case errors.Is(err, guard.ErrForbidden):
		return &CLIError{
			Summary:  "tu rol no tiene acceso a esta sección",
			ExitCode: ExitAuth,
			Err:      err,
		}
	case errors.Is(err, session.ErrInvalidCredential):
		return &CLIError{
			Summary:  "el servidor devolvió un token no válido",
			Detail:   err.Error(),
			ExitCode: ExitAuth,
			Err:      err,
		}
	case errors.Is(err, client.ErrInvalidInput):
		return &CLIError{
			Summary:  "datos no válidos",
			Detail:   err.Error(),
			ExitCode: ExitUsageError,
			Err:      err,
		}
	case client.IsTransport(err):
		return &CLIError{
			Summary:    "no se pudo contactar con el servidor",
			Detail:     err.Error(),
			Suggestion: "Comprueba api.url en la configuración o SORAKA_API_URL",
			ExitCode:   ExitNetwork,
			Err:        err,
		}
	case errors.As(err, &httpErr):
		e := &CLIError{Summary: httpErr.Message, Detail: fmt.Sprintf("HTTP %d", httpErr.StatusCode), ExitCode: ExitGeneral, Err: err}
		if httpErr.StatusCode == http.StatusUnauthorized {
			e.ExitCode = ExitAuth
		}
		return e
	}
	return &CLIError{Summary: err.Error(), ExitCode: ExitGeneral, Err: err}
}

// FormatError prints a structured error message to stderr
func (p *Printer) FormatError(e *CLIError) {
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintf(p.err, "Error: %s\n", e.Summary) //nolint:errcheck
		if e.Detail != "" {
			fmt.Fprintf(p.err, "  Causa: %s\n", e.Detail) //nolint:errcheck
		}
		if e.Suggestion != "" {
			color.New(color.FgCyan).Fprintf(p.err, "  Sugerencia: %s\n", e.Suggestion) //nolint:errcheck
		}
		return
	}
	fmt.Fprintf(p.err, "[ERROR] %s\n", e.Summary) //nolint:errcheck
	if e.Detail != "" {
		fmt.Fprintf(p.err, "  Causa: %s\n", e.Detail) //nolint:errcheck
	}
	if e.Suggestion != "" {
		fmt.Fprintf(p.err, "  Sugerencia: %s\n", e.Suggestion) //nolint:errcheck
	}
}
