// Package output provides CLI output formatting utilities
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/naveenspark/soraka/pkg/domain"
)

// Printer handles formatted output to the terminal
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// ResolveColors applies NO_COLOR and TERM=dumb on top of the configured value
func ResolveColors(configColors bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return configColors
}

// NewPrinter creates a printer writing results to out and diagnostics to errOut
func NewPrinter(out, errOut io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: errOut, useColors: useColors}
}

// Out returns the result writer.
func (p *Printer) Out() io.Writer { return p.out }

// Info prints an informational message
func (p *Printer) Info(format string, args ...any) {
	if p.useColors {
		color.New(color.FgCyan).Fprintf(p.out, format+"\n", args...) //nolint:errcheck
	} else {
		fmt.Fprintf(p.out, format+"\n", args...) //nolint:errcheck
	}
}

// Success prints a success message
func (p *Printer) Success(format string, args ...any) {
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...) //nolint:errcheck
	} else {
		fmt.Fprintf(p.out, "[OK] "+format+"\n", args...) //nolint:errcheck
	}
}

// Warning prints a warning message
func (p *Printer) Warning(format string, args ...any) {
	if p.useColors {
		color.New(color.FgYellow).Fprintf(p.err, "⚠ "+format+"\n", args...) //nolint:errcheck
	} else {
		fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...) //nolint:errcheck
	}
}

// Print prints a plain message
func (p *Printer) Print(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...) //nolint:errcheck
}

// Header prints a section header
func (p *Printer) Header(title string) {
	if p.useColors {
		color.New(color.FgWhite, color.Bold).Fprintf(p.out, "\n%s\n", title) //nolint:errcheck
	} else {
		fmt.Fprintf(p.out, "\n%s\n", title) //nolint:errcheck
	}
}

// JSON writes v as indented JSON
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Status returns a coloured label for an appointment status
func (p *Printer) Status(s domain.AppointmentStatus) string {
	if !p.useColors {
		return string(s)
	}
	switch s {
	case domain.StatusAvailable:
		return color.GreenString(string(s))
	case domain.StatusConfirmed:
		return color.CyanString(string(s))
	case domain.StatusPending:
		return color.YellowString(string(s))
	case domain.StatusExpired:
		return color.RedString(string(s))
	default:
		return color.New(color.Faint).Sprint(string(s))
	}
}

// Bold returns text in bold
func (p *Printer) Bold(text string) string {
	if p.useColors {
		return color.New(color.Bold).Sprint(text)
	}
	return text
}

// Dim returns dimmed text
func (p *Printer) Dim(text string) string {
	if p.useColors {
		return color.New(color.Faint).Sprint(text)
	}
	return text
}
