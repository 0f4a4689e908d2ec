package output

import (
	"fmt"
	"strings"
)

// CommandHints maps command names to related commands users might want to run next
var CommandHints = map[string][]string{
	"login":             {"whoami", "citas disponibles"},
	"logout":            {"login"},
	"especialidades":    {"citas disponibles --especialidad <nombre>"},
	"medicos":           {"especialidades"},
	"citas disponibles": {"citas reservar <id> --motivo <texto>"},
	"citas reservar":    {"citas mias"},
	"citas mias":        {"citas cancelar <id>"},
	"citas cancelar":    {"citas mias", "citas disponibles"},
}

// PrintHints prints "See also" hints for a command. No-op if the command has no hints.
func (p *Printer) PrintHints(command string) {
	hints, ok := CommandHints[command]
	if !ok || len(hints) == 0 {
		return
	}
	cmds := make([]string, len(hints))
	for i, h := range hints {
		cmds[i] = "soraka " + h
	}
	fmt.Fprintf(p.out, "\nVer también: %s\n", strings.Join(cmds, ", ")) //nolint:errcheck
}
