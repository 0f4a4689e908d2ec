package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"
)

var welcomeLines = [...]string{
	"Tu salud, sin salas de espera.",
	"Los especialistas ya tienen hueco para ti.",
	"Reservar una cita lleva menos que llegar a recepción.",
	"Cuidarte también es saber cuándo pedir cita.",
	"La agenda está abierta. Elige tu momento.",
}

var farewellLines = [...]string{
	"Cuídate mucho.",
	"Te esperamos en tu próxima cita.",
	"Hasta pronto. La agenda seguirá aquí.",
	"Recuerda revisar tus citas antes de la fecha.",
}

var (
	bannerTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5b9bff")).Bold(true)
	bannerQuote = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	bannerMeta  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7fd1c7"))
	bannerHint  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// printWelcome greets a freshly logged-in user.
func printWelcome(w io.Writer, name, role string) {
	msg := welcomeLines[rand.IntN(len(welcomeLines))]
	fmt.Fprintf(w, "\n%s\n\n%s %s\n%s\n\n", //nolint:errcheck
		bannerTitle.Render("S O R A K A"),
		bannerMeta.Render("Hola, "+name),
		bannerHint.Render("("+role+")"),
		bannerQuote.Render(msg),
	)
}

// printFarewell closes a logout.
func printFarewell(w io.Writer) {
	msg := farewellLines[rand.IntN(len(farewellLines))]
	fmt.Fprintf(w, "\n%s\n\n%s\n%s\n\n", //nolint:errcheck
		bannerTitle.Render("S O R A K A"),
		bannerMeta.Render("Sesión cerrada."),
		bannerQuote.Render(msg),
	)
}
