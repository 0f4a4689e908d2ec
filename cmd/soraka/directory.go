package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naveenspark/soraka/internal/browser"
	"github.com/naveenspark/soraka/internal/output"
)

// openURL is swapped out in tests.
var openURL = browser.Open

func (c *cli) specialtiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "especialidades",
		Aliases: []string{"esp"},
		Short:   "Listar las especialidades de la clínica",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.call(cmd.Context())
			defer cancel()
			specs, err := c.client.ListSpecialties(ctx)
			if err != nil {
				return err
			}
			if c.jsonOut {
				return c.printer.JSON(specs)
			}
			c.printer.Header("Especialidades")
			if err := c.printer.Specialties(specs); err != nil {
				return err
			}
			c.printer.PrintHints("especialidades")
			return nil
		},
	}
}

func (c *cli) doctorsCmd() *cobra.Command {
	var photo int64
	cmd := &cobra.Command{
		Use:   "medicos",
		Short: "Listar el equipo médico",
		Long: `Lista los especialistas públicos de la clínica.

Con --foto ID abre la fotografía del especialista en el navegador.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.call(cmd.Context())
			defer cancel()
			docs, err := c.client.ListPublicDoctors(ctx)
			if err != nil {
				return err
			}

			if photo != 0 {
				for _, d := range docs {
					if d.ID != photo {
						continue
					}
					if d.PhotoURL == "" {
						return &output.CLIError{Summary: fmt.Sprintf("%s no tiene foto", d.Name), ExitCode: output.ExitGeneral}
					}
					if err := openURL(d.PhotoURL); err != nil {
						return &output.CLIError{
							Summary:    "no se pudo abrir el navegador",
							Detail:     err.Error(),
							Suggestion: "Abre la dirección a mano: " + d.PhotoURL,
							ExitCode:   output.ExitGeneral,
							Err:        err,
						}
					}
					c.printer.Success("Foto de %s abierta en el navegador.", d.Name)
					return nil
				}
				return &output.CLIError{
					Summary:    fmt.Sprintf("no hay ningún especialista con id %d", photo),
					Suggestion: "Consulta los ids con 'soraka medicos'",
					ExitCode:   output.ExitUsageError,
				}
			}

			if c.jsonOut {
				return c.printer.JSON(docs)
			}
			c.printer.Header("Nuestros especialistas")
			if err := c.printer.Doctors(docs); err != nil {
				return err
			}
			c.printer.PrintHints("medicos")
			return nil
		},
	}
	cmd.Flags().Int64Var(&photo, "foto", 0, "abrir la foto del especialista con este id")
	return cmd
}
