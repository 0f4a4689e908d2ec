package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/naveenspark/soraka/internal/guard"
	"github.com/naveenspark/soraka/internal/output"
	"github.com/naveenspark/soraka/pkg/client"
	"github.com/naveenspark/soraka/pkg/domain"
)

var (
	patientOnly = guard.Roles(domain.RolePatient)
	staffOnly   = guard.Roles(domain.RoleDoctor, domain.RoleAdmin)
)

func (c *cli) appointmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "citas",
		Short: "Consultar, reservar y cancelar citas",
		Long: `Gestiona citas médicas.

Ejemplos:
  soraka citas disponibles --especialidad Dermatología
  soraka citas reservar 12 --motivo "Revisión anual"
  soraka citas mias
  soraka citas cancelar 12
  soraka citas todas           # médicos y administración`,
	}
	cmd.AddCommand(
		c.availableCmd(),
		c.mineCmd(),
		c.allCmd(),
		c.reserveCmd(),
		c.cancelCmd(),
	)
	return cmd
}

func (c *cli) availableCmd() *cobra.Command {
	var specialty string
	cmd := &cobra.Command{
		Use:     "disponibles",
		Aliases: []string{"libres"},
		Short:   "Listar las citas libres",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.require(patientOnly); err != nil {
				return err
			}
			ctx, cancel := c.call(cmd.Context())
			defer cancel()

			var specs []domain.Specialty
			var slots []domain.Appointment
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				specs, err = c.client.ListSpecialties(gctx)
				return err
			})
			g.Go(func() error {
				var err error
				slots, err = c.client.ListAvailableAppointments(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			if specialty != "" {
				name, ok := matchSpecialty(specs, specialty)
				if !ok {
					return &output.CLIError{
						Summary:    fmt.Sprintf("especialidad desconocida: %q", specialty),
						Detail:     "disponibles: " + specialtyNames(specs),
						Suggestion: "Consulta la lista con 'soraka especialidades'",
						ExitCode:   output.ExitUsageError,
					}
				}
				slots = client.FilterBySpecialty(slots, name)
			}

			if c.jsonOut {
				return c.printer.JSON(slots)
			}
			if specialty != "" {
				c.printer.Header("Citas disponibles · " + specialty)
			} else {
				c.printer.Header("Citas disponibles")
			}
			if err := c.printer.Appointments(slots, false); err != nil {
				return err
			}
			c.printer.PrintHints("citas disponibles")
			return nil
		},
	}
	cmd.Flags().StringVarP(&specialty, "especialidad", "e", "", "filtrar por especialidad")
	return cmd
}

// matchSpecialty finds name in specs ignoring case and returns the
// catalogue spelling.
func matchSpecialty(specs []domain.Specialty, name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, s := range specs {
		if strings.EqualFold(s.Name, name) {
			return s.Name, true
		}
	}
	return "", false
}

func specialtyNames(specs []domain.Specialty) string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}

func (c *cli) mineCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "mias",
		Aliases: []string{"mis-citas"},
		Short:   "Listar mis citas reservadas",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.require(patientOnly); err != nil {
				return err
			}
			ctx, cancel := c.call(cmd.Context())
			defer cancel()
			appts, err := c.client.ListMyAppointments(ctx)
			if err != nil {
				return err
			}
			if c.jsonOut {
				return c.printer.JSON(appts)
			}
			c.printer.Header("Mis citas")
			if err := c.printer.Appointments(appts, true); err != nil {
				return err
			}
			c.printer.PrintHints("citas mias")
			return nil
		},
	}
}

func (c *cli) allCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "todas",
		Short: "Listar la agenda completa (médicos y administración)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.require(staffOnly); err != nil {
				return err
			}
			ctx, cancel := c.call(cmd.Context())
			defer cancel()
			appts, err := c.client.ListAllAppointments(ctx)
			if err != nil {
				return err
			}
			if c.jsonOut {
				return c.printer.JSON(appts)
			}
			c.printer.Header("Agenda de citas")
			return c.printer.Appointments(appts, true)
		},
	}
}

func (c *cli) reserveCmd() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "reservar ID",
		Short: "Reservar una cita libre",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.require(patientOnly); err != nil {
				return err
			}
			ctx, cancel := c.call(cmd.Context())
			defer cancel()
			if err := c.client.ReserveAppointment(ctx, id, reason); err != nil {
				return err
			}
			if c.jsonOut {
				return c.printer.JSON(map[string]any{"id": id, "reservada": true})
			}
			c.printer.Success("Cita %d reservada.", id)
			c.printer.PrintHints("citas reservar")
			return nil
		},
	}
	cmd.Flags().StringVarP(&reason, "motivo", "m", "", "motivo de la consulta (obligatorio)")
	_ = cmd.MarkFlagRequired("motivo")
	return cmd
}

func (c *cli) cancelCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "cancelar ID",
		Short: "Cancelar una cita reservada",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.require(patientOnly); err != nil {
				return err
			}
			if !yes {
				answer, err := c.prompt(bufio.NewReader(c.in), fmt.Sprintf("¿Cancelar la cita %d? [s/N]: ", id))
				if err != nil {
					return err
				}
				if a := strings.ToLower(answer); a != "s" && a != "si" && a != "sí" && a != "y" {
					c.printer.Info("La cita %d sigue reservada.", id)
					return nil
				}
			}
			ctx, cancel := c.call(cmd.Context())
			defer cancel()
			if err := c.client.CancelAppointment(ctx, id); err != nil {
				return err
			}
			if c.jsonOut {
				return c.printer.JSON(map[string]any{"id": id, "cancelada": true})
			}
			c.printer.Success("Cita %d cancelada.", id)
			c.printer.PrintHints("citas cancelar")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "no pedir confirmación")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, &output.CLIError{
			Summary:  fmt.Sprintf("id de cita no válido: %q", s),
			Detail:   "debe ser un número entero positivo",
			ExitCode: output.ExitUsageError,
		}
	}
	return id, nil
}
