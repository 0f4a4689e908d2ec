package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/naveenspark/soraka/internal/guard"
	"github.com/naveenspark/soraka/internal/output"
)

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Iniciar sesión",
		Long: `Inicia sesión con email y contraseña. El token queda guardado en
session.token_file para las siguientes órdenes y para la interfaz interactiva.

Los datos que no se pasen como opción se piden por teclado.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := bufio.NewReader(c.in)
			var err error
			if email == "" {
				if email, err = c.prompt(r, "Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = c.promptSecret(r, "Contraseña: "); err != nil {
					return err
				}
			}

			ctx, cancel := c.call(cmd.Context())
			defer cancel()
			token, err := c.client.Login(ctx, email, password)
			if err != nil {
				return err
			}
			if err := c.session.Login(token); err != nil {
				return err
			}

			id, _ := c.session.Current()
			if c.jsonOut {
				return c.printer.JSON(id)
			}
			printWelcome(c.out, id.DisplayName(), id.Role.Label())
			c.printer.PrintHints("login")
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "email de la cuenta")
	cmd.Flags().StringVarP(&password, "password", "p", "", "contraseña (evítala en el historial de la shell)")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cerrar sesión",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, was := c.session.Current()
			c.session.Logout()
			if c.jsonOut {
				return c.printer.JSON(map[string]bool{"loggedOut": was})
			}
			if was {
				printFarewell(c.out)
			} else {
				c.printer.Info("No había ninguna sesión abierta.")
			}
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Mostrar la sesión actual",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.require(guard.AnyRole); err != nil {
				return err
			}
			id, _ := c.session.Current()
			if c.jsonOut {
				return c.printer.JSON(id)
			}
			c.printer.Identity(id)
			return nil
		},
	}
}

func (c *cli) prompt(r *bufio.Reader, label string) (string, error) {
	fmt.Fprint(c.errOut, label) //nolint:errcheck
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", &output.CLIError{Summary: "no se pudo leer la entrada", Detail: err.Error(), ExitCode: output.ExitUsageError, Err: err}
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads without echo when stdin is a terminal.
func (c *cli) promptSecret(r *bufio.Reader, label string) (string, error) {
	f, ok := c.in.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return c.prompt(r, label)
	}
	fmt.Fprint(c.errOut, label) //nolint:errcheck
	b, err := term.ReadPassword(f.Fd())
	fmt.Fprintln(c.errOut) //nolint:errcheck
	if err != nil {
		return "", &output.CLIError{Summary: "no se pudo leer la contraseña", Detail: err.Error(), ExitCode: output.ExitUsageError, Err: err}
	}
	return string(b), nil
}
