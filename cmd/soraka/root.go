package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naveenspark/soraka/internal/config"
	"github.com/naveenspark/soraka/internal/guard"
	"github.com/naveenspark/soraka/internal/nav"
	"github.com/naveenspark/soraka/internal/output"
	"github.com/naveenspark/soraka/internal/session"
	"github.com/naveenspark/soraka/internal/store"
	"github.com/naveenspark/soraka/pkg/client"
)

// cli holds the flags and the wiring shared by every command of one
// invocation.
type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfgFile  string
	verbose  bool
	jsonOut  bool
	noColors bool

	cfg     *config.Config
	log     *slog.Logger
	logFile io.Closer
	printer *output.Printer
	store   *store.FileStore
	history *nav.History
	session *session.Context
	client  *client.Client
	guard   *guard.Guard
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "soraka",
		Short: "Cliente de terminal para reservar citas médicas",
		Long: `soraka reserva y gestiona citas con los especialistas de la clínica.

Sin subcomando abre la interfaz interactiva. Los subcomandos hacen lo mismo
desde la línea de órdenes y admiten --json para integrarse con scripts.

Ejemplos:
  soraka                                  # Interfaz interactiva
  soraka login                            # Iniciar sesión
  soraka citas disponibles --especialidad Cardiología
  soraka citas reservar 12 --motivo "Revisión anual"
  soraka citas mias --json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "fichero de configuración (por defecto ~/.soraka/config.yaml)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "registro detallado (nivel debug)")
	pf.BoolVar(&c.jsonOut, "json", false, "salida en JSON")
	pf.BoolVar(&c.noColors, "no-color", false, "desactivar colores")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.specialtiesCmd(),
		c.doctorsCmd(),
		c.appointmentsCmd(),
		c.versionCmd(),
	)
	return root
}

// setup loads configuration and wires the session, gateway and client.
// The interactive program logs to a file since it owns the terminal.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return &output.CLIError{
			Summary:    "configuración no válida",
			Detail:     err.Error(),
			Suggestion: "Revisa ~/.soraka/config.yaml y las variables SORAKA_*",
			ExitCode:   output.ExitConfig,
			Err:        err,
		}
	}
	c.cfg = cfg
	c.printer = output.NewPrinter(c.out, c.errOut, output.ResolveColors(cfg.Output.Colors) && !c.noColors)

	interactive := !cmd.HasParent()
	if err := c.setupLogging(interactive); err != nil {
		return &output.CLIError{Summary: "no se pudo abrir el registro", Detail: err.Error(), ExitCode: output.ExitConfig, Err: err}
	}
	c.log.Debug("configuration loaded",
		"file", cfg.File,
		"api_url", cfg.API.URL,
		"timeout", cfg.API.Timeout,
		"token_file", cfg.Session.TokenFile,
	)

	c.store = store.NewFileStore(cfg.Session.TokenFile)
	c.history = nav.NewHistory(nav.Home)
	c.session = session.New(c.store, session.WithLogger(c.log), session.WithNavigator(c.history))
	c.session.Initialize()
	c.client = client.New(cfg.API.URL, client.NewGateway(c.store, c.session.Logout, client.WithLogger(c.log)))
	c.guard = guard.New(c.session, c.history)
	return nil
}

func (c *cli) setupLogging(interactive bool) error {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(c.cfg.Logging.Level)); err != nil {
		return fmt.Errorf("logging level: %w", err)
	}
	if c.verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = c.errOut
	path := c.cfg.Logging.File
	if path == "" && interactive {
		path = filepath.Join(filepath.Dir(c.cfg.Session.TokenFile), "soraka.log")
	}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		c.logFile = f
		w = f
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.cfg.Logging.Format, "json") {
		c.log = slog.New(slog.NewJSONHandler(w, opts))
	} else {
		c.log = slog.New(slog.NewTextHandler(w, opts))
	}
	return nil
}

// logger returns the configured logger, or a stderr logger before setup ran.
func (c *cli) logger() *slog.Logger {
	if c.log == nil {
		return slog.New(slog.NewTextHandler(c.errOut, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return c.log
}

// printerOrPlain returns the configured printer, or an uncoloured one when
// the failure happened before configuration was read.
func (c *cli) printerOrPlain() *output.Printer {
	if c.printer == nil {
		return output.NewPrinter(c.out, c.errOut, false)
	}
	return c.printer
}

func (c *cli) close() {
	if c.logFile != nil {
		c.logFile.Close() //nolint:errcheck
	}
}

// call bounds a single backend round trip by api.timeout.
func (c *cli) call(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.cfg.API.Timeout)
}

// require fails with a guard error unless the current identity holds one of
// roles.
func (c *cli) require(roles guard.RoleSet) error {
	return c.guard.Check(roles)
}
