package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	commit    = "unknown"
	buildTime = "unknown"
)

func (c *cli) versionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Mostrar la versión",
		Long:  `Muestra la versión, la información de compilación y la versión de Go.`,
		Args:  cobra.NoArgs,
		// No configuration is needed to print the version.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(w, version) //nolint:errcheck
				return nil
			}
			info := map[string]string{
				"version":   version,
				"commit":    commit,
				"built":     buildTime,
				"goVersion": runtime.Version(),
				"platform":  runtime.GOOS + "/" + runtime.GOARCH,
			}
			if c.jsonOut {
				return c.printerOrPlain().JSON(info)
			}
			fmt.Fprintf(w, "soraka versión %s\n", version)                        //nolint:errcheck
			fmt.Fprintf(w, "  commit:     %s\n", commit)                          //nolint:errcheck
			fmt.Fprintf(w, "  compilado:  %s\n", buildTime)                       //nolint:errcheck
			fmt.Fprintf(w, "  go:         %s\n", runtime.Version())               //nolint:errcheck
			fmt.Fprintf(w, "  plataforma: %s/%s\n", runtime.GOOS, runtime.GOARCH) //nolint:errcheck
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "solo el número de versión")
	return cmd
}
