// Command autoselectctl drives the auto-selector core from the shell:
// full-probe selection, cached ranking, tunnel-free diagnostics, and a
// gRPC facade for an external scheduler.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veilrelay/autoselect/cmd/autoselectctl/ui"
	"github.com/veilrelay/autoselect/internal/config"
	"github.com/veilrelay/autoselect/internal/obs"
)

func main() {
	ui.DetectColorProfile()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bold("error:"), err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var dataDir string
	var debug bool

	defaults := config.Defaults()

	cmd := &cobra.Command{
		Use:   "autoselectctl",
		Short: "Probe and rank outbound proxy endpoints",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := obs.LevelInfo
			if debug {
				level = obs.LevelDebug
			}
			return obs.Configure(level)
		},
	}

	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaults.DataRoot, "Directory holding the SQLite store")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(selectCmd(&dataDir, &debug))
	cmd.AddCommand(bestCmd(&dataDir, &debug))
	cmd.AddCommand(diagCmd())
	cmd.AddCommand(serveCmd(&dataDir, &debug))
	return cmd
}
