package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/veilrelay/autoselect/cmd/autoselectctl/ui"
)

func selectCmd(dataDir *string, debug *bool) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "select [candidate-ids...]",
		Short: "Run the full-probe pipeline and promote the winner",
		RunE: func(cmd *cobra.Command, args []string) error {
			tracer, closeTracer := newTracer(*debug)
			defer closeTracer()

			orch, db, err := newOrchestrator(*dataDir, tracer)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			id, ok := orch.AutoSelectBestProxy(ctx, args)
			if !ok {
				fmt.Println(ui.ErrorStyle.Render("no candidate selected"))
				return nil
			}

			fmt.Print(ui.KeyValues("", ui.KV("selected", ui.Accent(id))))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall deadline for the probe run")
	return cmd
}
