package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/veilrelay/autoselect/cmd/autoselectctl/ui"
)

func bestCmd(dataDir *string, debug *bool) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "best [candidate-ids...]",
		Short: "Rank candidates from history alone, with no probing",
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

			id, ok := orch.GetBestAvailableProxy(ctx, args)
			if !ok {
				fmt.Println(ui.ErrorStyle.Render("no candidate available"))
				return nil
			}

			fmt.Print(ui.KeyValues("", ui.KV("best", ui.Accent(id))))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Deadline for the store reads")
	return cmd
}
