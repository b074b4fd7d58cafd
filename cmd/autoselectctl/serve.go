package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/veilrelay/autoselect/internal/rpc"
	"github.com/veilrelay/autoselect/selector"
)

func serveCmd(dataDir *string, debug *bool) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the orchestrator over gRPC",
		RunE: func(cmd *cobra.Command, args []string) error {
			tracer, closeTracer := newTracer(*debug)
			defer closeTracer()

			orch, db, err := newOrchestrator(*dataDir, tracer)
			if err != nil {
				return err
			}
			defer db.Close()

			sf := selector.NewSingleFlight(orch)
			srv := rpc.NewOrchestratorServer(orch, sf)
			grpcServer := rpc.NewServer(srv)

			lis, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}

			fmt.Printf("serving on %s\n", addr)
			return grpcServer.Serve(lis)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":7443", "Listen address for the gRPC facade")
	return cmd
}
