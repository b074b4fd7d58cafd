package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/beevik/ntp"
	"github.com/spf13/cobra"

	"github.com/veilrelay/autoselect/cmd/autoselectctl/ui"
	"github.com/veilrelay/autoselect/probe"
)

// diagCmd runs operator diagnostics that are deliberately kept out of the
// scoring pipeline: a raw TCP timing and a wall-clock sanity check against
// an NTP server. Nothing here feeds breaker, metrics, or score state — §9
// leaves clock-skew detection out of scope for the core itself, so it lives
// only in this CLI-side tool.
func diagCmd() *cobra.Command {
	var ntpServer string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "diag host:port",
		Short: "Run TCP and NTP diagnostics outside the scoring pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, port, err := net.SplitHostPort(args[0])
			if err != nil {
				return fmt.Errorf("parse %q: %w", args[0], err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			ms, ok := probe.TCPConnectLatency(ctx, host, port)
			fmt.Print(ui.KeyValues("",
				ui.KV("tcp_reachable", ui.Bool(ok)),
				ui.KV("tcp_connect_ms", fmt.Sprintf("%.1f", ms)),
			))

			resp, err := ntp.QueryWithOptions(ntpServer, ntp.QueryOptions{Timeout: timeout})
			if err != nil {
				fmt.Println(ui.MutedStyle.Render(fmt.Sprintf("ntp query failed: %v", err)))
				return nil
			}
			fmt.Print(ui.KeyValues("",
				ui.KV("ntp_server", ntpServer),
				ui.KV("clock_offset", resp.ClockOffset.String()),
				ui.KV("rtt", resp.RTT.String()),
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&ntpServer, "ntp-server", "time.google.com", "NTP server for the clock-skew check")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Deadline for each diagnostic")
	return cmd
}
