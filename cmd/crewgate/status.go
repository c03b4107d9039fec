// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"
	"github.com/crewgate-dev/crewgate/pkg/health"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [model]",
		Short: "Show model health status",
		Long:  "Display the health state of every model, or detailed status and fallbacks for one model.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStatus,
	}

	cmd.Flags().String("address", "127.0.0.1:8790", "gateway address to query")
	cmd.Flags().Bool("reset", false, "clear all failure records instead of reading status")

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("address")
	out := cmd.OutOrStdout()
	gw := newGatewayClient(addr)

	if reset, _ := cmd.Flags().GetBool("reset"); reset {
		if err := gw.postJSON("/api/v1/health/reset", nil); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, "Health records cleared.")
		return nil
	}

	if len(args) == 1 {
		var body struct {
			Model string `json:"model"`
			health.Metrics
			Fallbacks []string `json:"fallbacks"`
		}
		if err := gw.getJSON("/api/v1/models/"+args[0]+"/status", &body); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "Model:     %s\n", body.Model)
		_, _ = fmt.Fprintf(out, "State:     %s\n", body.State)
		_, _ = fmt.Fprintf(out, "Failures:  %d\n", body.ConsecutiveFailures)
		if body.CooldownUntil != nil {
			_, _ = fmt.Fprintf(out, "Cooldown:  until %s\n", body.CooldownUntil.Format("15:04:05"))
		}
		_, _ = fmt.Fprintf(out, "Fallbacks: %v\n", body.Fallbacks)
		return nil
	}

	var body struct {
		Models []struct {
			Model string `json:"model"`
			health.Metrics
		} `json:"models"`
	}
	if err := gw.getJSON("/api/v1/models/status", &body); err != nil {
		if cgerr.HasCode(err, cgerr.CodeCLIGatewayNotRunning) {
			_, _ = fmt.Fprintf(out, "Gateway at %s is not running (connection refused)\n", addr)
			return nil
		}
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "MODEL\tSTATE\tFAILURES")
	for _, m := range body.Models {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\n", m.Model, m.State, m.ConsecutiveFailures)
	}
	return w.Flush()
}
