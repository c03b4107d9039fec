// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crewgate-dev/crewgate/internal/router"
)

func newProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe <model>",
		Short: "Probe a model with a minimal generation",
		Args:  cobra.ExactArgs(1),
		RunE:  runProbe,
	}

	cmd.Flags().String("address", "127.0.0.1:8790", "gateway address to query")

	return cmd
}

func runProbe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("address")
	out := cmd.OutOrStdout()

	var res router.ProbeResult
	if err := newGatewayClient(addr).postJSON("/api/v1/models/"+args[0]+"/probe", &res); err != nil {
		return err
	}

	if res.Available {
		_, _ = fmt.Fprintf(out, "%s: available (%dms)\n", args[0], res.ResponseTimeMs)
		return nil
	}
	if res.Error != "" {
		_, _ = fmt.Fprintf(out, "%s: unavailable: %s\n", args[0], res.Error)
	} else {
		_, _ = fmt.Fprintf(out, "%s: unavailable (%dms)\n", args[0], res.ResponseTimeMs)
	}
	return nil
}
