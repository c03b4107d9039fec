// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/crewgate-dev/crewgate/internal/catalog"
	"github.com/crewgate-dev/crewgate/internal/router"
	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"
)

func newModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List available models",
		Long:  "List the model catalog from a running gateway, or the built-in catalog when no gateway is reachable.",
		RunE:  runModels,
	}

	cmd.Flags().String("address", "127.0.0.1:8790", "gateway address to query")

	return cmd
}

func runModels(cmd *cobra.Command, _ []string) error {
	addr, _ := cmd.Flags().GetString("address")
	out := cmd.OutOrStdout()

	var body struct {
		Models []router.ModelInfo `json:"models"`
	}
	err := newGatewayClient(addr).getJSON("/api/v1/models", &body)
	if err != nil {
		if !cgerr.HasCode(err, cgerr.CodeCLIGatewayNotRunning) {
			return err
		}
		_, _ = fmt.Fprintf(out, "Gateway at %s is not running; showing built-in catalog.\n\n", addr)
		for _, d := range catalog.Builtin().Models() {
			body.Models = append(body.Models, router.ModelInfo{Descriptor: d})
		}
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "MODEL\tPROVIDER\tCATEGORY\tMAX TOKENS\tUSABLE\tDEFAULT")
	for _, m := range body.Models {
		def := ""
		if m.Default {
			def = "*"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%t\t%s\n",
			m.ID, m.Provider, m.Category, m.MaxTokens, m.Usable, def)
	}
	return w.Flush()
}
