// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root crewgate command with all subcommands
// registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "crewgate",
		Short:         "Crewgate: multi-provider LLM gateway",
		Long:          "Crewgate routes generation requests across LLM providers with failure-aware fallback.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	root.AddCommand(
		newServeCmd(),
		newModelsCmd(),
		newStatusCmd(),
		newProbeCmd(),
		newSecretCmd(),
		newVersionCmd(),
	)

	return root
}
