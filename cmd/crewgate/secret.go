// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crewgate-dev/crewgate/internal/secrets"
	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"
)

// serviceName is the keyring service under which crewgate stores secrets.
const serviceName = "crewgate"

// secretStoreFactory creates a secrets.Store. Package-level so tests can
// substitute a mock.
var secretStoreFactory = func() secrets.Store {
	return secrets.NewKeyringStore()
}

func newSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage API keys in the OS keyring",
		Long:  "Store, list, and delete secrets under the crewgate service in the operating system keyring. Reference them from config as keyring://crewgate/<name>.",
	}

	cmd.AddCommand(
		newSecretSetCmd(),
		newSecretListCmd(),
		newSecretDeleteCmd(),
	)

	return cmd
}

func newSecretSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <value>",
		Short: "Store a secret",
		Args:  cobra.ExactArgs(2),
		RunE:  runSecretSet,
	}
}

func newSecretListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored secret names",
		RunE:  runSecretList,
	}
}

func newSecretDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a secret by name",
		Args:  cobra.ExactArgs(1),
		RunE:  runSecretDelete,
	}
}

func runSecretSet(cmd *cobra.Command, args []string) error {
	if err := secretStoreFactory().Set(serviceName, args[0], args[1]); err != nil {
		return cgerr.Wrapf(err, cgerr.CodeSecretStoreFailure, "storing secret %q", args[0])
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored secret: %s (reference as keyring://%s/%s)\n",
		args[0], serviceName, args[0])
	return nil
}

func runSecretList(cmd *cobra.Command, _ []string) error {
	keys, err := secretStoreFactory().Keys(serviceName)
	if err != nil {
		return cgerr.Wrap(err, cgerr.CodeSecretListFailure, "listing secrets")
	}

	out := cmd.OutOrStdout()
	if len(keys) == 0 {
		_, _ = fmt.Fprintln(out, "No secrets stored.")
		return nil
	}
	for _, k := range keys {
		_, _ = fmt.Fprintln(out, k)
	}
	return nil
}

func runSecretDelete(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := secretStoreFactory().Delete(serviceName, name); err != nil {
		if cgerr.HasCode(err, cgerr.CodeSecretNotFound) {
			return cgerr.Errorf(cgerr.CodeSecretNotFound, "secret %q not found", name)
		}
		return cgerr.Wrapf(err, cgerr.CodeSecretDeleteFailure, "deleting secret %q", name)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted secret: %s\n", name)
	return nil
}
