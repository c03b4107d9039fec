// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

// Package secrets keeps provider API keys out of config files. Values are
// held in the OS credential store and referenced from config by
// keyring:// URIs.
package secrets

// Store is the secret backend. The default implementation uses the OS
// keyring; tests substitute an in-memory one.
type Store interface {
	// Set saves a secret value under the given service and key.
	Set(service, key, value string) error

	// Get fetches the secret for the given service and key. A missing key
	// yields CodeSecretNotFound.
	Get(service, key string) (string, error)

	// Delete removes the secret for the given service and key. A missing
	// key yields CodeSecretNotFound.
	Delete(service, key string) error

	// Keys returns the key names stored under the given service.
	Keys(service string) ([]string, error)
}
