// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package secrets

import (
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"
)

const uriScheme = "keyring://"

// IsKeyringURI reports whether value uses the keyring:// scheme.
func IsKeyringURI(value string) bool {
	return strings.HasPrefix(value, uriScheme)
}

// ParseKeyringURI splits a keyring://service/key URI into its parts.
func ParseKeyringURI(uri string) (service, key string, err error) {
	if !IsKeyringURI(uri) {
		return "", "", cgerr.Errorf(cgerr.CodeSecretInvalidInput, "not a keyring URI: %q", uri)
	}

	service, key, ok := strings.Cut(strings.TrimPrefix(uri, uriScheme), "/")
	if !ok || service == "" || key == "" {
		return "", "", cgerr.Errorf(cgerr.CodeSecretInvalidInput,
			"malformed keyring URI %q: want keyring://service/key", uri)
	}
	return service, key, nil
}

// Resolve replaces a keyring:// URI with the secret it names. Non-URI
// values pass through unchanged.
func Resolve(store Store, value string) (string, error) {
	if !IsKeyringURI(value) {
		return value, nil
	}

	service, key, err := ParseKeyringURI(value)
	if err != nil {
		return "", err
	}

	secret, err := store.Get(service, key)
	if err != nil {
		return "", cgerr.Wrapf(err, cgerr.CodeSecretResolveFailure, "resolving %q", value)
	}
	return secret, nil
}

// ResolveViperSecrets rewrites every keyring:// string value in v with its
// resolved secret, after config load. A failed lookup keeps the URI in
// place and logs a warning; the provider using that credential will report
// the miss when invoked.
func ResolveViperSecrets(v *viper.Viper, store Store) {
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if !IsKeyringURI(val) {
			continue
		}

		resolved, err := Resolve(store, val)
		if err != nil {
			slog.Warn("keyring URI left unresolved", "config_key", key, "error", err)
			continue
		}
		v.Set(key, resolved)
	}
}
