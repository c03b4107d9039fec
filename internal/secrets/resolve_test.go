// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package secrets_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewgate-dev/crewgate/internal/secrets"
	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"
)

func TestIsKeyringURI(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"valid URI", "keyring://crewgate/anthropic-api-key", true},
		{"env var reference", "${ANTHROPIC_API_KEY}", false},
		{"literal value", "sk-abc123", false},
		{"empty string", "", false},
		{"just scheme", "keyring://", true},
		{"other scheme", "vault://secret/key", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, secrets.IsKeyringURI(tt.value))
		})
	}
}

func TestParseKeyringURI(t *testing.T) {
	tests := []struct {
		name        string
		uri         string
		wantService string
		wantKey     string
		wantErr     bool
	}{
		{"valid", "keyring://crewgate/api-key", "crewgate", "api-key", false},
		{"slashes in key", "keyring://crewgate/path/to/key", "crewgate", "path/to/key", false},
		{"not a keyring URI", "vault://secret/key", "", "", true},
		{"missing key", "keyring://crewgate/", "", "", true},
		{"missing service", "keyring:///key", "", "", true},
		{"no path", "keyring://crewgate", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, key, err := secrets.ParseKeyringURI(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, cgerr.HasCode(err, cgerr.CodeSecretInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantService, svc)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestResolve(t *testing.T) {
	ks := secrets.NewKeyringStore()
	require.NoError(t, ks.Set("crewgate", "test-key", "resolved-secret"))

	t.Run("resolves keyring URI", func(t *testing.T) {
		val, err := secrets.Resolve(ks, "keyring://crewgate/test-key")
		require.NoError(t, err)
		assert.Equal(t, "resolved-secret", val)
	})

	t.Run("passes through literal values", func(t *testing.T) {
		val, err := secrets.Resolve(ks, "sk-literal")
		require.NoError(t, err)
		assert.Equal(t, "sk-literal", val)
	})

	t.Run("error on missing secret", func(t *testing.T) {
		_, err := secrets.Resolve(ks, "keyring://crewgate/nonexistent")
		require.Error(t, err)
		assert.True(t, cgerr.HasCode(err, cgerr.CodeSecretResolveFailure))
	})

	t.Run("error on malformed URI", func(t *testing.T) {
		_, err := secrets.Resolve(ks, "keyring://bad")
		require.Error(t, err)
	})
}

func TestResolveViperSecrets(t *testing.T) {
	ks := secrets.NewKeyringStore()
	require.NoError(t, ks.Set("crewgate", "anthropic-api-key", "sk-ant-secret"))

	v := viper.New()
	v.Set("providers.anthropic.api_key", "keyring://crewgate/anthropic-api-key")
	v.Set("providers.openai.api_key", "keyring://crewgate/missing-key")
	v.Set("networking.listen", "127.0.0.1:8790")

	secrets.ResolveViperSecrets(v, ks)

	assert.Equal(t, "sk-ant-secret", v.GetString("providers.anthropic.api_key"))
	// Unresolvable URIs stay put so the failure surfaces where the
	// credential is used.
	assert.Equal(t, "keyring://crewgate/missing-key", v.GetString("providers.openai.api_key"))
	assert.Equal(t, "127.0.0.1:8790", v.GetString("networking.listen"))
}
