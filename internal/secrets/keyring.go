// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Crewgate Contributors

package secrets

import (
	"encoding/json"
	"errors"
	"log/slog"
	"slices"

	"github.com/zalando/go-keyring"

	cgerr "github.com/crewgate-dev/crewgate/pkg/errors"
)

// indexSuffix forms the per-service entry that records stored key names.
// go-keyring cannot enumerate keys, so Keys() is served from this JSON
// index maintained alongside the secrets themselves.
const indexSuffix = "::keys-index"

// KeyringStore backs Store with the OS keyring through zalando/go-keyring:
// Keychain on macOS, secret-service over D-Bus on Linux, Credential Manager
// on Windows.
type KeyringStore struct{}

func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

func checkServiceKey(op, service, key string) error {
	if service == "" {
		return cgerr.Errorf(cgerr.CodeSecretInvalidInput, "secret %s: empty service", op)
	}
	if key == "" {
		return cgerr.Errorf(cgerr.CodeSecretInvalidInput, "secret %s: empty key", op)
	}
	return nil
}

func (s *KeyringStore) Set(service, key, value string) error {
	if err := checkServiceKey("set", service, key); err != nil {
		return err
	}
	if err := keyring.Set(service, key, value); err != nil {
		return cgerr.Wrapf(err, cgerr.CodeSecretStoreFailure, "storing secret %s/%s", service, key)
	}
	return s.indexAdd(service, key)
}

func (s *KeyringStore) Get(service, key string) (string, error) {
	if err := checkServiceKey("get", service, key); err != nil {
		return "", err
	}
	val, err := keyring.Get(service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", cgerr.Errorf(cgerr.CodeSecretNotFound, "secret %s/%s not found", service, key)
		}
		return "", cgerr.Wrapf(err, cgerr.CodeSecretStoreFailure, "retrieving secret %s/%s", service, key)
	}
	return val, nil
}

func (s *KeyringStore) Delete(service, key string) error {
	if err := checkServiceKey("delete", service, key); err != nil {
		return err
	}
	if err := keyring.Delete(service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return cgerr.Errorf(cgerr.CodeSecretNotFound, "secret %s/%s not found", service, key)
		}
		return cgerr.Wrapf(err, cgerr.CodeSecretDeleteFailure, "deleting secret %s/%s", service, key)
	}
	return s.indexRemove(service, key)
}

func (s *KeyringStore) Keys(service string) ([]string, error) {
	return s.indexLoad(service)
}

func (s *KeyringStore) indexLoad(service string) ([]string, error) {
	raw, err := keyring.Get(service, service+indexSuffix)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}
		return nil, cgerr.Wrapf(err, cgerr.CodeSecretListFailure, "loading key index for %s", service)
	}

	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, cgerr.Wrapf(err, cgerr.CodeSecretListFailure, "decoding key index for %s", service)
	}
	return keys, nil
}

func (s *KeyringStore) indexSave(service string, keys []string) error {
	indexKey := service + indexSuffix

	if len(keys) == 0 {
		if err := keyring.Delete(service, indexKey); err != nil {
			slog.Debug("failed to remove empty key index", "service", service, "error", err)
		}
		return nil
	}

	data, err := json.Marshal(keys)
	if err != nil {
		return cgerr.Wrapf(err, cgerr.CodeSecretListFailure, "encoding key index for %s", service)
	}
	if err := keyring.Set(service, indexKey, string(data)); err != nil {
		return cgerr.Wrapf(err, cgerr.CodeSecretListFailure, "saving key index for %s", service)
	}
	return nil
}

func (s *KeyringStore) indexAdd(service, key string) error {
	keys, err := s.indexLoad(service)
	if err != nil {
		return err
	}
	if slices.Contains(keys, key) {
		return nil
	}
	return s.indexSave(service, append(keys, key))
}

func (s *KeyringStore) indexRemove(service, key string) error {
	keys, err := s.indexLoad(service)
	if err != nil {
		return err
	}
	return s.indexSave(service, slices.DeleteFunc(keys, func(k string) bool { return k == key }))
}
