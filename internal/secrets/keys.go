// Package secrets keeps the upstream API keys in the OS keychain so they
// never sit in the config file.
package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Service groups the app's secrets in the OS keychain.
	KeyringService = "jobby"
	searchAccount  = "jobby:search:api-keys"
)

// GetSearchKeys reads the comma-separated key list from the keychain.
func GetSearchKeys() ([]string, error) {
	raw, err := keyring.Get(KeyringService, searchAccount)
	if err != nil {
		return nil, err
	}
	keys := splitKeys(raw)
	if len(keys) == 0 {
		return nil, errors.New("search API keys entry is empty")
	}
	return keys, nil
}

func SetSearchKeys(keys []string) error {
	keys = splitKeys(strings.Join(keys, ","))
	if len(keys) == 0 {
		return errors.New("no API keys given")
	}
	return keyring.Set(KeyringService, searchAccount, strings.Join(keys, ","))
}

func DeleteSearchKeys() error {
	return keyring.Delete(KeyringService, searchAccount)
}

func splitKeys(raw string) []string {
	var out []string
	for _, k := range strings.Split(raw, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
