package credential

import (
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "hubtray"

// TokenKey is the keyring entry under which the GitHub token is stored.
const TokenKey = "github-token"

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/hubtray/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("hubtray-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// GetToken retrieves the stored GitHub token from the system keyring.
func GetToken() (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(TokenKey)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", TokenKey, err)
	}

	return string(item.Data), nil
}

// SetToken stores the GitHub token in the system keyring.
func SetToken(token string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  TokenKey,
		Data: []byte(token),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", TokenKey, err)
	}

	return nil
}

// DeleteToken removes the stored GitHub token from the system keyring.
func DeleteToken() error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(TokenKey)
	if err != nil {
		return fmt.Errorf("deleting credential %q: %w", TokenKey, err)
	}

	return nil
}

// HasToken reports whether a GitHub token is present in the keyring.
func HasToken() bool {
	ring, err := openKeyring()
	if err != nil {
		return false
	}

	_, err = ring.Get(TokenKey)
	return err == nil
}
