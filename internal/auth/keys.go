// Package auth provides password hashing and PASETO token handling.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// KeyFileName is the file under the data directory that holds the token key.
const KeyFileName = "auth.key"

// LoadOrGenerateKey returns the 32-byte symmetric key stored hex-encoded in
// <dataPath>/auth.key, creating the file with a fresh random key on first
// start.
func LoadOrGenerateKey(dataPath string) ([]byte, error) {
	keyPath := filepath.Join(dataPath, KeyFileName)

	//#nosec G304 -- key path is derived from the configured data path
	if raw, err := os.ReadFile(keyPath); err == nil {
		keyHex := strings.TrimSpace(string(raw))
		if len(keyHex) != keyHexSize {
			return nil, fmt.Errorf("invalid token key length: expected %d hex chars, got %d", keyHexSize, len(keyHex))
		}

		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid token key format: not valid hex: %w", err)
		}
		return key, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read token key: %w", err)
	}

	key := make([]byte, keyBytesSize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate token key: %w", err)
	}

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("failed to save token key: %w", err)
	}

	return key, nil
}
