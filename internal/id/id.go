// Package id generates prefixed, URL-safe identifiers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for the entities the server stores.
const (
	PrefixUser     = "user"
	PrefixSession  = "sess"
	PrefixToken    = "tok"
	PrefixProduct  = "product"
	PrefixCart     = "cart"
	PrefixCartItem = "item"
)

// Generate returns prefix-nanoid, e.g. "cart-V1StGXR8_Z5jdHi6B-myT".
// It fails only when the system cannot supply secure randomness.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics on failure.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
