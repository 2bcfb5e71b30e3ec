// Package checksum computes the inventory integrity digest. The digest
// guards against accidental corruption only; it is not a cryptographic
// trust boundary.
package checksum

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Generate returns the hex xxhash64 digest of data's canonical JSON
// encoding. Map keys are sorted by encoding/json, so the digest is stable
// for equal values.
func Generate(data any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encoding for digest: %w", err)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(raw)), nil
}

// Verify reports whether data's digest matches the expected one.
func Verify(data any, digest string) bool {
	got, err := Generate(data)
	if err != nil {
		return false
	}
	return got == digest
}
