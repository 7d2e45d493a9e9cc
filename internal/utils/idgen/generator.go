// Package idgen produces the public identifiers exposed by the API
// (conv_..., msg_...).
package idgen

import (
	"crypto/rand"
	"fmt"
)

// alphabet is lowercase base36: URL-safe, case-insensitive, no separators.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateSecureID returns "<prefix>_<length random chars>" drawn from the
// lowercase base36 alphabet using crypto/rand.
func GenerateSecureID(prefix string, length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	id := make([]byte, 0, len(prefix)+1+length)
	id = append(id, prefix...)
	id = append(id, '_')
	for _, b := range buf {
		id = append(id, alphabet[int(b)%len(alphabet)])
	}

	return string(id), nil
}
