package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// Matcher verifies the integrity of an uploaded file against the digest the
// client computed on its side.
type Matcher struct {
	expected string
}

// NewMatcher creates a Matcher for a client-supplied hex SHA-256 digest.
func NewMatcher(expected string) *Matcher {
	return &Matcher{expected: strings.ToLower(strings.TrimSpace(expected))}
}

// Match checks if the provided data's checksum matches the expected checksum.
func (m *Matcher) Match(data []byte) (bool, error) {
	if m.expected == "" {
		return false, errors.New("expected checksum is not set")
	}

	hash := sha256.New()
	hash.Write(data)
	computed := hex.EncodeToString(hash.Sum(nil))

	return computed == m.expected, nil
}
