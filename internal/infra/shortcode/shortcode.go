// Package shortcode generates random short-code candidates for trackable
// links.
package shortcode

import (
	"crypto/rand"
	"math/big"

	"leadtrack/internal/domain/service"
	"leadtrack/internal/errors"
)

// alphabet is mixed-case alphanumeric, 62 symbols. Six characters give
// 62^6 (~56.8 billion) combinations, far beyond any expected link count.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultLength is the code length used when none is configured.
const DefaultLength = 6

// Source produces cryptographically random fixed-length codes.
type Source struct {
	length int
}

// NewSource creates a Source emitting codes of the given length. Lengths
// below one fall back to DefaultLength.
func NewSource(length int) *Source {
	if length < 1 {
		length = DefaultLength
	}

	return &Source{length: length}
}

var _ service.ShortCodeSource = (*Source)(nil)

// NewCode returns one random candidate. Uniqueness is the caller's concern.
func (s *Source) NewCode() (string, error) {
	max := big.NewInt(int64(len(alphabet)))

	code := make([]byte, s.length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", errors.Wrap(err, "generate short code")
		}
		code[i] = alphabet[n.Int64()]
	}

	return string(code), nil
}
