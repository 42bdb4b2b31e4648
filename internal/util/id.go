package util

import "math/rand/v2"

const (
	idPrefix   = "id-"
	idLength   = 16
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// GenerateUniqueID returns a random token of the form id-<16 base36 chars>.
// Uniqueness is probabilistic only; it is not suitable for secrets.
func GenerateUniqueID() string {
	b := make([]byte, len(idPrefix)+idLength)
	copy(b, idPrefix)
	for i := len(idPrefix); i < len(b); i++ {
		b[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return string(b)
}
