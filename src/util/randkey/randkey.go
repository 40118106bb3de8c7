// Package randkey generates random secrets for generated configuration.
package randkey

import (
	"crypto/rand"
	"math/big"
)

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// String returns a cryptographically random alphanumeric string of the
// given length.
func String(length int) string {
	out := make([]byte, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is
			// broken; nothing sensible to do but stop.
			panic(err)
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out)
}
