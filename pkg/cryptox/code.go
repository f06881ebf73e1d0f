package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// codeAlphabet leaves out 0/O and 1/I so codes survive being read aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCode returns a random uppercase code of length n.
func GenerateCode(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("cryptox: code length must be positive, got %d", n)
	}
	limit := big.NewInt(int64(len(codeAlphabet)))
	out := make([]byte, n)
	for i := range out {
		k, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("cryptox: generate code: %w", err)
		}
		out[i] = codeAlphabet[k.Int64()]
	}
	return string(out), nil
}
