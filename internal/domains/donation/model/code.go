package model

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

const DefaultCodeLength = 6

// GenerateVerificationCode returns a zero-padded random numeric code.
func GenerateVerificationCode(length int) (string, error) {
	if length <= 0 || length > 10 {
		length = DefaultCodeLength
	}

	upper := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n), nil
}

// CodeMatches compares in constant time.
func CodeMatches(expected, given string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(given)) == 1
}
