package account

import (
	"crypto/rand"
	"math/big"
)

const (
	numberPrefix = "ACC"
	numberDigits = 10
)

// NewNumber generates an account number: a fixed prefix followed by a
// fixed-length numeric suffix drawn from a cryptographically strong random
// source. Uniqueness is enforced by the store at insertion time; callers
// retry generation on collision.
func NewNumber() string {
	buf := make([]byte, 0, len(numberPrefix)+numberDigits)
	buf = append(buf, numberPrefix...)
	for i := 0; i < numberDigits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// crypto/rand only fails when the platform's entropy
			// source is broken; nothing sensible to do but stop.
			panic(err)
		}
		buf = append(buf, byte('0'+n.Int64()))
	}
	return string(buf)
}
