package services

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const questionIDLength = 8

type IDGenerator interface {
	NewID() (string, error)
}

// DigitIDGenerator produces fixed-length strings of uniform random decimal digits.
type DigitIDGenerator struct {
	Length int
	// Rand defaults to crypto/rand.Reader.
	Rand io.Reader
}

func NewDigitIDGenerator() *DigitIDGenerator {
	return &DigitIDGenerator{Length: questionIDLength}
}

func (g *DigitIDGenerator) NewID() (string, error) {
	length := g.Length
	if length <= 0 {
		length = questionIDLength
	}
	source := g.Rand
	if source == nil {
		source = rand.Reader
	}

	ten := big.NewInt(10)
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(source, ten)
		if err != nil {
			return "", fmt.Errorf("failed to read random digit: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
