package repository

import (
	"crypto/rand"
	"math/big"
)

const (
	orderIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

	DefaultIDLength      = 10
	DefaultMaxIDAttempts = 5
	minIDLength          = 8
	maxIDLength          = 12
)

// IDGenerator returns a fresh random order id of the given length.
type IDGenerator func(length int) (string, error)

func GenerateOrderID(length int) (string, error) {
	alphabetSize := big.NewInt(int64(len(orderIDAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		buf[i] = orderIDAlphabet[n.Int64()]
	}
	return string(buf), nil
}

func clampIDLength(length int) int {
	switch {
	case length == 0:
		return DefaultIDLength
	case length < minIDLength:
		return minIDLength
	case length > maxIDLength:
		return maxIDLength
	}
	return length
}
