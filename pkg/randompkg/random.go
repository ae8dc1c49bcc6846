// Package randompkg provides functionality for generating random application items.
package randompkg

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz"
	digits   = "0123456789"
)

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int64) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// IntBetween generates a random integer in [min, max].
func IntBetween(min, max int64) int64 {
	return min + Intn(max-min+1)
}

func fromSet(set string, n int) string {
	var sb strings.Builder

	k := int64(len(set))

	for i := 0; i < n; i++ {
		_ = sb.WriteByte(set[Intn(k)]) // The returned err is always nil.
	}

	return sb.String()
}

// String generates a random lowercase string of length n.
func String(n int) string {
	return fromSet(alphabet, n)
}

// Digits generates a random string of n decimal digits.
func Digits(n int) string {
	return fromSet(digits, n)
}

// Name generates a random display name.
func Name() string {
	first, last := String(6), String(8)
	return strings.ToUpper(first[:1]) + first[1:] + " " + strings.ToUpper(last[:1]) + last[1:]
}

// AccountNo generates a random account number outside the seeded range.
func AccountNo() string {
	return strconv.FormatInt(IntBetween(1_000, 999_999), 10)
}

// Email generates a random email.
func Email() string {
	return fmt.Sprintf("%s@email.com", String(10))
}

// Phone generates a random ten digit phone number.
func Phone() string {
	return Digits(10)
}

// IFSCCode generates a masked branch code like XXXX1234.
func IFSCCode() string {
	return "XXXX" + Digits(4)
}

// Amount generates a random amount of money in minor units between min and max.
func Amount(min, max int64) int64 {
	return IntBetween(min, max)
}
