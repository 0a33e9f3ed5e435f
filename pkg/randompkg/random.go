// Package randompkg provides functionality for generating random ledger items in tests.
package randompkg

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/shopspring/decimal"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int64) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// IntBetween generates a random integer between min and max inclusive.
func IntBetween(min, max int64) int64 {
	return min + Intn(max-min+1)
}

// String generates a random string of length n.
func String(n int) string {
	var sb strings.Builder

	k := int64(len(alphabet))

	for i := 0; i < n; i++ {
		c := alphabet[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// Owner generates a random owner name.
func Owner() string {
	return String(6)
}

// AccountTypeName generates a random account type name.
func AccountTypeName() string {
	return "type_" + String(8)
}

// Money generates a random amount with cents between min and max whole units.
func Money(min, max int64) moneypkg.Money {
	cents := IntBetween(min*100, max*100)

	m, err := moneypkg.FromDecimal(decimal.New(cents, -moneypkg.Places))
	if err != nil {
		panic(err)
	}

	return m
}

// InterestRate generates a random annual interest rate percentage with two decimals.
func InterestRate() decimal.Decimal {
	return decimal.New(IntBetween(0, 1500), -2)
}

// InterestCalculationPerYear returns a random number of interest postings
// that spreads evenly over a year.
func InterestCalculationPerYear() int32 {
	choices := []int32{1, 2, 3, 4, 6, 12}
	return choices[Intn(int64(len(choices)))]
}
