// Package bps implements basis-point arithmetic on integer value units.
// All computations multiply before dividing and truncate toward zero, so
// results are bit-exact across implementations. Floating point is never used.
package bps

import (
	"errors"
	"math"
)

// Denominator is the number of basis points in a whole (100%).
const Denominator = 10000

var ErrOverflow = errors.New("basis-point multiplication overflows int64")

// Apply returns amount*bps/10000, floored. Fails if amount*bps does not fit
// in an int64. Both inputs must be non-negative.
func Apply(amount, bps int64) (int64, error) {
	if amount < 0 || bps < 0 {
		return 0, errors.New("amount and bps must be non-negative")
	}
	if bps != 0 && amount > math.MaxInt64/bps {
		return 0, ErrOverflow
	}
	return amount * bps / Denominator, nil
}

// SplitRoyalty divides a sale price into the organizer royalty and the seller
// proceeds. The royalty is floored; any remainder from the division goes to
// the seller, so royalty+proceeds always equals price exactly.
func SplitRoyalty(price, royaltyBps int64) (royalty, proceeds int64, err error) {
	royalty, err = Apply(price, royaltyBps)
	if err != nil {
		return 0, 0, err
	}
	return royalty, price - royalty, nil
}
