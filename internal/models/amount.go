package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxAmount bounds the magnitude of a single transaction amount.
var MaxAmount = decimal.New(1, 12)

const (
	maxAmountLen      = 32
	maxAmountExponent = 12
	minAmountExponent = -maxAmountLen
)

var (
	ErrAmountFormat = errors.New("amount is not a number")
	ErrAmountRange  = errors.New("amount is out of range")
)

// ParseAmount parses a decimal amount and checks it with CheckAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	if len(s) > maxAmountLen {
		return decimal.Zero, fmt.Errorf("%w: %d characters", ErrAmountRange, len(s))
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrAmountFormat, s)
	}
	if err := CheckAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// CheckAmount bounds the magnitude of d by MaxAmount. Exponent notation is
// accepted only within the same bounds, so an accepted value always has a
// short fixed-point form.
func CheckAmount(d decimal.Decimal) error {
	if d.IsZero() {
		return nil
	}
	// Checked before any arithmetic: rescaling a huge exponent is unbounded work.
	if exp := d.Exponent(); exp > maxAmountExponent || exp < minAmountExponent {
		return fmt.Errorf("%w: exponent %d", ErrAmountRange, exp)
	}
	if d.Abs().GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: %s exceeds %s", ErrAmountRange, d, MaxAmount)
	}
	return nil
}

// HasCents reports whether d has at most two decimal places.
func HasCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}
