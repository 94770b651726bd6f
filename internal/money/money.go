// Package money handles amounts as int64 minor units (cents). All ledger
// arithmetic is integer arithmetic; decimal strings only appear at the
// API boundary, so nothing inside the engine can ever round.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has more than two decimal places")
)

// ParseMinor converts a decimal string like "1000.50" into minor units.
// More than two fractional digits is rejected rather than rounded.
func ParseMinor(input string) (int64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.Exponent() < -2 {
		return 0, ErrTooManyDecimals
	}
	minor := d.Shift(2)
	if !minor.IsInteger() {
		return 0, ErrTooManyDecimals
	}
	// IntPart would wrap silently past int64; anything unrepresentable
	// in minor units is rejected, never truncated.
	big := minor.BigInt()
	if !big.IsInt64() {
		return 0, ErrInvalidAmount
	}
	return big.Int64(), nil
}

// FormatMinor renders minor units as a two-decimal string, e.g. 150000 -> "1500.00".
func FormatMinor(value int64) string {
	return decimal.New(value, -2).StringFixed(2)
}
