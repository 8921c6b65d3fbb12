// Package units converts between human-readable decimal amounts and integer
// base units. Amounts never pass through floating point.
package units

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxDecimals is the largest supported number of fractional digits.
const MaxDecimals = 77

// ErrInvalidAmount is returned for malformed, negative or out-of-range amounts.
var ErrInvalidAmount = errors.New("invalid amount")

// ToDecimalString renders a base-unit amount with the given number of
// fractional digits. Trailing fractional zeros are dropped, and so is the
// separator when nothing remains after it.
//
//	ToDecimalString(1500000000, 9) = "1.5"
//	ToDecimalString(1, 9)          = "0.000000001"
//	ToDecimalString(2000, 3)       = "2"
func ToDecimalString(n *big.Int, decimals int) string {
	if n == nil {
		n = new(big.Int)
	}
	if decimals < 0 {
		decimals = 0
	}
	sign := ""
	digits := n.String()
	if n.Sign() < 0 {
		sign = "-"
		digits = digits[1:]
	}
	if len(digits) < decimals+1 {
		digits = strings.Repeat("0", decimals+1-len(digits)) + digits
	}
	intPart := digits[:len(digits)-decimals]
	fracPart := strings.TrimRight(digits[len(digits)-decimals:], "0")
	if fracPart == "" {
		return sign + intPart
	}
	return sign + intPart + "." + fracPart
}

// FormatUint64 is ToDecimalString for uint64 amounts.
func FormatUint64(n uint64, decimals int) string {
	return ToDecimalString(new(big.Int).SetUint64(n), decimals)
}

// ToBaseUnits parses a non-negative decimal string and scales it by
// 10^decimals, rounding half away from zero to the nearest integer.
func ToBaseUnits(s string, decimals int) (*big.Int, error) {
	if decimals < 0 || decimals > MaxDecimals {
		return nil, fmt.Errorf("%w: decimals %d out of range [0, %d]", ErrInvalidAmount, decimals, MaxDecimals)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty amount", ErrInvalidAmount)
	}
	if strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("%w: negative amount %q", ErrInvalidAmount, s)
	}
	if !isPlainDecimal(s) {
		return nil, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	return d.Shift(int32(decimals)).Round(0).BigInt(), nil
}

// ToBaseUnitsUint64 is ToBaseUnits restricted to amounts that fit a u64,
// the width of on-chain balances.
func ToBaseUnitsUint64(s string, decimals int) (uint64, error) {
	n, err := ToBaseUnits(s, decimals)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("%w: %s exceeds %d base units", ErrInvalidAmount, s, uint64(math.MaxUint64))
	}
	return n.Uint64(), nil
}

// isPlainDecimal accepts an optional leading '+', digits, and at most one
// '.', with at least one digit overall. Exponents and separators are refused
// so user input is never reinterpreted.
func isPlainDecimal(s string) bool {
	s = strings.TrimPrefix(s, "+")
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}
