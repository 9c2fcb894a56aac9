package amount

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// MaxFractionDigits caps the fractional precision accepted by Parse regardless
// of the asset's own decimals.
const MaxFractionDigits = 18

var (
	// ErrInvalidAmount is returned for any input Parse refuses.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNonPositive is returned when the parsed value is zero.
	ErrNonPositive = fmt.Errorf("%w: must be greater than 0", ErrInvalidAmount)
	// ErrTooPrecise is returned when the input carries more fractional digits
	// than the asset supports.
	ErrTooPrecise = fmt.Errorf("%w: too many decimal places", ErrInvalidAmount)
	// ErrOverflow is returned when the scaled value does not fit in 64 bits.
	ErrOverflow = fmt.Errorf("%w: exceeds supported range", ErrInvalidAmount)
)

// Parse converts a human decimal string such as "1.25" into base units for an
// asset with the given number of decimals.
func Parse(value string, decimals uint8) (uint64, error) {
	scaled, err := ParseUint256(value, decimals)
	if err != nil {
		return 0, err
	}
	if !scaled.IsUint64() {
		return 0, fmt.Errorf("%w: %q", ErrOverflow, value)
	}
	return scaled.Uint64(), nil
}

// ParseUint256 is Parse without the 64-bit limit, for wei-denominated values.
func ParseUint256(value string, decimals uint8) (*uint256.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	whole, frac, hasDot := strings.Cut(value, ".")
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	if hasDot && frac == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}
	if !isDigits(whole) || !isDigits(frac) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
	}

	limit := int(decimals)
	if limit > MaxFractionDigits {
		limit = MaxFractionDigits
	}
	if len(frac) > limit {
		return nil, fmt.Errorf("%w: %q allows at most %d", ErrTooPrecise, value, limit)
	}

	// Right-pad the fraction so the concatenation is already in base units.
	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return nil, ErrNonPositive
	}

	scaled, err := uint256.FromDecimal(digits)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrOverflow, value)
	}
	return scaled, nil
}

// Format renders base units as a canonical decimal string, truncated to the
// asset's precision with trailing zeros removed.
func Format(base uint64, decimals uint8) string {
	return FormatUint256(uint256.NewInt(base), decimals)
}

// FormatFixed renders base units with exactly decimals fractional digits.
func FormatFixed(base uint64, decimals uint8) string {
	whole, frac := split(uint256.NewInt(base), decimals)
	if decimals == 0 {
		return whole
	}
	return whole + "." + frac
}

// FormatUint256 is Format for values wider than 64 bits, e.g. wei balances.
func FormatUint256(base *uint256.Int, decimals uint8) string {
	whole, frac := split(base, decimals)
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// MulDiv returns floor(a*b/c) with 256-bit intermediates. c must be non-zero.
func MulDiv(a, b, c *uint256.Int) *uint256.Int {
	product := new(uint256.Int).Mul(a, b)
	return product.Div(product, c)
}

// Pow10 returns 10^n as a uint256.
func Pow10(n uint8) *uint256.Int {
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(n)))
}

func split(base *uint256.Int, decimals uint8) (string, string) {
	digits := base.Dec()
	if decimals == 0 {
		return digits, ""
	}
	if len(digits) <= int(decimals) {
		digits = strings.Repeat("0", int(decimals)-len(digits)+1) + digits
	}
	cut := len(digits) - int(decimals)
	return digits[:cut], digits[cut:]
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
