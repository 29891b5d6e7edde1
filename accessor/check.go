package accessor

import (
	"math"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// CheckIntegerSize reports whether the value fits into a signed integer of the bit width.
// The width 1 stands for boolean columns and allows 0 and 1 only.
func CheckIntegerSize(field string, value int64, bits int) error {
	if bits <= 0 || bits >= 64 {
		return nil
	}
	var lo, hi int64
	if bits == 1 {
		lo, hi = 0, 1
	} else {
		hi = 1<<(bits-1) - 1
		lo = -hi - 1
	}
	if value < lo || value > hi {
		return errors.Wrapf(ErrOutOfRange, "field %s: value %d exceeds %d bit integer [%d, %d]", field, value, bits, lo, hi)
	}
	return nil
}

// CheckUnsignedIntegerSize reports whether the unsigned value fits into a signed integer column of the bit width.
func CheckUnsignedIntegerSize(field string, value uint64, bits int) error {
	var hi uint64
	switch {
	case bits <= 0:
		return nil
	case bits == 1:
		hi = 1
	case bits >= 64:
		hi = math.MaxInt64
	default:
		hi = 1<<(bits-1) - 1
	}
	if value > hi {
		return errors.Wrapf(ErrOutOfRange, "field %s: value %d exceeds %d bit integer [0, %d]", field, value, bits, hi)
	}
	return nil
}

// CheckLength limits the number of characters. The zero length means unlimited.
func CheckLength(field string, value string, length int) error {
	if length <= 0 {
		return nil
	} else if l := utf8.RuneCountInString(value); l > length {
		return errors.Wrapf(ErrTooLong, "field %s: length %d exceeds %d", field, l, length)
	}
	return nil
}

// CheckDecimal verifies the value fits the column precision (total digits) and scale (fraction digits).
// The zero precision disables the check.
func CheckDecimal(field string, value decimal.Decimal, precision, scale int) error {
	if precision <= 0 {
		return nil
	}
	if fraction := fractionDigits(value); fraction > scale {
		return errors.Wrapf(ErrPrecision, "field %s: %s has %d fraction digits, scale %d", field, value, fraction, scale)
	}
	integer := value.Abs().Truncate(0)
	integerDigits := 0
	if !integer.IsZero() {
		integerDigits = len(integer.String())
	}
	if integerDigits > precision-scale {
		return errors.Wrapf(ErrPrecision, "field %s: %s exceeds precision %d, scale %d", field, value, precision, scale)
	}
	return nil
}

func fractionDigits(value decimal.Decimal) int {
	for digits := 0; ; digits++ {
		if value.Equal(value.Truncate(int32(digits))) {
			return digits
		}
	}
}

// CheckNotNil rejects nil for a not nullable field.
func CheckNotNil[T any](field string, value *T) error {
	if value == nil {
		return errors.Wrapf(ErrNull, "field %s is not nullable", field)
	}
	return nil
}
