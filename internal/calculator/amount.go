package calculator

import (
	"fmt"
	"math"
)

// maxExactFloat bounds the range in which every integer is exactly representable
// as a float64. 2^53 itself is excluded: 2^53+1 rounds to it.
const maxExactFloat = 1 << 53

// AmountFromFloat converts a wire amount into smallest-unit integer form.
// NaN, infinities, fractional values and magnitudes of 2^53 or more fail with
// ErrDegenerateAmount. Negative integers are returned as-is; Validate rejects them.
func AmountFromFloat(f float64) (int64, error) {
	switch {
	case math.IsNaN(f):
		return 0, fmt.Errorf("%w: NaN", ErrDegenerateAmount)
	case math.IsInf(f, 0):
		return 0, fmt.Errorf("%w: %v", ErrDegenerateAmount, f)
	case math.Abs(f) >= maxExactFloat:
		return 0, fmt.Errorf("%w: %v is out of range", ErrDegenerateAmount, f)
	case f != math.Trunc(f):
		return 0, fmt.Errorf("%w: %v is not a whole amount", ErrDegenerateAmount, f)
	}
	return int64(f), nil
}
