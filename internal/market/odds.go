package market

import (
	"errors"
	"fmt"
)

// ErrInvalidPrice is returned for an American price of zero or between -100 and +100.
var ErrInvalidPrice = errors.New("invalid american price")

// AmericanToDecimal converts American odds to decimal odds.
// -110 → 1.9091, +150 → 2.50
func AmericanToDecimal(american int) (float64, error) {
	if american > -100 && american < 100 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPrice, american)
	}
	if american > 0 {
		return float64(american)/100.0 + 1.0, nil
	}
	return 100.0/float64(-american) + 1.0, nil
}

// BreakEven returns the win probability at which a bet at american has zero
// expected value. -110 → 0.5238
func BreakEven(american int) (float64, error) {
	d, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	return 1.0 / d, nil
}
