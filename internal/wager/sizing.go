// Package wager turns simulated probabilities or point edges into sized
// recommendations.
package wager

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yourusername/gridiron-edge/internal/market"
)

// ErrInvalidProbability is returned for probabilities outside [0, 1].
var ErrInvalidProbability = errors.New("probability outside [0, 1]")

// DecimalOdds converts an American price to decimal odds.
func DecimalOdds(american int) (float64, error) {
	return market.AmericanToDecimal(american)
}

// ExpectedValue is the expected profit per unit staked:
// p·(d−1) − (1−p).
func ExpectedValue(p float64, american int) (float64, error) {
	if err := checkProbability(p); err != nil {
		return 0, err
	}
	d, err := DecimalOdds(american)
	if err != nil {
		return 0, err
	}
	return p*(d-1) - (1 - p), nil
}

// Kelly returns the Kelly fraction clamped to [0, cap].
func Kelly(p float64, american int, cap float64) (float64, error) {
	if err := checkProbability(p); err != nil {
		return 0, err
	}
	d, err := DecimalOdds(american)
	if err != nil {
		return 0, err
	}
	b := d - 1
	f := (p*b - (1 - p)) / b
	if f < 0 {
		return 0, nil
	}
	if cap >= 0 && f > cap {
		return cap, nil
	}
	return f, nil
}

// Stake converts a Kelly fraction into a currency amount rounded to cents.
func Stake(kelly float64, bankroll decimal.Decimal) decimal.Decimal {
	if kelly <= 0 || !bankroll.IsPositive() {
		return decimal.Zero
	}
	return bankroll.Mul(decimal.NewFromFloat(kelly)).Round(2)
}

func checkProbability(p float64) error {
	if p != p || p < 0 || p > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidProbability, p)
	}
	return nil
}
