// Package probability converts American prices and estimates model win
// probabilities to find positive expected value bets.
package probability

import (
	"fmt"

	"github.com/yourusername/clever-picks/internal/models"
)

// validate rejects prices that are not real American odds.
func validate(odds int) error {
	if odds > -100 && odds < 100 {
		return fmt.Errorf("%w: %d", models.ErrInvalidOdds, odds)
	}
	return nil
}

// ImpliedProbability returns the break-even probability of an American price.
// -110 gives 110/210, +150 gives 100/250.
func ImpliedProbability(odds int) (float64, error) {
	if err := validate(odds); err != nil {
		return 0, err
	}
	if odds > 0 {
		return 100 / float64(odds+100), nil
	}
	abs := float64(-odds)
	return abs / (abs + 100), nil
}

// DecimalOdds converts an American price to decimal odds, stake included.
func DecimalOdds(odds int) (float64, error) {
	if err := validate(odds); err != nil {
		return 0, err
	}
	if odds > 0 {
		return float64(odds)/100 + 1, nil
	}
	return 100/float64(-odds) + 1, nil
}

// ExpectedValue is the expected return per unit staked: p × decimal − 1.
func ExpectedValue(p float64, odds int) (float64, error) {
	dec, err := DecimalOdds(odds)
	if err != nil {
		return 0, err
	}
	return p*dec - 1, nil
}
