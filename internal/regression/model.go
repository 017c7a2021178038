// Package regression fits and applies the expected-score models.
package regression

import (
	"errors"
	"fmt"
)

// Family names a model family.
type Family string

const (
	FamilyRidge         Family = "ridge"
	FamilyGradientBoost Family = "gbt"
)

var (
	// ErrInsufficientData is returned when there are too few rows to fit.
	ErrInsufficientData = errors.New("insufficient training data")
	// ErrNotFitted is returned when predicting before Fit.
	ErrNotFitted = errors.New("model not fitted")
	// ErrUnknownFamily is returned for an unrecognized family name.
	ErrUnknownFamily = errors.New("unknown model family")
	// ErrDimension is returned when a feature vector has the wrong width.
	ErrDimension = errors.New("feature dimension mismatch")
)

// Trainable models learn from a design matrix and targets.
type Trainable interface {
	Fit(x [][]float64, y []float64) error
}

// Predictable models score a single feature vector.
type Predictable interface {
	Predict(x []float64) (float64, error)
}

// Model is a trainable predictor.
type Model interface {
	Trainable
	Predictable
	Family() Family
}

// Capability is implemented by families that can only be used under some
// conditions, such as a minimum number of rows.
type Capability interface {
	Available(samples int) error
}

// Params configures model construction.
type Params struct {
	RidgeLambda  float64
	Trees        int
	LearningRate float64
	MaxDepth     int
	MinLeaf      int
}

// DefaultParams returns conservative defaults for both families.
func DefaultParams() Params {
	return Params{
		RidgeLambda:  1.0,
		Trees:        150,
		LearningRate: 0.05,
		MaxDepth:     3,
		MinLeaf:      10,
	}
}

func newModel(family Family, p Params) (Model, error) {
	switch family {
	case FamilyRidge, "":
		return NewRidge(p.RidgeLambda), nil
	case FamilyGradientBoost:
		return NewGradientBoosted(p.Trees, p.LearningRate, p.MaxDepth, p.MinLeaf), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}
}

func checkMatrix(x [][]float64, y []float64) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("%w: %d rows, %d targets", ErrInsufficientData, len(x), len(y))
	}
	width := len(x[0])
	for i, row := range x {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimension, i, len(row), width)
		}
	}
	return nil
}
