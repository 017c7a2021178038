// Package calibration holds the scalar multipliers applied to model output
// and to adjustment deltas.
package calibration

import "sync"

// Multiplier bounds.
const (
	MinMultiplier     = 0.1
	MaxMultiplier     = 1000.0
	DefaultMultiplier = 1.0
)

// Registry stores a single clamped multiplier.
type Registry struct {
	mu    sync.RWMutex
	value float64
}

// NewRegistry returns a registry holding x, clamped.
func NewRegistry(x float64) *Registry {
	r := &Registry{value: DefaultMultiplier}
	r.Set(x)
	return r
}

// Set clamps x to [MinMultiplier, MaxMultiplier], stores it and returns the
// stored value.
func (r *Registry) Set(x float64) float64 {
	v := clamp(x)
	r.mu.Lock()
	r.value = v
	r.mu.Unlock()
	return v
}

// Get returns the current multiplier.
func (r *Registry) Get() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Apply scales delta by the current multiplier.
func (r *Registry) Apply(delta float64) float64 {
	return delta * r.Get()
}

func clamp(x float64) float64 {
	// NaN compares false everywhere; treat it as "unset".
	if x != x {
		return DefaultMultiplier
	}
	if x < MinMultiplier {
		return MinMultiplier
	}
	if x > MaxMultiplier {
		return MaxMultiplier
	}
	return x
}

// Calibration keeps model-output scaling and adjustment-delta scaling apart
// so neither is applied twice to the same number.
type Calibration struct {
	Score      *Registry
	Adjustment *Registry
}

// New builds a Calibration with separate registries.
func New(scoreFactor, adjustmentMultiplier float64) *Calibration {
	return &Calibration{
		Score:      NewRegistry(scoreFactor),
		Adjustment: NewRegistry(adjustmentMultiplier),
	}
}

// Default returns a Calibration with both multipliers at 1.0.
func Default() *Calibration {
	return New(DefaultMultiplier, DefaultMultiplier)
}
