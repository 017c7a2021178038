package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Strict-path contract violations.
var (
	ErrMissingMetric       = errors.New("required metric missing")
	ErrMissingTeamFeatures = errors.New("missing team features")
	ErrMissingEnvironment  = errors.New("missing environment row")
	ErrMissingMarketLine   = errors.New("missing market line")
	ErrNotFound            = errors.New("record not found")
)

// GameError ties a strict-path failure to the game and pipeline stage it
// aborted.
type GameError struct {
	Game  GameKey
	Stage string
	Err   error
}

func (e *GameError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Game, e.Stage, e.Err)
}

func (e *GameError) Unwrap() error {
	return e.Err
}

// MarshalJSON renders the wrapped error as its message.
func (e *GameError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Game  GameKey `json:"game"`
		Stage string  `json:"stage"`
		Error string  `json:"error"`
	}{e.Game, e.Stage, e.Err.Error()})
}
