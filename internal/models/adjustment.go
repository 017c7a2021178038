package models

// AdjustmentCategory names the estimator family a delta came from.
type AdjustmentCategory string

const (
	AdjustmentWeather     AdjustmentCategory = "weather"
	AdjustmentInjury      AdjustmentCategory = "injury"
	AdjustmentSituational AdjustmentCategory = "situational"
	AdjustmentOther       AdjustmentCategory = "other"
)

// AdjustmentScope says whether a delta applies to one team or the game total.
type AdjustmentScope string

const (
	ScopeTeam AdjustmentScope = "team"
	ScopeGame AdjustmentScope = "game"
)

// Confidence tags how much data stands behind an adjustment.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Adjustment is a calibrated point delta. Delta has already been passed
// through the adjustment calibration registry.
type Adjustment struct {
	Name        string             `json:"name"`
	Category    AdjustmentCategory `json:"category"`
	Scope       AdjustmentScope    `json:"scope"`
	Team        string             `json:"team,omitempty"`
	Delta       float64            `json:"delta"`
	AwayShare   *float64           `json:"away_share,omitempty"`
	Explanation string             `json:"explanation"`
	Confidence  Confidence         `json:"confidence"`
}

// InjuryReport is one player's game-status designation.
type InjuryReport struct {
	Team     string `db:"team" json:"team"`
	Player   string `db:"player" json:"player"`
	Position string `db:"position" json:"position"`
	Status   string `db:"status" json:"status"`
}
