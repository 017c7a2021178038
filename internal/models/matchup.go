package models

// EnvironmentRow carries optional game-day context keyed by GameKey.
type EnvironmentRow struct {
	Key             GameKey `json:"key"`
	WindMPH         float64 `json:"wind_mph"`
	PrecipInches    float64 `json:"precip_inches"`
	TemperatureF    float64 `json:"temperature_f"`
	Dome            bool    `json:"dome"`
	AwayInjuryIndex float64 `json:"away_injury_index"`
	HomeInjuryIndex float64 `json:"home_injury_index"`
}

// MatchupRow is one game's assembled features. Cross terms pair each
// offense with the opposing defense: Mean is the average of offense and
// defense-allowed, Product their interaction.
type MatchupRow struct {
	Key GameKey `json:"key"`

	AwayOffVsHomeDefEPAMean    float64 `json:"away_off_vs_home_def_epa_mean"`
	AwayOffVsHomeDefEPAProduct float64 `json:"away_off_vs_home_def_epa_product"`
	AwayOffVsHomeDefSRMean     float64 `json:"away_off_vs_home_def_sr_mean"`
	AwayOffVsHomeDefSRProduct  float64 `json:"away_off_vs_home_def_sr_product"`
	HomeOffVsAwayDefEPAMean    float64 `json:"home_off_vs_away_def_epa_mean"`
	HomeOffVsAwayDefEPAProduct float64 `json:"home_off_vs_away_def_epa_product"`
	HomeOffVsAwayDefSRMean     float64 `json:"home_off_vs_away_def_sr_mean"`
	HomeOffVsAwayDefSRProduct  float64 `json:"home_off_vs_away_def_sr_product"`

	AwayPointsFor     float64 `json:"away_points_for"`
	AwayPointsAgainst float64 `json:"away_points_against"`
	HomePointsFor     float64 `json:"home_points_for"`
	HomePointsAgainst float64 `json:"home_points_against"`

	Environment *EnvironmentRow `json:"environment,omitempty"`

	// Final scores, set only for completed games used in training.
	AwayScore *float64 `json:"away_score,omitempty"`
	HomeScore *float64 `json:"home_score,omitempty"`
}

// HasOutcome reports whether the row can be used as a training example.
func (m *MatchupRow) HasOutcome() bool {
	return m.AwayScore != nil && m.HomeScore != nil
}

// GameResult is a completed game's final score.
type GameResult struct {
	Key       GameKey `db:"-" json:"key"`
	AwayScore float64 `db:"away_score" json:"away_score"`
	HomeScore float64 `db:"home_score" json:"home_score"`
}
