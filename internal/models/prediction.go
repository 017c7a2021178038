package models

// ExpectedScorePrediction holds model output before and after calibration.
// RawHome already includes the home-field bonus.
type ExpectedScorePrediction struct {
	Key     GameKey `json:"key"`
	RawAway float64 `json:"raw_away"`
	RawHome float64 `json:"raw_home"`
	Away    float64 `json:"away"`
	Home    float64 `json:"home"`
}

// SimulationResult summarizes the simulated score distribution for one game
// against the market line it was priced on. Spreads are home-minus-away
// margins: ModelSpreadHome > 0 means the model has the home team winning.
type SimulationResult struct {
	Key             GameKey    `json:"key"`
	Market          MarketLine `json:"market"`
	ModelSpreadHome float64    `json:"model_spread_home"`
	ModelTotal      float64    `json:"model_total"`
	HomeCoverProb   float64    `json:"home_cover_prob"`
	HomeWinProb     float64    `json:"home_win_prob"`
	OverProb        float64    `json:"over_prob"`
	Draws           int        `json:"draws"`
}
