package models

import "fmt"

// GameKey identifies one scheduled game.
type GameKey struct {
	Season int    `db:"season" json:"season"`
	Week   int    `db:"week" json:"week"`
	Away   string `db:"away" json:"away"`
	Home   string `db:"home" json:"home"`
}

func (k GameKey) String() string {
	return fmt.Sprintf("%d-W%02d %s@%s", k.Season, k.Week, k.Away, k.Home)
}

// Matchup is the (away, home) pair without the calendar.
func (k GameKey) Matchup() string {
	return k.Away + "@" + k.Home
}

// MarketLine is a home-referenced spread and a total. SpreadHome is negative
// when the home team is favored.
type MarketLine struct {
	SpreadHome float64 `db:"spread_home" json:"spread_home"`
	Total      float64 `db:"total" json:"total"`
}

// ImpliedScore is the per-team score implied by a MarketLine.
type ImpliedScore struct {
	Away float64 `json:"away_points"`
	Home float64 `json:"home_points"`
}

// ScheduledGame is a game to be priced, with its kickoff time.
type ScheduledGame struct {
	Key     GameKey `json:"key"`
	Kickoff int64   `json:"kickoff_unix"`
}
