package features

import (
	"fmt"

	"github.com/yourusername/gridiron-edge/internal/models"
)

const (
	stageAssemble    = "assemble"
	stageEnvironment = "environment"
)

// BuildRow joins both teams' ratings into one matchup row.
func BuildRow(key models.GameKey, src RatingSource) (*models.MatchupRow, error) {
	away, ok := src.Rating(key.Away, key.Season, key.Week)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrMissingTeamFeatures, key.Away)
	}
	home, ok := src.Rating(key.Home, key.Season, key.Week)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrMissingTeamFeatures, key.Home)
	}

	awayOffEPA := away.Value(models.MetricOffEPAPerPlay)
	awayDefEPA := away.Value(models.MetricDefEPAPerPlay)
	awayOffSR := away.Value(models.MetricOffSuccessRate)
	awayDefSR := away.Value(models.MetricDefSuccessRate)
	homeOffEPA := home.Value(models.MetricOffEPAPerPlay)
	homeDefEPA := home.Value(models.MetricDefEPAPerPlay)
	homeOffSR := home.Value(models.MetricOffSuccessRate)
	homeDefSR := home.Value(models.MetricDefSuccessRate)

	return &models.MatchupRow{
		Key: key,

		AwayOffVsHomeDefEPAMean:    (awayOffEPA + homeDefEPA) / 2,
		AwayOffVsHomeDefEPAProduct: awayOffEPA * homeDefEPA,
		AwayOffVsHomeDefSRMean:     (awayOffSR + homeDefSR) / 2,
		AwayOffVsHomeDefSRProduct:  awayOffSR * homeDefSR,
		HomeOffVsAwayDefEPAMean:    (homeOffEPA + awayDefEPA) / 2,
		HomeOffVsAwayDefEPAProduct: homeOffEPA * awayDefEPA,
		HomeOffVsAwayDefSRMean:     (homeOffSR + awayDefSR) / 2,
		HomeOffVsAwayDefSRProduct:  homeOffSR * awayDefSR,

		AwayPointsFor:     away.Value(models.MetricPointsFor),
		AwayPointsAgainst: away.Value(models.MetricPointsAgainst),
		HomePointsFor:     home.Value(models.MetricPointsFor),
		HomePointsAgainst: home.Value(models.MetricPointsAgainst),
	}, nil
}

// Assemble builds a row per game. Games whose ratings are missing are
// returned as skipped rather than dropped silently.
func Assemble(keys []models.GameKey, src RatingSource) ([]*models.MatchupRow, []*models.GameError) {
	rows := make([]*models.MatchupRow, 0, len(keys))
	var skipped []*models.GameError
	for _, key := range keys {
		row, err := BuildRow(key, src)
		if err != nil {
			skipped = append(skipped, &models.GameError{Game: key, Stage: stageAssemble, Err: err})
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped
}

// AssembleTraining builds rows for completed games and attaches final
// scores. Games without pre-game ratings for both teams are skipped.
func AssembleTraining(results []models.GameResult, src RatingSource) ([]*models.MatchupRow, []*models.GameError) {
	keys := make([]models.GameKey, len(results))
	scores := make(map[models.GameKey]models.GameResult, len(results))
	for i, res := range results {
		keys[i] = res.Key
		scores[res.Key] = res
	}
	rows, skipped := Assemble(keys, src)
	for _, row := range rows {
		res := scores[row.Key]
		row.AwayScore = models.Float64(res.AwayScore)
		row.HomeScore = models.Float64(res.HomeScore)
	}
	return rows, skipped
}

// MergeEnvironment attaches environment rows by exact game key. A row with no
// environment entry is skipped; nothing is synthesized.
func MergeEnvironment(rows []*models.MatchupRow, env map[models.GameKey]models.EnvironmentRow) ([]*models.MatchupRow, []*models.GameError) {
	merged := make([]*models.MatchupRow, 0, len(rows))
	var skipped []*models.GameError
	for _, row := range rows {
		e, ok := env[row.Key]
		if !ok {
			skipped = append(skipped, &models.GameError{
				Game:  row.Key,
				Stage: stageEnvironment,
				Err:   fmt.Errorf("%w: %s", models.ErrMissingEnvironment, row.Key),
			})
			continue
		}
		e.Key = row.Key
		withEnv := *row
		withEnv.Environment = &e
		merged = append(merged, &withEnv)
	}
	return merged, skipped
}
