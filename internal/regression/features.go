package regression

import "github.com/yourusername/gridiron-edge/internal/models"

// FeatureCount is the fixed width of every feature vector.
const FeatureCount = 16

// FeatureNames labels the columns produced by FeatureVector.
var FeatureNames = [FeatureCount]string{
	"away_off_vs_home_def_epa_mean",
	"away_off_vs_home_def_epa_product",
	"away_off_vs_home_def_sr_mean",
	"away_off_vs_home_def_sr_product",
	"home_off_vs_away_def_epa_mean",
	"home_off_vs_away_def_epa_product",
	"home_off_vs_away_def_sr_mean",
	"home_off_vs_away_def_sr_product",
	"away_points_blend",
	"home_points_blend",
	"away_points_x_epa",
	"home_points_x_epa",
	"dome",
	"wind_mph",
	"precip_inches",
	"injury_diff",
}

// Environment feature columns.
const (
	FeatureDome       = "dome"
	FeatureWind       = "wind_mph"
	FeaturePrecip     = "precip_inches"
	FeatureInjuryDiff = "injury_diff"
)

// FeatureOptions toggles optional columns. Disabled columns stay in the
// vector as zeros so the width never changes.
type FeatureOptions struct {
	Interactions bool
}

// FeatureVector is the single place where a matchup row becomes model input,
// used both when fitting and when predicting.
func FeatureVector(row *models.MatchupRow, opts FeatureOptions) []float64 {
	x := make([]float64, FeatureCount)
	x[0] = row.AwayOffVsHomeDefEPAMean
	x[1] = row.AwayOffVsHomeDefEPAProduct
	x[2] = row.AwayOffVsHomeDefSRMean
	x[3] = row.AwayOffVsHomeDefSRProduct
	x[4] = row.HomeOffVsAwayDefEPAMean
	x[5] = row.HomeOffVsAwayDefEPAProduct
	x[6] = row.HomeOffVsAwayDefSRMean
	x[7] = row.HomeOffVsAwayDefSRProduct

	awayBlend := (row.AwayPointsFor + row.HomePointsAgainst) / 2
	homeBlend := (row.HomePointsFor + row.AwayPointsAgainst) / 2
	x[8] = awayBlend
	x[9] = homeBlend

	if opts.Interactions {
		x[10] = awayBlend * row.AwayOffVsHomeDefEPAMean
		x[11] = homeBlend * row.HomeOffVsAwayDefEPAMean
	}

	if env := row.Environment; env != nil {
		if env.Dome {
			x[12] = 1
		} else {
			x[13] = env.WindMPH
			x[14] = env.PrecipInches
		}
		x[15] = env.HomeInjuryIndex - env.AwayInjuryIndex
	}
	return x
}
