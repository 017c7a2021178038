package regression

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/calibration"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// Config configures the expected-score regressor.
type Config struct {
	Family       Family
	Params       Params
	Features     FeatureOptions
	HomeFieldPts float64
	// ApplyCalibration scales final predictions by the score registry.
	ApplyCalibration bool
}

// Regressor holds one model per side.
type Regressor struct {
	cfg    Config
	cal    *calibration.Calibration
	logger *logrus.Logger

	away    Model
	home    Model
	family  Family
	varying [FeatureCount]bool
}

// NewRegressor creates an unfitted regressor. A nil calibration means no
// scaling.
func NewRegressor(cfg Config, cal *calibration.Calibration, logger *logrus.Logger) *Regressor {
	if cal == nil {
		cal = calibration.Default()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Regressor{cfg: cfg, cal: cal, logger: logger}
}

// Family returns the family actually used by the fitted models.
func (r *Regressor) Family() Family {
	return r.family
}

// Fit trains both models on rows that carry final scores. If the configured
// family is not usable for this data the ridge family is used instead and
// a warning is logged.
func (r *Regressor) Fit(rows []*models.MatchupRow) error {
	var x [][]float64
	var yAway, yHome []float64
	for _, row := range rows {
		if !row.HasOutcome() {
			continue
		}
		x = append(x, FeatureVector(row, r.cfg.Features))
		yAway = append(yAway, *row.AwayScore)
		yHome = append(yHome, *row.HomeScore)
	}
	if len(x) == 0 {
		return fmt.Errorf("%w: no completed games among %d rows", ErrInsufficientData, len(rows))
	}

	family := r.selectFamily(len(x))
	away, err := newModel(family, r.cfg.Params)
	if err != nil {
		return err
	}
	home, err := newModel(family, r.cfg.Params)
	if err != nil {
		return err
	}
	if err := away.Fit(x, yAway); err != nil {
		return fmt.Errorf("fit away model: %w", err)
	}
	if err := home.Fit(x, yHome); err != nil {
		return fmt.Errorf("fit home model: %w", err)
	}

	r.away, r.home, r.family = away, home, family
	r.varying = varyingColumns(x)
	r.logger.WithFields(logrus.Fields{
		"family":       family,
		"rows":         len(x),
		"interactions": r.cfg.Features.Interactions,
	}).Info("Expected-score models fitted")
	return nil
}

// Varies reports whether the named feature column took more than one value
// in the training rows. A column that never varied carries no signal into
// predictions, whatever its value at predict time.
func (r *Regressor) Varies(feature string) bool {
	for i, name := range FeatureNames {
		if name == feature {
			return r.varying[i]
		}
	}
	return false
}

func varyingColumns(x [][]float64) [FeatureCount]bool {
	var out [FeatureCount]bool
	if len(x) == 0 {
		return out
	}
	for j := range out {
		for _, row := range x[1:] {
			if row[j] != x[0][j] {
				out[j] = true
				break
			}
		}
	}
	return out
}

func (r *Regressor) selectFamily(samples int) Family {
	requested := r.cfg.Family
	if requested == "" {
		requested = FamilyRidge
	}
	candidate, err := newModel(requested, r.cfg.Params)
	if err != nil {
		r.logger.WithError(err).WithField("family", requested).Warn("Unknown model family, falling back to ridge")
		return FamilyRidge
	}
	if capable, ok := candidate.(Capability); ok {
		if err := capable.Available(samples); err != nil {
			r.logger.WithError(err).WithFields(logrus.Fields{
				"family":   requested,
				"fallback": FamilyRidge,
			}).Warn("Model family unavailable, falling back to ridge")
			return FamilyRidge
		}
	}
	return requested
}

// Predict returns expected points for both sides. The home-field bonus is
// added to the raw home output, then the score calibration is applied once
// to each side.
func (r *Regressor) Predict(row *models.MatchupRow) (models.ExpectedScorePrediction, error) {
	if r.away == nil || r.home == nil {
		return models.ExpectedScorePrediction{}, ErrNotFitted
	}
	x := FeatureVector(row, r.cfg.Features)
	rawAway, err := r.away.Predict(x)
	if err != nil {
		return models.ExpectedScorePrediction{}, fmt.Errorf("predict away: %w", err)
	}
	rawHome, err := r.home.Predict(x)
	if err != nil {
		return models.ExpectedScorePrediction{}, fmt.Errorf("predict home: %w", err)
	}
	rawHome += r.cfg.HomeFieldPts

	pred := models.ExpectedScorePrediction{
		Key:     row.Key,
		RawAway: rawAway,
		RawHome: rawHome,
		Away:    rawAway,
		Home:    rawHome,
	}
	if r.cfg.ApplyCalibration {
		pred.Away = r.cal.Score.Apply(rawAway)
		pred.Home = r.cal.Score.Apply(rawHome)
	}
	return pred, nil
}
