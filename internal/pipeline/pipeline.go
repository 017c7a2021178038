// Package pipeline runs one batch cycle from team statistics to sized
// wager recommendations.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/adjustments"
	"github.com/yourusername/gridiron-edge/internal/calibration"
	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/features"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/market"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/regression"
	"github.com/yourusername/gridiron-edge/internal/simulation"
	"github.com/yourusername/gridiron-edge/internal/wager"
)

// Pipeline stages used in skip reports.
const (
	StagePredict = "predict"
	StageDecide  = "decide"
)

var (
	// ErrInvalidWeek is returned for a non-positive season or week.
	ErrInvalidWeek = errors.New("invalid season or week")
	// ErrNoSource is returned when the pipeline has no data source.
	ErrNoSource = errors.New("data source is required")
)

// Recorder persists the decisions of a run.
type Recorder interface {
	InsertBatch(ctx context.Context, runID uuid.UUID, decisions []models.GameDecision) (int, error)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRecorder stores every run's recommendations through r.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// Pipeline wires the stages together. It holds no state between runs.
type Pipeline struct {
	cfg      Config
	source   datasource.Source
	cal      *calibration.Calibration
	decider  wager.Decider
	recorder Recorder
	logger   *logrus.Logger
	plog     *logger.PipelineLogger
	audit    *logger.AuditLogger
	now      func() time.Time
}

// New validates cfg and builds a pipeline. A nil calibration uses 1.0 for
// both registries.
func New(cfg Config, source datasource.Source, cal *calibration.Calibration, log *logrus.Logger, opts ...Option) (*Pipeline, error) {
	if source == nil {
		return nil, ErrNoSource
	}
	if cfg.Season <= 0 || cfg.Week <= 0 {
		return nil, fmt.Errorf("%w: season=%d week=%d", ErrInvalidWeek, cfg.Season, cfg.Week)
	}
	if err := cfg.Simulation.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if cal == nil {
		cal = calibration.Default()
	}
	decider, err := wager.NewDecider(cfg.WagerMode, cfg.Wager, log)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:     cfg,
		source:  source,
		cal:     cal,
		decider: decider,
		logger:  log,
		plog:    logger.NewPipelineLogger(log),
		audit:   logger.NewAuditLogger(log),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// inputs is everything read from the source for one run.
type inputs struct {
	records  []*models.TeamWeekRecord
	results  []models.GameResult
	schedule []models.ScheduledGame
	lines    map[models.GameKey]models.MarketLine
	env      map[models.GameKey]models.EnvironmentRow
	history  map[models.GameKey]models.EnvironmentRow
	injuries []models.InjuryReport
	contexts map[string]adjustments.TeamContext
}

// Run executes one cycle. Source and model failures abort the run; a
// game that fails a strict check is reported in Skipped and the rest
// continue.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	started := p.now()
	report := &Report{
		RunID:     uuid.New(),
		Season:    p.cfg.Season,
		Week:      p.cfg.Week,
		WagerMode: p.decider.Mode(),
		StartedAt: started,
	}
	plog := p.plog.WithRun(report.RunID.String())
	plog.LogRunStarted(p.cfg.Season, p.cfg.Week, string(p.cfg.Regression.Family), p.decider.Mode())

	err := p.run(ctx, plog, report)
	report.FinishedAt = p.now()
	duration := report.FinishedAt.Sub(started)

	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.RecordPipelineRun(status, duration.Seconds(), report.FinishedAt.Unix())
	if err != nil {
		plog.WithError(err).Error("Pipeline run failed")
		return report, err
	}

	plog.LogRunFinished(len(report.Games), len(report.Skipped), len(report.Bets()), duration)
	return report, nil
}

func (p *Pipeline) run(ctx context.Context, plog *logger.PipelineLogger, report *Report) error {
	in, err := p.load(ctx, plog)
	if err != nil {
		return err
	}

	reg, err := p.train(plog, in)
	if err != nil {
		return err
	}
	report.ModelFamily = reg.Family()

	rows, err := p.assemble(plog, in, report)
	if err != nil {
		return err
	}

	preds := p.predict(plog, reg, rows, report)
	sims := p.simulate(plog, preds, in.lines, report)
	p.decide(plog, in, learnedFrom(reg), preds, sims, report)

	metrics.UpdateBankroll(p.cfg.Wager.Bankroll.InexactFloat64())
	metrics.UpdateExposure(report.Exposure().InexactFloat64())

	if p.recorder != nil {
		n, err := p.recorder.InsertBatch(ctx, report.RunID, report.Decisions())
		if err != nil {
			return fmt.Errorf("failed to record recommendations: %w", err)
		}
		plog.WithField("rows", n).Debug("Recommendations stored")
	}
	return nil
}

// load reads every input. Team weeks, results, schedule and lines are
// required. Environment is required only when merged into the features;
// otherwise it and the other optional inputs degrade to empty.
func (p *Pipeline) load(ctx context.Context, plog *logger.PipelineLogger) (*inputs, error) {
	start := time.Now()
	season, week := p.cfg.Season, p.cfg.Week
	in := &inputs{}
	var err error

	if in.records, err = p.source.TeamWeeks(ctx, season); err != nil {
		return nil, fmt.Errorf("failed to load team weeks: %w", err)
	}
	if in.results, err = p.source.Results(ctx, season); err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	if in.schedule, err = p.source.Schedule(ctx, season, week); err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	if in.lines, err = p.source.MarketLines(ctx, season, week); err != nil {
		return nil, fmt.Errorf("failed to load market lines: %w", err)
	}

	if in.env, err = p.source.Environment(ctx, season, week); err != nil {
		if p.cfg.UseEnvironment {
			return nil, fmt.Errorf("failed to load environment: %w", err)
		}
		plog.WithError(err).Warn("Environment unavailable, weather adjustments disabled")
		in.env = nil
	}
	if p.cfg.UseEnvironment {
		if in.history, err = p.environmentHistory(ctx, in.results); err != nil {
			return nil, err
		}
	}
	if in.injuries, err = p.source.Injuries(ctx, season, week); err != nil {
		plog.WithError(err).Warn("Injury reports unavailable, injury adjustments disabled")
		in.injuries = nil
	}
	if in.contexts, err = p.source.TeamContexts(ctx, season, week); err != nil {
		plog.WithError(err).Warn("Team context unavailable, situational adjustments disabled")
		in.contexts = nil
	}

	plog.LogStage("load", len(in.records), time.Since(start))
	return in, nil
}

// environmentHistory reads the environment of every completed week before
// the target, so training rows carry the same columns as the week's games.
func (p *Pipeline) environmentHistory(ctx context.Context, results []models.GameResult) (map[models.GameKey]models.EnvironmentRow, error) {
	type weekKey struct{ season, week int }
	seen := make(map[weekKey]bool)
	history := make(map[models.GameKey]models.EnvironmentRow)
	for _, res := range results {
		wk := weekKey{res.Key.Season, res.Key.Week}
		if seen[wk] || !p.before(wk.season, wk.week) {
			continue
		}
		seen[wk] = true
		rows, err := p.source.Environment(ctx, wk.season, wk.week)
		if err != nil {
			return nil, fmt.Errorf("failed to load environment for %d week %d: %w", wk.season, wk.week, err)
		}
		for key, row := range rows {
			history[key] = row
		}
	}
	return history, nil
}

// train fits the regressor on completed games before the target week,
// each featurized from ratings that use only earlier weeks.
func (p *Pipeline) train(plog *logger.PipelineLogger, in *inputs) (*regression.Regressor, error) {
	start := time.Now()
	blender, err := features.NewBlender(p.cfg.RecentWeight)
	if err != nil {
		return nil, err
	}
	history, err := blender.BlendHistory(in.records)
	if err != nil {
		return nil, fmt.Errorf("failed to blend history: %w", err)
	}

	var prior []models.GameResult
	for _, res := range in.results {
		if p.before(res.Key.Season, res.Key.Week) {
			prior = append(prior, res)
		}
	}
	rows, dropped := features.AssembleTraining(prior, history)
	if len(dropped) > 0 {
		plog.WithField("games", len(dropped)).Debug("Training games without prior ratings dropped")
	}
	if p.cfg.UseEnvironment {
		rows, dropped = features.MergeEnvironment(rows, in.history)
		if len(dropped) > 0 {
			plog.WithField("games", len(dropped)).Warn("Training games without environment dropped")
		}
	}

	reg := regression.NewRegressor(p.cfg.Regression, p.cal, p.logger)
	if err := reg.Fit(rows); err != nil {
		return nil, fmt.Errorf("failed to fit model: %w", err)
	}

	requested := p.cfg.Regression.Family
	if requested == "" {
		requested = regression.FamilyRidge
	}
	if used := reg.Family(); used != requested {
		metrics.RecordModelFallback(string(requested), string(used))
		plog.LogModelFallback(string(requested), string(used), fmt.Sprintf("%d training rows", len(rows)))
	}

	plog.LogStage("train", len(rows), time.Since(start))
	return reg, nil
}

// assemble rates every team from weeks before the target and builds the
// week's matchup rows.
func (p *Pipeline) assemble(plog *logger.PipelineLogger, in *inputs, report *Report) ([]*models.MatchupRow, error) {
	start := time.Now()
	blender, err := features.NewBlender(p.cfg.RecentWeight)
	if err != nil {
		return nil, err
	}

	var prior []*models.TeamWeekRecord
	for _, r := range in.records {
		if p.before(r.Season, r.Week) {
			prior = append(prior, r)
		}
	}
	ratings, err := blender.Blend(prior)
	if err != nil {
		return nil, fmt.Errorf("failed to blend ratings: %w", err)
	}

	keys := make([]models.GameKey, len(in.schedule))
	for i, g := range in.schedule {
		keys[i] = g.Key
	}
	rows, skipped := features.Assemble(keys, ratings)
	p.skip(plog, report, skipped)

	if p.cfg.UseEnvironment {
		rows, skipped = features.MergeEnvironment(rows, in.env)
		p.skip(plog, report, skipped)
	}

	plog.LogStage("assemble", len(rows), time.Since(start))
	return rows, nil
}

func (p *Pipeline) predict(plog *logger.PipelineLogger, reg *regression.Regressor, rows []*models.MatchupRow, report *Report) []models.ExpectedScorePrediction {
	preds := make([]models.ExpectedScorePrediction, 0, len(rows))
	for _, row := range rows {
		pred, err := reg.Predict(row)
		if err != nil {
			p.skip(plog, report, []*models.GameError{{Game: row.Key, Stage: StagePredict, Err: err}})
			continue
		}
		preds = append(preds, pred)
	}
	return preds
}

func (p *Pipeline) simulate(plog *logger.PipelineLogger, preds []models.ExpectedScorePrediction, lines map[models.GameKey]models.MarketLine, report *Report) []models.SimulationResult {
	start := time.Now()
	games := make([]simulation.Game, len(preds))
	for i, pred := range preds {
		g := simulation.Game{Key: pred.Key, MuAway: pred.Away, MuHome: pred.Home}
		if line, ok := lines[pred.Key]; ok {
			g.Market = &line
		}
		games[i] = g
	}

	// Config was validated in New.
	sim, _ := simulation.NewSimulator(p.cfg.Simulation)
	results, skipped := sim.Simulate(games)
	p.skip(plog, report, skipped)

	elapsed := time.Since(start)
	metrics.RecordSimulation(len(results), elapsed.Seconds())
	plog.LogStage("simulate", len(results), elapsed)
	return results
}

func (p *Pipeline) decide(plog *logger.PipelineLogger, in *inputs, learned learnedSignals, preds []models.ExpectedScorePrediction, sims []models.SimulationResult, report *Report) {
	byKey := make(map[models.GameKey]models.ExpectedScorePrediction, len(preds))
	for _, pred := range preds {
		byKey[pred.Key] = pred
	}
	kickoffs := make(map[models.GameKey]int64, len(in.schedule))
	for _, g := range in.schedule {
		kickoffs[g.Key] = g.Kickoff
	}

	for i := range sims {
		sim := sims[i]
		key := sim.Key
		estimates := p.estimate(key, kickoffs[key], in, learned)
		deltas := adjustments.Combine(key.Away, key.Home, estimates...)
		adjScore, adjLine := market.Adjust(sim.Market, deltas)

		decision, err := p.decider.Decide(wager.GameInput{
			Key:        key,
			Market:     sim.Market,
			Simulation: &sim,
			Adjusted:   &adjLine,
		})
		if err != nil {
			p.skip(plog, report, []*models.GameError{{Game: key, Stage: StageDecide, Err: err}})
			continue
		}

		var adjs []models.Adjustment
		for _, est := range estimates {
			adjs = append(adjs, est.Adjustments...)
		}
		report.Games = append(report.Games, GameReport{
			Key:           key,
			Kickoff:       kickoffs[key],
			Market:        sim.Market,
			Prediction:    byKey[key],
			Simulation:    sim,
			Adjustments:   adjs,
			Deltas:        deltas,
			AdjustedScore: adjScore,
			Adjusted:      adjLine,
			Decision:      decision,
		})
		p.recordDecision(plog, report.RunID, decision)
	}
}

// learnedSignals records which environment signals the fitted model took
// from its training rows.
type learnedSignals struct {
	weather bool
	injury  bool
}

func learnedFrom(reg *regression.Regressor) learnedSignals {
	return learnedSignals{
		weather: reg.Varies(regression.FeatureWind) || reg.Varies(regression.FeaturePrecip),
		injury:  reg.Varies(regression.FeatureInjuryDiff),
	}
}

// estimate runs the adjustment estimators for one game. A signal the model
// already learned is not applied again as an adjustment. The injury index
// is used only when there are no player reports.
func (p *Pipeline) estimate(key models.GameKey, kickoff int64, in *inputs, learned learnedSignals) []adjustments.Estimate {
	cal := p.cal.Adjustment

	var env *models.EnvironmentRow
	if row, ok := in.env[key]; ok {
		env = &row
	}
	weather := adjustments.Estimate{Category: models.AdjustmentWeather}
	if !learned.weather {
		weather = adjustments.Weather(adjustments.WeatherFromEnvironment(env), p.cfg.Weather, cal)
	}

	var injury adjustments.Estimate
	switch {
	case len(in.injuries) > 0:
		injury = adjustments.Injury(key.Away, key.Home, in.injuries, p.cfg.Injury, cal)
	case env != nil && !learned.injury:
		injury = adjustments.InjuryFromIndex(key.Away, key.Home, env.AwayInjuryIndex, env.HomeInjuryIndex, p.cfg.Injury, cal)
	default:
		injury = adjustments.Estimate{Category: models.AdjustmentInjury}
	}

	away, ok := in.contexts[key.Away]
	if !ok {
		away = adjustments.TeamContext{Team: key.Away}
	}
	home, ok := in.contexts[key.Home]
	if !ok {
		home = adjustments.TeamContext{Team: key.Home}
	}
	situational := adjustments.Situational(away, home, time.Unix(kickoff, 0).UTC(), p.cfg.Situational, cal)

	return []adjustments.Estimate{weather, injury, situational}
}

func (p *Pipeline) recordDecision(plog *logger.PipelineLogger, runID uuid.UUID, d models.GameDecision) {
	for _, rec := range []models.Recommendation{d.Spread, d.Total} {
		switch r := rec.(type) {
		case models.Bet:
			metrics.RecordRecommendation(string(r.Kind), "bet", r.EV)
		case models.Skip:
			metrics.RecordRecommendation(string(r.Kind), "skip", r.EV)
		}
	}
	if d.Best == nil {
		return
	}
	b := d.Best
	stake := b.Stake.InexactFloat64()
	plog.LogDecision(d.Key.String(), string(b.Kind), string(b.Side), b.Line, b.EV, stake)
	p.audit.LogRecommendation(b.ID.String(), runID.String(), d.Key.String(), string(b.Kind), string(b.Side),
		b.Line, b.Price, b.Probability, b.EV, b.KellyFraction, b.Stake.StringFixed(2), p.now())
}

func (p *Pipeline) skip(plog *logger.PipelineLogger, report *Report, errs []*models.GameError) {
	for _, ge := range errs {
		metrics.RecordSkippedGame(ge.Stage)
		plog.LogGameSkipped(ge.Game.String(), ge.Stage, ge.Err)
		report.Skipped = append(report.Skipped, ge)
	}
}

// before reports whether (season, week) precedes the run's target week.
func (p *Pipeline) before(season, week int) bool {
	if season != p.cfg.Season {
		return season < p.cfg.Season
	}
	return week < p.cfg.Week
}
