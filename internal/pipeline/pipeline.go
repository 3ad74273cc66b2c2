package pipeline

import (
	"github.com/whchien/ai-trader-go/internal/indicator"
	"github.com/whchien/ai-trader-go/internal/log"
	"github.com/whchien/ai-trader-go/internal/types"
	"github.com/whchien/ai-trader-go/pkg/errors"
)

// SignalPipeline composes the per-asset indicator components into a single
// streaming update. One pipeline instance exclusively owns one asset's
// state; pipelines never share mutable state, so assets can be updated
// independently up to the rebalance boundary.
type SignalPipeline struct {
	cfg  Config
	sink log.Log

	volatility *indicator.VolatilityTracker
	oscillator *indicator.AdaptiveOscillator
	levels     *indicator.ThresholdAdapter
	trend      *indicator.TrendFilter
	regression *indicator.RegressionTrend
	norm       *indicator.NormalizedRegression
	roc        *indicator.RateOfChange
	tripleRSI  *indicator.TripleRSI

	combinator *SignalCombinator
}

// NewSignalPipeline builds a per-asset pipeline, failing fast on any
// configuration error. Per-bar updates never fail after this point.
func NewSignalPipeline(cfg Config, sink log.Log) (*SignalPipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	volatility, err := indicator.NewVolatilityTracker(cfg.Volatility, sink)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePipelineBuildFailed, "failed to build volatility tracker", err)
	}

	oscillator, err := indicator.NewAdaptiveOscillator(cfg.Oscillator, sink)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePipelineBuildFailed, "failed to build adaptive oscillator", err)
	}

	levels, err := indicator.NewThresholdAdapter(cfg.Levels)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePipelineBuildFailed, "failed to build threshold adapter", err)
	}

	trend, err := indicator.NewTrendFilter(cfg.Trend, sink)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePipelineBuildFailed, "failed to build trend filter", err)
	}

	regression, err := indicator.NewRegressionTrend(cfg.Regression, sink)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePipelineBuildFailed, "failed to build regression trend", err)
	}

	norm, err := indicator.NewNormalizedRegression(cfg.Norm, sink)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePipelineBuildFailed, "failed to build normalized regression", err)
	}

	roc, err := indicator.NewRateOfChange(cfg.ROC, sink)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePipelineBuildFailed, "failed to build rate of change", err)
	}

	tripleRSI, err := indicator.NewTripleRSI(cfg.TripleRSI, sink)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePipelineBuildFailed, "failed to build triple rsi gate", err)
	}

	return &SignalPipeline{
		cfg:        cfg,
		sink:       sink,
		volatility: volatility,
		oscillator: oscillator,
		levels:     levels,
		trend:      trend,
		regression: regression,
		norm:       norm,
		roc:        roc,
		tripleRSI:  tripleRSI,
		combinator: newSignalCombinator(cfg),
	}, nil
}

// Warm reports whether the bundle is actionable: the oscillator has full
// history and, when the trend gate is active, so does the trend filter.
func (p *SignalPipeline) Warm() bool {
	if !p.oscillator.Warm() {
		return false
	}

	if !p.cfg.DisableTrendFilter && !p.trend.Warm() {
		return false
	}

	return true
}

// Update consumes one bar, recomputes the full indicator bundle, and runs
// the combinator. The per-bar path never returns an error: warm-up and
// arithmetic degeneracy degrade to documented neutral values.
func (p *SignalPipeline) Update(bar types.Bar) (types.OutputBundle, types.Signal) {
	// The volatility ratio is computed once and shared by the oscillator
	// adaptation and the threshold levels.
	volReading := p.volatility.Update(bar)
	oscValue := p.oscillator.Update(bar, volReading.Value)
	obLevel, osLevel := p.levels.Levels(volReading.Value)
	trendBias := p.trend.Update(bar)
	fit := p.regression.Update(bar)
	normValue := p.norm.Update(bar, fit)
	rocReading := p.roc.Update(bar)
	gate := p.tripleRSI.Update(bar)

	bundle := types.OutputBundle{
		Symbol:          bar.Symbol,
		Time:            bar.Time,
		RSI:             oscValue.RSI,
		AdaptivePeriod:  oscValue.AdaptivePeriod,
		OBLevel:         obLevel,
		OSLevel:         osLevel,
		TrendBias:       trendBias,
		VolatilityRatio: volReading.Value,
		CycleFactor:     oscValue.CycleFactor,
		MarketFactor:    oscValue.MarketFactor,
		RSRSSlope:       fit.Slope,
		RSRSR2:          fit.R2,
		RSRSNorm:        normValue.Norm,
		RSRSBetaRight:   normValue.BetaRight,
		RSRSNormWarm:    normValue.Warm,
		ROC:             rocReading.Value,
		TripleRSISignal: gate.Signal,
		TripleRSIValue:  gate.Value,
		Warm:            p.Warm(),
		Degenerate:      volReading.Degenerate || oscValue.Degenerate || fit.Degenerate || rocReading.Degenerate,
	}

	return bundle, p.combinator.Decide(bundle)
}
