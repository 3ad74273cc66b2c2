package indicator

import (
	"math"
	"strconv"

	"github.com/whchien/ai-trader-go/internal/log"
	"github.com/whchien/ai-trader-go/internal/types"
)

// RegressionConfig configures the RegressionTrend indicator.
type RegressionConfig struct {
	// Period is the rolling OLS window.
	Period int `yaml:"rsrs_period" json:"rsrs_period" default:"18" validate:"gt=1"`
}

// RegressionValue is the per-bar output of the rolling regression.
type RegressionValue struct {
	// Slope is the OLS beta of high on low; larger values mean support is
	// strengthening faster than resistance.
	Slope float64
	// R2 is the goodness of fit, used downstream as a confidence weight.
	R2 float64
	// Degenerate reports a warm-up or singular-fit fallback of (0, 0).
	Degenerate bool
}

// RegressionTrend fits high = alpha + beta*low by ordinary least squares
// over the last Period bars. The fit is raw and unsmoothed, O(period) per bar.
type RegressionTrend struct {
	cfg  RegressionConfig
	sink log.Log

	highs *Window
	lows  *Window
}

// NewRegressionTrend builds the indicator, failing fast on configuration errors.
func NewRegressionTrend(cfg RegressionConfig, sink log.Log) (*RegressionTrend, error) {
	if err := configure(&cfg); err != nil {
		return nil, err
	}

	return &RegressionTrend{
		cfg:   cfg,
		sink:  sink,
		highs: NewWindow(cfg.Period),
		lows:  NewWindow(cfg.Period),
	}, nil
}

// Name returns the name of the indicator.
func (r *RegressionTrend) Name() types.IndicatorType {
	return types.IndicatorTypeRSRS
}

// Warm reports whether a full regression window exists.
func (r *RegressionTrend) Warm() bool {
	return r.highs.Full()
}

// Update consumes one bar and returns the regression fit over the trailing
// window. Fewer than Period samples, or a numerically singular fit, yields
// (0, 0) with a logged fallback rather than an error.
func (r *RegressionTrend) Update(bar types.Bar) RegressionValue {
	r.highs.Push(bar.High)
	r.lows.Push(bar.Low)

	if !r.highs.Full() {
		log.Emit(r.sink, types.LogLevelDebug, bar.Time, bar.Symbol,
			"regression warming up, slope defaulting to 0",
			map[string]string{"samples": strconv.Itoa(r.highs.Len()), "period": strconv.Itoa(r.cfg.Period)})

		return RegressionValue{Slope: 0, R2: 0, Degenerate: true}
	}

	n := float64(r.cfg.Period)
	meanLow := r.lows.Mean()
	meanHigh := r.highs.Mean()

	var covXY, varX, varY float64

	for i := 0; i < r.cfg.Period; i++ {
		dx := r.lows.At(i) - meanLow
		dy := r.highs.At(i) - meanHigh
		covXY += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	covXY /= n
	varX /= n
	varY /= n

	if varX == 0 || varY == 0 {
		log.Emit(r.sink, types.LogLevelWarn, bar.Time, bar.Symbol,
			"singular regression fit, slope defaulting to 0", nil)

		return RegressionValue{Slope: 0, R2: 0, Degenerate: true}
	}

	slope := covXY / varX
	corr := covXY / math.Sqrt(varX*varY)

	return RegressionValue{Slope: slope, R2: corr * corr, Degenerate: false}
}

// NormConfig configures the NormalizedRegression indicator.
type NormConfig struct {
	// LongPeriod is the trailing slope history the z-score is taken against.
	LongPeriod int `yaml:"rsrs_long_period" json:"rsrs_long_period" default:"600" validate:"gt=1"`
}

// NormValue is the per-bar output of the slope normalization.
type NormValue struct {
	// Norm is the z-score of the current slope against its trailing history.
	Norm float64
	// R2Weighted is Norm scaled by the fit confidence.
	R2Weighted float64
	// BetaRight is slope * Norm * R2, the right-skew adjusted score.
	BetaRight float64
	// Warm reports whether the long history window has filled.
	Warm bool
}

// NormalizedRegression standardizes the raw regression slope against its
// own trailing distribution so thresholds carry across assets and regimes.
type NormalizedRegression struct {
	cfg  NormConfig
	sink log.Log

	slopes *Window
}

// NewNormalizedRegression builds the indicator, failing fast on configuration errors.
func NewNormalizedRegression(cfg NormConfig, sink log.Log) (*NormalizedRegression, error) {
	if err := configure(&cfg); err != nil {
		return nil, err
	}

	return &NormalizedRegression{
		cfg:    cfg,
		sink:   sink,
		slopes: NewWindow(cfg.LongPeriod),
	}, nil
}

// Name returns the name of the indicator.
func (n *NormalizedRegression) Name() types.IndicatorType {
	return types.IndicatorTypeNormRSRS
}

// Warm reports whether the long slope history has filled.
func (n *NormalizedRegression) Warm() bool {
	return n.slopes.Full()
}

// Update consumes one regression fit and returns the normalized scores.
// Before the long window fills, or when the slope history has no spread,
// all scores are 0. Degenerate fits are not real slope observations and stay
// out of the history so they cannot skew the distribution.
func (n *NormalizedRegression) Update(bar types.Bar, fit RegressionValue) NormValue {
	if fit.Degenerate {
		return NormValue{Norm: 0, R2Weighted: 0, BetaRight: 0, Warm: n.slopes.Full()}
	}

	n.slopes.Push(fit.Slope)

	if !n.slopes.Full() {
		return NormValue{Norm: 0, R2Weighted: 0, BetaRight: 0, Warm: false}
	}

	mean := n.slopes.Mean()

	variance := 0.0
	for _, s := range n.slopes.Values() {
		d := s - mean
		variance += d * d
	}

	variance /= float64(n.slopes.Len())

	std := math.Sqrt(variance)
	if std == 0 {
		log.Emit(n.sink, types.LogLevelWarn, bar.Time, bar.Symbol,
			"zero slope dispersion, normalized regression defaulting to 0", nil)

		return NormValue{Norm: 0, R2Weighted: 0, BetaRight: 0, Warm: true}
	}

	norm := (fit.Slope - mean) / std
	r2Weighted := norm * fit.R2

	return NormValue{
		Norm:       norm,
		R2Weighted: r2Weighted,
		BetaRight:  fit.Slope * r2Weighted,
		Warm:       true,
	}
}
