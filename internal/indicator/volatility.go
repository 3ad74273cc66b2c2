package indicator

import (
	"math"
	"strconv"

	"github.com/moznion/go-optional"

	"github.com/whchien/ai-trader-go/internal/log"
	"github.com/whchien/ai-trader-go/internal/types"
)

// VolatilityConfig configures the VolatilityTracker. Constructed once,
// immutable thereafter.
type VolatilityConfig struct {
	// ATRLength is the true-range averaging period.
	ATRLength int `yaml:"atr_length" json:"atr_length" default:"14" validate:"gt=0"`
	// ATRMAPeriod is the long window the ATR is averaged over to form the
	// volatility ratio denominator.
	ATRMAPeriod int `yaml:"atr_ma_period" json:"atr_ma_period" default:"50" validate:"gt=0"`
}

// VolatilityTracker maintains a running ATR and its long-window average,
// exposing volatility_ratio = ATR / SMA(ATR, long_period). The ratio
// defaults to 1.0 when the denominator is zero or history is thin.
type VolatilityTracker struct {
	cfg  VolatilityConfig
	sink log.Log

	prevClose optional.Option[float64]
	atr       float64
	trSum     float64
	bars      int
	atrWindow *Window
}

// NewVolatilityTracker builds a tracker, failing fast on configuration errors.
func NewVolatilityTracker(cfg VolatilityConfig, sink log.Log) (*VolatilityTracker, error) {
	if err := configure(&cfg); err != nil {
		return nil, err
	}

	return &VolatilityTracker{
		cfg:       cfg,
		sink:      sink,
		prevClose: optional.None[float64](),
		atr:       0,
		trSum:     0,
		bars:      0,
		atrWindow: NewWindow(cfg.ATRMAPeriod),
	}, nil
}

// Name returns the name of the indicator.
func (v *VolatilityTracker) Name() types.IndicatorType {
	return types.IndicatorTypeVolatilityTracker
}

// Warm reports whether both the ATR and its long average have full history.
func (v *VolatilityTracker) Warm() bool {
	return v.bars >= v.cfg.ATRLength && v.atrWindow.Full()
}

// ATR returns the current running average true range.
func (v *VolatilityTracker) ATR() float64 {
	return v.atr
}

// Update consumes one bar, updates the running ATR and its long average in
// place, and returns the volatility ratio for this bar.
func (v *VolatilityTracker) Update(bar types.Bar) Reading {
	tr := v.trueRange(bar)
	v.prevClose = optional.Some(bar.Close)
	v.bars++

	// Seed with a simple average, then Wilder smoothing.
	if v.bars <= v.cfg.ATRLength {
		v.trSum += tr
		v.atr = v.trSum / float64(v.bars)
	} else {
		v.atr = (v.atr*float64(v.cfg.ATRLength-1) + tr) / float64(v.cfg.ATRLength)
	}

	v.atrWindow.Push(v.atr)

	if !v.atrWindow.Full() {
		log.Emit(v.sink, types.LogLevelDebug, bar.Time, bar.Symbol,
			"volatility ratio warming up, defaulting to 1.0",
			map[string]string{"bars": strconv.Itoa(v.bars)})

		return Fallback(1.0)
	}

	longAvg := v.atrWindow.Mean()
	if longAvg == 0 {
		log.Emit(v.sink, types.LogLevelWarn, bar.Time, bar.Symbol,
			"degenerate atr average, volatility ratio defaulting to 1.0", nil)

		return Fallback(1.0)
	}

	return OK(v.atr / longAvg)
}

// trueRange is max(high-low, |high-prev_close|, |low-prev_close|). On the
// first bar there is no previous close and the high-low range is used.
func (v *VolatilityTracker) trueRange(bar types.Bar) float64 {
	prev, err := v.prevClose.Take()
	if err != nil {
		return bar.High - bar.Low
	}

	return math.Max(
		bar.High-bar.Low,
		math.Max(
			math.Abs(bar.High-prev),
			math.Abs(bar.Low-prev),
		),
	)
}
