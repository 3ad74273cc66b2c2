package indicator

import (
	"math"
	"strconv"

	"github.com/moznion/go-optional"

	"github.com/whchien/ai-trader-go/internal/log"
	"github.com/whchien/ai-trader-go/internal/types"
	"github.com/whchien/ai-trader-go/pkg/errors"
)

// OscillatorConfig configures the AdaptiveOscillator.
type OscillatorConfig struct {
	// RSILength is the base averaging period and the cycle lookback.
	RSILength int `yaml:"rsi_length" json:"rsi_length" default:"14" validate:"gt=0"`
	// MinPeriod and MaxPeriod bound the adaptive period.
	MinPeriod int `yaml:"min_period" json:"min_period" default:"8" validate:"gt=0"`
	MaxPeriod int `yaml:"max_period" json:"max_period" default:"28" validate:"gt=0"`
	// AdaptiveSensitivity scales how hard the period reacts to the market
	// factor. Zero is legal and pins the period at MaxPeriod, so the field
	// is a pointer: an explicit zero survives default filling.
	AdaptiveSensitivity *float64 `yaml:"adaptive_sensitivity" json:"adaptive_sensitivity" default:"1.0" validate:"omitempty,gte=0"`
	// SmoothingLength is the secondary exponential smoothing of the raw RSI.
	SmoothingLength int `yaml:"smoothing_length" json:"smoothing_length" default:"3" validate:"gt=0"`
}

// OscillatorValue is the full per-bar output of the adaptive oscillator.
type OscillatorValue struct {
	// RSI is the smoothed oscillator value in [0, 100].
	RSI float64
	// AdaptivePeriod is the effective averaging period used on this bar,
	// always within [MinPeriod, MaxPeriod].
	AdaptivePeriod float64
	// CycleFactor and MarketFactor are the adaptation inputs.
	CycleFactor  float64
	MarketFactor float64
	// Warm reports whether enough deltas accumulated for the value to be
	// actionable; unwarmed values must not drive signals.
	Warm bool
	// Degenerate reports that this bar fell back to the neutral bundle.
	Degenerate bool
}

// AdaptiveOscillator produces a gain/loss-momentum oscillator whose
// effective smoothing period contracts in high volatility or fast price
// cycles and expands otherwise.
type AdaptiveOscillator struct {
	cfg  OscillatorConfig
	sink log.Log

	prevClose optional.Option[float64]
	closes    *Window // last RSILength+1 closes, for the cycle numerator
	absDeltas *Window // last RSILength absolute close deltas

	deltas  int // deltas observed so far, saturates at RSILength
	gainSum float64
	lossSum float64
	avgGain float64
	avgLoss float64

	smoothed optional.Option[float64]
}

// NewAdaptiveOscillator builds the oscillator, failing fast on configuration errors.
func NewAdaptiveOscillator(cfg OscillatorConfig, sink log.Log) (*AdaptiveOscillator, error) {
	if err := configure(&cfg); err != nil {
		return nil, err
	}

	if cfg.MinPeriod > cfg.MaxPeriod {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod,
			"min_period %d exceeds max_period %d", cfg.MinPeriod, cfg.MaxPeriod)
	}

	return &AdaptiveOscillator{
		cfg:       cfg,
		sink:      sink,
		prevClose: optional.None[float64](),
		closes:    NewWindow(cfg.RSILength + 1),
		absDeltas: NewWindow(cfg.RSILength),
		deltas:    0,
		gainSum:   0,
		lossSum:   0,
		avgGain:   0,
		avgLoss:   0,
		smoothed:  optional.None[float64](),
	}, nil
}

// Name returns the name of the indicator.
func (a *AdaptiveOscillator) Name() types.IndicatorType {
	return types.IndicatorTypeAdaptiveRSI
}

// Warm reports whether RSILength deltas have been observed.
func (a *AdaptiveOscillator) Warm() bool {
	return a.deltas >= a.cfg.RSILength
}

// neutral is the documented fallback bundle for degenerate history. The
// period stays clamped into its configured bounds even on the fallback path.
func (a *AdaptiveOscillator) neutral(warm bool) OscillatorValue {
	return OscillatorValue{
		RSI:            50,
		AdaptivePeriod: clamp(float64(a.cfg.RSILength), float64(a.cfg.MinPeriod), float64(a.cfg.MaxPeriod)),
		CycleFactor:    0,
		MarketFactor:   1,
		Warm:           warm,
		Degenerate:     true,
	}
}

// Update consumes one bar together with the shared volatility ratio and
// returns this bar's oscillator value. Arithmetic degeneracy yields the
// neutral bundle, logged, never fatal.
func (a *AdaptiveOscillator) Update(bar types.Bar, volatilityRatio float64) OscillatorValue {
	a.closes.Push(bar.Close)

	prev, err := a.prevClose.Take()
	a.prevClose = optional.Some(bar.Close)

	if err != nil {
		// First bar: no delta yet, nothing to average.
		return a.neutral(false)
	}

	delta := bar.Close - prev
	a.absDeltas.Push(math.Abs(delta))

	gain, loss := 0.0, 0.0
	if delta > 0 {
		gain = delta
	} else {
		loss = -delta
	}

	cycleFactor := a.cycleFactor()
	marketFactor := (volatilityRatio + cycleFactor) / 2

	span := float64(a.cfg.MaxPeriod - a.cfg.MinPeriod)
	period := float64(a.cfg.MaxPeriod) - marketFactor*span*(*a.cfg.AdaptiveSensitivity)/10
	period = clamp(period, float64(a.cfg.MinPeriod), float64(a.cfg.MaxPeriod))

	if a.deltas < a.cfg.RSILength {
		// Warm-up phase: plain accumulation instead of exponential decay.
		a.deltas++
		a.gainSum += gain
		a.lossSum += loss
		a.avgGain = a.gainSum / float64(a.deltas)
		a.avgLoss = a.lossSum / float64(a.deltas)
	} else {
		alpha := 2 / (period + 1)
		a.avgGain = alpha*gain + (1-alpha)*a.avgGain
		a.avgLoss = alpha*loss + (1-alpha)*a.avgLoss
	}

	warm := a.deltas >= a.cfg.RSILength

	rsi, degenerate := a.rsi(bar)
	if degenerate {
		return a.neutral(warm)
	}

	return OscillatorValue{
		RSI:            a.smooth(rsi),
		AdaptivePeriod: period,
		CycleFactor:    cycleFactor,
		MarketFactor:   marketFactor,
		Warm:           warm,
		Degenerate:     false,
	}
}

// cycleFactor measures price-cycle speed: net movement over RSILength bars
// relative to the path length walked. Defaults to 0 when the denominator
// is zero.
func (a *AdaptiveOscillator) cycleFactor() float64 {
	if !a.closes.Full() || !a.absDeltas.Full() {
		return 0
	}

	meanAbsDelta := a.absDeltas.Mean()
	if meanAbsDelta == 0 {
		return 0
	}

	n := float64(a.cfg.RSILength)

	return math.Abs(a.closes.Last()-a.closes.First()) / (meanAbsDelta * n)
}

// rsi converts the running averages into an oscillator value. A zero
// average loss with positive gains saturates at 100; a fully flat history
// is degenerate and reads neutral 50.
func (a *AdaptiveOscillator) rsi(bar types.Bar) (float64, bool) {
	if a.avgLoss == 0 {
		if a.avgGain == 0 {
			log.Emit(a.sink, types.LogLevelWarn, bar.Time, bar.Symbol,
				"flat price history, oscillator defaulting to neutral 50",
				map[string]string{"deltas": strconv.Itoa(a.deltas)})

			return 50, true
		}

		return 100, false
	}

	rs := a.avgGain / a.avgLoss

	return 100 - 100/(1+rs), false
}

// smooth applies the secondary exponential smoothing, carrying state across bars.
func (a *AdaptiveOscillator) smooth(rsi float64) float64 {
	prev, err := a.smoothed.Take()
	if err != nil {
		a.smoothed = optional.Some(rsi)

		return rsi
	}

	alpha := 2 / (float64(a.cfg.SmoothingLength) + 1)
	value := alpha*rsi + (1-alpha)*prev
	a.smoothed = optional.Some(value)

	return value
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
