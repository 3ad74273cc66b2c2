package indicator

import (
	"github.com/moznion/go-optional"

	"github.com/whchien/ai-trader-go/internal/log"
	"github.com/whchien/ai-trader-go/internal/types"
	"github.com/whchien/ai-trader-go/pkg/errors"
)

// LevelConfig configures the ThresholdAdapter.
type LevelConfig struct {
	// Sensitivity scales how far levels drift from their bases per unit of
	// volatility-ratio excess. Zero is legal and fixes the levels at their
	// bases, so the field is a pointer: an explicit zero survives default
	// filling.
	Sensitivity *float64 `yaml:"level_sensitivity" json:"level_sensitivity" default:"20" validate:"omitempty,gte=0"`
	// OBBase/OSBase are the unadjusted overbought/oversold levels.
	OBBase float64 `yaml:"ob_base" json:"ob_base" default:"70" validate:"gt=0"`
	OSBase float64 `yaml:"os_base" json:"os_base" default:"30" validate:"gt=0"`
	// Clamp bounds for each level.
	OBMin float64 `yaml:"ob_min" json:"ob_min" default:"65" validate:"gt=0"`
	OBMax float64 `yaml:"ob_max" json:"ob_max" default:"85" validate:"gt=0"`
	OSMin float64 `yaml:"os_min" json:"os_min" default:"15" validate:"gt=0"`
	OSMax float64 `yaml:"os_max" json:"os_max" default:"35" validate:"gt=0"`
}

// ThresholdAdapter produces bounded, volatility-scaled overbought/oversold
// levels. High volatility widens the band, low volatility narrows it.
type ThresholdAdapter struct {
	cfg LevelConfig
}

// NewThresholdAdapter builds the adapter, failing fast on configuration
// errors. The bound layout must guarantee os_level < ob_level at every bar,
// so os_max < ob_min is required.
func NewThresholdAdapter(cfg LevelConfig) (*ThresholdAdapter, error) {
	if err := configure(&cfg); err != nil {
		return nil, err
	}

	if cfg.OSMin >= cfg.OSMax {
		return nil, errors.Newf(errors.ErrCodeInvalidThreshold,
			"os_min %.2f must be below os_max %.2f", cfg.OSMin, cfg.OSMax)
	}

	if cfg.OBMin >= cfg.OBMax {
		return nil, errors.Newf(errors.ErrCodeInvalidThreshold,
			"ob_min %.2f must be below ob_max %.2f", cfg.OBMin, cfg.OBMax)
	}

	if cfg.OSMax >= cfg.OBMin {
		return nil, errors.Newf(errors.ErrCodeInvalidThreshold,
			"os_max %.2f must be below ob_min %.2f", cfg.OSMax, cfg.OBMin)
	}

	return &ThresholdAdapter{cfg: cfg}, nil
}

// Name returns the name of the indicator.
func (t *ThresholdAdapter) Name() types.IndicatorType {
	return types.IndicatorTypeThresholdAdapter
}

// Levels returns the clamped overbought and oversold levels for the given
// volatility ratio. Stateless: the same ratio always yields the same levels.
func (t *ThresholdAdapter) Levels(volatilityRatio float64) (obLevel, osLevel float64) {
	adjustment := (volatilityRatio - 1) * (*t.cfg.Sensitivity)

	obLevel = clamp(t.cfg.OBBase+adjustment, t.cfg.OBMin, t.cfg.OBMax)
	osLevel = clamp(t.cfg.OSBase-adjustment, t.cfg.OSMin, t.cfg.OSMax)

	return obLevel, osLevel
}

// TrendConfig configures the TrendFilter.
type TrendConfig struct {
	// SMAPeriod is the slow moving-average window whose slope sign gates trades.
	SMAPeriod int `yaml:"trend_sma_period" json:"trend_sma_period" default:"50" validate:"gt=0"`
}

// TrendFilter tracks the sign of a slow SMA's slope. Bias is +1 only when
// the SMA strictly rose; ties and falls read -1.
type TrendFilter struct {
	cfg  TrendConfig
	sink log.Log

	closes  *Window
	prevSMA optional.Option[float64]
	warm    bool
}

// NewTrendFilter builds the filter, failing fast on configuration errors.
func NewTrendFilter(cfg TrendConfig, sink log.Log) (*TrendFilter, error) {
	if err := configure(&cfg); err != nil {
		return nil, err
	}

	return &TrendFilter{
		cfg:     cfg,
		sink:    sink,
		closes:  NewWindow(cfg.SMAPeriod),
		prevSMA: optional.None[float64](),
		warm:    false,
	}, nil
}

// Name returns the name of the indicator.
func (t *TrendFilter) Name() types.IndicatorType {
	return types.IndicatorTypeTrendFilter
}

// Warm reports whether two consecutive full-window SMA values exist.
func (t *TrendFilter) Warm() bool {
	return t.warm
}

// Update consumes one close and returns the trend bias for this bar.
// Before two full SMA windows exist the bias holds at -1.
func (t *TrendFilter) Update(bar types.Bar) int {
	t.closes.Push(bar.Close)

	if !t.closes.Full() {
		log.Emit(t.sink, types.LogLevelDebug, bar.Time, bar.Symbol,
			"trend filter warming up, bias held at -1", nil)

		return -1
	}

	sma := t.closes.Mean()

	prev, err := t.prevSMA.Take()
	t.prevSMA = optional.Some(sma)

	if err != nil {
		return -1
	}

	t.warm = true

	if sma > prev {
		return 1
	}

	return -1
}
