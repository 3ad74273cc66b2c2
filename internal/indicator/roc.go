package indicator

import (
	"github.com/whchien/ai-trader-go/internal/log"
	"github.com/whchien/ai-trader-go/internal/types"
)

// ROCConfig configures the RateOfChange indicator.
type ROCConfig struct {
	// Period is the lookback the change is measured over.
	Period int `yaml:"roc_period" json:"roc_period" default:"20" validate:"gt=0"`
}

// RateOfChange measures close[t]/close[t-period] - 1, a plain momentum
// score used for rotation ranking.
type RateOfChange struct {
	cfg  ROCConfig
	sink log.Log

	closes *Window
}

// NewRateOfChange builds the indicator, failing fast on configuration errors.
func NewRateOfChange(cfg ROCConfig, sink log.Log) (*RateOfChange, error) {
	if err := configure(&cfg); err != nil {
		return nil, err
	}

	return &RateOfChange{
		cfg:    cfg,
		sink:   sink,
		closes: NewWindow(cfg.Period + 1),
	}, nil
}

// Name returns the name of the indicator.
func (r *RateOfChange) Name() types.IndicatorType {
	return types.IndicatorTypeROC
}

// Warm reports whether a full lookback exists.
func (r *RateOfChange) Warm() bool {
	return r.closes.Full()
}

// Update consumes one bar and returns the rate of change, 0 while warming
// up or against a zero reference close.
func (r *RateOfChange) Update(bar types.Bar) Reading {
	r.closes.Push(bar.Close)

	if !r.closes.Full() {
		return Fallback(0)
	}

	reference := r.closes.First()
	if reference == 0 {
		log.Emit(r.sink, types.LogLevelWarn, bar.Time, bar.Symbol,
			"zero reference close, rate of change defaulting to 0", nil)

		return Fallback(0)
	}

	return OK(bar.Close/reference - 1)
}
