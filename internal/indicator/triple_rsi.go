package indicator

import (
	"math"

	"github.com/moznion/go-optional"

	"github.com/whchien/ai-trader-go/internal/log"
	"github.com/whchien/ai-trader-go/internal/types"
	"github.com/whchien/ai-trader-go/pkg/errors"
)

// TripleRSIConfig configures the TripleRSI gate.
type TripleRSIConfig struct {
	ShortPeriod int `yaml:"rsi_short" json:"rsi_short" default:"20" validate:"gt=0"`
	MidPeriod   int `yaml:"rsi_mid" json:"rsi_mid" default:"60" validate:"gt=0"`
	LongPeriod  int `yaml:"rsi_long" json:"rsi_long" default:"120" validate:"gt=0"`
	// Oversold and Overbought are the condition levels, not trade triggers.
	Oversold   float64 `yaml:"oversold" json:"oversold" default:"55" validate:"gt=0"`
	Overbought float64 `yaml:"overbought" json:"overbought" default:"75" validate:"gt=0"`
}

// TripleRSIValue is the per-bar output of the gate.
type TripleRSIValue struct {
	// Signal is +1 when all alignment conditions hold, -1 otherwise.
	Signal int
	// Value is informational telemetry summarizing condition distances.
	// It is never a decision input.
	Value float64
	// Warm reports whether all three oscillators and the short-RSI lag
	// history have filled.
	Warm bool
}

// wilderRSI is a minimal streaming RSI with Wilder smoothing, shared by the
// three horizons of the gate.
type wilderRSI struct {
	period    int
	prevClose optional.Option[float64]
	deltas    int
	gainSum   float64
	lossSum   float64
	avgGain   float64
	avgLoss   float64
}

func newWilderRSI(period int) *wilderRSI {
	return &wilderRSI{
		period:    period,
		prevClose: optional.None[float64](),
		deltas:    0,
		gainSum:   0,
		lossSum:   0,
		avgGain:   0,
		avgLoss:   0,
	}
}

func (w *wilderRSI) warm() bool {
	return w.deltas >= w.period
}

func (w *wilderRSI) update(close float64) float64 {
	prev, err := w.prevClose.Take()
	w.prevClose = optional.Some(close)

	if err != nil {
		return 50
	}

	delta := close - prev

	gain, loss := 0.0, 0.0
	if delta > 0 {
		gain = delta
	} else {
		loss = -delta
	}

	if w.deltas < w.period {
		w.deltas++
		w.gainSum += gain
		w.lossSum += loss
		w.avgGain = w.gainSum / float64(w.deltas)
		w.avgLoss = w.lossSum / float64(w.deltas)
	} else {
		w.avgGain = (w.avgGain*float64(w.period-1) + gain) / float64(w.period)
		w.avgLoss = (w.avgLoss*float64(w.period-1) + loss) / float64(w.period)
	}

	if w.avgLoss == 0 {
		if w.avgGain == 0 {
			return 50
		}

		return 100
	}

	rs := w.avgGain / w.avgLoss

	return 100 - 100/(1+rs)
}

// TripleRSI aligns three RSI horizons into a single gate: long-term trend
// intact, mid-term not overheated, short-term persistent and rising.
type TripleRSI struct {
	cfg  TripleRSIConfig
	sink log.Log

	short *wilderRSI
	mid   *wilderRSI
	long  *wilderRSI

	shortHistory *Window // last 3 short-RSI values, for persistence and lag
}

// NewTripleRSI builds the gate, failing fast on configuration errors.
func NewTripleRSI(cfg TripleRSIConfig, sink log.Log) (*TripleRSI, error) {
	if err := configure(&cfg); err != nil {
		return nil, err
	}

	if cfg.ShortPeriod >= cfg.MidPeriod || cfg.MidPeriod >= cfg.LongPeriod {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod,
			"rsi periods must be strictly increasing, got %d/%d/%d",
			cfg.ShortPeriod, cfg.MidPeriod, cfg.LongPeriod)
	}

	if cfg.Oversold >= cfg.Overbought {
		return nil, errors.Newf(errors.ErrCodeInvalidThreshold,
			"oversold %.2f must be below overbought %.2f", cfg.Oversold, cfg.Overbought)
	}

	return &TripleRSI{
		cfg:          cfg,
		sink:         sink,
		short:        newWilderRSI(cfg.ShortPeriod),
		mid:          newWilderRSI(cfg.MidPeriod),
		long:         newWilderRSI(cfg.LongPeriod),
		shortHistory: NewWindow(3),
	}, nil
}

// Name returns the name of the indicator.
func (t *TripleRSI) Name() types.IndicatorType {
	return types.IndicatorTypeTripleRSI
}

// Warm reports whether all three horizons have full history.
func (t *TripleRSI) Warm() bool {
	return t.short.warm() && t.mid.warm() && t.long.warm() && t.shortHistory.Full()
}

// Update consumes one bar and returns the gate state. Unwarmed bars read -1.
func (t *TripleRSI) Update(bar types.Bar) TripleRSIValue {
	shortRSI := t.short.update(bar.Close)
	midRSI := t.mid.update(bar.Close)
	longRSI := t.long.update(bar.Close)

	t.shortHistory.Push(shortRSI)

	if !t.Warm() {
		return TripleRSIValue{Signal: -1, Value: 0, Warm: false}
	}

	shortLagged := t.shortHistory.First() // two bars ago
	if shortLagged == 0 {
		log.Emit(t.sink, types.LogLevelWarn, bar.Time, bar.Symbol,
			"zero lagged short rsi, triple rsi gate defaulting to -1", nil)

		return TripleRSIValue{Signal: -1, Value: 0, Warm: true}
	}

	value := 0.0
	value += math.Abs(longRSI - t.cfg.Oversold)
	value += math.Abs(midRSI - t.cfg.Overbought)
	value += math.Abs(shortRSI / shortLagged)

	// Long-term uptrend intact.
	longAbove := longRSI > t.cfg.Oversold
	// Mid-term not overheated.
	midBelow := midRSI < t.cfg.Overbought
	// Short-term persistently above the oversold floor.
	persistent := true

	for _, v := range t.shortHistory.Values() {
		if v <= t.cfg.Oversold {
			persistent = false

			break
		}
	}

	// Short-term rising by more than 2% against two bars ago.
	rising := shortRSI/shortLagged-1 > 0.02

	signal := -1
	if longAbove && midBelow && persistent && rising {
		signal = 1
	}

	return TripleRSIValue{Signal: signal, Value: value, Warm: true}
}
