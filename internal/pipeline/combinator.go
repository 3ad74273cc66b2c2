package pipeline

import (
	"github.com/google/uuid"
	"github.com/moznion/go-optional"

	"github.com/whchien/ai-trader-go/internal/types"
)

// positionState is the per-asset combinator state.
type positionState int

const (
	stateFlat positionState = iota
	stateLong
)

// SignalCombinator turns per-bar indicator bundles into discrete
// enter/exit/hold decisions. Transitions are edge-triggered: a signal fires
// only on the bar where the oscillator crosses a level, never on every bar
// it remains beyond it. One position per asset; re-entry requires an exit
// first.
type SignalCombinator struct {
	cfg Config

	state positionState
	prev  optional.Option[types.OutputBundle]
}

func newSignalCombinator(cfg Config) *SignalCombinator {
	return &SignalCombinator{
		cfg:   cfg,
		state: stateFlat,
		prev:  optional.None[types.OutputBundle](),
	}
}

// Long reports whether the combinator currently models an open position.
func (c *SignalCombinator) Long() bool {
	return c.state == stateLong
}

// Decide consumes one bundle and returns this bar's signal. The first bar
// and unwarmed bundles always hold: no crossing can be detected with a
// single sample, and unwarmed values must not drive trades.
func (c *SignalCombinator) Decide(bundle types.OutputBundle) types.Signal {
	signal := types.Signal{
		ID:     uuid.New().String(),
		Symbol: bundle.Symbol,
		Time:   bundle.Time,
		Kind:   types.SignalKindHold,
		Score:  c.score(bundle),
	}

	prev, err := c.prev.Take()
	c.prev = optional.Some(bundle)

	if err != nil {
		signal.Reason = "first bar, no previous bundle"

		return signal
	}

	if !bundle.Warm {
		signal.Reason = "indicators warming up"

		return signal
	}

	switch c.state {
	case stateLong:
		return c.decideLong(bundle, prev, signal)
	default:
		return c.decideFlat(bundle, prev, signal)
	}
}

func (c *SignalCombinator) decideFlat(bundle, prev types.OutputBundle, signal types.Signal) types.Signal {
	crossedUp := bundle.RSI >= bundle.OSLevel && prev.RSI < prev.OSLevel
	if !crossedUp {
		signal.Reason = "no oversold crossing"

		return signal
	}

	if !c.cfg.DisableTrendFilter && bundle.TrendBias <= 0 {
		signal.Reason = "oversold crossing rejected by trend filter"

		return signal
	}

	if c.cfg.UseTripleRSIGate && bundle.TripleRSISignal <= 0 {
		signal.Reason = "oversold crossing rejected by triple rsi gate"

		return signal
	}

	c.state = stateLong
	signal.Kind = types.SignalKindEnter
	signal.Reason = "oscillator crossed above oversold level"

	return signal
}

func (c *SignalCombinator) decideLong(bundle, prev types.OutputBundle, signal types.Signal) types.Signal {
	// The stop is independent of crossings and checked first.
	if c.cfg.UseRSRSStop && bundle.RSRSSlope < *c.cfg.RSRSExitThreshold {
		c.state = stateFlat
		signal.Kind = types.SignalKindExit
		signal.Reason = "regression slope fell below exit threshold"

		return signal
	}

	crossedDown := bundle.RSI <= bundle.OBLevel && prev.RSI > prev.OBLevel
	if crossedDown {
		c.state = stateFlat
		signal.Kind = types.SignalKindExit
		signal.Reason = "oscillator crossed below overbought level"

		return signal
	}

	signal.Reason = "position held"

	return signal
}

// score extracts the rotation ranking value from the bundle.
func (c *SignalCombinator) score(bundle types.OutputBundle) float64 {
	switch c.cfg.Score {
	case ScoreSourceROC:
		return bundle.ROC
	case ScoreSourceRSI:
		return bundle.RSI
	default:
		if bundle.RSRSNormWarm {
			return bundle.RSRSBetaRight
		}

		return bundle.RSRSSlope
	}
}
