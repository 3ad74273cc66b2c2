package types

import "time"

// OutputBundle is the full per-asset indicator snapshot for one bar. It is
// recomputed every bar and never persisted beyond the current and previous
// bar; crossing detection needs exactly one lag.
type OutputBundle struct {
	// Symbol is the asset this bundle was computed for.
	Symbol string
	// Time is the bar time the bundle belongs to.
	Time time.Time
	// RSI is the smoothed adaptive oscillator value, always within [0, 100].
	RSI float64
	// AdaptivePeriod is the effective oscillator lookback for this bar,
	// always within [min_period, max_period].
	AdaptivePeriod float64
	// OBLevel and OSLevel are the volatility-scaled overbought/oversold
	// levels; OSLevel < OBLevel holds at every bar.
	OBLevel float64
	OSLevel float64
	// TrendBias is +1 when the slow SMA rose on this bar, -1 otherwise.
	TrendBias int
	// VolatilityRatio is ATR over its long average, 1.0 when degenerate.
	VolatilityRatio float64
	// CycleFactor measures price-cycle speed, 0 when degenerate.
	CycleFactor float64
	// MarketFactor is the blend of volatility ratio and cycle factor.
	MarketFactor float64
	// RSRSSlope and RSRSR2 are the raw high-on-low regression outputs.
	RSRSSlope float64
	RSRSR2    float64
	// RSRSNorm is the z-score of the slope against its trailing history;
	// RSRSBetaRight is slope * norm * R2. Both are 0 until the long
	// normalization window fills.
	RSRSNorm      float64
	RSRSBetaRight float64
	// RSRSNormWarm reports whether the normalization window has filled.
	RSRSNormWarm bool
	// ROC is the rate of change of the close over the configured period.
	ROC float64
	// TripleRSISignal is the composite triple-RSI gate, +1 or -1.
	// TripleRSIValue is informational telemetry, never a decision input.
	TripleRSISignal int
	TripleRSIValue  float64
	// Warm reports whether the oscillator (and trend filter, when enabled)
	// has enough history for the bundle to be actionable.
	Warm bool
	// Degenerate reports that at least one component fell back to its
	// neutral default on this bar.
	Degenerate bool
}
