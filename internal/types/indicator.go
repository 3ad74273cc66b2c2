package types

type IndicatorType string

const (
	IndicatorTypeVolatilityTracker IndicatorType = "volatility_tracker"
	IndicatorTypeAdaptiveRSI       IndicatorType = "adaptive_rsi"
	IndicatorTypeThresholdAdapter  IndicatorType = "threshold_adapter"
	IndicatorTypeTrendFilter       IndicatorType = "trend_filter"
	IndicatorTypeRSRS              IndicatorType = "rsrs"
	IndicatorTypeNormRSRS          IndicatorType = "norm_rsrs"
	IndicatorTypeROC               IndicatorType = "roc"
	IndicatorTypeTripleRSI         IndicatorType = "triple_rsi"
)
