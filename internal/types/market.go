package types

import "time"

// Bar is a single OHLCV observation for one symbol. Bars are immutable once
// observed; upstream delivery guarantees strictly time-ordered bars per symbol.
type Bar struct {
	Symbol string    `yaml:"symbol" json:"symbol"`
	Time   time.Time `yaml:"time" json:"time"`
	Open   float64   `yaml:"open" json:"open"`
	High   float64   `yaml:"high" json:"high"`
	Low    float64   `yaml:"low" json:"low"`
	Close  float64   `yaml:"close" json:"close"`
	Volume float64   `yaml:"volume" json:"volume"`
}
