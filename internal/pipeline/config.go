package pipeline

import (
	"bytes"
	"io"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/whchien/ai-trader-go/internal/indicator"
	"github.com/whchien/ai-trader-go/pkg/errors"
	"github.com/whchien/ai-trader-go/pkg/schema"
)

var validate = validator.New()

// ScoreSource selects which indicator output ranks an asset at rebalance time.
type ScoreSource string

const (
	// ScoreSourceRSRS ranks by the normalized regression slope when the long
	// window is warm, the raw slope before.
	ScoreSourceRSRS ScoreSource = "rsrs"
	// ScoreSourceROC ranks by the rate of change of the close.
	ScoreSourceROC ScoreSource = "roc"
	// ScoreSourceRSI ranks by the smoothed adaptive oscillator value.
	ScoreSourceRSI ScoreSource = "rsi"
)

// Config is the aggregate per-asset pipeline configuration. Constructed
// once, immutable thereafter. Zero values are filled with documented
// defaults at build time.
type Config struct {
	Volatility indicator.VolatilityConfig `yaml:"volatility" json:"volatility"`
	Oscillator indicator.OscillatorConfig `yaml:"oscillator" json:"oscillator"`
	Levels     indicator.LevelConfig      `yaml:"levels" json:"levels"`
	Trend      indicator.TrendConfig      `yaml:"trend" json:"trend"`
	Regression indicator.RegressionConfig `yaml:"regression" json:"regression"`
	Norm       indicator.NormConfig       `yaml:"normalization" json:"normalization"`
	ROC        indicator.ROCConfig        `yaml:"roc" json:"roc"`
	TripleRSI  indicator.TripleRSIConfig  `yaml:"triple_rsi" json:"triple_rsi"`

	// DisableTrendFilter removes the slow-SMA gate from entries. The filter
	// is on unless explicitly disabled.
	DisableTrendFilter bool `yaml:"disable_trend_filter" json:"disable_trend_filter"`
	// UseRSRSStop enables the independent exit stop on the raw regression
	// slope falling below RSRSExitThreshold. The threshold is a pointer so
	// an explicit zero survives default filling.
	UseRSRSStop       bool     `yaml:"use_rsrs_stop" json:"use_rsrs_stop"`
	RSRSExitThreshold *float64 `yaml:"rsrs_exit_threshold" json:"rsrs_exit_threshold" default:"0.5"`
	// UseTripleRSIGate additionally requires the triple-RSI alignment gate
	// to be open on entry.
	UseTripleRSIGate bool `yaml:"use_triple_rsi_gate" json:"use_triple_rsi_gate"`
	// Score selects the rotation ranking source.
	Score ScoreSource `yaml:"score_source" json:"score_source" default:"rsrs" validate:"oneof=rsrs roc rsi"`
}

// Validate fills defaults and checks every tag-expressible rule. Cross-field
// rules live in the component constructors and are checked at build time.
func (c *Config) Validate() error {
	if err := defaults.Set(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to apply configuration defaults", err)
	}

	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid pipeline configuration", err)
	}

	return nil
}

// ConfigFromYAML decodes a strict YAML document into a validated Config.
// Unknown fields are rejected so misspelled options fail fast instead of
// silently falling back to defaults.
func ConfigFromYAML(data []byte) (Config, error) {
	var cfg Config

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	// An empty document is a valid all-defaults configuration.
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to decode pipeline configuration", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ConfigSchema returns the JSON schema of Config so callers can validate
// and author configuration documents.
func ConfigSchema() (string, error) {
	return schema.ToJSONSchema(Config{})
}
