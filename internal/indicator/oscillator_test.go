package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/whchien/ai-trader-go/internal/log"
	"github.com/whchien/ai-trader-go/internal/types"
)

type OscillatorTestSuite struct {
	suite.Suite

	sink *log.MemoryLog
}

func TestOscillatorSuite(t *testing.T) {
	suite.Run(t, new(OscillatorTestSuite))
}

func (suite *OscillatorTestSuite) SetupTest() {
	suite.sink = log.NewMemoryLog()
}

func (suite *OscillatorTestSuite) newOscillator(cfg OscillatorConfig) *AdaptiveOscillator {
	osc, err := NewAdaptiveOscillator(cfg, suite.sink)
	suite.Require().NoError(err)

	return osc
}

func (suite *OscillatorTestSuite) TestConfigDefaults() {
	osc, err := NewAdaptiveOscillator(OscillatorConfig{}, nil)
	suite.NoError(err)
	suite.Equal(types.IndicatorTypeAdaptiveRSI, osc.Name())
	suite.Equal(1.0, *osc.cfg.AdaptiveSensitivity)
}

func (suite *OscillatorTestSuite) TestExplicitZeroSensitivityIsKept() {
	osc, err := NewAdaptiveOscillator(OscillatorConfig{
		AdaptiveSensitivity: types.Float(0),
	}, nil)
	suite.NoError(err)
	suite.Equal(0.0, *osc.cfg.AdaptiveSensitivity)
}

func (suite *OscillatorTestSuite) TestConfigRejectsInvertedPeriodBounds() {
	_, err := NewAdaptiveOscillator(OscillatorConfig{
		RSILength: 14, MinPeriod: 30, MaxPeriod: 10,
		AdaptiveSensitivity: types.Float(1), SmoothingLength: 3,
	}, nil)
	suite.Error(err)
}

func (suite *OscillatorTestSuite) TestFirstBarIsNeutral() {
	osc := suite.newOscillator(OscillatorConfig{})

	value := osc.Update(closeBar(0, 100), 1.0)
	suite.True(value.Degenerate)
	suite.False(value.Warm)
	suite.Equal(50.0, value.RSI)
}

func (suite *OscillatorTestSuite) TestConstantPriceReadsNeutral() {
	osc := suite.newOscillator(OscillatorConfig{
		RSILength: 3, MinPeriod: 2, MaxPeriod: 6,
		AdaptiveSensitivity: types.Float(1), SmoothingLength: 1,
	})

	var value OscillatorValue
	for i := 0; i < 10; i++ {
		value = osc.Update(closeBar(i, 42), 1.0)
	}

	suite.True(value.Degenerate)
	suite.True(value.Warm)
	suite.Equal(50.0, value.RSI)
	suite.Equal(0.0, value.CycleFactor)
	suite.Equal(1.0, value.MarketFactor)
}

func (suite *OscillatorTestSuite) TestNeutralPeriodStaysWithinBounds() {
	osc := suite.newOscillator(OscillatorConfig{
		RSILength: 14, MinPeriod: 2, MaxPeriod: 4,
		AdaptiveSensitivity: types.Float(1), SmoothingLength: 1,
	})

	value := osc.Update(closeBar(0, 42), 1.0)
	suite.True(value.Degenerate)
	suite.Equal(4.0, value.AdaptivePeriod)
}

func (suite *OscillatorTestSuite) TestRisingPricesSaturateAtHundred() {
	osc := suite.newOscillator(OscillatorConfig{
		RSILength: 3, MinPeriod: 2, MaxPeriod: 6,
		AdaptiveSensitivity: types.Float(1), SmoothingLength: 1,
	})

	var value OscillatorValue
	for i := 0; i < 8; i++ {
		value = osc.Update(closeBar(i, 100+float64(i)), 1.0)
	}

	suite.False(value.Degenerate)
	suite.True(value.Warm)
	suite.Equal(100.0, value.RSI)
}

func (suite *OscillatorTestSuite) TestFallingPricesReadZero() {
	osc := suite.newOscillator(OscillatorConfig{
		RSILength: 3, MinPeriod: 2, MaxPeriod: 6,
		AdaptiveSensitivity: types.Float(1), SmoothingLength: 1,
	})

	var value OscillatorValue
	for i := 0; i < 8; i++ {
		value = osc.Update(closeBar(i, 100-float64(i)), 1.0)
	}

	suite.False(value.Degenerate)
	suite.Equal(0.0, value.RSI)
}

func (suite *OscillatorTestSuite) TestMixedSeriesMatchesHandComputedValue() {
	// Zero sensitivity pins the adaptive period at MaxPeriod, and a
	// smoothing length of 1 makes the smoothed value the raw oscillator.
	osc := suite.newOscillator(OscillatorConfig{
		RSILength: 2, MinPeriod: 2, MaxPeriod: 4,
		AdaptiveSensitivity: types.Float(0), SmoothingLength: 1,
	})

	osc.Update(closeBar(0, 10), 1.0)

	value := osc.Update(closeBar(1, 11), 1.0)
	suite.Equal(100.0, value.RSI)
	suite.False(value.Warm)

	// avg gain (1+0)/2 = 0.5, avg loss (0+0.5)/2 = 0.25, rs = 2.
	value = osc.Update(closeBar(2, 10.5), 1.0)
	suite.True(value.Warm)
	suite.InDelta(100-100.0/3, value.RSI, 1e-9)
	suite.Equal(4.0, value.AdaptivePeriod)
}

func (suite *OscillatorTestSuite) TestAdaptivePeriodRespectsBounds() {
	osc := suite.newOscillator(OscillatorConfig{
		RSILength: 3, MinPeriod: 2, MaxPeriod: 6,
		AdaptiveSensitivity: types.Float(10), SmoothingLength: 2,
	})

	closes := []float64{10, 12, 9, 14, 8, 15, 7, 16, 10, 13}
	ratios := []float64{0.5, 1, 2, 4, 8, 1, 0.2, 3, 1, 5}

	for i, c := range closes {
		value := osc.Update(closeBar(i, c), ratios[i])
		suite.GreaterOrEqual(value.AdaptivePeriod, 2.0)
		suite.LessOrEqual(value.AdaptivePeriod, 6.0)
	}
}

func (suite *OscillatorTestSuite) TestFlatHistoryLogsWarning() {
	osc := suite.newOscillator(OscillatorConfig{
		RSILength: 2, MinPeriod: 2, MaxPeriod: 4,
		AdaptiveSensitivity: types.Float(1), SmoothingLength: 1,
	})

	for i := 0; i < 3; i++ {
		osc.Update(closeBar(i, 42), 1.0)
	}

	entries, err := suite.sink.GetLogs()
	suite.NoError(err)

	var warned bool

	for _, entry := range entries {
		if entry.Level == types.LogLevelWarn {
			warned = true
		}
	}

	suite.True(warned, "flat history should be logged at warning level")
}
