package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/whchien/ai-trader-go/internal/log"
	"github.com/whchien/ai-trader-go/internal/types"
)

type TripleRSITestSuite struct {
	suite.Suite

	sink *log.MemoryLog
}

func TestTripleRSISuite(t *testing.T) {
	suite.Run(t, new(TripleRSITestSuite))
}

func (suite *TripleRSITestSuite) SetupTest() {
	suite.sink = log.NewMemoryLog()
}

func (suite *TripleRSITestSuite) newGate(cfg TripleRSIConfig) *TripleRSI {
	gate, err := NewTripleRSI(cfg, suite.sink)
	suite.Require().NoError(err)

	return gate
}

func (suite *TripleRSITestSuite) TestConfigDefaults() {
	gate, err := NewTripleRSI(TripleRSIConfig{}, nil)
	suite.NoError(err)
	suite.Equal(types.IndicatorTypeTripleRSI, gate.Name())
}

func (suite *TripleRSITestSuite) TestConfigRejectsNonIncreasingPeriods() {
	_, err := NewTripleRSI(TripleRSIConfig{
		ShortPeriod: 60, MidPeriod: 60, LongPeriod: 120,
		Oversold: 55, Overbought: 75,
	}, nil)
	suite.Error(err)
}

func (suite *TripleRSITestSuite) TestConfigRejectsInvertedLevels() {
	_, err := NewTripleRSI(TripleRSIConfig{
		ShortPeriod: 20, MidPeriod: 60, LongPeriod: 120,
		Oversold: 75, Overbought: 55,
	}, nil)
	suite.Error(err)
}

func (suite *TripleRSITestSuite) TestUnwarmedBarsReadNegative() {
	gate := suite.newGate(TripleRSIConfig{
		ShortPeriod: 2, MidPeriod: 3, LongPeriod: 4,
		Oversold: 40, Overbought: 80,
	})

	closes := []float64{10, 9, 10, 11}
	for i, c := range closes {
		value := gate.Update(closeBar(i, c))
		suite.Equal(-1, value.Signal, "bar %d", i)
		suite.False(value.Warm, "bar %d", i)
	}
}

func (suite *TripleRSITestSuite) TestAlignedHorizonsOpenTheGate() {
	gate := suite.newGate(TripleRSIConfig{
		ShortPeriod: 2, MidPeriod: 3, LongPeriod: 4,
		Oversold: 40, Overbought: 80,
	})

	// A dip followed by a steady recovery: by the fifth bar the short RSI
	// is 87.5 against a lag of 50, mid 77.8 under the 80 ceiling, long 75
	// above the 40 floor.
	closes := []float64{10, 9, 10, 11, 12}

	var value TripleRSIValue
	for i, c := range closes {
		value = gate.Update(closeBar(i, c))
	}

	suite.True(value.Warm)
	suite.Equal(1, value.Signal)
	// |75-40| + |77.78-80| + 87.5/50
	suite.InDelta(38.9722, value.Value, 1e-3)
}

func (suite *TripleRSITestSuite) TestOverheatedMidTermClosesTheGate() {
	gate := suite.newGate(TripleRSIConfig{
		ShortPeriod: 2, MidPeriod: 3, LongPeriod: 4,
		Oversold: 5, Overbought: 10,
	})

	closes := []float64{10, 9, 10, 11, 12}

	var value TripleRSIValue
	for i, c := range closes {
		value = gate.Update(closeBar(i, c))
	}

	suite.True(value.Warm)
	suite.Equal(-1, value.Signal)
}

func (suite *TripleRSITestSuite) TestStallingShortTermClosesTheGate() {
	gate := suite.newGate(TripleRSIConfig{
		ShortPeriod: 2, MidPeriod: 3, LongPeriod: 4,
		Oversold: 40, Overbought: 80,
	})

	// Constant closes keep every horizon pinned at neutral 50, so the
	// short RSI never rises against its lag.
	var value TripleRSIValue
	for i := 0; i < 8; i++ {
		value = gate.Update(closeBar(i, 10))
	}

	suite.True(value.Warm)
	suite.Equal(-1, value.Signal)
}
