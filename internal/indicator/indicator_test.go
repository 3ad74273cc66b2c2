package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/whchien/ai-trader-go/internal/types"
)

// testBar builds a bar for the given day offset with full OHLC control.
func testBar(day int, open, high, low, close float64) types.Bar {
	return types.Bar{
		Symbol: "TEST",
		Time:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: 1000,
	}
}

// closeBar builds a zero-range bar where all prices equal close.
func closeBar(day int, close float64) types.Bar {
	return testBar(day, close, close, close, close)
}

type ReadingTestSuite struct {
	suite.Suite
}

func TestReadingSuite(t *testing.T) {
	suite.Run(t, new(ReadingTestSuite))
}

func (suite *ReadingTestSuite) TestOK() {
	r := OK(1.25)
	suite.Equal(1.25, r.Value)
	suite.False(r.Degenerate)
}

func (suite *ReadingTestSuite) TestFallback() {
	r := Fallback(1.0)
	suite.Equal(1.0, r.Value)
	suite.True(r.Degenerate)
}

func (suite *ReadingTestSuite) TestConfigureAppliesDefaults() {
	cfg := VolatilityConfig{}
	suite.NoError(configure(&cfg))
	suite.Equal(14, cfg.ATRLength)
	suite.Equal(50, cfg.ATRMAPeriod)
}

func (suite *ReadingTestSuite) TestConfigureRejectsInvalid() {
	cfg := VolatilityConfig{ATRLength: -3, ATRMAPeriod: 10}
	suite.Error(configure(&cfg))
}
