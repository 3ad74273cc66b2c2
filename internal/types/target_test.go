package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TargetTestSuite struct {
	suite.Suite
}

func TestTargetSuite(t *testing.T) {
	suite.Run(t, new(TargetTestSuite))
}

func (suite *TargetTestSuite) TestTotalWeight() {
	target := PortfolioTarget{
		"AAPL": decimal.RequireFromString("0.475"),
		"MSFT": decimal.RequireFromString("0.475"),
		"GOOG": decimal.Zero,
	}

	suite.True(target.TotalWeight().Equal(decimal.RequireFromString("0.95")))
}

func (suite *TargetTestSuite) TestTotalWeightEmpty() {
	suite.True(PortfolioTarget{}.TotalWeight().IsZero())
}

func (suite *TargetTestSuite) TestEqual() {
	a := PortfolioTarget{"AAPL": decimal.RequireFromString("0.475")}
	b := PortfolioTarget{"AAPL": decimal.RequireFromString("0.4750")}
	c := PortfolioTarget{"AAPL": decimal.RequireFromString("0.5")}
	d := PortfolioTarget{"MSFT": decimal.RequireFromString("0.475")}

	suite.True(a.Equal(b))
	suite.False(a.Equal(c))
	suite.False(a.Equal(d))
	suite.False(a.Equal(PortfolioTarget{}))
}

func (suite *TargetTestSuite) TestHoldingsView() {
	holdings := Holdings{"AAPL": true}

	suite.True(holdings.Held("AAPL"))
	suite.False(holdings.Held("MSFT"))
}
