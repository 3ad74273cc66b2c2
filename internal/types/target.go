package types

import "github.com/shopspring/decimal"

// PortfolioTarget maps a symbol to its target portfolio weight. A zero
// weight is an explicit close instruction; absent symbols are untouched.
// The sum of all weights never exceeds 1 - reserve.
type PortfolioTarget map[string]decimal.Decimal

// TotalWeight returns the sum of all assigned weights.
func (t PortfolioTarget) TotalWeight() decimal.Decimal {
	total := decimal.Zero
	for _, w := range t {
		total = total.Add(w)
	}

	return total
}

// Equal reports whether two targets assign identical weights to identical symbols.
func (t PortfolioTarget) Equal(other PortfolioTarget) bool {
	if len(t) != len(other) {
		return false
	}

	for symbol, w := range t {
		ow, ok := other[symbol]
		if !ok || !w.Equal(ow) {
			return false
		}
	}

	return true
}
