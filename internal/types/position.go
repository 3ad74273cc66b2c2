package types

// PositionView is a read-only view of which symbols are currently held.
// The rotator consults it at rebalance time and never mutates it; order
// execution and broker accounting live outside this core.
type PositionView interface {
	Held(symbol string) bool
}

// Holdings is a map-backed PositionView.
type Holdings map[string]bool

// Held implements PositionView.
func (h Holdings) Held(symbol string) bool {
	return h[symbol]
}
