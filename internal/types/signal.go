package types

import "time"

type SignalKind string

const (
	// SignalKindEnter is a signal that tells the allocator to open a position
	SignalKindEnter SignalKind = "enter"
	// SignalKindExit is a signal that tells the allocator to close a position
	SignalKindExit SignalKind = "exit"
	// SignalKindHold is a signal that tells the allocator to take no action
	SignalKindHold SignalKind = "hold"
)

// Signal is the per-asset, per-bar decision emitted by the combinator.
type Signal struct {
	// ID uniquely identifies the signal for downstream order correlation
	ID string
	// Symbol is the asset the signal applies to
	Symbol string
	// Time is the bar time the signal was produced at
	Time time.Time
	// Kind is the decision: enter, exit, or hold
	Kind SignalKind
	// Score ranks the asset at rebalance time
	Score float64
	// Reason is a human-readable explanation for the decision
	Reason string
}
