// Package indicator implements the streaming technical indicators behind
// the adaptive signal pipeline. Every component owns per-asset mutable
// state, consumes one bar at a time, and degrades to documented neutral
// values instead of erroring on thin or degenerate history.
package indicator

import (
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/whchien/ai-trader-go/pkg/errors"
)

// Reading is the outcome of a per-bar computation. A degenerate reading
// carries the documented neutral fallback instead of a computed value, so
// the fallback path is visible to callers rather than hidden in a recover.
type Reading struct {
	Value      float64
	Degenerate bool
}

// OK wraps a successfully computed value.
func OK(value float64) Reading {
	return Reading{Value: value, Degenerate: false}
}

// Fallback wraps a neutral default taken because the computation was
// degenerate (insufficient history or a zero denominator).
func Fallback(value float64) Reading {
	return Reading{Value: value, Degenerate: true}
}

var validate = validator.New()

// configure fills default values into zero-valued fields and runs tag
// validation. Components call it first in their constructors; cross-field
// rules that tags cannot express are checked afterwards.
func configure(cfg any) error {
	if err := defaults.Set(cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to apply config defaults", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "config validation failed", err)
	}

	return nil
}
