package portfolio

import (
	"sort"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/whchien/ai-trader-go/internal/log"
	"github.com/whchien/ai-trader-go/internal/types"
	"github.com/whchien/ai-trader-go/pkg/errors"
)

var validate = validator.New()

// weightPrecision is the decimal-place cutoff of the truncating weight
// division; truncation keeps the summed weights at or under the investable
// fraction exactly.
const weightPrecision = 12

// Config configures the Rotator. Constructed once, immutable thereafter.
type Config struct {
	// TopK is the maximum number of concurrently weighted assets.
	TopK int `yaml:"top_k" json:"top_k" default:"5" validate:"gt=0"`
	// ReserveFraction is withheld from allocation to absorb execution
	// slippage and rounding downstream. Zero is legal and allocates the
	// full portfolio, so the field is a pointer: an explicit zero survives
	// default filling.
	ReserveFraction *float64 `yaml:"reserve_fraction" json:"reserve_fraction" default:"0.05" validate:"omitempty,gte=0,lt=1"`
}

// Rotator converts the current per-asset signal set into target weights:
// exits close first, the remaining candidates are ranked by score, and the
// top K split the investable fraction equally.
type Rotator struct {
	cfg  Config
	sink log.Log
}

// NewRotator builds the allocator, failing fast on configuration errors.
func NewRotator(cfg Config, sink log.Log) (*Rotator, error) {
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRotatorBuildFailed, "failed to apply configuration defaults", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRotatorBuildFailed, "invalid rotator configuration", err)
	}

	return &Rotator{cfg: cfg, sink: sink}, nil
}

// candidate pairs a symbol with its ranking score.
type candidate struct {
	symbol string
	score  float64
	time   time.Time
}

// Rebalance consumes one synchronized signal set together with the current
// holdings view and returns the target weights. A zero weight is an explicit
// close; absent symbols are untouched. An empty candidate set is a defined
// no-op, not a liquidation. Pure with respect to its inputs: an unchanged
// signal set and holdings always yields an identical target.
func (r *Rotator) Rebalance(signals []types.Signal, positions types.PositionView) types.PortfolioTarget {
	target := types.PortfolioTarget{}

	exiting := make(map[string]bool, len(signals))

	// Exits close first, freeing capital before any new weight is issued.
	for _, signal := range signals {
		if signal.Kind != types.SignalKindExit {
			continue
		}

		exiting[signal.Symbol] = true

		if positions.Held(signal.Symbol) {
			target[signal.Symbol] = decimal.Zero

			log.Emit(r.sink, types.LogLevelInfo, signal.Time, signal.Symbol,
				"leaving position", map[string]string{"reason": signal.Reason})
		}
	}

	candidates := make([]candidate, 0, len(signals))

	for _, signal := range signals {
		if exiting[signal.Symbol] {
			continue
		}

		if signal.Kind == types.SignalKindEnter || positions.Held(signal.Symbol) {
			candidates = append(candidates, candidate{symbol: signal.Symbol, score: signal.Score, time: signal.Time})
		}
	}

	if len(candidates) == 0 {
		return target
	}

	// Rank by descending score; ties break on ascending symbol so the
	// output is reproducible across runs.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}

		return candidates[i].symbol < candidates[j].symbol
	})

	if len(candidates) > r.cfg.TopK {
		candidates = candidates[:r.cfg.TopK]
	}

	investable := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(*r.cfg.ReserveFraction))
	weight, _ := investable.QuoRem(decimal.NewFromInt(int64(len(candidates))), weightPrecision)

	for _, c := range candidates {
		target[c.symbol] = weight

		message := "entering position"
		if positions.Held(c.symbol) {
			message = "rebalancing position"
		}

		log.Emit(r.sink, types.LogLevelInfo, c.time, c.symbol, message,
			map[string]string{"weight": weight.String()})
	}

	return target
}
