package replay

import (
	"bytes"
	"io"
	"sort"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"

	"github.com/whchien/ai-trader-go/internal/log"
	"github.com/whchien/ai-trader-go/internal/pipeline"
	"github.com/whchien/ai-trader-go/internal/portfolio"
	"github.com/whchien/ai-trader-go/internal/types"
	"github.com/whchien/ai-trader-go/pkg/errors"
	"github.com/whchien/ai-trader-go/pkg/schema"
)

var validate = validator.New()

// BarSource is a batch iterator over historical bars. Each call returns all
// assets' bars for one timestamp; ok is false once the feed is exhausted.
// Delivery, retries, and backoff are the source's responsibility.
type BarSource interface {
	Next() (bars []types.Bar, ok bool)
}

// SliceBarSource is a BarSource over pre-built batches, used in tests and
// for replaying already-loaded history.
type SliceBarSource struct {
	batches [][]types.Bar
	next    int
}

// NewSliceBarSource builds a source that yields the given batches in order.
func NewSliceBarSource(batches ...[]types.Bar) *SliceBarSource {
	return &SliceBarSource{batches: batches, next: 0}
}

// Next implements BarSource.
func (s *SliceBarSource) Next() ([]types.Bar, bool) {
	if s.next >= len(s.batches) {
		return nil, false
	}

	batch := s.batches[s.next]
	s.next++

	return batch, true
}

// OnTargetCallback observes every target the engine emits, after it has
// been applied to the engine's holdings view.
type OnTargetCallback func(target types.PortfolioTarget)

// Config configures the replay engine.
type Config struct {
	Pipeline pipeline.Config  `yaml:"pipeline" json:"pipeline"`
	Rotator  portfolio.Config `yaml:"rotator" json:"rotator"`
	// RebalanceEvery is the number of batches between rotator invocations.
	RebalanceEvery int `yaml:"rebalance_every" json:"rebalance_every" default:"1" validate:"gt=0"`
}

// ConfigFromYAML decodes a strict YAML document into a validated Config.
func ConfigFromYAML(data []byte) (Config, error) {
	var cfg Config

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to decode replay configuration", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate fills defaults and checks every tag-expressible rule, including
// the nested pipeline and rotator sections.
func (c *Config) Validate() error {
	if err := defaults.Set(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to apply configuration defaults", err)
	}

	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid replay configuration", err)
	}

	return nil
}

// ConfigSchema returns the JSON schema of Config.
func ConfigSchema() (string, error) {
	return schema.ToJSONSchema(Config{})
}

// Engine drives a synchronous, single-pass, causal replay over a multi-asset
// bar feed. Per-asset pipelines are created lazily and exclusively own their
// state; the rotator is the synchronization barrier and only runs once every
// pipeline has produced its signal for the current timestamp.
type Engine struct {
	cfg  Config
	sink log.Log

	rotator   *portfolio.Rotator
	pipelines map[string]*pipeline.SignalPipeline
	holdings  types.Holdings
	pending   map[string]types.Signal

	lastTime optional.Option[time.Time]
	batches  int

	onTarget optional.Option[OnTargetCallback]
}

// NewEngine builds a replay engine, failing fast on configuration errors.
// The callback, when present, observes every emitted target.
func NewEngine(cfg Config, sink log.Log, onTarget optional.Option[OnTargetCallback]) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rotator, err := portfolio.NewRotator(cfg.Rotator, sink)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:       cfg,
		sink:      sink,
		rotator:   rotator,
		pipelines: make(map[string]*pipeline.SignalPipeline),
		holdings:  types.Holdings{},
		pending:   make(map[string]types.Signal),
		lastTime:  optional.None[time.Time](),
		batches:   0,
		onTarget:  onTarget,
	}, nil
}

// OnBarBatch consumes all assets' bars for one timestamp. The batch must be
// uniform (one timestamp, one bar per symbol) and strictly later than the
// previous batch. Every pipeline updates before the rotator runs; the
// returned target is nil on non-rebalance batches. Signals from skipped
// batches carry over: an enter or exit stays pending until the next
// rebalance consumes it.
func (e *Engine) OnBarBatch(bars []types.Bar) (types.PortfolioTarget, error) {
	if len(bars) == 0 {
		return nil, nil
	}

	if err := e.checkBatch(bars); err != nil {
		return nil, err
	}

	e.lastTime = optional.Some(bars[0].Time)

	for _, bar := range bars {
		p, ok := e.pipelines[bar.Symbol]
		if !ok {
			built, err := pipeline.NewSignalPipeline(e.cfg.Pipeline, e.sink)
			if err != nil {
				return nil, err
			}

			e.pipelines[bar.Symbol] = built
			p = built

			log.Emit(e.sink, types.LogLevelInfo, bar.Time, bar.Symbol,
				"pipeline created for new symbol", nil)
		}

		_, signal := p.Update(bar)
		e.record(signal)
	}

	e.batches++

	if e.batches%e.cfg.RebalanceEvery != 0 {
		return nil, nil
	}

	target := e.rotator.Rebalance(e.drainPending(), e.holdings)
	e.apply(target)

	e.onTarget.IfSome(func(callback OnTargetCallback) {
		callback(target)
	})

	return target, nil
}

// record folds one signal into the pending set. Enters and exits replace
// whatever is pending for the symbol; a hold never demotes a pending enter
// or exit, it only refreshes its score and time so the rotator ranks on the
// latest reading.
func (e *Engine) record(signal types.Signal) {
	prev, ok := e.pending[signal.Symbol]
	if ok && signal.Kind == types.SignalKindHold && prev.Kind != types.SignalKindHold {
		prev.Score = signal.Score
		prev.Time = signal.Time
		e.pending[signal.Symbol] = prev

		return
	}

	e.pending[signal.Symbol] = signal
}

// drainPending returns the pending signals in symbol order and resets the
// pending set for the next rebalance interval.
func (e *Engine) drainPending() []types.Signal {
	symbols := make([]string, 0, len(e.pending))
	for symbol := range e.pending {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	signals := make([]types.Signal, 0, len(symbols))
	for _, symbol := range symbols {
		signals = append(signals, e.pending[symbol])
	}

	e.pending = make(map[string]types.Signal)

	return signals
}

// checkBatch enforces the causality guarantees: one timestamp per batch, at
// most one bar per symbol, timestamps strictly advancing across batches.
func (e *Engine) checkBatch(bars []types.Bar) error {
	batchTime := bars[0].Time
	seen := make(map[string]bool, len(bars))

	for _, bar := range bars {
		if !bar.Time.Equal(batchTime) {
			return errors.Newf(errors.ErrCodeMixedBatch,
				"mixed timestamps in batch: %s and %s", batchTime, bar.Time)
		}

		if seen[bar.Symbol] {
			return errors.Newf(errors.ErrCodeMixedBatch,
				"duplicate symbol %s in batch", bar.Symbol)
		}

		seen[bar.Symbol] = true
	}

	last, err := e.lastTime.Take()
	if err == nil && !batchTime.After(last) {
		return errors.Newf(errors.ErrCodeOutOfOrderBar,
			"batch time %s does not advance past %s", batchTime, last)
	}

	return nil
}

// apply folds a target into the holdings view: held iff weight > 0.
func (e *Engine) apply(target types.PortfolioTarget) {
	for symbol, weight := range target {
		if weight.IsPositive() {
			e.holdings[symbol] = true
		} else {
			delete(e.holdings, symbol)
		}
	}
}

// Run drains the source until exhaustion and returns the last emitted
// target. Early termination of the feed stops the replay without error.
func (e *Engine) Run(source BarSource) (types.PortfolioTarget, error) {
	var last types.PortfolioTarget

	for {
		batch, ok := source.Next()
		if !ok {
			return last, nil
		}

		target, err := e.OnBarBatch(batch)
		if err != nil {
			return last, err
		}

		if target != nil {
			last = target
		}
	}
}

// RemoveSymbol drops an asset's pipeline state, pending signal, and holding
// when it leaves the replay universe.
func (e *Engine) RemoveSymbol(symbol string) {
	delete(e.pipelines, symbol)
	delete(e.pending, symbol)
	delete(e.holdings, symbol)
}

// Holdings returns a copy of the current holdings view.
func (e *Engine) Holdings() types.Holdings {
	held := make(types.Holdings, len(e.holdings))
	for symbol, ok := range e.holdings {
		held[symbol] = ok
	}

	return held
}
