package backtest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dkoval/chronos/internal/core"
	"github.com/dkoval/chronos/internal/strategy"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaxSweepCombinations bounds the parameter grid size.
const MaxSweepCombinations = 100

// ParamRange describes one swept parameter: either a numeric range or
// an explicit list of choices.
type ParamRange struct {
	Type    string  `json:"type"` // "range" or "choices"
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Choices []any   `json:"choices"`
}

// SweepRequest describes a full parameter sweep.
type SweepRequest struct {
	Symbol      string
	Start       time.Time
	End         time.Time
	Config      Config
	Ranges      map[string]ParamRange
	Objective   string // Stats metric name; defaults to sharpe_ratio
	TopN        int
	Concurrency int
}

// ComboResult is the outcome of one parameter combination.
type ComboResult struct {
	Params  map[string]any
	Stats   Stats
	Skipped bool   // true when the combination had no data
	Error   string // non-empty when the run failed
}

// SweepResult holds the ranked outcome of a sweep.
type SweepResult struct {
	Strategy  string
	Symbol    string
	Objective string
	Evaluated int
	Skipped   int
	Failed    int
	Best      []ComboResult // Ranked by objective, best first, capped at TopN
}

// StrategyFactory builds a fresh strategy instance per combination so
// parallel runs never share parameter state.
type StrategyFactory func() strategy.Strategy

// ComboRecorder counts sweep combination outcomes. Satisfied by
// metrics.Registry.
type ComboRecorder interface {
	RecordSweepCombination(status string)
}

// Sweeper runs parameter sweeps on top of a replay engine.
type Sweeper struct {
	engine   *Engine
	logger   *zap.Logger
	recorder ComboRecorder
}

// NewSweeper creates a sweeper.
func NewSweeper(engine *Engine, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{engine: engine, logger: logger}
}

// SetRecorder attaches a combination recorder. Optional; nil disables
// recording.
func (s *Sweeper) SetRecorder(r ComboRecorder) {
	s.recorder = r
}

// Run expands the parameter grid and backtests every combination in
// parallel. Individual combination failures are captured in the result
// set and never abort the sweep.
func (s *Sweeper) Run(ctx context.Context, factory StrategyFactory, req SweepRequest) (*SweepResult, error) {
	combos, err := ExpandGrid(req.Ranges, MaxSweepCombinations)
	if err != nil {
		return nil, err
	}

	objective := req.Objective
	if objective == "" {
		objective = "sharpe_ratio"
	}
	topN := req.TopN
	if topN <= 0 {
		topN = 10
	}
	concurrency := req.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	results := make([]ComboResult, len(combos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, combo := range combos {
		g.Go(func() error {
			results[i] = s.runCombo(gctx, factory, req, combo)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	out := &SweepResult{
		Symbol:    req.Symbol,
		Objective: objective,
		Evaluated: len(results),
	}
	if strat := factory(); strat != nil {
		out.Strategy = strat.Name()
	}

	var ranked []ComboResult
	for _, r := range results {
		switch {
		case r.Skipped:
			out.Skipped++
		case r.Error != "":
			out.Failed++
		default:
			ranked = append(ranked, r)
		}
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Stats.Metric(objective) > ranked[b].Stats.Metric(objective)
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	out.Best = ranked

	return out, nil
}

// runCombo backtests a single parameter combination.
func (s *Sweeper) runCombo(ctx context.Context, factory StrategyFactory, req SweepRequest, params map[string]any) ComboResult {
	combo := ComboResult{Params: params}

	strat := factory()
	if err := strat.Init(strategy.Config{Enabled: true, Params: params}); err != nil {
		combo.Error = err.Error()
		s.recordCombo("failed")
		return combo
	}

	result, err := s.engine.Run(ctx, strat, req.Symbol, req.Start, req.End, req.Config)
	switch {
	case errors.Is(err, core.ErrNoData):
		combo.Skipped = true
		s.recordCombo("skipped")
	case err != nil:
		s.logger.Warn("sweep combination failed",
			zap.String("symbol", req.Symbol),
			zap.Any("params", params),
			zap.Error(err),
		)
		combo.Error = err.Error()
		s.recordCombo("failed")
	default:
		combo.Stats = result.Stats
		s.recordCombo("evaluated")
	}
	return combo
}

func (s *Sweeper) recordCombo(status string) {
	if s.recorder != nil {
		s.recorder.RecordSweepCombination(status)
	}
}

// ExpandGrid builds the cartesian product of all parameter ranges.
// Returns an error when the grid exceeds the limit.
func ExpandGrid(ranges map[string]ParamRange, limit int) ([]map[string]any, error) {
	// Deterministic expansion order
	names := make([]string, 0, len(ranges))
	for name := range ranges {
		names = append(names, name)
	}
	sort.Strings(names)

	combos := []map[string]any{{}}
	for _, name := range names {
		values, err := rangeValues(name, ranges[name])
		if err != nil {
			return nil, err
		}

		next := make([]map[string]any, 0, len(combos)*len(values))
		for _, combo := range combos {
			for _, v := range values {
				expanded := make(map[string]any, len(combo)+1)
				for k, existing := range combo {
					expanded[k] = existing
				}
				expanded[name] = v
				next = append(next, expanded)
			}
		}
		combos = next

		if len(combos) > limit {
			return nil, core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("parameter grid exceeds %d combinations", limit))
		}
	}

	return combos, nil
}

func rangeValues(name string, r ParamRange) ([]any, error) {
	switch r.Type {
	case "range":
		if r.Step <= 0 {
			return nil, core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("parameter %s: step must be positive", name))
		}
		if r.Max < r.Min {
			return nil, core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("parameter %s: max below min", name))
		}
		var values []any
		// Half-step tolerance absorbs float accumulation error
		for v := r.Min; v <= r.Max+r.Step/2; v += r.Step {
			values = append(values, v)
		}
		return values, nil
	case "choices":
		if len(r.Choices) == 0 {
			return nil, core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("parameter %s: choices empty", name))
		}
		return r.Choices, nil
	default:
		return nil, core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("parameter %s: unknown range type %q", name, r.Type))
	}
}
