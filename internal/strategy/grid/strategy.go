package grid

import (
	"fmt"
	"math"

	"github.com/dkoval/chronos/internal/core"
	"github.com/dkoval/chronos/internal/strategy"
)

// Grid buys dips at fixed percentage levels below a base price and
// sells one level above the fill. The base price is the first visible
// close, so replays are deterministic.
type Grid struct {
	levels     int
	spacingPct float64
	orderSize  float64
}

// New creates a grid strategy with default parameters
func New() *Grid {
	return &Grid{
		levels:     10,
		spacingPct: 0.02,
		orderSize:  1000,
	}
}

func (s *Grid) Name() string {
	return "grid"
}

func (s *Grid) Description() string {
	return fmt.Sprintf("Grid (%d levels, %.1f%% spacing)", s.levels, s.spacingPct*100)
}

func (s *Grid) RequiredData() strategy.DataRequirements {
	return strategy.DataRequirements{MinBars: 1}
}

func (s *Grid) Init(cfg strategy.Config) error {
	s.levels = strategy.IntParam(cfg.Params, "levels", s.levels)
	s.spacingPct = strategy.FloatParam(cfg.Params, "spacing_pct", s.spacingPct)
	s.orderSize = strategy.FloatParam(cfg.Params, "order_size", s.orderSize)

	if s.levels < 1 {
		return fmt.Errorf("levels must be at least 1, got %d", s.levels)
	}
	if s.spacingPct <= 0 {
		return fmt.Errorf("spacing_pct must be positive, got %f", s.spacingPct)
	}
	return nil
}

func (s *Grid) Analyze(ctx strategy.AnalysisContext) ([]core.Signal, error) {
	if len(ctx.Bars) == 0 {
		return nil, nil
	}

	base := ctx.Bars[0].Close
	if base <= 0 {
		return nil, nil
	}
	price := ctx.Current().Close

	if pos, ok := ctx.Holding(core.SideLong); ok {
		// Sell one grid step above the fill
		if price >= pos.EntryPrice*(1+s.spacingPct) {
			return []core.Signal{s.closeSignal(ctx, core.SideLong, price,
				fmt.Sprintf("grid sell: %.2f one step above entry %.2f", price, pos.EntryPrice))}, nil
		}
		return nil, nil
	}

	// How many whole steps below base the price has fallen
	drop := (base - price) / base
	level := int(math.Floor(drop / s.spacingPct))
	if level < 1 || level > s.levels {
		return nil, nil
	}

	return []core.Signal{s.signal(ctx, core.SignalOpenLong, price,
		fmt.Sprintf("grid buy: level %d, %.2f%% below base %.2f", level, drop*100, base))}, nil
}

func (s *Grid) signal(ctx strategy.AnalysisContext, st core.SignalType, price float64, reason string) core.Signal {
	return core.Signal{
		Symbol:      ctx.Symbol,
		Type:        st,
		Quantity:    s.orderSize / price,
		Price:       price,
		Confidence:  0.5,
		Reason:      reason,
		GeneratedAt: ctx.Now,
	}
}

func (s *Grid) closeSignal(ctx strategy.AnalysisContext, side core.Side, price float64, reason string) core.Signal {
	sig := s.signal(ctx, core.SignalClose, price, reason)
	sig.Side = side
	return sig
}
