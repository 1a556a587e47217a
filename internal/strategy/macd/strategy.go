package macd

import (
	"fmt"
	"math"

	"github.com/dkoval/chronos/internal/core"
	"github.com/dkoval/chronos/internal/indicator"
	"github.com/dkoval/chronos/internal/strategy"
)

// Crossover trades MACD/signal line crossovers
type Crossover struct {
	fastPeriod      int
	slowPeriod      int
	signalPeriod    int
	minStrength     float64
	maxPositionSize float64
}

// New creates a MACD crossover strategy with default parameters
func New() *Crossover {
	return &Crossover{
		fastPeriod:      12,
		slowPeriod:      26,
		signalPeriod:    9,
		minStrength:     0.1,
		maxPositionSize: 1000,
	}
}

func (s *Crossover) Name() string {
	return "macd_crossover"
}

func (s *Crossover) Description() string {
	return fmt.Sprintf("MACD crossover (%d/%d/%d)", s.fastPeriod, s.slowPeriod, s.signalPeriod)
}

func (s *Crossover) RequiredData() strategy.DataRequirements {
	return strategy.DataRequirements{
		MinBars:    s.slowPeriod + s.signalPeriod + 1,
		Indicators: []string{"MACD"},
	}
}

func (s *Crossover) Init(cfg strategy.Config) error {
	s.fastPeriod = strategy.IntParam(cfg.Params, "fast_period", s.fastPeriod)
	s.slowPeriod = strategy.IntParam(cfg.Params, "slow_period", s.slowPeriod)
	s.signalPeriod = strategy.IntParam(cfg.Params, "signal_period", s.signalPeriod)
	s.minStrength = strategy.FloatParam(cfg.Params, "min_strength", s.minStrength)
	s.maxPositionSize = strategy.FloatParam(cfg.Params, "max_position_size", s.maxPositionSize)

	if s.fastPeriod >= s.slowPeriod {
		return fmt.Errorf("fast_period (%d) must be below slow_period (%d)", s.fastPeriod, s.slowPeriod)
	}
	return nil
}

func (s *Crossover) Analyze(ctx strategy.AnalysisContext) ([]core.Signal, error) {
	if len(ctx.Bars) < s.slowPeriod+s.signalPeriod+1 {
		return nil, nil
	}

	res := indicator.MACD(ctx.Closes(), s.fastPeriod, s.slowPeriod, s.signalPeriod)
	if len(res.Signal) < 2 {
		return nil, nil
	}

	// Compare the last two line/signal pairs for a crossover
	currLine := res.Line[len(res.Line)-1]
	prevLine := res.Line[len(res.Line)-2]
	currSig := res.Signal[len(res.Signal)-1]
	prevSig := res.Signal[len(res.Signal)-2]

	hist := currLine - currSig
	price := ctx.Current().Close

	var signals []core.Signal

	// Bullish cross: line moves above signal
	if prevLine <= prevSig && currLine > currSig && math.Abs(hist) >= s.minStrength {
		if _, ok := ctx.Holding(core.SideShort); ok {
			signals = append(signals, s.closeSignal(ctx, core.SideShort, price,
				"bullish MACD cross against open short"))
		}
		if _, ok := ctx.Holding(core.SideLong); !ok {
			signals = append(signals, s.signal(ctx, core.SignalOpenLong, price,
				fmt.Sprintf("MACD %.4f crossed above signal %.4f", currLine, currSig)))
		}
	}

	// Bearish cross: line moves below signal
	if prevLine >= prevSig && currLine < currSig && math.Abs(hist) >= s.minStrength {
		if _, ok := ctx.Holding(core.SideLong); ok {
			signals = append(signals, s.closeSignal(ctx, core.SideLong, price,
				"bearish MACD cross against open long"))
		}
		if _, ok := ctx.Holding(core.SideShort); !ok {
			signals = append(signals, s.signal(ctx, core.SignalOpenShort, price,
				fmt.Sprintf("MACD %.4f crossed below signal %.4f", currLine, currSig)))
		}
	}

	return signals, nil
}

func (s *Crossover) signal(ctx strategy.AnalysisContext, st core.SignalType, price float64, reason string) core.Signal {
	return core.Signal{
		Symbol:      ctx.Symbol,
		Type:        st,
		Quantity:    s.maxPositionSize / price,
		Price:       price,
		Confidence:  0.65,
		Reason:      reason,
		GeneratedAt: ctx.Now,
	}
}

func (s *Crossover) closeSignal(ctx strategy.AnalysisContext, side core.Side, price float64, reason string) core.Signal {
	sig := s.signal(ctx, core.SignalClose, price, reason)
	sig.Side = side
	return sig
}
