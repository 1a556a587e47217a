package rsi

import (
	"fmt"

	"github.com/dkoval/chronos/internal/core"
	"github.com/dkoval/chronos/internal/indicator"
	"github.com/dkoval/chronos/internal/strategy"
)

// RSIReversal trades oversold/overbought reversals on the RSI oscillator
type RSIReversal struct {
	period          int
	overbought      float64
	oversold        float64
	takeProfitPct   float64
	stopLossPct     float64
	maxPositionSize float64
}

// New creates an RSI reversal strategy with default parameters
func New() *RSIReversal {
	return &RSIReversal{
		period:          14,
		overbought:      70,
		oversold:        30,
		takeProfitPct:   0.05,
		stopLossPct:     0.03,
		maxPositionSize: 1000,
	}
}

func (s *RSIReversal) Name() string {
	return "rsi_reversal"
}

func (s *RSIReversal) Description() string {
	return fmt.Sprintf("RSI reversal (%d, %.0f/%.0f)", s.period, s.oversold, s.overbought)
}

func (s *RSIReversal) RequiredData() strategy.DataRequirements {
	return strategy.DataRequirements{
		MinBars:    s.period + 1,
		Indicators: []string{"RSI"},
	}
}

func (s *RSIReversal) Init(cfg strategy.Config) error {
	s.period = strategy.IntParam(cfg.Params, "period", s.period)
	s.overbought = strategy.FloatParam(cfg.Params, "overbought", s.overbought)
	s.oversold = strategy.FloatParam(cfg.Params, "oversold", s.oversold)
	s.takeProfitPct = strategy.FloatParam(cfg.Params, "take_profit_pct", s.takeProfitPct)
	s.stopLossPct = strategy.FloatParam(cfg.Params, "stop_loss_pct", s.stopLossPct)
	s.maxPositionSize = strategy.FloatParam(cfg.Params, "max_position_size", s.maxPositionSize)

	if s.oversold >= s.overbought {
		return fmt.Errorf("oversold (%.1f) must be below overbought (%.1f)", s.oversold, s.overbought)
	}
	return nil
}

func (s *RSIReversal) Analyze(ctx strategy.AnalysisContext) ([]core.Signal, error) {
	if len(ctx.Bars) < s.period+1 {
		return nil, nil
	}

	values := indicator.RSI(ctx.Closes(), s.period)
	if len(values) == 0 {
		return nil, nil
	}
	rsi := values[len(values)-1]
	price := ctx.Current().Close

	var signals []core.Signal

	// Exit checks before entries
	if pos, ok := ctx.Holding(core.SideLong); ok {
		change := (price - pos.EntryPrice) / pos.EntryPrice
		if rsi >= 50 || change >= s.takeProfitPct || change <= -s.stopLossPct {
			signals = append(signals, s.closeSignal(ctx, core.SideLong, price,
				fmt.Sprintf("long exit: RSI %.1f, change %.2f%%", rsi, change*100)))
		}
	}
	if pos, ok := ctx.Holding(core.SideShort); ok {
		change := (pos.EntryPrice - price) / pos.EntryPrice
		if rsi <= 50 || change >= s.takeProfitPct || change <= -s.stopLossPct {
			signals = append(signals, s.closeSignal(ctx, core.SideShort, price,
				fmt.Sprintf("short exit: RSI %.1f, change %.2f%%", rsi, change*100)))
		}
	}

	if _, ok := ctx.Holding(core.SideLong); !ok && rsi <= s.oversold {
		signals = append(signals, s.signal(ctx, core.SignalOpenLong, price,
			fmt.Sprintf("RSI %.1f below oversold %.1f", rsi, s.oversold)))
	}
	if _, ok := ctx.Holding(core.SideShort); !ok && rsi >= s.overbought {
		signals = append(signals, s.signal(ctx, core.SignalOpenShort, price,
			fmt.Sprintf("RSI %.1f above overbought %.1f", rsi, s.overbought)))
	}

	return signals, nil
}

func (s *RSIReversal) signal(ctx strategy.AnalysisContext, st core.SignalType, price float64, reason string) core.Signal {
	return core.Signal{
		Symbol:      ctx.Symbol,
		Type:        st,
		Quantity:    s.maxPositionSize / price,
		Price:       price,
		Confidence:  0.6,
		Reason:      reason,
		GeneratedAt: ctx.Now,
	}
}

func (s *RSIReversal) closeSignal(ctx strategy.AnalysisContext, side core.Side, price float64, reason string) core.Signal {
	sig := s.signal(ctx, core.SignalClose, price, reason)
	sig.Side = side
	return sig
}
