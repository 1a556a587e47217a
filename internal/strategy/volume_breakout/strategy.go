package volume_breakout

import (
	"fmt"

	"github.com/dkoval/chronos/internal/core"
	"github.com/dkoval/chronos/internal/strategy"
)

// Breakout enters on volume-confirmed breakouts above the recent range
type Breakout struct {
	lookback        int
	volumeMult      float64
	breakoutPct     float64
	fadeMult        float64
	takeProfitPct   float64
	stopLossPct     float64
	maxPositionSize float64
}

// New creates a volume breakout strategy with default parameters
func New() *Breakout {
	return &Breakout{
		lookback:        20,
		volumeMult:      2.0,
		breakoutPct:     0.015,
		fadeMult:        1.0,
		takeProfitPct:   0.06,
		stopLossPct:     0.03,
		maxPositionSize: 1000,
	}
}

func (s *Breakout) Name() string {
	return "volume_breakout"
}

func (s *Breakout) Description() string {
	return fmt.Sprintf("Volume breakout (%.1fx volume, %.1f%% range break)",
		s.volumeMult, s.breakoutPct*100)
}

func (s *Breakout) RequiredData() strategy.DataRequirements {
	return strategy.DataRequirements{
		MinBars: s.lookback + 1,
	}
}

func (s *Breakout) Init(cfg strategy.Config) error {
	s.lookback = strategy.IntParam(cfg.Params, "lookback", s.lookback)
	s.volumeMult = strategy.FloatParam(cfg.Params, "volume_mult", s.volumeMult)
	s.breakoutPct = strategy.FloatParam(cfg.Params, "breakout_pct", s.breakoutPct)
	s.fadeMult = strategy.FloatParam(cfg.Params, "fade_mult", s.fadeMult)
	s.takeProfitPct = strategy.FloatParam(cfg.Params, "take_profit_pct", s.takeProfitPct)
	s.stopLossPct = strategy.FloatParam(cfg.Params, "stop_loss_pct", s.stopLossPct)
	s.maxPositionSize = strategy.FloatParam(cfg.Params, "max_position_size", s.maxPositionSize)

	if s.lookback < 2 {
		return fmt.Errorf("lookback must be at least 2, got %d", s.lookback)
	}
	return nil
}

func (s *Breakout) Analyze(ctx strategy.AnalysisContext) ([]core.Signal, error) {
	if len(ctx.Bars) < s.lookback+1 {
		return nil, nil
	}

	curr := ctx.Current()
	window := ctx.Bars[len(ctx.Bars)-1-s.lookback : len(ctx.Bars)-1]

	var highestHigh, avgVolume float64
	for _, b := range window {
		if b.High > highestHigh {
			highestHigh = b.High
		}
		avgVolume += b.Volume
	}
	avgVolume /= float64(len(window))

	var signals []core.Signal

	if pos, ok := ctx.Holding(core.SideLong); ok {
		change := (curr.Close - pos.EntryPrice) / pos.EntryPrice
		switch {
		case change >= s.takeProfitPct:
			signals = append(signals, s.closeSignal(ctx, core.SideLong, curr.Close,
				fmt.Sprintf("take profit at %.2f%%", change*100)))
		case change <= -s.stopLossPct:
			signals = append(signals, s.closeSignal(ctx, core.SideLong, curr.Close,
				fmt.Sprintf("stop loss at %.2f%%", change*100)))
		case avgVolume > 0 && curr.Volume < s.fadeMult*avgVolume:
			signals = append(signals, s.closeSignal(ctx, core.SideLong, curr.Close,
				"volume faded below average"))
		}
		return signals, nil
	}

	volumeSurge := avgVolume > 0 && curr.Volume >= s.volumeMult*avgVolume
	breakout := curr.Close >= highestHigh*(1+s.breakoutPct)

	if volumeSurge && breakout {
		signals = append(signals, s.signal(ctx, core.SignalOpenLong, curr.Close,
			fmt.Sprintf("close %.2f broke %.2f on %.1fx volume",
				curr.Close, highestHigh, curr.Volume/avgVolume)))
	}

	return signals, nil
}

func (s *Breakout) signal(ctx strategy.AnalysisContext, st core.SignalType, price float64, reason string) core.Signal {
	return core.Signal{
		Symbol:      ctx.Symbol,
		Type:        st,
		Quantity:    s.maxPositionSize / price,
		Price:       price,
		Confidence:  0.7,
		Reason:      reason,
		GeneratedAt: ctx.Now,
	}
}

func (s *Breakout) closeSignal(ctx strategy.AnalysisContext, side core.Side, price float64, reason string) core.Signal {
	sig := s.signal(ctx, core.SignalClose, price, reason)
	sig.Side = side
	return sig
}
