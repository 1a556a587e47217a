package bollinger

import (
	"fmt"

	"github.com/dkoval/chronos/internal/core"
	"github.com/dkoval/chronos/internal/indicator"
	"github.com/dkoval/chronos/internal/strategy"
)

// MeanReversion fades moves outside the Bollinger bands and exits at
// the middle band
type MeanReversion struct {
	period          int
	stdDev          float64
	maxPositionSize float64
}

// New creates a Bollinger mean reversion strategy with default parameters
func New() *MeanReversion {
	return &MeanReversion{
		period:          20,
		stdDev:          2.0,
		maxPositionSize: 1000,
	}
}

func (s *MeanReversion) Name() string {
	return "bollinger_reversion"
}

func (s *MeanReversion) Description() string {
	return fmt.Sprintf("Bollinger mean reversion (%d, %.1f std)", s.period, s.stdDev)
}

func (s *MeanReversion) RequiredData() strategy.DataRequirements {
	return strategy.DataRequirements{
		MinBars:    s.period,
		Indicators: []string{"BOLL"},
	}
}

func (s *MeanReversion) Init(cfg strategy.Config) error {
	s.period = strategy.IntParam(cfg.Params, "period", s.period)
	s.stdDev = strategy.FloatParam(cfg.Params, "std_dev", s.stdDev)
	s.maxPositionSize = strategy.FloatParam(cfg.Params, "max_position_size", s.maxPositionSize)

	if s.period < 2 {
		return fmt.Errorf("period must be at least 2, got %d", s.period)
	}
	if s.stdDev <= 0 {
		return fmt.Errorf("std_dev must be positive, got %f", s.stdDev)
	}
	return nil
}

func (s *MeanReversion) Analyze(ctx strategy.AnalysisContext) ([]core.Signal, error) {
	if len(ctx.Bars) < s.period {
		return nil, nil
	}

	bands := indicator.Bollinger(ctx.Closes(), s.period, s.stdDev)
	if len(bands.Middle) == 0 {
		return nil, nil
	}

	last := len(bands.Middle) - 1
	middle, upper, lower := bands.Middle[last], bands.Upper[last], bands.Lower[last]
	price := ctx.Current().Close

	var signals []core.Signal

	// Exit at the middle band
	if _, ok := ctx.Holding(core.SideLong); ok && price >= middle {
		signals = append(signals, s.closeSignal(ctx, core.SideLong, price,
			fmt.Sprintf("price %.2f reached middle band %.2f", price, middle)))
	}
	if _, ok := ctx.Holding(core.SideShort); ok && price <= middle {
		signals = append(signals, s.closeSignal(ctx, core.SideShort, price,
			fmt.Sprintf("price %.2f reached middle band %.2f", price, middle)))
	}

	// Small tolerance so touches of the band still trigger
	if _, ok := ctx.Holding(core.SideLong); !ok && price <= lower*1.001 {
		signals = append(signals, s.signal(ctx, core.SignalOpenLong, price,
			fmt.Sprintf("price %.2f at lower band %.2f", price, lower)))
	}
	if _, ok := ctx.Holding(core.SideShort); !ok && price >= upper*0.999 {
		signals = append(signals, s.signal(ctx, core.SignalOpenShort, price,
			fmt.Sprintf("price %.2f at upper band %.2f", price, upper)))
	}

	return signals, nil
}

func (s *MeanReversion) signal(ctx strategy.AnalysisContext, st core.SignalType, price float64, reason string) core.Signal {
	return core.Signal{
		Symbol:      ctx.Symbol,
		Type:        st,
		Quantity:    s.maxPositionSize / price,
		Price:       price,
		Confidence:  0.55,
		Reason:      reason,
		GeneratedAt: ctx.Now,
	}
}

func (s *MeanReversion) closeSignal(ctx strategy.AnalysisContext, side core.Side, price float64, reason string) core.Signal {
	sig := s.signal(ctx, core.SignalClose, price, reason)
	sig.Side = side
	return sig
}
