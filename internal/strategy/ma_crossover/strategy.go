package ma_crossover

import (
	"fmt"

	"github.com/dkoval/chronos/internal/core"
	"github.com/dkoval/chronos/internal/indicator"
	"github.com/dkoval/chronos/internal/strategy"
)

// MACrossover implements a moving average crossover strategy
type MACrossover struct {
	fastPeriod      int
	slowPeriod      int
	maxPositionSize float64
}

// New creates a new MA Crossover strategy
func New(fastPeriod, slowPeriod int) *MACrossover {
	return &MACrossover{
		fastPeriod:      fastPeriod,
		slowPeriod:      slowPeriod,
		maxPositionSize: 1000,
	}
}

func (m *MACrossover) Name() string {
	return "ma_crossover"
}

func (m *MACrossover) Description() string {
	return fmt.Sprintf("MA Crossover (%d/%d)", m.fastPeriod, m.slowPeriod)
}

func (m *MACrossover) RequiredData() strategy.DataRequirements {
	return strategy.DataRequirements{
		MinBars:    m.slowPeriod + 1,
		Indicators: []string{"SMA"},
	}
}

func (m *MACrossover) Init(cfg strategy.Config) error {
	m.fastPeriod = strategy.IntParam(cfg.Params, "fast_period", m.fastPeriod)
	m.slowPeriod = strategy.IntParam(cfg.Params, "slow_period", m.slowPeriod)
	m.maxPositionSize = strategy.FloatParam(cfg.Params, "max_position_size", m.maxPositionSize)

	if m.fastPeriod >= m.slowPeriod {
		return fmt.Errorf("fast_period (%d) must be below slow_period (%d)", m.fastPeriod, m.slowPeriod)
	}
	return nil
}

func (m *MACrossover) Analyze(ctx strategy.AnalysisContext) ([]core.Signal, error) {
	if len(ctx.Bars) < m.slowPeriod+1 {
		return nil, nil
	}

	prices := ctx.Closes()
	fastMA := indicator.SMA(prices, m.fastPeriod)
	slowMA := indicator.SMA(prices, m.slowPeriod)

	if len(fastMA) < 2 || len(slowMA) < 2 {
		return nil, nil
	}

	currFast := fastMA[len(fastMA)-1]
	prevFast := fastMA[len(fastMA)-2]
	currSlow := slowMA[len(slowMA)-1]
	prevSlow := slowMA[len(slowMA)-2]

	price := ctx.Current().Close
	var signals []core.Signal

	// Golden Cross: fast crosses above slow
	if prevFast <= prevSlow && currFast > currSlow {
		if _, ok := ctx.Holding(core.SideShort); ok {
			signals = append(signals, m.closeSignal(ctx, core.SideShort, price,
				"golden cross against open short"))
		}
		if _, ok := ctx.Holding(core.SideLong); !ok {
			signals = append(signals, m.signal(ctx, core.SignalOpenLong, price,
				fmt.Sprintf("Golden Cross: MA%d (%.2f) crossed above MA%d (%.2f)",
					m.fastPeriod, currFast, m.slowPeriod, currSlow)))
		}
	}

	// Death Cross: fast crosses below slow
	if prevFast >= prevSlow && currFast < currSlow {
		if _, ok := ctx.Holding(core.SideLong); ok {
			signals = append(signals, m.closeSignal(ctx, core.SideLong, price,
				"death cross against open long"))
		}
		if _, ok := ctx.Holding(core.SideShort); !ok {
			signals = append(signals, m.signal(ctx, core.SignalOpenShort, price,
				fmt.Sprintf("Death Cross: MA%d (%.2f) crossed below MA%d (%.2f)",
					m.fastPeriod, currFast, m.slowPeriod, currSlow)))
		}
	}

	return signals, nil
}

func (m *MACrossover) signal(ctx strategy.AnalysisContext, st core.SignalType, price float64, reason string) core.Signal {
	return core.Signal{
		Symbol:      ctx.Symbol,
		Type:        st,
		Quantity:    m.maxPositionSize / price,
		Price:       price,
		Confidence:  0.6,
		Reason:      reason,
		GeneratedAt: ctx.Now,
	}
}

func (m *MACrossover) closeSignal(ctx strategy.AnalysisContext, side core.Side, price float64, reason string) core.Signal {
	sig := m.signal(ctx, core.SignalClose, price, reason)
	sig.Side = side
	return sig
}
