package backtest

import (
	"context"
	"time"

	"github.com/dkoval/chronos/internal/core"
	"github.com/dkoval/chronos/internal/strategy"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BarProvider defines the interface for fetching historical bars
type BarProvider interface {
	FetchBars(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.Bar, error)
}

// SignalRecorder counts signals as the engine applies them. Satisfied
// by metrics.Registry.
type SignalRecorder interface {
	RecordSignal(strategy, signalType string)
}

// Engine replays historical bars through a strategy, applying its
// signals to a position ledger bar by bar.
type Engine struct {
	provider BarProvider
	logger   *zap.Logger
	recorder SignalRecorder
}

// New creates a new replay engine with the given bar provider
func New(provider BarProvider, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		provider: provider,
		logger:   logger,
	}
}

// SetRecorder attaches a signal recorder. Optional; nil disables
// recording.
func (e *Engine) SetRecorder(r SignalRecorder) {
	e.recorder = r
}

// Run executes a backtest for the given strategy and symbol over the
// specified time range. At step i the strategy sees exactly the first
// i+1 bars; all fills happen at the close of the bar that produced the
// signal. When no data exists in the range the returned result is
// empty and the error matches core.ErrNoData, so sweep callers can
// skip the combination.
func (e *Engine) Run(ctx context.Context, strat strategy.Strategy, symbol string, start, end time.Time, cfg Config) (*Result, error) {
	if !end.After(start) {
		return nil, core.ErrInvalidRange
	}
	if cfg.Interval == "" {
		cfg.Interval = "1h"
	}
	if cfg.RiskFreeRate == 0 {
		cfg.RiskFreeRate = DefaultRiskFreeRate
	}

	bars, err := e.provider.FetchBars(ctx, symbol, start, end, cfg.Interval)
	if err != nil {
		return nil, core.WrapError(core.ErrDataUnavailable, err)
	}

	initialCapital := decimal.NewFromFloat(cfg.InitialCapital)
	result := &Result{
		Strategy:       strat.Name(),
		Symbol:         symbol,
		Interval:       cfg.Interval,
		StartDate:      start,
		EndDate:        end,
		InitialCapital: initialCapital,
		FinalEquity:    initialCapital,
	}

	if len(bars) == 0 {
		return result, core.ErrNoData
	}

	ledger := NewLedger(cfg.InitialCapital, cfg.CommissionRate, e.logger)

	// Seed the curve with starting capital at the first bar's timestamp;
	// one more point follows per bar
	curve := make([]EquityPoint, 0, len(bars)+1)
	curve = append(curve, EquityPoint{Time: bars[0].Time, Equity: initialCapital})

	for i, bar := range bars {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		analysisCtx := strategy.AnalysisContext{
			Symbol:    symbol,
			Bars:      bars[:i+1],
			Positions: positionSnapshot(ledger),
			Now:       bar.Time,
		}

		signals, err := strat.Analyze(analysisCtx)
		if err != nil {
			e.logger.Warn("strategy execution failed, skipping bar",
				zap.String("strategy", strat.Name()),
				zap.String("symbol", symbol),
				zap.Time("bar", bar.Time),
				zap.Error(core.WrapError(core.ErrStrategyExecution, err)),
			)
		} else {
			for _, sig := range signals {
				e.applySignal(ledger, strat.Name(), symbol, sig, bar)
			}
		}

		curve = append(curve, EquityPoint{Time: bar.Time, Equity: ledger.MarkToMarket(bar.Close)})
	}

	// Force-close whatever is still open at the final close, then
	// rewrite the last point so the curve ends on realized cash
	lastBar := bars[len(bars)-1]
	ledger.ForceCloseAll(lastBar.Close, lastBar.Time)
	curve[len(curve)-1] = EquityPoint{Time: lastBar.Time, Equity: ledger.Cash()}

	result.Trades = ledger.Trades()
	result.EquityCurve = curve
	result.FinalEquity = ledger.Cash()
	result.Stats = CalculateStats(result.Trades, curve, initialCapital, start, end, cfg.RiskFreeRate)

	return result, nil
}

// applySignal routes one signal to the ledger at the bar close.
func (e *Engine) applySignal(ledger *Ledger, strategyName, symbol string, sig core.Signal, bar core.Bar) {
	switch sig.Type {
	case core.SignalOpenLong, core.SignalOpenShort:
		side, _ := sig.Type.Side()
		ledger.ApplyOpen(symbol, side, sig.Quantity, bar.Close, bar.Time, strategyName)
	case core.SignalClose:
		if sig.Side != "" {
			ledger.ApplyClose(symbol, sig.Side, bar.Close, bar.Time, sig.Reason)
		} else {
			ledger.CloseAny(symbol, bar.Close, bar.Time, sig.Reason)
		}
	default:
		e.logger.Debug("unknown signal type ignored", zap.String("type", string(sig.Type)))
		return
	}
	if e.recorder != nil {
		e.recorder.RecordSignal(strategyName, string(sig.Type))
	}
}

func positionSnapshot(ledger *Ledger) []strategy.OpenPosition {
	open := ledger.OpenPositions()
	if len(open) == 0 {
		return nil
	}
	snapshot := make([]strategy.OpenPosition, len(open))
	for i, pos := range open {
		snapshot[i] = strategy.OpenPosition{
			Symbol:     pos.Symbol,
			Side:       pos.Side,
			Quantity:   pos.Quantity.InexactFloat64(),
			EntryPrice: pos.EntryPrice.InexactFloat64(),
			EntryTime:  pos.EntryTime,
		}
	}
	return snapshot
}
