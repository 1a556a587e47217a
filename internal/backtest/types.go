package backtest

import (
	"time"

	"github.com/dkoval/chronos/internal/core"
	"github.com/shopspring/decimal"
)

// Config holds the replay parameters for a single run
type Config struct {
	InitialCapital float64
	CommissionRate float64
	Interval       string
	RiskFreeRate   float64 // annual, e.g. 0.05
}

// Position represents an open position held by the ledger
type Position struct {
	Symbol     string
	Side       core.Side
	Quantity   decimal.Decimal
	EntryPrice decimal.Decimal
	EntryFee   decimal.Decimal
	EntryTime  time.Time
	Strategy   string
}

// UnrealizedPnL returns the mark-to-market profit at the given price
func (p Position) UnrealizedPnL(price decimal.Decimal) decimal.Decimal {
	if p.Side == core.SideShort {
		return p.EntryPrice.Sub(price).Mul(p.Quantity)
	}
	return price.Sub(p.EntryPrice).Mul(p.Quantity)
}

// Trade represents a completed round trip from entry to exit
type Trade struct {
	Symbol      string
	Strategy    string
	Side        core.Side
	Quantity    decimal.Decimal
	EntryPrice  decimal.Decimal
	ExitPrice   decimal.Decimal
	EntryTime   time.Time
	ExitTime    time.Time
	PnL         decimal.Decimal // Gross, before fees
	PnLPercent  float64         // Signed, relative to entry notional
	Fees        decimal.Decimal // Entry fee + exit fee
	ExitReason  string
	ForceClosed bool // true when closed by the end-of-run sweep
}

// IsWin returns true if the trade was profitable before fees
func (t Trade) IsWin() bool {
	return t.PnL.IsPositive()
}

// NetPnL returns profit after fees
func (t Trade) NetPnL() decimal.Decimal {
	return t.PnL.Sub(t.Fees)
}

// EquityPoint is one sample of the equity curve
type EquityPoint struct {
	Time   time.Time
	Equity decimal.Decimal
}

// Result holds the complete backtest output
type Result struct {
	Strategy       string
	Symbol         string
	Interval       string
	StartDate      time.Time
	EndDate        time.Time
	InitialCapital decimal.Decimal
	FinalEquity    decimal.Decimal
	Trades         []Trade
	EquityCurve    []EquityPoint
	Stats          Stats
}

// Stats holds performance statistics
type Stats struct {
	TotalTrades         int
	WinningTrades       int
	LosingTrades        int
	WinRate             float64 // Percentage of profitable trades
	TotalReturnPct      float64
	AnnualizedReturnPct float64
	ProfitFactor        float64
	AvgWin              float64
	AvgLoss             float64
	LargestWin          float64 // Best single-trade gross pnl
	LargestLoss         float64 // Worst single-trade gross pnl, negative
	MaxDrawdown         float64 // Deepest peak-to-trough drop in currency
	MaxDrawdownPct      float64 // Same drop as a fraction of the peak
	SharpeRatio         float64
	SortinoRatio        float64
	TotalFees           float64
}

// Metric returns a named objective value for sweep ranking.
func (s Stats) Metric(name string) float64 {
	switch name {
	case "total_return":
		return s.TotalReturnPct
	case "win_rate":
		return s.WinRate
	case "profit_factor":
		return s.ProfitFactor
	case "sortino_ratio":
		return s.SortinoRatio
	default: // "sharpe_ratio"
		return s.SharpeRatio
	}
}
