package backtest

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// TradingDaysPerYear is the annualization basis for risk ratios.
	TradingDaysPerYear = 252

	// DefaultRiskFreeRate is the annual risk-free rate used when a run
	// does not override it.
	DefaultRiskFreeRate = 0.05
)

// CalculateStats computes performance statistics from a finished run.
// It is a pure function: the same inputs always produce the same
// output, and nothing is mutated.
func CalculateStats(trades []Trade, curve []EquityPoint, initialCapital decimal.Decimal, start, end time.Time, riskFreeRate float64) Stats {
	stats := Stats{TotalTrades: len(trades)}

	var grossWin, grossLoss, totalFees decimal.Decimal
	for _, t := range trades {
		totalFees = totalFees.Add(t.Fees)
		pnl := t.PnL.InexactFloat64()
		if t.IsWin() {
			stats.WinningTrades++
			grossWin = grossWin.Add(t.PnL)
			if pnl > stats.LargestWin {
				stats.LargestWin = pnl
			}
		} else {
			stats.LosingTrades++
			grossLoss = grossLoss.Add(t.PnL.Abs())
			if pnl < stats.LargestLoss {
				stats.LargestLoss = pnl
			}
		}
	}
	stats.TotalFees = totalFees.InexactFloat64()

	if stats.TotalTrades > 0 {
		stats.WinRate = float64(stats.WinningTrades) / float64(stats.TotalTrades) * 100
	}
	if stats.WinningTrades > 0 {
		stats.AvgWin = grossWin.InexactFloat64() / float64(stats.WinningTrades)
	}
	if stats.LosingTrades > 0 {
		stats.AvgLoss = grossLoss.InexactFloat64() / float64(stats.LosingTrades)
	}
	if grossLoss.IsPositive() {
		stats.ProfitFactor = grossWin.InexactFloat64() / grossLoss.InexactFloat64()
	}

	if len(curve) > 0 && initialCapital.IsPositive() {
		final := curve[len(curve)-1].Equity
		stats.TotalReturnPct = final.Sub(initialCapital).
			Div(initialCapital).InexactFloat64() * 100
	}

	stats.AnnualizedReturnPct = annualizedReturn(stats.TotalReturnPct, start, end)
	stats.MaxDrawdown, stats.MaxDrawdownPct = maxDrawdown(curve)

	returns := periodReturns(curve)
	stats.SharpeRatio = sharpeRatio(returns, riskFreeRate)
	stats.SortinoRatio = sortinoRatio(returns, riskFreeRate)

	return stats
}

// annualizedReturn compounds the total return over the run duration.
func annualizedReturn(totalReturnPct float64, start, end time.Time) float64 {
	days := end.Sub(start).Hours() / 24
	if days <= 0 {
		return 0
	}
	growth := 1 + totalReturnPct/100
	if growth <= 0 {
		return -100
	}
	return (math.Pow(growth, 365/days) - 1) * 100
}

// maxDrawdown runs a single pass over the equity curve tracking the
// running peak. It returns the deepest drop both in currency and as a
// percentage of the peak it fell from.
func maxDrawdown(curve []EquityPoint) (abs, pct float64) {
	var maxAbs, maxPct float64
	var peak decimal.Decimal

	for _, p := range curve {
		if p.Equity.GreaterThan(peak) {
			peak = p.Equity
		}
		if peak.IsPositive() {
			drop := peak.Sub(p.Equity)
			if d := drop.InexactFloat64(); d > maxAbs {
				maxAbs = d
			}
			if dd := drop.Div(peak).InexactFloat64(); dd > maxPct {
				maxPct = dd
			}
		}
	}

	return maxAbs, maxPct * 100
}

// periodReturns derives simple returns between consecutive curve points.
func periodReturns(curve []EquityPoint) []float64 {
	if len(curve) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if !prev.IsPositive() {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, curve[i].Equity.Sub(prev).Div(prev).InexactFloat64())
	}
	return returns
}

// sharpeRatio computes the annualized excess return over volatility.
func sharpeRatio(returns []float64, riskFreeRate float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	mean := meanOf(returns)
	std := stdDevOf(returns, mean)
	if std == 0 {
		return 0
	}

	excess := mean - riskFreeRate/TradingDaysPerYear
	return excess / std * math.Sqrt(TradingDaysPerYear)
}

// sortinoRatio penalizes only downside volatility.
func sortinoRatio(returns []float64, riskFreeRate float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	var negative []float64
	for _, r := range returns {
		if r < 0 {
			negative = append(negative, r)
		}
	}
	if len(negative) < 2 {
		return 0
	}

	mean := meanOf(returns)
	downside := stdDevOf(negative, meanOf(negative))
	if downside == 0 {
		return 0
	}

	excess := mean - riskFreeRate/TradingDaysPerYear
	return excess / downside * math.Sqrt(TradingDaysPerYear)
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDevOf(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(values)-1))
}
