package backtest

import (
	"time"

	"github.com/dkoval/chronos/internal/core"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// positionKey identifies a position by symbol and direction. One
// position per key; a long and a short on the same symbol can coexist.
type positionKey struct {
	symbol string
	side   core.Side
}

// Ledger tracks cash, open positions and completed trades during a
// replay. All accounting is decimal so fee arithmetic stays exact.
type Ledger struct {
	cash           decimal.Decimal
	initialCapital decimal.Decimal
	commissionRate decimal.Decimal
	positions      map[positionKey]*Position
	trades         []Trade
	logger         *zap.Logger
}

// NewLedger creates a ledger funded with the initial capital.
func NewLedger(initialCapital, commissionRate float64, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	capital := decimal.NewFromFloat(initialCapital)
	return &Ledger{
		cash:           capital,
		initialCapital: capital,
		commissionRate: decimal.NewFromFloat(commissionRate),
		positions:      make(map[positionKey]*Position),
		logger:         logger,
	}
}

// ApplyOpen opens a position and charges the entry fee against cash.
// Opening a key that already holds a position is a logged no-op.
func (l *Ledger) ApplyOpen(symbol string, side core.Side, quantity, price float64, ts time.Time, strategy string) {
	if quantity <= 0 || price <= 0 {
		return
	}

	key := positionKey{symbol: symbol, side: side}
	if _, exists := l.positions[key]; exists {
		l.logger.Debug("duplicate open ignored",
			zap.String("symbol", symbol),
			zap.String("side", string(side)),
		)
		return
	}

	qty := decimal.NewFromFloat(quantity)
	px := decimal.NewFromFloat(price)
	entryFee := px.Mul(qty).Mul(l.commissionRate)

	l.cash = l.cash.Sub(entryFee)
	l.positions[key] = &Position{
		Symbol:     symbol,
		Side:       side,
		Quantity:   qty,
		EntryPrice: px,
		EntryFee:   entryFee,
		EntryTime:  ts,
		Strategy:   strategy,
	}
}

// ApplyClose closes the position for (symbol, side) at the given price.
// Closing a key with no open position is a no-op. Returns true when a
// trade was produced.
func (l *Ledger) ApplyClose(symbol string, side core.Side, price float64, ts time.Time, reason string) bool {
	return l.close(symbol, side, price, ts, reason, false)
}

func (l *Ledger) close(symbol string, side core.Side, price float64, ts time.Time, reason string, forced bool) bool {
	key := positionKey{symbol: symbol, side: side}
	pos, exists := l.positions[key]
	if !exists {
		return false
	}

	px := decimal.NewFromFloat(price)
	pnl := pos.UnrealizedPnL(px)
	exitFee := px.Mul(pos.Quantity).Mul(l.commissionRate)

	var pnlPct float64
	if notional := pos.EntryPrice.Mul(pos.Quantity); notional.IsPositive() {
		pnlPct = pnl.Div(notional).InexactFloat64() * 100
	}

	l.cash = l.cash.Add(pnl).Sub(exitFee)
	l.trades = append(l.trades, Trade{
		Symbol:      symbol,
		Strategy:    pos.Strategy,
		Side:        side,
		Quantity:    pos.Quantity,
		EntryPrice:  pos.EntryPrice,
		ExitPrice:   px,
		EntryTime:   pos.EntryTime,
		ExitTime:    ts,
		PnL:         pnl,
		PnLPercent:  pnlPct,
		Fees:        pos.EntryFee.Add(exitFee),
		ExitReason:  reason,
		ForceClosed: forced,
	})
	delete(l.positions, key)
	return true
}

// CloseAny resolves a directionless close signal: the long leg closes
// first, falling back to the short leg.
func (l *Ledger) CloseAny(symbol string, price float64, ts time.Time, reason string) bool {
	if l.ApplyClose(symbol, core.SideLong, price, ts, reason) {
		return true
	}
	return l.ApplyClose(symbol, core.SideShort, price, ts, reason)
}

// MarkToMarket returns current equity: cash plus unrealized pnl of all
// open positions at the given price.
func (l *Ledger) MarkToMarket(price float64) decimal.Decimal {
	px := decimal.NewFromFloat(price)
	equity := l.cash
	for _, pos := range l.positions {
		equity = equity.Add(pos.UnrealizedPnL(px))
	}
	return equity
}

// ForceCloseAll closes every remaining position at the given price.
// Trades produced here carry the ForceClosed marker.
func (l *Ledger) ForceCloseAll(price float64, ts time.Time) {
	for key := range l.positions {
		l.close(key.symbol, key.side, price, ts, "end of backtest", true)
	}
}

// Cash returns the realized cash balance.
func (l *Ledger) Cash() decimal.Decimal {
	return l.cash
}

// Trades returns all completed trades in close order.
func (l *Ledger) Trades() []Trade {
	return l.trades
}

// OpenPositions returns a snapshot of open positions.
func (l *Ledger) OpenPositions() []Position {
	result := make([]Position, 0, len(l.positions))
	for _, pos := range l.positions {
		result = append(result, *pos)
	}
	return result
}
