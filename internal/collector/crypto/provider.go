package crypto

import (
	"context"
	"time"

	"github.com/dkoval/chronos/internal/core"
)

// Provider is a single exchange's kline endpoint. Symbols are already
// normalized to the exchange format ("BTCUSDT") and intervals use the
// collector notation ("1m", "5m", "15m", "1h", "4h", "1d"). Bars come
// back oldest first.
type Provider interface {
	Name() string
	FetchBars(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.Bar, error)
}
