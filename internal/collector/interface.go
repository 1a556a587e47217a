package collector

import (
	"context"
	"time"

	"github.com/dkoval/chronos/internal/core"
)

// Config carries per-collector settings from the config file. Extra
// holds collector-specific keys the common fields do not cover.
type Config struct {
	Enabled  bool
	Interval string
	APIKey   string
	Extra    map[string]any
}

// Collector is a named source of historical market data. Init is
// called once before the first fetch.
type Collector interface {
	Name() string
	Init(cfg Config) error

	// FetchBars returns bars for the half-open range [start, end)
	// at the given interval, ordered oldest first.
	FetchBars(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.Bar, error)
}
