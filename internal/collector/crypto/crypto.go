package crypto

import (
	"context"
	"fmt"
	"time"

	"github.com/dkoval/chronos/internal/collector"
	"github.com/dkoval/chronos/internal/collector/crypto/binance"
	"github.com/dkoval/chronos/internal/collector/crypto/okx"
	"github.com/dkoval/chronos/internal/collector/crypto/symbol"
	"github.com/dkoval/chronos/internal/core"
)

// Collector implements collector.Collector for cryptocurrency markets
// with automatic fallback across exchange providers
type Collector struct {
	providers    []Provider
	defaultQuote string
	config       collector.Config
}

// New creates a crypto collector with default providers.
// Provider order: Binance first, then OKX as fallback.
func New() *Collector {
	return &Collector{
		providers: []Provider{
			binance.New(),
			okx.New(),
		},
		defaultQuote: "USDT",
	}
}

// NewWithProviders creates a crypto collector with custom providers
func NewWithProviders(providers []Provider, defaultQuote string) *Collector {
	if defaultQuote == "" {
		defaultQuote = "USDT"
	}
	return &Collector{
		providers:    providers,
		defaultQuote: defaultQuote,
	}
}

func (c *Collector) Name() string {
	return "crypto"
}

func (c *Collector) Init(cfg collector.Config) error {
	c.config = cfg

	if quote, ok := cfg.Extra["default_quote"].(string); ok && quote != "" {
		c.defaultQuote = quote
	}

	if providerNames, ok := cfg.Extra["providers"].([]string); ok && len(providerNames) > 0 {
		providers := make([]Provider, 0, len(providerNames))
		for _, name := range providerNames {
			switch name {
			case "binance":
				providers = append(providers, binance.New())
			case "okx":
				providers = append(providers, okx.New())
			}
		}
		if len(providers) > 0 {
			c.providers = providers
		}
	}

	return nil
}

// FetchBars fetches historical bars with automatic provider fallback
func (c *Collector) FetchBars(ctx context.Context, sym string, start, end time.Time, interval string) ([]core.Bar, error) {
	if err := symbol.ValidateSymbol(sym); err != nil {
		return nil, core.WrapError(core.ErrSymbolNotFound, err)
	}
	normalized := symbol.NormalizeSymbol(sym, c.defaultQuote)

	var lastErr error
	for _, p := range c.providers {
		bars, err := p.FetchBars(ctx, normalized, start, end, interval)
		if err == nil && len(bars) > 0 {
			for i := range bars {
				bars[i].Symbol = normalized
			}
			return bars, nil
		}
		if err != nil {
			lastErr = err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	if lastErr != nil {
		return nil, core.WrapError(core.ErrDataUnavailable, fmt.Errorf("all providers failed for %s: %w", normalized, lastErr))
	}
	return nil, core.ErrNoData
}

// SetProviders sets custom providers (for testing or configuration)
func (c *Collector) SetProviders(providers []Provider) {
	c.providers = providers
}
