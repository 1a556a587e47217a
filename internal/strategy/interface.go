package strategy

import (
	"time"

	"github.com/dkoval/chronos/internal/core"
)

// Config holds strategy configuration
type Config struct {
	Enabled bool
	Params  map[string]any
}

// DataRequirements specifies what data a strategy needs
type DataRequirements struct {
	MinBars    int // Minimum bars before the strategy can act
	Indicators []string
}

// OpenPosition is a read-only snapshot of a position held during replay
type OpenPosition struct {
	Symbol     string
	Side       core.Side
	Quantity   float64
	EntryPrice float64
	EntryTime  time.Time
}

// AnalysisContext provides data to strategies. Bars contains only the
// history visible at the current step, oldest first; the last element
// is the bar being evaluated.
type AnalysisContext struct {
	Symbol    string
	Bars      []core.Bar
	Positions []OpenPosition
	Now       time.Time
}

// Current returns the bar under evaluation.
func (c AnalysisContext) Current() core.Bar {
	if len(c.Bars) == 0 {
		return core.Bar{}
	}
	return c.Bars[len(c.Bars)-1]
}

// Closes extracts the close price series from the visible bars.
func (c AnalysisContext) Closes() []float64 {
	prices := make([]float64, len(c.Bars))
	for i, b := range c.Bars {
		prices[i] = b.Close
	}
	return prices
}

// Holding reports whether a position with the given side is open.
func (c AnalysisContext) Holding(side core.Side) (OpenPosition, bool) {
	for _, p := range c.Positions {
		if p.Side == side {
			return p, true
		}
	}
	return OpenPosition{}, false
}

// Strategy defines the interface for trading strategies
type Strategy interface {
	Name() string
	Description() string
	RequiredData() DataRequirements
	Init(cfg Config) error
	Analyze(ctx AnalysisContext) ([]core.Signal, error)
}
