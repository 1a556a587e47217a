package core

import "time"

// Bar represents a single OHLCV candlestick
type Bar struct {
	Symbol   string
	Interval string // "1m", "5m", "1h", "1d"
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
	Time     time.Time
}

// IsValid checks if the bar has required fields
func (b Bar) IsValid() bool {
	return b.Symbol != "" && b.Close > 0 && !b.Time.IsZero()
}

// SignalType represents the action a strategy requests
type SignalType string

const (
	SignalOpenLong  SignalType = "open_long"
	SignalOpenShort SignalType = "open_short"
	SignalClose     SignalType = "close"
)

// Side represents the direction of a position
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// Side returns the position side a signal opens. Close signals have
// no inherent side; the engine resolves them against open positions.
func (s SignalType) Side() (Side, bool) {
	switch s {
	case SignalOpenLong:
		return SideLong, true
	case SignalOpenShort:
		return SideShort, true
	default:
		return "", false
	}
}

// Signal represents a trading instruction from a strategy
type Signal struct {
	Symbol      string
	Type        SignalType
	Side        Side // Optional on SignalClose: names the leg to exit
	Quantity    float64
	Price       float64 // Price at signal generation
	Confidence  float64
	Reason      string
	Strategy    string
	Metadata    map[string]any
	GeneratedAt time.Time
}
