package rsi

import (
	"testing"
	"time"

	"github.com/dkoval/chronos/internal/core"
	"github.com/dkoval/chronos/internal/strategy"
)

func barsFromCloses(closes ...float64) []core.Bar {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]core.Bar, len(closes))
	for i, c := range closes {
		bars[i] = core.Bar{Symbol: "BTCUSDT", Close: c, Time: base.Add(time.Duration(i) * time.Hour)}
	}
	return bars
}

func newTestStrategy(t *testing.T) *RSIReversal {
	t.Helper()
	s := New()
	if err := s.Init(strategy.Config{Params: map[string]any{
		"period":            3,
		"max_position_size": 1000,
	}}); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRSIReversal_OpensLongWhenOversold(t *testing.T) {
	s := newTestStrategy(t)

	// Straight decline pins RSI at 0
	ctx := strategy.AnalysisContext{
		Symbol: "BTCUSDT",
		Bars:   barsFromCloses(110, 108, 106, 104, 100),
	}

	signals, err := s.Analyze(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(signals) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(signals))
	}
	if signals[0].Type != core.SignalOpenLong {
		t.Errorf("type = %s, want open_long", signals[0].Type)
	}
	if signals[0].Quantity != 1000.0/100.0 {
		t.Errorf("quantity = %f, want 10", signals[0].Quantity)
	}
}

func TestRSIReversal_OpensShortWhenOverbought(t *testing.T) {
	s := newTestStrategy(t)

	ctx := strategy.AnalysisContext{
		Symbol: "BTCUSDT",
		Bars:   barsFromCloses(100, 102, 104, 106, 110),
	}

	signals, err := s.Analyze(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(signals) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(signals))
	}
	if signals[0].Type != core.SignalOpenShort {
		t.Errorf("type = %s, want open_short", signals[0].Type)
	}
}

func TestRSIReversal_NoDuplicateEntry(t *testing.T) {
	s := newTestStrategy(t)

	ctx := strategy.AnalysisContext{
		Symbol: "BTCUSDT",
		Bars:   barsFromCloses(110, 108, 106, 104, 100),
		Positions: []strategy.OpenPosition{
			{Symbol: "BTCUSDT", Side: core.SideLong, EntryPrice: 102},
		},
	}

	signals, err := s.Analyze(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, sig := range signals {
		if sig.Type == core.SignalOpenLong {
			t.Error("should not open a second long")
		}
	}
}

func TestRSIReversal_StopLossExit(t *testing.T) {
	s := newTestStrategy(t)

	// Held long deep underwater; decline keeps RSI below 50 so only the
	// stop loss can fire
	ctx := strategy.AnalysisContext{
		Symbol: "BTCUSDT",
		Bars:   barsFromCloses(110, 108, 106, 104, 100),
		Positions: []strategy.OpenPosition{
			{Symbol: "BTCUSDT", Side: core.SideLong, EntryPrice: 110},
		},
	}

	signals, err := s.Analyze(ctx)
	if err != nil {
		t.Fatal(err)
	}

	var closed bool
	for _, sig := range signals {
		if sig.Type == core.SignalClose {
			closed = true
			if sig.Side != core.SideLong {
				t.Errorf("close side = %s, want long", sig.Side)
			}
		}
	}
	if !closed {
		t.Error("expected stop loss close signal")
	}
}

func TestRSIReversal_ShortStopLossNamesShortLeg(t *testing.T) {
	s := newTestStrategy(t)

	// Held short while price rallies; RSI above 50 and the stop loss
	// both point at the short leg
	ctx := strategy.AnalysisContext{
		Symbol: "BTCUSDT",
		Bars:   barsFromCloses(100, 102, 104, 106, 110),
		Positions: []strategy.OpenPosition{
			{Symbol: "BTCUSDT", Side: core.SideShort, EntryPrice: 100},
		},
	}

	signals, err := s.Analyze(ctx)
	if err != nil {
		t.Fatal(err)
	}

	var closed bool
	for _, sig := range signals {
		if sig.Type == core.SignalClose {
			closed = true
			if sig.Side != core.SideShort {
				t.Errorf("close side = %s, want short", sig.Side)
			}
		}
	}
	if !closed {
		t.Error("expected short exit close signal")
	}
}

func TestRSIReversal_InsufficientBars(t *testing.T) {
	s := newTestStrategy(t)

	signals, err := s.Analyze(strategy.AnalysisContext{
		Symbol: "BTCUSDT",
		Bars:   barsFromCloses(100, 101),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(signals) != 0 {
		t.Errorf("expected no signals with insufficient bars, got %d", len(signals))
	}
}

func TestRSIReversal_InitValidation(t *testing.T) {
	s := New()
	err := s.Init(strategy.Config{Params: map[string]any{
		"oversold":   80,
		"overbought": 20,
	}})
	if err == nil {
		t.Error("expected error when oversold >= overbought")
	}
}
