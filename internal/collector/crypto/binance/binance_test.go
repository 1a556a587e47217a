package binance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBinance_Name(t *testing.T) {
	b := New()
	if b.Name() != "binance" {
		t.Errorf("expected 'binance', got '%s'", b.Name())
	}
}

func TestBinance_ToInterval(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1m", "1m"},
		{"5m", "5m"},
		{"15m", "15m"},
		{"1h", "1h"},
		{"4h", "4h"},
		{"1d", "1d"},
		{"unknown", "1d"},
	}

	for _, tc := range tests {
		got := toInterval(tc.input)
		if got != tc.expected {
			t.Errorf("toInterval(%s) = %s, want %s", tc.input, got, tc.expected)
		}
	}
}

func TestParseKline_MalformedRows(t *testing.T) {
	rows := [][]any{
		{},
		{1735689600000.0, "93000.0"},
		{"not-a-timestamp", "1", "2", "3", "4", "5"},
		{1735689600000.0, "not-a-price", "2", "3", "4", "5"},
	}
	for i, row := range rows {
		if _, ok := parseKline(row, "BTCUSDT", "1h"); ok {
			t.Errorf("row %d should be rejected", i)
		}
	}
}

func TestBinance_FetchBars(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbol"); got != "BTCUSDT" {
			t.Errorf("symbol = %s, want BTCUSDT", got)
		}
		if got := r.URL.Query().Get("interval"); got != "1h" {
			t.Errorf("interval = %s, want 1h", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			[1735689600000, "93000.0", "93500.0", "92800.0", "93200.0", "120.5", 1735693199999],
			[1735693200000, "93200.0", "93800.0", "93100.0", "93700.0", "98.2", 1735696799999]
		]`))
	}))
	defer server.Close()

	b := NewWithBaseURL(server.URL)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars, err := b.FetchBars(context.Background(), "BTCUSDT", start, start.Add(2*time.Hour), "1h")
	if err != nil {
		t.Fatalf("FetchBars failed: %v", err)
	}

	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}

	first := bars[0]
	if first.Open != 93000.0 || first.High != 93500.0 || first.Low != 92800.0 || first.Close != 93200.0 {
		t.Errorf("unexpected OHLC: %+v", first)
	}
	if first.Volume != 120.5 {
		t.Errorf("volume = %f, want 120.5", first.Volume)
	}
	if !first.Time.Equal(time.UnixMilli(1735689600000)) {
		t.Errorf("time = %v", first.Time)
	}
	if first.Symbol != "BTCUSDT" || first.Interval != "1h" {
		t.Errorf("symbol/interval = %s/%s", first.Symbol, first.Interval)
	}

	if !bars[0].Time.Before(bars[1].Time) {
		t.Error("bars should be oldest first")
	}
}

func TestBinance_FetchBars_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	b := NewWithBaseURL(server.URL)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := b.FetchBars(context.Background(), "BTCUSDT", start, start.Add(time.Hour), "1h"); err == nil {
		t.Error("expected error on non-200 status")
	}
}

func TestBinance_FetchBars_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewWithBaseURL(server.URL)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := b.FetchBars(ctx, "BTCUSDT", start, start.Add(time.Hour), "1h"); err == nil {
		t.Error("expected error with cancelled context")
	}
}
