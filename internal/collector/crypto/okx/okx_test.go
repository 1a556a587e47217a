package okx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOKX_Name(t *testing.T) {
	o := New()
	if o.Name() != "okx" {
		t.Errorf("expected 'okx', got '%s'", o.Name())
	}
}

func TestOKX_ToInstID(t *testing.T) {
	tests := []struct {
		symbol   string
		expected string
	}{
		{"BTCUSDT", "BTC-USDT"},
		{"ETHUSDT", "ETH-USDT"},
		{"ETHBTC", "ETH-BTC"},
	}
	for _, tc := range tests {
		if got := toInstID(tc.symbol); got != tc.expected {
			t.Errorf("toInstID(%s) = %s, want %s", tc.symbol, got, tc.expected)
		}
	}
}

func TestOKX_ToInterval(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1m", "1m"},
		{"1h", "1H"},
		{"4h", "4H"},
		{"1d", "1D"},
		{"unknown", "1D"},
	}

	for _, tc := range tests {
		if got := toInterval(tc.input); got != tc.expected {
			t.Errorf("toInterval(%s) = %s, want %s", tc.input, got, tc.expected)
		}
	}
}

func TestParseCandle_MalformedRows(t *testing.T) {
	rows := [][]string{
		{},
		{"1735689600000", "93000.0"},
		{"not-a-timestamp", "1", "2", "3", "4", "5"},
		{"1735689600000", "not-a-price", "2", "3", "4", "5"},
	}
	for i, row := range rows {
		if _, ok := parseCandle(row, "BTCUSDT", "1h"); ok {
			t.Errorf("row %d should be rejected", i)
		}
	}
}

func TestOKX_FetchBars(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("instId"); got != "BTC-USDT" {
			t.Errorf("instId = %s, want BTC-USDT", got)
		}
		if got := r.URL.Query().Get("bar"); got != "1H" {
			t.Errorf("bar = %s, want 1H", got)
		}
		w.Header().Set("Content-Type", "application/json")
		// OKX returns newest first
		w.Write([]byte(`{
			"code": "0",
			"msg": "",
			"data": [
				["1735693200000", "93200.0", "93800.0", "93100.0", "93700.0", "98.2"],
				["1735689600000", "93000.0", "93500.0", "92800.0", "93200.0", "120.5"]
			]
		}`))
	}))
	defer server.Close()

	o := NewWithBaseURL(server.URL)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars, err := o.FetchBars(context.Background(), "BTCUSDT", start, start.Add(2*time.Hour), "1h")
	if err != nil {
		t.Fatalf("FetchBars failed: %v", err)
	}

	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}

	// Reversed into chronological order
	if !bars[0].Time.Before(bars[1].Time) {
		t.Error("bars should be oldest first")
	}
	if bars[0].Close != 93200.0 {
		t.Errorf("first close = %f, want 93200", bars[0].Close)
	}
	if bars[1].Volume != 98.2 {
		t.Errorf("second volume = %f, want 98.2", bars[1].Volume)
	}
}

func TestOKX_FetchBars_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": "51001", "msg": "Instrument ID does not exist", "data": []}`))
	}))
	defer server.Close()

	o := NewWithBaseURL(server.URL)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := o.FetchBars(context.Background(), "BTCUSDT", start, start.Add(time.Hour), "1h"); err == nil {
		t.Error("expected error on non-zero code")
	}
}
