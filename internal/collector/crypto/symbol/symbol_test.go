package symbol

import "testing"

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		input        string
		defaultQuote string
		want         string
	}{
		// Bare bases pick up the default quote
		{"BTC", "USDT", "BTCUSDT"},
		{"btc", "USDT", "BTCUSDT"},
		{"BTC", "USDC", "BTCUSDC"},
		{"sol", "usdt", "SOLUSDT"},

		// Separator variants collapse to the exchange format
		{"BTC-USDT", "USDT", "BTCUSDT"},
		{"BTC/USDT", "USDT", "BTCUSDT"},
		{"btc_usdt", "USDT", "BTCUSDT"},

		// Already normalized input passes through
		{"BTCUSDT", "USDT", "BTCUSDT"},
		{"btcusdt", "USDT", "BTCUSDT"},
		{"ETHBTC", "USDT", "ETHBTC"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeSymbol(tt.input, tt.defaultQuote); got != tt.want {
				t.Errorf("NormalizeSymbol(%q, %q) = %q, want %q",
					tt.input, tt.defaultQuote, got, tt.want)
			}
		})
	}
}

func TestNormalizeSymbol_Empty(t *testing.T) {
	if got := NormalizeSymbol("", "USDT"); got != "" {
		t.Errorf("expected empty output for empty input, got %q", got)
	}
}

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		symbol    string
		wantBase  string
		wantQuote string
	}{
		{"BTCUSDT", "BTC", "USDT"},
		{"ETHBTC", "ETH", "BTC"},
		{"DOGEUSDT", "DOGE", "USDT"},
		// Unknown quote falls back to a four letter split
		{"ABCDEFGH", "ABCD", "EFGH"},
		// Too short to split at all
		{"BTC", "BTC", ""},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			base, quote := ParseSymbol(tt.symbol)
			if base != tt.wantBase || quote != tt.wantQuote {
				t.Errorf("ParseSymbol(%q) = (%q, %q), want (%q, %q)",
					tt.symbol, base, quote, tt.wantBase, tt.wantQuote)
			}
		})
	}
}

func TestFormatDisplay(t *testing.T) {
	if got := FormatDisplay("BTCUSDT"); got != "BTC/USDT" {
		t.Errorf("FormatDisplay(BTCUSDT) = %q, want BTC/USDT", got)
	}
	if got := FormatDisplay("BTC"); got != "BTC" {
		t.Errorf("FormatDisplay(BTC) = %q, want BTC", got)
	}
}

func TestValidateSymbol(t *testing.T) {
	tests := []struct {
		name    string
		symbol  string
		wantErr bool
	}{
		{"valid symbol", "BTCUSDT", false},
		{"valid lowercase", "btcusdt", false},
		{"valid with separator", "BTC-USDT", false},
		{"empty symbol", "", true},
		{"too long", "VERYLONGSYMBOLNAME12345678901234567890", true},
		{"invalid chars", "BTC!USDT", true},
		{"path injection", "../etc/passwd", true},
		{"url injection", "BTC?foo=bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSymbol(tt.symbol)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSymbol(%q) error = %v, wantErr %v",
					tt.symbol, err, tt.wantErr)
			}
		})
	}
}
