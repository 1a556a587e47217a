package symbol

import (
	"fmt"
	"regexp"
	"strings"
)

// Quote currencies checked when splitting a pair, highest priority
// first. USDT dominates spot volume so it leads.
var knownQuotes = []string{"USDT", "USDC", "BTC", "ETH", "BNB"}

var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9]{2,20}$`)

const maxSymbolLen = 30

// stripSeparators removes the pair separators users type in.
func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '/', '_':
			return -1
		}
		return r
	}, s)
}

// NormalizeSymbol maps user input onto the exchange pair format:
// "btc", "BTC-USDT" and "BTC/USDT" all become "BTCUSDT". Bare base
// currencies get the default quote appended.
func NormalizeSymbol(input, defaultQuote string) string {
	if input == "" {
		return ""
	}

	pair := stripSeparators(strings.ToUpper(input))

	for _, quote := range knownQuotes {
		if strings.HasSuffix(pair, quote) && len(pair) > len(quote) {
			return pair
		}
	}

	return pair + strings.ToUpper(defaultQuote)
}

// ParseSymbol splits a normalized pair into base and quote:
// "BTCUSDT" yields ("BTC", "USDT"). Unknown quotes fall back to a
// four-letter split; a pair too short to split returns an empty quote.
func ParseSymbol(symbol string) (base, quote string) {
	pair := strings.ToUpper(symbol)

	for _, q := range knownQuotes {
		if strings.HasSuffix(pair, q) && len(pair) > len(q) {
			return strings.TrimSuffix(pair, q), q
		}
	}

	if len(pair) > 4 {
		return pair[:len(pair)-4], pair[len(pair)-4:]
	}
	return pair, ""
}

// FormatDisplay renders a pair for humans: "BTCUSDT" becomes
// "BTC/USDT".
func FormatDisplay(symbol string) string {
	base, quote := ParseSymbol(symbol)
	if quote == "" {
		return base
	}
	return base + "/" + quote
}

// ValidateSymbol rejects input that cannot name a trading pair before
// it reaches an exchange API.
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > maxSymbolLen {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !symbolPattern.MatchString(stripSeparators(symbol)) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}
