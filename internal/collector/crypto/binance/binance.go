package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dkoval/chronos/internal/core"
)

const (
	defaultBaseURL = "https://api.binance.com"
	klineLimit     = 1000
)

// Binance fetches klines from the Binance spot REST API.
type Binance struct {
	client  *http.Client
	baseURL string
}

// New returns a provider against the public Binance endpoint.
func New() *Binance {
	return &Binance{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBaseURL,
	}
}

// NewWithBaseURL points the provider at a different endpoint, used by
// tests to stub the exchange.
func NewWithBaseURL(u string) *Binance {
	b := New()
	b.baseURL = u
	return b
}

func (b *Binance) Name() string {
	return "binance"
}

// FetchBars pulls up to 1000 klines for [start, end), oldest first.
func (b *Binance) FetchBars(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.Bar, error) {
	query := url.Values{
		"symbol":    {symbol},
		"interval":  {toInterval(interval)},
		"startTime": {strconv.FormatInt(start.UnixMilli(), 10)},
		"endTime":   {strconv.FormatInt(end.UnixMilli(), 10)},
		"limit":     {strconv.Itoa(klineLimit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		b.baseURL+"/api/v3/klines?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching klines: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var klines [][]any
	if err := json.NewDecoder(resp.Body).Decode(&klines); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	bars := make([]core.Bar, 0, len(klines))
	for _, k := range klines {
		bar, ok := parseKline(k, symbol, interval)
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// parseKline maps one Binance kline row onto a Bar. Rows are
// [openTime, open, high, low, close, volume, ...] with prices as
// strings.
func parseKline(k []any, symbol, interval string) (core.Bar, bool) {
	if len(k) < 6 {
		return core.Bar{}, false
	}

	openTime, ok := k[0].(float64)
	if !ok {
		return core.Bar{}, false
	}

	fields := make([]float64, 5)
	for i := 1; i <= 5; i++ {
		s, ok := k[i].(string)
		if !ok {
			return core.Bar{}, false
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return core.Bar{}, false
		}
		fields[i-1] = v
	}

	return core.Bar{
		Symbol:   symbol,
		Interval: interval,
		Open:     fields[0],
		High:     fields[1],
		Low:      fields[2],
		Close:    fields[3],
		Volume:   fields[4],
		Time:     time.UnixMilli(int64(openTime)),
	}, true
}

// toInterval maps collector intervals onto Binance kline intervals.
// The two notations happen to agree; anything unknown falls back to
// daily.
func toInterval(interval string) string {
	switch interval {
	case "1m", "5m", "15m", "30m", "1h", "2h", "4h", "1d", "1w":
		return interval
	default:
		return "1d"
	}
}
