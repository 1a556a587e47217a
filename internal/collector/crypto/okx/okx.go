package okx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dkoval/chronos/internal/collector/crypto/symbol"
	"github.com/dkoval/chronos/internal/core"
)

const (
	defaultBaseURL = "https://www.okx.com"
	candleLimit    = 300
)

// candleResponse is the OKX v5 envelope. Candle rows are string
// arrays: [ts, open, high, low, close, volume, ...].
type candleResponse struct {
	Code string     `json:"code"`
	Msg  string     `json:"msg"`
	Data [][]string `json:"data"`
}

// OKX fetches candles from the OKX v5 REST API.
type OKX struct {
	client  *http.Client
	baseURL string
}

// New returns a provider against the public OKX endpoint.
func New() *OKX {
	return &OKX{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBaseURL,
	}
}

// NewWithBaseURL points the provider at a different endpoint, used by
// tests to stub the exchange.
func NewWithBaseURL(u string) *OKX {
	o := New()
	o.baseURL = u
	return o
}

func (o *OKX) Name() string {
	return "okx"
}

// FetchBars pulls up to 300 candles for [start, end), reordered oldest
// first since OKX returns them newest first.
func (o *OKX) FetchBars(ctx context.Context, symbol string, start, end time.Time, interval string) ([]core.Bar, error) {
	query := url.Values{
		"instId": {toInstID(symbol)},
		"bar":    {toInterval(interval)},
		"before": {strconv.FormatInt(start.UnixMilli(), 10)},
		"after":  {strconv.FormatInt(end.UnixMilli(), 10)},
		"limit":  {strconv.Itoa(candleLimit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		o.baseURL+"/api/v5/market/candles?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching candles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result candleResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if result.Code != "0" {
		return nil, fmt.Errorf("okx error: %s", result.Msg)
	}

	bars := make([]core.Bar, 0, len(result.Data))
	for i := len(result.Data) - 1; i >= 0; i-- {
		bar, ok := parseCandle(result.Data[i], symbol, interval)
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func parseCandle(row []string, symbol, interval string) (core.Bar, bool) {
	if len(row) < 6 {
		return core.Bar{}, false
	}

	ts, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return core.Bar{}, false
	}

	fields := make([]float64, 5)
	for i := 1; i <= 5; i++ {
		v, err := strconv.ParseFloat(row[i], 64)
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
		Time:     time.UnixMilli(ts),
	}, true
}

// toInstID renders a normalized symbol as an OKX instrument ID:
// BTCUSDT becomes BTC-USDT.
func toInstID(sym string) string {
	base, quote := symbol.ParseSymbol(sym)
	return base + "-" + quote
}

// toInterval maps collector intervals onto OKX bar sizes. Hours and
// above are uppercase in the OKX notation; unknown intervals fall back
// to daily.
func toInterval(interval string) string {
	switch interval {
	case "1m", "5m", "15m", "30m":
		return interval
	case "1h":
		return "1H"
	case "2h":
		return "2H"
	case "4h":
		return "4H"
	case "1w":
		return "1W"
	default:
		return "1D"
	}
}
