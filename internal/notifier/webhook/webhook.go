// Package webhook implements an HTTP webhook notifier
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dkoval/chronos/internal/backtest"
	"github.com/dkoval/chronos/internal/notifier"
)

// Webhook implements the Notifier interface for HTTP webhooks
type Webhook struct {
	url     string
	headers map[string]string
	client  *http.Client
}

// New creates a new Webhook notifier
func New(url string, headers map[string]string) *Webhook {
	return &Webhook{
		url:     url,
		headers: headers,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) Init(cfg notifier.Config) error {
	if cfg.URL != "" {
		w.url = cfg.URL
	}
	if len(cfg.Headers) > 0 {
		w.headers = cfg.Headers
	}

	if w.url == "" {
		return fmt.Errorf("webhook: url is required")
	}

	if w.client == nil {
		w.client = &http.Client{Timeout: 30 * time.Second}
	}

	return nil
}

func (w *Webhook) SendReport(ctx context.Context, result *backtest.Result) error {
	return w.post(ctx, reportToPayload(result))
}

func reportToPayload(result *backtest.Result) map[string]any {
	return map[string]any{
		"type":            "backtest_report",
		"strategy":        result.Strategy,
		"symbol":          result.Symbol,
		"interval":        result.Interval,
		"start":           result.StartDate.Format(time.RFC3339),
		"end":             result.EndDate.Format(time.RFC3339),
		"initial_capital": result.InitialCapital.InexactFloat64(),
		"final_equity":    result.FinalEquity.InexactFloat64(),
		"total_trades":    result.Stats.TotalTrades,
		"win_rate":        result.Stats.WinRate,
		"total_return":    result.Stats.TotalReturnPct,
		"sharpe_ratio":    result.Stats.SharpeRatio,
		"max_drawdown":    result.Stats.MaxDrawdownPct,
		"total_fees":      result.Stats.TotalFees,
	}
}

func (w *Webhook) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: server returned %d", resp.StatusCode)
	}

	return nil
}
