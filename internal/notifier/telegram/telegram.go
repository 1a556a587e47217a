package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dkoval/chronos/internal/backtest"
	"github.com/dkoval/chronos/internal/notifier"
)

const defaultAPIBase = "https://api.telegram.org"

// Telegram implements the Notifier interface for Telegram Bot API
type Telegram struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

// New creates a new Telegram notifier
func New(botToken, chatID string) *Telegram {
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (t *Telegram) Name() string {
	return "telegram"
}

func (t *Telegram) Init(cfg notifier.Config) error {
	if cfg.BotToken != "" {
		t.botToken = cfg.BotToken
	}
	if cfg.ChatID != "" {
		t.chatID = cfg.ChatID
	}

	if t.botToken == "" {
		return fmt.Errorf("telegram: bot_token is required")
	}
	if t.chatID == "" {
		return fmt.Errorf("telegram: chat_id is required")
	}

	if t.apiBase == "" {
		t.apiBase = defaultAPIBase
	}
	if t.client == nil {
		t.client = &http.Client{Timeout: 30 * time.Second}
	}

	return nil
}

func (t *Telegram) SendReport(ctx context.Context, result *backtest.Result) error {
	return t.sendMessage(ctx, t.formatReport(result))
}

func (t *Telegram) formatReport(result *backtest.Result) string {
	var sb strings.Builder

	emoji := "📈"
	if result.Stats.TotalReturnPct < 0 {
		emoji = "📉"
	}

	sb.WriteString(fmt.Sprintf("%s *Backtest Complete: %s on %s*\n\n", emoji, result.Strategy, result.Symbol))
	sb.WriteString(fmt.Sprintf("🗓 Period: %s to %s (%s)\n",
		result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02"), result.Interval))
	sb.WriteString(fmt.Sprintf("💰 Equity: %s → %s\n", result.InitialCapital, result.FinalEquity))
	sb.WriteString(fmt.Sprintf("📊 Return: %.2f%% (annualized %.2f%%)\n",
		result.Stats.TotalReturnPct, result.Stats.AnnualizedReturnPct))
	sb.WriteString(fmt.Sprintf("🎯 Trades: %d (win rate %.1f%%)\n",
		result.Stats.TotalTrades, result.Stats.WinRate))
	sb.WriteString(fmt.Sprintf("📐 Sharpe: %.2f, Max Drawdown: %.2f%%\n",
		result.Stats.SharpeRatio, result.Stats.MaxDrawdownPct))
	sb.WriteString(fmt.Sprintf("💸 Fees: %.2f", result.Stats.TotalFees))

	return sb.String()
}

func (t *Telegram) sendMessage(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.botToken)

	payload := map[string]any{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		return fmt.Errorf("telegram: API error (status %d): %v", resp.StatusCode, result)
	}

	return nil
}
