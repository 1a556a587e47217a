package notifier

import (
	"context"

	"github.com/dkoval/chronos/internal/backtest"
)

// Config holds notifier configuration
type Config struct {
	Enabled  bool              `mapstructure:"enabled"`
	BotToken string            `mapstructure:"bot_token"`
	ChatID   string            `mapstructure:"chat_id"`
	URL      string            `mapstructure:"url"`
	Headers  map[string]string `mapstructure:"headers"`
}

// Notifier delivers finished backtest reports to an external channel
type Notifier interface {
	// Name returns the unique identifier for this notifier
	Name() string

	// Init initializes the notifier with configuration
	Init(cfg Config) error

	// SendReport delivers a backtest result summary
	SendReport(ctx context.Context, result *backtest.Result) error
}
