package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dkoval/chronos/internal/backtest"
	"github.com/dkoval/chronos/internal/collector"
	"github.com/dkoval/chronos/internal/collector/crypto"
	"github.com/dkoval/chronos/internal/config"
	"github.com/dkoval/chronos/internal/llm"
	llmfactory "github.com/dkoval/chronos/internal/llm/factory"
	"github.com/dkoval/chronos/internal/notifier"
	"github.com/dkoval/chronos/internal/notifier/telegram"
	"github.com/dkoval/chronos/internal/notifier/webhook"
	"github.com/dkoval/chronos/internal/storage/archive"
	"github.com/dkoval/chronos/internal/strategy"
	"github.com/dkoval/chronos/internal/strategy/bollinger"
	"github.com/dkoval/chronos/internal/strategy/grid"
	"github.com/dkoval/chronos/internal/strategy/llm_advisor"
	"github.com/dkoval/chronos/internal/strategy/ma_crossover"
	"github.com/dkoval/chronos/internal/strategy/macd"
	"github.com/dkoval/chronos/internal/strategy/rsi"
	"github.com/dkoval/chronos/internal/strategy/volume_breakout"
)

// loadConfig reads the config file or falls back to defaults.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
		log.Warn("no config file specified, using defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// buildProvider assembles the crypto collector behind a read-through
// bar cache. The cache is returned separately so callers can surface
// hit counters.
func buildProvider(cfg *config.Config) (*collector.Cache, error) {
	registry := collector.NewRegistry()
	registry.Register(crypto.New())

	c, ok := registry.Get("crypto")
	if !ok {
		return nil, fmt.Errorf("crypto collector not registered")
	}

	collectorCfg := collector.Config{Enabled: true, Interval: cfg.Backtest.Interval}
	if cc, ok := cfg.Collectors["crypto"]; ok {
		collectorCfg.Enabled = cc.Enabled
		collectorCfg.APIKey = cc.APIKey
		collectorCfg.Extra = cc.Extra
	}
	if err := c.Init(collectorCfg); err != nil {
		return nil, fmt.Errorf("initializing crypto collector: %w", err)
	}

	return collector.NewCache(c, collector.DefaultCacheEntries), nil
}

// buildFactories returns the strategy factory table. The LLM advisor is
// only registered when an LLM provider is configured.
func buildFactories(cfg *config.Config, log *zap.Logger) (map[string]backtest.StrategyFactory, error) {
	factories := map[string]backtest.StrategyFactory{
		"ma_crossover":    func() strategy.Strategy { return ma_crossover.New(5, 20) },
		"rsi":             func() strategy.Strategy { return rsi.New() },
		"bollinger":       func() strategy.Strategy { return bollinger.New() },
		"macd":            func() strategy.Strategy { return macd.New() },
		"volume_breakout": func() strategy.Strategy { return volume_breakout.New() },
		"grid":            func() strategy.Strategy { return grid.New() },
	}

	if cfg.LLM.Provider != "" {
		provider, err := llmfactory.New(cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("initializing LLM provider: %w", err)
		}
		factories["llm_advisor"] = llmAdvisorFactory(provider)
		log.Info("LLM advisor strategy enabled", zap.String("provider", provider.Name()))
	}

	return factories, nil
}

func llmAdvisorFactory(provider llm.Provider) backtest.StrategyFactory {
	return func() strategy.Strategy { return llm_advisor.New(provider) }
}

func factoryNames(factories map[string]backtest.StrategyFactory) []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}

// buildNotifiers registers every enabled notifier from config.
func buildNotifiers(cfg *config.Config, log *zap.Logger) *notifier.Registry {
	registry := notifier.NewRegistry()

	for name, nc := range cfg.Notifiers {
		if !nc.Enabled {
			continue
		}

		var n notifier.Notifier
		switch name {
		case "telegram":
			n = telegram.New(nc.BotToken, nc.ChatID)
		case "webhook":
			n = webhook.New(nc.URL, nc.Headers)
		default:
			log.Warn("unknown notifier in config, skipping", zap.String("name", name))
			continue
		}

		if err := n.Init(notifier.Config{
			Enabled:  nc.Enabled,
			BotToken: nc.BotToken,
			ChatID:   nc.ChatID,
			URL:      nc.URL,
			Headers:  nc.Headers,
		}); err != nil {
			log.Warn("notifier init failed, skipping",
				zap.String("name", name), zap.Error(err))
			continue
		}

		if err := registry.Register(n); err != nil {
			log.Warn("notifier registration failed",
				zap.String("name", name), zap.Error(err))
		}
	}

	return registry
}

// buildArchiver creates the report archiver, or nil when disabled.
func buildArchiver(cfg *config.Config) (*archive.Archiver, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}

	var storage archive.Storage
	var err error

	switch cfg.Archive.Type {
	case "s3":
		storage, err = archive.NewS3(archive.S3Config{
			Bucket:    cfg.Archive.S3.Bucket,
			Endpoint:  cfg.Archive.S3.Endpoint,
			Region:    cfg.Archive.S3.Region,
			AccessKey: cfg.Archive.S3.AccessKey,
			SecretKey: cfg.Archive.S3.SecretKey,
			Prefix:    cfg.Archive.S3.Prefix,
		})
	default:
		storage, err = archive.NewLocalFS(cfg.Archive.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing archive storage: %w", err)
	}

	return archive.NewArchiver(storage), nil
}

// backtestConfig maps config defaults onto an engine config.
func backtestConfig(cfg *config.Config) backtest.Config {
	return backtest.Config{
		InitialCapital: cfg.Backtest.InitialCapital,
		CommissionRate: cfg.Backtest.CommissionRate,
		Interval:       cfg.Backtest.Interval,
		RiskFreeRate:   cfg.Backtest.RiskFreeRate,
	}
}
