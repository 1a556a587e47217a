package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/dkoval/chronos/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Server     Server                     `mapstructure:"server"`
	Backtest   Backtest                   `mapstructure:"backtest"`
	Sweep      Sweep                      `mapstructure:"sweep"`
	Collectors map[string]CollectorConfig `mapstructure:"collectors"`
	Strategies map[string]StrategyConfig  `mapstructure:"strategies"`
	Notifiers  map[string]NotifierConfig  `mapstructure:"notifiers"`
	Archive    Archive                    `mapstructure:"archive"`
	LLM        LLMConfig                  `mapstructure:"llm"`
	Metrics    Metrics                    `mapstructure:"metrics"`
}

type Server struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	APIKey      string `mapstructure:"api_key"`
	JobTTLHours int    `mapstructure:"job_ttl_hours"`
	MaxJobs     int    `mapstructure:"max_jobs"`
}

// Backtest holds replay defaults applied when a request omits them.
type Backtest struct {
	InitialCapital  float64 `mapstructure:"initial_capital"`
	CommissionRate  float64 `mapstructure:"commission_rate"`
	MaxPositionSize float64 `mapstructure:"max_position_size"`
	Interval        string  `mapstructure:"interval"`
	RiskFreeRate    float64 `mapstructure:"risk_free_rate"`
}

// Sweep holds parameter sweep limits.
type Sweep struct {
	MaxCombinations int `mapstructure:"max_combinations"`
	Concurrency     int `mapstructure:"concurrency"`
	TopN            int `mapstructure:"top_n"`
}

type CollectorConfig struct {
	Enabled bool           `mapstructure:"enabled"`
	APIKey  string         `mapstructure:"api_key"`
	Extra   map[string]any `mapstructure:"extra"`
}

type StrategyConfig struct {
	Enabled bool           `mapstructure:"enabled"`
	Params  map[string]any `mapstructure:"params"`
}

type NotifierConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	BotToken string            `mapstructure:"bot_token"`
	ChatID   string            `mapstructure:"chat_id"`
	URL      string            `mapstructure:"url"`
	Headers  map[string]string `mapstructure:"headers"`
}

// Archive configures where finished backtest reports are stored.
type Archive struct {
	Enabled bool     `mapstructure:"enabled"`
	Type    string   `mapstructure:"type"` // "localfs" or "s3"
	Path    string   `mapstructure:"path"` // For localfs
	S3      S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type LLMConfig struct {
	Provider string       `mapstructure:"provider"`
	Claude   ClaudeConfig `mapstructure:"claude"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// Metrics holds metrics configuration.
type Metrics struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: Server{
			Host:        "0.0.0.0",
			Port:        8080,
			JobTTLHours: 1,
			MaxJobs:     100,
		},
		Backtest: Backtest{
			InitialCapital:  10000,
			CommissionRate:  0.001,
			MaxPositionSize: 1000,
			Interval:        "1h",
			RiskFreeRate:    0.05,
		},
		Sweep: Sweep{
			MaxCombinations: 100,
			Concurrency:     4,
			TopN:            10,
		},
		Archive: Archive{
			Enabled: false,
			Type:    "localfs",
			Path:    "reports",
		},
		Metrics: Metrics{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	if c.Backtest.InitialCapital <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("initial_capital must be positive, got %f", c.Backtest.InitialCapital))
	}
	if c.Backtest.CommissionRate < 0 || c.Backtest.CommissionRate >= 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("commission_rate must be in [0, 1), got %f", c.Backtest.CommissionRate))
	}
	if c.Backtest.MaxPositionSize <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("max_position_size must be positive, got %f", c.Backtest.MaxPositionSize))
	}

	if c.Sweep.MaxCombinations < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("max_combinations must be at least 1, got %d", c.Sweep.MaxCombinations))
	}
	if c.Sweep.Concurrency < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("concurrency must be at least 1, got %d", c.Sweep.Concurrency))
	}

	if c.Archive.Enabled {
		switch c.Archive.Type {
		case "localfs":
			if c.Archive.Path == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("archive path required for localfs"))
			}
		case "s3":
			if c.Archive.S3.Bucket == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("s3 bucket required for s3 archive"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown archive type: %s", c.Archive.Type))
		}
	}

	// LLM validation - if provider set, check config exists
	if c.LLM.Provider != "" {
		switch c.LLM.Provider {
		case "claude":
			if c.LLM.Claude.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("claude api_key required when provider is claude"))
			}
		case "openai":
			if c.LLM.OpenAI.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("openai api_key required when provider is openai"))
			}
		}
	}

	return nil
}
