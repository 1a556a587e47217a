package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_FromFile(t *testing.T) {
	content := []byte(`
server:
  host: "127.0.0.1"
  port: 8080

backtest:
  initial_capital: 25000
  commission_rate: 0.002
  max_position_size: 500
  interval: "4h"

archive:
  enabled: true
  type: localfs
  path: "/tmp/chronos/reports"
`)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}

	if cfg.Backtest.InitialCapital != 25000 {
		t.Errorf("expected initial_capital 25000, got %f", cfg.Backtest.InitialCapital)
	}

	if cfg.Archive.Type != "localfs" {
		t.Errorf("expected localfs, got %s", cfg.Archive.Type)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}

	if cfg.Backtest.InitialCapital != 10000 {
		t.Errorf("expected default initial_capital 10000, got %f", cfg.Backtest.InitialCapital)
	}

	if cfg.Backtest.CommissionRate != 0.001 {
		t.Errorf("expected default commission_rate 0.001, got %f", cfg.Backtest.CommissionRate)
	}

	if cfg.Sweep.MaxCombinations != 100 {
		t.Errorf("expected default max_combinations 100, got %d", cfg.Sweep.MaxCombinations)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		cfg := *Defaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid port - zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
		},
		{
			name:    "invalid port - too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "zero initial capital",
			mutate:  func(c *Config) { c.Backtest.InitialCapital = 0 },
			wantErr: true,
		},
		{
			name:    "negative commission",
			mutate:  func(c *Config) { c.Backtest.CommissionRate = -0.01 },
			wantErr: true,
		},
		{
			name:    "commission of one",
			mutate:  func(c *Config) { c.Backtest.CommissionRate = 1.0 },
			wantErr: true,
		},
		{
			name:    "zero sweep concurrency",
			mutate:  func(c *Config) { c.Sweep.Concurrency = 0 },
			wantErr: true,
		},
		{
			name: "s3 archive without bucket",
			mutate: func(c *Config) {
				c.Archive.Enabled = true
				c.Archive.Type = "s3"
			},
			wantErr: true,
		},
		{
			name: "unknown archive type",
			mutate: func(c *Config) {
				c.Archive.Enabled = true
				c.Archive.Type = "ftp"
			},
			wantErr: true,
		},
		{
			name:    "claude provider without key",
			mutate:  func(c *Config) { c.LLM.Provider = "claude" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
