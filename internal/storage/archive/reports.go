// internal/storage/archive/reports.go
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dkoval/chronos/internal/backtest"
)

// Archiver persists backtest results to an archive storage backend
type Archiver struct {
	storage Storage
}

// NewArchiver creates an Archiver over the given backend
func NewArchiver(storage Storage) *Archiver {
	return &Archiver{storage: storage}
}

// reportPath builds the canonical archive key for a result
func reportPath(result *backtest.Result, ts time.Time) string {
	strategy := sanitize(result.Strategy)
	symbol := sanitize(result.Symbol)
	return fmt.Sprintf("backtests/%s/%s/%s.json", strategy, symbol, ts.UTC().Format("20060102T150405Z"))
}

func sanitize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "unknown"
	}
	return strings.ReplaceAll(s, "/", "_")
}

// Save writes the result as indented JSON and returns the archive path
func (a *Archiver) Save(ctx context.Context, result *backtest.Result) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}

	path := reportPath(result, time.Now())
	if err := a.storage.Put(ctx, path, data); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// Load reads a previously archived result
func (a *Archiver) Load(ctx context.Context, path string) (*backtest.Result, error) {
	data, err := a.storage.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	var result backtest.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	return &result, nil
}

// List returns archive paths for a strategy, optionally narrowed to a symbol
func (a *Archiver) List(ctx context.Context, strategy, symbol string) ([]string, error) {
	prefix := "backtests"
	if strategy != "" {
		prefix += "/" + sanitize(strategy)
		if symbol != "" {
			prefix += "/" + sanitize(symbol)
		}
	}
	return a.storage.List(ctx, prefix)
}
