package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dkoval/chronos/internal/backtest"
	"github.com/dkoval/chronos/internal/logger"
)

var (
	sweepSymbol    string
	sweepFrom      string
	sweepTo        string
	sweepInterval  string
	sweepRanges    string
	sweepObjective string
	sweepTopN      int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep [strategy]",
	Short: "Run a parameter sweep on a strategy",
	Long: `Backtest every combination of the given parameter ranges and rank
the results by an objective metric.

Ranges are a JSON object, for example:
  '{"fast_period": {"type": "range", "min": 3, "max": 9, "step": 2},
    "slow_period": {"type": "choices", "choices": [20, 50]}}'`,
	Args: cobra.ExactArgs(1),
	RunE: runSweepCmd,
}

func init() {
	sweepCmd.Flags().StringVar(&sweepSymbol, "symbol", "", "Symbol to sweep (required)")
	sweepCmd.Flags().StringVar(&sweepFrom, "from", "", "Start date YYYY-MM-DD (required)")
	sweepCmd.Flags().StringVar(&sweepTo, "to", "", "End date YYYY-MM-DD (required)")
	sweepCmd.Flags().StringVar(&sweepInterval, "interval", "", "Bar interval (default from config)")
	sweepCmd.Flags().StringVar(&sweepRanges, "ranges", "", "Parameter ranges as JSON object (required)")
	sweepCmd.Flags().StringVar(&sweepObjective, "objective", "sharpe_ratio", "Ranking metric")
	sweepCmd.Flags().IntVar(&sweepTopN, "top", 0, "Number of top results to show (default from config)")

	sweepCmd.MarkFlagRequired("symbol")
	sweepCmd.MarkFlagRequired("from")
	sweepCmd.MarkFlagRequired("to")
	sweepCmd.MarkFlagRequired("ranges")

	rootCmd.AddCommand(sweepCmd)
}

func runSweepCmd(cmd *cobra.Command, args []string) error {
	strategyName := args[0]

	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	start, end, err := parseDateRange(sweepFrom, sweepTo)
	if err != nil {
		return err
	}

	var ranges map[string]backtest.ParamRange
	if err := json.Unmarshal([]byte(sweepRanges), &ranges); err != nil {
		return fmt.Errorf("invalid --ranges JSON: %w", err)
	}
	if len(ranges) == 0 {
		return fmt.Errorf("at least one parameter range is required")
	}

	factories, err := buildFactories(cfg, log)
	if err != nil {
		return err
	}
	factory, ok := factories[strategyName]
	if !ok {
		return fmt.Errorf("unknown strategy %q (available: %v)", strategyName, factoryNames(factories))
	}

	cache, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	engineCfg := backtestConfig(cfg)
	if sweepInterval != "" {
		engineCfg.Interval = sweepInterval
	}

	topN := sweepTopN
	if topN <= 0 {
		topN = cfg.Sweep.TopN
	}

	engine := backtest.New(cache, log)
	sweeper := backtest.NewSweeper(engine, log)

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
	defer cancel()

	result, err := sweeper.Run(ctx, factory, backtest.SweepRequest{
		Symbol:      sweepSymbol,
		Start:       start,
		End:         end,
		Config:      engineCfg,
		Ranges:      ranges,
		Objective:   sweepObjective,
		TopN:        topN,
		Concurrency: cfg.Sweep.Concurrency,
	})
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	printSweepResult(result)
	return nil
}

func printSweepResult(result *backtest.SweepResult) {
	fmt.Println("=== Chronos Parameter Sweep ===")
	fmt.Printf("Strategy:  %s\n", result.Strategy)
	fmt.Printf("Symbol:    %s\n", result.Symbol)
	fmt.Printf("Objective: %s\n", result.Objective)
	fmt.Printf("Evaluated: %d (%d skipped, %d failed)\n",
		result.Evaluated, result.Skipped, result.Failed)
	fmt.Println()

	if len(result.Best) == 0 {
		fmt.Println("No successful combinations.")
		return
	}

	for i, combo := range result.Best {
		fmt.Printf("#%d  %s=%.4f  return=%.2f%%  trades=%d  win_rate=%.1f%%\n",
			i+1,
			result.Objective, combo.Stats.Metric(result.Objective),
			combo.Stats.TotalReturnPct,
			combo.Stats.TotalTrades,
			combo.Stats.WinRate,
		)
		params, _ := json.Marshal(combo.Params)
		fmt.Printf("    params: %s\n", params)
	}
}
