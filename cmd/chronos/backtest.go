package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dkoval/chronos/internal/backtest"
	"github.com/dkoval/chronos/internal/core"
	"github.com/dkoval/chronos/internal/logger"
	"github.com/dkoval/chronos/internal/strategy"
)

var (
	backtestSymbol   string
	backtestFrom     string
	backtestTo       string
	backtestInterval string
	backtestParams   string
	backtestNotify   bool
)

var backtestCmd = &cobra.Command{
	Use:   "backtest [strategy]",
	Short: "Run a backtest on a strategy",
	Long:  "Replay a strategy against historical bars and print performance statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runBacktestCmd,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestSymbol, "symbol", "", "Symbol to backtest (required)")
	backtestCmd.Flags().StringVar(&backtestFrom, "from", "", "Start date YYYY-MM-DD (required)")
	backtestCmd.Flags().StringVar(&backtestTo, "to", "", "End date YYYY-MM-DD (required)")
	backtestCmd.Flags().StringVar(&backtestInterval, "interval", "", "Bar interval (default from config)")
	backtestCmd.Flags().StringVar(&backtestParams, "params", "", "Strategy parameters as JSON object")
	backtestCmd.Flags().BoolVar(&backtestNotify, "notify", false, "Send the report to configured notifiers")

	backtestCmd.MarkFlagRequired("symbol")
	backtestCmd.MarkFlagRequired("from")
	backtestCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktestCmd(cmd *cobra.Command, args []string) error {
	strategyName := args[0]

	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	start, end, err := parseDateRange(backtestFrom, backtestTo)
	if err != nil {
		return err
	}

	params := map[string]any{
		"max_position_size": cfg.Backtest.MaxPositionSize,
	}
	if backtestParams != "" {
		if err := json.Unmarshal([]byte(backtestParams), &params); err != nil {
			return fmt.Errorf("invalid --params JSON: %w", err)
		}
	}
	if sc, ok := cfg.Strategies[strategyName]; ok {
		for k, v := range sc.Params {
			if _, set := params[k]; !set {
				params[k] = v
			}
		}
	}

	factories, err := buildFactories(cfg, log)
	if err != nil {
		return err
	}
	factory, ok := factories[strategyName]
	if !ok {
		return fmt.Errorf("unknown strategy %q (available: %v)", strategyName, factoryNames(factories))
	}

	strat := factory()
	if err := strat.Init(strategy.Config{Enabled: true, Params: params}); err != nil {
		return fmt.Errorf("initializing strategy: %w", err)
	}

	cache, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	engineCfg := backtestConfig(cfg)
	if backtestInterval != "" {
		engineCfg.Interval = backtestInterval
	}

	engine := backtest.New(cache, log)

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	result, err := engine.Run(ctx, strat, backtestSymbol, start, end, engineCfg)
	if errors.Is(err, core.ErrNoData) {
		return fmt.Errorf("no bars found for %s in the requested range", backtestSymbol)
	}
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	printResult(result)

	hits, misses := cache.Stats()
	log.Debug("bar cache", zap.Int64("hits", hits), zap.Int64("misses", misses))

	if archiver, err := buildArchiver(cfg); err != nil {
		log.Warn("archive setup failed", zap.Error(err))
	} else if archiver != nil {
		path, err := archiver.Save(ctx, result)
		if err != nil {
			log.Warn("archiving report failed", zap.Error(err))
		} else {
			fmt.Printf("\nReport archived to %s\n", path)
		}
	}

	if backtestNotify {
		registry := buildNotifiers(cfg, log)
		for name, err := range registry.BroadcastReport(ctx, result) {
			log.Warn("notification failed", zap.String("notifier", name), zap.Error(err))
		}
	}

	return nil
}

func parseDateRange(from, to string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from date (expected YYYY-MM-DD): %w", err)
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to date (expected YYYY-MM-DD): %w", err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date must be after start date")
	}
	return start, end, nil
}

func printResult(result *backtest.Result) {
	fmt.Println("=== Chronos Backtest ===")
	fmt.Printf("Strategy: %s\n", result.Strategy)
	fmt.Printf("Symbol:   %s (%s)\n", result.Symbol, result.Interval)
	fmt.Printf("Period:   %s to %s\n",
		result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02"))
	fmt.Println()

	s := result.Stats
	fmt.Printf("Initial Capital:    %s\n", result.InitialCapital)
	fmt.Printf("Final Equity:       %s\n", result.FinalEquity)
	fmt.Printf("Total Return:       %.2f%%\n", s.TotalReturnPct)
	fmt.Printf("Annualized Return:  %.2f%%\n", s.AnnualizedReturnPct)
	fmt.Println()
	fmt.Printf("Trades:             %d (%d wins, %d losses)\n",
		s.TotalTrades, s.WinningTrades, s.LosingTrades)
	fmt.Printf("Win Rate:           %.1f%%\n", s.WinRate)
	fmt.Printf("Profit Factor:      %.2f\n", s.ProfitFactor)
	fmt.Printf("Avg Win / Avg Loss: %.2f / %.2f\n", s.AvgWin, s.AvgLoss)
	fmt.Println()
	fmt.Printf("Max Drawdown:       %.2f%%\n", s.MaxDrawdownPct)
	fmt.Printf("Sharpe Ratio:       %.2f\n", s.SharpeRatio)
	fmt.Printf("Sortino Ratio:      %.2f\n", s.SortinoRatio)
	fmt.Printf("Total Fees:         %.2f\n", s.TotalFees)
}
