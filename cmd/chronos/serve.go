package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dkoval/chronos/internal/api"
	apihandler "github.com/dkoval/chronos/internal/api/handler/api"
	"github.com/dkoval/chronos/internal/api/job"
	"github.com/dkoval/chronos/internal/backtest"
	"github.com/dkoval/chronos/internal/collector"
	"github.com/dkoval/chronos/internal/logger"
	"github.com/dkoval/chronos/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Chronos API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	cache, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	factories, err := buildFactories(cfg, log)
	if err != nil {
		return err
	}

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
	}

	jobTTL := time.Duration(cfg.Server.JobTTLHours) * time.Hour
	if jobTTL <= 0 {
		jobTTL = time.Hour
	}
	jobStore := job.NewStore(cfg.Server.MaxJobs, jobTTL)

	engine := backtest.New(cache, log)
	sweeper := backtest.NewSweeper(engine, log)
	if reg != nil {
		engine.SetRecorder(reg)
		sweeper.SetRecorder(reg)
	}

	engineCfg := backtestConfig(cfg)
	backtests := apihandler.NewBacktestHandler(jobStore, engine, factories, engineCfg, reg, log)
	sweeps := apihandler.NewSweepHandler(jobStore, sweeper, factories, engineCfg, reg, log)

	server := api.NewServer(api.Config{
		Host:   cfg.Server.Host,
		Port:   cfg.Server.Port,
		APIKey: cfg.Server.APIKey,
	}, api.Deps{
		Backtests:  backtests,
		Sweeps:     sweeps,
		Strategies: factoryNames(factories),
		Metrics:    reg,
	}, log)

	log.Info("starting Chronos server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.Strings("strategies", factoryNames(factories)),
	)

	stopCh := make(chan struct{})
	go janitor(jobStore, cache, reg, log, stopCh)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down Chronos server")
	close(stopCh)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// janitor evicts expired jobs and mirrors cache counters into the
// metrics registry once a minute.
func janitor(jobStore *job.Store, cache *collector.Cache, reg *metrics.Registry, log *zap.Logger, stop <-chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	var lastHits, lastMisses int64

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if removed := jobStore.CleanupExpired(); removed > 0 {
				log.Debug("cleaned up expired jobs", zap.Int("removed", removed))
			}

			if reg != nil && cache != nil {
				hits, misses := cache.Stats()
				for i := lastHits; i < hits; i++ {
					reg.RecordCacheHit()
				}
				for i := lastMisses; i < misses; i++ {
					reg.RecordCacheMiss()
				}
				lastHits, lastMisses = hits, misses
			}
		}
	}
}
