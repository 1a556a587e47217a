package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "chronos",
	Short: "Chronos - cryptocurrency strategy backtesting engine",
	Long: `Chronos replays historical market data through trading strategies
and reports performance statistics. It supports single backtests,
parameter sweeps and an HTTP API for asynchronous jobs.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
