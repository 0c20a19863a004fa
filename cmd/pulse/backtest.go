package main

import (
	"context"
	"fmt"
	"time"

	"github.com/nordvik/pulse/internal/backtest"
	"github.com/nordvik/pulse/internal/logger"
	"github.com/nordvik/pulse/internal/signal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	backtestSymbol   string
	backtestInterval string
	backtestLimit    int
)

var backtestCmd = &cobra.Command{
	Use:   "backtest [model]",
	Short: "Run a signal model against historical candles",
	Long:  "Fetch historical candles, replay them through a signal model and show performance statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestSymbol, "symbol", "", "Product symbol, e.g. BTC-EUR (required)")
	backtestCmd.Flags().StringVar(&backtestInterval, "interval", "1h", "Candle interval")
	backtestCmd.Flags().IntVar(&backtestLimit, "limit", 300, "Number of candles to fetch")

	backtestCmd.MarkFlagRequired("symbol")

	rootCmd.AddCommand(backtestCmd)
}

func runBacktest(cmd *cobra.Command, args []string) error {
	model := args[0]

	log := logger.Must(debug, "info")
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	source, err := signal.Factory(model)
	if err != nil {
		return fmt.Errorf("creating model: %w", err)
	}

	feed := newFeed(cfg.Market.Providers)

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	log.Info("fetching candles",
		zap.String("symbol", backtestSymbol),
		zap.String("interval", backtestInterval),
		zap.Int("limit", backtestLimit),
	)

	bars, err := feed.FetchHistory(ctx, backtestSymbol, backtestInterval, backtestLimit)
	if err != nil {
		return fmt.Errorf("fetching candles: %w", err)
	}

	bt := backtest.New(backtest.Config{
		InitialCapital: cfg.Backtest.InitialCapital,
		Warmup:         cfg.Backtest.Warmup,
		RiskPct:        cfg.Backtest.RiskPct,
	}, source, log)

	result, err := bt.Run(ctx, bars, backtestSymbol)
	if err != nil {
		return fmt.Errorf("running backtest: %w", err)
	}

	fmt.Println("=== Pulse Backtest ===")
	fmt.Printf("Model:    %s\n", source.Name())
	fmt.Printf("Symbol:   %s\n", backtestSymbol)
	fmt.Printf("Candles:  %d x %s\n", len(bars), backtestInterval)
	fmt.Printf("Capital:  %.2f EUR\n", cfg.Backtest.InitialCapital)
	fmt.Println()
	fmt.Printf("Total return:   %8.2f%%\n", result.Metrics.TotalReturn*100)
	fmt.Printf("Max drawdown:   %8.2f%%\n", result.Metrics.MaxDrawdown*100)
	fmt.Printf("Sharpe ratio:   %8.2f\n", result.Metrics.SharpeRatio)
	fmt.Printf("Win rate:       %8.2f%%\n", result.Metrics.WinRate*100)
	fmt.Printf("Profit factor:  %8.2f\n", result.Metrics.ProfitFactor)
	fmt.Printf("Trades:         %8d\n", len(result.Trades))

	return nil
}
