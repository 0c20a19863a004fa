package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/nordvik/pulse/internal/bot"
	"github.com/nordvik/pulse/internal/logger"
	"github.com/nordvik/pulse/internal/market"
	"github.com/nordvik/pulse/internal/market/binance"
	"github.com/nordvik/pulse/internal/market/coinbase"
	"github.com/nordvik/pulse/internal/metrics"
	"github.com/nordvik/pulse/internal/paper"
	"github.com/nordvik/pulse/internal/risk"
	"github.com/nordvik/pulse/internal/signal"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Run the paper trading loop",
	Long:  "Continuously fetch candles, generate signals and execute gated trades against a simulated account",
	RunE:  runTrade,
}

func init() {
	rootCmd.AddCommand(tradeCmd)
}

func runTrade(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(zap.NewNop())
	if err != nil {
		return err
	}

	log := logger.Must(debug || cfg.Logging.Development, cfg.Logging.Level)
	defer log.Sync()

	source, err := signal.Factory(cfg.Bot.Model)
	if err != nil {
		return fmt.Errorf("creating model: %w", err)
	}

	feed := newFeed(cfg.Market.Providers)
	account := paper.NewAccount(cfg.Bot.InitialCapital)

	riskCfg := cfg.Risk
	riskCfg.MinSignalConfidence = cfg.Bot.MinConfidence
	gate := risk.NewManager(riskCfg, account, account, feed)

	registry := metrics.NewRegistry()
	engine := bot.New(cfg.Bot, feed, source, account, gate, registry, log)

	ctx, stop := ossignal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}

		go func() {
			log.Info("metrics server listening", zap.String("addr", cfg.Metrics.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server error", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	log.Info("starting paper trading",
		zap.String("symbol", cfg.Bot.Symbol),
		zap.String("model", source.Name()),
		zap.Float64("initial_capital", cfg.Bot.InitialCapital),
	)

	if err := engine.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("paper trading stopped",
		zap.Float64("balance_eur", account.BalanceEUR()),
		zap.Int("trades", len(account.Trades())),
	)
	return nil
}

// newFeed builds the market feed from the configured provider order.
func newFeed(names []string) *market.Feed {
	providers := make([]market.Provider, 0, len(names))
	for _, name := range names {
		switch name {
		case "coinbase":
			providers = append(providers, coinbase.New())
		case "binance":
			providers = append(providers, binance.New())
		}
	}
	if len(providers) == 0 {
		return market.New()
	}
	return market.NewWithProviders(providers...)
}
