// Package metrics exposes Prometheus instrumentation for the bot and
// the backtester.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// Trading loop metrics
	cyclesTotal    *prometheus.CounterVec
	cycleDuration  prometheus.Histogram
	signalsTotal   *prometheus.CounterVec
	tradesTotal    *prometheus.CounterVec
	riskRejections *prometheus.CounterVec
	accountEquity  prometheus.Gauge

	// Backtest metrics
	backtestsTotal   *prometheus.CounterVec
	backtestDuration prometheus.Histogram
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		cyclesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulse_trading_cycles_total",
				Help: "Total number of trading cycles executed",
			},
			[]string{"status"},
		),

		cycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pulse_trading_cycle_duration_seconds",
				Help:    "Trading cycle duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		signalsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulse_signals_total",
				Help: "Total number of signals generated",
			},
			[]string{"model", "direction"},
		),

		tradesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulse_trades_total",
				Help: "Total number of paper trades executed",
			},
			[]string{"symbol", "side"},
		),

		riskRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulse_risk_rejections_total",
				Help: "Total number of trades rejected by the risk gate",
			},
			[]string{"reason"},
		),

		accountEquity: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pulse_account_equity_eur",
				Help: "Paper account quote balance in EUR",
			},
		),

		backtestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulse_backtests_total",
				Help: "Total number of backtests",
			},
			[]string{"status"},
		),

		backtestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pulse_backtest_duration_seconds",
				Help:    "Backtest duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
			},
		),
	}

	reg.MustRegister(r.cyclesTotal)
	reg.MustRegister(r.cycleDuration)
	reg.MustRegister(r.signalsTotal)
	reg.MustRegister(r.tradesTotal)
	reg.MustRegister(r.riskRejections)
	reg.MustRegister(r.accountEquity)
	reg.MustRegister(r.backtestsTotal)
	reg.MustRegister(r.backtestDuration)

	return r
}

// RecordCycle records one trading cycle.
func (r *Registry) RecordCycle(status string, duration float64) {
	r.cyclesTotal.WithLabelValues(status).Inc()
	r.cycleDuration.Observe(duration)
}

// RecordSignal records a generated signal.
func (r *Registry) RecordSignal(model, direction string) {
	r.signalsTotal.WithLabelValues(model, direction).Inc()
}

// RecordTrade records an executed paper trade.
func (r *Registry) RecordTrade(symbol, side string) {
	r.tradesTotal.WithLabelValues(symbol, side).Inc()
}

// RecordRiskRejection records a trade rejected by the risk gate.
func (r *Registry) RecordRiskRejection(reason string) {
	r.riskRejections.WithLabelValues(reason).Inc()
}

// SetAccountEquity updates the account equity gauge.
func (r *Registry) SetAccountEquity(eur float64) {
	r.accountEquity.Set(eur)
}

// RecordBacktest records a backtest run.
func (r *Registry) RecordBacktest(status string, duration float64) {
	r.backtestsTotal.WithLabelValues(status).Inc()
	r.backtestDuration.Observe(duration)
}
