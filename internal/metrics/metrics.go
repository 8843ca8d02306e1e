package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the RSI engine.
type Metrics struct {
	TradesConsumed   prometheus.Counter
	MalformedTrades  prometheus.Counter
	SignalsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
	ReadErrors       prometheus.Counter
	CommitErrors     prometheus.Counter
	ComputeDur       prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics registers and returns all RSI engine metrics on a private
// registry, so tests can construct as many instances as they need.
func NewMetrics() *Metrics {
	m := &Metrics{
		TradesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rsi_engine_trades_consumed_total",
			Help: "Total trade messages consumed from the trade topic",
		}),
		MalformedTrades: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rsi_engine_malformed_trades_total",
			Help: "Total trade messages skipped because the payload failed to decode",
		}),
		SignalsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rsi_engine_signals_published_total",
			Help: "Total RSI results published to the signal topic",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rsi_engine_publish_errors_total",
			Help: "Total RSI results lost to publish failures",
		}),
		ReadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rsi_engine_read_errors_total",
			Help: "Total receive-side transport errors",
		}),
		CommitErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rsi_engine_commit_errors_total",
			Help: "Total failed offset commit attempts",
		}),
		ComputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rsi_engine_compute_duration_seconds",
			Help:    "Per-trade processing latency (record, compute, classify)",
			Buckets: []float64{0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001},
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.TradesConsumed,
		m.MalformedTrades,
		m.SignalsPublished,
		m.PublishErrors,
		m.ReadErrors,
		m.CommitErrors,
		m.ComputeDur,
	)

	return m
}

// Server runs an HTTP server exposing /metrics.
type Server struct {
	srv *http.Server
}

// NewServer creates a metrics server for the given metrics set.
func NewServer(addr string, m *Metrics) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	return &Server{
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Start launches the HTTP server. It returns http.ErrServerClosed on
// graceful shutdown.
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
