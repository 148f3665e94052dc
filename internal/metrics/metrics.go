// Package metrics exposes Prometheus counters for the pipeline and an
// optional HTTP endpoint serving them next to a health probe.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// FilesProcessedTotal counts terminal attempt outcomes.
	FilesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formatter_files_processed_total",
			Help: "Total processing attempts by terminal outcome",
		},
		[]string{"outcome"}, // processed, error, skipped
	)

	// StoreOpsTotal counts object-store calls.
	StoreOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formatter_store_operations_total",
			Help: "Total object store operations by type and result",
		},
		[]string{"operation", "status"},
	)

	// ProcessingDuration observes per-file claim-to-settle latency.
	ProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "formatter_processing_duration_seconds",
			Help:    "Duration of one file's claim-to-settle pipeline",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	// PollCyclesTotal counts poll-loop iterations by listing result.
	PollCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formatter_poll_cycles_total",
			Help: "Total poll cycles by listing result",
		},
		[]string{"status"}, // success, failure
	)
)

// Serve exposes /metrics and /healthz on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics endpoint listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics endpoint failed", "addr", addr, "error", err)
	}
}
