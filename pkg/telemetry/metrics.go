package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/unityguilds/hub/pkg/logging"
)

var (
	instrumentsMu sync.RWMutex
	contentWrites metric.Int64Counter
	authLogins    metric.Int64Counter
	searchQueries metric.Int64Counter
)

func init() {
	initInstruments()
}

func initInstruments() {
	meter := otel.Meter(instrumentationName)

	instrumentsMu.Lock()
	defer instrumentsMu.Unlock()

	// errors only occur for invalid instrument names
	contentWrites, _ = meter.Int64Counter("unity_content_writes_total",
		metric.WithDescription("Content mutations by collection and operation"))
	authLogins, _ = meter.Int64Counter("unity_auth_logins_total",
		metric.WithDescription("OAuth login attempts by result"))
	searchQueries, _ = meter.Int64Counter("unity_search_queries_total",
		metric.WithDescription("Search queries served"))
}

// RecordContentWrite counts a successful create, update or delete
func RecordContentWrite(ctx context.Context, collection, op string) {
	instrumentsMu.RLock()
	defer instrumentsMu.RUnlock()
	contentWrites.Add(ctx, 1, metric.WithAttributes(
		attribute.String("collection", collection),
		attribute.String("op", op),
	))
}

// RecordLogin counts an OAuth login attempt
func RecordLogin(ctx context.Context, result string) {
	instrumentsMu.RLock()
	defer instrumentsMu.RUnlock()
	authLogins.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordSearch counts a served search query
func RecordSearch(ctx context.Context) {
	instrumentsMu.RLock()
	defer instrumentsMu.RUnlock()
	searchQueries.Add(ctx, 1)
}

// ServeMetrics exposes the Prometheus registry on its own listener
func ServeMetrics(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		logging.GetLogger().Info("Metrics server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.GetLogger().Error("Metrics server failed", zap.Error(err))
		}
	}()

	return srv
}
