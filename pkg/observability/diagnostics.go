package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DiagnosticsServer exposes health, readiness, and Prometheus metrics
// endpoints over HTTP for operational monitoring of long-lived modes.
type DiagnosticsServer struct {
	server   *http.Server
	listener net.Listener
}

// NewDiagnosticsServer starts an HTTP server at addr with /healthz, /readyz,
// and /metrics endpoints.
func NewDiagnosticsServer(addr string) (*DiagnosticsServer, error) {
	mux := http.NewServeMux()

	mux.Handle("/healthz", HealthHandler())
	mux.Handle("/readyz", ReadyHandler())

	metricsHandler, err := PrometheusHandler()
	if err != nil {
		return nil, fmt.Errorf("create prometheus handler: %w", err)
	}

	mux.Handle("/metrics", metricsHandler)

	var lc net.ListenConfig

	listener, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{Handler: mux}

	go func() {
		serveErr := srv.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Warn("diagnostics server stopped", "error", serveErr)
		}
	}()

	return &DiagnosticsServer{server: srv, listener: listener}, nil
}

// Addr returns the address the server is listening on.
func (d *DiagnosticsServer) Addr() string {
	return d.listener.Addr().String()
}

// Close gracefully shuts down the diagnostics server.
func (d *DiagnosticsServer) Close() error {
	err := d.server.Shutdown(context.Background())
	if err != nil {
		return fmt.Errorf("shutdown diagnostics server: %w", err)
	}

	return nil
}

// PrometheusHandler returns an [http.Handler] serving the /metrics scrape
// endpoint for the validation run instruments. Each call gets its own
// Prometheus registry so repeated diagnostics servers never collide on
// collector registration.
func PrometheusHandler() (http.Handler, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	// The exporter only collects when attached to a MeterProvider as a
	// reader; without one the scrape endpoint would stay empty.
	_ = sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))

	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil
}
