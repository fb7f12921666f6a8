package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const collectTimeout = 5 * time.Second

// OTelExporter provides OpenTelemetry metrics export following OTel standards
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	registry      *promclient.Registry
	collector     Collector

	// OTel meters and instruments
	meter          metric.Meter
	booksGauge     metric.Int64ObservableGauge
	finishedGauge  metric.Int64ObservableGauge
	pagesReadGauge metric.Int64ObservableGauge
	statusGauge    metric.Int64ObservableGauge
	formatGauge    metric.Int64ObservableGauge
	requests       metric.Int64Counter
	registration   metric.Registration
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format.
// Each exporter owns its Prometheus registry.
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	registry := promclient.NewRegistry()

	// Create Prometheus exporter
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	// Create meter provider
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	// Create meter with service info
	meter := meterProvider.Meter(
		"book-tracker",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		registry:      registry,
		collector:     collector,
		meter:         meter,
	}

	// Register metrics instruments
	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates and registers all OpenTelemetry metric instruments
func (oe *OTelExporter) registerInstruments() error {
	var err error

	oe.booksGauge, err = oe.meter.Int64ObservableGauge(
		"book.library.books",
		metric.WithDescription("Number of books in the library"),
		metric.WithUnit("{books}"),
	)
	if err != nil {
		return fmt.Errorf("creating books gauge: %w", err)
	}

	oe.finishedGauge, err = oe.meter.Int64ObservableGauge(
		"book.library.finished",
		metric.WithDescription("Number of finished books"),
		metric.WithUnit("{books}"),
	)
	if err != nil {
		return fmt.Errorf("creating finished gauge: %w", err)
	}

	oe.pagesReadGauge, err = oe.meter.Int64ObservableGauge(
		"book.library.pages_read",
		metric.WithDescription("Pages read across every book"),
		metric.WithUnit("{pages}"),
	)
	if err != nil {
		return fmt.Errorf("creating pages read gauge: %w", err)
	}

	oe.statusGauge, err = oe.meter.Int64ObservableGauge(
		"book.library.status",
		metric.WithDescription("Number of books by reading status"),
		metric.WithUnit("{books}"),
	)
	if err != nil {
		return fmt.Errorf("creating status gauge: %w", err)
	}

	oe.formatGauge, err = oe.meter.Int64ObservableGauge(
		"book.library.format",
		metric.WithDescription("Number of books by format"),
		metric.WithUnit("{books}"),
	)
	if err != nil {
		return fmt.Errorf("creating format gauge: %w", err)
	}

	// One callback for every gauge, so a scrape lists the books once
	oe.registration, err = oe.meter.RegisterCallback(
		oe.observeLibrary,
		oe.booksGauge, oe.finishedGauge, oe.pagesReadGauge, oe.statusGauge, oe.formatGauge,
	)
	if err != nil {
		return fmt.Errorf("registering library callback: %w", err)
	}

	oe.requests, err = oe.meter.Int64Counter(
		"http.server.requests",
		metric.WithDescription("Number of HTTP requests served"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		return fmt.Errorf("creating request counter: %w", err)
	}

	return nil
}

// observeLibrary is a callback that reports the library gauges
func (oe *OTelExporter) observeLibrary(ctx context.Context, observer metric.Observer) error {
	ctx, cancel := context.WithTimeout(ctx, collectTimeout)
	defer cancel()

	m, err := oe.collector.Collect(ctx)
	if err != nil {
		return err
	}

	observer.ObserveInt64(oe.booksGauge, m.TotalBooks)
	observer.ObserveInt64(oe.finishedGauge, m.TotalBooksRead)
	observer.ObserveInt64(oe.pagesReadGauge, m.TotalPages)
	for status, count := range m.StatusCounts {
		observer.ObserveInt64(oe.statusGauge, count, metric.WithAttributes(
			attribute.String("book.status", status),
		))
	}
	for format, count := range m.FormatCounts {
		observer.ObserveInt64(oe.formatGauge, count, metric.WithAttributes(
			attribute.String("book.format", format),
		))
	}

	return nil
}

// Middleware counts every request by method, chi route pattern and status code
func (oe *OTelExporter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		oe.requests.Add(r.Context(), 1, metric.WithAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("http.route", route),
			attribute.String("http.response.status_code", strconv.Itoa(status)),
		))
	})
}

// Handler serves Prometheus-formatted metrics from the exporter's registry
func (oe *OTelExporter) Handler() http.Handler {
	return promhttp.HandlerFor(oe.registry, promhttp.HandlerOpts{})
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.registration != nil {
		if err := oe.registration.Unregister(); err != nil {
			return fmt.Errorf("unregistering library callback: %w", err)
		}
	}
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
