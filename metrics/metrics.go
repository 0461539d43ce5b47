package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics export in Prometheus format
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter

	deliveriesTotal  metric.Int64Counter
	deliveryDuration metric.Float64Histogram
	signedURLsTotal  metric.Int64Counter
}

// NewOTelExporter creates the exporter and registers the instruments
func NewOTelExporter() (*OTelExporter, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	meter := meterProvider.Meter(
		"claims-relay",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		meter:         meter,
	}

	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}
	return oe, nil
}

func (oe *OTelExporter) registerInstruments() error {
	var err error

	oe.deliveriesTotal, err = oe.meter.Int64Counter(
		"webhook.deliveries",
		metric.WithDescription("Number of webhook delivery attempts by event and outcome"),
		metric.WithUnit("{attempts}"),
	)
	if err != nil {
		return fmt.Errorf("creating deliveries counter: %w", err)
	}

	oe.deliveryDuration, err = oe.meter.Float64Histogram(
		"webhook.delivery.duration",
		metric.WithDescription("Webhook delivery attempt duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("creating delivery duration histogram: %w", err)
	}

	oe.signedURLsTotal, err = oe.meter.Int64Counter(
		"storage.signed_urls",
		metric.WithDescription("Number of signed URL issuances by outcome"),
		metric.WithUnit("{urls}"),
	)
	if err != nil {
		return fmt.Errorf("creating signed URLs counter: %w", err)
	}

	return nil
}

// Delivery records one delivery attempt; implements dispatch.Recorder
func (oe *OTelExporter) Delivery(event string, success bool, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("webhook.event", event),
		attribute.Bool("webhook.success", success),
	)
	ctx := context.Background()
	oe.deliveriesTotal.Add(ctx, 1, attrs)
	oe.deliveryDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// SignedURL records one signing call outcome
func (oe *OTelExporter) SignedURL(ok bool) {
	oe.signedURLsTotal.Add(context.Background(), 1, metric.WithAttributes(
		attribute.Bool("storage.ok", ok),
	))
}

// ServeHTTP serves Prometheus-formatted metrics
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.Handler()
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
