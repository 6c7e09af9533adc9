package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Logger interface {
	Warn(msg string, fields map[string]interface{})
}

// Observability records webhook outcomes through an OpenTelemetry meter
// exported on the default Prometheus registry.
type Observability struct {
	meterProvider   *metric.MeterProvider
	meter           otelmetric.Meter
	webhookCounter  otelmetric.Int64Counter
	webhookDuration otelmetric.Float64Histogram
	subAccounts     otelmetric.Int64Counter
}

func New(serviceName string, log Logger) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("Failed to create Prometheus exporter, otel metrics disabled", map[string]interface{}{
			"error": err.Error(),
		})
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	webhookCounter, _ := meter.Int64Counter(
		"webhooks.processed",
		otelmetric.WithDescription("Number of survey webhooks processed"),
	)

	webhookDuration, _ := meter.Float64Histogram(
		"webhooks.duration",
		otelmetric.WithDescription("Survey webhook processing duration"),
		otelmetric.WithUnit("ms"),
	)

	subAccounts, _ := meter.Int64Counter(
		"subaccounts.created",
		otelmetric.WithDescription("Number of CRM sub-accounts created"),
	)

	return &Observability{
		meterProvider:   provider,
		meter:           meter,
		webhookCounter:  webhookCounter,
		webhookDuration: webhookDuration,
		subAccounts:     subAccounts,
	}
}

// Noop returns an Observability that records nothing.
func Noop() *Observability {
	return &Observability{}
}

func (o *Observability) RecordWebhookProcessed(ctx context.Context, outcome string) {
	if o == nil || o.webhookCounter == nil {
		return
	}
	o.webhookCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (o *Observability) RecordWebhookDuration(ctx context.Context, duration time.Duration, outcome string) {
	if o == nil || o.webhookDuration == nil {
		return
	}
	o.webhookDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (o *Observability) RecordSubAccountCreated(ctx context.Context, sourceLocationID string) {
	if o == nil || o.subAccounts == nil {
		return
	}
	o.subAccounts.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("source_location_id", sourceLocationID),
	))
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
