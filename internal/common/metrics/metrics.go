// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhooksReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_webhooks_received_total",
			Help: "Total number of survey completion webhooks received, by outcome",
		},
		[]string{"outcome"},
	)

	WebhookDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "survey_webhook_duration_seconds",
			Help:    "Duration of survey completion webhook processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	WebhooksActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "survey_webhooks_active",
			Help: "Number of survey completion webhooks currently being processed",
		},
	)

	CRMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_requests_total",
			Help: "Total number of outbound CRM API calls, by operation and status code",
		},
		[]string{"operation", "status"},
	)

	CRMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crm_request_duration_seconds",
			Help:    "Duration of outbound CRM API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served, by route and status code",
		},
		[]string{"route", "status"},
	)
)
