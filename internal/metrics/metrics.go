// Package metrics exposes Prometheus instrumentation for the portal's job
// lifecycle. Handlers and services share one Metrics value wired through the
// dependency struct.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the portal's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	JobsCreated         prometheus.Counter
	PaymentsProcessed   prometheus.Counter
	PaymentsRejected    prometheus.Counter
	ReceiptsIssued      prometheus.Counter
	ReceiptQRFailures   prometheus.Counter
	ReceiptRenderSecs   prometheus.Histogram
	PaidEventsPublished prometheus.Counter
	PaidEventsDropped   prometheus.Counter
}

// New creates a Metrics value with its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		JobsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "vendor_portal_jobs_created_total",
			Help: "Number of jobs created.",
		}),
		PaymentsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "vendor_portal_payments_processed_total",
			Help: "Number of successful payment actions.",
		}),
		PaymentsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "vendor_portal_payments_rejected_total",
			Help: "Number of rejected payment attempts (already paid, not found, forbidden).",
		}),
		ReceiptsIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "vendor_portal_receipts_issued_total",
			Help: "Number of receipt PDFs issued.",
		}),
		ReceiptQRFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "vendor_portal_receipt_qr_failures_total",
			Help: "Number of receipts rendered without a QR image due to encoding failure.",
		}),
		ReceiptRenderSecs: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "vendor_portal_receipt_render_seconds",
			Help:    "Receipt PDF render duration.",
			Buckets: prometheus.DefBuckets,
		}),
		PaidEventsPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "vendor_portal_paid_events_published_total",
			Help: "Number of job.paid events published to the broker.",
		}),
		PaidEventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "vendor_portal_paid_events_dropped_total",
			Help: "Number of job.paid events dropped after publish failure.",
		}),
	}
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
