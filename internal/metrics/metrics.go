package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engagement_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engagement_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	bookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engagement_bookings_total",
		Help: "Booking attempts by result",
	}, []string{"result"})

	cancellationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engagement_cancellations_total",
		Help: "Meeting cancellation attempts by result",
	}, []string{"result"})

	reportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engagement_reports_submitted_total",
		Help: "Well-being report submissions by result and severity",
	}, []string{"result", "severity"})

	escalationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engagement_escalations_total",
		Help: "Reports routed to the escalation hook",
	})

	meetingsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engagement_meetings_completed_total",
		Help: "Meetings transitioned to completed by the sweep",
	})
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveBooking increments the booking counter for the given result.
func ObserveBooking(result string) {
	bookingsTotal.WithLabelValues(result).Inc()
}

// ObserveCancellation increments the cancellation counter.
func ObserveCancellation(result string) {
	cancellationsTotal.WithLabelValues(result).Inc()
}

// ObserveReport records a report submission attempt.
func ObserveReport(result, severity string) {
	reportsTotal.WithLabelValues(result, severity).Inc()
}

// ObserveEscalation counts an escalation hook invocation.
func ObserveEscalation() {
	escalationsTotal.Inc()
}

// ObserveSweep adds the number of meetings completed by one sweep run.
func ObserveSweep(count int) {
	meetingsSwept.Add(float64(count))
}
