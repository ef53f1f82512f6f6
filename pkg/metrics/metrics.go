package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by the domain counters.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// BookingMetrics records booking lifecycle activity.
type BookingMetrics struct {
	created     prometheus.Counter
	transitions *prometheus.CounterVec
}

// NewBookingMetrics registers the booking metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	if reg == nil {
		return &BookingMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookaro_bookings_created_total",
		Help: "Bookings created.",
	})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookaro_booking_transitions_total",
		Help: "Booking status transition attempts by target status and outcome.",
	}, []string{"to", "outcome"})
	reg.MustRegister(created, transitions)
	return &BookingMetrics{created: created, transitions: transitions}
}

// IncCreated counts a persisted booking.
func (m *BookingMetrics) IncCreated() {
	if m == nil || m.created == nil {
		return
	}
	m.created.Inc()
}

// ObserveTransition counts a transition attempt toward the target status.
func (m *BookingMetrics) ObserveTransition(to, outcome string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(to), normalizeLabel(outcome)).Inc()
}

// ReviewMetrics records rating recomputation activity.
type ReviewMetrics struct {
	recompute   *prometheus.HistogramVec
	lockSkipped prometheus.Counter
}

// NewReviewMetrics registers the review metrics on the provided registerer.
func NewReviewMetrics(reg prometheus.Registerer) *ReviewMetrics {
	if reg == nil {
		return &ReviewMetrics{}
	}
	recompute := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookaro_rating_recompute_seconds",
		Help:    "Duration of review writes including aggregate recomputation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "outcome"})
	lockSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookaro_rating_lock_skipped_total",
		Help: "Review writes that proceeded without the distributed aggregate lock.",
	})
	reg.MustRegister(recompute, lockSkipped)
	return &ReviewMetrics{recompute: recompute, lockSkipped: lockSkipped}
}

// ObserveRecompute records the duration of a review write.
func (m *ReviewMetrics) ObserveRecompute(operation, outcome string, duration time.Duration) {
	if m == nil || m.recompute == nil {
		return
	}
	m.recompute.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncLockSkipped counts a write that fell back to the database row lock only.
func (m *ReviewMetrics) IncLockSkipped() {
	if m == nil || m.lockSkipped == nil {
		return
	}
	m.lockSkipped.Inc()
}

// HTTPMetrics records request counts and latency per route pattern.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookaro_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookaro_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	reg.MustRegister(requests, duration)
	return &HTTPMetrics{requests: requests, duration: duration}
}

// Observe records one served request.
func (m *HTTPMetrics) Observe(method, route, status string, duration time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	route = normalizeLabel(route)
	m.requests.WithLabelValues(method, route, status).Inc()
	m.duration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
