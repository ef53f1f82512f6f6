package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingMetricsCountTransitions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.IncCreated()
	m.ObserveTransition("CONFIRMED", OutcomeSuccess)
	m.ObserveTransition("CONFIRMED", OutcomeSuccess)
	m.ObserveTransition("CANCELLED", OutcomeRejected)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.created))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("CONFIRMED", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("CANCELLED", OutcomeRejected)))
}

func TestReviewMetricsObserveRecompute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewReviewMetrics(reg)

	m.ObserveRecompute("create", OutcomeSuccess, 20*time.Millisecond)
	m.IncLockSkipped()

	count, err := testutil.GatherAndCount(reg, "bookaro_rating_recompute_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lockSkipped))
}

func TestHTTPMetricsNormalizesEmptyRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("GET", "", "404", time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unknown", "404")))
}

func TestNilRegistererIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		NewBookingMetrics(nil).ObserveTransition("COMPLETED", OutcomeSuccess)
		NewReviewMetrics(nil).ObserveRecompute("delete", OutcomeError, time.Second)
		NewHTTPMetrics(nil).Observe("GET", "/", "200", time.Second)
		var nilMetrics *BookingMetrics
		nilMetrics.IncCreated()
	})
}
