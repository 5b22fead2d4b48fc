package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("tabsplit", reg)

	m.ObserveRPC("/tabsplit.v1.SessionService/GetSummary", "ok", 3*time.Millisecond)
	m.ObserveAllocation("ok")
	m.ObserveAllocation("rejected")
	m.SetActiveSessions(4)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("/tabsplit.v1.SessionService/GetSummary", "ok")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Allocations.WithLabelValues("rejected")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.ActiveSessions))
}

func TestMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := New("tabsplit", reg)
	second := New("tabsplit", reg)

	second.ObserveAllocation("ok")
	assert.Equal(t, 1.0, testutil.ToFloat64(first.Allocations.WithLabelValues("ok")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRPC("p", "ok", time.Millisecond)
		m.ObserveAllocation("ok")
		m.SetActiveSessions(1)
	})
}
