package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.RecordCatalogLoad(3, nil)
	m.RecordCatalogLoad(0, errors.New("boom"))
	m.RecordProductCreated(4, nil)
	m.RecordCartAction("increase")
	m.RecordCartAction("increase")
	m.SetSessions(3)
	m.ObserveHTTP("GET", "/api/catalog", 200, 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogLoads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogLoads.WithLabelValues("error")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.catalogProducts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.productsCreated.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cartActions.WithLabelValues("increase")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sessions))
	assert.Equal(t, 1, testutil.CollectAndCount(m.httpDuration))
}

func TestMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewWithRegisterer(reg)
	second := NewWithRegisterer(reg)

	first.RecordCartAction("add")
	assert.Equal(t, 1.0, testutil.ToFloat64(second.cartActions.WithLabelValues("add")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordCatalogLoad(1, nil)
		m.RecordProductCreated(1, nil)
		m.RecordCartAction("add")
		m.SetSessions(1)
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	})
}
