package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the storefront collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	catalogLoads    *prometheus.CounterVec
	catalogProducts prometheus.Gauge
	productsCreated *prometheus.CounterVec
	cartActions     *prometheus.CounterVec
	sessions        prometheus.Gauge
	httpDuration    *prometheus.HistogramVec
}

// New registers the collectors with the default registerer
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the collectors with registerer. Collectors that
// are already registered are reused.
func NewWithRegisterer(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &Metrics{
		catalogLoads: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_catalog_loads_total",
			Help: "Catalog loads from the remote service by result",
		}, []string{"result"})),
		catalogProducts: register(registerer, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_catalog_products",
			Help: "Number of products currently held by the catalog store",
		})),
		productsCreated: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_products_created_total",
			Help: "Product create requests by result",
		}, []string{"result"})),
		cartActions: register(registerer, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_cart_actions_total",
			Help: "Cart state transitions applied by action",
		}, []string{"action"})),
		sessions: register(registerer, prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_sessions",
			Help: "Number of browsing sessions held in memory",
		})),
		httpDuration: register(registerer, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request duration by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"})),
	}
}

func register[C prometheus.Collector](registerer prometheus.Registerer, collector C) C {
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(C)
			if !ok {
				panic(fmt.Sprintf("collector already registered with unexpected type: %T", alreadyRegistered.ExistingCollector))
			}
			return existing
		}
		panic(fmt.Sprintf("register collector: %v", err))
	}
	return collector
}

// RecordCatalogLoad counts a load attempt and, on success, sets the product gauge
func (m *Metrics) RecordCatalogLoad(products int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.catalogLoads.WithLabelValues("error").Inc()
		return
	}
	m.catalogLoads.WithLabelValues("ok").Inc()
	m.catalogProducts.Set(float64(products))
}

// RecordProductCreated counts a create attempt
func (m *Metrics) RecordProductCreated(products int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.productsCreated.WithLabelValues("error").Inc()
		return
	}
	m.productsCreated.WithLabelValues("ok").Inc()
	m.catalogProducts.Set(float64(products))
}

// RecordCartAction counts an applied cart transition
func (m *Metrics) RecordCartAction(action string) {
	if m == nil {
		return
	}
	m.cartActions.WithLabelValues(action).Inc()
}

// SetSessions reports the number of live sessions
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.sessions.Set(float64(n))
}

// ObserveHTTP records the duration of a served request
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
