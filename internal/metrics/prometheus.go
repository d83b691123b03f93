package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shopapi"

// PrometheusRecorder exports metrics through a Prometheus registry.
type PrometheusRecorder struct {
	entities     *prometheus.CounterVec
	associations *prometheus.CounterVec
	httpTotal    *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewPrometheus registers the application collectors on reg.
func NewPrometheus(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		entities: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "entity_operations_total",
				Help:      "Entity mutations by entity and operation.",
			},
			[]string{"entity", "operation"},
		),
		associations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "order_product_operations_total",
				Help:      "Order/product association attempts by outcome.",
			},
			[]string{"outcome"},
		),
		httpTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route", "status"},
		),
	}
}

// IncEntityCreated increments the created counter for entity.
func (p *PrometheusRecorder) IncEntityCreated(entity string) {
	p.entities.WithLabelValues(entity, "created").Inc()
}

// IncEntityUpdated increments the updated counter for entity.
func (p *PrometheusRecorder) IncEntityUpdated(entity string) {
	p.entities.WithLabelValues(entity, "updated").Inc()
}

// IncEntityDeleted increments the deleted counter for entity.
func (p *PrometheusRecorder) IncEntityDeleted(entity string) {
	p.entities.WithLabelValues(entity, "deleted").Inc()
}

// IncAssociation increments the association counter for outcome.
func (p *PrometheusRecorder) IncAssociation(outcome string) {
	p.associations.WithLabelValues(outcome).Inc()
}

// ObserveHTTPRequest records one served request.
func (p *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	p.httpTotal.WithLabelValues(method, route, code).Inc()
	p.httpDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
}
