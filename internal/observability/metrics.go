package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GeometryCollector bundles Prometheus metrics for the geometry query surface
// and provides a ready-made /metrics handler.
type GeometryCollector struct {
	gatherer prometheus.Gatherer

	Queries        *prometheus.CounterVec
	QueryDurations *prometheus.HistogramVec

	MeshTriangles   *prometheus.GaugeVec
	EphemerisErrors prometheus.Counter
}

// NewGeometryCollector registers the geometry metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewGeometryCollector(reg prometheus.Registerer) (*GeometryCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geometry_queries_total",
		Help: "Total number of geometry queries, labeled by operation and outcome.",
	}, []string{"op", "outcome"})
	queries, err := registerCounterVec(reg, queries, "geometry_queries_total")
	if err != nil {
		return nil, err
	}

	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "geometry_query_duration_seconds",
		Help:    "Geometry query latency in seconds.",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"op"})
	durations, err = registerHistogramVec(reg, durations, "geometry_query_duration_seconds")
	if err != nil {
		return nil, err
	}

	triangles := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mesh_triangles",
		Help: "Number of facets of each loaded body mesh.",
	}, []string{"body"})
	triangles, err = registerGaugeVec(reg, triangles, "mesh_triangles")
	if err != nil {
		return nil, err
	}

	ephemErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ephemeris_errors_total",
		Help: "Total number of failed ephemeris provider calls.",
	})
	ephemErrors, err = registerCounter(reg, ephemErrors, "ephemeris_errors_total")
	if err != nil {
		return nil, err
	}

	return &GeometryCollector{
		gatherer:        gatherer,
		Queries:         queries,
		QueryDurations:  durations,
		MeshTriangles:   triangles,
		EphemerisErrors: ephemErrors,
	}, nil
}

// ObserveQuery records one geometry query with its duration.
func (c *GeometryCollector) ObserveQuery(op, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	if c.Queries != nil {
		c.Queries.WithLabelValues(op, outcome).Inc()
	}
	if c.QueryDurations != nil {
		c.QueryDurations.WithLabelValues(op).Observe(d.Seconds())
	}
}

// SetMeshSize publishes the facet count of a loaded body.
func (c *GeometryCollector) SetMeshSize(body string, triangles int) {
	if c == nil || c.MeshTriangles == nil {
		return
	}
	c.MeshTriangles.WithLabelValues(body).Set(float64(triangles))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *GeometryCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}
