package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestGeometryCollectorRecordsQueries(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewGeometryCollector(reg)
	if err != nil {
		t.Fatalf("NewGeometryCollector: %v", err)
	}

	collector.ObserveQuery("intersection", "ok", 3*time.Millisecond)
	collector.ObserveQuery("intersection", "ok", 5*time.Millisecond)
	collector.ObserveQuery("eclipse", "error", time.Millisecond)

	if got := testutil.ToFloat64(collector.Queries.WithLabelValues("intersection", "ok")); got != 2 {
		t.Fatalf("geometry_queries_total{intersection,ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.Queries.WithLabelValues("eclipse", "error")); got != 1 {
		t.Fatalf("geometry_queries_total{eclipse,error} = %v, want 1", got)
	}

	if count := histogramSampleCount(t, reg, "geometry_query_duration_seconds", map[string]string{
		"op": "intersection",
	}); count != 2 {
		t.Fatalf("geometry_query_duration_seconds sample_count = %d, want 2", count)
	}
}

func TestGeometryCollectorMeshGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewGeometryCollector(reg)
	if err != nil {
		t.Fatalf("NewGeometryCollector: %v", err)
	}

	collector.SetMeshSize("Earth", 5120)
	collector.SetMeshSize("Earth", 1280) // reload with a coarser mesh

	if got := testutil.ToFloat64(collector.MeshTriangles.WithLabelValues("Earth")); got != 1280 {
		t.Fatalf("mesh_triangles{Earth} = %v, want 1280", got)
	}
}

func TestGeometryCollectorDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewGeometryCollector(reg); err != nil {
		t.Fatalf("first NewGeometryCollector: %v", err)
	}
	second, err := NewGeometryCollector(reg)
	if err != nil {
		t.Fatalf("second NewGeometryCollector: %v", err)
	}

	// The second collector reuses the registered metrics.
	second.EphemerisErrors.Inc()
	if got := testutil.ToFloat64(second.EphemerisErrors); got != 1 {
		t.Fatalf("ephemeris_errors_total = %v, want 1", got)
	}
}

func TestGeometryCollectorHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewGeometryCollector(reg)
	if err != nil {
		t.Fatalf("NewGeometryCollector: %v", err)
	}
	collector.ObserveQuery("field_data", "ok", 2*time.Millisecond)

	srv := httptest.NewServer(collector.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	body := make([]byte, 1<<20)
	n, _ := resp.Body.Read(body)
	text := string(body[:n])
	if !strings.Contains(text, "geometry_queries_total") {
		t.Errorf("metrics output missing geometry_queries_total:\n%s", text)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *GeometryCollector
	c.ObserveQuery("intersection", "ok", time.Millisecond)
	c.SetMeshSize("Earth", 10)
}

func histogramSampleCount(t *testing.T, g prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if !metricMatchesLabels(m, labels) {
				continue
			}
			return m.GetHistogram().GetSampleCount()
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return 0
}

func metricMatchesLabels(m *dto.Metric, labels map[string]string) bool {
	got := make(map[string]string, len(m.GetLabel()))
	for _, l := range m.GetLabel() {
		got[l.GetName()] = l.GetValue()
	}
	for k, v := range labels {
		if got[k] != v {
			return false
		}
	}
	return true
}
