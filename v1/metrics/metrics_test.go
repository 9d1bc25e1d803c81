package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/embeddings/v1/observability"
)

func TestObserveOperationSuccess(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "test"})

	m.ObserveOperation(observability.OperationContext{
		Component:   "embedding",
		Operation:   "create_embeddings",
		Resource:    "gateway",
		SubResource: "my-deployment",
		Duration:    1500 * time.Millisecond,
		Size:        3,
		Metadata:    map[string]interface{}{"outcome": "success", "attempts": 3},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("embedding", "create_embeddings", "gateway", "success")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.attemptsTotal.WithLabelValues("embedding", "gateway")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.retriesTotal.WithLabelValues("embedding", "gateway")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.itemsTotal.WithLabelValues("embedding", "gateway")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.operationDuration))
}

func TestObserveOperationErrorOverridesOutcome(t *testing.T) {
	m := NewMetrics(Config{})

	m.ObserveOperation(observability.OperationContext{
		Component: "embedding",
		Operation: "create_embeddings",
		Resource:  "hosted",
		Error:     errors.New("connection refused"),
		Metadata:  map[string]interface{}{"outcome": "success", "attempts": 1},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("embedding", "create_embeddings", "hosted", "error")))
	assert.Equal(t, 0, testutil.CollectAndCount(m.retriesTotal))
}

func TestNamespaceAndServiceLabel(t *testing.T) {
	m := NewMetrics(Config{Namespace: "search", ServiceName: "indexer"})
	m.ObserveOperation(observability.OperationContext{
		Component: "embedding",
		Operation: "create_embeddings",
		Resource:  "self_hosted",
		Metadata:  map[string]interface{}{"outcome": "rate_limited", "attempts": 3},
	})

	expected := `
# HELP search_operations_total Total number of observed operations by outcome.
# TYPE search_operations_total counter
search_operations_total{component="embedding",operation="create_embeddings",outcome="rate_limited",resource="self_hosted",service="indexer"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "search_operations_total"))
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "indexer"})
	assert.Equal(t, DefaultMetricsAddress, m.Server.Addr)

	m.ObserveOperation(observability.OperationContext{
		Component: "embedding", Operation: "create_embeddings", Resource: "hosted",
		Metadata: map[string]interface{}{"outcome": "success", "attempts": 1},
	})

	rec := httptest.NewRecorder()
	m.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `operations_total{component="embedding"`)
}

func TestCreateCounter(t *testing.T) {
	m := NewMetrics(Config{})
	c := m.CreateCounter("documents_embedded_total", "Documents embedded.", []string{"source"})
	c.WithLabelValues("crawler").Add(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.WithLabelValues("crawler")))
}

func TestCreateHistogramDefaultsBuckets(t *testing.T) {
	m := NewMetrics(Config{})
	h := m.CreateHistogram("batch_size", "Inputs per batch.", []string{"variant"}, nil)
	h.WithLabelValues("hosted").Observe(4)

	assert.Equal(t, 1, testutil.CollectAndCount(h))
}

func TestCustomCollectorsCarryServiceLabel(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "indexer"})
	m.CreateCounter("documents_embedded_total", "Documents embedded.", []string{"source"}).WithLabelValues("crawler").Inc()
	m.CreateHistogram("batch_size", "Inputs per batch.", []string{"variant"}, []float64{8}).WithLabelValues("hosted").Observe(4)

	expected := `
# HELP documents_embedded_total Documents embedded.
# TYPE documents_embedded_total counter
documents_embedded_total{service="indexer",source="crawler"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "documents_embedded_total"))

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "batch_size" {
			continue
		}
		labels := map[string]string{}
		for _, lp := range mf.GetMetric()[0].GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		assert.Equal(t, "indexer", labels["service"])
		return
	}
	t.Fatal("batch_size not gathered")
}
