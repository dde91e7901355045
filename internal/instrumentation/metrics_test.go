package instrumentation

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestMetrics returns metrics backed by a manual reader so recorded values
// can be collected synchronously.
func newTestMetrics(t *testing.T, detailedLabels bool) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := NewMetrics(provider.Meter("test"), detailedLabels)
	if err != nil {
		t.Fatalf("expected no error creating metrics, got %v", err)
	}
	return metrics, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func counterPoints(t *testing.T, m metricdata.Metrics) []metricdata.DataPoint[int64] {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("metric %s is %T, want Sum[int64]", m.Name, m.Data)
	}
	return sum.DataPoints
}

func TestNewMetrics(t *testing.T) {
	metrics, _ := newTestMetrics(t, false)

	if metrics.httpRequestsTotal == nil {
		t.Error("expected httpRequestsTotal to be initialized")
	}
	if metrics.toolInvocationsTotal == nil {
		t.Error("expected toolInvocationsTotal to be initialized")
	}
	if metrics.dockhandRequestsTotal == nil {
		t.Error("expected dockhandRequestsTotal to be initialized")
	}
	if metrics.dockhandLoginsTotal == nil {
		t.Error("expected dockhandLoginsTotal to be initialized")
	}
}

func TestRecordToolInvocation(t *testing.T) {
	t.Run("without detailed labels", func(t *testing.T) {
		metrics, reader := newTestMetrics(t, false)
		metrics.RecordToolInvocation(context.Background(), "list_containers", "prod", StatusSuccess, "", 10*time.Millisecond)
		metrics.RecordToolInvocation(context.Background(), "get_container", "", StatusError, "UpstreamError", 5*time.Millisecond)

		points := counterPoints(t, collect(t, reader)["tool_invocations_total"])
		if len(points) != 2 {
			t.Fatalf("expected 2 series, got %d", len(points))
		}
		for _, p := range points {
			if _, ok := p.Attributes.Value(attribute.Key(attrEnvironmentType)); ok {
				t.Error("environment_type must not be recorded without detailed labels")
			}
			if p.Value != 1 {
				t.Errorf("expected value 1, got %d", p.Value)
			}
		}
	})

	t.Run("with detailed labels", func(t *testing.T) {
		metrics, reader := newTestMetrics(t, true)
		metrics.RecordToolInvocation(context.Background(), "list_containers", "prod-eu", StatusSuccess, "", time.Millisecond)

		points := counterPoints(t, collect(t, reader)["tool_invocations_total"])
		if len(points) != 1 {
			t.Fatalf("expected 1 series, got %d", len(points))
		}
		envType, ok := points[0].Attributes.Value(attribute.Key(attrEnvironmentType))
		if !ok || envType.AsString() != "production" {
			t.Errorf("environment_type = %v, want production", envType.AsString())
		}
	})
}

func TestRecordDockhandRequest(t *testing.T) {
	metrics, reader := newTestMetrics(t, false)
	metrics.RecordDockhandRequest(context.Background(), "GET", "/api/containers/{id}", 200, time.Millisecond)
	metrics.RecordDockhandRequest(context.Background(), "GET", "/api/containers/{id}", 0, time.Millisecond)

	points := counterPoints(t, collect(t, reader)["dockhand_requests_total"])
	statuses := map[string]bool{}
	for _, p := range points {
		v, _ := p.Attributes.Value(attribute.Key(attrStatus))
		statuses[v.AsString()] = true
	}
	if !statuses["200"] || !statuses[StatusError] {
		t.Errorf("expected status labels 200 and error, got %v", statuses)
	}
}

func TestRecordDockhandLogin(t *testing.T) {
	metrics, reader := newTestMetrics(t, false)
	metrics.RecordDockhandLogin(context.Background(), "success")
	metrics.RecordDockhandLogin(context.Background(), "success")
	metrics.RecordDockhandLogin(context.Background(), "rejected")

	points := counterPoints(t, collect(t, reader)["dockhand_logins_total"])
	totals := map[string]int64{}
	for _, p := range points {
		v, _ := p.Attributes.Value(attribute.Key(attrResult))
		totals[v.AsString()] = p.Value
	}
	if totals["success"] != 2 || totals["rejected"] != 1 {
		t.Errorf("unexpected login totals: %v", totals)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var metrics *Metrics
	ctx := context.Background()

	metrics.RecordHTTPRequest(ctx, "GET", "/healthz", 200, time.Millisecond)
	metrics.RecordToolInvocation(ctx, "list_images", "", StatusSuccess, "", time.Millisecond)
	metrics.RecordDockhandRequest(ctx, "GET", "/api/images", 200, time.Millisecond)
	metrics.RecordDockhandLogin(ctx, "success")
}

func TestMetricsConcurrentRecording(t *testing.T) {
	metrics, reader := newTestMetrics(t, false)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			metrics.RecordHTTPRequest(context.Background(), "POST", "/mcp", 200, time.Millisecond)
		}()
	}
	wg.Wait()

	points := counterPoints(t, collect(t, reader)["http_requests_total"])
	if len(points) != 1 || points[0].Value != 50 {
		t.Errorf("expected a single series with value 50, got %+v", points)
	}
}
