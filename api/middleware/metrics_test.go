package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/angelmondragon/ayurcart-backend/pkg/metrics"
)

func TestMetricsUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := chi.NewRouter()
	r.Use(Metrics(metrics.NewHTTPMetrics(reg)))
	r.Get("/api/v1/products/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, slug := range []string{"triphala", "brahmi"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+slug, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var counter *dto.MetricFamily
	for _, mf := range mfs {
		if mf.GetName() == "http_requests_total" {
			counter = mf
		}
	}
	if counter == nil {
		t.Fatal("http_requests_total not exported")
	}
	if len(counter.GetMetric()) != 1 {
		t.Fatalf("expected one series for the pattern, got %d", len(counter.GetMetric()))
	}
	m := counter.GetMetric()[0]
	labels := map[string]string{}
	for _, lp := range m.GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	if labels["route"] != "/api/v1/products/{slug}" || labels["status"] != "404" {
		t.Fatalf("unexpected labels %v", labels)
	}
	if m.GetCounter().GetValue() != 2 {
		t.Fatalf("expected 2 requests, got %f", m.GetCounter().GetValue())
	}
}
