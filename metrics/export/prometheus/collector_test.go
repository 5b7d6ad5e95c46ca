package prometheus

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorExportsSnapshot(t *testing.T) {
	c := NewCollectorFromSource(sampleSource())

	// Two counters, one histogram and the audit dropped counter.
	if n := testutil.CollectAndCount(c); n != 4 {
		t.Fatalf("expected 4 metrics, got %d", n)
	}

	registry := prom.NewRegistry()
	registry.MustRegister(c)
	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	found := map[string]bool{}
	for _, mf := range families {
		found[mf.GetName()] = true
		switch mf.GetName() {
		case "gosession_login_success_total":
			if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 7 {
				t.Fatalf("login success = %v, want 7", got)
			}
		case "gosession_resolve_latency_seconds":
			h := mf.GetMetric()[0].GetHistogram()
			if h.GetSampleCount() != 36 {
				t.Fatalf("sample count = %d, want 36", h.GetSampleCount())
			}
			if got := h.GetBucket()[0].GetCumulativeCount(); got != 1 {
				t.Fatalf("first bucket = %d, want 1", got)
			}
		}
	}
	for _, name := range []string{"gosession_login_success_total", "gosession_resolve_latency_seconds", "gosession_audit_dropped_total"} {
		if !found[name] {
			t.Fatalf("missing metric family %s", name)
		}
	}
}

func TestCollectorRegistryHandler(t *testing.T) {
	h, err := NewCollectorFromSource(sampleSource()).RegistryHandler()
	if err != nil {
		t.Fatalf("RegistryHandler failed: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "gosession_audit_dropped_total 2") {
		t.Fatalf("unexpected body:\n%s", body)
	}
}
