package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()

	if auditsTotal == nil || pagesFetchedTotal == nil || pageIssuesTotal == nil ||
		httpRequestsTotal == nil || httpRequestDurationSeconds == nil || activeAudits == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}
}

func TestObserveHelpers(t *testing.T) {
	Init()

	ObserveAudit("completed")
	ObservePage(200)
	ObserveIssue("MISSING_TITLE")
	ObserveHTTPRequest("GET", "/audit/{audit_id}", 200, 25*time.Millisecond)

	if val := testutil.ToFloat64(auditsTotal.WithLabelValues("completed")); val < 1 {
		t.Fatalf("expected audits counter >= 1, got %f", val)
	}
	if val := testutil.ToFloat64(pageIssuesTotal.WithLabelValues("MISSING_TITLE")); val < 1 {
		t.Fatalf("expected issue counter >= 1, got %f", val)
	}
}

func TestActiveAuditsGauge(t *testing.T) {
	Init()

	before := testutil.ToFloat64(activeAudits)
	IncActiveAudits()
	if got := testutil.ToFloat64(activeAudits); got != before+1 {
		t.Fatalf("gauge = %f, want %f", got, before+1)
	}
	DecActiveAudits()
	if got := testutil.ToFloat64(activeAudits); got != before {
		t.Fatalf("gauge = %f, want %f", got, before)
	}
}
