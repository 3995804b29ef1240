package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/seoaudit/seoaudit/internal/audit"
)

func TestAuditStoreLifecycle(t *testing.T) {
	t.Parallel()

	store := NewAuditStore()
	ctx := context.Background()

	if err := store.CreateAudit(ctx, "audit-1", "https://example.com"); err != nil {
		t.Fatalf("CreateAudit() error = %v", err)
	}
	if err := store.CreateAudit(ctx, "audit-1", "https://example.com"); err == nil {
		t.Fatal("expected duplicate audit error")
	}

	created, err := store.GetAudit(ctx, "audit-1")
	if err != nil {
		t.Fatalf("GetAudit() error = %v", err)
	}
	if created.Status != audit.StatusPending || created.CreatedAt.IsZero() {
		t.Fatalf("expected pending record with timestamps, got %+v", created)
	}

	for _, status := range []audit.Status{audit.StatusCrawling, audit.StatusAnalyzing} {
		if err := store.SetStatus(ctx, "audit-1", status); err != nil {
			t.Fatalf("SetStatus(%s) error = %v", status, err)
		}
	}

	results := audit.Results{
		URL:          "https://example.com",
		PagesCrawled: 2,
		CompletedAt:  time.Now().UTC(),
	}
	if err := store.SetResults(ctx, "audit-1", results); err != nil {
		t.Fatalf("SetResults() error = %v", err)
	}
	if err := store.SetStatus(ctx, "audit-1", audit.StatusCompleted); err != nil {
		t.Fatalf("SetStatus(completed) error = %v", err)
	}

	final, err := store.GetAudit(ctx, "audit-1")
	if err != nil {
		t.Fatalf("GetAudit() error = %v", err)
	}
	if final.Status != audit.StatusCompleted || final.Results == nil || final.Results.PagesCrawled != 2 {
		t.Fatalf("expected completed record with results, got %+v", final)
	}
	if !final.UpdatedAt.After(final.CreatedAt) && !final.UpdatedAt.Equal(final.CreatedAt) {
		t.Fatalf("updated_at should move forward, got %+v", final)
	}
}

func TestAuditStoreForwardOnlyTransitions(t *testing.T) {
	t.Parallel()

	store := NewAuditStore()
	ctx := context.Background()
	if err := store.CreateAudit(ctx, "audit-2", "https://example.com"); err != nil {
		t.Fatalf("CreateAudit() error = %v", err)
	}

	if err := store.SetStatus(ctx, "audit-2", audit.StatusAnalyzing); err != nil {
		t.Fatalf("skipping forward should be allowed: %v", err)
	}
	if err := store.SetStatus(ctx, "audit-2", audit.StatusCrawling); err == nil {
		t.Fatal("expected backward transition to be rejected")
	}
	if err := store.SetStatus(ctx, "audit-2", audit.StatusFailed); err != nil {
		t.Fatalf("SetStatus(failed) error = %v", err)
	}
	if err := store.SetStatus(ctx, "audit-2", audit.StatusCompleted); err == nil {
		t.Fatal("expected terminal status to be final")
	}
	if err := store.SetStatus(ctx, "audit-2", "exploded"); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestAuditStoreErrorsAndNotFound(t *testing.T) {
	t.Parallel()

	store := NewAuditStore()
	ctx := context.Background()

	if _, err := store.GetAudit(ctx, "missing"); !errors.Is(err, audit.ErrNotFound) {
		t.Fatalf("GetAudit error = %v, want ErrNotFound", err)
	}
	if err := store.SetStatus(ctx, "missing", audit.StatusCrawling); !errors.Is(err, audit.ErrNotFound) {
		t.Fatalf("SetStatus error = %v, want ErrNotFound", err)
	}
	if err := store.SetResults(ctx, "missing", audit.Results{}); !errors.Is(err, audit.ErrNotFound) {
		t.Fatalf("SetResults error = %v, want ErrNotFound", err)
	}
	if err := store.SetError(ctx, "missing", "boom"); !errors.Is(err, audit.ErrNotFound) {
		t.Fatalf("SetError error = %v, want ErrNotFound", err)
	}

	if err := store.CreateAudit(ctx, "audit-3", "https://example.com"); err != nil {
		t.Fatalf("CreateAudit() error = %v", err)
	}
	if err := store.SetError(ctx, "audit-3", "homepage unreachable"); err != nil {
		t.Fatalf("SetError() error = %v", err)
	}
	record, err := store.GetAudit(ctx, "audit-3")
	if err != nil {
		t.Fatalf("GetAudit() error = %v", err)
	}
	if record.ErrorText != "homepage unreachable" {
		t.Fatalf("error text = %q, want recorded message", record.ErrorText)
	}
}

func TestAuditStoreSetErrorDiscardsResults(t *testing.T) {
	t.Parallel()

	store := NewAuditStore()
	ctx := context.Background()

	if err := store.CreateAudit(ctx, "audit-4", "https://example.com"); err != nil {
		t.Fatalf("CreateAudit() error = %v", err)
	}
	if err := store.SetResults(ctx, "audit-4", audit.Results{PagesCrawled: 2}); err != nil {
		t.Fatalf("SetResults() error = %v", err)
	}
	if err := store.SetError(ctx, "audit-4", "completion write failed"); err != nil {
		t.Fatalf("SetError() error = %v", err)
	}

	record, err := store.GetAudit(ctx, "audit-4")
	if err != nil {
		t.Fatalf("GetAudit() error = %v", err)
	}
	if record.Results != nil {
		t.Fatalf("results = %+v, want nil after a recorded failure", record.Results)
	}
	if record.ErrorText != "completion write failed" {
		t.Fatalf("error text = %q, want recorded message", record.ErrorText)
	}
}
