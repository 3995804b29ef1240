// Package memory provides the in-memory audit store. Records live for
// the process lifetime only.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/seoaudit/seoaudit/internal/audit"
)

// statusRank orders the audit lifecycle so transitions only ever move
// forward and terminal states are never re-entered.
var statusRank = map[audit.Status]int{
	audit.StatusPending:   0,
	audit.StatusCrawling:  1,
	audit.StatusAnalyzing: 2,
	audit.StatusCompleted: 3,
	audit.StatusFailed:    3,
}

// AuditStore tracks audit records behind a mutex so concurrent audits
// never interleave writes to the same record.
type AuditStore struct {
	mu     sync.RWMutex
	audits map[string]audit.Audit
}

// NewAuditStore constructs an AuditStore.
func NewAuditStore() *AuditStore {
	return &AuditStore{audits: make(map[string]audit.Audit)}
}

// CreateAudit stores a new record in pending status.
func (s *AuditStore) CreateAudit(_ context.Context, id, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.audits[id]; exists {
		return errors.New("audit already exists")
	}
	now := time.Now().UTC()
	s.audits[id] = audit.Audit{
		ID:        id,
		URL:       url,
		Status:    audit.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

// SetStatus applies a forward-only status transition.
func (s *AuditStore) SetStatus(_ context.Context, id string, status audit.Status) error {
	rank, ok := statusRank[status]
	if !ok {
		return fmt.Errorf("unknown status %q", status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.audits[id]
	if !ok {
		return audit.ErrNotFound
	}
	if rank <= statusRank[a.Status] {
		return fmt.Errorf("invalid transition %s -> %s", a.Status, status)
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	s.audits[id] = a
	return nil
}

// SetResults records the terminal success payload.
func (s *AuditStore) SetResults(_ context.Context, id string, results audit.Results) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.audits[id]
	if !ok {
		return audit.ErrNotFound
	}
	a.Results = &results
	a.UpdatedAt = time.Now().UTC()
	s.audits[id] = a
	return nil
}

// SetError records the terminal failure message and drops any results
// written before the failure, keeping failed audits free of partial
// payloads.
func (s *AuditStore) SetError(_ context.Context, id string, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.audits[id]
	if !ok {
		return audit.ErrNotFound
	}
	a.ErrorText = message
	a.Results = nil
	a.UpdatedAt = time.Now().UTC()
	s.audits[id] = a
	return nil
}

// GetAudit fetches a record by ID.
func (s *AuditStore) GetAudit(_ context.Context, id string) (audit.Audit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.audits[id]
	if !ok {
		return audit.Audit{}, audit.ErrNotFound
	}
	return a, nil
}
