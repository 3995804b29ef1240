package audit

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Store implementations when no audit
// exists under the requested ID.
var ErrNotFound = errors.New("audit not found")

// Store persists audit records and their status transitions.
// SetError records the terminal failure message and discards any
// results already written, so a failed audit never exposes a partial
// payload.
type Store interface {
	CreateAudit(ctx context.Context, id, url string) error
	SetStatus(ctx context.Context, id string, status Status) error
	SetResults(ctx context.Context, id string, results Results) error
	SetError(ctx context.Context, id string, message string) error
	GetAudit(ctx context.Context, id string) (Audit, error)
}

// Fetcher retrieves a single URL. Implementations never return an
// error: transport failures degrade to a StatusCode of 0.
type Fetcher interface {
	Fetch(ctx context.Context, url string) FetchResult
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces audit IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}
