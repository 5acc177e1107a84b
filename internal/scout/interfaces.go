package scout

import (
	"context"
	"time"
)

// SubjectStore persists subject rows. Implementations must support true
// partial updates: fields left unset in an Update are not touched.
type SubjectStore interface {
	// ListPending returns up to limit Pending subjects in FIFO order,
	// projecting at least id, name, and website.
	ListPending(ctx context.Context, limit int) ([]Subject, error)
	// Get returns the full row for one subject.
	Get(ctx context.Context, id string) (Subject, error)
	// CountPending reports how many subjects still await discovery.
	CountPending(ctx context.Context) (int, error)
	// Update applies a partial update to one subject row.
	Update(ctx context.Context, id string, upd Update) error
	// Insert creates a new subject row.
	Insert(ctx context.Context, sub Subject) error
}

// Fetcher performs a single bounded-timeout GET. Non-2xx responses are
// returned as data; only transport failures produce an error.
type Fetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) (Page, error)
}

// SearchOracle answers whether an affiliate program plausibly exists for a
// subject when on-site discovery found nothing.
type SearchOracle interface {
	Lookup(ctx context.Context, name, domain string) (Verdict, error)
}

// Snapshotter archives raw page bodies for later auditing.
type Snapshotter interface {
	Put(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

// Publisher pushes subject-completion events to Pub/Sub (or similar).
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// Sleeper pauses between batches; the system clock honors ctx cancellation.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}
