package catalog

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fernlabs/storechat/domain"
)

// Snapshot is an immutable point-in-time view of the catalog. It is
// published as a whole and never mutated afterward; readers hold one
// snapshot reference for the duration of an operation.
type Snapshot struct {
	Products  []domain.Product
	FetchedAt time.Time
}

// Syncer fetches the complete remote catalog and atomically publishes a new
// Snapshot. It is the only writer of the published snapshot reference.
type Syncer struct {
	client   *Client // nil when the catalog provider is not configured
	pageSize int
	interval time.Duration

	current atomic.Pointer[Snapshot]
	syncMu  sync.Mutex // guards against overlapping sync runs
}

// NewSyncer creates a syncer. A nil client makes every sync a logged no-op,
// leaving the (initially empty) snapshot in place.
func NewSyncer(client *Client, pageSize int, interval time.Duration) *Syncer {
	s := &Syncer{
		client:   client,
		pageSize: pageSize,
		interval: interval,
	}
	s.current.Store(&Snapshot{})
	return s
}

// Snapshot returns the currently published snapshot. Never nil.
func (s *Syncer) Snapshot() *Snapshot {
	return s.current.Load()
}

// SyncOnce fetches the complete catalog and publishes a new snapshot in one
// atomic step. On any fetch error the published snapshot is left untouched:
// stale-but-consistent wins over partial-but-wrong. A call that arrives
// while another sync is still in flight is skipped, not queued.
func (s *Syncer) SyncOnce(ctx context.Context) error {
	if s.client == nil {
		log.Printf("WARN: catalog sync skipped: storefront domain or token not configured")
		return nil
	}
	if !s.syncMu.TryLock() {
		log.Printf("WARN: catalog sync already in flight, skipping this run")
		return nil
	}
	defer s.syncMu.Unlock()

	products, err := s.fetchAll(ctx)
	if err != nil {
		log.Printf("ERROR: catalog sync failed, keeping previous snapshot: %v", err)
		return err
	}

	s.current.Store(&Snapshot{Products: products, FetchedAt: time.Now()})
	log.Printf("catalog sync complete: %d products", len(products))
	return nil
}

// fetchAll follows the pagination cursor until the continuation flag is
// false, accumulating every page in original order.
func (s *Syncer) fetchAll(ctx context.Context) ([]domain.Product, error) {
	var all []domain.Product
	cursor := ""
	for {
		page, next, hasNext, err := s.client.FetchPage(ctx, cursor, s.pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if !hasNext {
			return all, nil
		}
		if next == "" {
			return nil, errContinuationWithoutCursor
		}
		cursor = next
	}
}

// Run performs a best-effort initial sync and then refreshes the snapshot
// on a fixed interval until ctx is cancelled.
func (s *Syncer) Run(ctx context.Context) {
	_ = s.SyncOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.SyncOnce(ctx)
		}
	}
}
