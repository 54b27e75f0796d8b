package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// pagedCatalogServer serves a fixed product list in pages, tracking how
// many page requests were made.
func pagedCatalogServer(t *testing.T, titles []string, failAtPage int) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var requests atomic.Int64

	handler := func(w http.ResponseWriter, r *http.Request) {
		page := requests.Add(1)
		if failAtPage > 0 && int(page) == failAtPage {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"errors":"boom"}`)
			return
		}

		var req struct {
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		first := int(req.Variables["first"].(float64))
		start := 0
		if after, ok := req.Variables["after"].(string); ok {
			for i := range titles {
				if cursorFor(i) == after {
					start = i + 1
					break
				}
			}
		}
		end := start + first
		if end > len(titles) {
			end = len(titles)
		}

		var edges []string
		for i := start; i < end; i++ {
			edges = append(edges, fmt.Sprintf(
				`{"cursor":%q,"node":{"title":%q,"handle":"h%d","tags":[],"variants":[{"price":{"amount":"1.00","currencyCode":"USD"}}]}}`,
				cursorFor(i), titles[i], i))
		}
		hasNext := end < len(titles)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"data":{"products":{"edges":[%s],"pageInfo":{"hasNextPage":%v}}}}`,
			strings.Join(edges, ","), hasNext)
	}

	server := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(server.Close)
	return server, &requests
}

func cursorFor(i int) string {
	return fmt.Sprintf("cursor-%d", i)
}

func TestSyncOncePaginationCompleteness(t *testing.T) {
	titles := []string{"P0", "P1", "P2", "P3", "P4"}
	server, requests := pagedCatalogServer(t, titles, 0)

	client := NewClient(server.URL, "tok", "2024-01", time.Second)
	syncer := NewSyncer(client, 2, time.Hour)

	if err := syncer.SyncOnce(context.Background()); err != nil {
		t.Fatalf("SyncOnce failed: %v", err)
	}
	if got := requests.Load(); got != 3 {
		t.Fatalf("expected exactly 3 page requests, got %d", got)
	}

	snap := syncer.Snapshot()
	if len(snap.Products) != len(titles) {
		t.Fatalf("expected %d products, got %d", len(titles), len(snap.Products))
	}
	for i, p := range snap.Products {
		if p.Title != titles[i] {
			t.Fatalf("product %d out of order: %q", i, p.Title)
		}
	}
	if snap.FetchedAt.IsZero() {
		t.Fatalf("expected FetchedAt to be set")
	}
}

func TestSyncOnceFailurePreservesSnapshot(t *testing.T) {
	titles := []string{"P0", "P1", "P2", "P3"}
	server, _ := pagedCatalogServer(t, titles, 0)

	client := NewClient(server.URL, "tok", "2024-01", time.Second)
	syncer := NewSyncer(client, 2, time.Hour)

	if err := syncer.SyncOnce(context.Background()); err != nil {
		t.Fatalf("initial sync failed: %v", err)
	}
	good := syncer.Snapshot()

	// Second sync fails on its second page: published snapshot must stay.
	failServer, _ := pagedCatalogServer(t, titles, 2)
	syncer.client = NewClient(failServer.URL, "tok", "2024-01", time.Second)

	if err := syncer.SyncOnce(context.Background()); err == nil {
		t.Fatalf("expected sync error")
	}
	if syncer.Snapshot() != good {
		t.Fatalf("failed sync must not replace the published snapshot")
	}
}

func TestSyncOnceUnconfiguredIsNoop(t *testing.T) {
	syncer := NewSyncer(nil, 250, time.Hour)
	if err := syncer.SyncOnce(context.Background()); err != nil {
		t.Fatalf("unconfigured sync must be a no-op, got %v", err)
	}
	snap := syncer.Snapshot()
	if snap == nil || len(snap.Products) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestSyncSingleFlight(t *testing.T) {
	release := make(chan struct{})
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		<-release
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"products":{"edges":[{"cursor":"c1","node":{"title":"P0","handle":"h0","tags":[],"variants":[]}}],"pageInfo":{"hasNextPage":false}}}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", "2024-01", 5*time.Second)
	syncer := NewSyncer(client, 250, time.Hour)

	done := make(chan error, 1)
	go func() {
		done <- syncer.SyncOnce(context.Background())
	}()

	// Wait until the first run is parked inside the page request.
	for requests.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	// An overlapping run is skipped, not queued: it returns immediately
	// without issuing a second page request.
	if err := syncer.SyncOnce(context.Background()); err != nil {
		t.Fatalf("overlapping sync should be skipped, got %v", err)
	}
	if got := requests.Load(); got != 1 {
		t.Fatalf("overlapping sync issued a request: %d", got)
	}

	before := syncer.Snapshot()
	if len(before.Products) != 0 {
		t.Fatalf("in-flight sync leaked partial results")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	after := syncer.Snapshot()
	if after == before || len(after.Products) != 1 {
		t.Fatalf("expected new complete snapshot after sync, got %+v", after)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	syncer := NewSyncer(nil, 250, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		syncer.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}
