package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/oddscope/surebet/internal/cache/memory"
	"github.com/oddscope/surebet/internal/domain"
)

// stubSource hands out whatever batch is currently loaded and counts calls.
type stubSource struct {
	mu      sync.Mutex
	batch   []domain.RawMarket
	err     error
	fetches int
}

func (s *stubSource) Fetch(context.Context) ([]domain.RawMarket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	return s.batch, s.err
}

func (s *stubSource) load(batch []domain.RawMarket) {
	s.mu.Lock()
	s.batch = batch
	s.mu.Unlock()
}

func (s *stubSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

func testScanner(src domain.Source, cache domain.ResultCache) *Scanner {
	return NewScanner(ScannerConfig{
		Engine:     testEngine(),
		Source:     src,
		Cache:      cache,
		PregameTTL: 120 * time.Second,
		LiveTTL:    10 * time.Second,
		Logger:     testLogger(),
	})
}

func twoWay(eventID string) []domain.RawMarket {
	return []domain.RawMarket{rawMarket(eventID,
		rawQuote("home", "DraftKings", 2.1),
		rawQuote("away", "FanDuel", 2.2),
	)}
}

func TestScanMissThenHit(t *testing.T) {
	ctx := context.Background()
	src := &stubSource{batch: twoWay("ev1")}
	s := testScanner(src, memory.NewResultCache())

	opps, meta, err := s.Scan(ctx, allowAll(), false)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if meta.Hit {
		t.Error("first scan reported a cache hit")
	}
	if len(opps) != 1 {
		t.Fatalf("first scan returned %d opportunities, want 1", len(opps))
	}

	opps, meta, err = s.Scan(ctx, allowAll(), false)
	if err != nil {
		t.Fatalf("second Scan: %v", err)
	}
	if !meta.Hit {
		t.Error("second identical scan missed the cache")
	}
	if meta.Age < 0 {
		t.Errorf("hit age = %v, want >= 0", meta.Age)
	}
	if src.count() != 1 {
		t.Errorf("source fetched %d times, want 1", src.count())
	}
	if len(opps) != 1 {
		t.Errorf("cached scan returned %d opportunities, want 1", len(opps))
	}
}

func TestScanDistinctQueriesDistinctEntries(t *testing.T) {
	ctx := context.Background()
	src := &stubSource{batch: twoWay("ev1")}
	s := testScanner(src, memory.NewResultCache())

	if _, _, err := s.Scan(ctx, allowAll(), false); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	other := allowAll()
	other.MinProfitPct = 5
	if _, meta, err := s.Scan(ctx, other, false); err != nil || meta.Hit {
		t.Errorf("different preferences served from cache (err=%v hit=%v)", err, meta.Hit)
	}
	if src.count() != 2 {
		t.Errorf("source fetched %d times, want 2", src.count())
	}
}

func TestScanForceRefreshBypassesAndOverwrites(t *testing.T) {
	// A fresh entry (aged well under the 120s TTL) must still be bypassed
	// and replaced when forceRefresh is set.
	ctx := context.Background()
	src := &stubSource{batch: twoWay("stale-ev")}
	s := testScanner(src, memory.NewResultCache())

	if _, _, err := s.Scan(ctx, allowAll(), false); err != nil {
		t.Fatalf("warm-up Scan: %v", err)
	}

	src.load(twoWay("fresh-ev"))
	opps, meta, err := s.Scan(ctx, allowAll(), true)
	if err != nil {
		t.Fatalf("forced Scan: %v", err)
	}
	if meta.Hit {
		t.Error("forced scan served from cache")
	}
	if src.count() != 2 {
		t.Errorf("source fetched %d times, want 2", src.count())
	}
	if len(opps) != 1 || opps[0].EventID != "fresh-ev" {
		t.Errorf("forced scan returned %v, want fresh-ev", opps)
	}

	// The forced result replaced the entry; the next plain scan hits it.
	opps, meta, err = s.Scan(ctx, allowAll(), false)
	if err != nil {
		t.Fatalf("follow-up Scan: %v", err)
	}
	if !meta.Hit {
		t.Error("follow-up scan missed the overwritten entry")
	}
	if len(opps) != 1 || opps[0].EventID != "fresh-ev" {
		t.Error("stale data resurfaced after force refresh")
	}
}

func TestScanWithoutCache(t *testing.T) {
	ctx := context.Background()
	src := &stubSource{batch: twoWay("ev1")}
	s := testScanner(src, nil)

	for i := 0; i < 3; i++ {
		if _, meta, err := s.Scan(ctx, allowAll(), false); err != nil || meta.Hit {
			t.Fatalf("uncached scan %d: err=%v hit=%v", i, err, meta.Hit)
		}
	}
	if src.count() != 3 {
		t.Errorf("source fetched %d times, want 3", src.count())
	}
}

func TestScanSourceError(t *testing.T) {
	ctx := context.Background()
	wantErr := errors.New("feed down")
	s := testScanner(&stubSource{err: wantErr}, memory.NewResultCache())

	if _, _, err := s.Scan(ctx, allowAll(), false); !errors.Is(err, wantErr) {
		t.Errorf("Scan error = %v, want wrapped %v", err, wantErr)
	}
}

func TestScanNoSource(t *testing.T) {
	s := testScanner(nil, memory.NewResultCache())
	if _, _, err := s.Scan(context.Background(), allowAll(), false); !errors.Is(err, domain.ErrNoSource) {
		t.Errorf("Scan error = %v, want ErrNoSource", err)
	}
}
