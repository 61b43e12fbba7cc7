package tablecache_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"episodestats/internal/loadmetrics"
	"episodestats/internal/pipeline"
	"episodestats/internal/tablecache"
	"episodestats/internal/testsupport"
)

type countingLoader struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	fail    atomic.Bool
}

func (l *countingLoader) Load(_ context.Context, path string) (*pipeline.Result, error) {
	n := l.calls.Add(1)
	if l.started != nil {
		l.started <- struct{}{}
		<-l.release
	}
	if l.fail.Load() {
		return nil, errors.New("load failed")
	}
	return &pipeline.Result{LoadID: fmt.Sprintf("load-%d", n), Path: path}, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestGetReusesFreshEntry(t *testing.T) {
	path := testsupport.WriteEpisodes(t, t.TempDir())
	loader := &countingLoader{}
	rec := loadmetrics.New()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	cache := tablecache.New(loader, time.Minute, nil, tablecache.WithMetrics(rec), tablecache.WithClock(clock.Now))

	first, err := cache.Get(context.Background(), path)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := cache.Get(context.Background(), path)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if first != second || loader.calls.Load() != 1 {
		t.Fatalf("expected cached result, got %d loads", loader.calls.Load())
	}
	if hits := testutil.ToFloat64(rec.CacheRequests("hit")); hits != 1 {
		t.Fatalf("expected one hit, got %v", hits)
	}

	clock.Advance(time.Minute)
	third, err := cache.Get(context.Background(), path)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if third == first || loader.calls.Load() != 2 {
		t.Fatalf("expected expired entry to rebuild, got %d loads", loader.calls.Load())
	}
}

func TestGetRebuildsWhenFileChanges(t *testing.T) {
	path := testsupport.WriteEpisodes(t, t.TempDir())
	loader := &countingLoader{}
	cache := tablecache.New(loader, time.Hour, nil)

	if _, err := cache.Get(context.Background(), path); err != nil {
		t.Fatalf("Get: %v", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.WriteString("3,1a,Appended,1.0,,,,,\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = f.Close()

	if _, err := cache.Get(context.Background(), path); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loader.calls.Load() != 2 {
		t.Fatalf("expected rebuild after file change, got %d loads", loader.calls.Load())
	}
}

func TestConcurrentMissesShareOneLoad(t *testing.T) {
	path := testsupport.WriteEpisodes(t, t.TempDir())
	loader := &countingLoader{started: make(chan struct{}, 1), release: make(chan struct{})}
	cache := tablecache.New(loader, time.Hour, nil)

	const callers = 8
	results := make([]*pipeline.Result, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := cache.Get(context.Background(), path)
			if err != nil {
				t.Errorf("Get: %v", err)
				return
			}
			results[i] = res
		}(i)
	}
	<-loader.started
	close(loader.release)
	wg.Wait()

	if calls := loader.calls.Load(); calls != 1 {
		t.Fatalf("expected a single load, got %d", calls)
	}
	for i, res := range results {
		if res != results[0] {
			t.Fatalf("caller %d observed a different result", i)
		}
	}
}

func TestFailedLoadsAreNotCached(t *testing.T) {
	path := testsupport.WriteEpisodes(t, t.TempDir())
	loader := &countingLoader{}
	loader.fail.Store(true)
	cache := tablecache.New(loader, time.Hour, nil)

	if _, err := cache.Get(context.Background(), path); err == nil {
		t.Fatal("expected error")
	}
	loader.fail.Store(false)
	if _, err := cache.Get(context.Background(), path); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loader.calls.Load() != 2 || cache.Len() != 1 {
		t.Fatalf("expected retry and one entry, got %d loads, %d entries", loader.calls.Load(), cache.Len())
	}
}

func TestInvalidateAndPurge(t *testing.T) {
	dir := t.TempDir()
	a := testsupport.WriteEpisodes(t, dir)
	b := testsupport.WriteCSV(t, dir, "other.csv", testsupport.EpisodeRows())
	loader := &countingLoader{}
	cache := tablecache.New(loader, time.Hour, nil)

	for _, p := range []string{a, b} {
		if _, err := cache.Get(context.Background(), p); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	cache.Invalidate(a)
	if cache.Len() != 1 {
		t.Fatalf("expected one entry after invalidate, got %d", cache.Len())
	}
	cache.Purge()
	if cache.Len() != 0 {
		t.Fatalf("expected empty cache, got %d", cache.Len())
	}
}

func TestZeroTTLDisablesReuse(t *testing.T) {
	path := testsupport.WriteEpisodes(t, t.TempDir())
	loader := &countingLoader{}
	cache := tablecache.New(loader, 0, nil)
	for i := 0; i < 2; i++ {
		if _, err := cache.Get(context.Background(), path); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if loader.calls.Load() != 2 || cache.Len() != 0 {
		t.Fatalf("expected no reuse, got %d loads", loader.calls.Load())
	}
}
