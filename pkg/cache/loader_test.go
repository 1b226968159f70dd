package cache

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetOrFetchMemoizes(t *testing.T) {
	ctx := context.Background()
	l := NewLoader(NewMemory())

	var calls int32
	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("tides"), nil
	}

	for i := 0; i < 3; i++ {
		v, err := l.GetOrFetch(ctx, "key", 0, fetch)
		if err != nil {
			t.Fatalf("GetOrFetch: %v", err)
		}
		if !bytes.Equal(v, []byte("tides")) {
			t.Errorf("GetOrFetch = %q, want %q", v, "tides")
		}
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("fetch called %d times, want 1", got)
	}
}

func TestGetOrFetchSingleFlight(t *testing.T) {
	ctx := context.Background()
	l := NewLoader(NewMemory())

	var calls int32
	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(50 * time.Millisecond)
		return []byte("tides"), nil
	}

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := l.GetOrFetch(ctx, "key", 0, fetch)
			if err != nil {
				t.Errorf("GetOrFetch: %v", err)
				return
			}
			if !bytes.Equal(v, []byte("tides")) {
				t.Errorf("GetOrFetch = %q, want %q", v, "tides")
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("fetch called %d times under concurrent load, want 1", got)
	}
}

func TestGetOrFetchDoesNotCacheFailure(t *testing.T) {
	ctx := context.Background()
	l := NewLoader(NewMemory())

	boom := errors.New("upstream down")
	var calls int32
	fetch := func(ctx context.Context) ([]byte, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, boom
		}
		return []byte("recovered"), nil
	}

	if _, err := l.GetOrFetch(ctx, "key", 0, fetch); !errors.Is(err, boom) {
		t.Fatalf("first GetOrFetch error = %v, want %v", err, boom)
	}

	v, err := l.GetOrFetch(ctx, "key", 0, fetch)
	if err != nil {
		t.Fatalf("second GetOrFetch: %v", err)
	}
	if !bytes.Equal(v, []byte("recovered")) {
		t.Errorf("second GetOrFetch = %q, want %q", v, "recovered")
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("fetch called %d times, want 2 (failure must not be cached)", got)
	}
}

func TestGetOrFetchMaxAge(t *testing.T) {
	ctx := context.Background()
	l := NewLoader(NewMemory())

	clock := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	var calls int32
	fetch := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("fresh"), nil
	}

	maxAge := time.Hour
	if _, err := l.GetOrFetch(ctx, "key", maxAge, fetch); err != nil {
		t.Fatal(err)
	}

	// Within maxAge the stored entry is served.
	clock = clock.Add(30 * time.Minute)
	l.mem = NewTimed(memTTL) // drop the memory layer to exercise the store path
	if _, err := l.GetOrFetch(ctx, "key", maxAge, fetch); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("fetch called %d times before expiry, want 1", got)
	}

	// Past maxAge the entry is refetched.
	clock = clock.Add(time.Hour)
	l.mem = NewTimed(memTTL)
	if _, err := l.GetOrFetch(ctx, "key", maxAge, fetch); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("fetch called %d times after expiry, want 2", got)
	}
}
