package cache

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pshannon/minustide/pkg/metrics"
)

const (
	// memTTL bounds the in-memory layer; the persistent store is the
	// authority on freshness.
	memTTL = 10 * time.Minute

	defaultFetchTimeout = 30 * time.Second
)

// FetchFunc produces the value for a cache miss. The context it receives is
// detached from any single caller and carries the Loader's fetch timeout.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Loader memoizes fetches through a Store. Concurrent GetOrFetch calls for
// the same key share one in-flight fetch; a fetch failure is returned to
// every waiter and nothing is stored, so the next access retries.
type Loader struct {
	store   Store
	mem     *Timed
	group   singleflight.Group
	timeout time.Duration
	now     func() time.Time
}

// NewLoader returns a Loader over store with the default fetch timeout.
func NewLoader(store Store) *Loader {
	return &Loader{
		store:   store,
		mem:     NewTimed(memTTL),
		timeout: defaultFetchTimeout,
		now:     time.Now,
	}
}

// GetOrFetch returns the cached value for key, fetching and storing it on a
// miss. maxAge of zero means a stored entry never expires; otherwise
// entries older than maxAge are refetched.
func (l *Loader) GetOrFetch(ctx context.Context, key string, maxAge time.Duration, fetch FetchFunc) ([]byte, error) {
	// The memory layer cannot honor expiries shorter than its own TTL.
	if maxAge == 0 || maxAge >= memTTL {
		if v, ok := l.mem.Get(key); ok {
			metrics.ObserveCacheEvent("memory_hit")
			return v, nil
		}
	}

	v, storedAt, ok, err := l.store.Get(ctx, key)
	if err != nil {
		// A broken store read degrades to a miss.
		log.Printf("cache store read for %q failed: %v", key, err)
	} else if ok && (maxAge == 0 || l.now().Sub(storedAt) <= maxAge) {
		metrics.ObserveCacheEvent("store_hit")
		l.mem.Set(key, v)
		return v, nil
	}
	metrics.ObserveCacheEvent("miss")

	res, err, _ := l.group.Do(key, func() (interface{}, error) {
		// Detach from the caller: one abandoning request must not cancel a
		// flight other waiters share. The Loader's own timeout bounds it.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()

		v, err := fetch(fctx)
		if err != nil {
			metrics.ObserveCacheEvent("fetch_error")
			return nil, err
		}
		metrics.ObserveCacheEvent("fetch")

		if err := l.store.Put(fctx, key, v, l.now()); err != nil {
			// Serve the value anyway; only persistence suffered.
			log.Printf("cache store write for %q failed: %v", key, err)
		}
		l.mem.Set(key, v)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]byte), nil
}
