package views

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/campushub/backend/internal/cache"
	"github.com/campushub/backend/internal/logger"
)

// DefaultWindow is how long repeat views from the same viewer are ignored
const DefaultWindow = 5 * time.Minute

// Debouncer decides whether a view event should be counted. Keys are
// (resource, viewer) pairs; a key seen within the window is suppressed.
//
// When Redis is available the window is shared across instances. Without
// Redis it falls back to process memory, which is only correct for
// single-instance deployments.
type Debouncer struct {
	redis  *cache.RedisClient
	window time.Duration

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewDebouncer creates a Debouncer. redis may be nil.
func NewDebouncer(redis *cache.RedisClient, window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{
		redis:  redis,
		window: window,
		seen:   make(map[string]time.Time),
	}
}

// ShouldCount reports whether this (resource, viewer) view should increment
// the counter, and records the view so repeats inside the window won't.
func (d *Debouncer) ShouldCount(ctx context.Context, resourceID, viewerKey string) bool {
	key := fmt.Sprintf("view:%s:%s", resourceID, viewerKey)

	if d.redis != nil {
		set, err := d.redis.SetNX(ctx, key, 1, d.window)
		if err == nil {
			return set
		}
		// Redis trouble: fall through to the in-memory window so views
		// keep being debounced rather than double-counted
		logger.WarnWithFields("View debounce falling back to memory", err)
	}

	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if last, ok := d.seen[key]; ok && now.Sub(last) < d.window {
		return false
	}
	d.seen[key] = now

	// Opportunistic cleanup to keep the map from growing without bound
	if len(d.seen) > 10000 {
		for k, ts := range d.seen {
			if now.Sub(ts) >= d.window {
				delete(d.seen, k)
			}
		}
	}

	return true
}
