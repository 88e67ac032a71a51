package speed

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Hufung/map/geo"
)

// Getter retrieves a remote document. *fetch.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Restyler re-applies styles to already rendered road geometry. The
// styleFor callback is valid only for the duration of the call.
type Restyler interface {
	RestyleSegments(styleFor func(id string) geo.Style)
}

// Engine owns the segment-to-reading mapping. The mapping is replaced
// wholesale on every refresh; it is guarded because geometry loads and
// refreshes touch it from different goroutines.
type Engine struct {
	client Getter
	url    string

	mu          sync.RWMutex
	readings    map[string]Reading
	lastRefresh time.Time
}

// NewEngine builds an Engine reading the feed at url.
func NewEngine(client Getter, url string) *Engine {
	return &Engine{client: client, url: url, readings: make(map[string]Reading)}
}

// Refresh fetches the feed once and swaps in the decoded mapping.
func (e *Engine) Refresh(ctx context.Context) (map[string]Reading, error) {
	body, err := e.client.Get(ctx, e.url)
	if err != nil {
		return nil, fmt.Errorf("refresh traffic speeds: %w", err)
	}
	readings := DecodeFeed(body)
	e.mu.Lock()
	e.readings = readings
	e.lastRefresh = time.Now()
	e.mu.Unlock()
	return readings, nil
}

// ReadingCount reports the size of the current mapping.
func (e *Engine) ReadingCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.readings)
}

// LastRefresh reports when the mapping was last replaced. The zero time
// means no refresh has succeeded yet.
func (e *Engine) LastRefresh() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastRefresh
}

// Reading returns the live measurement for a segment, if any.
func (e *Engine) Reading(id string) (Reading, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r, ok := e.readings[id]
	return r, ok
}

// StyleFor derives the drawing style for a segment from the current
// mapping alone. Weight grows with severity so color is never the only
// signal.
func (e *Engine) StyleFor(id string) geo.Style {
	e.mu.RLock()
	r := e.readings[id]
	e.mu.RUnlock()
	switch r.Reliability {
	case Smooth:
		return geo.Style{Color: "#28a745", Weight: 4}
	case Slow:
		return geo.Style{Color: "#ffc107", Weight: 5}
	case Congested:
		return geo.Style{Color: "#dc3545", Weight: 6}
	default:
		return geo.Style{Color: "#888888", Weight: 3}
	}
}

// Run refreshes immediately and then on every interval tick until ctx is
// done, pushing each successful refresh through restyler. Refreshes are
// strictly sequential; a slow fetch delays the next tick rather than
// overlapping it.
func (e *Engine) Run(ctx context.Context, interval time.Duration, restyler Restyler) {
	refresh := func() {
		if _, err := e.Refresh(ctx); err != nil {
			log.Printf("traffic speed refresh failed: %v", err)
			return
		}
		if restyler != nil {
			restyler.RestyleSegments(e.StyleFor)
		}
	}
	refresh()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
