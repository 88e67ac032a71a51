package roadnet

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/paulmach/orb"

	"github.com/Hufung/map/decode"
	"github.com/Hufung/map/fetch"
	"github.com/Hufung/map/geo"
)

// CacheKey is the single logical slot the network geometry lives under.
const CacheKey = "road-network-geometry"

const pageAttempts = 3

// Getter retrieves a remote document. *fetch.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Cache is the persistence surface the loader needs. *cache.Store
// satisfies it.
type Cache interface {
	Get(key string, v interface{}) (bool, error)
	Put(key string, v interface{}) error
}

// Options configures a Loader.
type Options struct {
	BulkURL   string
	PagedURL  string
	PageSize  int
	ChunkSize int
	RecordTag string
	BaseDelay time.Duration
}

// Loader streams road segments to a consumer in bounded chunks. A single
// Loader deduplicates by route identifier across everything it emits, so
// overlapping viewport loads never deliver the same segment twice.
type Loader struct {
	client Getter
	store  Cache
	opts   Options
	seen   map[string]bool
}

// NewLoader builds a Loader. store may be nil to disable caching.
func NewLoader(client Getter, store Cache, opts Options) *Loader {
	if opts.PageSize == 0 {
		opts.PageSize = 1000
	}
	if opts.ChunkSize == 0 {
		opts.ChunkSize = 1000
	}
	if opts.RecordTag == "" {
		opts.RecordTag = "CENTERLINE"
	}
	if opts.BaseDelay == 0 {
		opts.BaseDelay = time.Second
	}
	return &Loader{client: client, store: store, opts: opts, seen: make(map[string]bool)}
}

// Load delivers the full network to onChunk. A fresh cache entry is
// replayed without touching the network; otherwise the bulk document is
// fetched and parsed on a separate goroutine, written to the cache, and
// then streamed. Fetch and parse failures propagate so the caller can
// surface a layer-scoped retry.
func (l *Loader) Load(ctx context.Context, onChunk func([]Segment)) error {
	if l.store != nil {
		var cached []Segment
		ok, err := l.store.Get(CacheKey, &cached)
		if err != nil {
			log.Printf("road network cache read failed, refetching: %v", err)
		} else if ok {
			return l.emit(ctx, l.dedupe(cached), onChunk)
		}
	}

	type result struct {
		segs []Segment
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		body, err := l.client.Get(ctx, l.opts.BulkURL)
		if err != nil {
			ch <- result{err: fmt.Errorf("fetch road network: %w", err)}
			return
		}
		segs, err := ParseBulk(body, l.opts.RecordTag)
		if err != nil {
			ch <- result{err: err}
			return
		}
		// cache before delivery so a consumer crash cannot lose the parse
		if l.store != nil {
			if err := l.store.Put(CacheKey, segs); err != nil {
				log.Printf("road network cache write failed: %v", err)
			}
		}
		ch <- result{segs: segs}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return res.err
		}
		return l.emit(ctx, l.dedupe(res.segs), onChunk)
	}
}

// LoadInView delivers the segments intersecting b, fetched page by page.
// Each page gets up to three attempts with exponential backoff for
// transient failures; a page that keeps failing abandons the scan and
// keeps whatever was already delivered.
func (l *Loader) LoadInView(ctx context.Context, b orb.Bound, onChunk func([]Segment)) error {
	filter := geo.FilterQuery(geo.SpatialClause(b, geo.OpIntersects))
	for offset := 0; ; offset += l.opts.PageSize {
		url := fmt.Sprintf("%s&resultOffset=%d&resultRecordCount=%d&filter=%s",
			l.opts.PagedURL, offset, l.opts.PageSize, filter)
		body, err := l.fetchPage(ctx, url)
		if err != nil {
			log.Printf("abandoning road network page at offset %d: %v", offset, err)
			return nil
		}
		fc, err := decode.GeoJSON(body)
		if err != nil {
			return err
		}
		fresh := make([]Segment, 0, len(fc.Features))
		for _, f := range fc.Features {
			seg, ok := FromFeature(f)
			if !ok || l.seen[seg.RouteID] {
				continue
			}
			l.seen[seg.RouteID] = true
			fresh = append(fresh, seg)
		}
		if err := l.emit(ctx, fresh, onChunk); err != nil {
			return err
		}
		if len(fc.Features) < l.opts.PageSize {
			return nil
		}
	}
}

func (l *Loader) fetchPage(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= pageAttempts; attempt++ {
		body, err := l.client.Get(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !fetch.Retryable(err) || attempt == pageAttempts {
			break
		}
		delay := l.opts.BaseDelay << (attempt - 1)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// dedupe keeps the first occurrence of each route identifier, dropping
// keyless records.
func (l *Loader) dedupe(segs []Segment) []Segment {
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		if s.RouteID == "" || l.seen[s.RouteID] {
			continue
		}
		l.seen[s.RouteID] = true
		out = append(out, s)
	}
	return out
}

// emit streams segs in chunk-sized batches, yielding between batches so
// one large replay never monopolizes the scheduler.
func (l *Loader) emit(ctx context.Context, segs []Segment, onChunk func([]Segment)) error {
	for start := 0; start < len(segs); start += l.opts.ChunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + l.opts.ChunkSize
		if end > len(segs) {
			end = len(segs)
		}
		onChunk(segs[start:end])
		runtime.Gosched()
	}
	return nil
}
