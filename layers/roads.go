package layers

import (
	"context"
	"fmt"

	"github.com/Hufung/map/geo"
	"github.com/Hufung/map/roadnet"
)

// LoadRoadNetwork streams the road geometry into the renderer, drawing
// each segment once with its current style. Failure is a layer-scoped
// error: the caller surfaces a retry for the traffic layer without
// touching anything else.
func (a *App) LoadRoadNetwork(ctx context.Context) error {
	if a.Roads == nil {
		return fmt.Errorf("road network loader not configured")
	}
	err := a.Roads.Load(ctx, func(chunk []roadnet.Segment) {
		a.drawChunk(chunk)
	})
	if err != nil {
		return fmt.Errorf("load road network: %w", err)
	}
	return nil
}

func (a *App) drawChunk(chunk []roadnet.Segment) {
	a.mu.Lock()
	fresh := chunk[:0:0]
	for _, seg := range chunk {
		if _, ok := a.drawn[seg.RouteID]; ok {
			continue
		}
		a.drawn[seg.RouteID] = seg.Geometry
		fresh = append(fresh, seg)
	}
	a.mu.Unlock()

	if a.renderer == nil {
		return
	}
	for _, seg := range fresh {
		style := geo.Style{Color: "#888888", Weight: 3}
		if a.Speeds != nil {
			style = a.Speeds.StyleFor(seg.RouteID)
		}
		a.renderer.DrawSegment(seg.RouteID, seg.Geometry, style)
	}
}

// RestyleSegments re-applies styles to every drawn segment without
// touching geometry. It satisfies speed.Restyler, so the refresh loop
// pushes each new mapping through here.
func (a *App) RestyleSegments(styleFor func(id string) geo.Style) {
	a.mu.Lock()
	ids := make([]string, 0, len(a.drawn))
	for id := range a.drawn {
		ids = append(ids, id)
	}
	a.mu.Unlock()

	if a.renderer == nil {
		return
	}
	for _, id := range ids {
		a.renderer.RestyleSegment(id, styleFor(id))
	}
}

// DrawnSegmentCount reports how many road segments have been rendered.
func (a *App) DrawnSegmentCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.drawn)
}
