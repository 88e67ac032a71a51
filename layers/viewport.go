package layers

import (
	"context"
	"log"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/Hufung/map/geo"
)

// beginFetch issues a new generation number for a layer. Every viewport
// fetch takes one; only the response holding the latest number may be
// applied, so a slow response for an old viewport can never overwrite a
// newer one.
func (a *App) beginFetch(layer string) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gen[layer]++
	return a.gen[layer]
}

func (a *App) isCurrent(layer string, g uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gen[layer] == g
}

// Visible reports which on-demand layers should refetch on viewport
// changes.
type Visible struct {
	ParkingMeters   bool
	TrafficFeatures bool
	Toilets         bool
	Retailers       bool
}

// OnViewportChanged refetches every visible on-demand layer for the new
// bounds. Layers are independent: they race freely and fail separately,
// and stale responses are discarded by generation number.
func (a *App) OnViewportChanged(ctx context.Context, b orb.Bound, visible Visible) {
	// Generations are issued here, not in the goroutines: the caller's
	// ordering decides which viewport is latest.
	if visible.ParkingMeters {
		go a.refreshViewportLayer(ctx, LayerMeters, a.beginFetch(LayerMeters), func() ([]*geojson.Feature, error) {
			return a.FetchParkingMetersInView(ctx, b)
		})
	}
	if visible.TrafficFeatures {
		go a.refreshViewportLayer(ctx, LayerTraffic, a.beginFetch(LayerTraffic), func() ([]*geojson.Feature, error) {
			return a.FetchTrafficFeaturesInView(ctx, b)
		})
	}
	if visible.Toilets {
		go a.refreshViewportLayer(ctx, LayerToilets, a.beginFetch(LayerToilets), func() ([]*geojson.Feature, error) {
			return a.FetchToiletsInView(ctx, b)
		})
	}
	if visible.Retailers {
		go a.refreshViewportLayer(ctx, LayerRetailers, a.beginFetch(LayerRetailers), func() ([]*geojson.Feature, error) {
			return a.FetchRetailersInView(ctx, b)
		})
	}
}

func (a *App) refreshViewportLayer(ctx context.Context, layer string, gen uint64, fetch func() ([]*geojson.Feature, error)) {
	features, err := fetch()
	if err != nil {
		log.Printf("layer %s fetch failed: %v", layer, err)
		return
	}
	if !a.isCurrent(layer, gen) {
		return
	}
	a.applyLayer(layer, features)
}

// applyLayer stores and renders a layer's new contents, replacing the
// old ones wholesale.
func (a *App) applyLayer(layer string, features []*geojson.Feature) {
	a.mu.Lock()
	if layer == LayerTraffic {
		a.trafficFeatures = features
	}
	a.mu.Unlock()
	if a.renderer != nil {
		a.renderer.SetLayer(layer, features)
	}
}

// FetchTrafficFeaturesInView fetches the point features (crossings, toll
// plazas and the like) inside b.
func (a *App) FetchTrafficFeaturesInView(ctx context.Context, b orb.Bound) ([]*geojson.Feature, error) {
	url := a.sources.TrafficFeatsURL + "&filter=" + geo.FilterQuery(geo.SpatialClause(b, geo.OpBBox))
	return a.fetchFeatures(ctx, url)
}

// FetchRetailersInView fetches the retail points inside b.
func (a *App) FetchRetailersInView(ctx context.Context, b orb.Bound) ([]*geojson.Feature, error) {
	url := a.sources.RetailersURL + "&maxFeatures=500&filter=" + geo.FilterQuery(geo.SpatialClause(b, geo.OpIntersects))
	return a.fetchFeatures(ctx, url)
}
