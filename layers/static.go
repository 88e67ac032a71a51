package layers

import (
	"context"
	"fmt"

	"github.com/paulmach/orb/geojson"

	"github.com/Hufung/map/decode"
)

// LoadProhibitions merges the private-car and all-vehicle prohibition
// feeds into one collection. Both must answer; a partial merge would be
// misleading on the map.
func (a *App) LoadProhibitions(ctx context.Context) ([]*geojson.Feature, error) {
	pc, err := a.fetchFeatures(ctx, a.sources.ProhibitionPCURL)
	if err != nil {
		return nil, fmt.Errorf("fetch prohibitions (PC): %w", err)
	}
	all, err := a.fetchFeatures(ctx, a.sources.ProhibitionAllURL)
	if err != nil {
		return nil, fmt.Errorf("fetch prohibitions (ALL): %w", err)
	}
	return append(pc, all...), nil
}

// LoadTurnRestrictions fetches and unpacks the turn restrictions KMZ.
func (a *App) LoadTurnRestrictions(ctx context.Context) ([]*geojson.Feature, error) {
	body, err := a.client.Get(ctx, a.sources.TurnRestrictsURL)
	if err != nil {
		return nil, fmt.Errorf("fetch turn restrictions: %w", err)
	}
	fc, err := decode.KMZ(body, decode.SimpleProps)
	if err != nil {
		return nil, err
	}
	return fc.Features, nil
}

// LoadAttractions lazily fetches the attractions layer the first time
// its checkbox is turned on; later toggles reuse the cached features.
func (a *App) LoadAttractions(ctx context.Context) ([]*geojson.Feature, error) {
	a.mu.Lock()
	cached := a.attractions
	a.mu.Unlock()
	if cached != nil {
		return cached, nil
	}
	fc, err := a.fetchFeatures(ctx, a.sources.AttractionsURL)
	if err != nil {
		return nil, fmt.Errorf("fetch attractions: %w", err)
	}
	a.mu.Lock()
	a.attractions = fc
	a.mu.Unlock()
	if a.renderer != nil {
		a.renderer.SetLayer(LayerAttractions, fc)
	}
	return fc, nil
}

// LoadViewingPoints lazily fetches the viewing points layer.
func (a *App) LoadViewingPoints(ctx context.Context) ([]*geojson.Feature, error) {
	a.mu.Lock()
	cached := a.viewingPoints
	a.mu.Unlock()
	if cached != nil {
		return cached, nil
	}
	fc, err := a.fetchFeatures(ctx, a.sources.ViewingPointsURL)
	if err != nil {
		return nil, fmt.Errorf("fetch viewing points: %w", err)
	}
	a.mu.Lock()
	a.viewingPoints = fc
	a.mu.Unlock()
	if a.renderer != nil {
		a.renderer.SetLayer(LayerViewingPoints, fc)
	}
	return fc, nil
}
