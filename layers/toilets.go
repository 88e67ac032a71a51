package layers

import (
	"context"
	"log"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/Hufung/map/geo"
)

// fehdPublicToiletFilter narrows the FEHD facility dataset, which mixes
// many facility kinds, to public toilets.
const fehdPublicToiletFilter = "<PropertyIsEqualTo><PropertyName>SEARCH02_TC</PropertyName><Literal>公廁</Literal></PropertyIsEqualTo>"

// FetchToiletsInView merges the FEHD and AFCD toilet datasets for b.
// Each provider fails independently; one provider down still yields the
// other's features.
func (a *App) FetchToiletsInView(ctx context.Context, b orb.Bound) ([]*geojson.Feature, error) {
	bbox := geo.SpatialClause(b, geo.OpBBox)
	fehdURL := a.sources.ToiletsFEHDURL + "&filter=" + geo.FilterQuery(fehdPublicToiletFilter, bbox)
	afcdURL := a.sources.ToiletsAFCDURL + "&filter=" + geo.FilterQuery(bbox)

	type result struct {
		features []*geojson.Feature
		err      error
	}
	fetch := func(url string, ch chan<- result) {
		features, err := a.fetchFeatures(ctx, url)
		ch <- result{features: features, err: err}
	}
	fehdCh := make(chan result, 1)
	afcdCh := make(chan result, 1)
	go fetch(fehdURL, fehdCh)
	go fetch(afcdURL, afcdCh)

	var out []*geojson.Feature
	for name, ch := range map[string]chan result{"FEHD": fehdCh, "AFCD": afcdCh} {
		r := <-ch
		if r.err != nil {
			log.Printf("toilet provider %s failed: %v", name, r.err)
			continue
		}
		out = append(out, r.features...)
	}
	return out, nil
}
