package layers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/Hufung/map/config"
	"github.com/Hufung/map/geo"
)

// routeGetter serves canned bodies matched by URL substring.
type routeGetter struct {
	mu     sync.Mutex
	routes map[string]func() ([]byte, error)
	calls  []string
}

func newRouteGetter() *routeGetter {
	return &routeGetter{routes: map[string]func() ([]byte, error){}}
}

func (g *routeGetter) serve(substr, body string) {
	g.routes[substr] = func() ([]byte, error) { return []byte(body), nil }
}

func (g *routeGetter) fail(substr string, err error) {
	g.routes[substr] = func() ([]byte, error) { return nil, err }
}

func (g *routeGetter) Get(ctx context.Context, url string) ([]byte, error) {
	g.mu.Lock()
	g.calls = append(g.calls, url)
	g.mu.Unlock()
	for substr, f := range g.routes {
		if strings.Contains(url, substr) {
			return f()
		}
	}
	return nil, fmt.Errorf("no route for %s", url)
}

// fakeRenderer records layer and segment operations.
type fakeRenderer struct {
	mu       sync.Mutex
	layers   map[string][]*geojson.Feature
	sets     []string
	drawn    map[string]orb.MultiLineString
	restyles map[string]geo.Style
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		layers:   map[string][]*geojson.Feature{},
		drawn:    map[string]orb.MultiLineString{},
		restyles: map[string]geo.Style{},
	}
}

func (r *fakeRenderer) SetLayer(name string, features []*geojson.Feature) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layers[name] = features
	r.sets = append(r.sets, name)
}

func (r *fakeRenderer) ClearLayer(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.layers, name)
}

func (r *fakeRenderer) DrawSegment(id string, geom orb.MultiLineString, style geo.Style) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drawn[id] = geom
}

func (r *fakeRenderer) RestyleSegment(id string, style geo.Style) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restyles[id] = style
}

func (r *fakeRenderer) layer(name string) []*geojson.Feature {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.layers[name]
}

func testSources() config.SourcesConfig {
	return config.SourcesConfig{
		CarparkInfoURL:    "https://api.example.com/carpark?data=info",
		CarparkVacancyURL: "https://api.example.com/carpark?data=vacancy",
		AttractionsURL:    "https://api.example.com/attractions",
		ViewingPointsURL:  "https://api.example.com/viewing-points",
		ParkingMetersURL:  "https://api.example.com/meters?service=wfs",
		MeterStatusURL:    "https://api.example.com/meter-status.csv",
		TurnRestrictsURL:  "https://api.example.com/turns.kmz",
		TrafficFeatsURL:   "https://api.example.com/traffic?service=wfs",
		PermitURL:         "https://api.example.com/permits",
		ProhibitionPCURL:  "https://api.example.com/prohibition-pc",
		ProhibitionAllURL: "https://api.example.com/prohibition-all",
		TrafficSpeedURL:   "https://api.example.com/speeds.xml",
		FuelStationsURL:   "https://api.example.com/fuel.csv",
		FuelPricesURL:     "https://api.example.com/fuel-prices",
		ToiletsFEHDURL:    "https://api.example.com/toilets-fehd?service=wfs",
		ToiletsAFCDURL:    "https://api.example.com/toilets-afcd?service=wfs",
		RetailersURL:      "https://api.example.com/retailers?service=wfs",
	}
}

func pointCollection(names ...string) string {
	var sb strings.Builder
	sb.WriteString(`{"type":"FeatureCollection","features":[`)
	for i, name := range names {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb,
			`{"type":"Feature","geometry":{"type":"Point","coordinates":[114.17,22.30]},"properties":{"name":%q}}`,
			name)
	}
	sb.WriteString(`]}`)
	return sb.String()
}
