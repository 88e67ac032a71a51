package layers

import (
	"context"
	"log"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/Hufung/map/config"
	"github.com/Hufung/map/geo"
	"github.com/Hufung/map/roadnet"
	"github.com/Hufung/map/speed"
)

// Getter retrieves a remote document. *fetch.Client satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Renderer is the drawing collaborator. Layer contents are replaced
// wholesale; road segments are drawn once and restyled by identifier.
type Renderer interface {
	SetLayer(name string, features []*geojson.Feature)
	ClearLayer(name string)
	DrawSegment(id string, geom orb.MultiLineString, style geo.Style)
	RestyleSegment(id string, style geo.Style)
}

// Layer names handed to the Renderer.
const (
	LayerCarparks      = "carparks"
	LayerAttractions   = "attractions"
	LayerViewingPoints = "viewingPoints"
	LayerMeters        = "parkingMeters"
	LayerTraffic       = "trafficFeatures"
	LayerPermits       = "permits"
	LayerProhibitions  = "prohibitions"
	LayerRestrictions  = "turnRestrictions"
	LayerToilets       = "toilets"
	LayerRetailers     = "retailers"
	LayerFuel          = "fuelStations"
)

// App owns all dataset state for one dashboard instance. Everything that
// used to be ambient globals lives here and is torn down with the App.
type App struct {
	client   Getter
	renderer Renderer
	sources  config.SourcesConfig
	lang     Lang

	Roads  *roadnet.Loader
	Speeds *speed.Engine

	mu               sync.Mutex
	carparks         []Carpark
	permits          []*geojson.Feature
	prohibitions     []*geojson.Feature
	turnRestrictions []*geojson.Feature
	attractions      []*geojson.Feature
	viewingPoints    []*geojson.Feature
	trafficFeatures  []*geojson.Feature
	meterStatus      map[string]string
	drawn            map[string]orb.MultiLineString
	gen              map[string]uint64
}

// New wires an App. roads and speeds may be nil when those layers are
// not in use (tests mostly).
func New(client Getter, renderer Renderer, sources config.SourcesConfig, lang Lang, roads *roadnet.Loader, speeds *speed.Engine) *App {
	return &App{
		client:      client,
		renderer:    renderer,
		sources:     sources,
		lang:        lang,
		Roads:       roads,
		Speeds:      speeds,
		meterStatus: make(map[string]string),
		drawn:       make(map[string]orb.MultiLineString),
		gen:         make(map[string]uint64),
	}
}

// EssentialData is the result of the startup load.
type EssentialData struct {
	Carparks         []Carpark
	Permits          []*geojson.Feature
	Prohibitions     []*geojson.Feature
	TurnRestrictions []*geojson.Feature
	Speeds           map[string]speed.Reading
}

// LoadEssentialData fetches the startup datasets in parallel. Each
// source fails independently: a broken feed leaves its field empty and
// never blocks the others. The turn restrictions KMZ in particular is
// best-effort and an error there only logs.
func (a *App) LoadEssentialData(ctx context.Context) EssentialData {
	var out EssentialData
	var wg sync.WaitGroup

	run := func(name string, f func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f(); err != nil {
				log.Printf("essential load: %s failed: %v", name, err)
			}
		}()
	}

	run("carparks", func() error {
		carparks, err := a.LoadCarparks(ctx)
		if err != nil {
			return err
		}
		out.Carparks = carparks
		return nil
	})
	run("permits", func() error {
		fc, err := a.fetchFeatures(ctx, a.sources.PermitURL)
		if err != nil {
			return err
		}
		out.Permits = fc
		return nil
	})
	run("prohibitions", func() error {
		fc, err := a.LoadProhibitions(ctx)
		if err != nil {
			return err
		}
		out.Prohibitions = fc
		return nil
	})
	run("turn restrictions", func() error {
		fc, err := a.LoadTurnRestrictions(ctx)
		if err != nil {
			return err
		}
		out.TurnRestrictions = fc
		return nil
	})
	run("traffic speeds", func() error {
		if a.Speeds == nil {
			return nil
		}
		readings, err := a.Speeds.Refresh(ctx)
		if err != nil {
			return err
		}
		out.Speeds = readings
		return nil
	})
	wg.Wait()

	a.mu.Lock()
	a.carparks = out.Carparks
	a.permits = out.Permits
	a.prohibitions = out.Prohibitions
	a.turnRestrictions = out.TurnRestrictions
	a.mu.Unlock()

	if a.renderer != nil {
		if out.Permits != nil {
			a.renderer.SetLayer(LayerPermits, out.Permits)
		}
		if out.Prohibitions != nil {
			a.renderer.SetLayer(LayerProhibitions, out.Prohibitions)
		}
		a.renderer.SetLayer(LayerRestrictions, out.TurnRestrictions)
	}
	return out
}

// TurnRestrictions returns the loaded turn restriction features.
func (a *App) TurnRestrictions() []*geojson.Feature {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.turnRestrictions
}

// TrafficFeatures returns the most recent viewport's traffic features.
func (a *App) TrafficFeatures() []*geojson.Feature {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.trafficFeatures
}

// fetchFeatures GETs a GeoJSON source and returns its features.
func (a *App) fetchFeatures(ctx context.Context, url string) ([]*geojson.Feature, error) {
	body, err := a.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	fc, err := decodeFeatures(body)
	if err != nil {
		return nil, err
	}
	return fc, nil
}
