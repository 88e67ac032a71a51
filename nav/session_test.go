package nav

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type fakeRouter struct {
	route *Route
	err   error
}

func (r *fakeRouter) Route(ctx context.Context, from, to orb.Point) (*Route, error) {
	return r.route, r.err
}

type fakeLocator struct {
	pos        Position
	currentErr error
	clears     int
}

func (l *fakeLocator) Current(ctx context.Context) (Position, error) {
	return l.pos, l.currentErr
}

func (l *fakeLocator) Watch(ctx context.Context) (<-chan Position, func(), error) {
	ch := make(chan Position)
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.clears++
			close(ch)
		})
	}, nil
}

type recorder struct {
	mu        sync.Mutex
	notices   []string
	announced []string
}

func (r *recorder) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, msg)
}

func (r *recorder) Announce(text, locale string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.announced = append(r.announced, text)
}

func (r *recorder) noticeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notices)
}

func pointFeature(name string, lon, lat float64) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{lon, lat})
	f.Properties["name"] = name
	return f
}

var testRoute = &Route{
	DistanceM: 1200,
	Coordinates: orb.LineString{
		{114.1700, 22.3000},
		{114.1750, 22.3000},
		{114.1800, 22.3000},
	},
}

func startActiveSession(t *testing.T, candidates []*geojson.Feature) (*Navigator, *fakeLocator, *recorder) {
	t.Helper()
	loc := &fakeLocator{pos: Position{Lat: 22.3000, Lon: 114.1700}}
	rec := &recorder{}
	n := NewNavigator(&fakeRouter{route: testRoute}, loc, rec, rec, Options{})
	if err := n.Start(context.Background(), orb.Point{114.1800, 22.3000}, candidates); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if n.State() != Active {
		t.Fatalf("state = %v, want active", n.State())
	}
	return n, loc, rec
}

func TestProximityAlertFiresOnce(t *testing.T) {
	// ~0.00005 deg lat is ~5.5m from the route midpoint
	near := pointFeature("No right turn", 114.1750, 22.30005)
	n, _, rec := startActiveSession(t, []*geojson.Feature{near})

	at := Position{Lat: 22.3000, Lon: 114.1750}
	n.OnPosition(at)
	if rec.noticeCount() != 1 {
		t.Fatalf("notices after first fix = %d, want 1", rec.noticeCount())
	}
	n.OnPosition(at)
	n.OnPosition(at)
	if rec.noticeCount() != 1 {
		t.Errorf("feature re-alerted within one session: %v", rec.notices)
	}
}

func TestNoAlertOutsideRadius(t *testing.T) {
	// ~15m north of the route midpoint
	far := pointFeature("No right turn", 114.1750, 22.30013)
	n, _, rec := startActiveSession(t, []*geojson.Feature{far})
	n.OnPosition(Position{Lat: 22.3000, Lon: 114.1750})
	if rec.noticeCount() != 0 {
		t.Errorf("notices = %v, want none beyond the alert radius", rec.notices)
	}
}

func TestCandidatesFilteredByRouteBuffer(t *testing.T) {
	near := pointFeature("near", 114.1750, 22.3001)      // ~11m off route
	offRoute := pointFeature("far", 114.1750, 22.3100)   // ~1.1km off route
	n, _, _ := startActiveSession(t, []*geojson.Feature{near, offRoute})
	kept := n.RouteFeatures()
	if len(kept) != 1 || kept[0].Properties["name"] != "near" {
		t.Errorf("kept = %d features, want only the near one", len(kept))
	}
}

func TestArrival(t *testing.T) {
	n, loc, rec := startActiveSession(t, nil)
	n.OnPosition(Position{Lat: 22.3000, Lon: 114.17999})
	if n.State() != Arrived {
		t.Fatalf("state = %v, want arrived", n.State())
	}
	if loc.clears != 1 {
		t.Errorf("watch cleared %d times, want 1", loc.clears)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.announced) == 0 {
		t.Error("arrival was not announced")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	n, loc, _ := startActiveSession(t, nil)
	n.Stop()
	if n.State() != Stopped {
		t.Fatalf("state = %v, want stopped", n.State())
	}
	if n.Route() != nil {
		t.Error("route not cleared on stop")
	}
	n.Stop()
	n.Stop()
	if loc.clears != 1 {
		t.Errorf("watch cleared %d times, want 1", loc.clears)
	}
}

func TestStopWithoutSession(t *testing.T) {
	n := NewNavigator(&fakeRouter{route: testRoute}, &fakeLocator{}, nil, nil, Options{})
	n.Stop()
	if n.State() != Idle {
		t.Errorf("state = %v, want idle", n.State())
	}
}

func TestLocationErrorReturnsToIdle(t *testing.T) {
	loc := &fakeLocator{currentErr: errors.New("denied")}
	rec := &recorder{}
	n := NewNavigator(&fakeRouter{route: testRoute}, loc, rec, rec, Options{})
	err := n.Start(context.Background(), orb.Point{114.18, 22.30}, nil)
	var le *LocationError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want *LocationError", err)
	}
	if n.State() != Idle {
		t.Errorf("state = %v, want idle", n.State())
	}
	if rec.noticeCount() != 1 {
		t.Errorf("notices = %v, want one", rec.notices)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.announced) != 0 {
		t.Error("errors must not be spoken")
	}
}

func TestRoutingErrorDistinctFromLocationError(t *testing.T) {
	loc := &fakeLocator{pos: Position{Lat: 22.30, Lon: 114.17}}
	rec := &recorder{}
	n := NewNavigator(&fakeRouter{err: errors.New("no route")}, loc, rec, rec, Options{})
	err := n.Start(context.Background(), orb.Point{114.18, 22.30}, nil)
	var ne *NavigationError
	if !errors.As(err, &ne) {
		t.Fatalf("err = %v, want *NavigationError", err)
	}
	var le *LocationError
	if errors.As(err, &le) {
		t.Error("routing failure must not be a location error")
	}
	if n.State() != Idle {
		t.Errorf("state = %v, want idle", n.State())
	}
}

func TestRestartTearsDownPreviousWatch(t *testing.T) {
	n, loc, _ := startActiveSession(t, nil)
	if err := n.Start(context.Background(), orb.Point{114.18, 22.30}, nil); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if loc.clears != 1 {
		t.Errorf("previous watch cleared %d times, want 1", loc.clears)
	}
	if n.State() != Active {
		t.Errorf("state = %v, want active", n.State())
	}
	n.Stop()
}
