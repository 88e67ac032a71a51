package nav

import (
	"context"
	"fmt"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/Hufung/map/geo"
)

// State is the session lifecycle phase.
type State int

const (
	Idle State = iota
	Routing
	Active
	Arrived
	Stopped
)

func (s State) String() string {
	switch s {
	case Routing:
		return "routing"
	case Active:
		return "active"
	case Arrived:
		return "arrived"
	case Stopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Options configures a Navigator. Distances are meters.
type Options struct {
	AlertRadiusM  float64
	RouteBufferM  float64
	ArriveRadiusM float64
	Locale        string
}

// Navigator owns at most one navigation session at a time. Starting a
// new session tears the previous one down first, so a position watch can
// never leak.
type Navigator struct {
	router    Router
	locator   Locator
	announcer Announcer
	notifier  Notifier
	opts      Options

	mu         sync.Mutex
	state      State
	route      *Route
	candidates []*geojson.Feature
	warned     map[string]bool
	clearWatch func()
}

// NewNavigator wires the collaborators. announcer may be nil.
func NewNavigator(router Router, locator Locator, announcer Announcer, notifier Notifier, opts Options) *Navigator {
	if opts.AlertRadiusM == 0 {
		opts.AlertRadiusM = 10
	}
	if opts.RouteBufferM == 0 {
		opts.RouteBufferM = 50
	}
	if opts.ArriveRadiusM == 0 {
		opts.ArriveRadiusM = 50
	}
	return &Navigator{
		router:    router,
		locator:   locator,
		announcer: announcer,
		notifier:  notifier,
		opts:      opts,
		warned:    make(map[string]bool),
	}
}

// State returns the current session phase.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Route returns the active route, or nil outside a session.
func (n *Navigator) Route() *Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.route
}

// RouteFeatures returns the alert candidates that lie along the active
// route, for display beside it.
func (n *Navigator) RouteFeatures() []*geojson.Feature {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.candidates
}

// Start begins a session toward target. candidates are the point
// features eligible for proximity alerts; only those within the route
// buffer are kept. A previous session is stopped first.
func (n *Navigator) Start(ctx context.Context, target orb.Point, candidates []*geojson.Feature) error {
	n.Stop()

	n.mu.Lock()
	n.state = Routing
	n.mu.Unlock()

	pos, err := n.locator.Current(ctx)
	if err != nil {
		n.fail(&LocationError{Err: err}, "Could not determine your current location.")
		return &LocationError{Err: err}
	}
	route, err := n.router.Route(ctx, pos.Point(), target)
	if err != nil {
		n.fail(&NavigationError{Err: err}, "No route could be found to the destination.")
		return &NavigationError{Err: err}
	}

	fixes, clear, err := n.locator.Watch(ctx)
	if err != nil {
		n.fail(&LocationError{Err: err}, "Could not determine your current location.")
		return &LocationError{Err: err}
	}

	n.mu.Lock()
	n.state = Active
	n.route = route
	n.warned = make(map[string]bool)
	n.candidates = AlongRoute(candidates, route.Coordinates, n.opts.RouteBufferM)
	n.clearWatch = clear
	n.mu.Unlock()

	go func() {
		for pos := range fixes {
			n.OnPosition(pos)
		}
	}()
	return nil
}

// fail reports a Routing-phase error and returns the session to Idle.
// Routing errors are never spoken, only shown.
func (n *Navigator) fail(err error, msg string) {
	if n.notifier != nil {
		n.notifier.Notify(msg)
	}
	n.mu.Lock()
	n.state = Idle
	n.mu.Unlock()
}

// OnPosition consumes one live fix. Each candidate inside the alert
// radius is announced exactly once per session; reaching the final route
// coordinate ends the session as Arrived.
func (n *Navigator) OnPosition(pos Position) {
	n.mu.Lock()
	if n.state != Active {
		n.mu.Unlock()
		return
	}
	route := n.route
	candidates := n.candidates
	var alerts []*geojson.Feature
	for i, f := range candidates {
		key := featureKey(f, i)
		if n.warned[key] {
			continue
		}
		if geo.DistanceM(pos.Point(), f.Point()) < n.opts.AlertRadiusM {
			n.warned[key] = true
			alerts = append(alerts, f)
		}
	}
	arrived := false
	if len(route.Coordinates) > 0 {
		final := route.Coordinates[len(route.Coordinates)-1]
		arrived = geo.DistanceM(pos.Point(), final) < n.opts.ArriveRadiusM
	}
	n.mu.Unlock()

	for _, f := range alerts {
		msg := alertText(f)
		if n.notifier != nil {
			n.notifier.Notify(msg)
		}
		if n.announcer != nil {
			n.announcer.Announce(msg, n.opts.Locale)
		}
	}
	if arrived {
		if n.announcer != nil {
			n.announcer.Announce("You have arrived at your destination.", n.opts.Locale)
		}
		n.teardown(Arrived)
	}
}

// Stop cancels the session and clears the position watch. Safe to call
// at any time, including when no session is active.
func (n *Navigator) Stop() {
	n.teardown(Stopped)
}

func (n *Navigator) teardown(final State) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.clearWatch != nil {
		n.clearWatch()
		n.clearWatch = nil
	}
	if n.state == Idle && final == Stopped {
		return
	}
	n.state = final
	n.route = nil
	n.candidates = nil
	n.warned = make(map[string]bool)
}

// AlongRoute keeps the point features lying within bufferM meters of the
// route polyline.
func AlongRoute(features []*geojson.Feature, route orb.LineString, bufferM float64) []*geojson.Feature {
	var out []*geojson.Feature
	for _, f := range features {
		if f == nil || f.Geometry == nil {
			continue
		}
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		if geo.DistanceToLineM(pt, route) <= bufferM {
			out = append(out, f)
		}
	}
	return out
}

func featureKey(f *geojson.Feature, i int) string {
	if f.ID != nil {
		return fmt.Sprint(f.ID)
	}
	if name, ok := f.Properties["name"].(string); ok && name != "" {
		return name
	}
	return fmt.Sprintf("candidate-%d", i)
}

func alertText(f *geojson.Feature) string {
	if name, ok := f.Properties["name"].(string); ok && name != "" {
		return "Caution: " + name + " ahead."
	}
	if desc, ok := f.Properties["description"].(string); ok && desc != "" {
		return "Caution: " + desc
	}
	return "Caution: restriction ahead."
}
