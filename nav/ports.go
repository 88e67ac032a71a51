package nav

import (
	"context"
	"fmt"
	"time"

	"github.com/paulmach/orb"
)

// Route is what the routing collaborator returns.
type Route struct {
	DistanceM    float64
	Duration     time.Duration
	Coordinates  orb.LineString
	Instructions []string
}

// Position is one live location fix.
type Position struct {
	Lat      float64
	Lon      float64
	Accuracy float64
}

// Point converts the fix to lon-lat order.
func (p Position) Point() orb.Point { return orb.Point{p.Lon, p.Lat} }

// Router computes a route between two coordinates.
type Router interface {
	Route(ctx context.Context, from, to orb.Point) (*Route, error)
}

// Locator is the geolocation provider. Watch delivers fixes until the
// returned clear function is called; clear must close the channel, and
// a Locator that stops delivering on its own must close it too. The
// session's consumer goroutine exits only on close.
type Locator interface {
	Current(ctx context.Context) (Position, error)
	Watch(ctx context.Context) (<-chan Position, func(), error)
}

// Announcer speaks a phrase in the given locale. A nil Announcer is a
// silent no-op, never an error.
type Announcer interface {
	Announce(text, locale string)
}

// Notifier surfaces one-shot messages to the user.
type Notifier interface {
	Notify(msg string)
}

// LocationError means the current position could not be obtained.
type LocationError struct {
	Err error
}

func (e *LocationError) Error() string { return fmt.Sprintf("location unavailable: %v", e.Err) }
func (e *LocationError) Unwrap() error { return e.Err }

// NavigationError means the routing engine failed or found no route.
type NavigationError struct {
	Err error
}

func (e *NavigationError) Error() string { return fmt.Sprintf("routing failed: %v", e.Err) }
func (e *NavigationError) Unwrap() error { return e.Err }
