package main

import (
	"log"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/Hufung/map/geo"
)

// consoleRenderer stands in for the map surface: it reports layer and
// segment updates on the log instead of drawing them.
type consoleRenderer struct {
	segments int
}

func (r *consoleRenderer) SetLayer(name string, features []*geojson.Feature) {
	log.Printf("layer %s: %d features", name, len(features))
}

func (r *consoleRenderer) ClearLayer(name string) {
	log.Printf("layer %s: cleared", name)
}

func (r *consoleRenderer) DrawSegment(id string, geom orb.MultiLineString, style geo.Style) {
	r.segments++
	if r.segments%5000 == 0 {
		log.Printf("road network: %d segments drawn", r.segments)
	}
}

func (r *consoleRenderer) RestyleSegment(id string, style geo.Style) {}
