package layers

import (
	"context"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/Hufung/map/decode"
	"github.com/Hufung/map/geo"
)

// Meter occupancy codes in the status snapshot.
const (
	MeterVacant   = "V"
	MeterOccupied = "O"
)

// FetchParkingMetersInView fetches the meter locations inside b.
func (a *App) FetchParkingMetersInView(ctx context.Context, b orb.Bound) ([]*geojson.Feature, error) {
	url := a.sources.ParkingMetersURL + "&maxFeatures=500&filter=" + geo.FilterQuery(geo.SpatialClause(b, geo.OpIntersects))
	return a.fetchFeatures(ctx, url)
}

// LoadMeterStatus fetches the occupancy snapshot once and keeps it as a
// read-mostly cache. It is re-fetched only by calling this again, never
// on a timer.
func (a *App) LoadMeterStatus(ctx context.Context) error {
	body, err := a.client.Get(ctx, a.sources.MeterStatusURL)
	if err != nil {
		return fmt.Errorf("fetch meter status: %w", err)
	}
	rows, err := decode.CSV(body)
	if err != nil {
		return err
	}
	status := make(map[string]string)
	for i, row := range rows {
		if i == 0 || len(row) < 3 {
			continue
		}
		id := strings.TrimSpace(row[0])
		if id == "" {
			continue
		}
		status[id] = strings.TrimSpace(row[2])
	}
	a.mu.Lock()
	a.meterStatus = status
	a.mu.Unlock()
	return nil
}

// MeterStatus looks up the occupancy code for one parking space.
func (a *App) MeterStatus(spaceID string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.meterStatus[spaceID]
	return s, ok
}

// MeterGroup aggregates the meters of one street section for a single
// marker with availability counts.
type MeterGroup struct {
	Street        string
	Section       string
	Position      orb.Point
	Total         int
	Available     int
	Occupied      int
	VehicleTypes  []string
	OperatingSpan []string
}

// GroupMeters buckets meter features by street and section in the App's
// language, counting occupancy from the cached status snapshot.
func (a *App) GroupMeters(features []*geojson.Feature) []*MeterGroup {
	streetKey, sectionKey := meterStreetKeys(a.lang)
	a.mu.Lock()
	status := a.meterStatus
	a.mu.Unlock()

	order := make([]string, 0)
	groups := make(map[string]*MeterGroup)
	for _, f := range features {
		if f == nil || f.Geometry == nil {
			continue
		}
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		street, _ := f.Properties[streetKey].(string)
		section, _ := f.Properties[sectionKey].(string)
		key := street + " | " + section
		g, ok := groups[key]
		if !ok {
			g = &MeterGroup{Street: street, Section: section, Position: pt}
			groups[key] = g
			order = append(order, key)
		}
		g.Total++
		if id, ok := f.Properties["ParkingSpaceId"].(string); ok {
			switch status[id] {
			case MeterVacant:
				g.Available++
			case MeterOccupied:
				g.Occupied++
			}
		}
		if vt, ok := f.Properties["VehicleType"].(string); ok && vt != "" {
			g.VehicleTypes = appendUnique(g.VehicleTypes, vt)
		}
		if op, ok := f.Properties["OperatingPeriod"].(string); ok && op != "" {
			g.OperatingSpan = appendUnique(g.OperatingSpan, op)
		}
	}

	out := make([]*MeterGroup, 0, len(order))
	for _, key := range order {
		out = append(out, groups[key])
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
