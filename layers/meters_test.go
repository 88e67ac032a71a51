package layers

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func meterFeature(spaceID, street, section, vehicle string) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{114.17, 22.30})
	f.Properties["ParkingSpaceId"] = spaceID
	f.Properties["Street"] = street
	f.Properties["SectionOfStreet"] = section
	f.Properties["VehicleType"] = vehicle
	return f
}

func TestLoadMeterStatus(t *testing.T) {
	g := newRouteGetter()
	g.serve("meter-status.csv", "ParkingSpaceId,District,OccupancyStatus\nM1,CW,V\nM2,CW,O\n,CW,V\n")
	a := New(g, nil, testSources(), LangEN, nil, nil)
	if err := a.LoadMeterStatus(context.Background()); err != nil {
		t.Fatalf("LoadMeterStatus: %v", err)
	}
	if s, ok := a.MeterStatus("M1"); !ok || s != MeterVacant {
		t.Errorf("M1 = %q, %v", s, ok)
	}
	if s, ok := a.MeterStatus("M2"); !ok || s != MeterOccupied {
		t.Errorf("M2 = %q, %v", s, ok)
	}
	if _, ok := a.MeterStatus(""); ok {
		t.Error("blank space id must not be stored")
	}
}

func TestGroupMeters(t *testing.T) {
	g := newRouteGetter()
	g.serve("meter-status.csv", "id,district,status\nM1,CW,V\nM2,CW,O\nM3,CW,V\n")
	a := New(g, nil, testSources(), LangEN, nil, nil)
	if err := a.LoadMeterStatus(context.Background()); err != nil {
		t.Fatalf("LoadMeterStatus: %v", err)
	}

	features := []*geojson.Feature{
		meterFeature("M1", "Des Voeux Road", "Central", "Private Car"),
		meterFeature("M2", "Des Voeux Road", "Central", "Private Car"),
		meterFeature("M3", "Des Voeux Road", "West", "Lorry"),
		meterFeature("M4", "Queen's Road", "Central", "Private Car"),
	}
	groups := a.GroupMeters(features)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3", len(groups))
	}

	first := groups[0]
	if first.Street != "Des Voeux Road" || first.Section != "Central" {
		t.Errorf("first group = %s | %s", first.Street, first.Section)
	}
	if first.Total != 2 || first.Available != 1 || first.Occupied != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1", first.Total, first.Available, first.Occupied)
	}
	if len(first.VehicleTypes) != 1 {
		t.Errorf("vehicle types = %v, want deduplicated single entry", first.VehicleTypes)
	}

	// M4 has no status entry: counted in total only
	last := groups[2]
	if last.Total != 1 || last.Available != 0 || last.Occupied != 0 {
		t.Errorf("unknown-status counts = %d/%d/%d", last.Total, last.Available, last.Occupied)
	}
}
