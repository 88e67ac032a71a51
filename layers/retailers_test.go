package layers

import (
	"reflect"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func retailerFeature(lon, lat float64, props map[string]interface{}) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{lon, lat})
	f.Properties = props
	return f
}

func TestRetailerCategories(t *testing.T) {
	features := []*geojson.Feature{
		retailerFeature(114.17, 22.30, map[string]interface{}{
			"Category_of_Merchandise": "Watches", "Category_of_Merchandise_1": "Jewellery",
		}),
		retailerFeature(114.18, 22.31, map[string]interface{}{
			"Category_of_Merchandise": "Electronics",
		}),
		retailerFeature(114.19, 22.32, map[string]interface{}{
			"Category_of_Merchandise": "Watches",
		}),
		nil,
	}
	got := RetailerCategories(features)
	want := []string{"Electronics", "Jewellery", "Watches"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}
}

func TestFilterRetailersByCategory(t *testing.T) {
	features := []*geojson.Feature{
		retailerFeature(114.17, 22.30, map[string]interface{}{"Category_of_Merchandise": "Watches"}),
		retailerFeature(114.18, 22.31, map[string]interface{}{"Category_of_Merchandise_1": "Jewellery"}),
		retailerFeature(114.19, 22.32, map[string]interface{}{"Category_of_Merchandise": "Electronics"}),
	}

	if got := FilterRetailersByCategory(features, nil); len(got) != 3 {
		t.Fatalf("empty selection filtered to %d features, want all 3", len(got))
	}

	got := FilterRetailersByCategory(features, map[string]bool{"Jewellery": true, "Watches": true})
	if len(got) != 2 {
		t.Fatalf("got %d features, want 2", len(got))
	}
	if c, _ := got[1].Properties["Category_of_Merchandise_1"].(string); c != "Jewellery" {
		t.Fatalf("second match category = %q, want Jewellery", c)
	}
}

func TestGroupRetailersSharedLocation(t *testing.T) {
	features := []*geojson.Feature{
		retailerFeature(114.171234, 22.301234, map[string]interface{}{
			"Retailer_Name": "Shop A", "Category_of_Merchandise": "Watches",
			"Address": "1 Queen's Road", "Telephone": "21110000",
		}),
		// Same location after rounding to five decimals.
		retailerFeature(114.1712341, 22.3012339, map[string]interface{}{
			"Retailer_Name": "Shop B", "Category_of_Merchandise": "Jewellery",
			"Address": "1 Queen's Road",
		}),
		retailerFeature(114.20, 22.33, map[string]interface{}{
			"Retailer_Name": "Shop C", "Category_of_Merchandise": "Watches",
			"Address": "8 Nathan Road",
		}),
	}

	groups := GroupRetailers(features)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}

	first := groups[0]
	if first.Address != "1 Queen's Road" {
		t.Fatalf("first group address = %q", first.Address)
	}
	if len(first.Retailers) != 2 {
		t.Fatalf("first group has %d retailers, want 2", len(first.Retailers))
	}
	if first.Retailers[0].Telephone != "21110000" {
		t.Fatalf("telephone = %q", first.Retailers[0].Telephone)
	}
	if !reflect.DeepEqual(first.Categories, []string{"Watches", "Jewellery"}) {
		t.Fatalf("first group categories = %v", first.Categories)
	}

	second := groups[1]
	if len(second.Retailers) != 1 || second.Retailers[0].Name != "Shop C" {
		t.Fatalf("second group = %+v", second)
	}
}
