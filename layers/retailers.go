package layers

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Retailer is one shop entry inside a location group.
type Retailer struct {
	Name      string
	Category  string
	Telephone string
}

// RetailerGroup aggregates the shops that share one location so a single
// marker can list all of them.
type RetailerGroup struct {
	Position   orb.Point
	Address    string
	Retailers  []Retailer
	Categories []string
}

// RetailerCategories collects the distinct merchandise categories across
// both category properties, sorted for stable display.
func RetailerCategories(features []*geojson.Feature) []string {
	seen := make(map[string]bool)
	for _, f := range features {
		if f == nil {
			continue
		}
		for _, key := range []string{"Category_of_Merchandise", "Category_of_Merchandise_1"} {
			if c, ok := f.Properties[key].(string); ok && c != "" {
				seen[c] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// FilterRetailersByCategory keeps the features matching any selected
// category. An empty selection means no filter.
func FilterRetailersByCategory(features []*geojson.Feature, selected map[string]bool) []*geojson.Feature {
	if len(selected) == 0 {
		return features
	}
	out := make([]*geojson.Feature, 0, len(features))
	for _, f := range features {
		if f == nil {
			continue
		}
		c1, _ := f.Properties["Category_of_Merchandise"].(string)
		c2, _ := f.Properties["Category_of_Merchandise_1"].(string)
		if selected[c1] || selected[c2] {
			out = append(out, f)
		}
	}
	return out
}

// GroupRetailers buckets shops by location, with coordinates rounded to
// five decimals so shops in the same building share one marker. Insertion
// order is preserved.
func GroupRetailers(features []*geojson.Feature) []*RetailerGroup {
	order := make([]string, 0)
	groups := make(map[string]*RetailerGroup)
	for _, f := range features {
		if f == nil || f.Geometry == nil {
			continue
		}
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		key := fmt.Sprintf("%.5f,%.5f", pt.Lat(), pt.Lon())
		g, ok := groups[key]
		if !ok {
			address, _ := f.Properties["Address"].(string)
			g = &RetailerGroup{Position: pt, Address: address}
			groups[key] = g
			order = append(order, key)
		}
		name, _ := f.Properties["Retailer_Name"].(string)
		category, _ := f.Properties["Category_of_Merchandise"].(string)
		telephone, _ := f.Properties["Telephone"].(string)
		g.Retailers = append(g.Retailers, Retailer{Name: name, Category: category, Telephone: telephone})
		if category != "" {
			g.Categories = appendUnique(g.Categories, category)
		}
	}

	out := make([]*RetailerGroup, 0, len(order))
	for _, key := range order {
		out = append(out, groups[key])
	}
	return out
}
