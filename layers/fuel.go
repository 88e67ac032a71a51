package layers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Hufung/map/decode"
)

// FuelStation is one filling station from the government CSV.
type FuelStation struct {
	Name      string
	Brand     string
	Latitude  float64
	Longitude float64
	Fuels     []string
}

const fuelCSVColumns = 11

// ParseFuelStations reads the fixed-layout station CSV in the given
// language, falling back to the English columns when a localized cell is
// empty. Rows with too few columns or unparseable coordinates are
// dropped.
func ParseFuelStations(rows [][]string, lang Lang) []FuelStation {
	cols := fuelColumnsFor(lang)
	fallback := fuelColumnsFor(LangEN)
	var stations []FuelStation
	for i, row := range rows {
		if i == 0 || len(row) < fuelCSVColumns {
			continue
		}
		pt, ok := decode.ParseLatLon(strings.TrimSpace(row[9]), strings.TrimSpace(row[10]))
		if !ok {
			continue
		}
		name := firstNonEmpty(row[cols.name], row[fallback.name])
		brand := firstNonEmpty(row[cols.brand], row[fallback.brand])
		types := firstNonEmpty(row[cols.types], row[fallback.types])
		stations = append(stations, FuelStation{
			Name:      name,
			Brand:     brand,
			Latitude:  pt.Lat(),
			Longitude: pt.Lon(),
			Fuels:     splitFuels(types),
		})
	}
	return stations
}

// splitFuels breaks the combined fuel-types cell apart and normalizes
// the LPG label.
func splitFuels(types string) []string {
	if types == "" {
		return nil
	}
	var fuels []string
	for _, f := range strings.Split(types, " / ") {
		f = strings.TrimSpace(strings.ReplaceAll(f, "Auto LPG", "LPG"))
		if f != "" {
			fuels = append(fuels, f)
		}
	}
	return fuels
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// LoadFuelStations fetches and parses the station CSV.
func (a *App) LoadFuelStations(ctx context.Context) ([]FuelStation, error) {
	body, err := a.client.Get(ctx, a.sources.FuelStationsURL)
	if err != nil {
		return nil, fmt.Errorf("fetch fuel stations: %w", err)
	}
	rows, err := decode.CSV(body)
	if err != nil {
		return nil, err
	}
	return ParseFuelStations(rows, a.lang), nil
}

// PriceTable maps vendor to fuel type to dollar price. A missing entry
// means no data, never zero.
type PriceTable map[string]map[string]float64

// ParseFuelPrices reads the price feed. Entries with an unparseable
// price are skipped rather than recorded as zero.
func ParseFuelPrices(body []byte) (PriceTable, error) {
	var feed []struct {
		Type struct {
			EN string `json:"en"`
		} `json:"type"`
		Prices []struct {
			Vendor struct {
				EN string `json:"en"`
			} `json:"vendor"`
			Price string `json:"price"`
		} `json:"prices"`
	}
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parse fuel prices: %w", err)
	}
	table := make(PriceTable)
	for _, fuel := range feed {
		if fuel.Type.EN == "" {
			continue
		}
		for _, vp := range fuel.Prices {
			if vp.Vendor.EN == "" {
				continue
			}
			price, err := strconv.ParseFloat(vp.Price, 64)
			if err != nil {
				continue
			}
			if table[vp.Vendor.EN] == nil {
				table[vp.Vendor.EN] = make(map[string]float64)
			}
			table[vp.Vendor.EN][fuel.Type.EN] = price
		}
	}
	return table, nil
}

// LoadFuelPrices fetches and parses the vendor price feed.
func (a *App) LoadFuelPrices(ctx context.Context) (PriceTable, error) {
	body, err := a.client.Get(ctx, a.sources.FuelPricesURL)
	if err != nil {
		return nil, fmt.Errorf("fetch fuel prices: %w", err)
	}
	return ParseFuelPrices(body)
}
