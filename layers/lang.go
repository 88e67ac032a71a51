package layers

// Lang selects which language-keyed columns and properties to read.
type Lang string

const (
	LangEN Lang = "en_US"
	LangTC Lang = "zh_TW"
	LangSC Lang = "zh_CN"
)

// fuelColumns maps a language to its column positions in the fuel
// station CSV. The layout is fixed: three name columns, three brand
// columns, three fuel-type columns, then latitude and longitude.
type fuelColumns struct {
	name  int
	brand int
	types int
}

func fuelColumnsFor(lang Lang) fuelColumns {
	switch lang {
	case LangTC:
		return fuelColumns{name: 1, brand: 4, types: 7}
	case LangSC:
		return fuelColumns{name: 2, brand: 5, types: 8}
	default:
		return fuelColumns{name: 0, brand: 3, types: 6}
	}
}

// meterStreetKeys returns the street and section property names for the
// parking meter dataset in the given language.
func meterStreetKeys(lang Lang) (street, section string) {
	switch lang {
	case LangTC:
		return "Street_tc", "SectionOfStreet_tc"
	case LangSC:
		return "Street_sc", "SectionOfStreet_sc"
	default:
		return "Street", "SectionOfStreet"
	}
}
