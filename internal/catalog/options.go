// Package catalog holds the static choice lists the car forms are built
// from: the brand to model lookup table and the known transmission, fuel and
// body type values.
package catalog

import "time"

// BrandModelMap maps each known brand to its sellable models. The table is
// static; models outside it are still accepted for legacy stock via
// BuildFieldOptions.
var BrandModelMap = map[string][]string{
	"Toyota":     {"Vios", "Corolla Altis", "Camry", "Fortuner", "Hilux", "Innova", "Hiace", "Rush", "Wigo"},
	"Honda":      {"City", "Civic", "Accord", "CR-V", "BR-V", "Brio"},
	"Mitsubishi": {"Mirage", "Mirage G4", "Xpander", "Montero Sport", "Strada", "L300"},
	"Nissan":     {"Almera", "Sylphy", "Navara", "Terra", "Urvan", "X-Trail"},
	"Suzuki":     {"Celerio", "Dzire", "Swift", "Ertiga", "Jimny", "Vitara", "APV"},
	"Ford":       {"Territory", "Everest", "Ranger", "Transit"},
	"Hyundai":    {"Accent", "Elantra", "Tucson", "Santa Fe", "Starex", "Stargazer"},
	"Kia":        {"Soluto", "Stonic", "Seltos", "Sportage", "Carnival"},
	"Isuzu":      {"D-Max", "mu-X", "Traviz"},
	"Mazda":      {"Mazda2", "Mazda3", "CX-3", "CX-5", "BT-50"},
}

var Transmissions = []string{"Automatic", "Manual", "CVT"}

var Fuels = []string{"Gasoline", "Diesel", "Hybrid", "Electric"}

var BodyTypes = []string{"Sedan", "SUV", "Van"}

// MinYear is the oldest model year the dealership accepts.
const MinYear = 1990

// CurrentYear is the upper bound for the year field.
func CurrentYear() int {
	return time.Now().Year()
}

// YearOptions lists selectable years, newest first.
func YearOptions() []int {
	years := make([]int, 0, CurrentYear()-MinYear+1)
	for y := CurrentYear(); y >= MinYear; y-- {
		years = append(years, y)
	}
	return years
}

// BuildFieldOptions returns the choice list for a form field. The known
// choices keep their order; a current value not in the list is injected at
// the front so legacy stock still renders with its stored value selected.
func BuildFieldOptions(known []string, current string) []string {
	if current == "" {
		return known
	}
	for _, choice := range known {
		if choice == current {
			return known
		}
	}
	options := make([]string, 0, len(known)+1)
	options = append(options, current)
	options = append(options, known...)
	return options
}

// ModelsFor returns the model list for a brand, or nil when the brand is not
// in the lookup table (free-text brands are allowed).
func ModelsFor(brand string) []string {
	return BrandModelMap[brand]
}

// ValidBrandModel reports whether the model is acceptable for the brand.
// Unknown brands accept any model; known brands require one of their listed
// models.
func ValidBrandModel(brand, model string) bool {
	known, ok := BrandModelMap[brand]
	if !ok {
		return true
	}
	for _, m := range known {
		if m == model {
			return true
		}
	}
	return false
}
