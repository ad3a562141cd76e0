package water

import (
	"sort"
	"strings"
)

// CountryProps are the static properties attached to one boundary feature.
// Numeric fields are nil when the dataset does not carry them.
type CountryProps struct {
	Name           string            `json:"name"`
	Population     *float64          `json:"population,omitempty"`
	GDP            *float64          `json:"gdp,omitempty"`
	WaterScore     *float64          `json:"waterScore,omitempty"`
	WaterResources string            `json:"waterResources,omitempty"`
	Codes          map[string]string `json:"codes,omitempty"`
}

// Code returns the raw value of an ISO code property such as "ISO_A2".
func (p CountryProps) Code(key string) string {
	if p.Codes == nil {
		return ""
	}
	return p.Codes[key]
}

// World is the loaded boundary dataset, reduced to country properties.
type World struct {
	Countries []CountryProps
	Raw       []byte

	byName map[string]int
}

// NewWorld indexes countries by lower-cased name. Later duplicates lose.
func NewWorld(countries []CountryProps, raw []byte) *World {
	w := &World{
		Countries: countries,
		Raw:       raw,
		byName:    make(map[string]int, len(countries)),
	}
	for i, c := range countries {
		key := normalizeName(c.Name)
		if key == "" {
			continue
		}
		if _, exists := w.byName[key]; !exists {
			w.byName[key] = i
		}
	}
	return w
}

// Lookup finds a country by name, ignoring case and surrounding space.
func (w *World) Lookup(name string) (CountryProps, bool) {
	if w == nil {
		return CountryProps{}, false
	}
	i, ok := w.byName[normalizeName(name)]
	if !ok {
		return CountryProps{}, false
	}
	return w.Countries[i], true
}

// Names returns the sorted, de-duplicated country names.
func (w *World) Names() []string {
	if w == nil {
		return nil
	}
	names := make([]string, 0, len(w.byName))
	for _, i := range w.byName {
		names = append(names, w.Countries[i].Name)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
