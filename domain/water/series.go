package water

import (
	"fmt"

	"waterglobe/domain/core"
)

// SeriesLength is the number of years in every synthesized series.
const SeriesLength = 10

// Bounds the synthesizer guarantees for every emitted value.
const (
	ReserveFloor = 10
	AgriMin      = 20
	AgriMax      = 90
	DomMin       = 5
	DomMax       = 60
)

// Usage holds the three sector percentages, index-aligned with Series.Years.
// The three values of one year are not normalized to sum to 100.
type Usage struct {
	Agri []int `json:"agri"`
	Dom  []int `json:"dom"`
	Ind  []int `json:"ind"`
}

// Series is the ten-year synthetic water dataset shown for one country.
type Series struct {
	Years   []int `json:"years"`
	Reserve []int `json:"reserve"` // km³
	Usage   Usage `json:"usage"`
}

// CurrentYear returns the last year of the series, or 0 for an empty series.
func (s Series) CurrentYear() int {
	if len(s.Years) == 0 {
		return 0
	}
	return s.Years[len(s.Years)-1]
}

// UsageTotal returns agri+dom+ind for year index i.
func (s Series) UsageTotal(i int) int {
	return s.Usage.Agri[i] + s.Usage.Dom[i] + s.Usage.Ind[i]
}

// Validate checks shape, range and year invariants.
func (s Series) Validate() error {
	fields := map[string][]int{
		"years":      s.Years,
		"reserve":    s.Reserve,
		"usage.agri": s.Usage.Agri,
		"usage.dom":  s.Usage.Dom,
		"usage.ind":  s.Usage.Ind,
	}
	for name, values := range fields {
		if len(values) != SeriesLength {
			return fmt.Errorf("%w: %s has %d elements, want %d", core.ErrInvalidSeries, name, len(values), SeriesLength)
		}
	}

	for i := 0; i < SeriesLength; i++ {
		if i > 0 && s.Years[i] != s.Years[i-1]+1 {
			return core.NewSeriesError("years", i, "is not consecutive")
		}
		if s.Reserve[i] < ReserveFloor {
			return core.NewSeriesError("reserve", i, fmt.Sprintf("%d below floor %d", s.Reserve[i], ReserveFloor))
		}
		if a := s.Usage.Agri[i]; a < AgriMin || a > AgriMax {
			return core.NewSeriesError("usage.agri", i, fmt.Sprintf("%d outside [%d,%d]", a, AgriMin, AgriMax))
		}
		if d := s.Usage.Dom[i]; d < DomMin || d > DomMax {
			return core.NewSeriesError("usage.dom", i, fmt.Sprintf("%d outside [%d,%d]", d, DomMin, DomMax))
		}
		if s.Usage.Ind[i] < 0 {
			return core.NewSeriesError("usage.ind", i, "is negative")
		}
	}
	return nil
}
