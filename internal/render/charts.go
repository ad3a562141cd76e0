// Package render builds the chart specifications the browser draws for a
// selected country. Chart ownership is scoped to a Session; nothing is held
// at package level.
package render

import (
	"waterglobe/domain/water"
)

// Chart kinds understood by the client.
const (
	KindLine = "line"
	KindBar  = "bar"
)

// Dataset labels.
const (
	ReserveLabel = "Reserve (km³)"
	AgriLabel    = "Agriculture"
	DomLabel     = "Domestic"
	IndLabel     = "Industry"
	usageStack   = "use"
)

// ChartSpec is a chart configuration in the shape the client library expects.
type ChartSpec struct {
	Type    string    `json:"type"`
	Title   string    `json:"title,omitempty"`
	Data    ChartData `json:"data"`
	Options Options   `json:"options"`
}

type ChartData struct {
	Labels   []int     `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label   string  `json:"label"`
	Data    []int   `json:"data"`
	Tension float64 `json:"tension,omitempty"`
	Stack   string  `json:"stack,omitempty"`
}

type Options struct {
	Responsive bool            `json:"responsive"`
	Plugins    Plugins         `json:"plugins"`
	Scales     map[string]Axis `json:"scales"`
}

type Plugins struct {
	Legend  Legend  `json:"legend"`
	Tooltip Tooltip `json:"tooltip"`
}

type Legend struct {
	Display  bool   `json:"display"`
	Position string `json:"position,omitempty"`
}

type Tooltip struct {
	Mode      string `json:"mode"`
	Intersect bool   `json:"intersect"`
}

type Axis struct {
	Stacked     bool       `json:"stacked,omitempty"`
	BeginAtZero bool       `json:"beginAtZero,omitempty"`
	Max         *int       `json:"max,omitempty"`
	Title       *AxisTitle `json:"title,omitempty"`
	TickSuffix  string     `json:"tickSuffix,omitempty"`
}

type AxisTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

var indexTooltip = Tooltip{Mode: "index", Intersect: false}

// ReserveChart is the reserve line chart.
func ReserveChart(name string, s water.Series) ChartSpec {
	return ChartSpec{
		Type:  KindLine,
		Title: name,
		Data: ChartData{
			Labels: clone(s.Years),
			Datasets: []Dataset{
				{Label: ReserveLabel, Data: clone(s.Reserve), Tension: 0.25},
			},
		},
		Options: Options{
			Responsive: true,
			Plugins: Plugins{
				Legend:  Legend{Display: true},
				Tooltip: indexTooltip,
			},
			Scales: map[string]Axis{
				"y": {BeginAtZero: true, Title: &AxisTitle{Display: true, Text: "km³"}},
			},
		},
	}
}

// UsageChart is the stacked usage bar chart, capped at 100 percent.
func UsageChart(name string, s water.Series) ChartSpec {
	hundred := 100
	return ChartSpec{
		Type:  KindBar,
		Title: name,
		Data: ChartData{
			Labels: clone(s.Years),
			Datasets: []Dataset{
				{Label: AgriLabel, Data: clone(s.Usage.Agri), Stack: usageStack},
				{Label: DomLabel, Data: clone(s.Usage.Dom), Stack: usageStack},
				{Label: IndLabel, Data: clone(s.Usage.Ind), Stack: usageStack},
			},
		},
		Options: Options{
			Responsive: true,
			Plugins: Plugins{
				Legend:  Legend{Display: true, Position: "top"},
				Tooltip: indexTooltip,
			},
			Scales: map[string]Axis{
				"x": {Stacked: true},
				"y": {Stacked: true, BeginAtZero: true, Max: &hundred, TickSuffix: "%"},
			},
		},
	}
}

func clone(v []int) []int {
	return append([]int(nil), v...)
}
