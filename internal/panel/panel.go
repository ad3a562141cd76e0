// Package panel builds the country information panel shown next to the map.
package panel

import (
	"path"

	"waterglobe/domain/water"
	"waterglobe/internal/countries"
)

// Panel titles and hints.
const (
	UnknownCountry = "Unknown Country"
	DefaultTitle   = "World Water Resources"
	DefaultHint    = "Click a country to see its details."
	WorldMissing   = "world.json not found. Generate it first."
)

// WaterMapRoute is the URL prefix the page serves water-map images under.
const WaterMapRoute = "watermaps/"

// Score colour bands.
const (
	ColorGood    = "#4CAF50"
	ColorMedium  = "#F59E0B"
	ColorPoor    = "#EF4444"
	DefaultScore = 5.0
)

// View is everything the panel displays for one country.
type View struct {
	Title      string `json:"title"`
	Population string `json:"population"`
	GDP        string `json:"gdp"`
	Score      string `json:"score"`
	ScoreColor string `json:"scoreColor"`
	WaterText  string `json:"waterText"`
	WaterHTML  string `json:"waterHtml,omitempty"`
	ISO2       string `json:"iso2,omitempty"`
	FlagURL    string `json:"flagUrl,omitempty"`
	ShowFlag   bool   `json:"showFlag"`
	WaterMap   string `json:"waterMap,omitempty"`
	ShowCharts bool   `json:"showCharts"`
}

// Builder turns country properties into panel views.
type Builder struct {
	Format      *Formatter
	FlagBaseURL string
	WaterMapDir string
	Exists      countries.FileExists
}

// NewBuilder creates a panel builder
func NewBuilder(format *Formatter, flagBaseURL, waterMapDir string, exists countries.FileExists) *Builder {
	return &Builder{
		Format:      format,
		FlagBaseURL: flagBaseURL,
		WaterMapDir: waterMapDir,
		Exists:      exists,
	}
}

// Build renders the panel for one country.
func (b *Builder) Build(props water.CountryProps) View {
	title := props.Name
	if title == "" {
		title = UnknownCountry
	}
	text := props.WaterResources
	if text == "" {
		text = Placeholder
	}

	iso2 := countries.Resolve(props)
	flag := countries.FlagURL(b.FlagBaseURL, iso2)

	return View{
		Title:      title,
		Population: b.Format.Number(props.Population),
		GDP:        b.Format.Money(props.GDP),
		Score:      Score(props.WaterScore),
		ScoreColor: ScoreColor(props.WaterScore),
		WaterText:  text,
		WaterHTML:  RenderWaterText(props.WaterResources),
		ISO2:       iso2,
		FlagURL:    flag,
		ShowFlag:   flag != "",
		WaterMap:   WaterMapRoute + path.Base(countries.WaterMapPath(b.WaterMapDir, iso2, b.Exists)),
		ShowCharts: true,
	}
}

// Reset is the panel shown before any country is selected.
func Reset() View {
	return View{
		Title:      DefaultTitle,
		Population: Placeholder,
		GDP:        Placeholder,
		Score:      Placeholder,
		ScoreColor: ScoreColor(nil),
		WaterText:  DefaultHint,
	}
}

// Unavailable is the reset panel with the missing-dataset message.
func Unavailable() View {
	v := Reset()
	v.WaterText = WorldMissing
	return v
}

// ScoreColor maps a water score onto the map fill colour; missing scores count as 5.
func ScoreColor(score *float64) string {
	s := DefaultScore
	if score != nil {
		s = *score
	}
	switch {
	case s >= 8:
		return ColorGood
	case s >= 5:
		return ColorMedium
	default:
		return ColorPoor
	}
}
