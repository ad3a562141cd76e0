package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"waterglobe/domain/water"
)

func f(v float64) *float64 { return &v }

func TestFormatterEnglish(t *testing.T) {
	format := NewFormatter("en-US")
	assert.Equal(t, "85,000,000", format.Number(f(85000000)))
	assert.Equal(t, "1,234.5", format.Number(f(1234.5)))
	assert.Equal(t, Placeholder, format.Number(nil))
	assert.Equal(t, "2,500 $", format.Money(f(2500)))
	assert.Equal(t, Placeholder, format.Money(f(0)))
	assert.Equal(t, Placeholder, format.Money(nil))
}

func TestFormatterBadLocale(t *testing.T) {
	assert.Equal(t, "1,000", NewFormatter("not a locale!").Number(f(1000)))
}

func TestScore(t *testing.T) {
	assert.Equal(t, "6", Score(f(6)))
	assert.Equal(t, "7.5", Score(f(7.5)))
	assert.Equal(t, Placeholder, Score(nil))
}

func TestScoreColor(t *testing.T) {
	assert.Equal(t, ColorGood, ScoreColor(f(8)))
	assert.Equal(t, ColorGood, ScoreColor(f(9.5)))
	assert.Equal(t, ColorMedium, ScoreColor(f(5)))
	assert.Equal(t, ColorMedium, ScoreColor(nil))
	assert.Equal(t, ColorPoor, ScoreColor(f(4.9)))
}

func TestRenderWaterText(t *testing.T) {
	out := RenderWaterText("Euphrates and **Tigris** basins. <script>alert(1)</script>")
	assert.Contains(t, out, "<strong>Tigris</strong>")
	assert.NotContains(t, out, "<script>")
	assert.Equal(t, "", RenderWaterText("   "))
}

func TestRenderWaterTextLinks(t *testing.T) {
	out := RenderWaterText("Rivers [details](javascript:alert(document.cookie)) here")
	assert.NotContains(t, out, "javascript:")
	assert.NotContains(t, out, "<a ")
	assert.Contains(t, out, "details")

	out = RenderWaterText("See [the atlas](https://example.org/atlas).")
	assert.Contains(t, out, `href="https://example.org/atlas"`)
	assert.Contains(t, out, `target="_blank"`)
}

func TestFormatterTurkish(t *testing.T) {
	format := NewFormatter("tr-TR")
	assert.Equal(t, "85.000.000", format.Number(f(85000000)))
	assert.Equal(t, "1.234,5", format.Number(f(1234.5)))
	assert.Equal(t, "85.000.000 $", format.Money(f(85000000)))
	assert.Equal(t, Placeholder, format.Money(f(0)))
}

func TestBuild(t *testing.T) {
	b := NewBuilder(NewFormatter("en"), "https://flagcdn.com/w40", "watermaps", func(string) bool { return false })

	v := b.Build(water.CountryProps{
		Name:           "Turkey",
		Population:     f(85000000),
		GDP:            f(1100000000000),
		WaterScore:     f(6),
		WaterResources: "Two **major** rivers.",
		Codes:          map[string]string{"ISO_A2": "TR"},
	})

	assert.Equal(t, "Turkey", v.Title)
	assert.Equal(t, "85,000,000", v.Population)
	assert.Equal(t, "1,100,000,000,000 $", v.GDP)
	assert.Equal(t, "6", v.Score)
	assert.Equal(t, ColorMedium, v.ScoreColor)
	assert.Equal(t, "Two **major** rivers.", v.WaterText)
	assert.Contains(t, v.WaterHTML, "<strong>major</strong>")
	assert.Equal(t, "tr", v.ISO2)
	assert.Equal(t, "https://flagcdn.com/w40/tr.png", v.FlagURL)
	assert.True(t, v.ShowFlag)
	assert.Equal(t, "watermaps/default.jpg", v.WaterMap)
	assert.True(t, v.ShowCharts)
}

func TestBuildUnknownCountry(t *testing.T) {
	b := NewBuilder(NewFormatter("en"), "https://flagcdn.com/w40", "watermaps", nil)

	v := b.Build(water.CountryProps{})
	assert.Equal(t, UnknownCountry, v.Title)
	assert.Equal(t, Placeholder, v.Population)
	assert.Equal(t, Placeholder, v.GDP)
	assert.Equal(t, Placeholder, v.Score)
	assert.Equal(t, Placeholder, v.WaterText)
	assert.Empty(t, v.WaterHTML)
	assert.False(t, v.ShowFlag)
	assert.Equal(t, "watermaps/default.jpg", v.WaterMap)
}

func TestResetAndUnavailable(t *testing.T) {
	r := Reset()
	assert.Equal(t, DefaultTitle, r.Title)
	assert.Equal(t, DefaultHint, r.WaterText)
	assert.False(t, r.ShowFlag)
	assert.False(t, r.ShowCharts)

	assert.Equal(t, WorldMissing, Unavailable().WaterText)
}
