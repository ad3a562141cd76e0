package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waterglobe/adapters/excel"
	"waterglobe/adapters/geojson"
	"waterglobe/adapters/rng"
	"waterglobe/domain/water"
	"waterglobe/internal/panel"
	"waterglobe/internal/render"
	"waterglobe/internal/series"
)

const testWorld = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "Turkey", "ISO_A2": "TR", "population": 85000000, "waterScore": 6, "waterResources": "Rivers"}},
    {"type": "Feature", "properties": {"name": "Norway", "ISO_A3": "NOR", "waterScore": 9}}
  ]
}`

type fixture struct {
	engine   *gin.Engine
	sessions *render.Manager
}

func newFixture(t *testing.T, worldJSON string) fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "world.json")
	if worldJSON != "" {
		require.NoError(t, os.WriteFile(path, []byte(worldJSON), 0o644))
	}

	sessions := render.NewManager(nil)
	a := NewSeriesAPI(Deps{
		Synth:            series.NewSynthesizer(rng.NewAdapter(), series.WithFixedYear(2024)),
		World:            geojson.NewLoader(path, nil),
		Panels:           panel.NewBuilder(panel.NewFormatter("en"), "https://flagcdn.com/w40", "watermaps", nil),
		Sessions:         sessions,
		BatchConcurrency: 2,
		Validate:         true,
	})
	return fixture{engine: NewEngine(a, gin.TestMode), sessions: sessions}
}

func (f fixture) do(t *testing.T, method, target string, body []byte, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestHandleSeries(t *testing.T) {
	f := newFixture(t, testWorld)

	w := f.do(t, http.MethodGet, "/series/Turkey", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got water.Series
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, series.Generate("Turkey", 2024), got)

	w = f.do(t, http.MethodGet, "/series/Turkey?year=2030", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 2030, got.CurrentYear())
}

func TestHandleSeriesEmptyKey(t *testing.T) {
	f := newFixture(t, testWorld)

	w := f.do(t, http.MethodGet, "/series?name=", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got water.Series
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, series.Generate("", 2024), got)
}

func TestHandleSeriesBadYear(t *testing.T) {
	f := newFixture(t, testWorld)

	w := f.do(t, http.MethodGet, "/series/Turkey?year=soon", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_INPUT")
}

func TestHandleCountries(t *testing.T) {
	f := newFixture(t, testWorld)

	w := f.do(t, http.MethodGet, "/countries", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Countries []string `json:"countries"`
		Count     int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"Norway", "Turkey"}, body.Countries)
	assert.Equal(t, 2, body.Count)
}

func TestHandleCountriesWorldMissing(t *testing.T) {
	f := newFixture(t, "")

	w := f.do(t, http.MethodGet, "/countries", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), panel.WorldMissing)
}

func TestHandleCountry(t *testing.T) {
	f := newFixture(t, testWorld)

	w := f.do(t, http.MethodGet, "/countries/turkey", nil, ClientHeader, "tab-1")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Panel  panel.View    `json:"panel"`
		Series water.Series  `json:"series"`
		Charts render.Bundle `json:"charts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "Turkey", body.Panel.Title)
	assert.Equal(t, "https://flagcdn.com/w40/tr.png", body.Panel.FlagURL)
	assert.Equal(t, "85,000,000", body.Panel.Population)
	assert.Equal(t, series.Generate("Turkey", 2024), body.Series)
	assert.Equal(t, "Turkey", body.Charts.Country)
	assert.Equal(t, body.Series.Reserve, body.Charts.Reserve.Data.Datasets[0].Data)

	assert.NotEmpty(t, body.Charts.SessionID)
	assert.Equal(t, 1, f.sessions.Len())

	// a second click replaces the session
	w = f.do(t, http.MethodGet, "/countries/Norway", nil, ClientHeader, "tab-1")
	require.Equal(t, http.StatusOK, w.Code)
	var second struct {
		Charts render.Bundle `json:"charts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.NotEqual(t, body.Charts.SessionID, second.Charts.SessionID)
	assert.Equal(t, 1, f.sessions.Len())

	w = f.do(t, http.MethodGet, "/panel/reset", nil, ClientHeader, "tab-1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), panel.DefaultTitle)
	assert.Equal(t, 0, f.sessions.Len())
}

func TestHandleCountryWithoutName(t *testing.T) {
	f := newFixture(t, testWorld)

	w := f.do(t, http.MethodGet, "/country?name=", nil, ClientHeader, "tab-2")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Panel  panel.View    `json:"panel"`
		Series water.Series  `json:"series"`
		Charts render.Bundle `json:"charts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, panel.UnknownCountry, body.Panel.Title)
	assert.False(t, body.Panel.ShowFlag)
	assert.Equal(t, series.Generate("", 2024), body.Series)
	assert.Equal(t, 1, f.sessions.Len())

	w = f.do(t, http.MethodGet, "/country?name=Turkey", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"Turkey"`)
}

func TestHandleCountryWithoutNameWorldMissing(t *testing.T) {
	f := newFixture(t, "")

	w := f.do(t, http.MethodGet, "/country?name=", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHandleCountryNotFound(t *testing.T) {
	f := newFixture(t, testWorld)

	w := f.do(t, http.MethodGet, "/countries/Atlantis", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestHandleSummary(t *testing.T) {
	f := newFixture(t, testWorld)

	w := f.do(t, http.MethodGet, "/series/Turkey/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"change":-6`)
}

func TestHandleExports(t *testing.T) {
	f := newFixture(t, testWorld)

	w := f.do(t, http.MethodGet, "/series/Saudi%20Arabia/export.csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="water_saudi_arabia_2024.csv"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "Year,Reserve (km3)"))

	w = f.do(t, http.MethodGet, "/series/Turkey/export.xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got, err := excel.ReadSeries(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, series.Generate("Turkey", 2024), got)
}

func TestHandleBatch(t *testing.T) {
	f := newFixture(t, testWorld)

	w := f.do(t, http.MethodPost, "/series/batch", []byte(`{"names":["Turkey","Brazil","Turkey"],"year":2020}`))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Year   int                     `json:"year"`
		Series map[string]water.Series `json:"series"`
		Count  int                     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2020, body.Year)
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, series.Generate("Brazil", 2020), body.Series["Brazil"])
}

func TestHandleBatchRejects(t *testing.T) {
	f := newFixture(t, testWorld)

	for _, body := range []string{`{`, `{"names":[]}`} {
		w := f.do(t, http.MethodPost, "/series/batch", []byte(body))
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	names := make([]string, MaxBatchNames+1)
	raw, err := json.Marshal(batchRequest{Names: names})
	require.NoError(t, err)
	w := f.do(t, http.MethodPost, "/series/batch", raw)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "saudi_arabia", slug("Saudi Arabia"))
	assert.Equal(t, "cte_divoire", slug("Côte d'Ivoire"))
	assert.Equal(t, "country", slug(""))
}
