// Package api serves the JSON endpoints behind the map page.
package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"waterglobe/adapters/excel"
	"waterglobe/domain/water"
	"waterglobe/internal"
	"waterglobe/internal/analysis"
	"waterglobe/internal/errors"
	"waterglobe/internal/panel"
	"waterglobe/internal/render"
	"waterglobe/internal/series"
	"waterglobe/ports"
)

// ClientHeader identifies the browser tab whose render session a request replaces.
const ClientHeader = "X-Client-ID"

// MaxBatchNames bounds POST /series/batch.
const MaxBatchNames = 250

// SeriesAPI handles country, series and export requests
type SeriesAPI struct {
	synth            *series.Synthesizer
	world            ports.WorldReader
	panels           *panel.Builder
	sessions         *render.Manager
	exporter         *excel.Exporter
	logger           *internal.Logger
	batchConcurrency int
	validate         bool
}

// Deps are the collaborators of SeriesAPI.
type Deps struct {
	Synth            *series.Synthesizer
	World            ports.WorldReader
	Panels           *panel.Builder
	Sessions         *render.Manager
	Exporter         *excel.Exporter
	Logger           *internal.Logger
	BatchConcurrency int
	// Validate re-checks every generated series before answering.
	Validate bool
}

// NewSeriesAPI creates the API handler set
func NewSeriesAPI(deps Deps) *SeriesAPI {
	logger := deps.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}
	sessions := deps.Sessions
	if sessions == nil {
		sessions = render.NewManager(logger)
	}
	exporter := deps.Exporter
	if exporter == nil {
		exporter = excel.NewExporter()
	}
	return &SeriesAPI{
		synth:            deps.Synth,
		world:            deps.World,
		panels:           deps.Panels,
		sessions:         sessions,
		exporter:         exporter,
		logger:           logger.Component("SeriesAPI"),
		batchConcurrency: deps.BatchConcurrency,
		validate:         deps.Validate,
	}
}

// Register mounts the endpoints on r.
func (a *SeriesAPI) Register(r gin.IRouter) {
	r.GET("/countries", a.HandleCountries)
	r.GET("/countries/:name", a.HandleCountry)
	r.GET("/country", a.HandleCountry)

	r.GET("/series", a.HandleSeries)
	r.GET("/series/:name", a.HandleSeries)
	r.GET("/series/:name/summary", a.HandleSummary)
	r.GET("/series/:name/export.xlsx", a.HandleExportXLSX)
	r.GET("/series/:name/export.csv", a.HandleExportCSV)
	r.POST("/series/batch", a.HandleBatch)

	r.GET("/panel/reset", a.HandleReset)
}

// NewEngine builds a gin engine serving the API at its root.
func NewEngine(a *SeriesAPI, mode string) *gin.Engine {
	gin.SetMode(mode)
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	a.Register(engine)
	return engine
}

// HandleCountries lists the countries of the boundary dataset.
func (a *SeriesAPI) HandleCountries(c *gin.Context) {
	world, err := a.world.World(c.Request.Context())
	if err != nil {
		a.logger.Warn("world dataset unavailable: %v", err)
		c.JSON(errors.HTTPStatus(err), gin.H{
			"error": err.Error(),
			"code":  errors.GetCode(err),
			"panel": panel.Unavailable(),
		})
		return
	}

	names := world.Names()
	c.JSON(http.StatusOK, gin.H{
		"countries": names,
		"count":     len(names),
	})
}

// HandleCountry answers a map click: panel, series and both charts.
// Features without a name get the unknown-country panel and the series
// seeded by "", which only the ?name= form can ask for.
func (a *SeriesAPI) HandleCountry(c *gin.Context) {
	ctx := c.Request.Context()
	name, ok := c.Params.Get("name")
	if !ok {
		name = c.Query("name")
	}

	var props water.CountryProps
	if strings.TrimSpace(name) != "" {
		var err error
		if props, err = a.world.Country(ctx, name); err != nil {
			a.respondError(c, err)
			return
		}
	} else if _, err := a.world.World(ctx); err != nil {
		a.respondError(c, err)
		return
	}

	year, err := a.yearParam(c)
	if err != nil {
		a.respondError(c, err)
		return
	}
	s, err := a.generate(c, props.Name, year)
	if err != nil {
		a.respondError(c, err)
		return
	}

	session := a.sessions.Begin(clientID(c))
	charts, err := session.Render(props.Name, s)
	if err != nil {
		a.respondError(c, errors.Wrap(err, "failed to render charts"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"panel":  a.panels.Build(props),
		"series": s,
		"charts": charts,
	})
}

// HandleSeries returns the raw series. The name comes from the path or,
// for keys a path cannot carry such as "", from ?name=.
func (a *SeriesAPI) HandleSeries(c *gin.Context) {
	name, ok := c.Params.Get("name")
	if !ok {
		name = c.Query("name")
	}

	year, err := a.yearParam(c)
	if err != nil {
		a.respondError(c, err)
		return
	}
	s, err := a.generate(c, name, year)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// HandleSummary returns the statistical digest of a series.
func (a *SeriesAPI) HandleSummary(c *gin.Context) {
	name := c.Param("name")
	year, err := a.yearParam(c)
	if err != nil {
		a.respondError(c, err)
		return
	}
	s, err := a.generate(c, name, year)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"country": name,
		"summary": analysis.Summarize(s),
	})
}

// HandleExportXLSX downloads the series as a workbook.
func (a *SeriesAPI) HandleExportXLSX(c *gin.Context) {
	a.export(c, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		func(buf *bytes.Buffer, name string, s water.Series) error {
			return a.exporter.WriteXLSX(buf, name, s)
		})
}

// HandleExportCSV downloads the series as CSV.
func (a *SeriesAPI) HandleExportCSV(c *gin.Context) {
	a.export(c, "csv", "text/csv; charset=utf-8",
		func(buf *bytes.Buffer, _ string, s water.Series) error {
			return a.exporter.WriteCSV(buf, s)
		})
}

func (a *SeriesAPI) export(c *gin.Context, ext, contentType string, write func(*bytes.Buffer, string, water.Series) error) {
	name := c.Param("name")
	year, err := a.yearParam(c)
	if err != nil {
		a.respondError(c, err)
		return
	}
	s, err := a.generate(c, name, year)
	if err != nil {
		a.respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, name, s); err != nil {
		a.respondError(c, errors.Wrapf(err, "failed to export %s", ext))
		return
	}

	filename := fmt.Sprintf("water_%s_%d.%s", slug(name), s.CurrentYear(), ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

type batchRequest struct {
	Names []string `json:"names"`
	Year  int      `json:"year"`
}

// HandleBatch generates several series in one call.
func (a *SeriesAPI) HandleBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.respondError(c, errors.InvalidInput("invalid batch request: "+err.Error()))
		return
	}
	if len(req.Names) == 0 {
		a.respondError(c, errors.InvalidInput("names must not be empty"))
		return
	}
	if len(req.Names) > MaxBatchNames {
		a.respondError(c, errors.InvalidInput(fmt.Sprintf("at most %d names per batch", MaxBatchNames)))
		return
	}
	year := req.Year
	if year == 0 {
		year = a.synth.CurrentYear()
	}

	results, err := a.synth.Batch(c.Request.Context(), req.Names, year, a.batchConcurrency)
	if err != nil {
		a.respondError(c, errors.Wrap(err, "batch generation failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"year":   year,
		"series": results,
		"count":  len(results),
	})
}

// HandleReset closes the caller's render session and returns the default panel.
func (a *SeriesAPI) HandleReset(c *gin.Context) {
	a.sessions.End(clientID(c))
	c.JSON(http.StatusOK, gin.H{"panel": panel.Reset()})
}

func (a *SeriesAPI) generate(c *gin.Context, name string, year int) (water.Series, error) {
	s, err := a.synth.ForYear(c.Request.Context(), name, year)
	if err != nil {
		return water.Series{}, err
	}
	if a.validate {
		if err := s.Validate(); err != nil {
			a.logger.Error("series for %q failed validation: %v", name, err)
			return water.Series{}, errors.WithCode(errors.CodeInternalError, err)
		}
	}
	a.logger.Trace("generated series for %q ending %d", name, year)
	return s, nil
}

func (a *SeriesAPI) yearParam(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Query("year"))
	if raw == "" {
		return a.synth.CurrentYear(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidInput(fmt.Sprintf("year must be an integer, got %q", raw))
	}
	return year, nil
}

func (a *SeriesAPI) respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

func clientID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(ClientHeader)); id != "" {
		return id
	}
	return c.ClientIP()
}

func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "country"
	}
	return b.String()
}
