package container

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"waterglobe/adapters/excel"
	"waterglobe/adapters/geojson"
	"waterglobe/adapters/rng"
	"waterglobe/internal"
	"waterglobe/internal/api"
	"waterglobe/internal/config"
	"waterglobe/internal/countries"
	"waterglobe/internal/panel"
	"waterglobe/internal/render"
	"waterglobe/internal/series"
	"waterglobe/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Series synthesis
	RNG   ports.RNGPort
	Synth *series.Synthesizer

	// Boundary dataset and presentation
	World    *geojson.Loader
	Panels   *panel.Builder
	Sessions *render.Manager
	Exporter *excel.Exporter

	API *api.SeriesAPI
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	c.initSeries()
	c.initPresentation()
	c.initAPI()

	logger.Component("Container").Debug("container initialized (world=%s, locale=%s)", cfg.Data.WorldFile, cfg.Assets.Locale)
	return c, nil
}

// initSeries wires the seeded stream adapter into the synthesizer
func (c *Container) initSeries() {
	c.RNG = rng.NewAdapter()
	var opts []series.Option
	if c.Config.Series.Year > 0 {
		opts = append(opts, series.WithFixedYear(c.Config.Series.Year))
	}
	c.Synth = series.NewSynthesizer(c.RNG, opts...)
}

// initPresentation wires the dataset loader, panel builder and chart sessions
func (c *Container) initPresentation() {
	c.World = geojson.NewLoader(c.Config.Data.WorldFile, c.Logger)
	c.Panels = panel.NewBuilder(
		panel.NewFormatter(c.Config.Assets.Locale),
		c.Config.Assets.FlagCDNURL,
		c.Config.Assets.WaterMapDir,
		countries.OSFileExists,
	)
	c.Sessions = render.NewManager(c.Logger,
		render.WithSessionTTL(c.Config.Sessions.TTL),
		render.WithMaxSessions(c.Config.Sessions.Max),
	)
	c.Exporter = excel.NewExporter()
}

func (c *Container) initAPI() {
	c.API = api.NewSeriesAPI(api.Deps{
		Synth:            c.Synth,
		World:            c.World,
		Panels:           c.Panels,
		Sessions:         c.Sessions,
		Exporter:         c.Exporter,
		Logger:           c.Logger,
		BatchConcurrency: c.Config.Series.BatchConcurrency,
		Validate:         c.Config.Server.GinMode == gin.DebugMode,
	})
}

// Engine builds the gin engine serving the JSON API
func (c *Container) Engine() *gin.Engine {
	return api.NewEngine(c.API, c.Config.Server.GinMode)
}

// Preload reads the boundary dataset once so a missing file shows up at
// startup. The server still starts; the page shows the fallback message.
func (c *Container) Preload(ctx context.Context) {
	log := c.Logger.Component("Container")
	world, err := c.World.World(ctx)
	if err != nil {
		log.Warn("%s: %v", panel.WorldMissing, err)
		return
	}
	log.Debug("world ready with %d countries", len(world.Countries))
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if n := c.Sessions.Len(); n > 0 {
		c.Logger.Component("Container").Debug("dropping %d render sessions", n)
	}
	return nil
}
