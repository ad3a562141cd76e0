package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"waterglobe/internal"
	"waterglobe/internal/errors"
	"waterglobe/internal/panel"
	"waterglobe/ports"
	"waterglobe/ui/middleware"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

// App serves the map page, its assets and the mounted JSON API
type App struct {
	router    *chi.Mux
	config    Config
	world     ports.WorldReader
	api       http.Handler
	templates *template.Template
	logger    *internal.Logger
	server    *http.Server
}

// Config holds UI application configuration
type Config struct {
	Addr         string
	APIPrefix    string
	FlagBaseURL  string
	WaterMapDir  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// pageData feeds templates/index.html
type pageData struct {
	APIPrefix   string
	FlagBaseURL string
	Panel       panel.View
}

// NewApp creates a new UI application
func NewApp(config Config, world ports.WorldReader, api http.Handler, logger *internal.Logger) (*App, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	templates, err := template.New("").ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		config:    config,
		world:     world,
		api:       api,
		templates: templates,
		logger:    logger.Component("UI"),
	}

	if err := app.setupMiddleware(); err != nil {
		return nil, err
	}
	app.setupRoutes()

	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() error {
	a.router.Use(chimiddleware.RequestID)
	a.router.Use(chimiddleware.Logger)
	a.router.Use(chimiddleware.Recoverer)
	a.router.Use(chimiddleware.Compress(5))
	a.router.Use(middleware.EnsureClient)

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to open static assets: %w", err)
	}
	a.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	return nil
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/world.json", a.handleWorld)
	a.router.Get("/healthz", a.handleHealth)

	if a.config.WaterMapDir != "" {
		a.router.Handle("/watermaps/*", http.StripPrefix("/watermaps/", http.FileServer(http.Dir(a.config.WaterMapDir))))
	}
	if a.api != nil {
		a.router.Mount(a.config.APIPrefix, http.StripPrefix(a.config.APIPrefix, a.api))
	}
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

// Start starts the HTTP server and blocks until it stops
func (a *App) Start() error {
	a.server = &http.Server{
		Addr:         a.config.Addr,
		Handler:      a.router,
		ReadTimeout:  a.config.ReadTimeout,
		WriteTimeout: a.config.WriteTimeout,
	}
	a.logger.Info("starting waterglobe server on %s", a.config.Addr)
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops a running server gracefully
func (a *App) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.renderTemplate(w, "index.html", pageData{
		APIPrefix:   a.config.APIPrefix,
		FlagBaseURL: a.config.FlagBaseURL,
		Panel:       panel.Reset(),
	})
}

// handleWorld serves the boundary dataset the map draws.
func (a *App) handleWorld(w http.ResponseWriter, r *http.Request) {
	world, err := a.world.World(r.Context())
	if err != nil {
		a.logger.Warn("world.json unavailable: %v", err)
		http.Error(w, panel.WorldMissing, errors.HTTPStatus(err))
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(world.Raw)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.logger.Error("template error: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}
