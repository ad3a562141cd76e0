// Package geojson loads the world boundary FeatureCollection and reduces
// each feature to the country properties the panel shows.
package geojson

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"waterglobe/domain/core"
	"waterglobe/domain/water"
	"waterglobe/internal"
	"waterglobe/internal/countries"
	"waterglobe/internal/errors"
	"waterglobe/ports"
)

// Property names probed for each field, first match wins.
var (
	nameKeys       = []string{"name", "NAME", "ADMIN", "name_long"}
	populationKeys = []string{"population", "POP_EST", "pop_est"}
	gdpKeys        = []string{"gdp", "GDP_MD", "GDP_MD_EST"}
	scoreKeys      = []string{"waterScore", "water_score"}
	resourceKeys   = []string{"waterResources", "water_resources"}
)

// Loader reads the boundary dataset from a file and caches the result.
type Loader struct {
	path   string
	logger *internal.Logger

	mu    sync.RWMutex
	world *water.World
}

var _ ports.WorldReader = (*Loader)(nil)

// NewLoader creates a loader for the GeoJSON file at path
func NewLoader(path string, logger *internal.Logger) *Loader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{
		path:   path,
		logger: logger.Component("WorldLoader"),
	}
}

// World returns the cached dataset, reading the file on first use.
// A failed read is not cached, so a later call retries.
func (l *Loader) World(ctx context.Context) (*water.World, error) {
	l.mu.RLock()
	world := l.world
	l.mu.RUnlock()
	if world != nil {
		return world, nil
	}
	return l.reload(ctx)
}

// reload re-reads the file unconditionally.
func (l *Loader) reload(ctx context.Context) (*water.World, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := os.ReadFile(l.path)
	if err != nil {
		l.logger.Error("failed to read %s: %v", l.path, err)
		return nil, errors.ExternalServiceError("world dataset", errors.Wrapf(core.ErrWorldUnavailable, "%s: %v", l.path, err))
	}

	world, err := Parse(raw)
	if err != nil {
		l.logger.Error("failed to parse %s: %v", l.path, err)
		return nil, err
	}

	l.mu.Lock()
	l.world = world
	l.mu.Unlock()

	l.logger.Info("loaded %d countries from %s in %s", len(world.Countries), l.path, time.Since(start))
	return world, nil
}

// Country looks a feature up by name.
func (l *Loader) Country(ctx context.Context, name string) (water.CountryProps, error) {
	world, err := l.World(ctx)
	if err != nil {
		return water.CountryProps{}, err
	}
	props, ok := world.Lookup(name)
	if !ok {
		return water.CountryProps{}, errors.WithCode(errors.CodeNotFound, core.NewCountryNotFoundError(name))
	}
	return props, nil
}

// Parse reduces a FeatureCollection to country properties. Features with
// no properties object are kept with empty properties.
func Parse(raw []byte) (*water.World, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.ExternalServiceError("world dataset", errors.Wrap(core.ErrWorldUnavailable, "invalid JSON"))
	}
	doc := gjson.ParseBytes(raw)
	if doc.Get("type").String() != "FeatureCollection" {
		return nil, errors.ExternalServiceError("world dataset", errors.Wrap(core.ErrWorldUnavailable, "not a FeatureCollection"))
	}

	var out []water.CountryProps
	doc.Get("features").ForEach(func(_, feature gjson.Result) bool {
		out = append(out, parseProps(feature.Get("properties")))
		return true
	})
	return water.NewWorld(out, raw), nil
}

func parseProps(p gjson.Result) water.CountryProps {
	props := water.CountryProps{
		Name:           firstString(p, nameKeys),
		Population:     firstNumber(p, populationKeys),
		GDP:            firstNumber(p, gdpKeys),
		WaterScore:     firstNumber(p, scoreKeys),
		WaterResources: firstString(p, resourceKeys),
	}
	for _, key := range countries.CodeKeys() {
		v := p.Get(gjson.Escape(key))
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if props.Codes == nil {
			props.Codes = make(map[string]string)
		}
		props.Codes[key] = v.String()
	}
	return props
}

func firstString(p gjson.Result, keys []string) string {
	for _, k := range keys {
		if v := p.Get(k); v.Exists() && v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

func firstNumber(p gjson.Result, keys []string) *float64 {
	for _, k := range keys {
		if v := p.Get(k); v.Exists() && v.Type == gjson.Number {
			n := v.Num
			return &n
		}
	}
	return nil
}
