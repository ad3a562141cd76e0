// Package series synthesizes the ten-year water reserve and usage series
// shown for a country. Values are visual filler: a pure function of the
// country name and the current year.
package series

import (
	"context"
	"math"
	"time"

	"waterglobe/adapters/rng"
	"waterglobe/domain/water"
	"waterglobe/internal/errors"
	"waterglobe/ports"
)

// DrawsPerSeries is the number of stream values one series consumes:
// one reserve base, one drift per year, three usage draws per year.
const DrawsPerSeries = 1 + water.SeriesLength + 3*water.SeriesLength

// Clock supplies the current time. Tests pin it.
type Clock func() time.Time

// Synthesizer builds series for the API and CLI using a keyed RNG port.
type Synthesizer struct {
	rng   ports.RNGPort
	clock Clock
	year  int
}

// Option configures a Synthesizer
type Option func(*Synthesizer)

// WithClock overrides time.Now.
func WithClock(clock Clock) Option {
	return func(s *Synthesizer) { s.clock = clock }
}

// WithFixedYear pins the last series year; 0 keeps the clock's year.
func WithFixedYear(year int) Option {
	return func(s *Synthesizer) { s.year = year }
}

// NewSynthesizer creates a synthesizer over the given RNG port
func NewSynthesizer(port ports.RNGPort, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		rng:   port,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentYear is the year a series generated now would end at.
func (s *Synthesizer) CurrentYear() int {
	if s.year != 0 {
		return s.year
	}
	return s.clock().Year()
}

// ForCountry builds the series for name ending at the current year.
func (s *Synthesizer) ForCountry(ctx context.Context, name string) (water.Series, error) {
	return s.ForYear(ctx, name, s.CurrentYear())
}

// ForYear builds the series for name ending at year.
func (s *Synthesizer) ForYear(ctx context.Context, name string, year int) (water.Series, error) {
	draw, err := s.rng.Stream(ctx, name)
	if err != nil {
		return water.Series{}, errors.Wrapf(err, "failed to open stream for %q", name)
	}
	return fromDraws(draw, year), nil
}

// Generate is the pure form: same (name, currentYear), same series.
func Generate(name string, currentYear int) water.Series {
	return fromDraws(rng.Seeded(name), currentYear)
}

func fromDraws(draw func() float64, currentYear int) water.Series {
	n := water.SeriesLength
	out := water.Series{
		Years:   make([]int, n),
		Reserve: make([]int, n),
		Usage: water.Usage{
			Agri: make([]int, n),
			Dom:  make([]int, n),
			Ind:  make([]int, n),
		},
	}

	for i := 0; i < n; i++ {
		out.Years[i] = currentYear - (n - 1) + i
	}

	// Bounded random walk, order dependent.
	base := 50 + math.Floor(draw()*400)
	for i := 0; i < n; i++ {
		drift := (draw() - 0.5) * 10
		base = math.Max(water.ReserveFloor, base+drift)
		out.Reserve[i] = round(base)
	}

	for i := 0; i < n; i++ {
		a := 40 + math.Floor(draw()*40)
		d := 10 + math.Floor(draw()*30)
		adj := (draw() - 0.5) * 10

		a = clamp(a+adj, water.AgriMin, water.AgriMax)
		d = clamp(d-adj/2, water.DomMin, water.DomMax)

		ra, rd := round(a), round(d)
		out.Usage.Agri[i] = ra
		out.Usage.Dom[i] = rd
		out.Usage.Ind[i] = max(0, 100-ra-rd)
	}

	return out
}

// round sends halves toward +Inf, as the browser client does.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}
