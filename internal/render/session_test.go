package render

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waterglobe/domain/core"
	"waterglobe/internal/series"
)

func TestReserveChart(t *testing.T) {
	s := series.Generate("Turkey", 2024)
	c := ReserveChart("Turkey", s)

	assert.Equal(t, KindLine, c.Type)
	assert.Equal(t, s.Years, c.Data.Labels)
	require.Len(t, c.Data.Datasets, 1)
	assert.Equal(t, ReserveLabel, c.Data.Datasets[0].Label)
	assert.Equal(t, s.Reserve, c.Data.Datasets[0].Data)
	assert.Equal(t, 0.25, c.Data.Datasets[0].Tension)
	assert.True(t, c.Options.Scales["y"].BeginAtZero)

	// charts copy their input
	c.Data.Labels[0] = 0
	assert.Equal(t, 2015, s.Years[0])
}

func TestUsageChart(t *testing.T) {
	s := series.Generate("Turkey", 2024)
	c := UsageChart("Turkey", s)

	assert.Equal(t, KindBar, c.Type)
	require.Len(t, c.Data.Datasets, 3)
	assert.Equal(t, []string{AgriLabel, DomLabel, IndLabel},
		[]string{c.Data.Datasets[0].Label, c.Data.Datasets[1].Label, c.Data.Datasets[2].Label})
	assert.Equal(t, s.Usage.Ind, c.Data.Datasets[2].Data)
	require.NotNil(t, c.Options.Scales["y"].Max)
	assert.Equal(t, 100, *c.Options.Scales["y"].Max)
	assert.True(t, c.Options.Scales["x"].Stacked)

	raw, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"stack":"use"`)
	assert.Contains(t, string(raw), `"tickSuffix":"%"`)
}

func TestSessionLifecycle(t *testing.T) {
	s := NewSession()
	assert.False(t, s.Active())

	b, err := s.Render("Brazil", series.Generate("Brazil", 2024))
	require.NoError(t, err)
	assert.Equal(t, s.ID, b.SessionID)
	assert.Equal(t, "Brazil", b.Country)
	assert.True(t, s.Active())

	s.Teardown()
	assert.False(t, s.Active())

	_, err = s.Render("Brazil", series.Generate("Brazil", 2024))
	require.NoError(t, err)

	s.Close()
	s.Close()
	assert.False(t, s.Active())
	_, err = s.Render("Brazil", series.Generate("Brazil", 2024))
	assert.ErrorIs(t, err, core.ErrSessionClosed)
}

func TestManagerReplacesPreviousSession(t *testing.T) {
	m := NewManager(nil)

	first := m.Begin("client-a")
	_, err := first.Render("Egypt", series.Generate("Egypt", 2024))
	require.NoError(t, err)

	second := m.Begin("client-a")
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.Active())
	_, err = first.Render("Egypt", series.Generate("Egypt", 2024))
	assert.ErrorIs(t, err, core.ErrSessionClosed)

	other := m.Begin("client-b")
	assert.Equal(t, 2, m.Len())

	_, err = second.Render("Egypt", series.Generate("Egypt", 2024))
	require.NoError(t, err)

	m.End("client-b")
	assert.Equal(t, 1, m.Len())
	_, err = other.Render("Egypt", series.Generate("Egypt", 2024))
	assert.ErrorIs(t, err, core.ErrSessionClosed)

	m.End("unknown")
	assert.Equal(t, 1, m.Len())
}

func TestManagerCapsOneOffClients(t *testing.T) {
	tick := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(nil, WithMaxSessions(100), WithManagerClock(func() time.Time {
		tick = tick.Add(time.Millisecond)
		return tick
	}))

	sessions := make([]*Session, 0, 10000)
	for i := 0; i < 10000; i++ {
		sessions = append(sessions, m.Begin(fmt.Sprintf("client-%d", i)))
	}
	assert.Equal(t, 100, m.Len())

	_, err := sessions[0].Render("Egypt", series.Generate("Egypt", 2024))
	assert.ErrorIs(t, err, core.ErrSessionClosed, "oldest session evicted")
	_, err = sessions[9999].Render("Egypt", series.Generate("Egypt", 2024))
	assert.NoError(t, err)
}

func TestManagerExpiresIdleSessions(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(nil, WithSessionTTL(30*time.Minute), WithManagerClock(func() time.Time { return now }))

	a := m.Begin("client-a")
	m.Begin("client-b")
	assert.Equal(t, 2, m.Len())

	now = now.Add(31 * time.Minute)
	m.Begin("client-c")
	assert.Equal(t, 1, m.Len())
	_, err := a.Render("Egypt", series.Generate("Egypt", 2024))
	assert.ErrorIs(t, err, core.ErrSessionClosed)

	// a client that keeps clicking stays alive
	now = now.Add(20 * time.Minute)
	m.Begin("client-c")
	now = now.Add(20 * time.Minute)
	m.Begin("client-d")
	assert.Equal(t, 2, m.Len())
}

func TestManagerOptionsIgnoreNonPositive(t *testing.T) {
	m := NewManager(nil, WithSessionTTL(0), WithMaxSessions(-1))
	assert.Equal(t, DefaultSessionTTL, m.ttl)
	assert.Equal(t, DefaultMaxSessions, m.max)
}
