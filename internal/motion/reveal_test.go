package motion

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleFraction(t *testing.T) {
	tests := []struct {
		name   string
		entry  Entry
		margin float64
		want   float64
	}{
		{"ratio passthrough", Entry{Ratio: 0.4}, 0, 0.4},
		{"ratio clamped", Entry{Ratio: 3}, 0, 1},
		{"NaN ratio", Entry{Ratio: math.NaN()}, 0, 0},
		{"fully inside", Entry{Measured: true, Top: 100, Bottom: 300, Viewport: 800}, 0, 1},
		{"below fold", Entry{Measured: true, Top: 900, Bottom: 1200, Viewport: 800}, 0, 0},
		{"half in", Entry{Measured: true, Top: 700, Bottom: 900, Viewport: 800}, 0, 0.5},
		{"negative margin shrinks root", Entry{Measured: true, Top: 650, Bottom: 850, Viewport: 800}, -100, 0.25},
		{"positive margin grows root", Entry{Measured: true, Top: 850, Bottom: 1050, Viewport: 800}, 100, 0.25},
		{"zero height in view", Entry{Measured: true, Top: 10, Bottom: 10, Viewport: 800}, 0, 1},
		{"margin swallows viewport", Entry{Measured: true, Top: 0, Bottom: 10, Viewport: 100}, -60, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, VisibleFraction(tt.entry, tt.margin), 1e-9)
		})
	}
}

type countingArmer struct{ n int }

func (a *countingArmer) Arm() { a.n++ }

func TestRevealIsOnceOnly(t *testing.T) {
	obs := NewReportedObserver()
	c := NewRevealController("about", RevealConfig{Threshold: 0.2}, obs, nil)
	child := &countingArmer{}
	c.Add(child)
	c.Mount()
	require.Equal(t, Hidden, c.State())

	obs.Report(Entry{Target: "about", Ratio: 0.1})
	assert.Equal(t, Hidden, c.State())
	assert.Zero(t, child.n)

	obs.Report(Entry{Target: "about", Ratio: 0.2})
	assert.Equal(t, Visible, c.State())
	assert.Equal(t, 1, child.n)

	for i := 0; i < 5; i++ {
		obs.Report(Entry{Target: "about", Ratio: 0})
		obs.Report(Entry{Target: "about", Ratio: 1})
	}
	assert.Equal(t, Visible, c.State())
	assert.Equal(t, 1, child.n)
	assert.Zero(t, obs.Subscribers("about"), "observer released after reveal")
}

func TestRevealIgnoresOtherTargets(t *testing.T) {
	obs := NewReportedObserver()
	c := NewRevealController("contact", RevealConfig{}, obs, nil)
	c.Mount()
	obs.Report(Entry{Target: "about", Ratio: 1})
	assert.Equal(t, Hidden, c.State())
}

func TestRevealZeroThresholdNeedsSomeVisibility(t *testing.T) {
	obs := NewReportedObserver()
	c := NewRevealController("hero", RevealConfig{}, obs, nil)
	c.Mount()
	obs.Report(Entry{Target: "hero", Ratio: 0})
	assert.Equal(t, Hidden, c.State())
	obs.Report(Entry{Target: "hero", Ratio: 0.01})
	assert.Equal(t, Visible, c.State())
}

func TestRevealAlreadyInViewAtMount(t *testing.T) {
	obs := NewReportedObserver()
	obs.Report(Entry{Target: "hero", Measured: true, Top: 0, Bottom: 600, Viewport: 800})

	c := NewRevealController("hero", RevealConfig{Threshold: 0.5}, obs, nil)
	child := &countingArmer{}
	c.Add(child)
	c.Mount()

	assert.Equal(t, Visible, c.State())
	assert.Equal(t, 1, child.n)
	assert.Zero(t, obs.Subscribers("hero"))
}

func TestRevealFailsOpen(t *testing.T) {
	t.Run("unsupported", func(t *testing.T) {
		c := NewRevealController("projects", RevealConfig{Threshold: 0.9}, Unsupported(), nil)
		child := &countingArmer{}
		c.Add(child)
		c.Mount()
		assert.Equal(t, Visible, c.State())
		assert.Equal(t, 1, child.n)
	})
	t.Run("nil observer", func(t *testing.T) {
		c := NewRevealController("projects", RevealConfig{}, nil, nil)
		c.Mount()
		assert.Equal(t, Visible, c.State())
	})
	t.Run("observe error", func(t *testing.T) {
		c := NewRevealController("projects", RevealConfig{}, failingObserver{}, nil)
		c.Mount()
		assert.Equal(t, Visible, c.State())
	})
}

type failingObserver struct{}

func (failingObserver) Observe(string, func(Entry)) (func(), error) {
	return nil, errors.New("boom")
}

func TestRevealChildAddedLateIsArmed(t *testing.T) {
	c := NewRevealController("about", RevealConfig{}, nil, nil)
	c.Mount()
	child := &countingArmer{}
	c.Add(child)
	assert.Equal(t, 1, child.n)
}

func TestRevealOnRevealBeforeChildren(t *testing.T) {
	obs := NewReportedObserver()
	c := NewRevealController("about", RevealConfig{}, obs, nil)
	var order []string
	c.Add(ArmerFunc(func() { order = append(order, "child") }))
	c.OnReveal(func() { order = append(order, "section") })
	c.Mount()
	obs.Report(Entry{Target: "about", Ratio: 1})
	assert.Equal(t, []string{"section", "child"}, order)
}

type closingArmer struct {
	countingArmer
	closed bool
}

func (a *closingArmer) Close() { a.closed = true }

func TestRevealCloseReleasesObserverAndChildren(t *testing.T) {
	obs := NewReportedObserver()
	c := NewRevealController("contact", RevealConfig{}, obs, nil)
	child := &closingArmer{}
	c.Add(child)
	c.Mount()
	require.Equal(t, 1, obs.Subscribers("contact"))

	c.Close()
	assert.Zero(t, obs.Subscribers("contact"))
	assert.True(t, child.closed)

	obs.Report(Entry{Target: "contact", Ratio: 1})
	assert.Equal(t, Hidden, c.State())
	assert.Zero(t, child.n)
}

func TestRevealStateText(t *testing.T) {
	b, err := Visible.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "visible", string(b))
	assert.Equal(t, "hidden", Hidden.String())
}

func TestRevealStateUnmarshalText(t *testing.T) {
	var s RevealState
	require.NoError(t, s.UnmarshalText([]byte("visible")))
	assert.Equal(t, Visible, s)
	assert.Error(t, s.UnmarshalText([]byte("fading")))
	assert.Equal(t, Visible, s)
}
