package motion

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"
)

// RevealState is the lifecycle of a section. The only transition is
// Hidden -> Visible.
type RevealState int

const (
	Hidden RevealState = iota
	Visible
)

func (s RevealState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Visible:
		return "visible"
	default:
		return fmt.Sprintf("RevealState(%d)", int(s))
	}
}

func (s RevealState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *RevealState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "hidden":
		*s = Hidden
	case "visible":
		*s = Visible
	default:
		return fmt.Errorf("motion: unknown reveal state %q", b)
	}
	return nil
}

// ErrObservationUnsupported is returned by observers that cannot measure
// visibility. Controllers treat it as a reason to reveal immediately.
var ErrObservationUnsupported = errors.New("motion: visibility observation unsupported")

// Entry is one visibility measurement of a target element. When Measured is
// false, Ratio is taken as the intersection ratio directly.
type Entry struct {
	Target   string
	Measured bool
	// Element edges relative to the top of the viewport, and viewport height.
	Top, Bottom, Viewport float64
	Ratio                 float64
}

// VisibleFraction returns the share of the element inside the viewport
// after applying margin to both viewport edges. A negative margin shrinks the
// viewport (a trigger offset), a positive one grows it.
func VisibleFraction(e Entry, margin float64) float64 {
	if !e.Measured {
		return clamp01(e.Ratio)
	}
	rootTop := -margin
	rootBottom := e.Viewport + margin
	if rootBottom <= rootTop {
		return 0
	}
	top, bottom := e.Top, e.Bottom
	if bottom < top {
		top, bottom = bottom, top
	}
	if bottom == top {
		if top >= rootTop && top <= rootBottom {
			return 1
		}
		return 0
	}
	overlap := min(bottom, rootBottom) - max(top, rootTop)
	if overlap <= 0 {
		return 0
	}
	return clamp01(overlap / (bottom - top))
}

func clamp01(f float64) float64 {
	switch {
	case math.IsNaN(f) || f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// Observer is the injectable visibility capability. Observe registers fn for
// entries about target and returns a function that releases the
// registration.
type Observer interface {
	Observe(target string, fn func(Entry)) (stop func(), err error)
}

// Measurer is implemented by observers that can report the current
// visibility of a target synchronously.
type Measurer interface {
	Measure(target string) (Entry, bool)
}

// Armer is a child that starts when its section is revealed.
type Armer interface {
	Arm()
}

// ArmerFunc adapts a function to Armer.
type ArmerFunc func()

func (f ArmerFunc) Arm() { f() }

// RevealConfig configures one section's trigger.
type RevealConfig struct {
	// Threshold is the fraction of the element that must be in view.
	Threshold float64
	// Margin offsets the viewport edges in pixels, see VisibleFraction.
	Margin float64
}

// RevealController drives the Hidden -> Visible transition of one section.
type RevealController struct {
	id       string
	cfg      RevealConfig
	observer Observer
	log      *zap.Logger

	state    RevealState
	children []Armer
	stop     func()
	mounted  bool
	closed   bool
	onReveal []func()
}

// NewRevealController creates a controller for the section id. A nil
// observer means visibility cannot be observed.
func NewRevealController(id string, cfg RevealConfig, observer Observer, log *zap.Logger) *RevealController {
	if log == nil {
		log = zap.NewNop()
	}
	return &RevealController{
		id:       id,
		cfg:      cfg,
		observer: observer,
		log:      log.With(zap.String("section", id)),
	}
}

func (c *RevealController) ID() string { return c.id }

func (c *RevealController) State() RevealState { return c.state }

// Add registers a child to arm on reveal. A child added after the reveal is
// armed right away.
func (c *RevealController) Add(child Armer) {
	if c.closed {
		return
	}
	c.children = append(c.children, child)
	if c.state == Visible {
		child.Arm()
	}
}

// OnReveal registers fn to run once the section becomes visible.
func (c *RevealController) OnReveal(fn func()) {
	c.onReveal = append(c.onReveal, fn)
}

// Mount starts observing. If the section is already in view, or the
// observer is missing or fails, the reveal fires before Mount returns.
func (c *RevealController) Mount() {
	if c.mounted || c.closed {
		return
	}
	c.mounted = true

	if c.observer == nil {
		c.log.Warn("no visibility observer, revealing immediately")
		c.reveal()
		return
	}
	if m, ok := c.observer.(Measurer); ok {
		if e, ok := m.Measure(c.id); ok && c.meets(e) {
			c.reveal()
			return
		}
	}

	stop, err := c.observer.Observe(c.id, c.handle)
	if err != nil {
		c.log.Warn("visibility observation failed, revealing immediately", zap.Error(err))
		c.reveal()
		return
	}
	if c.state == Visible {
		// The observer delivered an entry synchronously.
		stop()
		return
	}
	c.stop = stop
}

func (c *RevealController) meets(e Entry) bool {
	f := VisibleFraction(e, c.cfg.Margin)
	return f > 0 && f >= c.cfg.Threshold
}

func (c *RevealController) handle(e Entry) {
	if c.state == Visible || c.closed {
		return
	}
	if c.meets(e) {
		c.reveal()
	}
}

func (c *RevealController) reveal() {
	if c.state == Visible {
		return
	}
	c.state = Visible
	c.release()
	c.log.Debug("section revealed")
	for _, fn := range c.onReveal {
		fn()
	}
	for _, child := range c.children {
		child.Arm()
	}
}

func (c *RevealController) release() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
}

// Closer is a child holding timers that must be released on unmount.
type Closer interface {
	Close()
}

// Close unmounts the section: releases the observer and closes children
// that hold pending work. The reveal state is kept for inspection.
func (c *RevealController) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.release()
	for _, child := range c.children {
		if cl, ok := child.(Closer); ok {
			cl.Close()
		}
	}
}

// ReportedObserver is an Observer fed by explicit Report calls, e.g. from
// a browser posting scroll measurements. It remembers the latest entry per
// target so it also works as a Measurer.
type ReportedObserver struct {
	mu     sync.Mutex
	last   map[string]Entry
	subs   map[string]map[int]func(Entry)
	nextID int
}

func NewReportedObserver() *ReportedObserver {
	return &ReportedObserver{
		last: make(map[string]Entry),
		subs: make(map[string]map[int]func(Entry)),
	}
}

func (o *ReportedObserver) Observe(target string, fn func(Entry)) (func(), error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := o.nextID
	o.nextID++
	if o.subs[target] == nil {
		o.subs[target] = make(map[int]func(Entry))
	}
	o.subs[target][id] = fn
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.subs[target], id)
	}, nil
}

func (o *ReportedObserver) Measure(target string) (Entry, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	e, ok := o.last[target]
	return e, ok
}

// Report records e and delivers it to the target's subscribers. Callbacks
// run on the caller's goroutine, so callers report from the scheduler.
func (o *ReportedObserver) Report(e Entry) {
	o.mu.Lock()
	o.last[e.Target] = e
	fns := make([]func(Entry), 0, len(o.subs[e.Target]))
	for _, fn := range o.subs[e.Target] {
		fns = append(fns, fn)
	}
	o.mu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

// Subscribers reports how many registrations target has.
func (o *ReportedObserver) Subscribers(target string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.subs[target])
}

// unsupportedObserver always fails, used when visibility cannot be observed.
type unsupportedObserver struct{}

func (unsupportedObserver) Observe(string, func(Entry)) (func(), error) {
	return nil, ErrObservationUnsupported
}

// Unsupported returns an observer that cannot observe anything.
func Unsupported() Observer { return unsupportedObserver{} }
