package motion

import "time"

// StaggerDelay is the start delay of the child at index.
func StaggerDelay(index int, interval time.Duration) time.Duration {
	if index <= 0 || interval <= 0 {
		return 0
	}
	return time.Duration(index) * interval
}

// StaggerEntry is one row of a group's current schedule.
type StaggerEntry struct {
	ID      string        `json:"id"`
	Delay   time.Duration `json:"delay"`
	Entered bool          `json:"entered"`
}

// StaggerGroup reveals an ordered list of children one after another once
// its parent section is visible.
type StaggerGroup struct {
	sched    Scheduler
	interval time.Duration
	onEnter  func(index int, id string)

	armed      bool
	closed     bool
	ids        []string
	entered    []bool
	timers     []Timer
	startedAt  time.Time
	generation int
}

// NewStaggerGroup creates a group whose children start interval apart.
// onEnter may be nil.
func NewStaggerGroup(sched Scheduler, interval time.Duration, onEnter func(index int, id string)) *StaggerGroup {
	return &StaggerGroup{sched: sched, interval: interval, onEnter: onEnter}
}

// Arm is called by the parent reveal. It starts the current list.
func (g *StaggerGroup) Arm() {
	if g.armed || g.closed {
		return
	}
	g.armed = true
	g.start()
}

// Play replaces the children and restarts the sequence from index 0. Any
// pending enters from the previous run are cancelled first. Before the
// parent is visible the list is only stored.
func (g *StaggerGroup) Play(ids []string) {
	if g.closed {
		return
	}
	g.cancel()
	g.ids = append([]string(nil), ids...)
	g.entered = make([]bool, len(ids))
	if g.armed {
		g.start()
	}
}

func (g *StaggerGroup) start() {
	g.cancel()
	g.generation++
	g.startedAt = g.sched.Now()
	g.entered = make([]bool, len(g.ids))
	g.timers = make([]Timer, len(g.ids))
	gen := g.generation
	for i := range g.ids {
		i := i
		g.timers[i] = g.sched.After(StaggerDelay(i, g.interval), func() { g.enter(gen, i) })
	}
}

func (g *StaggerGroup) enter(gen, i int) {
	if g.closed || gen != g.generation || i >= len(g.entered) {
		return
	}
	g.entered[i] = true
	g.timers[i] = nil
	if g.onEnter != nil {
		g.onEnter(i, g.ids[i])
	}
}

func (g *StaggerGroup) cancel() {
	for i, t := range g.timers {
		if t != nil {
			t.Stop()
			g.timers[i] = nil
		}
	}
	g.timers = nil
}

// Close cancels every pending enter.
func (g *StaggerGroup) Close() {
	g.cancel()
	g.closed = true
}

func (g *StaggerGroup) Armed() bool { return g.armed }

// Generation counts how many runs have started.
func (g *StaggerGroup) Generation() int { return g.generation }

// StartedAt is when the current run started. Zero until armed.
func (g *StaggerGroup) StartedAt() time.Time { return g.startedAt }

// Entered reports whether the child id has started its enter animation in
// the current run.
func (g *StaggerGroup) Entered(id string) bool {
	for i, v := range g.ids {
		if v == id {
			return g.entered[i]
		}
	}
	return false
}

// Schedule lists the current children with their delays.
func (g *StaggerGroup) Schedule() []StaggerEntry {
	out := make([]StaggerEntry, len(g.ids))
	for i, id := range g.ids {
		out[i] = StaggerEntry{ID: id, Delay: StaggerDelay(i, g.interval), Entered: g.entered[i]}
	}
	return out
}

// Pending reports how many children have not entered yet.
func (g *StaggerGroup) Pending() int {
	n := 0
	for _, t := range g.timers {
		if t != nil {
			n++
		}
	}
	return n
}
