// Package page composes the engine into page views: one reveal controller
// per section, the about and gallery stagger groups, the project tab filter
// and the stat counters.
package page

import (
	"time"

	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/motion"
)

// View is one open page. All methods must run on the view's scheduler.
type View struct {
	id       string
	sched    motion.Scheduler
	observer motion.Observer
	log      *zap.Logger

	sections map[string]*motion.RevealController
	services *motion.StaggerGroup
	gallery  *motion.StaggerGroup
	filter   *motion.FilterStore[content.Project]
	counters []*motion.Counter

	site   *content.Site
	frame  time.Duration
	closed bool
}

// Option tunes a View.
type Option func(*View)

// WithFrameInterval sets how often counters sample their tween.
func WithFrameInterval(d time.Duration) Option {
	return func(v *View) { v.frame = d }
}

// NewView builds the sections of site without mounting them. observer may
// be nil when the client cannot observe visibility.
func NewView(id string, site *content.Site, sched motion.Scheduler, observer motion.Observer, log *zap.Logger, opts ...Option) *View {
	if log == nil {
		log = zap.NewNop()
	}
	v := &View{
		id:       id,
		sched:    sched,
		observer: observer,
		log:      log.With(zap.String("view", id)),
		sections: make(map[string]*motion.RevealController, len(content.SectionOrder)),
		site:     site,
		frame:    motion.DefaultFrameInterval,
	}
	for _, opt := range opts {
		opt(v)
	}
	for _, sid := range content.SectionOrder {
		cfg := site.Section(sid)
		v.sections[sid] = motion.NewRevealController(sid, motion.RevealConfig{
			Threshold: cfg.Threshold,
			Margin:    cfg.Margin,
		}, observer, v.log)
	}

	v.services = motion.NewStaggerGroup(sched, site.Section(content.SectionAbout).Stagger, nil)
	ids := make([]string, len(site.Services))
	for i, s := range site.Services {
		ids[i] = s.Title
	}
	v.services.Play(ids)
	v.sections[content.SectionAbout].Add(v.services)

	v.filter = motion.NewFilterStore(site.Projects, site.Tabs)
	v.gallery = motion.NewStaggerGroup(sched, site.Section(content.SectionProjects).Stagger, nil)
	v.gallery.Play(v.filter.VisibleIDs())
	v.filter.OnChange(func(visible []content.Project) {
		ids := make([]string, len(visible))
		for i, p := range visible {
			ids[i] = p.ID
		}
		v.gallery.Play(ids)
	})
	v.sections[content.SectionProjects].Add(v.gallery)

	contactCfg := site.Section(content.SectionContact)
	ease := motion.EasingByName(site.Easing)
	for _, st := range site.Stats {
		c := motion.NewCounter(sched, motion.CounterConfig{
			Target:   st.Value,
			Suffix:   st.Suffix,
			Duration: contactCfg.Tween,
			Frame:    v.frame,
			Ease:     ease,
		})
		v.counters = append(v.counters, c)
		v.sections[content.SectionContact].Add(c)
	}
	return v
}

func (v *View) ID() string { return v.id }

// Mount starts every section top to bottom.
func (v *View) Mount() {
	for _, sid := range content.SectionOrder {
		v.sections[sid].Mount()
	}
}

// Report feeds a visibility measurement to the view's observer. It reports
// false when the observer does not take reports.
func (v *View) Report(e motion.Entry) bool {
	ro, ok := v.observer.(*motion.ReportedObserver)
	if !ok || v.closed {
		return false
	}
	ro.Report(e)
	return true
}

// SelectTab switches the gallery filter.
func (v *View) SelectTab(key string) (bool, error) {
	changed, err := v.filter.Select(key)
	if err != nil {
		return false, err
	}
	if changed {
		v.log.Debug("tab selected", zap.String("key", key))
	}
	return changed, nil
}

// State returns the reveal state of section sid.
func (v *View) State(sid string) (motion.RevealState, bool) {
	c, ok := v.sections[sid]
	if !ok {
		return motion.Hidden, false
	}
	return c.State(), true
}

// Close unmounts every section and cancels all pending timers.
func (v *View) Close() {
	if v.closed {
		return
	}
	v.closed = true
	for _, sid := range content.SectionOrder {
		v.sections[sid].Close()
	}
}

func (v *View) Closed() bool { return v.closed }

// SectionSnapshot is the polled state of one section.
type SectionSnapshot struct {
	ID    string             `json:"id"`
	State motion.RevealState `json:"state"`
}

// StaggerItem is one child of a stagger group as polled by the page.
type StaggerItem struct {
	ID      string `json:"id"`
	DelayMS int64  `json:"delay_ms"`
	Entered bool   `json:"entered"`
}

type StaggerSnapshot struct {
	Generation int           `json:"generation"`
	Items      []StaggerItem `json:"items"`
}

type CounterSnapshot struct {
	Label   string `json:"label"`
	Value   int    `json:"value"`
	Target  int    `json:"target"`
	Display string `json:"display"`
	Done    bool   `json:"done"`
}

// Snapshot is everything the rendering layer polls.
type Snapshot struct {
	ID        string            `json:"id"`
	Sections  []SectionSnapshot `json:"sections"`
	Tabs      []motion.Tab      `json:"tabs"`
	ActiveTab string            `json:"active_tab"`
	Projects  []content.Project `json:"projects"`
	Gallery   StaggerSnapshot   `json:"gallery"`
	Services  StaggerSnapshot   `json:"services"`
	Counters  []CounterSnapshot `json:"counters"`
	TakenAt   time.Time         `json:"taken_at"`
}

func staggerSnapshot(g *motion.StaggerGroup) StaggerSnapshot {
	rows := g.Schedule()
	items := make([]StaggerItem, len(rows))
	for i, r := range rows {
		items[i] = StaggerItem{ID: r.ID, DelayMS: r.Delay.Milliseconds(), Entered: r.Entered}
	}
	return StaggerSnapshot{Generation: g.Generation(), Items: items}
}

func (v *View) Snapshot() Snapshot {
	s := Snapshot{
		ID:        v.id,
		Tabs:      v.filter.Tabs(),
		ActiveTab: v.filter.Active(),
		Projects:  v.filter.Visible(),
		Gallery:   staggerSnapshot(v.gallery),
		Services:  staggerSnapshot(v.services),
		TakenAt:   v.sched.Now(),
	}
	for _, sid := range content.SectionOrder {
		s.Sections = append(s.Sections, SectionSnapshot{ID: sid, State: v.sections[sid].State()})
	}
	for i, c := range v.counters {
		s.Counters = append(s.Counters, CounterSnapshot{
			Label:   v.site.Stats[i].Label,
			Value:   c.Current(),
			Target:  c.Target(),
			Display: c.Display(),
			Done:    c.Done(),
		})
	}
	return s
}
