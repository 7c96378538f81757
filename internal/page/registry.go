package page

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/motion"
)

// ErrViewNotFound is returned for unknown or expired view ids.
var ErrViewNotFound = errors.New("page: view not found")

// RegistryConfig bounds the live views.
type RegistryConfig struct {
	// TTL closes views idle for longer than this.
	TTL time.Duration
	// MaxViews evicts the least recently used view beyond this many.
	MaxViews int
	// Frame is the counter sampling interval.
	Frame time.Duration
}

// MountOptions describe the client opening a view.
type MountOptions struct {
	// Observe is false when the client cannot report visibility; the view
	// then reveals every section at mount.
	Observe bool
}

type liveView struct {
	view     *View
	lastSeen time.Time
}

// Registry owns the live page views. View operations run on the shared
// scheduler; the registry itself is safe for concurrent use.
type Registry struct {
	site  *content.Site
	sched motion.Scheduler
	cfg   RegistryConfig
	log   *zap.Logger

	mu    sync.Mutex
	views map[string]*liveView
}

func NewRegistry(site *content.Site, sched motion.Scheduler, cfg RegistryConfig, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.MaxViews <= 0 {
		cfg.MaxViews = 1000
	}
	if cfg.Frame <= 0 {
		cfg.Frame = motion.DefaultFrameInterval
	}
	return &Registry{
		site:  site,
		sched: sched,
		cfg:   cfg,
		log:   log,
		views: make(map[string]*liveView),
	}
}

// Mount opens a new view and returns its first snapshot.
func (r *Registry) Mount(ctx context.Context, opts MountOptions) (Snapshot, error) {
	id := uuid.NewString()
	var observer motion.Observer = motion.Unsupported()
	if opts.Observe {
		observer = motion.NewReportedObserver()
	}

	var snap Snapshot
	var v *View
	err := r.sched.Do(ctx, func() {
		v = NewView(id, r.site, r.sched, observer, r.log, WithFrameInterval(r.cfg.Frame))
		v.Mount()
		snap = v.Snapshot()
	})
	if err != nil {
		return Snapshot{}, err
	}

	r.mu.Lock()
	r.views[id] = &liveView{view: v, lastSeen: r.sched.Now()}
	evicted := r.evictLocked()
	r.mu.Unlock()

	r.closeViews(ctx, evicted, "evicted")
	return snap, nil
}

func (r *Registry) evictLocked() []*View {
	if len(r.views) <= r.cfg.MaxViews {
		return nil
	}
	all := make([]*liveView, 0, len(r.views))
	for _, lv := range r.views {
		all = append(all, lv)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].lastSeen.Before(all[j].lastSeen) })

	var out []*View
	for _, lv := range all[:len(all)-r.cfg.MaxViews] {
		delete(r.views, lv.view.ID())
		out = append(out, lv.view)
	}
	return out
}

func (r *Registry) closeViews(ctx context.Context, views []*View, reason string) {
	if len(views) == 0 {
		return
	}
	// The views are already out of the map; a cancelled caller must not
	// leave their timers running.
	err := r.sched.Do(context.WithoutCancel(ctx), func() {
		for _, v := range views {
			v.Close()
		}
	})
	if err != nil {
		r.log.Warn("closing views", zap.String("reason", reason), zap.Error(err))
		return
	}
	r.log.Debug("views closed", zap.String("reason", reason), zap.Int("count", len(views)))
}

// With runs fn against the view id on the scheduler and marks it as used.
func (r *Registry) With(ctx context.Context, id string, fn func(v *View)) error {
	r.mu.Lock()
	lv, ok := r.views[id]
	if ok {
		lv.lastSeen = r.sched.Now()
	}
	r.mu.Unlock()
	if !ok {
		return ErrViewNotFound
	}
	return r.sched.Do(ctx, func() { fn(lv.view) })
}

// Release closes and forgets the view id.
func (r *Registry) Release(ctx context.Context, id string) error {
	r.mu.Lock()
	lv, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()
	if !ok {
		return ErrViewNotFound
	}
	r.closeViews(ctx, []*View{lv.view}, "released")
	return nil
}

// Sweep closes views idle since before now-TTL and returns how many.
func (r *Registry) Sweep(ctx context.Context, now time.Time) int {
	cutoff := now.Add(-r.cfg.TTL)
	var idle []*View
	r.mu.Lock()
	for id, lv := range r.views {
		if lv.lastSeen.Before(cutoff) {
			delete(r.views, id)
			idle = append(idle, lv.view)
		}
	}
	r.mu.Unlock()
	r.closeViews(ctx, idle, "expired")
	return len(idle)
}

// Len is the number of live views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Run sweeps idle views until ctx is done, then closes everything left.
func (r *Registry) Run(ctx context.Context) error {
	interval := r.cfg.TTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			r.CloseAll(context.Background())
			return nil
		case <-t.C:
			if n := r.Sweep(ctx, r.sched.Now()); n > 0 {
				r.log.Info("expired idle views", zap.Int("count", n))
			}
		}
	}
}

// CloseAll closes every live view.
func (r *Registry) CloseAll(ctx context.Context) {
	r.mu.Lock()
	all := make([]*View, 0, len(r.views))
	for id, lv := range r.views {
		all = append(all, lv.view)
		delete(r.views, id)
	}
	r.mu.Unlock()
	r.closeViews(ctx, all, "shutdown")
}
