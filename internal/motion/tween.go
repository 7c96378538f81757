package motion

import (
	"math"
	"strconv"
	"time"
)

// Easing maps linear progress in [0,1] to eased progress in [0,1]. Easings
// used here must be non-decreasing.
type Easing func(p float64) float64

// Linear is the identity easing.
func Linear(p float64) float64 { return p }

// EaseOut is a cubic ease-out.
func EaseOut(p float64) float64 {
	q := 1 - p
	return 1 - q*q*q
}

// EasingByName resolves "linear" or "ease-out"; anything else is EaseOut.
func EasingByName(name string) Easing {
	if name == "linear" {
		return Linear
	}
	return EaseOut
}

// TweenValue is the displayed value of a counter tweening from 0 to target
// over duration, elapsed after it started. It is exactly target once elapsed
// reaches duration and never leaves [0, target] before.
func TweenValue(target int, duration, elapsed time.Duration, ease Easing) int {
	if target <= 0 {
		return 0
	}
	if duration <= 0 || elapsed >= duration {
		return target
	}
	if elapsed <= 0 {
		return 0
	}
	if ease == nil {
		ease = Linear
	}
	p := clamp01(ease(float64(elapsed) / float64(duration)))
	v := int(math.Round(float64(target) * p))
	if v > target {
		return target
	}
	if v < 0 {
		return 0
	}
	return v
}

// CounterConfig configures a Counter.
type CounterConfig struct {
	Target   int
	Suffix   string
	Duration time.Duration
	Frame    time.Duration
	Ease     Easing
}

// Counter animates a displayed number from 0 to its target, one sample per
// frame, once armed.
type Counter struct {
	sched Scheduler
	cfg   CounterConfig

	current   int
	startedAt time.Time
	running   bool
	armed     bool
	frame     Timer
	run       int
	onFrame   func(int)
}

// NewCounter creates a counter. A negative target is treated as 0.
func NewCounter(sched Scheduler, cfg CounterConfig) *Counter {
	if cfg.Target < 0 {
		cfg.Target = 0
	}
	if cfg.Frame <= 0 {
		cfg.Frame = DefaultFrameInterval
	}
	if cfg.Ease == nil {
		cfg.Ease = EaseOut
	}
	return &Counter{sched: sched, cfg: cfg}
}

// OnFrame registers fn to receive every sampled value.
func (c *Counter) OnFrame(fn func(int)) { c.onFrame = fn }

// Arm starts the animation from 0. Arming again restarts from 0 and drops
// the frames of the previous run.
func (c *Counter) Arm() {
	c.stopFrame()
	c.run++
	c.armed = true
	c.current = 0
	c.startedAt = c.sched.Now()
	c.running = true
	c.step(c.run)
}

func (c *Counter) step(run int) {
	if run != c.run || !c.running {
		return
	}
	elapsed := c.sched.Now().Sub(c.startedAt)
	v := TweenValue(c.cfg.Target, c.cfg.Duration, elapsed, c.cfg.Ease)
	if v > c.current {
		c.current = v
	}
	if c.onFrame != nil {
		c.onFrame(c.current)
	}
	if elapsed >= c.cfg.Duration {
		c.current = c.cfg.Target
		c.running = false
		c.frame = nil
		return
	}
	c.frame = c.sched.After(c.cfg.Frame, func() { c.step(run) })
}

func (c *Counter) stopFrame() {
	if c.frame != nil {
		c.frame.Stop()
		c.frame = nil
	}
}

// Close cancels any pending frame.
func (c *Counter) Close() {
	c.stopFrame()
	c.running = false
}

func (c *Counter) Current() int { return c.current }

func (c *Counter) Target() int { return c.cfg.Target }

func (c *Counter) Running() bool { return c.running }

func (c *Counter) Armed() bool { return c.armed }

func (c *Counter) StartedAt() time.Time { return c.startedAt }

// Done reports whether the counter has reached its target.
func (c *Counter) Done() bool { return c.armed && !c.running && c.current == c.cfg.Target }

// Display formats the current value with the suffix, e.g. "53+".
func (c *Counter) Display() string { return strconv.Itoa(c.current) + c.cfg.Suffix }
