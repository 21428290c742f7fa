package camera

import (
	"time"

	"github.com/matzehuels/genregraph/pkg/graph"
)

// DefaultDuration is the length of focus and overview transitions.
const DefaultDuration = 1500 * time.Millisecond

// Target is the camera an animation ends at. DPR is never animated.
type Target struct {
	Zoom float64 `json:"zoom"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// TargetOf returns the target matching s.
func TargetOf(s State) Target { return Target{Zoom: s.Zoom, X: s.X, Y: s.Y} }

// Phase is the animator state.
type Phase int

const (
	Idle Phase = iota
	Running
)

func (p Phase) String() string {
	if p == Running {
		return "running"
	}
	return "idle"
}

// run is one in-flight animation. Frames delivered for a run that is no
// longer current are ignored.
type run struct {
	from, to   Target
	start      time.Time
	duration   time.Duration
	handle     Handle
	onComplete func()
}

// Animator eases the camera held in a Store towards a Target, one
// scheduler frame at a time.
type Animator struct {
	store Store
	sched Scheduler
	now   func() time.Time
	ease  Easing
	cur   *run
}

// AnimatorOption configures an Animator.
type AnimatorOption func(*Animator)

// WithClock sets the clock used to timestamp the start of an animation.
func WithClock(now func() time.Time) AnimatorOption {
	return func(a *Animator) { a.now = now }
}

// WithEasing replaces EaseInOutCubic.
func WithEasing(e Easing) AnimatorOption {
	return func(a *Animator) { a.ease = e }
}

// NewAnimator returns an idle animator writing to store.
func NewAnimator(store Store, sched Scheduler, opts ...AnimatorOption) *Animator {
	a := &Animator{store: store, sched: sched, now: time.Now, ease: EaseInOutCubic}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Phase reports whether an animation is running.
func (a *Animator) Phase() Phase {
	if a.cur != nil {
		return Running
	}
	return Idle
}

// Animating is shorthand for Phase() == Running.
func (a *Animator) Animating() bool { return a.cur != nil }

// Current returns the camera held in the store.
func (a *Animator) Current() State { return a.store.Current() }

// AnimateTo starts a transition from the current camera to t, cancelling
// any running one. onComplete, if set, is called once after the final
// state is written. A non-positive duration jumps straight to t.
func (a *Animator) AnimateTo(t Target, duration time.Duration, onComplete func()) {
	a.Stop()

	start := a.store.Current()
	r := &run{
		from:       TargetOf(start),
		to:         t,
		start:      a.now(),
		duration:   duration,
		onComplete: onComplete,
	}
	a.cur = r
	a.store.SetCurrent(start, true)

	if duration <= 0 {
		a.finish(r)
		return
	}
	r.handle = a.sched.Request(a.frame(r))
}

// AnimateToCategory frames the category whose center is c.
func (a *Animator) AnimateToCategory(c graph.Position, duration time.Duration, onComplete func()) {
	a.AnimateTo(CategoryTarget(c), duration, onComplete)
}

// AnimateToOverview returns to zoom 1 at the origin.
func (a *Animator) AnimateToOverview(duration time.Duration, onComplete func()) {
	a.AnimateTo(Target{Zoom: 1}, duration, onComplete)
}

// Stop cancels the running animation, leaving the camera where it is.
// onComplete is not called.
func (a *Animator) Stop() {
	r := a.cur
	if r == nil {
		return
	}
	a.cur = nil
	if r.handle != 0 {
		a.sched.Cancel(r.handle)
	}
	a.store.SetCurrent(a.store.Current(), false)
}

// Reset stops any animation and jumps to the overview camera.
func (a *Animator) Reset() {
	a.Stop()
	s := a.store.Current()
	s.Zoom, s.X, s.Y = 1, 0, 0
	a.store.SetCurrent(s, false)
}

func (a *Animator) frame(r *run) func(now time.Time) {
	return func(now time.Time) {
		if a.cur != r {
			return
		}
		progress := float64(now.Sub(r.start)) / float64(r.duration)
		if progress >= 1 {
			a.finish(r)
			return
		}
		progress = max(progress, 0)
		e := a.ease(progress)

		s := a.store.Current()
		s.Zoom = lerp(r.from.Zoom, r.to.Zoom, e)
		s.X = lerp(r.from.X, r.to.X, e)
		s.Y = lerp(r.from.Y, r.to.Y, e)
		a.store.SetCurrent(s, true)
		r.handle = a.sched.Request(a.frame(r))
	}
}

// finish writes the exact target, returns to Idle, then fires onComplete.
func (a *Animator) finish(r *run) {
	s := a.store.Current()
	s.Zoom, s.X, s.Y = r.to.Zoom, r.to.X, r.to.Y
	a.store.SetCurrent(s, false)
	a.cur = nil
	if r.onComplete != nil {
		r.onComplete()
	}
}
