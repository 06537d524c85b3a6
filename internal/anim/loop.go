package anim

import (
	"sync"
	"time"

	"github.com/san-kum/pathsim/internal/walk"
	"github.com/sirupsen/logrus"
)

// Timer is a pending scheduled callback.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. The real clock is time.AfterFunc.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// FrameHook observes every drawn frame. It runs with the loop locked and must
// not call back into the Loop.
type FrameHook func(f Frame, state State)

// Loop drives an Animator on a Clock with at most one pending frame. Every
// Regenerate, SetSpeed and Stop cancels the pending frame before anything new
// is scheduled.
type Loop struct {
	mu      sync.Mutex
	anim    *Animator
	surface Surface
	source  func() walk.PathSet
	clock   Clock
	speed   float64
	pending Timer
	stopped bool
	onFrame FrameHook
	log     logrus.FieldLogger
}

type LoopOption func(*Loop)

func WithClock(c Clock) LoopOption {
	return func(l *Loop) {
		l.clock = c
	}
}

func WithSpeed(speed float64) LoopOption {
	return func(l *Loop) {
		l.speed = ClampSpeed(speed)
	}
}

func WithFrameHook(h FrameHook) LoopOption {
	return func(l *Loop) {
		l.onFrame = h
	}
}

func WithLogger(log logrus.FieldLogger) LoopOption {
	return func(l *Loop) {
		l.log = log
	}
}

// NewLoop plays PathSets produced by source onto surface.
func NewLoop(a *Animator, source func() walk.PathSet, surface Surface, opts ...LoopOption) *Loop {
	l := &Loop{
		anim:    a,
		surface: surface,
		source:  source,
		clock:   realClock{},
		speed:   DefaultSpeed,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start loads a fresh PathSet and draws its first frame immediately.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = false
	l.regenerateLocked()
}

// Regenerate replaces the PathSet and restarts playback at cursor 0.
func (l *Loop) Regenerate() {
	l.Start()
}

// SetSpeed changes the frame rate. Like any dependency change it restarts
// playback with a new PathSet.
func (l *Loop) SetSpeed(speed float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.speed = ClampSpeed(speed)
	if !l.stopped {
		l.regenerateLocked()
	}
}

// Stop cancels the pending frame. The surface keeps its last drawing.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = true
	l.cancelLocked()
}

func (l *Loop) Speed() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.speed
}

func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.anim.State()
}

// Pending reports whether a frame is scheduled.
func (l *Loop) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending != nil
}

func (l *Loop) regenerateLocked() {
	l.cancelLocked()
	paths := l.source()
	f := l.anim.Load(paths)
	l.log.WithFields(logrus.Fields{
		"generation": f.Generation,
		"paths":      len(paths),
		"max_len":    l.anim.MaxLen(),
		"speed":      l.speed,
	}).Debug("path set loaded")
	l.runLocked(f)
}

func (l *Loop) cancelLocked() {
	if l.pending != nil {
		l.pending.Stop()
		l.pending = nil
	}
}

func (l *Loop) runLocked(f Frame) {
	next, ok := l.anim.Step(f, l.surface)
	if l.onFrame != nil {
		l.onFrame(f, l.anim.State())
	}
	if !ok {
		l.pending = nil
		if l.anim.State() == Complete {
			l.log.WithField("generation", f.Generation).Debug("playback complete")
		}
		return
	}
	l.pending = l.clock.AfterFunc(Interval(l.speed), func() { l.fire(next) })
}

func (l *Loop) fire(f Frame) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped || f.Generation != l.anim.Generation() {
		return
	}
	l.runLocked(f)
}
