package anim

import (
	"io"
	"testing"
	"time"

	"github.com/san-kum/pathsim/internal/walk"
	"github.com/sirupsen/logrus"
)

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// fakeClock collects timers; fire runs them by hand.
type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// fire runs every queued timer once. Stopped timers run too when
// ignoreStop is set, simulating a callback that raced its cancellation.
func (c *fakeClock) fire(ignoreStop bool) int {
	queued := c.timers
	c.timers = nil
	n := 0
	for _, t := range queued {
		if t.stopped && !ignoreStop {
			continue
		}
		t.f()
		n++
	}
	return n
}

func (c *fakeClock) live() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func fixedSource(lengths ...int) func() walk.PathSet {
	return func() walk.PathSet {
		set := make(walk.PathSet, len(lengths))
		for i, n := range lengths {
			set[i] = line(n)
		}
		return set
	}
}

func TestLoopPlaysToCompletion(t *testing.T) {
	clock := &fakeClock{}
	rec := NewRecorder(500, 750)
	var seen []Frame

	l := NewLoop(New(floor), fixedSource(2, 4), rec,
		WithClock(clock),
		WithLogger(quietLogger()),
		WithFrameHook(func(f Frame, _ State) { seen = append(seen, f) }),
	)
	l.Start()

	if len(seen) != 1 || seen[0].Cursor != 0 {
		t.Fatalf("expected the first frame to draw immediately, got %v", seen)
	}
	for i := 0; i < 10 && clock.fire(false) > 0; i++ {
	}

	if l.State() != Complete {
		t.Fatalf("expected complete, got %s", l.State())
	}
	if l.Pending() {
		t.Error("complete loop should not have a pending frame")
	}
	if len(seen) != 5 {
		t.Errorf("expected frames for cursors 0..4, got %d", len(seen))
	}
	for i, f := range seen {
		if f.Cursor != i {
			t.Errorf("frame %d drew cursor %d", i, f.Cursor)
		}
	}
}

func TestLoopSchedulesAtSpeed(t *testing.T) {
	clock := &fakeClock{}
	l := NewLoop(New(floor), fixedSource(5), NewRecorder(10, 10),
		WithClock(clock), WithSpeed(100), WithLogger(quietLogger()))
	l.Start()

	if len(clock.timers) != 1 || clock.timers[0].d != 10*time.Millisecond {
		t.Fatalf("expected one 10ms timer, got %+v", clock.timers)
	}

	l.SetSpeed(50)
	if clock.live() != 1 {
		t.Fatalf("expected exactly one live timer after speed change, got %d", clock.live())
	}
	last := clock.timers[len(clock.timers)-1]
	if last.d != 20*time.Millisecond {
		t.Errorf("expected 20ms interval, got %v", last.d)
	}
}

func TestLoopRapidRegenerate(t *testing.T) {
	clock := &fakeClock{}
	rec := NewRecorder(500, 750)
	a := New(floor)
	var gens []uint64

	l := NewLoop(a, fixedSource(6, 6), rec,
		WithClock(clock),
		WithLogger(quietLogger()),
		WithFrameHook(func(f Frame, _ State) { gens = append(gens, f.Generation) }),
	)
	l.Start()
	l.Regenerate()
	l.Regenerate()
	l.Regenerate()

	if clock.live() != 1 {
		t.Fatalf("expected one live timer, got %d", clock.live())
	}

	// run cancelled callbacks as if they raced their Stop
	gens = gens[:0]
	clock.fire(true)

	current := a.Generation()
	if len(gens) != 1 || gens[0] != current {
		t.Errorf("expected a single frame for generation %d, got %v", current, gens)
	}
	if clock.live() != 1 {
		t.Errorf("expected one successor timer, got %d", clock.live())
	}
}

func TestLoopStop(t *testing.T) {
	clock := &fakeClock{}
	rec := NewRecorder(500, 750)
	l := NewLoop(New(floor), fixedSource(8), rec, WithClock(clock), WithLogger(quietLogger()))
	l.Start()
	l.Stop()

	drawn := rec.Clears()
	clock.fire(true)
	if rec.Clears() != drawn {
		t.Error("stopped loop should not draw")
	}
	if l.Pending() {
		t.Error("stopped loop should not have a pending frame")
	}

	l.SetSpeed(20)
	if clock.live() != 0 {
		t.Error("speed change on a stopped loop should not schedule frames")
	}
	if l.Speed() != 20 {
		t.Errorf("expected speed 20, got %v", l.Speed())
	}
}
