package gamekit

import (
	"errors"
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// --- Tween ---

func TestTweenLinear(t *testing.T) {
	c, trig, _ := newTestCore(t)
	p := newProbe()
	c.Attach(p)
	trig.Advance(16)

	prom := p.Tween(Props{"x": 100, "alpha": 0.5}, 100)
	trig.Advance(50)
	if !approx(p.X, 50) || !approx(p.Alpha, 0.75) {
		t.Errorf("halfway x=%v alpha=%v, want 50 0.75", p.X, p.Alpha)
	}
	if !prom.IsPending() {
		t.Fatal("tween should still be running")
	}
	trig.Advance(50)
	if p.X != 100 || p.Alpha != 0.5 {
		t.Errorf("final x=%v alpha=%v, want 100 0.5", p.X, p.Alpha)
	}
	if !prom.IsResolved() {
		t.Error("tween promise should resolve")
	}
}

func TestTweenBeforeFirstFrame(t *testing.T) {
	c, trig, _ := newTestCore(t)
	p := newProbe()
	c.Attach(p)
	prom := p.Tween(Props{"y": 10}, 100)
	// The first frame only binds the start time.
	trig.Advance(500)
	if p.Y != 0 || !prom.IsPending() {
		t.Fatalf("y=%v pending=%v after binding frame, want 0 true", p.Y, prom.IsPending())
	}
	trig.Advance(100)
	if p.Y != 10 || !prom.IsResolved() {
		t.Errorf("y=%v resolved=%v, want 10 true", p.Y, prom.IsResolved())
	}
}

func TestTweenRelativeTargets(t *testing.T) {
	c, trig, _ := newTestCore(t)
	p := newProbe()
	p.X, p.Y = 10, 10
	c.Attach(p)
	trig.Advance(16)
	p.Tween(Props{"x": "+=5", "y": "-=2.5", "rotation": "*=3"}, 10)
	trig.Advance(10)
	if p.X != 15 || p.Y != 7.5 {
		t.Errorf("x=%v y=%v, want 15 7.5", p.X, p.Y)
	}
	if p.Rotation != 0 {
		t.Errorf("rotation = %v, malformed target should be ignored", p.Rotation)
	}
}

func TestTweenEasing(t *testing.T) {
	c, trig, _ := newTestCore(t)
	p := newProbe()
	c.Attach(p)
	trig.Advance(16)
	p.TweenEase(Props{"x": 100}, 100, ease.InQuad)
	trig.Advance(50)
	if !approx(p.X, 25) {
		t.Errorf("x = %v, want 25", p.X)
	}
}

func TestTweenProgress(t *testing.T) {
	c, trig, _ := newTestCore(t)
	p := newProbe()
	c.Attach(p)
	trig.Advance(16)
	var progress []float64
	p.Tween(Props{"x": 1}, 40).ThenProgress(nil, nil, func(values ...any) {
		progress = append(progress, values[0].(float64))
	})
	trig.Advance(20)
	trig.Advance(20)
	if len(progress) != 2 || !approx(progress[0], 0.5) || progress[1] != 1 {
		t.Errorf("progress = %v, want [0.5 1]", progress)
	}
}

func TestTweenErrors(t *testing.T) {
	c, trig, _ := newTestCore(t)
	p := newProbe()
	c.Attach(p)

	if err := p.Tween(Props{"bogus": 1, "x": true}, 10).Err(); !errors.Is(err, ErrNoAnimatableProperty) {
		t.Errorf("unknown props: err = %v, want ErrNoAnimatableProperty", err)
	}

	loose := NewEntity()
	if err := loose.Tween(Props{"x": 1}, 10).Err(); !errors.Is(err, ErrDetached) {
		t.Errorf("detached: err = %v, want ErrDetached", err)
	}

	trig.Advance(16)
	prom := p.Tween(Props{"x": 100}, 100)
	p.Destroy()
	trig.Advance(16)
	if err := prom.Err(); !errors.Is(err, ErrDestroyed) {
		t.Errorf("destroyed: err = %v, want ErrDestroyed", err)
	}
}

func TestTweenCustomProp(t *testing.T) {
	c, trig, _ := newTestCore(t)
	l := NewLabel("hi")
	c.Attach(l)
	trig.Advance(16)
	l.Tween(Props{"size": 24}, 10)
	trig.Advance(10)
	if l.Style.Size != 24 {
		t.Errorf("size = %v, want 24", l.Style.Size)
	}
}

// --- Wait and steps ---

func TestWaitStep(t *testing.T) {
	c, trig, _ := newTestCore(t)
	trig.Advance(16)
	p := c.Wait(100)()
	trig.Advance(99)
	if !p.IsPending() {
		t.Fatal("wait resolved early")
	}
	trig.Advance(1)
	if !p.IsResolved() {
		t.Error("wait should resolve after its duration")
	}
}

func TestChainedTweens(t *testing.T) {
	c, trig, _ := newTestCore(t)
	p := newProbe()
	c.Attach(p)
	trig.Advance(16)
	done := Chain(
		p.PrepareTween(Props{"x": 10}, 10),
		c.Wait(10),
		p.PrepareTween(Props{"y": 10}, 10),
	)()
	for range 10 {
		trig.Advance(10)
	}
	if p.X != 10 || p.Y != 10 {
		t.Errorf("x=%v y=%v, want 10 10", p.X, p.Y)
	}
	if !done.IsResolved() {
		t.Error("chain should resolve")
	}
}

// --- Timer ---

func TestTimerFires(t *testing.T) {
	c, trig, _ := newTestCore(t)
	tm := c.Timer(100)
	var ticks []int
	tm.OnTick(func(n int) { ticks = append(ticks, n) })
	next := tm.Next()
	if tm.Next() != next {
		t.Error("Next before a fire should return the same promise")
	}

	trig.Advance(16) // baseline
	trig.Advance(50)
	if tm.Fired() != 0 {
		t.Fatalf("fired early: %d", tm.Fired())
	}
	trig.Advance(50)
	if tm.Fired() != 1 || len(ticks) != 1 {
		t.Fatalf("fired = %d ticks = %v, want 1", tm.Fired(), ticks)
	}
	if !next.IsResolved() || next.Values()[0] != 1 {
		t.Errorf("Next = %v, want resolved with 1", next.Values())
	}
	if tm.Next() == next {
		t.Error("Next after a fire should be a fresh promise")
	}
}

func TestTimerDisableEnable(t *testing.T) {
	c, trig, _ := newTestCore(t)
	tm := c.Timer(10)
	trig.Advance(16)
	tm.Disable()
	trig.Advance(16)
	if c.Queue().Contains(tm) {
		t.Fatal("disabled timer should leave the queue")
	}
	trig.Advance(16)
	if tm.Fired() != 0 {
		t.Errorf("disabled timer fired %d times", tm.Fired())
	}
	tm.Enable()
	if !tm.Enabled() || !c.Queue().Contains(tm) {
		t.Fatal("enabled timer should be queued")
	}
	trig.Advance(16) // fresh baseline
	trig.Advance(16)
	if tm.Fired() != 1 {
		t.Errorf("fired = %d, want 1", tm.Fired())
	}
}

func BenchmarkTween(b *testing.B) {
	trig := &ManualTrigger{}
	c := New(trig, newRecSurface(), Config{Logger: quietLogger()})
	c.Start()
	c.OnAfterFrame(func(s Surface) { s.(*recSurface).reset() })
	e := newProbe()
	c.Attach(e)
	trig.Advance(16)
	for b.Loop() {
		e.Tween(Props{"x": 10}, 1)
		trig.Advance(1)
	}
}
