package gamekit

import (
	"testing"
	"time"
)

func TestLimitCalls(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }
	var got []int
	fn := limitCalls(func(v int) { got = append(got, v) }, 100*time.Millisecond, clock)

	steps := []struct {
		advance time.Duration
		value   int
	}{
		{0, 1},
		{50 * time.Millisecond, 2},
		{50 * time.Millisecond, 3},
		{10 * time.Millisecond, 4},
		{100 * time.Millisecond, 5},
	}
	for _, s := range steps {
		now = now.Add(s.advance)
		fn(s.value)
	}
	want := []int{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

func TestLimitCallsRealClock(t *testing.T) {
	n := 0
	fn := LimitCalls(func(struct{}) { n++ }, time.Hour)
	fn(struct{}{})
	fn(struct{}{})
	if n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func TestLimitFrames(t *testing.T) {
	c, trig, _ := newTestCore(t)
	n := 0
	fn := c.LimitFrames(func() { n++ }, 100)
	timer := c.Timer(0)
	timer.OnTick(func(int) { fn() })
	for range 20 {
		trig.Advance(20)
	}
	// Ticks run at 40, 60, ... 400; accepted at 40, 140, 240, 340.
	if n != 4 {
		t.Errorf("calls = %d, want 4", n)
	}
}
