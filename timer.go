package gamekit

// Timer is a recurring queue entry that fires at most once per interval. The
// first frame it sees only records a baseline; each later frame fires when at
// least Interval milliseconds passed since the previous fire (or baseline).
//
// Timers stay queued until disabled. Disabling and re-enabling keeps the same
// Timer, its tick subscriptions and any promise handed out by Next.
type Timer struct {
	// Interval in milliseconds. Changes apply from the next frame.
	Interval float64

	core     *Core
	last     float64
	bound    bool
	disabled bool
	fired    int
	next     *Promise
	ticks    []func(fired int)
}

// Timer creates an enabled timer and queues it.
func (c *Core) Timer(intervalMs float64) *Timer {
	t := &Timer{Interval: intervalMs, core: c}
	c.queue.Add(t)
	return t
}

// Finished reports whether the timer is disabled.
func (t *Timer) Finished() bool { return t.disabled }

// Update fires the timer when its interval has elapsed.
func (t *Timer) Update(now float64) {
	if !t.bound {
		t.last = now
		t.bound = true
		return
	}
	if now-t.last < t.Interval {
		return
	}
	t.last = now
	t.fired++
	for _, fn := range t.ticks {
		fn(t.fired)
	}
	if p := t.next; p != nil {
		t.next = nil
		p.Resolve(t.fired)
	}
}

// Next returns a promise resolved with the fire count on the timer's next
// fire. Calls before that fire share one promise.
func (t *Timer) Next() *Promise {
	if t.next == nil {
		t.next = t.core.NewPromise()
	}
	return t.next
}

// OnTick subscribes fn to every fire. It receives the total fire count.
func (t *Timer) OnTick(fn func(fired int)) {
	t.ticks = append(t.ticks, fn)
}

// Fired returns how many times the timer has fired.
func (t *Timer) Fired() int { return t.fired }

// Enabled reports whether the timer is active.
func (t *Timer) Enabled() bool { return !t.disabled }

// Disable stops the timer. The queue drops it on its next scan.
func (t *Timer) Disable() {
	t.disabled = true
}

// Enable resumes a disabled timer. The next frame records a fresh baseline.
func (t *Timer) Enable() {
	if !t.disabled {
		return
	}
	t.disabled = false
	t.bound = false
	if !t.core.queue.Contains(t) {
		t.core.queue.Add(t)
	}
}
