package gamekit

// FrameTrigger delivers one-shot per-frame callbacks with a monotonically
// increasing run time in milliseconds. A callback fires once; the scheduler
// requests a new one every frame.
type FrameTrigger interface {
	RequestFrame(fn func(runTime float64))
}

// ManualTrigger is a FrameTrigger stepped by hand. It drives the scheduler
// headless, for tests and tools that need deterministic frames.
type ManualTrigger struct {
	pending []func(float64)
	now     float64
}

// RequestFrame queues fn for the next Fire.
func (t *ManualTrigger) RequestFrame(fn func(runTime float64)) {
	t.pending = append(t.pending, fn)
}

// Fire runs every queued callback with runTime and reports whether any ran.
// Callbacks requested during Fire wait for the next call.
func (t *ManualTrigger) Fire(runTime float64) bool {
	if runTime > t.now {
		t.now = runTime
	}
	if len(t.pending) == 0 {
		return false
	}
	fns := t.pending
	t.pending = nil
	for _, fn := range fns {
		fn(t.now)
	}
	return true
}

// Advance fires a frame dt milliseconds after the previous one.
func (t *ManualTrigger) Advance(dt float64) bool {
	return t.Fire(t.now + dt)
}

// Pending returns the number of armed callbacks.
func (t *ManualTrigger) Pending() int {
	return len(t.pending)
}

// Now returns the run time of the most recent Fire.
func (t *ManualTrigger) Now() float64 {
	return t.now
}
