package gamekit

import "time"

// LimitCalls wraps fn so that calls made within spacing of the last accepted
// call are dropped.
func LimitCalls[T any](fn func(T), spacing time.Duration) func(T) {
	return limitCalls(fn, spacing, time.Now)
}

func limitCalls[T any](fn func(T), spacing time.Duration, now func() time.Time) func(T) {
	var last time.Time
	called := false
	return func(v T) {
		t := now()
		if called && t.Sub(last) < spacing {
			return
		}
		called = true
		last = t
		fn(v)
	}
}

// LimitFrames wraps fn so that it runs at most once per interval of frame
// time, measured with the Core's run time in milliseconds.
func (c *Core) LimitFrames(fn func(), intervalMs float64) func() {
	var last float64
	called := false
	return func() {
		now := c.lastRunTime
		if called && now-last < intervalMs {
			return
		}
		called = true
		last = now
		fn()
	}
}
