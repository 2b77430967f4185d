package gamekit

import "time"

// frameStats holds per-frame counts and timings. Timings are only measured
// when the Core is in debug mode.
type frameStats struct {
	tweens    int
	entities  int
	layers    int
	queueTime time.Duration
	drawTime  time.Duration
}

// FrameStats is a snapshot of the last frame's counters.
type FrameStats struct {
	// Tweens is the number of queue entries scanned.
	Tweens int
	// Entities is the number of entities updated and drawn.
	Entities int
	// Layers is the number of layers drawn.
	Layers    int
	QueueTime time.Duration
	DrawTime  time.Duration
}

// Stats returns the counters of the last frame.
func (c *Core) Stats() FrameStats {
	return FrameStats{
		Tweens:    c.stats.tweens,
		Entities:  c.stats.entities,
		Layers:    c.stats.layers,
		QueueTime: c.stats.queueTime,
		DrawTime:  c.stats.drawTime,
	}
}

// SetDebugMode toggles per-frame stats logging.
func (c *Core) SetDebugMode(on bool) { c.debug = on }

// DebugMode reports whether per-frame stats are logged.
func (c *Core) DebugMode() bool { return c.debug }

// debugLog writes the frame stats at Debug level.
func (c *Core) debugLog() {
	st := c.stats
	c.log.Debug("frame",
		"frame", c.frames,
		"tweens", st.tweens,
		"entities", st.entities,
		"layers", st.layers,
		"queue", st.queueTime,
		"draw", st.drawTime,
		"total", st.queueTime+st.drawTime,
	)
}

// debugMaxGroupDepth is the nesting depth past which Group.Attach warns in
// debug mode.
const debugMaxGroupDepth = 32

// debugCheckDepth warns when the container e is nested deeper than
// debugMaxGroupDepth.
func debugCheckDepth(c *Core, e *Entity) {
	if c == nil || !c.debug {
		return
	}
	depth := 0
	for p := e; p != nil; p = p.parentEntity() {
		depth++
	}
	if depth > debugMaxGroupDepth {
		c.log.Warn("group nesting exceeds threshold", "name", e.Name, "depth", depth, "threshold", debugMaxGroupDepth)
	}
}
