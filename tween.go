package gamekit

import (
	"regexp"
	"strconv"

	"github.com/tanema/gween/ease"
)

// Props maps animatable property names to targets. A numeric value is an
// absolute target; a string "+=N" or "-=N" is a delta from the current value.
// Anything else is ignored.
type Props map[string]any

var relativeTarget = regexp.MustCompile(`^([+-])=(\d+(?:\.\d+)?)$`)

type tweenProp struct {
	ptr  *float64
	from float64
	diff float64
}

// tween interpolates a set of entity properties between two run times.
type tween struct {
	target   *Entity
	props    []tweenProp
	duration float64
	start    float64
	bound    bool
	easing   ease.TweenFunc
	promise  *Promise
	finished bool
}

func (tw *tween) Finished() bool { return tw.finished }

func (tw *tween) Update(now float64) {
	if tw.target.destroyed {
		tw.finished = true
		tw.promise.Reject(ErrDestroyed)
		return
	}
	if !tw.bound {
		tw.start = now
		tw.bound = true
	}
	t := 1.0
	if tw.duration > 0 {
		t = clamp01((now - tw.start) / tw.duration)
	}
	k := t
	if tw.easing != nil && t < 1 {
		k = float64(tw.easing(float32(t), 0, 1, 1))
	}
	for _, p := range tw.props {
		*p.ptr = p.from + p.diff*k
	}
	tw.promise.Progress(t)
	if t >= 1 {
		tw.finished = true
		tw.promise.Resolve()
	}
}

// resolveProps reads the current values of the usable keys in props.
func resolveProps(e *Entity, props Props) []tweenProp {
	var out []tweenProp
	for key, v := range props {
		ptr, ok := e.Prop(key)
		if !ok {
			continue
		}
		switch val := v.(type) {
		case string:
			m := relativeTarget.FindStringSubmatch(val)
			if m == nil {
				continue
			}
			d, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			if m[1] == "-" {
				d = -d
			}
			out = append(out, tweenProp{ptr: ptr, from: *ptr, diff: d})
		default:
			target, ok := toFloat(v)
			if !ok {
				continue
			}
			out = append(out, tweenProp{ptr: ptr, from: *ptr, diff: target - *ptr})
		}
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// --- Core tweening ---

// Tween animates target's properties toward props over ms milliseconds,
// linearly. The promise reports progress in [0, 1] each frame and resolves
// once the final values are applied. It rejects immediately with
// ErrNoAnimatableProperty when props names nothing animatable.
func (c *Core) Tween(target *Entity, props Props, ms float64) *Promise {
	return c.TweenEase(target, props, ms, nil)
}

// TweenEase is Tween with an easing curve from the gween ease package. A nil
// easing is linear.
func (c *Core) TweenEase(target *Entity, props Props, ms float64, easing ease.TweenFunc) *Promise {
	p := c.NewPromise()
	used := resolveProps(target, props)
	if len(used) == 0 {
		p.Reject(ErrNoAnimatableProperty)
		return p
	}
	tw := &tween{
		target:   target,
		props:    used,
		duration: ms,
		easing:   easing,
		promise:  p,
	}
	if c.hasRun {
		tw.start = c.lastRunTime
		tw.bound = true
	}
	c.queue.Add(tw)
	return p
}

// Wait returns a step whose promise resolves ms milliseconds after it runs.
func (c *Core) Wait(ms float64) Step {
	return func() *Promise {
		p := c.NewPromise()
		w := &wait{duration: ms, promise: p}
		if c.hasRun {
			w.start = c.lastRunTime
			w.bound = true
		}
		c.queue.Add(w)
		return p
	}
}

type wait struct {
	duration float64
	start    float64
	bound    bool
	promise  *Promise
	finished bool
}

func (w *wait) Finished() bool { return w.finished }

func (w *wait) Update(now float64) {
	if !w.bound {
		w.start = now
		w.bound = true
	}
	if now >= w.start+w.duration {
		w.finished = true
		w.promise.Resolve()
	}
}

// --- Entity tweening ---

// Tween animates the entity through its Core. An entity that was never
// attached to a layer gets a promise rejected with ErrDetached.
func (e *Entity) Tween(props Props, ms float64) *Promise {
	return e.TweenEase(props, ms, nil)
}

// TweenEase is Tween with an easing curve.
func (e *Entity) TweenEase(props Props, ms float64, easing ease.TweenFunc) *Promise {
	if e.core == nil {
		return Rejected(ErrDetached)
	}
	return e.core.TweenEase(e, props, ms, easing)
}

// PrepareTween returns a step that starts the tween when run, for use with
// Chain and Parallel.
func (e *Entity) PrepareTween(props Props, ms float64) Step {
	return func() *Promise {
		return e.Tween(props, ms)
	}
}

// PrepareTweenEase is PrepareTween with an easing curve.
func (e *Entity) PrepareTweenEase(props Props, ms float64, easing ease.TweenFunc) Step {
	return func() *Promise {
		return e.TweenEase(props, ms, easing)
	}
}
