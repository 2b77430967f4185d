package gamekit

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Camera is the offset applied to every top-level entity when it is drawn.
// X and Y are the world position shown at the top-left of the screen.
type Camera struct {
	X, Y float64

	// BoundsEnabled clamps the camera so the visible area stays inside
	// Bounds.
	BoundsEnabled bool
	Bounds        Rect

	core          *Core
	followTarget  *Entity
	followOffsetX float64
	followOffsetY float64
	followLerp    float64
	scroll        *cameraScroll
}

func newCamera(c *Core) *Camera {
	return &Camera{core: c}
}

// Camera returns the Core's camera.
func (c *Core) Camera() *Camera { return c.camera }

// Offset returns the camera position.
func (c *Camera) Offset() Vec2 { return Vec2{X: c.X, Y: c.Y} }

// SetPosition moves the camera, cancelling any scroll in progress.
func (c *Camera) SetPosition(x, y float64) {
	c.cancelScroll()
	c.X = x
	c.Y = y
	c.ClampToBounds()
}

// ScreenToWorld converts a screen point to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	return sx + c.X, sy + c.Y
}

// WorldToScreen converts a world point to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return wx - c.X, wy - c.Y
}

// Follow keeps target centered on screen, shifted by the offset. A lerp of 1
// snaps each frame; lower values ease toward the target.
func (c *Camera) Follow(target *Entity, offsetX, offsetY, lerp float64) {
	c.followTarget = target
	c.followOffsetX = offsetX
	c.followOffsetY = offsetY
	if lerp <= 0 || lerp > 1 {
		lerp = 1
	}
	c.followLerp = lerp
}

// Unfollow stops tracking the follow target.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// SetBounds enables bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
	c.ClampToBounds()
}

// ClearBounds disables bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// ClampToBounds clamps the position to Bounds. No-op unless BoundsEnabled.
func (c *Camera) ClampToBounds() {
	if !c.BoundsEnabled {
		return
	}
	w, h := float64(c.core.width), float64(c.core.height)
	c.X = clampRange(c.X, c.Bounds.X, c.Bounds.X+c.Bounds.W-w)
	c.Y = clampRange(c.Y, c.Bounds.Y, c.Bounds.Y+c.Bounds.H-h)
}

func clampRange(v, lo, hi float64) float64 {
	if hi < lo {
		// Bounds smaller than the screen: pin to the low edge.
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// follow moves toward the follow target. Called by the Core after the tween
// queue is scanned.
func (c *Camera) follow() {
	t := c.followTarget
	if t == nil {
		return
	}
	if t.destroyed {
		c.followTarget = nil
		return
	}
	wx, wy := t.LocalToWorld(t.OriginX, t.OriginY)
	tx := wx - float64(c.core.width)/2 + c.followOffsetX
	ty := wy - float64(c.core.height)/2 + c.followOffsetY
	c.X += (tx - c.X) * c.followLerp
	c.Y += (ty - c.Y) * c.followLerp
	c.ClampToBounds()
}

// --- Scrolling ---

// cameraScroll animates the camera position as a queue entry.
type cameraScroll struct {
	cam      *Camera
	tweenX   *gween.Tween
	tweenY   *gween.Tween
	last     float64
	bound    bool
	promise  *Promise
	finished bool
}

func (s *cameraScroll) Finished() bool { return s.finished }

func (s *cameraScroll) Update(now float64) {
	if !s.bound {
		s.last = now
		s.bound = true
	}
	dt := float32(now - s.last)
	s.last = now
	x, doneX := s.tweenX.Update(dt)
	y, doneY := s.tweenY.Update(dt)
	s.cam.X = float64(x)
	s.cam.Y = float64(y)
	s.cam.ClampToBounds()
	if doneX && doneY {
		s.finished = true
		if s.cam.scroll == s {
			s.cam.scroll = nil
		}
		s.promise.Resolve()
	}
}

// ScrollTo animates the camera to (x, y) over ms milliseconds. A nil easing
// is linear. Starting a new scroll rejects the previous one's promise.
func (c *Camera) ScrollTo(x, y, ms float64, easing ease.TweenFunc) *Promise {
	c.cancelScroll()
	if easing == nil {
		easing = ease.Linear
	}
	if ms <= 0 {
		c.X = x
		c.Y = y
		c.ClampToBounds()
		return Resolved()
	}
	s := &cameraScroll{
		cam:     c,
		tweenX:  gween.New(float32(c.X), float32(x), float32(ms), easing),
		tweenY:  gween.New(float32(c.Y), float32(y), float32(ms), easing),
		promise: c.core.NewPromise(),
	}
	if c.core.hasRun {
		s.last = c.core.lastRunTime
		s.bound = true
	}
	c.scroll = s
	c.core.queue.Add(s)
	return s.promise
}

// ScrollToTile scrolls so the center of tile (tx, ty) sits at the screen
// center.
func (c *Camera) ScrollToTile(tx, ty int, tileW, tileH, ms float64, easing ease.TweenFunc) *Promise {
	wx := float64(tx)*tileW + tileW/2 - float64(c.core.width)/2
	wy := float64(ty)*tileH + tileH/2 - float64(c.core.height)/2
	return c.ScrollTo(wx, wy, ms, easing)
}

// IsScrolling reports whether a scroll is in progress.
func (c *Camera) IsScrolling() bool { return c.scroll != nil }

func (c *Camera) cancelScroll() {
	s := c.scroll
	if s == nil {
		return
	}
	c.scroll = nil
	s.finished = true
	s.promise.Reject(ErrScrollCancelled)
}
