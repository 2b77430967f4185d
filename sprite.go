package gamekit

import (
	"fmt"
	"math"
)

// Sprite draws one region of a SpriteSource. W and H default to the region
// size; a larger or smaller box stretches the region when Stretch is set and
// repeats it otherwise.
type Sprite struct {
	Entity
	W, H    float64
	Stretch bool
	// DebugDrawing outlines the sprite and marks its origin.
	DebugDrawing bool

	source *SpriteSource
	frame  int
	region Region
	anim   *spriteAnimation
}

// NewSprite returns a sprite showing region index of src, sized to it.
func NewSprite(src *SpriteSource, index int) (*Sprite, error) {
	if src == nil {
		return nil, fmt.Errorf("gamekit: nil sprite source")
	}
	r, ok := src.Region(index)
	if !ok {
		return nil, fmt.Errorf("region %d of %s source: %w", index, src.Kind, ErrUnknownSource)
	}
	s := &Sprite{Entity: NewEntity(), source: src, frame: index, region: r}
	s.W = float64(r.W)
	s.H = float64(r.H)
	return s, nil
}

// NewSpriteKey returns a sprite showing the atlas region key.
func NewSpriteKey(src *SpriteSource, key string) (*Sprite, error) {
	if src == nil {
		return nil, fmt.Errorf("gamekit: nil sprite source")
	}
	i, ok := src.IndexOf(key)
	if !ok {
		return nil, fmt.Errorf("atlas key %q: %w", key, ErrUnknownSource)
	}
	return NewSprite(src, i)
}

// Source returns the sprite's source.
func (s *Sprite) Source() *SpriteSource { return s.source }

// Frame returns the index of the region shown.
func (s *Sprite) Frame() int { return s.frame }

// SetFrame shows region i of the source. The sprite size is kept.
func (s *Sprite) SetFrame(i int) error {
	r, ok := s.source.Region(i)
	if !ok {
		return fmt.Errorf("region %d of %s source: %w", i, s.source.Kind, ErrUnknownSource)
	}
	s.frame = i
	s.region = r
	return nil
}

// SetFrameKey shows the atlas region key.
func (s *Sprite) SetFrameKey(key string) error {
	i, ok := s.source.IndexOf(key)
	if !ok {
		return fmt.Errorf("atlas key %q: %w", key, ErrUnknownSource)
	}
	return s.SetFrame(i)
}

// Size returns the sprite's unscaled size.
func (s *Sprite) Size() (w, h float64) { return s.W, s.H }

// HitTest reports whether the local point is inside the sprite box.
func (s *Sprite) HitTest(x, y float64) bool {
	return x >= 0 && x < s.W && y >= 0 && y < s.H
}

// CenterOrigin moves the origin to the sprite's center and shifts the
// position so it stays in place on screen.
func (s *Sprite) CenterOrigin() {
	s.ChangeOrigin(s.W/2, s.H/2)
}

// ChangeOrigin moves the origin to (x, y) and shifts the position so the
// sprite stays in place on screen.
func (s *Sprite) ChangeOrigin(x, y float64) {
	changeOrigin(&s.Entity, x, y)
}

func changeOrigin(e *Entity, x, y float64) {
	e.X += (x - e.OriginX) * e.ScaleX
	e.Y += (y - e.OriginY) * e.ScaleY
	e.OriginX = x
	e.OriginY = y
}

// Draw draws the current region.
func (s *Sprite) Draw(surf Surface) {
	s.applyTransform(surf)
	r := s.region
	if r.Image != nil && r.W > 0 && r.H > 0 {
		rw, rh := float64(r.W), float64(r.H)
		if s.Stretch || (s.W == rw && s.H == rh) {
			surf.DrawImage(r.Image, r.Rect(), Rect{W: s.W, H: s.H})
		} else {
			drawTiled(surf, r, s.W, s.H)
		}
	}
	if s.DebugDrawing {
		surf.StrokeRect(Rect{W: s.W, H: s.H}, Color{0, 1, 1, 1}, 1)
		surf.StrokeRect(Rect{X: s.OriginX - 2, Y: s.OriginY - 2, W: 4, H: 4}, Color{1, 0, 1, 1}, 1)
	}
}

// drawTiled repeats r across a w x h box, clipping the last row and column.
func drawTiled(surf Surface, r Region, w, h float64) {
	rw, rh := float64(r.W), float64(r.H)
	for y := 0.0; y < h; y += rh {
		th := math.Min(rh, h-y)
		for x := 0.0; x < w; x += rw {
			tw := math.Min(rw, w-x)
			src := Rect{X: float64(r.X), Y: float64(r.Y), W: tw, H: th}
			surf.DrawImage(r.Image, src, Rect{X: x, Y: y, W: tw, H: th})
		}
	}
}

// --- Animation playback ---

// spriteAnimation advances a sprite through an Animation as a queue entry.
type spriteAnimation struct {
	sprite   *Sprite
	anim     *Animation
	start    float64
	bound    bool
	loops    int
	promise  *Promise
	finished bool
}

func (a *spriteAnimation) Finished() bool { return a.finished }

func (a *spriteAnimation) Update(now float64) {
	s := a.sprite
	if s.destroyed {
		a.stop()
		a.promise.Reject(ErrDestroyed)
		return
	}
	if !a.bound {
		a.start = now
		a.bound = true
	}
	n := len(a.anim.Frames)
	step := int((now - a.start) / a.anim.frameDuration())
	if step >= n && !a.anim.Loop {
		_ = s.SetFrame(a.anim.Frames[n-1])
		a.stop()
		a.promise.Resolve(true)
		return
	}
	if loops := step / n; loops > a.loops {
		a.loops = loops
		a.promise.Progress(loops)
	}
	_ = s.SetFrame(a.anim.Frames[step%n])
}

func (a *spriteAnimation) stop() {
	a.finished = true
	if a.sprite.anim == a {
		a.sprite.anim = nil
	}
}

// Play runs the named animation of the sprite's source. The promise resolves
// with true when a non-looping animation shows its last frame, or with false
// when the animation is stopped or replaced. Looping animations report the
// loop count as progress.
func (s *Sprite) Play(key string) *Promise {
	anim, ok := s.source.Animation(key)
	if !ok {
		return Rejected(fmt.Errorf("animation %q: %w", key, ErrUnknownSource))
	}
	if s.core == nil {
		return Rejected(ErrDetached)
	}
	s.StopAnimation()
	a := &spriteAnimation{sprite: s, anim: anim, promise: s.core.NewPromise()}
	if s.core.hasRun {
		a.start = s.core.lastRunTime
		a.bound = true
	}
	_ = s.SetFrame(anim.Frames[0])
	s.anim = a
	s.core.queue.Add(a)
	return a.promise
}

// PreparePlay returns a step that plays the named animation when run.
func (s *Sprite) PreparePlay(key string) Step {
	return func() *Promise { return s.Play(key) }
}

// StopAnimation stops the running animation, leaving the current frame shown.
func (s *Sprite) StopAnimation() {
	if a := s.anim; a != nil {
		a.stop()
		a.promise.Resolve(false)
	}
}

// IsPlaying reports whether an animation is running.
func (s *Sprite) IsPlaying() bool { return s.anim != nil }
