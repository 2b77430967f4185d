package gamekit

import (
	"errors"
	"testing"
)

func TestNewSprite(t *testing.T) {
	src := tileSource(t, 4, 1)
	s, err := NewSprite(src, 2)
	if err != nil {
		t.Fatal(err)
	}
	if s.W != 16 || s.H != 16 || s.Frame() != 2 {
		t.Errorf("sprite %gx%g frame %d", s.W, s.H, s.Frame())
	}
	if _, err := NewSprite(src, 4); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("err = %v, want ErrUnknownSource", err)
	}
	if _, err := NewSprite(nil, 0); err == nil {
		t.Error("expected error for nil source")
	}
}

func TestSpriteSetFrameKeepsSize(t *testing.T) {
	s, _ := NewSprite(tileSource(t, 4, 1), 0)
	s.W = 40
	if err := s.SetFrame(3); err != nil {
		t.Fatal(err)
	}
	if s.W != 40 || s.Frame() != 3 {
		t.Errorf("W %g frame %d", s.W, s.Frame())
	}
	if err := s.SetFrame(-1); err == nil {
		t.Error("expected error for negative frame")
	}
	if err := s.SetFrameKey("x"); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("err = %v, want ErrUnknownSource", err)
	}
}

func TestSpriteCenterOrigin(t *testing.T) {
	s, _ := NewSprite(tileSource(t, 1, 1), 0)
	s.SetPosition(10, 10)
	s.CenterOrigin()
	if s.X != 18 || s.Y != 18 || s.OriginX != 8 {
		t.Errorf("position %g,%g origin %g", s.X, s.Y, s.OriginX)
	}
	if !s.HitTest(15.9, 0) || s.HitTest(16, 0) {
		t.Error("hit test should cover [0, 16)")
	}
}

// --- Drawing ---

func TestSpriteDrawStretchAndTiled(t *testing.T) {
	tests := []struct {
		name    string
		stretch bool
		want    []string
	}{
		{"stretch", true, []string{"image 0,0,16,16 -> 0,0,40,16"}},
		{"tiled", false, []string{
			"image 0,0,16,16 -> 0,0,16,16",
			"image 0,0,16,16 -> 16,0,16,16",
			"image 0,0,8,16 -> 32,0,8,16",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := NewSprite(tileSource(t, 2, 1), 0)
			s.W = 40
			s.Stretch = tt.stretch
			surf := newRecSurface()
			s.Draw(surf)
			var got []string
			for _, c := range surf.calls {
				if len(c) > 5 && c[:5] == "image" {
					got = append(got, c)
				}
			}
			if len(got) != len(tt.want) {
				t.Fatalf("images = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("image %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSpriteDebugDrawing(t *testing.T) {
	s, _ := NewSprite(tileSource(t, 1, 1), 0)
	s.DebugDrawing = true
	surf := newRecSurface()
	s.Draw(surf)
	if surf.count("stroke") != 2 {
		t.Errorf("strokes = %d, want 2", surf.count("stroke"))
	}
}

// --- Animation ---

func TestSpritePlayResolvesTrue(t *testing.T) {
	c, trig, _ := newTestCore(t)
	src := tileSource(t, 4, 1)
	if err := src.CreateAnimation("walk", 0, 3, 10, false); err != nil {
		t.Fatal(err)
	}
	s, _ := NewSprite(src, 2)
	c.Layer(0).Attach(s)

	var result []any
	s.Play("walk").Then(func(v ...any) any { result = v; return nil }, nil)
	if s.Frame() != 0 || !s.IsPlaying() {
		t.Fatalf("frame %d playing %v", s.Frame(), s.IsPlaying())
	}
	trig.Advance(16)
	frames := []int{1, 2, 3}
	for _, want := range frames {
		trig.Advance(100)
		if s.Frame() != want {
			t.Errorf("frame = %d, want %d", s.Frame(), want)
		}
	}
	if result != nil {
		t.Fatal("animation should still be on its last frame")
	}
	trig.Advance(100)
	if len(result) != 1 || result[0] != true {
		t.Errorf("result = %v, want [true]", result)
	}
	if s.IsPlaying() || s.Frame() != 3 {
		t.Errorf("playing %v frame %d", s.IsPlaying(), s.Frame())
	}
}

func TestSpriteStopAndReplaceResolveFalse(t *testing.T) {
	c, trig, _ := newTestCore(t)
	src := tileSource(t, 4, 1)
	_ = src.CreateAnimation("a", 0, 3, 10, true)
	_ = src.CreateAnimation("b", 3, 0, 10, true)
	s, _ := NewSprite(src, 0)
	c.Layer(0).Attach(s)

	first := s.Play("a")
	second := s.Play("b")
	if v := first.Values(); !first.IsResolved() || v[0] != false {
		t.Errorf("replaced animation = %v %v, want resolved false", first.IsResolved(), v)
	}
	trig.Advance(16)
	s.StopAnimation()
	if v := second.Values(); !second.IsResolved() || v[0] != false {
		t.Errorf("stopped animation = %v, want resolved false", v)
	}
	if s.Frame() != 3 {
		t.Errorf("frame = %d, stop should keep the current frame", s.Frame())
	}
}

func TestSpritePlayLoopProgress(t *testing.T) {
	c, trig, _ := newTestCore(t)
	src := tileSource(t, 2, 1)
	_ = src.CreateAnimation("blink", 0, 1, 10, true)
	s, _ := NewSprite(src, 0)
	c.Layer(0).Attach(s)

	var loops []any
	s.Play("blink").ThenProgress(nil, nil, func(v ...any) { loops = append(loops, v[0]) })
	trig.Advance(16)
	for range 4 {
		trig.Advance(100)
	}
	if len(loops) != 2 || loops[0] != 1 || loops[1] != 2 {
		t.Errorf("loops = %v, want [1 2]", loops)
	}
}

func TestSpritePlayErrors(t *testing.T) {
	src := tileSource(t, 2, 1)
	_ = src.CreateAnimation("x", 0, 1, 10, false)
	s, _ := NewSprite(src, 0)
	if err := s.Play("x").Err(); !errors.Is(err, ErrDetached) {
		t.Errorf("detached err = %v", err)
	}
	if err := s.Play("missing").Err(); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("missing err = %v", err)
	}
}

func TestSpritePlayDestroyed(t *testing.T) {
	c, trig, _ := newTestCore(t)
	src := tileSource(t, 2, 1)
	_ = src.CreateAnimation("x", 0, 1, 10, true)
	s, _ := NewSprite(src, 0)
	c.Layer(0).Attach(s)
	p := s.Play("x")
	s.Destroy()
	trig.Advance(16)
	if !errors.Is(p.Err(), ErrDestroyed) {
		t.Errorf("err = %v, want ErrDestroyed", p.Err())
	}
}

func TestSpritePreparePlay(t *testing.T) {
	c, trig, _ := newTestCore(t)
	src := tileSource(t, 2, 1)
	_ = src.CreateAnimation("once", 0, 1, 10, false)
	s, _ := NewSprite(src, 0)
	c.Layer(0).Attach(s)

	step := s.PreparePlay("once")
	if s.IsPlaying() {
		t.Fatal("PreparePlay should not start the animation")
	}
	p := Chain(step, step)()
	for range 6 {
		trig.Advance(100)
	}
	if !p.IsResolved() {
		t.Error("chained plays should finish")
	}
}
