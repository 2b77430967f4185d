package gamekit

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// recSurface records every call as a short string and tracks the alpha stack
// the way a canvas context does.
type recSurface struct {
	calls []string
	alpha float64
	stack []float64
}

func newRecSurface() *recSurface {
	return &recSurface{alpha: 1}
}

func (s *recSurface) log(format string, args ...any) {
	s.calls = append(s.calls, fmt.Sprintf(format, args...))
}

func (s *recSurface) Save() {
	s.stack = append(s.stack, s.alpha)
	s.log("save")
}

func (s *recSurface) Restore() {
	if n := len(s.stack); n > 0 {
		s.alpha = s.stack[n-1]
		s.stack = s.stack[:n-1]
	}
	s.log("restore")
}

func (s *recSurface) Translate(x, y float64) { s.log("translate %g,%g", x, y) }
func (s *recSurface) Rotate(angle float64)   { s.log("rotate %.4f", angle) }
func (s *recSurface) Scale(x, y float64)     { s.log("scale %g,%g", x, y) }

func (s *recSurface) SetAlpha(alpha float64) {
	s.alpha = alpha
	s.log("alpha %g", alpha)
}

func (s *recSurface) Alpha() float64 { return s.alpha }

func (s *recSurface) ClearRect(r Rect) { s.log("clear %g,%g,%g,%g", r.X, r.Y, r.W, r.H) }

func (s *recSurface) DrawImage(img *ebiten.Image, src, dst Rect) {
	s.log("image %g,%g,%g,%g -> %g,%g,%g,%g", src.X, src.Y, src.W, src.H, dst.X, dst.Y, dst.W, dst.H)
}

func (s *recSurface) DrawText(text string, x, y float64, style TextStyle) {
	s.log("text %q %g,%g", text, x, y)
}

// MeasureText reports half the font size per byte, one line high.
func (s *recSurface) MeasureText(text string, style TextStyle) (w, h float64) {
	return float64(len(text)) * style.Size / 2, style.Size
}

func (s *recSurface) StrokeRect(r Rect, c Color, width float64) {
	s.log("stroke %g,%g,%g,%g", r.X, r.Y, r.W, r.H)
}

// count returns how many recorded calls start with prefix.
func (s *recSurface) count(prefix string) int {
	n := 0
	for _, c := range s.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (s *recSurface) reset() { s.calls = s.calls[:0] }

// probe is a drawable that counts its updates and draws.
type probe struct {
	Entity
	updates  int
	draws    int
	onUpdate func()
	onDraw   func(s Surface)
}

func newProbe() *probe {
	return &probe{Entity: NewEntity()}
}

func (p *probe) Update() {
	p.updates++
	if p.onUpdate != nil {
		p.onUpdate()
	}
}

func (p *probe) Draw(s Surface) {
	p.draws++
	if p.onDraw != nil {
		p.onDraw(s)
	}
}

// newTestCore returns a started Core on a manual trigger and a recording
// surface.
func newTestCore(t *testing.T) (*Core, *ManualTrigger, *recSurface) {
	t.Helper()
	trig := &ManualTrigger{}
	surf := newRecSurface()
	c := New(trig, surf, Config{Width: 100, Height: 80, Logger: quietLogger()})
	c.Start()
	return c, trig, surf
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// --- EbitenSurface ---

func TestEbitenSurfaceSaveRestore(t *testing.T) {
	s := NewEbitenSurface(nil)
	s.Save()
	s.Translate(10, 5)
	s.SetAlpha(0.5)
	s.Save()
	s.Scale(2, 2)
	s.SetAlpha(0.25)

	x, y := s.state.geom.Apply(1, 1)
	if x != 12 || y != 7 {
		t.Errorf("transformed point = (%v,%v), want (12,7)", x, y)
	}
	s.Restore()
	if s.Alpha() != 0.5 {
		t.Errorf("alpha after restore = %v, want 0.5", s.Alpha())
	}
	x, y = s.state.geom.Apply(1, 1)
	if x != 11 || y != 6 {
		t.Errorf("point after restore = (%v,%v), want (11,6)", x, y)
	}
	s.Restore()
	s.Restore() // extra restore is ignored
	if s.Alpha() != 1 {
		t.Errorf("alpha = %v, want 1", s.Alpha())
	}
}

func TestEbitenSurfaceLocalTransformOrder(t *testing.T) {
	s := NewEbitenSurface(nil)
	s.Translate(100, 0)
	s.Scale(2, 2)
	s.Translate(5, 0)
	// Later calls apply in the local space of earlier ones.
	x, _ := s.state.geom.Apply(0, 0)
	if x != 110 {
		t.Errorf("x = %v, want 110", x)
	}
}

func TestEbitenSurfaceAlphaClamped(t *testing.T) {
	s := NewEbitenSurface(nil)
	s.SetAlpha(3)
	if s.Alpha() != 1 {
		t.Errorf("alpha = %v, want 1", s.Alpha())
	}
	s.SetAlpha(-1)
	if s.Alpha() != 0 {
		t.Errorf("alpha = %v, want 0", s.Alpha())
	}
}

func TestEbitenSurfaceNilTargetIsNoop(t *testing.T) {
	s := NewEbitenSurface(nil)
	s.ClearRect(Rect{W: 10, H: 10})
	s.DrawImage(nil, Rect{W: 1, H: 1}, Rect{W: 1, H: 1})
	s.DrawText("hi", 0, 0, TextStyle{Size: 12})
	s.StrokeRect(Rect{W: 5, H: 5}, ColorWhite, 1)
}

func TestEbitenSurfaceMeasureText(t *testing.T) {
	s := NewEbitenSurface(nil)
	w1, h1 := s.MeasureText("abc", TextStyle{Size: 12})
	w2, _ := s.MeasureText("abcdef", TextStyle{Size: 12})
	if w1 <= 0 || h1 <= 0 {
		t.Fatalf("measure = %v x %v, want positive", w1, h1)
	}
	if w2 <= w1 {
		t.Errorf("longer text measured %v, not wider than %v", w2, w1)
	}
	ws, hs := s.MeasureText("abc", TextStyle{Size: 12, StrokeWidth: 2})
	if ws != w1+4 || hs != h1+4 {
		t.Errorf("stroked measure = %v x %v, want %v x %v", ws, hs, w1+4, h1+4)
	}
}
