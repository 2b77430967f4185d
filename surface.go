package gamekit

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// Surface is the 2D drawing context the scheduler and entities render into.
// Transform and alpha calls stack like a canvas context: Save pushes the
// current state and Restore pops it.
type Surface interface {
	Save()
	Restore()
	Translate(x, y float64)
	// Rotate rotates by the given angle in radians.
	Rotate(angle float64)
	Scale(x, y float64)

	// SetAlpha replaces the global alpha used by subsequent draws.
	SetAlpha(alpha float64)
	Alpha() float64

	// ClearRect clears a region to transparent, in surface coordinates.
	ClearRect(r Rect)

	// DrawImage draws the src region of img into dst, in local coordinates.
	DrawImage(img *ebiten.Image, src, dst Rect)

	// DrawText draws text with its top-left corner at (x, y).
	DrawText(text string, x, y float64, style TextStyle)
	// MeasureText returns the width and height of text in style.
	MeasureText(text string, style TextStyle) (w, h float64)

	// StrokeRect outlines r. Used for debug drawing.
	StrokeRect(r Rect, c Color, width float64)
}

// TextStyle describes how a Label draws its text.
type TextStyle struct {
	Size        float64
	Color       Color
	StrokeColor Color
	StrokeWidth float64
	// StrokeOver draws the stroke on top of the fill instead of beneath it.
	StrokeOver bool
}

// --- Ebitengine surface ---

type surfaceState struct {
	geom  ebiten.GeoM
	alpha float64
}

// EbitenSurface renders into an ebiten.Image with a canvas-style transform
// and alpha stack. Text uses the Go Regular face unless another font source
// is set.
type EbitenSurface struct {
	target *ebiten.Image
	state  surfaceState
	stack  []surfaceState

	font  *text.GoTextFaceSource
	faces map[float64]*text.GoTextFace
}

// NewEbitenSurface returns a surface drawing into target. target may be nil
// and set per frame with SetTarget.
func NewEbitenSurface(target *ebiten.Image) *EbitenSurface {
	return &EbitenSurface{
		target: target,
		state:  surfaceState{alpha: 1},
		faces:  make(map[float64]*text.GoTextFace),
	}
}

// SetTarget replaces the image drawn into and resets the transform stack.
func (s *EbitenSurface) SetTarget(img *ebiten.Image) {
	s.target = img
	s.state = surfaceState{alpha: 1}
	s.stack = s.stack[:0]
}

// Target returns the image drawn into.
func (s *EbitenSurface) Target() *ebiten.Image { return s.target }

// SetFont replaces the text face source. Nil restores Go Regular.
func (s *EbitenSurface) SetFont(src *text.GoTextFaceSource) {
	s.font = src
	clear(s.faces)
}

func (s *EbitenSurface) Save() {
	s.stack = append(s.stack, s.state)
}

func (s *EbitenSurface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

// local applies m in the current local space.
func (s *EbitenSurface) local(m ebiten.GeoM) {
	m.Concat(s.state.geom)
	s.state.geom = m
}

func (s *EbitenSurface) Translate(x, y float64) {
	var m ebiten.GeoM
	m.Translate(x, y)
	s.local(m)
}

func (s *EbitenSurface) Rotate(angle float64) {
	var m ebiten.GeoM
	m.Rotate(angle)
	s.local(m)
}

func (s *EbitenSurface) Scale(x, y float64) {
	var m ebiten.GeoM
	m.Scale(x, y)
	s.local(m)
}

func (s *EbitenSurface) SetAlpha(alpha float64) { s.state.alpha = clamp01(alpha) }

func (s *EbitenSurface) Alpha() float64 { return s.state.alpha }

func (s *EbitenSurface) ClearRect(r Rect) {
	if s.target == nil {
		return
	}
	rect := image.Rect(int(r.X), int(r.Y), int(math.Ceil(r.X+r.W)), int(math.Ceil(r.Y+r.H)))
	rect = rect.Intersect(s.target.Bounds())
	if rect.Empty() {
		return
	}
	s.target.SubImage(rect).(*ebiten.Image).Clear()
}

func (s *EbitenSurface) DrawImage(img *ebiten.Image, src, dst Rect) {
	if s.target == nil || img == nil || src.Empty() || dst.Empty() {
		return
	}
	sub := img.SubImage(image.Rect(int(src.X), int(src.Y), int(src.X+src.W), int(src.Y+src.H))).(*ebiten.Image)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(dst.W/src.W, dst.H/src.H)
	op.GeoM.Translate(dst.X, dst.Y)
	op.GeoM.Concat(s.state.geom)
	op.ColorScale.ScaleAlpha(float32(s.state.alpha))
	s.target.DrawImage(sub, op)
}

func (s *EbitenSurface) face(size float64) *text.GoTextFace {
	if f, ok := s.faces[size]; ok {
		return f
	}
	if s.font == nil {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			panic(fmt.Sprintf("gamekit: failed to parse built-in font: %v", err))
		}
		s.font = src
	}
	f := &text.GoTextFace{Source: s.font, Size: size}
	s.faces[size] = f
	return f
}

func lineHeight(f *text.GoTextFace) float64 {
	m := f.Metrics()
	return m.HAscent + m.HDescent + m.HLineGap
}

func (s *EbitenSurface) MeasureText(str string, style TextStyle) (w, h float64) {
	f := s.face(style.Size)
	w, h = text.Measure(str, f, lineHeight(f))
	if style.StrokeWidth > 0 {
		w += 2 * style.StrokeWidth
		h += 2 * style.StrokeWidth
	}
	return w, h
}

// strokeOffsets approximate an outline by drawing the text shifted in eight
// directions.
var strokeOffsets = [8][2]float64{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}

func (s *EbitenSurface) DrawText(str string, x, y float64, style TextStyle) {
	if s.target == nil || str == "" {
		return
	}
	f := s.face(style.Size)
	lh := lineHeight(f)
	draw := func(dx, dy float64, c Color) {
		op := &text.DrawOptions{}
		op.LineSpacing = lh
		op.GeoM.Translate(x+dx+style.StrokeWidth, y+dy+style.StrokeWidth)
		op.GeoM.Concat(s.state.geom)
		op.ColorScale.Scale(float32(c.R), float32(c.G), float32(c.B), float32(c.A))
		op.ColorScale.ScaleAlpha(float32(s.state.alpha))
		text.Draw(s.target, str, f, op)
	}
	stroke := func() {
		if style.StrokeWidth <= 0 {
			return
		}
		for _, o := range strokeOffsets {
			draw(o[0]*style.StrokeWidth, o[1]*style.StrokeWidth, style.StrokeColor)
		}
	}
	if !style.StrokeOver {
		stroke()
	}
	draw(0, 0, style.Color)
	if style.StrokeOver {
		stroke()
	}
}

func (s *EbitenSurface) StrokeRect(r Rect, c Color, width float64) {
	if s.target == nil {
		return
	}
	g := s.state.geom
	x0, y0 := g.Apply(r.X, r.Y)
	x1, y1 := g.Apply(r.X+r.W, r.Y)
	x2, y2 := g.Apply(r.X+r.W, r.Y+r.H)
	x3, y3 := g.Apply(r.X, r.Y+r.H)
	c.A *= s.state.alpha
	clr := c.RGBA()
	sw := float32(width)
	vector.StrokeLine(s.target, float32(x0), float32(y0), float32(x1), float32(y1), sw, clr, true)
	vector.StrokeLine(s.target, float32(x1), float32(y1), float32(x2), float32(y2), sw, clr, true)
	vector.StrokeLine(s.target, float32(x2), float32(y2), float32(x3), float32(y3), sw, clr, true)
	vector.StrokeLine(s.target, float32(x3), float32(y3), float32(x0), float32(y0), sw, clr, true)
}
