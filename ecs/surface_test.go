package ecs

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/gamekit"
)

// nopSurface discards all drawing.
type nopSurface struct{}

func (nopSurface) Save() {}
func (nopSurface) Restore() {}
func (nopSurface) Translate(x, y float64) {}
func (nopSurface) Rotate(angle float64) {}
func (nopSurface) Scale(x, y float64) {}
func (nopSurface) SetAlpha(alpha float64) {}
func (nopSurface) Alpha() float64 { return 1 }
func (nopSurface) ClearRect(r gamekit.Rect) {}
func (nopSurface) DrawImage(img *ebiten.Image, src, dst gamekit.Rect) {}
func (nopSurface) DrawText(text string, x, y float64, style gamekit.TextStyle) {}
func (nopSurface) MeasureText(text string, style gamekit.TextStyle) (w, h float64) {
	return float64(len(text)) * style.Size / 2, style.Size
}
func (nopSurface) StrokeRect(r gamekit.Rect, c gamekit.Color, width float64) {}
