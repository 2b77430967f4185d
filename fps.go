package gamekit

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// fpsRefreshMs is how often the FPS counter text changes.
const fpsRefreshMs = 500

// FPSCounter is a label showing Ebitengine's measured FPS and TPS.
type FPSCounter struct {
	*Label
	last float64
}

// NewFPSCounter returns a white counter at (4, 4).
func NewFPSCounter() *FPSCounter {
	l := NewLabel("FPS: --")
	l.Name = "fps"
	l.Style.Color = Color{1, 1, 1, 1}
	l.Style.StrokeWidth = 1
	l.SetPosition(4, 4)
	return &FPSCounter{Label: l, last: -fpsRefreshMs}
}

// Update refreshes the text twice a second.
func (f *FPSCounter) Update() {
	c := f.Core()
	if c == nil {
		return
	}
	now, _ := c.LastRunTime()
	if now-f.last < fpsRefreshMs {
		return
	}
	f.last = now
	f.Text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
}
