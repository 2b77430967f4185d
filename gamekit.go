package gamekit

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorBlack is the default label fill color.
var ColorBlack = Color{0, 0, 0, 1}

// ColorWhite is the default tint.
var ColorWhite = Color{1, 1, 1, 1}

// RGBA converts the color to a premultiplied color.RGBA.
func (c Color) RGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// Point addresses a tile in a grid. X is the column, Y the row.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W &&
		y >= r.Y && y <= r.Y+r.H
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Range is a general-purpose min/max range, used by the particle emitter.
type Range struct {
	Min, Max float64
}

// EventType identifies a kind of input event.
type EventType uint8

const (
	EventPointerDown EventType = iota // pointer button pressed
	EventPointerUp                    // pointer button released
	EventPointerMove                  // pointer moved
	EventKeyDown                      // key pressed
)

var eventNames = [...]string{
	EventPointerDown: "pointerdown",
	EventPointerUp:   "pointerup",
	EventPointerMove: "pointermove",
	EventKeyDown:     "keydown",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// TextAlign controls horizontal label alignment relative to the origin.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // text starts at the origin (default)
	TextAlignCenter                  // text is centered on the origin
	TextAlignRight                   // text ends at the origin
)

// VerticalAlign controls vertical label alignment relative to the origin.
type VerticalAlign uint8

const (
	VerticalAlignTop    VerticalAlign = iota // origin at the top of the text (default)
	VerticalAlignMiddle                      // origin at the vertical center
	VerticalAlignBottom                      // origin at the bottom of the text
)
