package gamekit

import "math"

// Sizer is implemented by drawables with a known unscaled size. Group bounds
// and debug outlines use it.
type Sizer interface {
	Size() (w, h float64)
}

// Bounder is implemented by drawables whose local extent is a box that need
// not start at their origin, such as Group. Bounds is in the drawable's own
// local space.
type Bounder interface {
	Bounds() Rect
}

// Group moves, rotates, scales and fades a set of drawables together. Its
// children follow the same per-frame contract as layer entities, in
// insertion order, under the group's transform and alpha.
type Group struct {
	Entity
	// DebugDrawing outlines the group bounds and marks its origin.
	DebugDrawing bool

	list drawList
}

// NewGroup returns an empty group at the origin.
func NewGroup() *Group {
	return &Group{Entity: NewEntity()}
}

// Attach appends d to the group. d is first detached from wherever it was.
func (g *Group) Attach(d Drawable) {
	if d == nil {
		panic("gamekit: cannot attach nil drawable")
	}
	e := d.Base()
	if e == &g.Entity {
		panic("gamekit: cannot attach a group to itself")
	}
	for p := &g.Entity; p != nil; p = p.parentEntity() {
		if p == e {
			panic("gamekit: cannot attach an ancestor to its descendant")
		}
	}
	if e.parent == g {
		return
	}
	Detach(d)
	e.parent = g
	setCore(d, g.core)
	g.list.add(d)
	if _, ok := d.(Container); ok {
		debugCheckDepth(g.core, e)
	}
}

// Children returns the group's drawables. The returned slice MUST NOT be
// mutated.
func (g *Group) Children() []Drawable {
	return g.list.items
}

// Draw applies the group transform and runs the frame contract for each child.
func (g *Group) Draw(s Surface) {
	g.applyTransform(s)
	g.list.scan(g.core, s, s.Alpha(), Vec2{}, g.owns, g.release)
	if g.DebugDrawing {
		b := g.Bounds()
		s.StrokeRect(b, Color{0, 1, 0, 1}, 1)
		s.StrokeRect(Rect{X: g.OriginX - 2, Y: g.OriginY - 2, W: 4, H: 4}, Color{1, 1, 0, 1}, 1)
	}
}

func (g *Group) owns(e *Entity) bool { return e.parent == g }

func (g *Group) release(e *Entity) { e.parent = nil }

// Bounds returns the axis-aligned box around the group's children in the
// group's local space. Children without a size contribute their position
// only. An empty group reports a zero-size box at its origin.
func (g *Group) Bounds() Rect {
	if len(g.list.items) == 0 {
		return Rect{X: g.OriginX, Y: g.OriginY}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, d := range g.list.items {
		e := d.Base()
		if e.destroyed {
			continue
		}
		var r Rect
		switch v := d.(type) {
		case Bounder:
			r = transformRect(localTransform(e), v.Bounds())
		case Sizer:
			w, h := v.Size()
			r = transformRect(localTransform(e), Rect{W: w, H: h})
		default:
			r = Rect{X: e.X, Y: e.Y}
		}
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.X+r.W)
		maxY = math.Max(maxY, r.Y+r.H)
	}
	if math.IsInf(minX, 1) {
		return Rect{X: g.OriginX, Y: g.OriginY}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// ChangeOrigin moves the group's position to (x, y) and shifts every child the
// other way so nothing moves on screen.
func (g *Group) ChangeOrigin(x, y float64) {
	dx, dy := x-g.X, y-g.Y
	for _, d := range g.list.items {
		e := d.Base()
		e.X -= dx
		e.Y -= dy
	}
	g.X = x
	g.Y = y
}

// transformRect returns the bounding box of r after applying m.
func transformRect(m [6]float64, r Rect) Rect {
	xs := [4]float64{}
	ys := [4]float64{}
	xs[0], ys[0] = transformPoint(m, r.X, r.Y)
	xs[1], ys[1] = transformPoint(m, r.X+r.W, r.Y)
	xs[2], ys[2] = transformPoint(m, r.X, r.Y+r.H)
	xs[3], ys[3] = transformPoint(m, r.X+r.W, r.Y+r.H)
	minX, minY, maxX, maxY := xs[0], ys[0], xs[0], ys[0]
	for i := 1; i < 4; i++ {
		minX = math.Min(minX, xs[i])
		maxX = math.Max(maxX, xs[i])
		minY = math.Min(minY, ys[i])
		maxY = math.Max(maxY, ys[i])
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
