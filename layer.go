package gamekit

// drawList is the ordered child list shared by Layer and Group. Removal while
// the list is being scanned is deferred to the scan's compaction step.
type drawList struct {
	items    []Drawable
	scanning bool
}

func (dl *drawList) indexOf(d Drawable) int {
	for i, x := range dl.items {
		if x == d {
			return i
		}
	}
	return -1
}

// add appends d unless it is still in the slice from a detach earlier in the
// current scan.
func (dl *drawList) add(d Drawable) {
	if dl.scanning && dl.indexOf(d) >= 0 {
		return
	}
	dl.items = append(dl.items, d)
}

func (dl *drawList) remove(d Drawable) {
	if dl.scanning {
		return
	}
	if i := dl.indexOf(d); i >= 0 {
		dl.items = append(dl.items[:i], dl.items[i+1:]...)
	}
}

// scan visits each item in order and compacts the slice in place. owned
// reports whether an item still belongs to the list; release is called for
// items dropped because they were destroyed. When the scan returns, no
// destroyed or detached item is left in the list. Items appended during the
// scan are kept, unvisited, for the next one.
func (dl *drawList) scan(c *Core, s Surface, alpha float64, cam Vec2, owned func(*Entity) bool, release func(*Entity)) {
	dl.scanning = true
	n := len(dl.items)
	keep, i := 0, 0
	defer func() {
		// Unvisited entries survive a panicking entity.
		keep += copy(dl.items[keep:], dl.items[i:])
		// Entries destroyed or detached after their visit, by a later
		// sibling for instance, leave the list with this scan.
		kept := dl.items[:0]
		for _, d := range dl.items[:keep] {
			e := d.Base()
			if !owned(e) {
				continue
			}
			if e.destroyed {
				release(e)
				continue
			}
			kept = append(kept, d)
		}
		clear(dl.items[len(kept):])
		dl.items = kept
		dl.scanning = false
	}()
	for ; i < n; i++ {
		d := dl.items[i]
		e := d.Base()
		if !owned(e) {
			continue
		}
		if !visit(c, s, d, alpha, cam) || e.destroyed {
			if owned(e) {
				release(e)
			}
			continue
		}
		if !owned(e) {
			continue
		}
		dl.items[keep] = d
		keep++
	}
}

// Layer is one level of the render stack. Layers draw bottom to top in
// creation order, and a layer's entities draw in attachment order.
type Layer struct {
	// Visible hides the layer and skips its entities entirely when false.
	Visible bool
	// Alpha multiplies every entity's alpha. A layer at 0 is skipped like an
	// invisible one.
	Alpha float64

	core *Core
	list drawList
}

func newLayer(c *Core) *Layer {
	return &Layer{Visible: true, Alpha: 1, core: c}
}

// Core returns the owning Core.
func (l *Layer) Core() *Core { return l.core }

// Attach appends d to the layer and points it, and its descendants, at the
// layer's Core. d is first detached from wherever it was. Drawables attached
// while the layer is being drawn are first visited on the next frame.
func (l *Layer) Attach(d Drawable) {
	if d == nil {
		panic("gamekit: cannot attach nil drawable")
	}
	e := d.Base()
	if e.layer == l {
		return
	}
	Detach(d)
	e.layer = l
	setCore(d, l.core)
	l.list.add(d)
}

// Entities returns the layer's drawables. The returned slice MUST NOT be
// mutated.
func (l *Layer) Entities() []Drawable {
	return l.list.items
}

// Len returns the number of drawables on the layer.
func (l *Layer) Len() int {
	return len(l.list.items)
}

// Clear detaches every drawable.
func (l *Layer) Clear() {
	for _, d := range l.list.items {
		if d.Base().layer == l {
			d.Base().layer = nil
		}
	}
	if l.list.scanning {
		return
	}
	clear(l.list.items)
	l.list.items = l.list.items[:0]
}

func (l *Layer) owns(e *Entity) bool { return e.layer == l }

func (l *Layer) release(e *Entity) { e.layer = nil }

// draw runs the frame contract for every entity on a visible layer.
func (l *Layer) draw(s Surface, cam Vec2) {
	l.list.scan(l.core, s, l.Alpha, cam, l.owns, l.release)
}

// Detach removes d from its layer or parent group. The drawable keeps its
// Core reference so pending tweens keep running.
func Detach(d Drawable) {
	e := d.Base()
	if e.layer != nil {
		l := e.layer
		e.layer = nil
		l.list.remove(d)
	}
	if e.parent != nil {
		g := e.parent
		e.parent = nil
		g.list.remove(d)
	}
}
