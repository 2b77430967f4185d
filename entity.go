package gamekit

// Drawable is anything a Layer or Group can render. Concrete types embed
// Entity, which supplies Base and a no-op Update.
type Drawable interface {
	// Update runs once per frame before Draw while the drawable is visible.
	Update()
	// Draw renders into s. The surface is already positioned for the camera
	// and carries the composite alpha; Draw applies the entity's own
	// transform.
	Draw(s Surface)
	Base() *Entity
}

// Container is implemented by drawables that hold children, such as Group.
// Hit testing and core propagation walk containers recursively.
type Container interface {
	Children() []Drawable
}

// HitTester is implemented by drawables that react to pointer events. x and
// y are in the entity's local space, after its origin has been applied.
type HitTester interface {
	HitTest(x, y float64) bool
}

// Entity holds the state shared by every drawable: transform, alpha, the
// destroy flag and the back-references to its Core and parent.
type Entity struct {
	X, Y float64
	// OriginX and OriginY move the pivot for rotation and scale. They are
	// in unscaled local units.
	OriginX, OriginY float64
	// Rotation is in degrees, clockwise.
	Rotation float64
	ScaleX   float64
	ScaleY   float64
	// Alpha in [0, 1]. Negative values are clamped to 0 during the frame and
	// an entity at 0 is neither updated nor drawn.
	Alpha float64
	// Disabled entities are skipped by hit testing.
	Disabled bool

	// Name is an optional label used in debug output.
	Name string
	// EntityID links the entity to an external entity store. Zero means
	// unlinked.
	EntityID uint32

	destroyed bool
	core      *Core
	layer     *Layer
	parent    *Group
	props     map[string]*float64
	pointer   pointerHandlers
}

// NewEntity returns an Entity with unit scale and full alpha.
func NewEntity() Entity {
	return Entity{ScaleX: 1, ScaleY: 1, Alpha: 1}
}

// Base returns e. It lets embedding types satisfy Drawable.
func (e *Entity) Base() *Entity { return e }

// Update is a no-op. Embedding types override it for per-frame logic.
func (e *Entity) Update() {}

// Core returns the Core the entity is attached to, or nil.
func (e *Entity) Core() *Core { return e.core }

// Layer returns the layer holding the entity or its top-level ancestor.
func (e *Entity) Layer() *Layer {
	for p := e; p != nil; p = p.parentEntity() {
		if p.layer != nil {
			return p.layer
		}
	}
	return nil
}

// Parent returns the group holding the entity, or nil.
func (e *Entity) Parent() *Group { return e.parent }

func (e *Entity) parentEntity() *Entity {
	if e.parent == nil {
		return nil
	}
	return &e.parent.Entity
}

// Destroy flags the entity for removal. The frame scan drops it from its
// layer or group, and tweens still running on it reject with ErrDestroyed.
func (e *Entity) Destroy() {
	e.destroyed = true
}

// IsDestroyed reports whether Destroy has been called.
func (e *Entity) IsDestroyed() bool { return e.destroyed }

// SetPosition sets X and Y.
func (e *Entity) SetPosition(x, y float64) {
	e.X = x
	e.Y = y
}

// SetScale sets ScaleX and ScaleY.
func (e *Entity) SetScale(sx, sy float64) {
	e.ScaleX = sx
	e.ScaleY = sy
}

// --- Animatable properties ---

// DefineProp registers an extra animatable property backed by ptr. Embedding
// types use it to expose their own numeric fields to Tween.
func (e *Entity) DefineProp(name string, ptr *float64) {
	if ptr == nil {
		panic("gamekit: DefineProp with nil pointer")
	}
	if e.props == nil {
		e.props = make(map[string]*float64)
	}
	e.props[name] = ptr
}

// Prop returns a pointer to the named animatable property. The built-in
// names are x, y, originX, originY, rotation, scaleX, scaleY and alpha.
func (e *Entity) Prop(name string) (*float64, bool) {
	switch name {
	case "x":
		return &e.X, true
	case "y":
		return &e.Y, true
	case "originX":
		return &e.OriginX, true
	case "originY":
		return &e.OriginY, true
	case "rotation":
		return &e.Rotation, true
	case "scaleX":
		return &e.ScaleX, true
	case "scaleY":
		return &e.ScaleY, true
	case "alpha":
		return &e.Alpha, true
	}
	p, ok := e.props[name]
	return p, ok
}

// --- Drawing helpers ---

// applyTransform positions s at the entity: translate, rotate, scale, then
// shift by the origin.
func (e *Entity) applyTransform(s Surface) {
	s.Translate(e.X, e.Y)
	if e.Rotation != 0 {
		s.Rotate(degToRad(e.Rotation))
	}
	if e.ScaleX != 1 || e.ScaleY != 1 {
		s.Scale(e.ScaleX, e.ScaleY)
	}
	if e.OriginX != 0 || e.OriginY != 0 {
		s.Translate(-e.OriginX, -e.OriginY)
	}
}

// setCore points d and all of its descendants at c.
func setCore(d Drawable, c *Core) {
	d.Base().core = c
	if ct, ok := d.(Container); ok {
		for _, child := range ct.Children() {
			setCore(child, c)
		}
	}
}

// visit runs the per-frame contract for one drawable under the given parent
// alpha and reports whether it should stay in its container. Destroyed
// drawables are dropped; zero-alpha drawables stay but are skipped. A
// drawable whose update or draw panics under RecoverPanics is destroyed. cam is
// the camera offset for top-level drawables and zero inside groups.
func visit(c *Core, s Surface, d Drawable, parentAlpha float64, cam Vec2) bool {
	e := d.Base()
	if e.destroyed {
		return false
	}
	if e.Alpha < 0 {
		e.Alpha = 0
	}
	if e.Alpha == 0 {
		return true
	}
	if c != nil {
		c.stats.entities++
	}
	panicked := c.guard("entity", func() {
		s.Save()
		defer s.Restore()
		s.SetAlpha(e.Alpha * parentAlpha)
		d.Update()
		if e.destroyed {
			return
		}
		if cam.X != 0 || cam.Y != 0 {
			s.Translate(-cam.X, -cam.Y)
		}
		d.Draw(s)
	})
	if panicked {
		// It would panic again every frame.
		e.destroyed = true
		return false
	}
	return true
}
