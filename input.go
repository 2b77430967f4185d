package gamekit

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// PointerEvent describes a pointer interaction delivered to handlers.
type PointerEvent struct {
	Type EventType
	// X and Y are screen coordinates.
	X, Y float64
	// WorldX and WorldY have the camera offset applied.
	WorldX, WorldY float64
	// LocalX and LocalY are in the hit entity's local space. Zero when
	// nothing was hit.
	LocalX, LocalY float64
	Button         ebiten.MouseButton
	// Target is the topmost entity under the pointer, or nil.
	Target Drawable
}

// KeyEvent describes a key press.
type KeyEvent struct {
	Name string
	Key  ebiten.Key
}

// InteractionEvent is the flattened form of an input event handed to an
// EventSink. Pointer events are only forwarded for entities with a non-zero
// EntityID; key events are always forwarded.
type InteractionEvent struct {
	Type     EventType
	EntityID uint32
	X, Y     float64
	LocalX   float64
	LocalY   float64
	Button   ebiten.MouseButton
	Key      string
}

// EventSink receives input events, typically to bridge them into an ECS.
type EventSink interface {
	EmitEvent(event InteractionEvent)
}

// --- Handler registry ---

// CallbackHandle removes a registered callback.
type CallbackHandle struct {
	remove func()
}

// Remove unregisters the callback. Safe to call more than once.
func (h CallbackHandle) Remove() {
	if h.remove != nil {
		h.remove()
	}
}

type pointerFunc struct {
	id uint32
	ev EventType
	fn func(PointerEvent)
}

// pointerHandlers is the per-entity subscription table. Waiters hold one
// shared pending promise per event type.
//
// funcs is copy-on-write: removal builds a new slice and clears the removed
// entry's fn, so a dispatch in progress keeps walking its own snapshot and
// skips handlers removed under it.
type pointerHandlers struct {
	waiters map[EventType]*Promise
	funcs   []*pointerFunc
	nextID  uint32
}

func (h *pointerHandlers) empty() bool {
	return len(h.waiters) == 0 && len(h.funcs) == 0
}

func (h *pointerHandlers) fire(ev PointerEvent) {
	if p, ok := h.waiters[ev.Type]; ok {
		delete(h.waiters, ev.Type)
		p.Resolve(ev)
	}
	for _, f := range h.funcs {
		if f.fn != nil && f.ev == ev.Type {
			f.fn(ev)
		}
	}
}

func removePointerFunc(s []*pointerFunc, id uint32) []*pointerFunc {
	for i, f := range s {
		if f.id == id {
			f.fn = nil
			return slices.Concat(s[:i], s[i+1:])
		}
	}
	return s
}

type keyFunc struct {
	id   uint32
	name string
	fn   func(KeyEvent)
}

// inputState is the per-Core input table: keymap, subscriptions, pointer
// state and the queue of injected events.
type inputState struct {
	core       *Core
	keymap     map[ebiten.Key]string
	keyWaiters map[string]*Promise
	keyFuncs   []*keyFunc // copy-on-write, like pointerHandlers.funcs
	scene      pointerHandlers
	nextID     uint32

	down  bool
	lastX float64
	lastY float64

	injected []syntheticEvent
	runner   *TestRunner
	sink     EventSink
}

func newInputState(c *Core) *inputState {
	km := make(map[ebiten.Key]string, len(defaultKeymap))
	for k, v := range defaultKeymap {
		km[k] = v
	}
	return &inputState{
		core:       c,
		keymap:     km,
		keyWaiters: make(map[string]*Promise),
		lastX:      -1,
		lastY:      -1,
	}
}

func (in *inputState) id() uint32 {
	in.nextID++
	return in.nextID
}

// --- Keyboard ---

// SetKeyName maps an ebiten key to the name used by OnKey. An empty name
// unmaps the key.
func (c *Core) SetKeyName(key ebiten.Key, name string) {
	if name == "" {
		delete(c.input.keymap, key)
		return
	}
	c.input.keymap[key] = name
}

// KeyName returns the name key is mapped to.
func (c *Core) KeyName(key ebiten.Key) (string, bool) {
	name, ok := c.input.keymap[key]
	return name, ok
}

// OnKey returns a promise resolved with a KeyEvent the next time the named
// key is pressed. Calls made before that press share one promise.
func (c *Core) OnKey(name string) *Promise {
	if p, ok := c.input.keyWaiters[name]; ok {
		return p
	}
	p := c.NewPromise()
	c.input.keyWaiters[name] = p
	return p
}

// OnKeyFunc calls fn on every press of the named key.
func (c *Core) OnKeyFunc(name string, fn func(KeyEvent)) CallbackHandle {
	in := c.input
	id := in.id()
	in.keyFuncs = append(in.keyFuncs, &keyFunc{id: id, name: name, fn: fn})
	return CallbackHandle{remove: func() {
		for i, f := range in.keyFuncs {
			if f.id == id {
				f.fn = nil
				in.keyFuncs = slices.Concat(in.keyFuncs[:i], in.keyFuncs[i+1:])
				return
			}
		}
	}}
}

// HandleKey dispatches a press of key. Unmapped keys are ignored.
func (c *Core) HandleKey(key ebiten.Key) {
	name, ok := c.input.keymap[key]
	if !ok {
		return
	}
	c.input.dispatchKey(KeyEvent{Name: name, Key: key})
}

// HandleKeyName dispatches a press by name, bypassing the keymap.
func (c *Core) HandleKeyName(name string) {
	c.input.dispatchKey(KeyEvent{Name: name, Key: -1})
}

func (in *inputState) dispatchKey(ev KeyEvent) {
	if p, ok := in.keyWaiters[ev.Name]; ok {
		delete(in.keyWaiters, ev.Name)
		p.Resolve(ev)
	}
	for _, f := range in.keyFuncs {
		if f.fn != nil && f.name == ev.Name {
			f.fn(ev)
		}
	}
	if in.sink != nil {
		in.sink.EmitEvent(InteractionEvent{Type: EventKeyDown, Key: ev.Name})
	}
}

// --- Pointer ---

// On returns a promise resolved with a PointerEvent the next time ev hits the
// entity or one of its children. Calls made before that event share one
// promise.
func (e *Entity) On(ev EventType) *Promise {
	if p, ok := e.pointer.waiters[ev]; ok {
		return p
	}
	var p *Promise
	if e.core != nil {
		p = e.core.NewPromise()
	} else {
		p = NewPromise()
	}
	if e.pointer.waiters == nil {
		e.pointer.waiters = make(map[EventType]*Promise)
	}
	e.pointer.waiters[ev] = p
	return p
}

// OnFunc calls fn every time ev hits the entity or one of its children.
func (e *Entity) OnFunc(ev EventType, fn func(PointerEvent)) CallbackHandle {
	e.pointer.nextID++
	id := e.pointer.nextID
	e.pointer.funcs = append(e.pointer.funcs, &pointerFunc{id: id, ev: ev, fn: fn})
	return CallbackHandle{remove: func() {
		e.pointer.funcs = removePointerFunc(e.pointer.funcs, id)
	}}
}

// OnPointer calls fn for every pointer event of type ev, hit or not.
func (c *Core) OnPointer(ev EventType, fn func(PointerEvent)) CallbackHandle {
	in := c.input
	id := in.id()
	in.scene.funcs = append(in.scene.funcs, &pointerFunc{id: id, ev: ev, fn: fn})
	return CallbackHandle{remove: func() {
		in.scene.funcs = removePointerFunc(in.scene.funcs, id)
	}}
}

// SetEventSink forwards input events to sink. Nil disables forwarding.
func (c *Core) SetEventSink(sink EventSink) {
	c.input.sink = sink
}

// HandlePointer feeds one pointer sample in screen coordinates. A change of
// the pressed state produces a down or up event; otherwise a change of
// position produces a move event.
func (c *Core) HandlePointer(x, y float64, pressed bool, button ebiten.MouseButton) {
	in := c.input
	switch {
	case pressed && !in.down:
		in.down = true
		in.dispatchPointer(EventPointerDown, x, y, button)
	case !pressed && in.down:
		in.down = false
		in.dispatchPointer(EventPointerUp, x, y, button)
	case x != in.lastX || y != in.lastY:
		in.dispatchPointer(EventPointerMove, x, y, button)
	}
	in.lastX = x
	in.lastY = y
}

func (in *inputState) dispatchPointer(typ EventType, x, y float64, button ebiten.MouseButton) Drawable {
	cam := in.core.camera.Offset()
	ev := PointerEvent{
		Type:   typ,
		X:      x,
		Y:      y,
		WorldX: x + cam.X,
		WorldY: y + cam.Y,
		Button: button,
	}
	hit, lx, ly := in.core.hitTest(ev.WorldX, ev.WorldY)
	if hit != nil {
		ev.Target = hit
		ev.LocalX = lx
		ev.LocalY = ly
		for e := hit.Base(); e != nil; e = e.parentEntity() {
			if !e.pointer.empty() {
				e.pointer.fire(ev)
			}
		}
		if in.sink != nil && hit.Base().EntityID != 0 {
			in.sink.EmitEvent(InteractionEvent{
				Type:     typ,
				EntityID: hit.Base().EntityID,
				X:        ev.WorldX,
				Y:        ev.WorldY,
				LocalX:   lx,
				LocalY:   ly,
				Button:   button,
			})
		}
	}
	in.scene.fire(ev)
	return hit
}

// --- Hit testing ---

// HitTest returns the topmost enabled entity at the screen point (x, y), or
// nil. Only drawables implementing HitTester can be hit; groups are searched
// through their children.
func (c *Core) HitTest(x, y float64) Drawable {
	cam := c.camera.Offset()
	d, _, _ := c.hitTest(x+cam.X, y+cam.Y)
	return d
}

// hitTest searches layers top to bottom and entities last drawn first.
func (c *Core) hitTest(wx, wy float64) (Drawable, float64, float64) {
	for i := len(c.layers) - 1; i >= 0; i-- {
		l := c.layers[i]
		if !l.Visible || l.Alpha <= 0 {
			continue
		}
		if d, lx, ly := hitList(l.list.items, l.owns, wx, wy); d != nil {
			return d, lx, ly
		}
	}
	return nil, 0, 0
}

// childOwner is a container whose child list may still hold entries
// detached during the current frame.
type childOwner interface {
	owns(e *Entity) bool
}

func hitList(items []Drawable, owned func(*Entity) bool, wx, wy float64) (Drawable, float64, float64) {
	for i := len(items) - 1; i >= 0; i-- {
		d := items[i]
		e := d.Base()
		if !owned(e) || e.destroyed || e.Disabled || e.Alpha <= 0 {
			continue
		}
		if ct, ok := d.(Container); ok {
			owns := func(*Entity) bool { return true }
			if co, ok := d.(childOwner); ok {
				owns = co.owns
			}
			if hit, lx, ly := hitList(ct.Children(), owns, wx, wy); hit != nil {
				return hit, lx, ly
			}
		}
		ht, ok := d.(HitTester)
		if !ok {
			continue
		}
		inv, ok := invertAffine(worldTransform(e))
		if !ok {
			continue
		}
		lx, ly := transformPoint(inv, wx, wy)
		if ht.HitTest(lx, ly) {
			return d, lx, ly
		}
	}
	return nil, 0, 0
}

// --- Pointer areas ---

// PointerArea is an invisible rectangle that catches pointer events.
type PointerArea struct {
	Entity
	W, H float64
	// DebugDrawing outlines the area.
	DebugDrawing bool
}

// NewPointerArea returns a w x h pointer area at the origin.
func NewPointerArea(w, h float64) *PointerArea {
	return &PointerArea{Entity: NewEntity(), W: w, H: h}
}

// Draw outlines the area when DebugDrawing is set.
func (a *PointerArea) Draw(s Surface) {
	if !a.DebugDrawing {
		return
	}
	a.applyTransform(s)
	s.StrokeRect(Rect{W: a.W, H: a.H}, Color{1, 0, 1, 1}, 1)
}

// HitTest reports whether the local point lies inside the area.
func (a *PointerArea) HitTest(x, y float64) bool {
	return x >= 0 && x < a.W && y >= 0 && y < a.H
}

// Size returns the area's size.
func (a *PointerArea) Size() (w, h float64) { return a.W, a.H }

// --- Default keymap ---

var defaultKeymap = map[ebiten.Key]string{
	ebiten.KeyBackspace:  "backspace",
	ebiten.KeyTab:        "tab",
	ebiten.KeyEnter:      "enter",
	ebiten.KeyShift:      "shift",
	ebiten.KeyControl:    "ctrl",
	ebiten.KeyAlt:        "alt",
	ebiten.KeyPause:      "pause",
	ebiten.KeyCapsLock:   "capslock",
	ebiten.KeyEscape:     "escape",
	ebiten.KeySpace:      "space",
	ebiten.KeyPageUp:     "pageup",
	ebiten.KeyPageDown:   "pagedown",
	ebiten.KeyEnd:        "end",
	ebiten.KeyHome:       "home",
	ebiten.KeyArrowLeft:  "left",
	ebiten.KeyArrowUp:    "up",
	ebiten.KeyArrowRight: "right",
	ebiten.KeyArrowDown:  "down",
	ebiten.KeyInsert:     "insert",
	ebiten.KeyDelete:     "delete",

	ebiten.KeyDigit0: "0",
	ebiten.KeyDigit1: "1",
	ebiten.KeyDigit2: "2",
	ebiten.KeyDigit3: "3",
	ebiten.KeyDigit4: "4",
	ebiten.KeyDigit5: "5",
	ebiten.KeyDigit6: "6",
	ebiten.KeyDigit7: "7",
	ebiten.KeyDigit8: "8",
	ebiten.KeyDigit9: "9",

	ebiten.KeyA: "a",
	ebiten.KeyB: "b",
	ebiten.KeyC: "c",
	ebiten.KeyD: "d",
	ebiten.KeyE: "e",
	ebiten.KeyF: "f",
	ebiten.KeyG: "g",
	ebiten.KeyH: "h",
	ebiten.KeyI: "i",
	ebiten.KeyJ: "j",
	ebiten.KeyK: "k",
	ebiten.KeyL: "l",
	ebiten.KeyM: "m",
	ebiten.KeyN: "n",
	ebiten.KeyO: "o",
	ebiten.KeyP: "p",
	ebiten.KeyQ: "q",
	ebiten.KeyR: "r",
	ebiten.KeyS: "s",
	ebiten.KeyT: "t",
	ebiten.KeyU: "u",
	ebiten.KeyV: "v",
	ebiten.KeyW: "w",
	ebiten.KeyX: "x",
	ebiten.KeyY: "y",
	ebiten.KeyZ: "z",

	ebiten.KeyMeta: "win",

	ebiten.KeyNumpad0:        "0",
	ebiten.KeyNumpad1:        "1",
	ebiten.KeyNumpad2:        "2",
	ebiten.KeyNumpad3:        "3",
	ebiten.KeyNumpad4:        "4",
	ebiten.KeyNumpad5:        "5",
	ebiten.KeyNumpad6:        "6",
	ebiten.KeyNumpad7:        "7",
	ebiten.KeyNumpad8:        "8",
	ebiten.KeyNumpad9:        "9",
	ebiten.KeyNumpadMultiply: "*",
	ebiten.KeyNumpadAdd:      "+",
	ebiten.KeyNumpadSubtract: "-",
	ebiten.KeyNumpadDivide:   "/",

	ebiten.KeyF1:  "f1",
	ebiten.KeyF2:  "f2",
	ebiten.KeyF3:  "f3",
	ebiten.KeyF4:  "f4",
	ebiten.KeyF5:  "f5",
	ebiten.KeyF6:  "f6",
	ebiten.KeyF7:  "f7",
	ebiten.KeyF8:  "f8",
	ebiten.KeyF9:  "f9",
	ebiten.KeyF10: "f10",
	ebiten.KeyF11: "f11",
	ebiten.KeyF12: "f12",

	ebiten.KeyNumLock:    "numlock",
	ebiten.KeyScrollLock: "scrolllock",
	ebiten.KeySemicolon:  ";",
	ebiten.KeyEqual:      "+",
	ebiten.KeyComma:      ",",
	ebiten.KeyMinus:      "-",
	ebiten.KeyPeriod:     ".",
	ebiten.KeySlash:      "/",
	ebiten.KeyBackquote:  "`",
	ebiten.KeyBackslash:  "\\",
}
