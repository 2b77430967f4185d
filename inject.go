package gamekit

import "github.com/hajimehoshi/ebiten/v2"

// syntheticEvent is one injected input event. Pointer coordinates are in
// screen space, the same space real input arrives in.
type syntheticEvent struct {
	key     string
	x, y    float64
	pressed bool
}

// InjectPress queues a left-button press at the given screen coordinates.
// Injected events are consumed one per frame, before the pre-frame hook.
func (c *Core) InjectPress(x, y float64) {
	c.input.injected = append(c.input.injected, syntheticEvent{x: x, y: y, pressed: true})
}

// InjectMove queues a pointer move with the button held. Use it between
// InjectPress and InjectRelease to simulate a drag.
func (c *Core) InjectMove(x, y float64) {
	c.input.injected = append(c.input.injected, syntheticEvent{x: x, y: y, pressed: true})
}

// InjectRelease queues a button release at the given screen coordinates.
func (c *Core) InjectRelease(x, y float64) {
	c.input.injected = append(c.input.injected, syntheticEvent{x: x, y: y})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (c *Core) InjectClick(x, y float64) {
	c.InjectPress(x, y)
	c.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 interpolated moves
// and a release at (toX, toY). The sequence consumes frames frames, at
// least two.
func (c *Core) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	c.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		c.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	c.InjectRelease(toX, toY)
}

// InjectKey queues a press of the named key.
func (c *Core) InjectKey(name string) {
	c.input.injected = append(c.input.injected, syntheticEvent{key: name})
}

// PendingInjections returns the number of injected events not yet consumed.
func (c *Core) PendingInjections() int {
	return len(c.input.injected)
}

// flush advances the test runner and consumes one injected event. Called
// once per frame by the Core.
func (in *inputState) flush() {
	if in.runner != nil {
		in.runner.step(in.core)
	}
	if len(in.injected) == 0 {
		return
	}
	ev := in.injected[0]
	copy(in.injected, in.injected[1:])
	in.injected = in.injected[:len(in.injected)-1]

	if ev.key != "" {
		in.core.HandleKeyName(ev.key)
		return
	}
	in.core.HandlePointer(ev.x, ev.y, ev.pressed, ebiten.MouseButtonLeft)
}
