package gamekit

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Config configures a Core.
type Config struct {
	// Width and Height are the logical screen size, used by the camera and
	// as the default clear region.
	Width, Height int

	// ClearRegion is cleared at the start of every frame. When empty the
	// whole Width x Height area is cleared; set NoClear to skip clearing.
	ClearRegion Rect
	NoClear     bool

	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// RecoverPanics isolates each queue entry update and each entity
	// update and draw. A recovered panic is logged at Error level and the
	// frame carries on. The panicking queue entry is removed from the queue
	// and the panicking entity is destroyed, so neither runs again. When
	// false, panics propagate to the frame trigger.
	RecoverPanics bool

	// Debug logs per-frame stats at Debug level.
	Debug bool

	// ScreenshotDir receives screenshots. Defaults to DefaultScreenshotDir.
	ScreenshotDir string
}

// Core owns the frame loop: the tween queue, the layer stack, the camera,
// input state and the hooks run around each frame.
//
// Everything except Post must be called from the frame goroutine, which is
// the goroutine the FrameTrigger invokes callbacks on.
type Core struct {
	trigger FrameTrigger
	surface Surface
	log     *slog.Logger

	width, height int
	clearRegion   Rect
	noClear       bool
	recover       bool
	debug         bool

	running     bool
	armed       bool
	hasRun      bool
	lastRunTime float64
	frames      uint64

	queue  TweenQueue
	layers []*Layer
	camera *Camera
	input  *inputState
	stats  frameStats

	onBefore func(Surface)
	onAfter  func(Surface)

	inboxMu sync.Mutex
	inbox   []func()

	screenshotDir string
	screenshots   []string
}

// New creates a stopped Core that renders into surface and schedules frames
// through trigger. Layer 0 is created up front.
func New(trigger FrameTrigger, surface Surface, cfg Config) *Core {
	if trigger == nil {
		panic("gamekit: nil frame trigger")
	}
	if surface == nil {
		panic("gamekit: nil surface")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Core{
		trigger:     trigger,
		surface:     surface,
		log:         logger,
		width:       cfg.Width,
		height:      cfg.Height,
		clearRegion: cfg.ClearRegion,
		noClear:     cfg.NoClear,
		recover:     cfg.RecoverPanics,
		debug:       cfg.Debug,

		screenshotDir: cfg.ScreenshotDir,
	}
	c.camera = newCamera(c)
	c.input = newInputState(c)
	c.layers = []*Layer{newLayer(c)}
	return c
}

// Logger returns the Core's logger.
func (c *Core) Logger() *slog.Logger { return c.log }

// Surface returns the surface frames render into.
func (c *Core) Surface() Surface { return c.surface }

// Size returns the logical screen size.
func (c *Core) Size() (w, h int) { return c.width, c.height }

// SetSize changes the logical screen size.
func (c *Core) SetSize(w, h int) {
	c.width = w
	c.height = h
}

// SetClearRegion sets the area cleared every frame. An empty rect clears the
// whole screen.
func (c *Core) SetClearRegion(r Rect) {
	c.clearRegion = r
	c.noClear = false
}

// DisableClear stops the per-frame clear.
func (c *Core) DisableClear() {
	c.noClear = true
}

// OnBeforeFrame sets the hook run once posted work and queued input have been
// processed, before the frame is cleared.
func (c *Core) OnBeforeFrame(fn func(Surface)) { c.onBefore = fn }

// OnAfterFrame sets the hook run after every layer has been drawn.
func (c *Core) OnAfterFrame(fn func(Surface)) { c.onAfter = fn }

// NewPromise returns a pending promise that logs at Debug level when it is
// rejected with nothing attached to handle it.
func (c *Core) NewPromise() *Promise {
	return &Promise{log: c.log}
}

// --- Lifecycle ---

// Start begins requesting frames. Starting a running Core does nothing.
func (c *Core) Start() {
	if c.running {
		return
	}
	c.running = true
	if !c.armed {
		c.armed = true
		c.trigger.RequestFrame(c.frame)
	}
	c.log.Debug("core started")
}

// Stop halts the loop. An already requested frame becomes a no-op and does
// not request another.
func (c *Core) Stop() {
	if !c.running {
		return
	}
	c.running = false
	c.log.Debug("core stopped", "frames", c.frames)
}

// IsRunning reports whether the loop is running.
func (c *Core) IsRunning() bool { return c.running }

// LastRunTime returns the run time of the most recent frame and whether any
// frame has run.
func (c *Core) LastRunTime() (float64, bool) { return c.lastRunTime, c.hasRun }

// Frames returns the number of frames run.
func (c *Core) Frames() uint64 { return c.frames }

// --- Layers ---

// CreateLayer adds a layer on top of the stack.
func (c *Core) CreateLayer() *Layer {
	l := newLayer(c)
	c.layers = append(c.layers, l)
	return l
}

// Layer returns the layer at index i, bottom first. Layer 0 always exists.
func (c *Core) Layer(i int) *Layer {
	if i < 0 || i >= len(c.layers) {
		return nil
	}
	return c.layers[i]
}

// Layers returns the layer stack, bottom first. The returned slice MUST NOT
// be mutated.
func (c *Core) Layers() []*Layer { return c.layers }

// Attach adds d to layer 0.
func (c *Core) Attach(d Drawable) {
	c.layers[0].Attach(d)
}

// --- Queue ---

// Add queues a custom entry. It is first updated on the frame after the one
// in progress.
func (c *Core) Add(e QueueEntry) {
	c.queue.Add(e)
}

// Queue exposes the tween queue for inspection.
func (c *Core) Queue() *TweenQueue { return &c.queue }

// Post schedules fn to run on the frame goroutine at the start of the next
// frame. It is safe to call from any goroutine.
func (c *Core) Post(fn func()) {
	c.inboxMu.Lock()
	c.inbox = append(c.inbox, fn)
	c.inboxMu.Unlock()
}

func (c *Core) drainInbox() {
	c.inboxMu.Lock()
	fns := c.inbox
	c.inbox = nil
	c.inboxMu.Unlock()
	for _, fn := range fns {
		c.guard("posted", fn)
	}
}

// --- Frame ---

func (c *Core) frame(runTime float64) {
	c.armed = false
	if !c.running {
		return
	}
	c.armed = true
	c.trigger.RequestFrame(c.frame)

	c.lastRunTime = runTime
	c.hasRun = true
	c.frames++
	c.stats = frameStats{}

	var t0 time.Time
	if c.debug {
		t0 = time.Now()
	}

	c.drainInbox()
	c.input.flush()

	s := c.surface
	if c.onBefore != nil {
		c.onBefore(s)
	}
	if !c.noClear {
		r := c.clearRegion
		if r.Empty() {
			r = Rect{W: float64(c.width), H: float64(c.height)}
		}
		if !r.Empty() {
			s.ClearRect(r)
		}
	}

	c.stats.tweens = c.queue.Len()
	c.queue.scan(runTime, c.updateEntry)
	c.camera.follow()

	if c.debug {
		c.stats.queueTime = time.Since(t0)
		t0 = time.Now()
	}

	cam := c.camera.Offset()
	for _, l := range c.layers {
		if !l.Visible || l.Alpha <= 0 {
			continue
		}
		c.stats.layers++
		l.draw(s, cam)
	}

	if c.debug {
		c.stats.drawTime = time.Since(t0)
	}

	if c.onAfter != nil {
		c.onAfter(s)
	}
	if c.debug {
		c.debugLog()
	}
}

func (c *Core) updateEntry(e QueueEntry, now float64) {
	if !c.recover {
		e.Update(now)
		return
	}
	if c.guard("queue entry", func() { e.Update(now) }) {
		// A panicking entry would panic again every frame.
		c.queue.Remove(e)
	}
}

// guard runs fn, recovering and logging a panic when RecoverPanics is on. It
// reports whether fn panicked.
func (c *Core) guard(where string, fn func()) (panicked bool) {
	if c == nil || !c.recover {
		fn()
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			err := &PanicError{Value: r, Where: where}
			c.log.Error("recovered panic", "where", where, "err", err, "frame", c.frames)
			panicked = true
		}
	}()
	fn()
	return false
}

// String describes the Core for debug output.
func (c *Core) String() string {
	return fmt.Sprintf("gamekit.Core{running: %t, frames: %d, layers: %d, queued: %d}",
		c.running, c.frames, len(c.layers), c.queue.Len())
}
