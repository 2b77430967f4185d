package gamekit

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunConfig configures the window and Core created by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// Background fills the screen before each frame. Zero leaves it black.
	Background Color
	ShowFPS    bool
	Resizable  bool

	Logger        *slog.Logger
	Debug         bool
	RecoverPanics bool
	ScreenshotDir string

	// TestScript, when set, is played as an input script. The game exits
	// once it finishes if ExitAfterScript is set.
	TestScript      []byte
	ExitAfterScript bool
}

// Host drives a Core from Ebitengine. It implements ebiten.Game and is the
// Core's FrameTrigger: frames requested by the Core run inside Draw, with the
// run time in milliseconds since the host was created.
type Host struct {
	core    *Core
	surface *EbitenSurface
	width   int
	height  int
	bg      Color

	start   time.Time
	pending []func(runTime float64)
	keys    []ebiten.Key
	touches []ebiten.TouchID

	runner *TestRunner
	exit   bool
}

// NewHost creates a host and its Core.
func NewHost(cfg RunConfig) (*Host, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("gamekit: window size %dx%d must be positive", cfg.Width, cfg.Height)
	}
	h := &Host{
		surface: NewEbitenSurface(nil),
		width:   cfg.Width,
		height:  cfg.Height,
		bg:      cfg.Background,
		start:   time.Now(),
		exit:    cfg.ExitAfterScript,
	}
	h.core = New(h, h.surface, Config{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Logger:        cfg.Logger,
		RecoverPanics: cfg.RecoverPanics,
		Debug:         cfg.Debug,
		ScreenshotDir: cfg.ScreenshotDir,
	})
	if len(cfg.TestScript) > 0 {
		r, err := LoadTestScript(cfg.TestScript)
		if err != nil {
			return nil, err
		}
		h.runner = r
		h.core.SetTestRunner(r)
	}
	if cfg.ShowFPS {
		h.core.CreateLayer().Attach(NewFPSCounter())
	}
	return h, nil
}

// Core returns the hosted Core.
func (h *Host) Core() *Core { return h.core }

// RequestFrame implements FrameTrigger.
func (h *Host) RequestFrame(fn func(runTime float64)) {
	h.pending = append(h.pending, fn)
}

// Update polls keyboard, mouse and touch input and feeds it to the Core.
func (h *Host) Update() error {
	if h.exit && h.runner != nil && h.runner.Done() {
		return ebiten.Termination
	}
	h.keys = inpututil.AppendJustPressedKeys(h.keys[:0])
	for _, k := range h.keys {
		h.core.HandleKey(k)
	}

	h.touches = ebiten.AppendTouchIDs(h.touches[:0])
	if len(h.touches) > 0 {
		x, y := ebiten.TouchPosition(h.touches[0])
		h.core.HandlePointer(float64(x), float64(y), true, ebiten.MouseButtonLeft)
		return nil
	}
	x, y := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	h.core.HandlePointer(float64(x), float64(y), pressed, ebiten.MouseButtonLeft)
	return nil
}

// Draw runs the requested frames into screen.
func (h *Host) Draw(screen *ebiten.Image) {
	if h.bg != (Color{}) {
		screen.Fill(h.bg.RGBA())
	} else {
		screen.Fill(color.Black)
	}
	h.surface.SetTarget(screen)
	fns := h.pending
	h.pending = nil
	now := float64(time.Since(h.start)) / float64(time.Millisecond)
	for _, fn := range fns {
		fn(now)
	}
	h.core.flushScreenshots(screen)
}

// Layout returns the logical screen size.
func (h *Host) Layout(_, _ int) (int, int) {
	return h.width, h.height
}

// Run opens a window, calls setup with the Core, starts it and blocks until
// the window closes.
func Run(cfg RunConfig, setup func(*Core) error) error {
	h, err := NewHost(cfg)
	if err != nil {
		return err
	}
	if setup != nil {
		if err := setup(h.core); err != nil {
			return fmt.Errorf("gamekit: setup: %w", err)
		}
	}
	h.core.Start()

	title := cfg.Title
	if title == "" {
		title = "gamekit"
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if err := ebiten.RunGame(h); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
