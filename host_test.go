package gamekit

import "testing"

func TestNewHostRejectsEmptySize(t *testing.T) {
	if _, err := NewHost(RunConfig{Width: 0, Height: 10}); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestHostLayoutAndTrigger(t *testing.T) {
	h, err := NewHost(RunConfig{Width: 320, Height: 240, Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	if w, hh := h.Layout(1000, 1000); w != 320 || hh != 240 {
		t.Errorf("layout = %dx%d, want 320x240", w, hh)
	}
	if len(h.pending) != 0 {
		t.Fatal("a stopped core should not request frames")
	}
	h.Core().Start()
	if len(h.pending) != 1 {
		t.Errorf("pending frames = %d, want 1", len(h.pending))
	}
}

func TestHostShowFPS(t *testing.T) {
	h, err := NewHost(RunConfig{Width: 64, Height: 64, ShowFPS: true, Logger: quietLogger()})
	if err != nil {
		t.Fatal(err)
	}
	layers := h.Core().Layers()
	if len(layers) != 2 || layers[1].Len() != 1 {
		t.Fatalf("layers = %d", len(layers))
	}
	if _, ok := layers[1].Entities()[0].(*FPSCounter); !ok {
		t.Errorf("top layer holds %T, want *FPSCounter", layers[1].Entities()[0])
	}
}

func TestHostTestScript(t *testing.T) {
	if _, err := NewHost(RunConfig{Width: 8, Height: 8, TestScript: []byte("steps: []")}); err == nil {
		t.Error("expected error for an empty script")
	}
	h, err := NewHost(RunConfig{
		Width:      8,
		Height:     8,
		Logger:     quietLogger(),
		TestScript: []byte("steps:\n  - {action: wait, frames: 1}\n"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if h.runner == nil || h.runner.Done() {
		t.Error("runner should be attached and pending")
	}
}
