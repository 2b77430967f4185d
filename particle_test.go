package gamekit

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func defaultTestConfig(maxParticles int) EmitterConfig {
	return EmitterConfig{
		MaxParticles: maxParticles,
		EmitRate:     100,
		Lifetime:     Range{1000, 1000},
		Speed:        Range{100, 100},
		Angle:        Range{0, 0},
		StartScale:   Range{1, 1},
		EndScale:     Range{0.5, 0.5},
		StartAlpha:   Range{1, 1},
		EndAlpha:     Range{0, 0},
	}
}

func TestEmitterConfigCreatesPool(t *testing.T) {
	e := NewEmitter(defaultTestConfig(500))
	if len(e.particles) != 500 {
		t.Errorf("pool size = %d, want 500", len(e.particles))
	}
	if e.alive != 0 {
		t.Errorf("alive = %d, want 0", e.alive)
	}
}

func TestEmitterDefaults(t *testing.T) {
	e := NewEmitter(EmitterConfig{})
	if len(e.particles) != 128 {
		t.Errorf("default pool size = %d, want 128", len(e.particles))
	}
	cfg := e.Config()
	if cfg.StartScale != (Range{1, 1}) || cfg.EndAlpha != (Range{1, 1}) {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestStartStopReset(t *testing.T) {
	e := NewEmitter(defaultTestConfig(100))
	if e.IsActive() {
		t.Error("emitter should not be active initially")
	}
	e.Start()
	if !e.IsActive() {
		t.Error("emitter should be active after Start")
	}
	e.step(100) // 10 particles at 100/s
	if e.AliveCount() != 10 {
		t.Fatalf("alive = %d, want 10", e.AliveCount())
	}
	e.Reset()
	if e.IsActive() || e.AliveCount() != 0 {
		t.Errorf("after Reset active=%v alive=%d", e.IsActive(), e.AliveCount())
	}
}

func TestParticleSpawnRateAccumulates(t *testing.T) {
	e := NewEmitter(defaultTestConfig(1000))
	e.Start()
	for range 4 {
		e.step(5) // half a particle each
	}
	if e.AliveCount() != 2 {
		t.Errorf("alive = %d, want 2", e.AliveCount())
	}
}

func TestSwapRemoveNoDead(t *testing.T) {
	cfg := defaultTestConfig(100)
	cfg.Lifetime = Range{100, 300}
	cfg.Rand = rand.New(rand.NewPCG(1, 2))
	e := NewEmitter(cfg)
	e.Start()
	e.step(100)
	e.Stop()
	for range 20 {
		e.step(10)
		for i := 0; i < e.alive; i++ {
			if e.particles[i].life <= 0 {
				t.Fatalf("dead particle at %d within alive range", i)
			}
		}
	}
}

func TestGravityAffectsVelocity(t *testing.T) {
	cfg := defaultTestConfig(10)
	cfg.EmitRate = 0
	cfg.Burst = 1
	cfg.Speed = Range{}
	cfg.Gravity = Vec2{0, 100}
	e := NewEmitter(cfg)
	e.Start()
	e.step(0)
	e.step(500)
	p := e.particles[0]
	if math.Abs(p.vy-50) > 1e-9 {
		t.Errorf("vy = %v, want 50", p.vy)
	}
	if math.Abs(p.y-25) > 1e-9 {
		t.Errorf("y = %v, want 25", p.y)
	}
}

func TestLifetimeInterpolation(t *testing.T) {
	cfg := defaultTestConfig(10)
	cfg.EmitRate = 0
	cfg.Burst = 1
	e := NewEmitter(cfg)
	e.Start()
	e.step(0)
	e.step(500)
	p := e.particles[0]
	assertNear(t, "scale", p.scale, 0.75)
	assertNear(t, "alpha", p.alpha, 0.5)
}

func TestFadeIn(t *testing.T) {
	cfg := defaultTestConfig(10)
	cfg.EmitRate = 0
	cfg.Burst = 1
	cfg.EndAlpha = Range{1, 1}
	cfg.FadeIn = 0.5
	e := NewEmitter(cfg)
	e.Start()
	e.step(0)
	if e.particles[0].alpha != 0 {
		t.Errorf("spawn alpha = %v, want 0", e.particles[0].alpha)
	}
	e.step(250)
	assertNear(t, "alpha", e.particles[0].alpha, 0.5)
}

func TestMaxParticlesCap(t *testing.T) {
	e := NewEmitter(defaultTestConfig(5))
	e.Start()
	e.step(1000)
	if e.AliveCount() != 5 {
		t.Errorf("alive = %d, want 5", e.AliveCount())
	}
}

func TestLimitAndDone(t *testing.T) {
	cfg := defaultTestConfig(50)
	cfg.Limit = 3
	cfg.Lifetime = Range{100, 100}
	e := NewEmitter(cfg)
	e.Start()
	e.step(1000)
	if e.AliveCount() != 3 || e.IsActive() {
		t.Fatalf("alive=%d active=%v, want 3 false", e.AliveCount(), e.IsActive())
	}
	if !e.Done().IsPending() {
		t.Fatal("done before the particles died")
	}
	e.step(100)
	if !e.Done().IsResolved() {
		t.Error("done should resolve once the last particle dies")
	}
}

func TestParticleMovesWithAngle(t *testing.T) {
	cfg := defaultTestConfig(10)
	cfg.EmitRate = 0
	cfg.Burst = 1
	cfg.Angle = Range{90, 90}
	e := NewEmitter(cfg)
	e.Start()
	e.step(0)
	e.step(100)
	p := e.particles[0]
	if math.Abs(p.x) > 1e-9 || math.Abs(p.y-10) > 1e-9 {
		t.Errorf("position = (%v,%v), want (0,10)", p.x, p.y)
	}
}

func TestRangeRandom(t *testing.T) {
	r := Range{Min: 5, Max: 10}
	for range 100 {
		v := r.Random()
		if v < 5 || v > 10 {
			t.Fatalf("Random() = %v, out of [5, 10]", v)
		}
	}
	if (Range{3, 3}).Random() != 3 {
		t.Error("degenerate range should return Min")
	}
}

func TestLerp(t *testing.T) {
	assertNear(t, "lerp", lerp(0, 10, 0.3), 3)
}

func TestEmitterUpdateUsesFrameTime(t *testing.T) {
	c, trig, surf := newTestCore(t)
	src := PlainSource(ebiten.NewImage(4, 4))
	cfg := defaultTestConfig(10)
	cfg.Source = src
	e := NewEmitter(cfg)
	c.Attach(e)
	e.Start()
	trig.Advance(16)  // binds the clock
	trig.Advance(100) // 10 particles
	if e.AliveCount() != 10 {
		t.Errorf("alive = %d, want 10", e.AliveCount())
	}
	if n := surf.count("image"); n != 10 {
		t.Errorf("particles drawn = %d, want 10", n)
	}
}

func TestPickRegionFromList(t *testing.T) {
	src := tileSource(t, 4, 1)
	cfg := defaultTestConfig(10)
	cfg.Source = src
	cfg.Regions = []int{2}
	cfg.Rand = rand.New(rand.NewPCG(3, 4))
	e := NewEmitter(cfg)
	if r := e.pickRegion(); r.X != 32 {
		t.Errorf("region x = %d, want 32", r.X)
	}
}

func BenchmarkEmitterStep(b *testing.B) {
	cfg := defaultTestConfig(1000)
	cfg.EmitRate = 10000
	e := NewEmitter(cfg)
	e.Start()
	for b.Loop() {
		e.step(16)
	}
}
