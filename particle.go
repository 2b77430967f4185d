package gamekit

import (
	"math"
	"math/rand/v2"
)

// particle holds per-particle simulation state. Times are in milliseconds.
type particle struct {
	x, y       float64
	vx, vy     float64
	life       float64 // remaining lifetime
	maxLife    float64 // initial lifetime, for computing t
	startScale float64
	endScale   float64
	scale      float64
	startAlpha float64
	endAlpha   float64
	alpha      float64
	region     Region
}

// EmitterConfig controls how particles are spawned and behave.
type EmitterConfig struct {
	// MaxParticles is the pool size. New particles are dropped when full.
	MaxParticles int
	// EmitRate is the number of particles spawned per second.
	EmitRate float64
	// Burst particles are spawned on the first update.
	Burst int
	// Limit stops emission once this many particles were spawned. Zero
	// emits until Stop.
	Limit int
	// W and H size the box particles are spawned in, from the emitter origin.
	W, H float64
	// Lifetime is the range of particle lifetimes in milliseconds.
	Lifetime Range
	// Speed is the range of initial speeds in pixels per second.
	Speed Range
	// Angle is the range of emission angles in degrees, 0 pointing right.
	Angle Range
	// StartScale is interpolated to EndScale over the particle's life.
	StartScale Range
	EndScale   Range
	// StartAlpha is interpolated to EndAlpha over the particle's life.
	StartAlpha Range
	EndAlpha   Range
	// FadeIn is the share of the lifetime over which alpha ramps up from 0.
	FadeIn float64
	// Gravity is the acceleration in pixels per second squared.
	Gravity Vec2
	// Source provides the particle images. Regions picks which of its
	// regions to use; empty uses all of them.
	Source  *SpriteSource
	Regions []int
	// Rand seeds spawning. Nil uses the global source.
	Rand *rand.Rand
}

// Emitter is an entity that spawns and draws a pool of particles.
type Emitter struct {
	Entity
	// DebugDrawing outlines the spawn box.
	DebugDrawing bool

	config    EmitterConfig
	particles []particle
	alive     int
	spawned   int
	emitAccum float64
	active    bool
	burst     bool
	last      float64
	bound     bool
	done      *Promise
}

// NewEmitter returns a stopped emitter with a preallocated pool.
func NewEmitter(cfg EmitterConfig) *Emitter {
	n := cfg.MaxParticles
	if n <= 0 {
		n = 128
	}
	if cfg.StartScale == (Range{}) {
		cfg.StartScale = Range{Min: 1, Max: 1}
	}
	if cfg.EndScale == (Range{}) {
		cfg.EndScale = cfg.StartScale
	}
	if cfg.StartAlpha == (Range{}) {
		cfg.StartAlpha = Range{Min: 1, Max: 1}
	}
	if cfg.EndAlpha == (Range{}) {
		cfg.EndAlpha = cfg.StartAlpha
	}
	return &Emitter{
		Entity:    NewEntity(),
		config:    cfg,
		particles: make([]particle, n),
		done:      NewPromise(),
	}
}

// Start begins emitting. A burst, if configured, is spawned on the next
// update.
func (e *Emitter) Start() {
	e.active = true
	e.burst = e.config.Burst > 0
}

// Stop stops emitting new particles. Existing particles live out.
func (e *Emitter) Stop() {
	e.active = false
}

// Reset stops emitting and kills all alive particles.
func (e *Emitter) Reset() {
	e.active = false
	e.alive = 0
	e.spawned = 0
	e.emitAccum = 0
	e.bound = false
}

// IsActive reports whether the emitter is emitting.
func (e *Emitter) IsActive() bool { return e.active }

// AliveCount returns the number of alive particles.
func (e *Emitter) AliveCount() int { return e.alive }

// Config returns the emitter's config for live tuning.
func (e *Emitter) Config() *EmitterConfig { return &e.config }

// Done returns a promise resolved the first time the emitter has stopped and
// its last particle died.
func (e *Emitter) Done() *Promise { return e.done }

// Size returns the spawn box size.
func (e *Emitter) Size() (w, h float64) { return e.config.W, e.config.H }

// Update advances the simulation to the Core's frame time.
func (e *Emitter) Update() {
	c := e.core
	if c == nil {
		return
	}
	now, _ := c.LastRunTime()
	if !e.bound {
		e.last = now
		e.bound = true
	}
	dt := now - e.last
	e.last = now
	e.step(dt)
}

// step advances the simulation by dt milliseconds.
func (e *Emitter) step(dt float64) {
	secs := dt / 1000
	gx := e.config.Gravity.X * secs
	gy := e.config.Gravity.Y * secs

	i := 0
	for i < e.alive {
		p := &e.particles[i]
		p.life -= dt
		if p.life <= 0 {
			e.alive--
			e.particles[i] = e.particles[e.alive]
			continue
		}
		p.vx += gx
		p.vy += gy
		p.x += p.vx * secs
		p.y += p.vy * secs

		t := 1 - p.life/p.maxLife
		p.scale = lerp(p.startScale, p.endScale, t)
		p.alpha = lerp(p.startAlpha, p.endAlpha, t)
		if fi := e.config.FadeIn; fi > 0 && t < fi {
			p.alpha *= t / fi
		}
		i++
	}

	if e.active {
		if e.burst {
			e.burst = false
			for n := 0; n < e.config.Burst; n++ {
				e.spawn()
			}
		}
		if e.config.EmitRate > 0 {
			e.emitAccum += e.config.EmitRate * secs
			for e.emitAccum >= 1 {
				e.emitAccum--
				e.spawn()
			}
		}
		if e.config.Limit > 0 && e.spawned >= e.config.Limit {
			e.active = false
		}
	}

	if !e.active && e.alive == 0 && e.spawned > 0 {
		e.done.Resolve()
	}
}

func (e *Emitter) random(r Range) float64 {
	if r.Min == r.Max || e.config.Rand == nil {
		return r.Random()
	}
	return r.Min + e.config.Rand.Float64()*(r.Max-r.Min)
}

func (e *Emitter) spawn() {
	if e.alive >= len(e.particles) {
		return
	}
	if e.config.Limit > 0 && e.spawned >= e.config.Limit {
		return
	}
	p := &e.particles[e.alive]

	angle := degToRad(e.random(e.config.Angle))
	speed := e.random(e.config.Speed)
	p.vx = math.Cos(angle) * speed
	p.vy = math.Sin(angle) * speed
	p.x = e.random(Range{Max: e.config.W})
	p.y = e.random(Range{Max: e.config.H})

	p.life = e.random(e.config.Lifetime)
	if p.life <= 0 {
		p.life = 1000
	}
	p.maxLife = p.life

	p.startScale = e.random(e.config.StartScale)
	p.endScale = e.random(e.config.EndScale)
	p.scale = p.startScale
	p.startAlpha = e.random(e.config.StartAlpha)
	p.endAlpha = e.random(e.config.EndAlpha)
	p.alpha = p.startAlpha
	if e.config.FadeIn > 0 {
		p.alpha = 0
	}
	p.region = e.pickRegion()

	e.alive++
	e.spawned++
}

func (e *Emitter) pickRegion() Region {
	src := e.config.Source
	if src == nil || src.Len() == 0 {
		return Region{}
	}
	var i int
	if n := len(e.config.Regions); n > 0 {
		i = e.config.Regions[e.intN(n)]
	} else {
		i = e.intN(src.Len())
	}
	r, _ := src.Region(i)
	return r
}

func (e *Emitter) intN(n int) int {
	if e.config.Rand != nil {
		return e.config.Rand.IntN(n)
	}
	return rand.IntN(n)
}

// Draw draws every alive particle centered on its position.
func (e *Emitter) Draw(s Surface) {
	e.applyTransform(s)
	base := s.Alpha()
	for i := 0; i < e.alive; i++ {
		p := &e.particles[i]
		r := p.region
		if r.Image == nil || p.alpha <= 0 {
			continue
		}
		w, h := float64(r.W)*p.scale, float64(r.H)*p.scale
		s.SetAlpha(base * clamp01(p.alpha))
		s.DrawImage(r.Image, r.Rect(), Rect{X: p.x - w/2, Y: p.y - h/2, W: w, H: h})
	}
	s.SetAlpha(base)
	if e.DebugDrawing {
		s.StrokeRect(Rect{W: e.config.W, H: e.config.H}, Color{1, 0, 0, 1}, 1)
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Random returns a random value in [Min, Max].
func (r Range) Random() float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rand.Float64()*(r.Max-r.Min)
}
