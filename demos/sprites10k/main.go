// sprites10k spawns 10,000 sprites that rotate, scale, fade and bounce around
// the screen. A stress test for the frame scheduler and draw scan.
package main

import (
	"log"
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/gamekit"
)

const (
	screenW = 1280
	screenH = 720
	count   = 10_000
	size    = 128
)

// bouncer is a sprite that moves itself every frame.
type bouncer struct {
	*gamekit.Sprite
	dx, dy     float64
	rotSpeed   float64
	scaleSpeed float64
	scaleBase  float64
	scaleAmp   float64
	alphaSpeed float64
	phase      float64
}

func (b *bouncer) Update() {
	now, _ := b.Core().LastRunTime()
	t := now / 1000

	b.X += b.dx
	b.Y += b.dy
	half := b.scaleBase * size / 2
	if b.X < -half {
		b.X = -half
		b.dx = -b.dx
	} else if b.X > screenW-half {
		b.X = screenW - half
		b.dx = -b.dx
	}
	if b.Y < -half {
		b.Y = -half
		b.dy = -b.dy
	} else if b.Y > screenH-half {
		b.Y = screenH - half
		b.dy = -b.dy
	}

	b.Rotation += b.rotSpeed
	sc := b.scaleBase + b.scaleAmp*math.Sin(t*b.scaleSpeed+b.phase)
	b.SetScale(sc, sc)
	// Stay above zero so the sprite is never culled.
	b.Alpha = 0.55 + 0.45*math.Sin(t*b.alphaSpeed+b.phase)
}

func main() {
	err := gamekit.Run(gamekit.RunConfig{
		Title:         "gamekit: 10k Sprites",
		Width:         screenW,
		Height:        screenH,
		ShowFPS:       true,
		Background:    gamekit.Color{R: 0.06, G: 0.06, B: 0.09, A: 1},
		ScreenshotDir: "docs/demos/sprites10k",
	}, setup)
	if err != nil {
		log.Fatal(err)
	}
}

func setup(c *gamekit.Core) error {
	img := ebiten.NewImage(size, size)
	img.Fill(gamekit.Color{R: 0.9, G: 0.5, B: 0.2, A: 1}.RGBA())
	src := gamekit.PlainSource(img)

	for range count {
		sp, err := gamekit.NewSprite(src, 0)
		if err != nil {
			return err
		}
		sp.OriginX, sp.OriginY = size/2, size/2
		sp.SetPosition(rand.Float64()*screenW, rand.Float64()*screenH)
		base := 0.15 + rand.Float64()*0.2
		sp.SetScale(base, base)
		c.Attach(&bouncer{
			Sprite:     sp,
			dx:         (rand.Float64() - 0.5) * 4,
			dy:         (rand.Float64() - 0.5) * 4,
			rotSpeed:   (rand.Float64() - 0.5) * 4.5,
			scaleSpeed: 1 + rand.Float64()*2,
			scaleBase:  base,
			scaleAmp:   0.03 + rand.Float64()*0.07,
			alphaSpeed: 0.5 + rand.Float64()*2,
			phase:      rand.Float64() * math.Pi * 2,
		})
	}

	// Capture a thumbnail once the scene has settled.
	shot := c.Timer(500)
	shot.Next().Then(func(...any) any {
		shot.Disable()
		c.Screenshot("thumbnail")
		return nil
	}, nil)
	return nil
}
