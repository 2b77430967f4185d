// Package gamekit is a small 2D game toolkit for Ebitengine built around
// promises and a frame-driven tween queue.
//
// # Quick start
//
// The simplest way to get started is [Run], which opens a window, creates a
// [Core] and starts its frame loop:
//
//	gamekit.Run(gamekit.RunConfig{Title: "My Game", Width: 640, Height: 480},
//		func(c *gamekit.Core) error {
//			box, _ := gamekit.NewSprite(gamekit.PlainSource(img), 0)
//			c.Attach(box)
//			box.Tween(gamekit.Props{"x": "+=100"}, 500)
//			return nil
//		})
//
// For full control, create a [Core] with your own [FrameTrigger] and
// [Surface]. [ManualTrigger] drives frames by hand, which is how the package
// tests run.
//
// # Frames
//
// Each frame the Core drains work posted with [Core.Post], feeds injected
// input, runs the before-frame hook, clears the screen, updates every queued
// tween and timer, then updates and draws every visible layer bottom to top.
// Entities flagged with [Entity.Destroy] are skipped and removed during the
// same frame.
//
// # Promises
//
// A [Promise] settles at most once. Continuations attached with
// [Promise.Then] run synchronously, and a continuation returning a promise
// holds its child until that promise settles. [Chain] and [Parallel] compose
// zero-argument [Step] functions such as those returned by
// [Entity.PrepareTween]:
//
//	gamekit.Chain(
//		hero.PrepareTween(gamekit.Props{"x": 200}, 400),
//		c.Wait(250),
//		hero.PrepareTween(gamekit.Props{"alpha": 0}, 300),
//	)()
//
// # Entities
//
// [Sprite], [Label], [Group], [TileGrid], [TileMap], [Emitter] and
// [PointerArea] embed [Entity], which carries the position, origin,
// rotation in degrees, scale and alpha applied when drawing. Custom numeric
// properties registered with [Entity.DefineProp] can be tweened by name.
//
// # Tiles and paths
//
// [TileGrid] stores tile indexes by column and row; [FindPath] searches a
// [Grid] along the four axes, avoiding chosen tile indexes. [ParseTiledMap]
// and [NewTiledTileMap] read Tiled JSON maps.
//
// # Assets
//
// [Loader] reads images off the frame goroutine and turns them into
// [SpriteSource] values: plain images, sprite maps named like
// "tiles.smap.32x32.png" and atlases named like "ui.atlas.png" with a
// "ui.atlas.json" beside them.
package gamekit
