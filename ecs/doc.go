// Package ecs bridges gamekit input events into a [Donburi] world.
//
// [NewDonburiStore] returns a gamekit.EventSink that publishes every
// forwarded event to [InteractionEventType]. Entities bound with
// [Store.Bind] get an EntityID, so pointer events on them are forwarded and
// can be mapped back to their Donburi entity.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	core.SetEventSink(store)
//	store.Bind(&sprite.Entity, world.Create(Player))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
