package ecs

import (
	"github.com/phanxgames/gamekit"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for gamekit input events.
var InteractionEventType = events.NewEventType[gamekit.InteractionEvent]()

// Store publishes gamekit input events into a Donburi world and maps
// gamekit entity IDs to Donburi entities.
type Store struct {
	world  donburi.World
	ids    map[uint32]donburi.Entity
	nextID uint32
}

// NewDonburiStore creates a Store backed by world. Events are queued on
// InteractionEventType and delivered by ProcessEvents.
func NewDonburiStore(world donburi.World) *Store {
	return &Store{world: world, ids: make(map[uint32]donburi.Entity)}
}

// EmitEvent implements gamekit.EventSink.
func (s *Store) EmitEvent(event gamekit.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// Bind gives e an EntityID linked to entity and returns it. An entity that
// already has an ID keeps it.
func (s *Store) Bind(e *gamekit.Entity, entity donburi.Entity) uint32 {
	if e.EntityID == 0 {
		s.nextID++
		e.EntityID = s.nextID
	}
	s.ids[e.EntityID] = entity
	return e.EntityID
}

// Unbind drops the link for id.
func (s *Store) Unbind(id uint32) {
	delete(s.ids, id)
}

// Entity returns the Donburi entity bound to id, if it is still alive.
func (s *Store) Entity(id uint32) (donburi.Entity, bool) {
	entity, ok := s.ids[id]
	if !ok || !s.world.Valid(entity) {
		return entity, false
	}
	return entity, true
}
