// Package ecs provides ECS adapters for planar.
package ecs

import (
	"github.com/lunarforge/planar"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// BodyEventType is the Donburi event type for planar body lifecycle events.
// Subscribe to this in your ECS systems to track bodies joining and leaving
// a space.
var BodyEventType = events.NewEventType[planar.BodyEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventStore backed by a Donburi world.
// Body events are published to BodyEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) planar.EventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event planar.BodyEvent) {
	BodyEventType.Publish(s.world, event)
}
