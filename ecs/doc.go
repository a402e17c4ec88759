// Package ecs provides ECS adapters for planar's body event system.
//
// The primary adapter is [NewDonburiStore], which bridges planar body
// lifecycle events (added, ready, removed) into a [Donburi] world as typed
// events. Subscribe to [BodyEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	space.SetEventStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
