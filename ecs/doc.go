// Package ecs provides ECS adapters for catkin's gesture events.
//
// The primary adapter is [NewDonburiStore], which bridges gestures recognized
// on nodes with an EntityID (tap, long press, fling, pan, zoom, pinch) into a
// [Donburi] world as typed events. Subscribe to [GestureEventType] in your
// ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	stage.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
