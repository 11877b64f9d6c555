package ecs

import (
	"github.com/phanxgames/catkin"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// GestureEventType is the Donburi event type for catkin gesture events.
// Subscribe to this in your ECS systems to receive taps, pans, flings and
// pinches recognized on entity-backed nodes.
var GestureEventType = events.NewEventType[catkin.GestureEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Gesture events are published to GestureEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) catkin.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitGesture(event catkin.GestureEvent) {
	GestureEventType.Publish(s.world, event)
}
