// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	SimulationStarted Type = "simulation_started"
	SimulationStopped Type = "simulation_stopped"
	WallBounce        Type = "wall_bounce"
	PlayerContact     Type = "player_contact"
	BallContact       Type = "ball_contact"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler
type Subscription struct {
	ID     uint64
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching.
// Handlers run synchronously on the publishing goroutine.
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			// Copy so a concurrent Publish keeps its snapshot intact
			remaining := make([]subscriber, 0, len(subs)-1)
			remaining = append(remaining, subs[:i]...)
			remaining = append(remaining, subs[i+1:]...)
			b.handlers[eventType] = remaining
			return
		}
	}
}

// HasSubscribers reports whether any handler listens for eventType
func (b *Bus) HasSubscribers(eventType Type) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType]) > 0
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// Specific event implementations

// WallEvent reports a ball reflecting off an arena wall
type WallEvent struct {
	BaseEvent
	EntityID uint64
	Wall     string
	X, Y     float64
}

// NewWallEvent creates a new wall bounce event
func NewWallEvent(source interface{}, entityID uint64, wall string, x, y float64) *WallEvent {
	return &WallEvent{
		BaseEvent: BaseEvent{
			EventType: WallBounce,
			Source:    source,
		},
		EntityID: entityID,
		Wall:     wall,
		X:        x,
		Y:        y,
	}
}

// ContactEvent reports a resolved impulse between two bodies
type ContactEvent struct {
	BaseEvent
	EntityA      uint64
	EntityB      uint64
	NormalX      float64
	NormalY      float64
	ClosingSpeed float64
	Impulse      float64
}

// NewContactEvent creates a player or ball contact event
func NewContactEvent(eventType Type, source interface{}, entityA, entityB uint64, normalX, normalY, closing, impulse float64) *ContactEvent {
	return &ContactEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		EntityA:      entityA,
		EntityB:      entityB,
		NormalX:      normalX,
		NormalY:      normalY,
		ClosingSpeed: closing,
		Impulse:      impulse,
	}
}

// LifecycleEvent reports the simulation starting or stopping
type LifecycleEvent struct {
	BaseEvent
	Tick    uint64
	Elapsed float64
}

// NewLifecycleEvent creates a started or stopped event
func NewLifecycleEvent(eventType Type, source interface{}, tick uint64, elapsed float64) *LifecycleEvent {
	return &LifecycleEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Tick:    tick,
		Elapsed: elapsed,
	}
}
