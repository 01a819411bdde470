package quill

import (
	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/contact"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	COLLISION_ENTER EventType = iota
	COLLISION_STAY
	COLLISION_EXIT
	ON_SLEEP
	ON_WAKE
	OUT_OF_BOUNDS
)

type pairKey struct {
	bodyA actor.BodyID
	bodyB actor.BodyID
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(bodyA, bodyB actor.BodyID) pairKey {
	if bodyB < bodyA {
		bodyA, bodyB = bodyB, bodyA
	}
	return pairKey{bodyA: bodyA, bodyB: bodyB}
}

type EventType uint8

// Event interface - all events implement this. Events carry body ids,
// not pointers; resolve them through World.Body and expect the lookup
// to fail for bodies removed since the event fired.
type Event interface {
	Type() EventType
}

// Collision events
type CollisionEnterEvent struct {
	BodyA actor.BodyID
	BodyB actor.BodyID
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

type CollisionStayEvent struct {
	BodyA actor.BodyID
	BodyB actor.BodyID
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

type CollisionExitEvent struct {
	BodyA actor.BodyID
	BodyB actor.BodyID
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// Sleep/Wake events
type SleepEvent struct {
	Body actor.BodyID
}

func (e SleepEvent) Type() EventType { return ON_SLEEP }

type WakeEvent struct {
	Body actor.BodyID
}

func (e WakeEvent) Type() EventType { return ON_WAKE }

// OutOfBoundsEvent reports a body crossing the world bounds, with the
// position it had when the crossing was observed.
type OutOfBoundsEvent struct {
	Body      actor.BodyID
	Position  mgl64.Vec2
	Violation BoundsViolation
}

func (e OutOfBoundsEvent) Type() EventType { return OUT_OF_BOUNDS }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager. Listeners run synchronously at the end of Step; a
// listener must not call back into the World's mutators except
// MarkForRemoval.
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Collision tracking for Enter/Stay/Exit detection
	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]bool

	sleepStates map[actor.BodyID]bool
}

func NewEvents() *Events {
	return &Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]bool),
		sleepStates:         make(map[actor.BodyID]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordContacts marks the contact pairs seen during a substep
func (e *Events) recordContacts(contacts []contact.Contact) {
	for _, c := range contacts {
		e.currentActivePairs[makePairKey(c.BodyA, c.BodyB)] = true
	}
}

// emitBounds buffers an out-of-bounds event (called from enforceBounds)
func (e *Events) emitBounds(body actor.BodyID, position mgl64.Vec2, violation BoundsViolation) {
	e.buffer = append(e.buffer, OutOfBoundsEvent{Body: body, Position: position, Violation: violation})
}

// processCollisionEvents compares current and previous pairs to detect
// Enter/Stay/Exit. Should be called once after all substeps. isResting
// reports bodies that cannot move, so settled pairs stop emitting.
func (e *Events) processCollisionEvents(isResting func(actor.BodyID) bool) {
	// Detect Enter and Stay events
	for pair := range e.currentActivePairs {
		// Skip if both bodies are at rest, to avoid spamming events
		if isResting(pair.bodyA) && isResting(pair.bodyB) {
			continue
		}

		if e.previousActivePairs[pair] {
			// Pair was active before and still is, Stay
			e.buffer = append(e.buffer, CollisionStayEvent{
				BodyA: pair.bodyA,
				BodyB: pair.bodyB,
			})
		} else {
			// New pair, Enter
			e.buffer = append(e.buffer, CollisionEnterEvent{
				BodyA: pair.bodyA,
				BodyB: pair.bodyB,
			})
		}
	}

	// Detect Exit events
	for pair := range e.previousActivePairs {
		if e.currentActivePairs[pair] {
			continue
		}
		// A pair where both bodies rest was skipped by detection, not
		// separated; keep it active so waking resumes with Stay
		if isResting(pair.bodyA) && isResting(pair.bodyB) {
			e.currentActivePairs[pair] = true
			continue
		}
		// Pair was active but is no longer, Exit
		e.buffer = append(e.buffer, CollisionExitEvent{
			BodyA: pair.bodyA,
			BodyB: pair.bodyB,
		})
	}

	// Swap for next frame and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

func (e *Events) processSleepEvents(bodies []*actor.RigidBody) {
	for _, body := range bodies {
		trackedState, exists := e.sleepStates[body.ID]
		if !exists {
			e.sleepStates[body.ID] = body.IsSleeping
			continue
		}

		if !trackedState && body.IsSleeping {
			e.buffer = append(e.buffer, SleepEvent{Body: body.ID})
			e.sleepStates[body.ID] = true
		} else if trackedState && !body.IsSleeping {
			e.buffer = append(e.buffer, WakeEvent{Body: body.ID})
			e.sleepStates[body.ID] = false
		}
	}
}

// dropBody forgets all tracking state for a removed body without
// emitting events for it
func (e *Events) dropBody(id actor.BodyID) {
	delete(e.sleepStates, id)
	for pair := range e.previousActivePairs {
		if pair.bodyA == id || pair.bodyB == id {
			delete(e.previousActivePairs, pair)
		}
	}
	for pair := range e.currentActivePairs {
		if pair.bodyA == id || pair.bodyB == id {
			delete(e.currentActivePairs, pair)
		}
	}
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
