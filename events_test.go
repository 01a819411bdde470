package quill

import (
	"testing"

	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/contact"
	"github.com/go-gl/mathgl/mgl64"
)

// newTestBody creates a minimal RigidBody for sleep event testing
func newTestBody(id actor.BodyID, isSleeping bool) *actor.RigidBody {
	rb := actor.NewRigidBody(id, actor.BodyTypeDynamic, mgl64.Vec2{}, actor.Circle{Radius: 1.0}, 1.0)
	rb.IsSleeping = isSleeping
	return rb
}

// newTestContact creates a Contact between two body ids for testing
func newTestContact(bodyA, bodyB actor.BodyID) contact.Contact {
	return contact.Contact{
		BodyA:       bodyA,
		BodyB:       bodyB,
		Point:       mgl64.Vec2{},
		Normal:      mgl64.Vec2{1, 0},
		Penetration: 0.1,
	}
}

// noSleep reports every body as awake
func noSleep(actor.BodyID) bool { return false }

// sleepingSet reports the given ids as sleeping
func sleepingSet(ids ...actor.BodyID) func(actor.BodyID) bool {
	set := make(map[actor.BodyID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(id actor.BodyID) bool { return set[id] }
}

type eventCapture struct {
	events []Event
}

func (ec *eventCapture) capture(event Event) {
	ec.events = append(ec.events, event)
}

func (ec *eventCapture) reset() {
	ec.events = ec.events[:0]
}

func (ec *eventCapture) count() int {
	return len(ec.events)
}

func (ec *eventCapture) hasEventType(eventType EventType) bool {
	for _, e := range ec.events {
		if e.Type() == eventType {
			return true
		}
	}
	return false
}

// =============================================================================
// Subscribe and Listeners Tests
// =============================================================================

func TestEvents_Subscribe(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}

	events.Subscribe(COLLISION_ENTER, capture.capture)

	// Verify listener is registered
	if len(events.listeners[COLLISION_ENTER]) != 1 {
		t.Errorf("Expected 1 listener for COLLISION_ENTER, got %d", len(events.listeners[COLLISION_ENTER]))
	}
}

func TestEvents_MultipleListeners(t *testing.T) {
	events := NewEvents()
	capture1 := &eventCapture{}
	capture2 := &eventCapture{}
	capture3 := &eventCapture{}

	// Subscribe multiple listeners to the same event type
	events.Subscribe(COLLISION_ENTER, capture1.capture)
	events.Subscribe(COLLISION_ENTER, capture2.capture)
	events.Subscribe(COLLISION_ENTER, capture3.capture)

	// Verify all listeners are registered
	if len(events.listeners[COLLISION_ENTER]) != 3 {
		t.Errorf("Expected 3 listeners for COLLISION_ENTER, got %d", len(events.listeners[COLLISION_ENTER]))
	}

	// Trigger an event
	events.recordContacts([]contact.Contact{newTestContact(1, 2)})
	events.processCollisionEvents(noSleep)
	events.flush()

	// All listeners should have received the event
	if capture1.count() != 1 {
		t.Errorf("Capture1 expected 1 event, got %d", capture1.count())
	}
	if capture2.count() != 1 {
		t.Errorf("Capture2 expected 1 event, got %d", capture2.count())
	}
	if capture3.count() != 1 {
		t.Errorf("Capture3 expected 1 event, got %d", capture3.count())
	}
}

func TestEvents_DifferentEventTypes(t *testing.T) {
	events := NewEvents()
	captureEnter := &eventCapture{}
	captureExit := &eventCapture{}

	events.Subscribe(COLLISION_ENTER, captureEnter.capture)
	events.Subscribe(COLLISION_EXIT, captureExit.capture)

	// Trigger a collision enter
	events.recordContacts([]contact.Contact{newTestContact(1, 2)})
	events.processCollisionEvents(noSleep)
	events.flush()

	// Only the enter listener should receive the event
	if captureEnter.count() != 1 {
		t.Errorf("Enter capture expected 1 event, got %d", captureEnter.count())
	}
	if captureExit.count() != 0 {
		t.Errorf("Exit capture expected 0 events, got %d", captureExit.count())
	}
}

// =============================================================================
// makePairKey Tests
// =============================================================================

func TestMakePairKey_Normalization(t *testing.T) {
	// Create pairs in both orders
	pairAB := makePairKey(1, 2)
	pairBA := makePairKey(2, 1)

	// Pairs should be identical (normalized)
	if pairAB != pairBA {
		t.Error("makePairKey should normalize pairs to consistent ordering")
	}
}

func TestMakePairKey_DifferentPairs(t *testing.T) {
	pairAB := makePairKey(1, 2)
	pairAC := makePairKey(1, 3)

	// Different pairs should have different keys
	if pairAB == pairAC {
		t.Error("makePairKey should produce different keys for different pairs")
	}
}

// =============================================================================
// recordContacts Tests
// =============================================================================

func TestEvents_RecordContacts(t *testing.T) {
	events := NewEvents()

	events.recordContacts([]contact.Contact{newTestContact(1, 2)})

	// Pair should be recorded
	if !events.currentActivePairs[makePairKey(1, 2)] {
		t.Error("Contact pair should be recorded in currentActivePairs")
	}
}

func TestEvents_RecordContacts_DuplicateSubsteps(t *testing.T) {
	events := NewEvents()

	// The same pair seen in several substeps collapses to one entry
	c := newTestContact(1, 2)
	events.recordContacts([]contact.Contact{c})
	events.recordContacts([]contact.Contact{c})
	events.recordContacts([]contact.Contact{c})

	if len(events.currentActivePairs) != 1 {
		t.Errorf("Expected 1 recorded pair, got %d", len(events.currentActivePairs))
	}
}

// =============================================================================
// COLLISION Events Tests
// =============================================================================

func TestEvents_CollisionEnter(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(COLLISION_ENTER, capture.capture)

	// First frame: new contact
	events.recordContacts([]contact.Contact{newTestContact(1, 2)})
	events.processCollisionEvents(noSleep)
	events.flush()

	// Should receive COLLISION_ENTER event
	if !capture.hasEventType(COLLISION_ENTER) {
		t.Error("Expected COLLISION_ENTER event")
	}

	if capture.count() != 1 {
		t.Errorf("Expected 1 event, got %d", capture.count())
	}

	// Verify event contents
	event := capture.events[0].(CollisionEnterEvent)
	if event.BodyA != 1 || event.BodyB != 2 {
		t.Errorf("Expected bodies 1 and 2, got %d and %d", event.BodyA, event.BodyB)
	}
}

func TestEvents_CollisionStay(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(COLLISION_STAY, capture.capture)

	c := newTestContact(1, 2)

	// Frame 1: Enter (should not trigger STAY)
	events.recordContacts([]contact.Contact{c})
	events.processCollisionEvents(noSleep)
	events.flush()

	if capture.hasEventType(COLLISION_STAY) {
		t.Error("COLLISION_STAY should not occur on first frame")
	}

	capture.reset()

	// Frame 2: Stay
	events.recordContacts([]contact.Contact{c})
	events.processCollisionEvents(noSleep)
	events.flush()

	// Should receive COLLISION_STAY event
	if !capture.hasEventType(COLLISION_STAY) {
		t.Error("Expected COLLISION_STAY event on second frame")
	}
}

func TestEvents_CollisionExit(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(COLLISION_EXIT, capture.capture)

	// Frame 1: Enter
	events.recordContacts([]contact.Contact{newTestContact(1, 2)})
	events.processCollisionEvents(noSleep)
	events.flush()

	capture.reset()

	// Frame 2: Exit (no contact)
	events.recordContacts(nil)
	events.processCollisionEvents(noSleep)
	events.flush()

	// Should receive COLLISION_EXIT event
	if !capture.hasEventType(COLLISION_EXIT) {
		t.Error("Expected COLLISION_EXIT event")
	}
}

func TestEvents_CollisionStay_SleepingBodies(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(COLLISION_STAY, capture.capture)

	c := newTestContact(1, 2)

	// Frame 1: Enter, both awake
	events.recordContacts([]contact.Contact{c})
	events.processCollisionEvents(noSleep)
	events.flush()

	capture.reset()

	// Frame 2: Stay, but both bodies now sleep
	events.recordContacts([]contact.Contact{c})
	events.processCollisionEvents(sleepingSet(1, 2))
	events.flush()

	// Should NOT receive COLLISION_STAY when both bodies are sleeping
	if capture.hasEventType(COLLISION_STAY) {
		t.Error("COLLISION_STAY should not occur when both bodies are sleeping")
	}
}

func TestEvents_SleepingPair_NoSpuriousExit(t *testing.T) {
	events := NewEvents()
	captureExit := &eventCapture{}
	captureStay := &eventCapture{}
	events.Subscribe(COLLISION_EXIT, captureExit.capture)
	events.Subscribe(COLLISION_STAY, captureStay.capture)

	c := newTestContact(1, 2)

	// Frame 1: Enter, both awake
	events.recordContacts([]contact.Contact{c})
	events.processCollisionEvents(noSleep)
	events.flush()

	// Frame 2: detection skipped the sleeping pair, so no contact was
	// recorded; the pair must not exit while both bodies sleep
	events.recordContacts(nil)
	events.processCollisionEvents(sleepingSet(1, 2))
	events.flush()

	if captureExit.hasEventType(COLLISION_EXIT) {
		t.Error("Sleeping pair should not emit COLLISION_EXIT")
	}

	// Frame 3: bodies woke and detection sees the pair again; the
	// resting contact resumes as Stay, not Enter
	events.recordContacts([]contact.Contact{c})
	events.processCollisionEvents(noSleep)
	events.flush()

	if !captureStay.hasEventType(COLLISION_STAY) {
		t.Error("Woken resting pair should resume with COLLISION_STAY")
	}
}

// =============================================================================
// Sleep/Wake Events Tests
// =============================================================================

func TestEvents_OnSleep(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(ON_SLEEP, capture.capture)

	// Body starts awake
	body := newTestBody(1, false)
	bodies := []*actor.RigidBody{body}

	// Frame 1: Initialize state
	events.processSleepEvents(bodies)
	events.flush()

	// No event on initialization
	if capture.count() != 0 {
		t.Errorf("Expected no events on initialization, got %d", capture.count())
	}

	// Frame 2: Body goes to sleep
	body.IsSleeping = true
	events.processSleepEvents(bodies)
	events.flush()

	// Should receive ON_SLEEP event
	if !capture.hasEventType(ON_SLEEP) {
		t.Error("Expected ON_SLEEP event")
	}

	if capture.count() != 1 {
		t.Errorf("Expected 1 event, got %d", capture.count())
	}

	// Verify event contents
	event := capture.events[0].(SleepEvent)
	if event.Body != body.ID {
		t.Error("SleepEvent should carry the correct body id")
	}
}

func TestEvents_OnWake(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(ON_WAKE, capture.capture)

	// Body starts sleeping
	body := newTestBody(1, true)
	bodies := []*actor.RigidBody{body}

	// Frame 1: Initialize state
	events.processSleepEvents(bodies)
	events.flush()

	// No event on initialization
	if capture.count() != 0 {
		t.Errorf("Expected no events on initialization, got %d", capture.count())
	}

	// Frame 2: Body wakes up
	body.IsSleeping = false
	events.processSleepEvents(bodies)
	events.flush()

	// Should receive ON_WAKE event
	if !capture.hasEventType(ON_WAKE) {
		t.Error("Expected ON_WAKE event")
	}

	if capture.count() != 1 {
		t.Errorf("Expected 1 event, got %d", capture.count())
	}

	// Verify event contents
	event := capture.events[0].(WakeEvent)
	if event.Body != body.ID {
		t.Error("WakeEvent should carry the correct body id")
	}
}

func TestEvents_NoSleepEvent_AlreadySleeping(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(ON_SLEEP, capture.capture)

	// Body starts sleeping
	body := newTestBody(1, true)
	bodies := []*actor.RigidBody{body}

	// Frame 1: Initialize
	events.processSleepEvents(bodies)
	events.flush()

	capture.reset()

	// Frame 2: Still sleeping
	events.processSleepEvents(bodies)
	events.flush()

	// Should NOT receive ON_SLEEP event (already sleeping)
	if capture.hasEventType(ON_SLEEP) {
		t.Error("Should not receive ON_SLEEP when body is already sleeping")
	}
}

func TestEvents_NoWakeEvent_AlreadyAwake(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(ON_WAKE, capture.capture)

	// Body starts awake
	body := newTestBody(1, false)
	bodies := []*actor.RigidBody{body}

	// Frame 1: Initialize
	events.processSleepEvents(bodies)
	events.flush()

	capture.reset()

	// Frame 2: Still awake
	events.processSleepEvents(bodies)
	events.flush()

	// Should NOT receive ON_WAKE event (already awake)
	if capture.hasEventType(ON_WAKE) {
		t.Error("Should not receive ON_WAKE when body is already awake")
	}
}

// =============================================================================
// Out of Bounds Events Tests
// =============================================================================

func TestEvents_OutOfBounds(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(OUT_OF_BOUNDS, capture.capture)

	events.emitBounds(7, mgl64.Vec2{12, 0}, BoundsViolation{Edge: EdgeRight, Overshoot: 2.0})
	events.flush()

	if capture.count() != 1 {
		t.Fatalf("Expected 1 event, got %d", capture.count())
	}

	event := capture.events[0].(OutOfBoundsEvent)
	if event.Body != 7 {
		t.Errorf("Expected body 7, got %d", event.Body)
	}
	if event.Violation.Edge != EdgeRight {
		t.Errorf("Expected edge %v, got %v", EdgeRight, event.Violation.Edge)
	}
	if event.Violation.Overshoot != 2.0 {
		t.Errorf("Expected overshoot 2.0, got %v", event.Violation.Overshoot)
	}
}

// =============================================================================
// Integration Tests
// =============================================================================

func TestEvents_CompleteWorkflow(t *testing.T) {
	events := NewEvents()
	captureEnter := &eventCapture{}
	captureStay := &eventCapture{}
	captureExit := &eventCapture{}

	events.Subscribe(COLLISION_ENTER, captureEnter.capture)
	events.Subscribe(COLLISION_STAY, captureStay.capture)
	events.Subscribe(COLLISION_EXIT, captureExit.capture)

	c := newTestContact(1, 2)

	// Frame 1: Enter
	events.recordContacts([]contact.Contact{c})
	events.processCollisionEvents(noSleep)
	events.flush()

	if captureEnter.count() != 1 {
		t.Errorf("Frame 1: Expected 1 ENTER event, got %d", captureEnter.count())
	}
	if captureStay.count() != 0 {
		t.Errorf("Frame 1: Expected 0 STAY events, got %d", captureStay.count())
	}
	if captureExit.count() != 0 {
		t.Errorf("Frame 1: Expected 0 EXIT events, got %d", captureExit.count())
	}

	// Frame 2: Stay
	captureEnter.reset()
	events.recordContacts([]contact.Contact{c})
	events.processCollisionEvents(noSleep)
	events.flush()

	if captureEnter.count() != 0 {
		t.Errorf("Frame 2: Expected 0 ENTER events, got %d", captureEnter.count())
	}
	if captureStay.count() != 1 {
		t.Errorf("Frame 2: Expected 1 STAY event, got %d", captureStay.count())
	}
	if captureExit.count() != 0 {
		t.Errorf("Frame 2: Expected 0 EXIT events, got %d", captureExit.count())
	}

	// Frame 3: Exit
	captureStay.reset()
	events.recordContacts(nil)
	events.processCollisionEvents(noSleep)
	events.flush()

	if captureEnter.count() != 0 {
		t.Errorf("Frame 3: Expected 0 ENTER events, got %d", captureEnter.count())
	}
	if captureStay.count() != 0 {
		t.Errorf("Frame 3: Expected 0 STAY events, got %d", captureStay.count())
	}
	if captureExit.count() != 1 {
		t.Errorf("Frame 3: Expected 1 EXIT event, got %d", captureExit.count())
	}
}

func TestEvents_SleepWakeWorkflow(t *testing.T) {
	events := NewEvents()
	captureSleep := &eventCapture{}
	captureWake := &eventCapture{}

	events.Subscribe(ON_SLEEP, captureSleep.capture)
	events.Subscribe(ON_WAKE, captureWake.capture)

	body := newTestBody(1, false)
	bodies := []*actor.RigidBody{body}

	// Frame 1: Initialize (awake)
	events.processSleepEvents(bodies)
	events.flush()

	if captureSleep.count() != 0 || captureWake.count() != 0 {
		t.Error("Expected no events on initialization")
	}

	// Frame 2: Go to sleep
	body.IsSleeping = true
	events.processSleepEvents(bodies)
	events.flush()

	if captureSleep.count() != 1 {
		t.Errorf("Expected 1 ON_SLEEP event, got %d", captureSleep.count())
	}

	// Frame 3: Wake up
	captureSleep.reset()
	body.IsSleeping = false
	events.processSleepEvents(bodies)
	events.flush()

	if captureWake.count() != 1 {
		t.Errorf("Expected 1 ON_WAKE event, got %d", captureWake.count())
	}
}

func TestEvents_Flush_ClearsBuffer(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(COLLISION_ENTER, capture.capture)

	// Add events to buffer
	events.recordContacts([]contact.Contact{newTestContact(1, 2)})
	events.processCollisionEvents(noSleep)
	events.flush()

	// Buffer should be cleared after flush
	if len(events.buffer) != 0 {
		t.Errorf("Expected buffer to be empty after flush, got %d events", len(events.buffer))
	}

	// Listener should have received the event
	if capture.count() != 1 {
		t.Errorf("Expected 1 event received, got %d", capture.count())
	}
}

// =============================================================================
// Edge Cases Tests
// =============================================================================

func TestEvents_EmptyBuffer_Flush(t *testing.T) {
	events := NewEvents()

	// Flush with empty buffer should not crash
	events.flush()
}

func TestEvents_NoListeners(t *testing.T) {
	events := NewEvents()

	// Process events without any listeners
	events.recordContacts([]contact.Contact{newTestContact(1, 2)})
	events.processCollisionEvents(noSleep)
	events.flush()
}

func TestEvents_MultipleFrames_EnterExitEnter(t *testing.T) {
	events := NewEvents()
	captureEnter := &eventCapture{}
	captureExit := &eventCapture{}

	events.Subscribe(COLLISION_ENTER, captureEnter.capture)
	events.Subscribe(COLLISION_EXIT, captureExit.capture)

	c := newTestContact(1, 2)

	// Frame 1: Enter
	events.recordContacts([]contact.Contact{c})
	events.processCollisionEvents(noSleep)
	events.flush()

	if captureEnter.count() != 1 {
		t.Error("Expected ENTER on frame 1")
	}

	// Frame 2: Exit
	captureEnter.reset()
	events.recordContacts(nil)
	events.processCollisionEvents(noSleep)
	events.flush()

	if captureExit.count() != 1 {
		t.Error("Expected EXIT on frame 2")
	}

	// Frame 3: Enter again
	captureExit.reset()
	events.recordContacts([]contact.Contact{c})
	events.processCollisionEvents(noSleep)
	events.flush()

	if captureEnter.count() != 1 {
		t.Error("Expected ENTER again on frame 3")
	}
}

func TestEvents_DropBody_ClearsTracking(t *testing.T) {
	events := NewEvents()
	captureExit := &eventCapture{}
	events.Subscribe(COLLISION_EXIT, captureExit.capture)

	body := newTestBody(1, false)

	// Establish an active pair and a tracked sleep state
	events.recordContacts([]contact.Contact{newTestContact(1, 2)})
	events.processCollisionEvents(noSleep)
	events.processSleepEvents([]*actor.RigidBody{body})
	events.flush()

	events.dropBody(1)

	if len(events.previousActivePairs) != 0 {
		t.Error("dropBody should remove pairs involving the body")
	}
	if _, tracked := events.sleepStates[1]; tracked {
		t.Error("dropBody should forget the body's sleep state")
	}

	// The dropped pair must not produce an exit event later
	events.recordContacts(nil)
	events.processCollisionEvents(noSleep)
	events.flush()

	if captureExit.count() != 0 {
		t.Errorf("Expected no EXIT events after dropBody, got %d", captureExit.count())
	}
}
