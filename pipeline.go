package quill

import (
	"math"

	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/contact"
)

// Step advances the simulation by dt seconds. The step is split into
// fixed substeps; each substep runs the full pipeline in order:
//
//	integrate forces -> detect contacts -> solve velocity ->
//	solve position -> integrate positions -> enforce bounds -> sleep
//
// Events accumulate across the substeps and dispatch once at the end,
// so listeners observe the world in a consistent state. A zero,
// negative or NaN dt is a no-op.
func (w *World) Step(dt float64) {
	if dt <= 0 || math.IsNaN(dt) {
		return
	}

	h := dt / float64(w.cfg.Substeps)
	total := 0

	for range w.cfg.Substeps {
		w.integrateForces(h)

		// Phase 2: collision detection
		contacts := w.detectContacts()
		w.Events.recordContacts(contacts)
		total += len(contacts)

		// Phase 3: solver, impulses first so the positional correction
		// works with post-collision velocities
		w.wakeContacts(contacts)
		w.solveVelocity(contacts)
		w.solvePosition(contacts)

		// Phase 4: commit positions
		w.integratePositions(h)

		w.enforceBounds()
		w.trySleep(h)
	}
	w.lastContacts = total

	w.Events.processCollisionEvents(w.isResting)
	w.Events.processSleepEvents(w.bodies)
	w.Events.flush()
}

// integrateForces turns accumulated forces, global gravity and gravity
// fields into velocity changes.
func (w *World) integrateForces(h float64) {
	for _, body := range w.bodies {
		g := w.cfg.Gravity.Mul(body.GravityScale)
		for _, entry := range w.fields {
			g = g.Add(entry.field.AccelerationAt(body.Position))
		}
		body.IntegrateForces(h, g)
	}
}

// detectContacts runs the narrow phase over every candidate pair. The
// scratch slice is reused across substeps to keep the hot loop free of
// allocations.
func (w *World) detectContacts() []contact.Contact {
	w.contacts = w.contacts[:0]

	for i := 0; i < len(w.bodies); i++ {
		a := w.bodies[i]
		for j := i + 1; j < len(w.bodies); j++ {
			b := w.bodies[j]

			// Two immovable bodies never produce a meaningful contact
			if a.BodyType == actor.BodyTypeStatic && b.BodyType == actor.BodyTypeStatic {
				continue
			}
			// A resting stack stays untouched until something wakes it
			if a.IsSleeping && b.IsSleeping {
				continue
			}
			if !a.AABB().Overlaps(b.AABB()) {
				continue
			}

			if c, ok := detectPair(a, b); ok {
				w.contacts = append(w.contacts, c)
			}
		}
	}
	return w.contacts
}

// wakeContacts wakes any sleeping body touched by a moving one, so the
// solver never moves a body that still thinks it is asleep. The moving
// check matters: a static floor never sleeps, and contact with it must
// not keep the bodies resting on it awake.
func (w *World) wakeContacts(contacts []contact.Contact) {
	for _, c := range contacts {
		bodyA := w.index[c.BodyA]
		bodyB := w.index[c.BodyB]
		if bodyA.IsSleeping && !bodyB.IsSleeping && bodyB.Velocity.LenSqr() > 0 {
			bodyA.Awake()
		}
		if bodyB.IsSleeping && !bodyA.IsSleeping && bodyA.Velocity.LenSqr() > 0 {
			bodyB.Awake()
		}
	}
}

func (w *World) solveVelocity(contacts []contact.Contact) {
	for _, c := range contacts {
		w.resolver.SolveVelocity(c, w.index[c.BodyA], w.index[c.BodyB])
	}
}

func (w *World) solvePosition(contacts []contact.Contact) {
	for _, c := range contacts {
		w.resolver.SolvePosition(c, w.index[c.BodyA], w.index[c.BodyB])
	}
}

func (w *World) integratePositions(h float64) {
	for _, body := range w.bodies {
		body.IntegratePosition(h)
	}
}

// trySleep is deliberately not parallel; the per-body work is too
// small to amortize goroutines.
func (w *World) trySleep(h float64) {
	for _, body := range w.bodies {
		body.TrySleep(h, w.cfg.SleepTimeThreshold, w.cfg.SleepVelocityThreshold)
	}
}

// isResting reports whether a body can be treated as motionless for
// event suppression. Sleeping bodies rest, and so do static or stopped
// kinematic bodies, which never sleep but never move either.
func (w *World) isResting(id actor.BodyID) bool {
	body, ok := w.index[id]
	if !ok {
		return false
	}
	if body.IsSleeping {
		return true
	}
	return body.InverseMass() == 0 && body.Velocity.LenSqr() == 0
}
