package quill

import (
	"github.com/akmonengine/quill/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// BoundsEdge identifies which edge of the world bounds a body crossed.
type BoundsEdge int

const (
	EdgeLeft BoundsEdge = iota
	EdgeRight
	EdgeBottom
	EdgeTop
)

func (e BoundsEdge) String() string {
	switch e {
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	case EdgeBottom:
		return "bottom"
	case EdgeTop:
		return "top"
	}
	return "unknown"
}

// BoundsViolation reports a crossed edge and by how far the body's
// bounding box overshot it.
type BoundsViolation struct {
	Edge      BoundsEdge
	Overshoot float64
}

// WorldBounds is the rectangular region bodies are kept within, with a
// default behavior for bodies that do not carry their own.
type WorldBounds struct {
	Min      mgl64.Vec2
	Max      mgl64.Vec2
	Behavior actor.BoundsBehavior
}

// enforceBounds applies the bounds behavior to every non-static body
// whose AABB leaves the region. Clamp and Wrap act silently; Event and
// Delete emit OutOfBoundsEvents.
func (w *World) enforceBounds() {
	if w.bounds == nil {
		return
	}
	for _, body := range w.bodies {
		if body.BodyType == actor.BodyTypeStatic || body.MarkedForRemoval {
			continue
		}
		behavior := w.bounds.Behavior
		if body.Bounds != nil {
			behavior = *body.Bounds
		}
		if behavior.Action == actor.BoundsIgnore {
			continue
		}
		w.enforceBodyBounds(body, behavior)
	}
}

func (w *World) enforceBodyBounds(body *actor.RigidBody, behavior actor.BoundsBehavior) {
	if behavior.Action == actor.BoundsWrap {
		w.wrapBody(body)
		return
	}

	aabb := body.AABB()
	var violations []BoundsViolation
	if aabb.Min.X() < w.bounds.Min.X() {
		violations = append(violations, BoundsViolation{EdgeLeft, w.bounds.Min.X() - aabb.Min.X()})
	} else if aabb.Max.X() > w.bounds.Max.X() {
		violations = append(violations, BoundsViolation{EdgeRight, aabb.Max.X() - w.bounds.Max.X()})
	}
	if aabb.Min.Y() < w.bounds.Min.Y() {
		violations = append(violations, BoundsViolation{EdgeBottom, w.bounds.Min.Y() - aabb.Min.Y()})
	} else if aabb.Max.Y() > w.bounds.Max.Y() {
		violations = append(violations, BoundsViolation{EdgeTop, aabb.Max.Y() - w.bounds.Max.Y()})
	}
	if len(violations) == 0 {
		return
	}

	switch behavior.Action {
	case actor.BoundsEvent:
		for _, v := range violations {
			w.Events.emitBounds(body.ID, body.Position, v)
		}
	case actor.BoundsClamp:
		for _, v := range violations {
			clampBody(body, v, behavior.Restitution)
		}
	case actor.BoundsDelete:
		for _, v := range violations {
			if v.Overshoot > behavior.SafetyMargin {
				body.MarkedForRemoval = true
				w.Events.emitBounds(body.ID, body.Position, v)
				return
			}
		}
	}
}

// clampBody pushes the body back inside and reflects the velocity
// component driving it out, scaled by the bounce restitution.
func clampBody(body *actor.RigidBody, v BoundsViolation, restitution float64) {
	switch v.Edge {
	case EdgeLeft:
		body.Position[0] += v.Overshoot
		if body.Velocity.X() < 0 {
			body.Velocity[0] = -body.Velocity.X() * restitution
		}
	case EdgeRight:
		body.Position[0] -= v.Overshoot
		if body.Velocity.X() > 0 {
			body.Velocity[0] = -body.Velocity.X() * restitution
		}
	case EdgeBottom:
		body.Position[1] += v.Overshoot
		if body.Velocity.Y() < 0 {
			body.Velocity[1] = -body.Velocity.Y() * restitution
		}
	case EdgeTop:
		body.Position[1] -= v.Overshoot
		if body.Velocity.Y() > 0 {
			body.Velocity[1] = -body.Velocity.Y() * restitution
		}
	}
}

// wrapBody teleports the body to the opposite side once its center
// crosses an edge, asteroids style. The AABB may stick out while the
// center is inside; that is fine for wrapping worlds.
func (w *World) wrapBody(body *actor.RigidBody) {
	width := w.bounds.Max.X() - w.bounds.Min.X()
	height := w.bounds.Max.Y() - w.bounds.Min.Y()

	if body.Position.X() < w.bounds.Min.X() {
		body.Position[0] += width
	} else if body.Position.X() > w.bounds.Max.X() {
		body.Position[0] -= width
	}
	if body.Position.Y() < w.bounds.Min.Y() {
		body.Position[1] += height
	} else if body.Position.Y() > w.bounds.Max.Y() {
		body.Position[1] -= height
	}
}
