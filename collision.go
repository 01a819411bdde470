package quill

import (
	"math"

	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/contact"
	"github.com/go-gl/mathgl/mgl64"
)

// detectPair runs the analytic narrow phase for one candidate pair and
// reports whether the shapes overlap. The dispatch identifies which
// body carries which shape and flips the result when needed so the
// contact normal always points from the first body to the second.
func detectPair(a, b *actor.RigidBody) (contact.Contact, bool) {
	switch shapeA := a.Shape.(type) {
	case actor.Circle:
		switch shapeB := b.Shape.(type) {
		case actor.Circle:
			return circleCircle(a, b, shapeA, shapeB)
		case actor.Box:
			c, ok := boxCircle(b, a, shapeB, shapeA)
			return c.Flipped(), ok
		}
	case actor.Box:
		switch shapeB := b.Shape.(type) {
		case actor.Circle:
			return boxCircle(a, b, shapeA, shapeB)
		case actor.Box:
			return boxBox(a, b, shapeA, shapeB)
		}
	}
	return contact.Contact{}, false
}

// circleCircle collides two circles. The contact point sits on the
// first circle's surface along the center line.
func circleCircle(a, b *actor.RigidBody, shapeA, shapeB actor.Circle) (contact.Contact, bool) {
	delta := b.Position.Sub(a.Position)
	distSq := delta.LenSqr()
	radiusSum := shapeA.Radius + shapeB.Radius
	if distSq >= radiusSum*radiusSum {
		return contact.Contact{}, false
	}

	distance := math.Sqrt(distSq)
	var normal mgl64.Vec2
	if distance > 0 {
		normal = delta.Mul(1 / distance)
	} else {
		// Coincident centers have no direction; push along +X so the
		// result stays deterministic
		normal = mgl64.Vec2{1, 0}
	}

	return contact.Contact{
		BodyA:       a.ID,
		BodyB:       b.ID,
		Point:       a.Position.Add(normal.Mul(shapeA.Radius)),
		Normal:      normal,
		Penetration: radiusSum - distance,
	}, true
}

// boxBox collides two axis-aligned boxes along the axis of least
// overlap. The contact point is the center of the overlap region.
func boxBox(a, b *actor.RigidBody, shapeA, shapeB actor.Box) (contact.Contact, bool) {
	aabbA := shapeA.AABB(a.Position)
	aabbB := shapeB.AABB(b.Position)

	overlapX := math.Min(aabbA.Max.X(), aabbB.Max.X()) - math.Max(aabbA.Min.X(), aabbB.Min.X())
	overlapY := math.Min(aabbA.Max.Y(), aabbB.Max.Y()) - math.Max(aabbA.Min.Y(), aabbB.Min.Y())
	if overlapX <= 0 || overlapY <= 0 {
		return contact.Contact{}, false
	}

	point := mgl64.Vec2{
		(math.Max(aabbA.Min.X(), aabbB.Min.X()) + math.Min(aabbA.Max.X(), aabbB.Max.X())) / 2,
		(math.Max(aabbA.Min.Y(), aabbB.Min.Y()) + math.Min(aabbA.Max.Y(), aabbB.Max.Y())) / 2,
	}

	// Separate along the shallower axis; ties resolve to Y, and a
	// centered tie within an axis pushes toward positive
	var normal mgl64.Vec2
	var penetration float64
	if overlapX < overlapY {
		penetration = overlapX
		if b.Position.X() >= a.Position.X() {
			normal = mgl64.Vec2{1, 0}
		} else {
			normal = mgl64.Vec2{-1, 0}
		}
	} else {
		penetration = overlapY
		if b.Position.Y() >= a.Position.Y() {
			normal = mgl64.Vec2{0, 1}
		} else {
			normal = mgl64.Vec2{0, -1}
		}
	}

	return contact.Contact{
		BodyA:       a.ID,
		BodyB:       b.ID,
		Point:       point,
		Normal:      normal,
		Penetration: penetration,
	}, true
}

// boxCircle collides a box with a circle by clamping the circle center
// to the box. When the center sits inside the box the closest point
// degenerates, so the push direction comes from the nearest face
// instead.
func boxCircle(box, circle *actor.RigidBody, shapeBox actor.Box, shapeCircle actor.Circle) (contact.Contact, bool) {
	aabb := shapeBox.AABB(box.Position)
	center := circle.Position

	closest := mgl64.Vec2{
		mgl64.Clamp(center.X(), aabb.Min.X(), aabb.Max.X()),
		mgl64.Clamp(center.Y(), aabb.Min.Y(), aabb.Max.Y()),
	}

	delta := center.Sub(closest)
	distSq := delta.LenSqr()
	if distSq >= shapeCircle.Radius*shapeCircle.Radius {
		return contact.Contact{}, false
	}

	if distSq > 0 {
		distance := math.Sqrt(distSq)
		return contact.Contact{
			BodyA:       box.ID,
			BodyB:       circle.ID,
			Point:       closest,
			Normal:      delta.Mul(1 / distance),
			Penetration: shapeCircle.Radius - distance,
		}, true
	}

	// Center inside the box: find the nearest face. Ties keep the X
	// axis so repeated runs agree.
	left := center.X() - aabb.Min.X()
	right := aabb.Max.X() - center.X()
	bottom := center.Y() - aabb.Min.Y()
	top := aabb.Max.Y() - center.Y()

	faceDist := left
	normal := mgl64.Vec2{-1, 0}
	if right < faceDist {
		faceDist = right
		normal = mgl64.Vec2{1, 0}
	}
	if bottom < faceDist {
		faceDist = bottom
		normal = mgl64.Vec2{0, -1}
	}
	if top < faceDist {
		faceDist = top
		normal = mgl64.Vec2{0, 1}
	}

	return contact.Contact{
		BodyA:       box.ID,
		BodyB:       circle.ID,
		Point:       center,
		Normal:      normal,
		Penetration: shapeCircle.Radius + faceDist,
	}, true
}
