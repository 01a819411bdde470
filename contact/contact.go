// Package contact holds narrow-phase results and the impulse solver
// that turns them into velocity and position updates.
package contact

import (
	"math"

	"github.com/akmonengine/quill/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Contact is the ephemeral result of one narrow-phase test. Contacts are
// produced fresh each substep and discarded after resolution; bodies are
// referenced by id only, never by pointer, so a contact can outlive
// nothing.
type Contact struct {
	BodyA actor.BodyID
	BodyB actor.BodyID

	// Point is the estimated contact location in world space
	Point mgl64.Vec2

	// Normal is the unit collision normal, pointing from A to B
	Normal mgl64.Vec2

	// Penetration is the overlap depth along Normal, always >= 0
	Penetration float64
}

// Flipped returns the same contact seen from the other body, with ids
// swapped and the normal reversed.
func (c Contact) Flipped() Contact {
	return Contact{
		BodyA:       c.BodyB,
		BodyB:       c.BodyA,
		Point:       c.Point,
		Normal:      c.Normal.Mul(-1),
		Penetration: c.Penetration,
	}
}

func ComputeRestitution(matA, matB actor.Material) float64 {
	// Option 1: Average (more realistic)
	return (matA.Restitution + matB.Restitution) / 2.0

	// Option 2: Maximum (if one bounces, it bounces)
	//return math.Max(matA.Restitution, matB.Restitution)

	// Option 3: Geometric mean (Box2D approach)
	// return math.Sqrt(matA.Restitution * matB.Restitution)
}

func ComputeFriction(matA, matB actor.Material) float64 {
	// Geometric mean (standard for surface pairs)
	return math.Sqrt(matA.Friction * matB.Friction)
}
