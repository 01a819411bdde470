package contact

import (
	"github.com/akmonengine/quill/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// tangentThreshold is the squared tangential speed below which friction
// has nothing meaningful to resist.
const tangentThreshold = 1e-12

// Resolver applies impulse response and positional correction to
// contacts. CorrectionFactor and Slop come from the world configuration.
type Resolver struct {
	// CorrectionFactor is the fraction of remaining penetration removed
	// per substep, in [0, 1]
	CorrectionFactor float64

	// Slop is the penetration depth tolerated without correction, so
	// resting contacts do not jitter
	Slop float64
}

// SolveVelocity applies the normal impulse and Coulomb friction for one
// contact. Separating pairs and pairs without a finite-mass participant
// are left alone.
func (r Resolver) SolveVelocity(c Contact, bodyA, bodyB *actor.RigidBody) {
	invMassA := bodyA.InverseMass()
	invMassB := bodyB.InverseMass()
	invMassSum := invMassA + invMassB
	if invMassSum == 0 {
		return
	}

	// ========== 1. Normal impulse ==========
	relativeVelocity := bodyB.Velocity.Sub(bodyA.Velocity)
	velocityAlongNormal := relativeVelocity.Dot(c.Normal)

	// Already separating, nothing to undo
	if velocityAlongNormal >= 0 {
		return
	}

	restitution := ComputeRestitution(bodyA.Material, bodyB.Material)
	j := -(1 + restitution) * velocityAlongNormal / invMassSum

	impulse := c.Normal.Mul(j)
	bodyA.Velocity = bodyA.Velocity.Sub(impulse.Mul(invMassA))
	bodyB.Velocity = bodyB.Velocity.Add(impulse.Mul(invMassB))

	// ========== 2. Friction impulse ==========
	// Recompute after the normal impulse so friction acts on what is left
	relativeVelocity = bodyB.Velocity.Sub(bodyA.Velocity)
	tangentVelocity := relativeVelocity.Sub(c.Normal.Mul(relativeVelocity.Dot(c.Normal)))
	if tangentVelocity.LenSqr() < tangentThreshold {
		return
	}

	tangent := tangentVelocity.Normalize()
	jt := -relativeVelocity.Dot(tangent) / invMassSum

	// Coulomb: friction can never exceed its share of the normal impulse
	maxFriction := ComputeFriction(bodyA.Material, bodyB.Material) * j
	jt = mgl64.Clamp(jt, -maxFriction, maxFriction)

	frictionImpulse := tangent.Mul(jt)
	bodyA.Velocity = bodyA.Velocity.Sub(frictionImpulse.Mul(invMassA))
	bodyB.Velocity = bodyB.Velocity.Add(frictionImpulse.Mul(invMassB))
}

// SolvePosition pushes the pair apart along the normal to remove the
// penetration the impulse pass leaves behind. Overlap below Slop is
// tolerated.
func (r Resolver) SolvePosition(c Contact, bodyA, bodyB *actor.RigidBody) {
	invMassA := bodyA.InverseMass()
	invMassB := bodyB.InverseMass()
	invMassSum := invMassA + invMassB
	if invMassSum == 0 {
		return
	}

	depth := c.Penetration - r.Slop
	if depth <= 0 {
		return
	}

	// Split proportionally to inverse mass, so a static or kinematic
	// partner never moves
	correction := c.Normal.Mul(depth * r.CorrectionFactor / invMassSum)
	bodyA.Position = bodyA.Position.Sub(correction.Mul(invMassA))
	bodyB.Position = bodyB.Position.Add(correction.Mul(invMassB))
}
