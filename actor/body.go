package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyID identifies a body within a world. IDs are assigned on insertion
// and never reused, so a handle kept across a removal stays invalid.
type BodyID uint64

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	// They are not affected by forces or gravity (e.g., ground, walls)
	BodyTypeStatic

	// BodyTypeKinematic bodies move with an externally driven velocity
	// They ignore forces, gravity and impulses but displace dynamic bodies
	BodyTypeKinematic
)

func (t BodyType) String() string {
	switch t {
	case BodyTypeDynamic:
		return "dynamic"
	case BodyTypeStatic:
		return "static"
	case BodyTypeKinematic:
		return "kinematic"
	}

	return "unknown"
}

type Material struct {
	Restitution float64 // 0= no rebound, 1= perfect restitution
	Friction    float64 // Coulomb coefficient, >= 0
	Drag        float64 // velocity-proportional resistance, >= 0
}

// DefaultMaterial returns the material bodies get when none is provided
func DefaultMaterial() Material {
	return Material{
		Restitution: 0.0,
		Friction:    0.5,
		Drag:        0.0,
	}
}

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	ID BodyID

	// Spatial properties
	Position mgl64.Vec2
	Rotation float64 // radians

	// Linear motion
	Velocity     mgl64.Vec2 // (m/s)
	Acceleration mgl64.Vec2 // of the last force integration (m/s²)

	// Angular motion. Rotation integrates from AngularVelocity; nothing
	// in the solver produces torque, so contacts never spin a body.
	AngularVelocity float64 // (rad/s)

	// GravityScale multiplies the world gravity for this body.
	// 1 is normal weight, 0 opts out of global gravity.
	GravityScale float64

	accumulatedForce mgl64.Vec2

	IsSleeping bool
	SleepTimer float64

	// MarkedForRemoval defers destruction to the next RemoveMarked sweep
	MarkedForRemoval bool

	// Physical properties
	Mass     float64
	invMass  float64
	Material Material
	BodyType BodyType // Dynamic, Static or Kinematic

	// Collision shape
	Shape Shape

	// Bounds overrides the world bounds behavior for this body when set
	Bounds *BoundsBehavior
}

// NewRigidBody creates a new rigid body with the given properties.
// Static bodies get infinite mass whatever was passed; Kinematic bodies
// keep their mass for bookkeeping but have an inverse mass of zero, so
// the solver never moves them.
func NewRigidBody(id BodyID, bodyType BodyType, position mgl64.Vec2, shape Shape, mass float64) *RigidBody {
	rb := &RigidBody{
		ID:           id,
		BodyType:     bodyType,
		Position:     position,
		Shape:        shape,
		Mass:         mass,
		GravityScale: 1.0,
		Material:     DefaultMaterial(),
	}

	switch bodyType {
	case BodyTypeStatic:
		rb.Mass = math.Inf(1)
	case BodyTypeDynamic:
		rb.invMass = 1.0 / mass
	}

	return rb
}

// InverseMass is zero for Static and Kinematic bodies
func (rb *RigidBody) InverseMass() float64 {
	return rb.invMass
}

// AABB returns the world-space bounding box at the current position
func (rb *RigidBody) AABB() AABB {
	return rb.Shape.AABB(rb.Position)
}

func (rb *RigidBody) TrySleep(dt float64, timeThreshold float64, velocityThreshold float64) {
	if rb.BodyType != BodyTypeDynamic {
		return
	}

	if rb.Velocity.Len() < velocityThreshold && math.Abs(rb.AngularVelocity) < velocityThreshold {
		rb.SleepTimer += dt
		if rb.SleepTimer >= timeThreshold {
			rb.Sleep()
		}
	} else {
		rb.Awake()
	}
}

func (rb *RigidBody) Sleep() {
	rb.IsSleeping = true
	rb.SleepTimer = 0.0

	rb.ClearForces()
	rb.Velocity = mgl64.Vec2{}
	rb.AngularVelocity = 0.0
}

func (rb *RigidBody) Awake() {
	rb.IsSleeping = false
	rb.SleepTimer = 0.0
}

// IntegrateForces advances velocity by one substep using semi-implicit
// Euler. gravity is the combined acceleration of global gravity and
// fields at the body position; the force accumulator is consumed here.
func (rb *RigidBody) IntegrateForces(dt float64, gravity mgl64.Vec2) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping {
		return
	}

	force := rb.accumulatedForce.Add(gravity.Mul(rb.Mass))
	if rb.Material.Drag > 0 {
		force = force.Sub(rb.Velocity.Mul(rb.Material.Drag * rb.Mass))
	}

	// a zero inverse mass keeps kinematic velocity untouched
	rb.Acceleration = force.Mul(rb.invMass)
	rb.Velocity = rb.Velocity.Add(rb.Acceleration.Mul(dt))

	rb.ClearForces()
}

// IntegratePosition advances position and rotation by one substep,
// after the solver has settled velocities.
func (rb *RigidBody) IntegratePosition(dt float64) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping {
		return
	}

	rb.Position = rb.Position.Add(rb.Velocity.Mul(dt))
	rb.Rotation += rb.AngularVelocity * dt
}

// AddForce accumulates a force for the next substep. Only dynamic
// bodies respond; a sleeping body wakes.
func (rb *RigidBody) AddForce(force mgl64.Vec2) {
	if rb.BodyType != BodyTypeDynamic {
		return
	}

	rb.Awake()
	rb.accumulatedForce = rb.accumulatedForce.Add(force)
}

// ApplyImpulse changes velocity immediately, scaled by inverse mass.
// Only dynamic bodies respond; a sleeping body wakes.
func (rb *RigidBody) ApplyImpulse(impulse mgl64.Vec2) {
	if rb.BodyType != BodyTypeDynamic {
		return
	}

	rb.Awake()
	rb.Velocity = rb.Velocity.Add(impulse.Mul(rb.invMass))
}

// SetVelocity overrides velocity directly. Static bodies ignore it;
// this is the drive mechanism for kinematic bodies.
func (rb *RigidBody) SetVelocity(velocity mgl64.Vec2) {
	if rb.BodyType == BodyTypeStatic {
		return
	}

	rb.Awake()
	rb.Velocity = velocity
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec2{}
}

// KineticEnergy is ½mv² for bodies with finite inverse mass, else 0
func (rb *RigidBody) KineticEnergy() float64 {
	if rb.invMass == 0 {
		return 0
	}

	return 0.5 * rb.Mass * rb.Velocity.LenSqr()
}
