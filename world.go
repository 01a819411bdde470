// Package quill implements a deterministic 2D rigid body simulation.
//
// A World owns bodies, gravity fields and solver state. Each call to
// Step advances the simulation by a fixed amount of time, split into
// substeps that integrate forces, detect and resolve contacts, and
// update sleep state. The package favors predictability over raw
// throughput: bodies iterate in insertion order, ids are never reused
// and the same inputs always produce the same outputs.
package quill

import (
	"fmt"
	"iter"
	"math"

	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/contact"
	"github.com/akmonengine/quill/gravity"
	"github.com/go-gl/mathgl/mgl64"
)

// FieldID identifies a gravity field within a World. IDs start at 1
// and are never reused; 0 is never a valid id.
type FieldID uint64

// Config tunes a World. The zero value is not usable; start from
// DefaultConfig and override what you need.
type Config struct {
	// Substeps splits each Step into this many fixed substeps (>= 1).
	// More substeps cost more but keep fast bodies from tunneling.
	Substeps int

	// Gravity is the global acceleration applied to every dynamic body,
	// scaled per body by its GravityScale.
	Gravity mgl64.Vec2

	// SleepVelocityThreshold is the speed below which a dynamic body
	// counts as resting.
	SleepVelocityThreshold float64

	// SleepTimeThreshold is how long a body must rest before it sleeps,
	// in seconds.
	SleepTimeThreshold float64

	// PositionCorrection is the fraction of penetration removed per
	// substep, in [0, 1]. 1 snaps bodies apart in one substep and
	// jitters, 0 lets them sink into each other.
	PositionCorrection float64

	// PenetrationSlop is the overlap tolerated without correction,
	// keeping resting contacts from oscillating.
	PenetrationSlop float64
}

// DefaultConfig returns the standard tuning: four substeps, earth
// gravity pointing down and the solver constants the tests are
// calibrated against.
func DefaultConfig() Config {
	return Config{
		Substeps:               4,
		Gravity:                mgl64.Vec2{0, -9.81},
		SleepVelocityThreshold: 0.1,
		SleepTimeThreshold:     1.0,
		PositionCorrection:     0.8,
		PenetrationSlop:        0.01,
	}
}

// Validate reports whether the configuration can drive a World.
func (c Config) Validate() error {
	if c.Substeps < 1 {
		return fmt.Errorf("%w: substeps %d, need at least 1", ErrInvalidConfig, c.Substeps)
	}
	for i := range 2 {
		if math.IsNaN(c.Gravity[i]) || math.IsInf(c.Gravity[i], 0) {
			return fmt.Errorf("%w: gravity %v is not finite", ErrInvalidConfig, c.Gravity)
		}
	}
	if c.SleepVelocityThreshold < 0 || math.IsNaN(c.SleepVelocityThreshold) {
		return fmt.Errorf("%w: sleep velocity threshold %v", ErrInvalidConfig, c.SleepVelocityThreshold)
	}
	if c.SleepTimeThreshold < 0 || math.IsNaN(c.SleepTimeThreshold) {
		return fmt.Errorf("%w: sleep time threshold %v", ErrInvalidConfig, c.SleepTimeThreshold)
	}
	if c.PositionCorrection < 0 || c.PositionCorrection > 1 || math.IsNaN(c.PositionCorrection) {
		return fmt.Errorf("%w: position correction %v outside [0, 1]", ErrInvalidConfig, c.PositionCorrection)
	}
	if c.PenetrationSlop < 0 || math.IsNaN(c.PenetrationSlop) {
		return fmt.Errorf("%w: penetration slop %v", ErrInvalidConfig, c.PenetrationSlop)
	}
	return nil
}

type fieldEntry struct {
	id    FieldID
	field gravity.Field
}

// World owns the bodies, gravity fields and solver state of one
// simulation. It is not safe for concurrent use; Step and every
// mutator must run on a single goroutine.
type World struct {
	cfg Config

	// bodies keeps insertion order so iteration is deterministic;
	// index resolves ids without a scan
	bodies     []*actor.RigidBody
	index      map[actor.BodyID]*actor.RigidBody
	nextBodyID actor.BodyID

	// fields stay in a slice so their accelerations sum in a stable
	// order
	fields      []fieldEntry
	nextFieldID FieldID

	bounds *WorldBounds

	resolver contact.Resolver

	// Events collects collision, sleep and bounds notifications during
	// Step and dispatches them when the step completes.
	Events *Events

	// contacts is scratch space reused across substeps
	contacts     []contact.Contact
	lastContacts int
}

// NewWorld creates an empty world with the given configuration.
func NewWorld(cfg Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &World{
		cfg:         cfg,
		index:       make(map[actor.BodyID]*actor.RigidBody),
		nextBodyID:  1,
		nextFieldID: 1,
		resolver: contact.Resolver{
			CorrectionFactor: cfg.PositionCorrection,
			Slop:             cfg.PenetrationSlop,
		},
		Events: NewEvents(),
	}, nil
}

// Config returns a copy of the world configuration.
func (w *World) Config() Config {
	return w.cfg
}

// BodyDef describes a body to add to a World. Build it with NewBodyDef
// so the defaults are filled in; a zero BodyDef does not validate.
type BodyDef struct {
	Type            actor.BodyType
	Position        mgl64.Vec2
	Velocity        mgl64.Vec2
	Rotation        float64
	AngularVelocity float64
	Shape           actor.Shape

	// Mass in kilograms. Ignored for static bodies, which are treated
	// as infinitely heavy.
	Mass float64

	Material actor.Material

	// GravityScale multiplies the world gravity for this body. 0 opts
	// out of global gravity entirely; gravity fields still apply.
	GravityScale float64

	// Bounds overrides the world bounds behavior for this body. Nil
	// uses the world default.
	Bounds *actor.BoundsBehavior
}

// NewBodyDef returns a definition with default material and gravity
// scale, ready to be tweaked and passed to AddBody.
func NewBodyDef(bodyType actor.BodyType, position mgl64.Vec2, shape actor.Shape, mass float64) BodyDef {
	return BodyDef{
		Type:         bodyType,
		Position:     position,
		Shape:        shape,
		Mass:         mass,
		Material:     actor.DefaultMaterial(),
		GravityScale: 1.0,
	}
}

func (d BodyDef) validate() error {
	if d.Shape == nil {
		return fmt.Errorf("%w: missing shape", ErrInvalidBody)
	}
	if err := d.Shape.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if d.Type != actor.BodyTypeStatic {
		if d.Mass <= 0 || math.IsNaN(d.Mass) || math.IsInf(d.Mass, 1) {
			return fmt.Errorf("%w: mass %v must be positive and finite", ErrInvalidBody, d.Mass)
		}
	}
	if d.Material.Restitution < 0 || d.Material.Restitution > 1 || math.IsNaN(d.Material.Restitution) {
		return fmt.Errorf("%w: restitution %v outside [0, 1]", ErrInvalidBody, d.Material.Restitution)
	}
	if d.Material.Friction < 0 || math.IsNaN(d.Material.Friction) {
		return fmt.Errorf("%w: friction %v must not be negative", ErrInvalidBody, d.Material.Friction)
	}
	if d.Material.Drag < 0 || math.IsNaN(d.Material.Drag) {
		return fmt.Errorf("%w: drag %v must not be negative", ErrInvalidBody, d.Material.Drag)
	}
	if math.IsNaN(d.GravityScale) || math.IsInf(d.GravityScale, 0) {
		return fmt.Errorf("%w: gravity scale %v is not finite", ErrInvalidBody, d.GravityScale)
	}
	return nil
}

// AddBody validates the definition, assigns a fresh id and inserts the
// body. IDs are never reused, so a stale id held by the caller keeps
// failing instead of silently hitting a newer body.
func (w *World) AddBody(def BodyDef) (actor.BodyID, error) {
	if err := def.validate(); err != nil {
		return 0, err
	}

	id := w.nextBodyID
	w.nextBodyID++

	body := actor.NewRigidBody(id, def.Type, def.Position, def.Shape, def.Mass)
	body.Rotation = def.Rotation
	body.Material = def.Material
	body.GravityScale = def.GravityScale
	body.Bounds = def.Bounds
	if def.Type != actor.BodyTypeStatic {
		body.Velocity = def.Velocity
		body.AngularVelocity = def.AngularVelocity
	}

	w.bodies = append(w.bodies, body)
	w.index[id] = body
	return id, nil
}

// RemoveBody deletes the body immediately. Pending collision pairs
// involving it are dropped without emitting exit events.
func (w *World) RemoveBody(id actor.BodyID) error {
	body, ok := w.index[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	delete(w.index, id)
	for i, b := range w.bodies {
		if b == body {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	w.Events.dropBody(id)
	return nil
}

// Body resolves an id to its live body. The pointer stays valid until
// the body is removed.
func (w *World) Body(id actor.BodyID) (*actor.RigidBody, error) {
	body, ok := w.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	return body, nil
}

// MarkForRemoval flags the body so the next RemoveMarked sweep deletes
// it. Useful from event listeners, where removing bodies directly
// would mutate the slices the step is iterating.
func (w *World) MarkForRemoval(id actor.BodyID) error {
	body, ok := w.index[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	body.MarkedForRemoval = true
	return nil
}

// RemoveMarked deletes every body flagged for removal and returns
// their ids in insertion order.
func (w *World) RemoveMarked() []actor.BodyID {
	var removed []actor.BodyID
	kept := w.bodies[:0]
	for _, body := range w.bodies {
		if body.MarkedForRemoval {
			removed = append(removed, body.ID)
			delete(w.index, body.ID)
			w.Events.dropBody(body.ID)
			continue
		}
		kept = append(kept, body)
	}
	// Zero the tail so removed bodies do not leak through the backing
	// array
	for i := len(kept); i < len(w.bodies); i++ {
		w.bodies[i] = nil
	}
	w.bodies = kept
	return removed
}

// ApplyForce accumulates a continuous force on a dynamic body for the
// next Step. Forces on static or kinematic bodies are ignored.
func (w *World) ApplyForce(id actor.BodyID, force mgl64.Vec2) error {
	body, ok := w.index[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	body.AddForce(force)
	return nil
}

// ApplyImpulse changes a dynamic body's velocity immediately.
func (w *World) ApplyImpulse(id actor.BodyID, impulse mgl64.Vec2) error {
	body, ok := w.index[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	body.ApplyImpulse(impulse)
	return nil
}

// SetVelocity overwrites the body's velocity and wakes it. Static
// bodies keep zero velocity.
func (w *World) SetVelocity(id actor.BodyID, velocity mgl64.Vec2) error {
	body, ok := w.index[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	body.SetVelocity(velocity)
	return nil
}

// SetPosition teleports the body. Dynamic bodies wake, since the new
// position may overlap something.
func (w *World) SetPosition(id actor.BodyID, position mgl64.Vec2) error {
	body, ok := w.index[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	body.Position = position
	if body.BodyType == actor.BodyTypeDynamic {
		body.Awake()
	}
	return nil
}

// Wake forces a body out of sleep.
func (w *World) Wake(id actor.BodyID) error {
	body, ok := w.index[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	body.Awake()
	return nil
}

// SetGlobalGravity replaces the world gravity vector and wakes every
// dynamic body, since a sleeping stack may no longer be in equilibrium
// under the new pull.
func (w *World) SetGlobalGravity(gravity mgl64.Vec2) {
	w.cfg.Gravity = gravity
	for _, body := range w.bodies {
		if body.BodyType == actor.BodyTypeDynamic {
			body.Awake()
		}
	}
}

// SetBounds installs the world bounds. Nil disables bounds handling.
func (w *World) SetBounds(bounds *WorldBounds) {
	w.bounds = bounds
}

// AddField validates and inserts a gravity field, returning its id.
// Fields apply in insertion order so acceleration sums stay
// deterministic.
func (w *World) AddField(field gravity.Field) (FieldID, error) {
	if err := field.Validate(); err != nil {
		return 0, err
	}
	id := w.nextFieldID
	w.nextFieldID++
	w.fields = append(w.fields, fieldEntry{id: id, field: field})
	return id, nil
}

// RemoveField deletes a gravity field by id.
func (w *World) RemoveField(id FieldID) error {
	for i, entry := range w.fields {
		if entry.id == id {
			w.fields = append(w.fields[:i], w.fields[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrUnknownField, id)
}

// Snapshot is a read-only copy of one body's state, safe to hold
// across steps.
type Snapshot struct {
	ID         actor.BodyID
	Type       actor.BodyType
	Position   mgl64.Vec2
	Velocity   mgl64.Vec2
	Rotation   float64
	Shape      actor.Shape
	IsSleeping bool
}

// Snapshots yields a snapshot of every body in insertion order.
func (w *World) Snapshots() iter.Seq[Snapshot] {
	return func(yield func(Snapshot) bool) {
		for _, body := range w.bodies {
			s := Snapshot{
				ID:         body.ID,
				Type:       body.BodyType,
				Position:   body.Position,
				Velocity:   body.Velocity,
				Rotation:   body.Rotation,
				Shape:      body.Shape,
				IsSleeping: body.IsSleeping,
			}
			if !yield(s) {
				return
			}
		}
	}
}
