// Package particle provides lightweight point particles that share the
// world's integration model but never collide and never sleep.
package particle

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidEmitter reports an emitter whose parameters cannot spawn
// particles.
var ErrInvalidEmitter = errors.New("particle: invalid emitter")

// Spawned particles never live shorter than this, so a renderer always
// gets a few frames out of each one.
const minLifetime = 0.2

// Particle is a single point mass. Lifetime counts down to zero;
// MaxLifetime keeps the spawn value so renderers can fade on the
// Lifetime/MaxLifetime ratio.
type Particle struct {
	Position    mgl64.Vec2
	Velocity    mgl64.Vec2
	Lifetime    float64
	MaxLifetime float64
}

// Emitter describes a particle source.
type Emitter struct {
	Origin mgl64.Vec2

	// Rate is the number of particles spawned per second
	Rate float64

	// Duration is the emission window in seconds; spawning stops once
	// the system has run this long
	Duration float64

	// Lifetime is the upper bound on a particle's lifetime in seconds
	Lifetime float64

	// Speed bounds the spawn velocity; each component is drawn from
	// [-Speed, Speed)
	Speed float64
}

func (e Emitter) Validate() error {
	if e.Rate <= 0 || math.IsNaN(e.Rate) || math.IsInf(e.Rate, 0) {
		return fmt.Errorf("%w: rate %v", ErrInvalidEmitter, e.Rate)
	}
	if e.Duration < 0 || math.IsNaN(e.Duration) {
		return fmt.Errorf("%w: duration %v", ErrInvalidEmitter, e.Duration)
	}
	if e.Lifetime <= 0 || math.IsNaN(e.Lifetime) || math.IsInf(e.Lifetime, 0) {
		return fmt.Errorf("%w: lifetime %v", ErrInvalidEmitter, e.Lifetime)
	}
	if e.Speed < 0 || math.IsNaN(e.Speed) || math.IsInf(e.Speed, 0) {
		return fmt.Errorf("%w: speed %v", ErrInvalidEmitter, e.Speed)
	}

	return nil
}

// System owns the particles spawned by one emitter. Gravity and Drag
// apply to every particle the way they apply to rigid bodies. Systems
// are not safe for concurrent use.
type System struct {
	Emitter Emitter
	Gravity mgl64.Vec2
	Drag    float64

	particles []Particle
	elapsed   float64
	spawn     float64
	rng       *rand.Rand
}

// NewSystem builds a system around em. The seed fixes the spawn
// randomness, so equal seeds replay identical particle streams.
func NewSystem(em Emitter, seed uint64) (*System, error) {
	if err := em.Validate(); err != nil {
		return nil, err
	}

	return &System{
		Emitter: em,
		rng:     rand.New(rand.NewPCG(seed, seed)),
	}, nil
}

// Update advances every particle by dt, drops the expired ones and
// spawns the particles the emission rate owes. Integration is the same
// semi-implicit Euler the rigid bodies use. dt <= 0 is a no-op.
func (s *System) Update(dt float64) {
	if dt <= 0 || math.IsNaN(dt) {
		return
	}
	s.elapsed += dt

	for i := range s.particles {
		p := &s.particles[i]
		accel := s.Gravity.Sub(p.Velocity.Mul(s.Drag))
		p.Velocity = p.Velocity.Add(accel.Mul(dt))
		p.Position = p.Position.Add(p.Velocity.Mul(dt))
		p.Lifetime -= dt
	}

	alive := s.particles[:0]
	for _, p := range s.particles {
		if p.Lifetime > 0 {
			alive = append(alive, p)
		}
	}
	s.particles = alive

	if s.elapsed >= s.Emitter.Duration {
		return
	}
	s.spawn -= dt
	for s.spawn <= 0 {
		s.spawnParticle()
		s.spawn += 1.0 / s.Emitter.Rate
	}
}

func (s *System) spawnParticle() {
	em := s.Emitter

	lifetime := em.Lifetime
	if minLifetime < em.Lifetime {
		lifetime = minLifetime + s.rng.Float64()*(em.Lifetime-minLifetime)
	}

	s.particles = append(s.particles, Particle{
		Position:    em.Origin,
		Velocity:    mgl64.Vec2{s.spread(), s.spread()},
		Lifetime:    lifetime,
		MaxLifetime: lifetime,
	})
}

func (s *System) spread() float64 {
	return (s.rng.Float64()*2 - 1) * s.Emitter.Speed
}

// Particles exposes the live particles; callers must treat the slice as
// read-only and not hold it across Update calls.
func (s *System) Particles() []Particle {
	return s.particles
}

// Len reports how many particles are alive.
func (s *System) Len() int {
	return len(s.particles)
}

// Active reports whether the system still emits or has live particles.
// A system that is no longer active never changes again.
func (s *System) Active() bool {
	return len(s.particles) > 0 || s.elapsed < s.Emitter.Duration
}
