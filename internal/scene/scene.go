// Package scene loads declarative simulation setups from YAML and
// builds worlds out of them.
package scene

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/akmonengine/quill"
	"github.com/akmonengine/quill/actor"
	"github.com/akmonengine/quill/gravity"
	"github.com/akmonengine/quill/particle"
)

// ErrInvalidScene reports a scene that cannot be built.
var ErrInvalidScene = errors.New("scene: invalid scene")

type Scene struct {
	Name      string          `yaml:"name"`
	Duration  float64         `yaml:"duration"`
	FrameRate float64         `yaml:"frame_rate"`
	World     WorldConfig     `yaml:"world"`
	Bounds    *BoundsConfig   `yaml:"bounds,omitempty"`
	Bodies    []BodyConfig    `yaml:"bodies"`
	Fields    []FieldConfig   `yaml:"fields,omitempty"`
	Emitters  []EmitterConfig `yaml:"emitters,omitempty"`
}

type WorldConfig struct {
	Substeps int        `yaml:"substeps"`
	Gravity  mgl64.Vec2 `yaml:"gravity,flow"`
}

type BoundsConfig struct {
	Min          mgl64.Vec2 `yaml:"min,flow"`
	Max          mgl64.Vec2 `yaml:"max,flow"`
	Action       string     `yaml:"action"`
	Restitution  float64    `yaml:"restitution,omitempty"`
	SafetyMargin float64    `yaml:"safety_margin,omitempty"`
}

type BodyConfig struct {
	Type         string          `yaml:"type"`
	Position     mgl64.Vec2      `yaml:"position,flow"`
	Velocity     mgl64.Vec2      `yaml:"velocity,flow,omitempty"`
	Shape        ShapeConfig     `yaml:"shape"`
	Mass         float64         `yaml:"mass,omitempty"`
	Material     *MaterialConfig `yaml:"material,omitempty"`
	GravityScale *float64        `yaml:"gravity_scale,omitempty"`
	Bounds       string          `yaml:"bounds,omitempty"`
}

type ShapeConfig struct {
	Kind       string  `yaml:"kind"`
	Radius     float64 `yaml:"radius,omitempty"`
	HalfWidth  float64 `yaml:"half_width,omitempty"`
	HalfHeight float64 `yaml:"half_height,omitempty"`
}

type MaterialConfig struct {
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
	Drag        float64 `yaml:"drag"`
}

type FieldConfig struct {
	Origin   mgl64.Vec2 `yaml:"origin,flow"`
	Strength float64    `yaml:"strength"`
	Radius   float64    `yaml:"radius,omitempty"`
	Falloff  string     `yaml:"falloff,omitempty"`
}

type EmitterConfig struct {
	Origin   mgl64.Vec2 `yaml:"origin,flow"`
	Rate     float64    `yaml:"rate"`
	Duration float64    `yaml:"duration"`
	Lifetime float64    `yaml:"lifetime"`
	Speed    float64    `yaml:"speed"`
	Seed     uint64     `yaml:"seed,omitempty"`
}

// Default returns a scene with the world defaults and no bodies.
func Default() *Scene {
	cfg := quill.DefaultConfig()
	return &Scene{
		Name:      "empty",
		Duration:  10,
		FrameRate: 60,
		World: WorldConfig{
			Substeps: cfg.Substeps,
			Gravity:  cfg.Gravity,
		},
	}
}

// Load reads a scene file. Fields absent from the document keep their
// Default values.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return s, nil
}

// Save writes the scene as YAML.
func Save(path string, s *Scene) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns an independent deep copy, so callers can vary a scene
// without touching the original.
func (s *Scene) Clone() *Scene {
	c := *s
	if s.Bounds != nil {
		b := *s.Bounds
		c.Bounds = &b
	}
	c.Bodies = slices.Clone(s.Bodies)
	for i, bc := range s.Bodies {
		if bc.Material != nil {
			m := *bc.Material
			c.Bodies[i].Material = &m
		}
		if bc.GravityScale != nil {
			g := *bc.GravityScale
			c.Bodies[i].GravityScale = &g
		}
	}
	c.Fields = slices.Clone(s.Fields)
	c.Emitters = slices.Clone(s.Emitters)
	return &c
}

func (s *Scene) Validate() error {
	if s.Duration <= 0 {
		return fmt.Errorf("%w: duration %v", ErrInvalidScene, s.Duration)
	}
	if s.FrameRate <= 0 {
		return fmt.Errorf("%w: frame rate %v", ErrInvalidScene, s.FrameRate)
	}
	return nil
}

// Built is a scene realized into live simulation state.
type Built struct {
	World   *quill.World
	Bodies  []actor.BodyID
	Systems []*particle.System
}

// Build validates the scene and constructs its world, bodies, fields
// and particle systems. Body ids come back in scene order.
func (s *Scene) Build() (*Built, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	cfg := quill.DefaultConfig()
	cfg.Substeps = s.World.Substeps
	cfg.Gravity = s.World.Gravity

	world, err := quill.NewWorld(cfg)
	if err != nil {
		return nil, err
	}

	if s.Bounds != nil {
		behavior, err := s.Bounds.behavior()
		if err != nil {
			return nil, err
		}
		world.SetBounds(&quill.WorldBounds{
			Min:      s.Bounds.Min,
			Max:      s.Bounds.Max,
			Behavior: behavior,
		})
	}

	built := &Built{World: world}
	for i, bc := range s.Bodies {
		def, err := bc.def()
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		id, err := world.AddBody(def)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		built.Bodies = append(built.Bodies, id)
	}

	for i, fc := range s.Fields {
		field, err := fc.field()
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		if _, err := world.AddField(field); err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
	}

	for i, ec := range s.Emitters {
		sys, err := particle.NewSystem(particle.Emitter{
			Origin:   ec.Origin,
			Rate:     ec.Rate,
			Duration: ec.Duration,
			Lifetime: ec.Lifetime,
			Speed:    ec.Speed,
		}, ec.Seed)
		if err != nil {
			return nil, fmt.Errorf("emitter %d: %w", i, err)
		}
		sys.Gravity = s.World.Gravity
		built.Systems = append(built.Systems, sys)
	}

	return built, nil
}

func (bc BodyConfig) def() (quill.BodyDef, error) {
	bodyType, err := parseBodyType(bc.Type)
	if err != nil {
		return quill.BodyDef{}, err
	}
	shape, err := bc.Shape.shape()
	if err != nil {
		return quill.BodyDef{}, err
	}

	def := quill.NewBodyDef(bodyType, bc.Position, shape, bc.Mass)
	def.Velocity = bc.Velocity
	if bc.Material != nil {
		def.Material = actor.Material{
			Restitution: bc.Material.Restitution,
			Friction:    bc.Material.Friction,
			Drag:        bc.Material.Drag,
		}
	}
	if bc.GravityScale != nil {
		def.GravityScale = *bc.GravityScale
	}
	if bc.Bounds != "" {
		action, err := parseBoundsAction(bc.Bounds)
		if err != nil {
			return quill.BodyDef{}, err
		}
		def.Bounds = &actor.BoundsBehavior{Action: action}
	}
	return def, nil
}

func (sc ShapeConfig) shape() (actor.Shape, error) {
	switch sc.Kind {
	case "circle":
		return actor.Circle{Radius: sc.Radius}, nil
	case "box":
		return actor.Box{HalfWidth: sc.HalfWidth, HalfHeight: sc.HalfHeight}, nil
	}
	return nil, fmt.Errorf("%w: unknown shape kind %q", ErrInvalidScene, sc.Kind)
}

func (fc FieldConfig) field() (gravity.Field, error) {
	falloff, err := parseFalloff(fc.Falloff)
	if err != nil {
		return gravity.Field{}, err
	}
	return gravity.Field{
		Origin:   fc.Origin,
		Strength: fc.Strength,
		Radius:   fc.Radius,
		Falloff:  falloff,
	}, nil
}

func (bc BoundsConfig) behavior() (actor.BoundsBehavior, error) {
	action, err := parseBoundsAction(bc.Action)
	if err != nil {
		return actor.BoundsBehavior{}, err
	}
	return actor.BoundsBehavior{
		Action:       action,
		Restitution:  bc.Restitution,
		SafetyMargin: bc.SafetyMargin,
	}, nil
}

func parseBodyType(s string) (actor.BodyType, error) {
	switch s {
	case "static":
		return actor.BodyTypeStatic, nil
	case "dynamic":
		return actor.BodyTypeDynamic, nil
	case "kinematic":
		return actor.BodyTypeKinematic, nil
	}
	return 0, fmt.Errorf("%w: unknown body type %q", ErrInvalidScene, s)
}

func parseBoundsAction(s string) (actor.BoundsAction, error) {
	switch s {
	case "ignore":
		return actor.BoundsIgnore, nil
	case "event":
		return actor.BoundsEvent, nil
	case "clamp":
		return actor.BoundsClamp, nil
	case "wrap":
		return actor.BoundsWrap, nil
	case "delete":
		return actor.BoundsDelete, nil
	}
	return 0, fmt.Errorf("%w: unknown bounds action %q", ErrInvalidScene, s)
}

// parseFalloff accepts the empty string as constant so scene files can
// omit the field. Custom falloffs need code and have no YAML form.
func parseFalloff(s string) (gravity.Falloff, error) {
	switch s {
	case "", "constant":
		return gravity.FalloffConstant, nil
	case "linear":
		return gravity.FalloffLinear, nil
	case "inverse-square":
		return gravity.FalloffInverseSquare, nil
	}
	return 0, fmt.Errorf("%w: unknown falloff %q", ErrInvalidScene, s)
}
