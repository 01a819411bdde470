package actor

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeCircle ShapeType = iota
	ShapeTypeBox
)

// ErrInvalidShape reports a shape whose dimensions cannot collide.
var ErrInvalidShape = errors.New("actor: invalid shape")

// Shape is the closed set of collision shapes. The narrow phase
// dispatches on the concrete pair, so the interface is sealed.
type Shape interface {
	Type() ShapeType
	// AABB calculates the axis-aligned bounding box for the shape
	// at the given position
	AABB(position mgl64.Vec2) AABB
	// Area of the shape, used to derive mass from density
	Area() float64
	Validate() error

	sealedShape()
}

// Circle represents a circular collision shape
type Circle struct {
	Radius float64
}

func (c Circle) Type() ShapeType { return ShapeTypeCircle }

// AABB is not affected by rotation, only by position
func (c Circle) AABB(position mgl64.Vec2) AABB {
	radiusVec := mgl64.Vec2{c.Radius, c.Radius}

	return AABB{
		Min: position.Sub(radiusVec),
		Max: position.Add(radiusVec),
	}
}

func (c Circle) Area() float64 {
	return math.Pi * c.Radius * c.Radius
}

func (c Circle) Validate() error {
	if c.Radius <= 0 || math.IsNaN(c.Radius) || math.IsInf(c.Radius, 1) {
		return fmt.Errorf("%w: circle radius %v", ErrInvalidShape, c.Radius)
	}

	return nil
}

func (Circle) sealedShape() {}

// Box represents a box collision shape defined by its half-extents.
// The box stays axis-aligned; body rotation is tracked but does not
// rotate the shape.
type Box struct {
	HalfWidth  float64
	HalfHeight float64
}

func (b Box) Type() ShapeType { return ShapeTypeBox }

func (b Box) AABB(position mgl64.Vec2) AABB {
	extents := mgl64.Vec2{b.HalfWidth, b.HalfHeight}

	return AABB{
		Min: position.Sub(extents),
		Max: position.Add(extents),
	}
}

func (b Box) Area() float64 {
	// full dimensions are 2 * half-extents
	return 4.0 * b.HalfWidth * b.HalfHeight
}

func (b Box) Validate() error {
	if b.HalfWidth <= 0 || math.IsNaN(b.HalfWidth) || math.IsInf(b.HalfWidth, 1) {
		return fmt.Errorf("%w: box half-width %v", ErrInvalidShape, b.HalfWidth)
	}
	if b.HalfHeight <= 0 || math.IsNaN(b.HalfHeight) || math.IsInf(b.HalfHeight, 1) {
		return fmt.Errorf("%w: box half-height %v", ErrInvalidShape, b.HalfHeight)
	}

	return nil
}

func (Box) sealedShape() {}
