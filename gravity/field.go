// Package gravity provides point gravity sources evaluated by the world
// on top of its global gravity vector.
package gravity

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Falloff selects how field strength decays with distance from the origin
type Falloff int

const (
	// FalloffConstant applies full strength everywhere in range
	FalloffConstant Falloff = iota

	// FalloffLinear fades strength to zero at the field radius
	FalloffLinear

	// FalloffInverseSquare decays with the square of the distance
	FalloffInverseSquare

	// FalloffCustom delegates to the field's Custom function
	FalloffCustom
)

func (f Falloff) String() string {
	switch f {
	case FalloffConstant:
		return "constant"
	case FalloffLinear:
		return "linear"
	case FalloffInverseSquare:
		return "inverse-square"
	case FalloffCustom:
		return "custom"
	}

	return "unknown"
}

// MinDistance clamps the distance used by inverse-square evaluation so
// bodies near the origin do not receive unbounded acceleration.
const MinDistance = 0.1

// ErrInvalidField reports a field whose parameters cannot be evaluated.
var ErrInvalidField = errors.New("gravity: invalid field")

// Field is a point gravity source. Strength is an acceleration in
// units/s², so the pull does not depend on the mass of the attracted
// body.
type Field struct {
	Origin   mgl64.Vec2
	Strength float64

	// Radius bounds the field's influence; 0 means unbounded
	Radius float64

	Falloff Falloff

	// Custom maps distance to acceleration magnitude when Falloff is
	// FalloffCustom
	Custom func(distance float64) float64
}

func (f Field) Validate() error {
	if math.IsNaN(f.Strength) || math.IsInf(f.Strength, 0) {
		return fmt.Errorf("%w: strength %v", ErrInvalidField, f.Strength)
	}
	if f.Radius < 0 || math.IsNaN(f.Radius) {
		return fmt.Errorf("%w: radius %v", ErrInvalidField, f.Radius)
	}
	if f.Falloff == FalloffLinear && f.Radius <= 0 {
		return fmt.Errorf("%w: linear falloff needs a positive radius", ErrInvalidField)
	}
	if f.Falloff == FalloffCustom && f.Custom == nil {
		return fmt.Errorf("%w: custom falloff needs a function", ErrInvalidField)
	}

	return nil
}

// AccelerationAt evaluates the field's pull at a position. The direction
// is toward the origin; a body sitting on the origin has no
// deterministic direction and gets no pull.
func (f Field) AccelerationAt(position mgl64.Vec2) mgl64.Vec2 {
	toOrigin := f.Origin.Sub(position)
	distance := toOrigin.Len()

	if distance == 0 {
		return mgl64.Vec2{}
	}
	if f.Radius > 0 && distance > f.Radius {
		return mgl64.Vec2{}
	}

	magnitude := f.magnitude(distance)
	if magnitude == 0 {
		return mgl64.Vec2{}
	}

	return toOrigin.Mul(magnitude / distance)
}

func (f Field) magnitude(distance float64) float64 {
	switch f.Falloff {
	case FalloffLinear:
		if f.Radius <= 0 {
			return 0
		}
		return f.Strength * (1 - distance/f.Radius)

	case FalloffInverseSquare:
		d := math.Max(distance, MinDistance)
		return f.Strength / (d * d)

	case FalloffCustom:
		if f.Custom == nil {
			return 0
		}
		return f.Custom(distance)

	default: // FalloffConstant
		return f.Strength
	}
}
