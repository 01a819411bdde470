package scene

import (
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

var Presets = map[string]*Scene{
	"stack": {
		Name:      "stack",
		Duration:  10,
		FrameRate: 60,
		World:     WorldConfig{Substeps: 4, Gravity: mgl64.Vec2{0, -9.81}},
		Bounds: &BoundsConfig{
			Min: mgl64.Vec2{-20, -5}, Max: mgl64.Vec2{20, 30}, Action: "clamp",
		},
		Bodies: []BodyConfig{
			{Type: "static", Position: mgl64.Vec2{0, -0.5}, Shape: ShapeConfig{Kind: "box", HalfWidth: 15, HalfHeight: 0.5}},
			{Type: "dynamic", Position: mgl64.Vec2{0, 0.55}, Mass: 1, Shape: ShapeConfig{Kind: "box", HalfWidth: 0.5, HalfHeight: 0.5}, Material: &MaterialConfig{Friction: 0.6}},
			{Type: "dynamic", Position: mgl64.Vec2{0.05, 1.7}, Mass: 1, Shape: ShapeConfig{Kind: "box", HalfWidth: 0.5, HalfHeight: 0.5}, Material: &MaterialConfig{Friction: 0.6}},
			{Type: "dynamic", Position: mgl64.Vec2{-0.05, 2.85}, Mass: 1, Shape: ShapeConfig{Kind: "box", HalfWidth: 0.5, HalfHeight: 0.5}, Material: &MaterialConfig{Friction: 0.6}},
			{Type: "dynamic", Position: mgl64.Vec2{0, 4}, Mass: 1, Shape: ShapeConfig{Kind: "box", HalfWidth: 0.5, HalfHeight: 0.5}, Material: &MaterialConfig{Friction: 0.6}},
		},
	},
	"bounce": {
		Name:      "bounce",
		Duration:  20,
		FrameRate: 60,
		World:     WorldConfig{Substeps: 4, Gravity: mgl64.Vec2{0, -9.81}},
		Bounds: &BoundsConfig{
			Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{30, 20}, Action: "clamp", Restitution: 0.9,
		},
		Bodies: []BodyConfig{
			{Type: "dynamic", Position: mgl64.Vec2{5, 15}, Velocity: mgl64.Vec2{6, 0}, Mass: 1, Shape: ShapeConfig{Kind: "circle", Radius: 1}, Material: &MaterialConfig{Restitution: 0.9, Friction: 0.1}},
			{Type: "dynamic", Position: mgl64.Vec2{15, 12}, Velocity: mgl64.Vec2{-4, 2}, Mass: 2, Shape: ShapeConfig{Kind: "circle", Radius: 1.5}, Material: &MaterialConfig{Restitution: 0.9, Friction: 0.1}},
			{Type: "dynamic", Position: mgl64.Vec2{25, 16}, Velocity: mgl64.Vec2{-8, -3}, Mass: 0.5, Shape: ShapeConfig{Kind: "circle", Radius: 0.75}, Material: &MaterialConfig{Restitution: 0.9, Friction: 0.1}},
		},
	},
	"orbit": {
		Name:      "orbit",
		Duration:  30,
		FrameRate: 60,
		World:     WorldConfig{Substeps: 8, Gravity: mgl64.Vec2{0, 0}},
		Bodies: []BodyConfig{
			{Type: "static", Position: mgl64.Vec2{0, 0}, Shape: ShapeConfig{Kind: "circle", Radius: 2}},
			{Type: "dynamic", Position: mgl64.Vec2{10, 0}, Velocity: mgl64.Vec2{0, 10}, Mass: 1, Shape: ShapeConfig{Kind: "circle", Radius: 0.5}},
			{Type: "dynamic", Position: mgl64.Vec2{-15, 0}, Velocity: mgl64.Vec2{0, -8.165}, Mass: 1, Shape: ShapeConfig{Kind: "circle", Radius: 0.5}},
		},
		Fields: []FieldConfig{
			{Origin: mgl64.Vec2{0, 0}, Strength: 1000, Falloff: "inverse-square"},
		},
	},
	"fountain": {
		Name:      "fountain",
		Duration:  12,
		FrameRate: 60,
		World:     WorldConfig{Substeps: 4, Gravity: mgl64.Vec2{0, -9.81}},
		Bounds: &BoundsConfig{
			Min: mgl64.Vec2{-25, 0}, Max: mgl64.Vec2{25, 40}, Action: "delete", SafetyMargin: 5,
		},
		Bodies: []BodyConfig{
			{Type: "dynamic", Position: mgl64.Vec2{-10, 1}, Velocity: mgl64.Vec2{12, 14}, Mass: 1, Shape: ShapeConfig{Kind: "circle", Radius: 0.8}, Material: &MaterialConfig{Restitution: 0.4, Friction: 0.3}},
			{Type: "dynamic", Position: mgl64.Vec2{10, 1}, Velocity: mgl64.Vec2{-12, 14}, Mass: 1, Shape: ShapeConfig{Kind: "circle", Radius: 0.8}, Material: &MaterialConfig{Restitution: 0.4, Friction: 0.3}},
		},
		Emitters: []EmitterConfig{
			{Origin: mgl64.Vec2{0, 1}, Rate: 120, Duration: 8, Lifetime: 3, Speed: 18, Seed: 7},
		},
	},
	"pusher": {
		Name:      "pusher",
		Duration:  15,
		FrameRate: 60,
		World:     WorldConfig{Substeps: 4, Gravity: mgl64.Vec2{0, -9.81}},
		Bounds: &BoundsConfig{
			Min: mgl64.Vec2{-30, -2}, Max: mgl64.Vec2{30, 20}, Action: "event",
		},
		Bodies: []BodyConfig{
			{Type: "static", Position: mgl64.Vec2{0, -1}, Shape: ShapeConfig{Kind: "box", HalfWidth: 30, HalfHeight: 1}},
			{Type: "kinematic", Position: mgl64.Vec2{-20, 1}, Velocity: mgl64.Vec2{3, 0}, Mass: 10, Shape: ShapeConfig{Kind: "box", HalfWidth: 1, HalfHeight: 1}},
			{Type: "dynamic", Position: mgl64.Vec2{-5, 0.8}, Mass: 1, Shape: ShapeConfig{Kind: "circle", Radius: 0.8}, Material: &MaterialConfig{Friction: 0.4}},
			{Type: "dynamic", Position: mgl64.Vec2{-2, 0.8}, Mass: 1, Shape: ShapeConfig{Kind: "circle", Radius: 0.8}, Material: &MaterialConfig{Friction: 0.4}},
			{Type: "dynamic", Position: mgl64.Vec2{1, 0.8}, Mass: 1.5, Shape: ShapeConfig{Kind: "circle", Radius: 0.8}, Material: &MaterialConfig{Friction: 0.4}},
		},
	},
}

func GetPreset(name string) *Scene {
	return Presets[name]
}

func ListPresets() []string {
	return slices.Sorted(maps.Keys(Presets))
}
