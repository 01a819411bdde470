package main

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/quill"
	"github.com/akmonengine/quill/actor"
)

// setupScene builds a world with a static ground and one bouncy ball
// dropped from eight meters.
func setupScene() (*quill.World, actor.BodyID, error) {
	world, err := quill.NewWorld(quill.DefaultConfig())
	if err != nil {
		return nil, 0, err
	}

	ground := quill.NewBodyDef(actor.BodyTypeStatic, mgl64.Vec2{0, -0.5},
		actor.Box{HalfWidth: 20, HalfHeight: 0.5}, 0)
	if _, err := world.AddBody(ground); err != nil {
		return nil, 0, err
	}

	def := quill.NewBodyDef(actor.BodyTypeDynamic, mgl64.Vec2{0, 8},
		actor.Circle{Radius: 0.5}, 1.0)
	def.Material.Restitution = 0.7
	ball, err := world.AddBody(def)
	if err != nil {
		return nil, 0, err
	}

	return world, ball, nil
}

func main() {
	world, ball, err := setupScene()
	if err != nil {
		log.Fatal(err)
	}

	bounces := 0
	world.Events.Subscribe(quill.COLLISION_ENTER, func(event quill.Event) {
		e := event.(quill.CollisionEnterEvent)
		bounces++
		fmt.Printf("bounce %d (bodies %d and %d)\n", bounces, e.BodyA, e.BodyB)
	})
	world.Events.Subscribe(quill.ON_SLEEP, func(event quill.Event) {
		e := event.(quill.SleepEvent)
		fmt.Printf("body %d fell asleep\n", e.Body)
	})

	const dt = 1.0 / 60.0
	const steps = 600

	for step := 0; step < steps; step++ {
		world.Step(dt)

		if step%60 == 0 {
			body, err := world.Body(ball)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Printf("t=%.1fs  position=(%.3f, %.3f)  velocity=(%.3f, %.3f)\n",
				float64(step)*dt,
				body.Position.X(), body.Position.Y(),
				body.Velocity.X(), body.Velocity.Y())
		}
	}

	stats := world.Stats()
	fmt.Printf("\nafter %d steps: %d bounces, %d awake, %d asleep, kinetic energy %.4f\n",
		steps, bounces, stats.Awake, stats.Sleeping, stats.KineticEnergy)
}
