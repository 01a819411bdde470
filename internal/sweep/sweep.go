// Package sweep runs variations of a scene in parallel and collects
// per-run outcomes, so parameter effects can be compared side by side.
package sweep

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/akmonengine/quill"
	"github.com/akmonengine/quill/internal/scene"
)

// Variant names one configuration of the swept scene.
type Variant struct {
	Name  string
	Scene *scene.Scene
}

// Result is the outcome of one variant. Series holds the kinetic
// energy sampled once per frame.
type Result struct {
	Name       string
	Frames     int
	Collisions int
	Escapes    int
	Awake      int
	Sleeping   int
	Energy     float64
	Series     []float64
	Err        error
}

// Run simulates every variant to its scene duration, fanning the work
// out over workers goroutines. Results come back in variant order.
// workers < 1 uses one worker per CPU.
func Run(variants []Variant, workers int) []Result {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(variants))
	jobs := make([]int, len(variants))
	for i := range jobs {
		jobs[i] = i
	}

	fanOut(workers, jobs, func(i int) {
		results[i] = runOne(variants[i])
	})
	return results
}

// fanOut splits data into contiguous chunks, one goroutine each.
func fanOut[T any](workersCount int, data []T, fn func(data T)) {
	var wg sync.WaitGroup
	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(workerID*chunkSize, min((workerID+1)*chunkSize, dataSize))
	}
	wg.Wait()
}

func runOne(v Variant) Result {
	result := Result{Name: v.Name}

	built, err := v.Scene.Build()
	if err != nil {
		result.Err = err
		return result
	}
	built.World.Events.Subscribe(quill.COLLISION_ENTER, func(quill.Event) { result.Collisions++ })
	built.World.Events.Subscribe(quill.OUT_OF_BOUNDS, func(quill.Event) { result.Escapes++ })

	dt := 1.0 / v.Scene.FrameRate
	frames := int(math.Ceil(v.Scene.Duration * v.Scene.FrameRate))
	result.Series = make([]float64, 0, frames)

	for range frames {
		built.World.Step(dt)
		for _, sys := range built.Systems {
			sys.Update(dt)
		}
		built.World.RemoveMarked()
		result.Series = append(result.Series, built.World.Stats().KineticEnergy)
	}

	stats := built.World.Stats()
	result.Frames = frames
	result.Awake = stats.Awake
	result.Sleeping = stats.Sleeping
	result.Energy = stats.KineticEnergy
	return result
}

// Substeps varies the solver substep count.
func Substeps(base *scene.Scene, values []int) []Variant {
	variants := make([]Variant, 0, len(values))
	for _, v := range values {
		s := base.Clone()
		s.World.Substeps = v
		variants = append(variants, Variant{
			Name:  fmt.Sprintf("substeps=%d", v),
			Scene: s,
		})
	}
	return variants
}

// Restitutions varies how bouncy the scene is, on the world bounds and
// on every body material.
func Restitutions(base *scene.Scene, values []float64) []Variant {
	variants := make([]Variant, 0, len(values))
	for _, v := range values {
		s := base.Clone()
		if s.Bounds != nil {
			s.Bounds.Restitution = v
		}
		for i := range s.Bodies {
			if s.Bodies[i].Material == nil {
				s.Bodies[i].Material = &scene.MaterialConfig{Friction: 0.5}
			}
			s.Bodies[i].Material.Restitution = v
		}
		variants = append(variants, Variant{
			Name:  fmt.Sprintf("restitution=%.2f", v),
			Scene: s,
		})
	}
	return variants
}
