package sweep

import (
	"slices"
	"sync/atomic"
	"testing"

	"github.com/akmonengine/quill/internal/scene"
)

func shortScene(t *testing.T, preset string) *scene.Scene {
	t.Helper()
	base := scene.GetPreset(preset)
	if base == nil {
		t.Fatalf("unknown preset %q", preset)
	}
	s := base.Clone()
	s.Duration = 1
	return s
}

func TestRun_ResultsAlignWithVariants(t *testing.T) {
	base := shortScene(t, "bounce")
	variants := []Variant{
		{Name: "a", Scene: base.Clone()},
		{Name: "b", Scene: base.Clone()},
		{Name: "c", Scene: base.Clone()},
	}

	results := Run(variants, 2)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, r := range results {
		if r.Name != variants[i].Name {
			t.Errorf("result %d named %q, want %q", i, r.Name, variants[i].Name)
		}
		if r.Err != nil {
			t.Errorf("result %d failed: %v", i, r.Err)
		}
		if r.Frames != 60 {
			t.Errorf("result %d ran %d frames, want 60", i, r.Frames)
		}
		if len(r.Series) != 60 {
			t.Errorf("result %d sampled %d energies, want 60", i, len(r.Series))
		}
	}
}

func TestRun_IdenticalVariantsAgree(t *testing.T) {
	base := shortScene(t, "bounce")
	results := Run([]Variant{
		{Name: "first", Scene: base.Clone()},
		{Name: "second", Scene: base.Clone()},
	}, 2)

	if results[0].Energy != results[1].Energy {
		t.Errorf("energies diverged: %v vs %v", results[0].Energy, results[1].Energy)
	}
	if !slices.Equal(results[0].Series, results[1].Series) {
		t.Error("energy series diverged between identical runs")
	}
	if results[0].Collisions != results[1].Collisions {
		t.Errorf("collision counts diverged: %d vs %d", results[0].Collisions, results[1].Collisions)
	}
}

func TestRun_WorkerCountDoesNotChangeOutcomes(t *testing.T) {
	variants := Substeps(shortScene(t, "stack"), []int{1, 2, 4})

	serial := Run(variants, 1)
	parallel := Run(variants, 8)

	for i := range serial {
		if serial[i].Energy != parallel[i].Energy {
			t.Errorf("variant %q diverged across worker counts", serial[i].Name)
		}
		if serial[i].Sleeping != parallel[i].Sleeping {
			t.Errorf("variant %q sleep counts diverged", serial[i].Name)
		}
	}
}

func TestRun_ReportsBuildErrors(t *testing.T) {
	good := shortScene(t, "bounce")
	bad := good.Clone()
	bad.Bodies[0].Type = "squishy"

	results := Run([]Variant{
		{Name: "good", Scene: good},
		{Name: "bad", Scene: bad},
	}, 2)

	if results[0].Err != nil {
		t.Errorf("good variant failed: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("bad variant should carry its build error")
	}
}

func TestSubsteps(t *testing.T) {
	base := shortScene(t, "stack")
	variants := Substeps(base, []int{1, 2, 8})

	if len(variants) != 3 {
		t.Fatalf("got %d variants, want 3", len(variants))
	}
	if variants[2].Name != "substeps=8" {
		t.Errorf("name = %q, want substeps=8", variants[2].Name)
	}
	if variants[2].Scene.World.Substeps != 8 {
		t.Errorf("substeps = %d, want 8", variants[2].Scene.World.Substeps)
	}
	if base.World.Substeps != 4 {
		t.Error("sweep mutated the base scene")
	}
}

func TestRestitutions(t *testing.T) {
	base := shortScene(t, "bounce")
	original := base.Bodies[0].Material.Restitution

	variants := Restitutions(base, []float64{0, 0.5})

	if len(variants) != 2 {
		t.Fatalf("got %d variants, want 2", len(variants))
	}
	if variants[0].Scene.Bounds.Restitution != 0 {
		t.Error("bounds restitution not applied")
	}
	for _, bc := range variants[1].Scene.Bodies {
		if bc.Material == nil || bc.Material.Restitution != 0.5 {
			t.Errorf("body material restitution not applied: %+v", bc.Material)
		}
	}
	if base.Bodies[0].Material.Restitution != original {
		t.Error("sweep mutated the base scene")
	}
}

func TestFanOut(t *testing.T) {
	data := make([]int, 100)
	for i := range data {
		data[i] = i
	}

	var seen [100]atomic.Int32
	fanOut(7, data, func(i int) {
		seen[i].Add(1)
	})

	for i := range seen {
		if got := seen[i].Load(); got != 1 {
			t.Errorf("item %d processed %d times, want once", i, got)
		}
	}
}

func TestFanOut_MoreWorkersThanItems(t *testing.T) {
	var total atomic.Int32
	fanOut(16, []int{1, 2, 3}, func(int) {
		total.Add(1)
	})
	if total.Load() != 3 {
		t.Errorf("processed %d items, want 3", total.Load())
	}

	fanOut(4, nil, func(int) {
		t.Error("empty data should not invoke fn")
	})
}
