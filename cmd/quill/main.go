package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/akmonengine/quill/internal/scene"
	"github.com/akmonengine/quill/internal/sweep"
	"github.com/akmonengine/quill/internal/viz"
)

var (
	sceneFile string
	duration  float64
	frameRate float64
	param     string
	values    string
	workers   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "quill",
		Short: "2D rigid body physics sandbox",
	}

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and report the outcome",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().StringVar(&sceneFile, "file", "", "scene file (yaml)")
	runCmd.Flags().Float64Var(&duration, "time", 0, "override the scene duration")
	runCmd.Flags().Float64Var(&frameRate, "fps", 0, "override the scene frame rate")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&sceneFile, "file", "", "scene file (yaml)")

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list built-in scenes",
		RunE:  listScenes,
	}

	exportCmd := &cobra.Command{
		Use:   "export [scene] [path]",
		Short: "write a built-in scene to a yaml file",
		Args:  cobra.ExactArgs(2),
		RunE:  exportScene,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "run a scene across a parameter grid and compare outcomes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sceneFile, "file", "", "scene file (yaml)")
	sweepCmd.Flags().StringVar(&param, "param", "substeps", "parameter to vary: substeps or restitution")
	sweepCmd.Flags().StringVar(&values, "values", "1,2,4,8", "comma separated parameter values")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = one per cpu)")

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "benchmark a scene across substep counts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBench,
	}
	benchCmd.Flags().StringVar(&sceneFile, "file", "", "scene file (yaml)")

	rootCmd.AddCommand(runCmd, liveCmd, scenesCmd, exportCmd, sweepCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScene(cmd *cobra.Command, args []string) error {
	s, err := resolveScene(args)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("time") {
		s.Duration = duration
	}
	if cmd.Flags().Changed("fps") {
		s.FrameRate = frameRate
	}

	fmt.Printf("running %s for %.1fs at %.0f fps...\n", s.Name, s.Duration, s.FrameRate)
	start := time.Now()
	result := sweep.Run([]sweep.Variant{{Name: s.Name, Scene: s}}, 1)[0]
	if result.Err != nil {
		return result.Err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed %d frames in %v\n\n", result.Frames, elapsed)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AWAKE\tASLEEP\tCOLLISIONS\tESCAPES\tENERGY")
	fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%.3f\n",
		result.Awake, result.Sleeping, result.Collisions, result.Escapes, result.Energy)
	if err := w.Flush(); err != nil {
		return err
	}

	if len(result.Series) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(result.Series,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("kinetic energy"),
		))
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	s, err := resolveScene(args)
	if err != nil {
		return err
	}
	m, err := viz.NewModel(s)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listScenes(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDURATION\tBODIES\tFIELDS\tEMITTERS\tBOUNDS")

	for _, name := range scene.ListPresets() {
		s := scene.GetPreset(name)
		bounds := "-"
		if s.Bounds != nil {
			bounds = s.Bounds.Action
		}
		fmt.Fprintf(w, "%s\t%.0fs\t%d\t%d\t%d\t%s\n",
			name, s.Duration, len(s.Bodies), len(s.Fields), len(s.Emitters), bounds)
	}
	return w.Flush()
}

func exportScene(cmd *cobra.Command, args []string) error {
	s := scene.GetPreset(args[0])
	if s == nil {
		return fmt.Errorf("unknown scene %q (available: %v)", args[0], scene.ListPresets())
	}
	if err := scene.Save(args[1], s); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[1])
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	s, err := resolveScene(args)
	if err != nil {
		return err
	}

	var variants []sweep.Variant
	switch param {
	case "substeps":
		ints, err := parseInts(values)
		if err != nil {
			return err
		}
		variants = sweep.Substeps(s, ints)
	case "restitution":
		floats, err := parseFloats(values)
		if err != nil {
			return err
		}
		variants = sweep.Restitutions(s, floats)
	default:
		return fmt.Errorf("unknown sweep parameter %q (substeps or restitution)", param)
	}

	fmt.Printf("sweeping %s over %d variants...\n\n", s.Name, len(variants))
	results := sweep.Run(variants, workers)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VARIANT\tFRAMES\tCOLLISIONS\tESCAPES\tASLEEP\tENERGY")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", r.Name, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%.3f\n",
			r.Name, r.Frames, r.Collisions, r.Escapes, r.Sleeping, r.Energy)
	}
	return w.Flush()
}

func runBench(cmd *cobra.Command, args []string) error {
	s, err := resolveScene(args)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s\n\n", s.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SUBSTEPS\tFRAMES\tTIME\tFRAMES/SEC")

	for _, substeps := range []int{1, 2, 4, 8} {
		variant := s.Clone()
		variant.World.Substeps = substeps

		built, err := variant.Build()
		if err != nil {
			return err
		}

		dt := 1.0 / variant.FrameRate
		frames := int(math.Ceil(variant.Duration * variant.FrameRate))

		start := time.Now()
		for range frames {
			built.World.Step(dt)
			for _, sys := range built.Systems {
				sys.Update(dt)
			}
			built.World.RemoveMarked()
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n",
			substeps, frames, elapsed, float64(frames)/elapsed.Seconds())
	}
	return w.Flush()
}

// resolveScene picks the scene from --file or a preset name. Presets
// come back cloned, so flag overrides never touch the shared table.
func resolveScene(args []string) (*scene.Scene, error) {
	if sceneFile != "" {
		return scene.Load(sceneFile)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("no scene given (available: %v)", scene.ListPresets())
	}
	if s := scene.GetPreset(args[0]); s != nil {
		return s.Clone(), nil
	}
	return nil, fmt.Errorf("unknown scene %q (available: %v)", args[0], scene.ListPresets())
}

func parseInts(csv string) ([]int, error) {
	parts := strings.Split(csv, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseFloats(csv string) ([]float64, error) {
	parts := strings.Split(csv, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
