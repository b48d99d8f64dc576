// Command harddisk populates a square lattice of hard disks and either
// drives them through an interactive terminal view or runs headless and
// exports the resulting metrics.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/harddisk-md/internal/box"
	"github.com/san-kum/harddisk-md/internal/collision"
	"github.com/san-kum/harddisk-md/internal/config"
	"github.com/san-kum/harddisk-md/internal/logx"
	"github.com/san-kum/harddisk-md/internal/metrics"
	"github.com/san-kum/harddisk-md/internal/particle"
	"github.com/san-kum/harddisk-md/internal/render"
	"github.com/san-kum/harddisk-md/internal/storage"
)

var (
	dataDir     string
	configFile  string
	presetName  string
	boxSide     float64
	wallSpeed   float64
	hz          float64
	seed        int64
	logLevel    string
	logFormat   string
	headless    bool
	headlessDur float64
	tracerIndex int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "harddisk <radius> <spacing> <friction>",
		Short: "event-driven hard-disk gas simulator",
		Args:  cobra.ExactArgs(3),
		RunE:  runSimulation,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".harddisk", "data directory for headless run export")
	rootCmd.Flags().StringVar(&configFile, "config", "", "YAML config file overriding defaults")
	rootCmd.Flags().StringVar(&presetName, "preset", "", "named preset (see 'harddisk presets')")
	rootCmd.Flags().Float64Var(&boxSide, "box-side", config.DefaultBoxSide, "box side length")
	rootCmd.Flags().Float64Var(&wallSpeed, "wall-speed", config.DefaultWallSpeed, "initial wall speed")
	rootCmd.Flags().Float64Var(&hz, "hz", config.DefaultHz, "frame event frequency")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "PRNG seed for lattice jitter and random velocities")
	rootCmd.Flags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")
	rootCmd.Flags().StringVar(&logFormat, "log-format", config.DefaultLogFormat, "text or json")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "run without the interactive view and export metrics")
	rootCmd.Flags().Float64Var(&headlessDur, "duration", 60.0, "simulated duration for headless mode")
	rootCmd.Flags().IntVar(&tracerIndex, "tracer", -1, "particle index to trace (default: nearest the box centre)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored headless runs",
		RunE:  listRuns,
	}

	rootCmd.AddCommand(presetsCmd, listCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	radius, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid radius %q: %w", args[0], err)
	}
	spacing, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid spacing %q: %w", args[1], err)
	}
	friction, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid friction %q: %w", args[2], err)
	}

	cfg := config.DefaultConfig()
	if presetName != "" {
		if p := config.GetPreset(presetName); p != nil {
			cfg = p
		} else {
			return fmt.Errorf("unknown preset %q", presetName)
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	cfg.Radius, cfg.Spacing, cfg.Friction = radius, spacing, friction
	if cmd.Flags().Changed("box-side") {
		cfg.BoxSide = boxSide
	}
	if cmd.Flags().Changed("wall-speed") {
		cfg.WallSpeed = wallSpeed
	}
	if cmd.Flags().Changed("hz") {
		cfg.Hz = hz
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if cmd.Flags().Changed("tracer") {
		cfg.TracerIndex = tracerIndex
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logx.New(logx.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	rng := rand.New(rand.NewSource(cfg.Seed))

	particles := buildLattice(cfg, rng)
	b := box.New(cfg.BoxSide)
	b.Speed = cfg.WallSpeed

	sys := collision.New(particles, b, collision.Config{
		Friction:       cfg.Friction,
		Hz:             cfg.Hz,
		BucketWidth:    cfg.BucketWidth,
		HistogramScale: cfg.HistogramScale,
	}, log, rng)
	if cfg.TracerIndex >= 0 {
		sys.SetTracer(cfg.TracerIndex)
	}
	sys.Init()

	if headless {
		return runHeadless(cfg, sys)
	}

	program := tea.NewProgram(render.NewModel(sys))
	_, err = program.Run()
	return err
}

// buildLattice populates a square grid of disks spaced `Spacing` apart,
// each nudged by a small random jitter and given a small random velocity,
// per the CLI's required <radius> <spacing> <friction> contract.
func buildLattice(cfg *config.Config, rng *rand.Rand) []*particle.Particle {
	margin := cfg.Radius * 2
	usable := cfg.BoxSide - 2*margin
	if usable <= 0 {
		usable = cfg.BoxSide
	}
	perRow := int(usable/cfg.Spacing) + 1
	if perRow < 1 {
		perRow = 1
	}

	scale := cfg.VelocityScale
	if scale <= 0 {
		scale = config.DefaultVelocityScale
	}

	var particles []*particle.Particle
	for i := 0; i < perRow; i++ {
		for j := 0; j < perRow; j++ {
			x := margin + float64(i)*cfg.Spacing + (rng.Float64()-0.5)*cfg.Spacing*0.1
			y := margin + float64(j)*cfg.Spacing + (rng.Float64()-0.5)*cfg.Spacing*0.1
			if x-cfg.Radius < 0 || x+cfg.Radius > cfg.BoxSide || y-cfg.Radius < 0 || y+cfg.Radius > cfg.BoxSide {
				continue
			}
			vx := (rng.Float64()*2 - 1) * scale
			vy := (rng.Float64()*2 - 1) * scale
			p := particle.New(x, y, vx, vy, cfg.Radius, 1.0)
			particles = append(particles, p)
		}
	}
	return particles
}

func runHeadless(cfg *config.Config, sys *collision.System) error {
	var samples []collision.Snapshot
	for sys.Time() < headlessDur {
		snap, ok := sys.Tick()
		if !ok {
			break
		}
		samples = append(samples, snap)
	}

	final := metrics.AverageKineticEnergy(sys.Particles())
	summary := map[string]float64{
		"final_avg_kinetic_energy": final,
		"final_temperature":        metrics.Temperature(final),
		"final_packing_factor":     metrics.PackingFactor(sys.Particles(), sys.Box().Area()),
		"particle_count":           float64(len(sys.Particles())),
	}

	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(cfg, samples, summary, time.Now())
	if err != nil {
		return err
	}
	fmt.Println("run saved:", runID)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIMESTAMP\tRADIUS\tFRICTION\tPARTICLES")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%.2f\t%.0f\n",
			r.ID, r.Timestamp.Format(time.RFC3339), r.Radius, r.Friction, r.Metrics["particle_count"])
	}
	return w.Flush()
}
