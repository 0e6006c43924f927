// Command fogprobe runs a visibility scenario offline: it loads a scenario
// file, executes a number of aggregation passes while walking each source
// along its waypoints, then prints grid statistics and optionally writes
// the resulting fog texture as PNG. Used for tuning cell size, pass budget
// and vision radii without booting the daemon.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/overlay"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/vision"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/world"
)

type scenarioFile struct {
	World struct {
		MinX     float64 `yaml:"min_x"`
		MinZ     float64 `yaml:"min_z"`
		MaxX     float64 `yaml:"max_x"`
		MaxZ     float64 `yaml:"max_z"`
		CellSize float64 `yaml:"cell_size"`
	} `yaml:"world"`
	Sources []scenarioSource `yaml:"sources"`
}

type scenarioSource struct {
	Owner     int         `yaml:"owner"`
	Kind      string      `yaml:"kind"`
	Radius    float64     `yaml:"radius"`
	Waypoints [][]float64 `yaml:"waypoints"` // [x,z] pairs walked over the run
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fogprobe: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	scenarioPath := flag.String("scenario", "scenario.yaml", "scenario file")
	passes := flag.Int("passes", 10, "aggregation passes to run")
	budget := flag.Int("budget", 0, "max cells per pass (0 = unlimited)")
	outPath := flag.String("out", "", "write owner 0 fog texture as PNG")
	flag.Parse()

	raw, err := os.ReadFile(*scenarioPath)
	if err != nil {
		return fmt.Errorf("read scenario: %w", err)
	}
	var sc scenarioFile
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return fmt.Errorf("parse scenario: %w", err)
	}
	if len(sc.Sources) == 0 {
		return fmt.Errorf("scenario has no sources")
	}

	wcfg, err := world.NewWorldConfig(
		world.Vec2{X: sc.World.MinX, Z: sc.World.MinZ},
		world.Vec2{X: sc.World.MaxX, Z: sc.World.MaxZ},
		sc.World.CellSize,
	)
	if err != nil {
		return err
	}

	opts := []vision.Option{vision.WithLogger(zap.NewNop())}
	if *budget > 0 {
		opts = append(opts, vision.WithMaxCellsPerPass(*budget))
	} else {
		opts = append(opts, vision.WithMaxCellsPerPass(wcfg.GridWidth()*wcfg.GridHeight()*16))
	}
	svc := vision.New(wcfg, opts...)

	handles := make([]world.Handle, len(sc.Sources))
	for i, src := range sc.Sources {
		if len(src.Waypoints) == 0 || len(src.Waypoints[0]) != 2 {
			return fmt.Errorf("source %d: needs at least one [x,z] waypoint", i)
		}
		handles[i] = svc.Register(world.Source{
			OwnerID:  src.Owner,
			Kind:     src.Kind,
			Radius:   src.Radius,
			Position: world.Vec2{X: src.Waypoints[0][0], Z: src.Waypoints[0][1]},
			Active:   true,
		})
	}

	start := time.Now()
	for pass := 0; pass < *passes; pass++ {
		frac := 0.0
		if *passes > 1 {
			frac = float64(pass) / float64(*passes-1)
		}
		for i, src := range sc.Sources {
			svc.UpdatePosition(handles[i], waypointAt(src.Waypoints, frac))
		}
		svc.Pass()
	}
	elapsed := time.Since(start)

	st := svc.Status()
	fmt.Printf("grid %dx%d, cell size %.2f\n", st.GridWidth, st.GridHeight, st.CellSize)
	fmt.Printf("%d passes in %s (last pass %s)\n", *passes, elapsed, st.LastPassTime)
	for _, owner := range st.Owners {
		snap := svc.SnapshotFor(owner)
		if snap == nil {
			continue
		}
		total := snap.Width * snap.Height
		fmt.Printf("owner %d: visible %d, explored %d, unexplored %d (of %d cells)\n",
			owner, snap.Count(world.Visible), snap.Count(world.Explored),
			snap.Count(world.Unexplored), total)
	}

	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		if err := overlay.NewMinimap(svc, 0).EncodePNG(f); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
		fmt.Printf("wrote %s\n", *outPath)
	}
	return nil
}

// waypointAt interpolates linearly along the waypoint chain at frac∈[0,1].
func waypointAt(wps [][]float64, frac float64) world.Vec2 {
	if len(wps) == 1 {
		return world.Vec2{X: wps[0][0], Z: wps[0][1]}
	}
	seg := frac * float64(len(wps)-1)
	i := int(seg)
	if i >= len(wps)-1 {
		last := wps[len(wps)-1]
		return world.Vec2{X: last[0], Z: last[1]}
	}
	t := seg - float64(i)
	return world.Vec2{
		X: wps[i][0] + t*(wps[i+1][0]-wps[i][0]),
		Z: wps[i][1] + t*(wps[i+1][1]-wps[i][1]),
	}
}
