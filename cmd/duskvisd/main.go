package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/config"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/core/event"
	coresys "github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/core/system"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/data"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/scripting"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/server"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/system"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/vision"
	"github.com/CryptoRabea/KingdomsAtDusk-sub000/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      Kingdoms At Dusk · visibility        \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m         fog-of-war daemon v0.1.0          \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main daemon logic ──────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/duskvis.toml"
	if p := os.Getenv("DUSKVIS_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. World configuration — the single bounds definition every consumer
	// shares.
	printSection("World")
	wcfg, err := world.NewWorldConfig(
		world.Vec2{X: cfg.World.BoundsMinX, Z: cfg.World.BoundsMinZ},
		world.Vec2{X: cfg.World.BoundsMaxX, Z: cfg.World.BoundsMaxZ},
		cfg.World.CellSize,
	)
	if err != nil {
		return fmt.Errorf("world config: %w", err)
	}
	printStat("Grid width", wcfg.GridWidth())
	printStat("Grid height", wcfg.GridHeight())
	fmt.Println()

	// 4. Static data
	printSection("Data")
	kindTable, err := data.LoadKindTable(cfg.Entities.KindsPath,
		cfg.Entities.UnitsHideInExplored, cfg.Entities.BuildingsHideInExplored)
	if err != nil {
		return fmt.Errorf("load kind table: %w", err)
	}
	printStat("Entity kinds", kindTable.Count())

	// 5. Optional Lua vision rules
	var luaEngine *scripting.Engine
	if cfg.Scripting.Enabled {
		luaEngine, err = scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("lua engine: %w", err)
		}
		defer luaEngine.Close()
		printOK("Lua vision scripts loaded")
	}
	fmt.Println()

	// 6. Visibility service + event bus
	bootTime := time.Now()
	opts := []vision.Option{
		vision.WithLogger(log),
		vision.WithKinds(kindTable),
		vision.WithUpdateInterval(cfg.Vision.UpdateInterval()),
		vision.WithMaxCellsPerPass(cfg.Vision.MaxCellsPerPass),
		vision.WithClock(func() float64 {
			// 1 real minute = 1 world hour, wrapping at 24.
			return math.Mod(time.Since(bootTime).Minutes(), 24)
		}),
	}
	if luaEngine != nil {
		opts = append(opts, vision.WithScripting(luaEngine))
	}
	svc := vision.New(wcfg, opts...)

	bus := event.NewBus()
	svc.BindBus(bus)

	// 7. Debug HTTP server
	hub := server.NewHub(log)
	httpSrv := server.New(cfg.HTTP.BindAddress, svc, hub, log)
	go func() {
		if err := httpSrv.Run(); err != nil {
			log.Error("debug server stopped", zap.Error(err))
		}
	}()

	// 8. Tick systems
	runner := coresys.NewRunner()
	runner.Register(system.NewDispatchSystem(bus))
	runner.Register(system.NewVisibilitySystem(svc, 1))
	runner.Register(system.NewBroadcastSystem(svc, hub, []int{0, 1}, log))

	// 9. Demo simulation: two armies patrolling the map, driven through
	// the same lifecycle notifications a real game host would emit.
	sim := newSimulation(bus, kindTable, wcfg)
	sim.spawnAll()
	printSection("Ready")
	printReady(fmt.Sprintf("Debug server on %s", cfg.HTTP.BindAddress))
	printReady(fmt.Sprintf("Pass cadence %s, cell budget %d",
		cfg.Vision.UpdateInterval(), cfg.Vision.MaxCellsPerPass))
	printStat("Simulated sources", sim.count())
	fmt.Println()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Vision.UpdateInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sim.step(cfg.Vision.UpdateInterval())
			runner.Tick(cfg.Vision.UpdateInterval())
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpSrv.Shutdown(ctx); err != nil {
				log.Warn("debug server shutdown", zap.Error(err))
			}
			log.Info("visibility daemon stopped")
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
