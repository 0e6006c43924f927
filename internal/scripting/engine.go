package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for tunable vision rules.
// Single-goroutine access only (the aggregator tick).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory and its "vision" subdirectory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	if err := e.loadDir(filepath.Join(scriptsDir, "vision")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load vision scripts: %w", err)
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// VisionContext holds pre-packed data for a vision radius calculation.
type VisionContext struct {
	Kind       string
	OwnerID    int
	BaseRadius float64
	ClockHour  float64 // world clock hour 0-24, for day/night rules
}

// VisionRadius calls the Lua vision_radius function to apply situational
// modifiers (night, weather, upgrades) to a source's base radius. Any
// script error falls back to the base radius.
func (e *Engine) VisionRadius(ctx VisionContext) float64 {
	fn := e.vm.GetGlobal("vision_radius")
	if fn == lua.LNil {
		return ctx.BaseRadius
	}

	t := e.vm.NewTable()
	t.RawSetString("kind", lua.LString(ctx.Kind))
	t.RawSetString("owner", lua.LNumber(ctx.OwnerID))
	t.RawSetString("base_radius", lua.LNumber(ctx.BaseRadius))
	t.RawSetString("clock_hour", lua.LNumber(ctx.ClockHour))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua vision_radius error", zap.Error(err))
		return ctx.BaseRadius
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	n, ok := result.(lua.LNumber)
	if !ok {
		e.log.Error("lua vision_radius returned non-number")
		return ctx.BaseRadius
	}
	r := float64(n)
	if r < 0 {
		return 0
	}
	return r
}

// Close releases the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
