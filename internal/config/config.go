package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	World     WorldConfig     `toml:"world"`
	Vision    VisionConfig    `toml:"vision"`
	Entities  EntitiesConfig  `toml:"entities"`
	Scripting ScriptingConfig `toml:"scripting"`
	HTTP      HTTPConfig      `toml:"http"`
	Logging   LoggingConfig   `toml:"logging"`
}

// WorldConfig is the canonical bounds definition. Loaded once; every
// coordinate mapping in the process derives from these four numbers.
type WorldConfig struct {
	BoundsMinX float64 `toml:"bounds_min_x"`
	BoundsMinZ float64 `toml:"bounds_min_z"`
	BoundsMaxX float64 `toml:"bounds_max_x"`
	BoundsMaxZ float64 `toml:"bounds_max_z"`
	CellSize   float64 `toml:"cell_size"` // world units per visibility cell
}

type VisionConfig struct {
	UpdateIntervalSec float64 `toml:"update_interval_sec"` // pass cadence in seconds, not per-frame
	MaxCellsPerPass   int     `toml:"max_cells_per_pass"`  // per-pass budget; overruns spread across passes
}

// UpdateInterval returns the pass cadence as a duration.
func (c VisionConfig) UpdateInterval() time.Duration {
	return time.Duration(c.UpdateIntervalSec * float64(time.Second))
}

type EntitiesConfig struct {
	KindsPath string `toml:"kinds_path"`
	// Policy defaults for kinds missing from the table.
	UnitsHideInExplored     bool `toml:"units_hide_in_explored"`
	BuildingsHideInExplored bool `toml:"buildings_hide_in_explored"`
}

type ScriptingConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type HTTPConfig struct {
	BindAddress string `toml:"bind_address"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		World: WorldConfig{
			BoundsMinX: 0,
			BoundsMinZ: 0,
			BoundsMaxX: 512,
			BoundsMaxZ: 512,
			CellSize:   2.0,
		},
		Vision: VisionConfig{
			UpdateIntervalSec: 0.1,
			MaxCellsPerPass:   800,
		},
		Entities: EntitiesConfig{
			KindsPath:               "data/yaml/kind_list.yaml",
			UnitsHideInExplored:     true,
			BuildingsHideInExplored: false, // buildings persist as remembered silhouettes
		},
		Scripting: ScriptingConfig{
			Enabled: false,
			Dir:     "scripts",
		},
		HTTP: HTTPConfig{
			BindAddress: "127.0.0.1:7440",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
