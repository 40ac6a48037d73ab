// Package config loads simulation parameters from a TOML file layered over
// built-in defaults.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

var ErrInvalid = errors.New("invalid config")

// Config holds every tunable of a simulation run.
type Config struct {
	World  World   `toml:"world"`
	Ant    Species `toml:"ant"`
	Food   Species `toml:"food"`
	AntAI  AntAI   `toml:"ant_ai"`
	Sim    Sim     `toml:"sim"`
	Player Player  `toml:"player"`
	Server Server  `toml:"server"`
	Log    Log     `toml:"log"`
}

type World struct {
	Width       float64 `toml:"width"`
	Height      float64 `toml:"height"`
	Seed        int64   `toml:"seed"`
	InitialAnts int     `toml:"initial_ants"`
	InitialFood int     `toml:"initial_food"`
	// FoodNutrition is how much stored food an ant gains per eaten food.
	FoodNutrition float64 `toml:"food_nutrition"`
	// FoodClustering in [0,1) rejects initial food placements where the
	// noise field is below the threshold. 0 places food uniformly.
	FoodClustering float64 `toml:"food_clustering"`
}

// Species holds the constants shared by every dweller of one species.
// The eating fields are ignored for species that do not eat.
type Species struct {
	VisibilityRange   float64 `toml:"visibility_range"`
	ActionRange       float64 `toml:"action_range"`
	BaseSpeed         float64 `toml:"base_speed"`
	ReproductionRate  int     `toml:"reproduction_rate"`
	ReproductionRange float64 `toml:"reproduction_range"`
	FoodConsumption   float64 `toml:"food_consumption"`
	FoodSaturation    float64 `toml:"food_saturation"`
}

type AntAI struct {
	// Type is "angle_distance" or "nearest_food".
	Type            string  `toml:"type"`
	DirectionAngle  float64 `toml:"direction_angle"`
	FoodCoefficient float64 `toml:"food_coefficient"`
	AntCoefficient  float64 `toml:"ant_coefficient"`
}

type Sim struct {
	// Workers is the size of the decision worker pool.
	Workers int `toml:"workers"`
}

type Player struct {
	TickInterval    Duration `toml:"tick_interval"`
	StopWhenExtinct bool     `toml:"stop_when_extinct"`
	Autoplay        bool     `toml:"autoplay"`
}

type Server struct {
	Addr      string `toml:"addr"`
	StaticDir string `toml:"static_dir"`
}

type Log struct {
	Verbose bool `toml:"verbose"`
}

// Duration decodes TOML strings such as "200ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "parse duration %q", text)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a 200x200 world seeded with one ant and 30 food sources.
func Default() *Config {
	return &Config{
		World: World{
			Width:         200,
			Height:        200,
			Seed:          1,
			InitialAnts:   1,
			InitialFood:   30,
			FoodNutrition: 25,
		},
		Ant: Species{
			VisibilityRange:   30,
			ActionRange:       2,
			BaseSpeed:         3,
			ReproductionRate:  20,
			ReproductionRange: 20,
			FoodConsumption:   1,
			FoodSaturation:    50,
		},
		Food: Species{
			ReproductionRate:  30,
			ReproductionRange: 30,
		},
		AntAI: AntAI{
			Type:            "angle_distance",
			DirectionAngle:  0.25,
			FoodCoefficient: 4,
			AntCoefficient:  -2,
		},
		Sim: Sim{
			Workers: runtime.NumCPU(),
		},
		Player: Player{
			TickInterval:    Duration{200 * time.Millisecond},
			StopWhenExtinct: true,
			Autoplay:        true,
		},
		Server: Server{
			Addr:      ":8080",
			StaticDir: "static",
		},
	}
}

// Load decodes the TOML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	conf := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, conf); err != nil {
			return nil, errors.Wrapf(err, "load config %s", path)
		}
	}
	if err := conf.applyEnv(); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) applyEnv() error {
	if p := os.Getenv("PORT"); p != "" {
		if _, err := strconv.Atoi(p); err != nil {
			return errors.Wrapf(ErrInvalid, "PORT=%q", p)
		}
		c.Server.Addr = ":" + p
	}
	if s := os.Getenv("LIFESIM_SEED"); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return errors.Wrapf(ErrInvalid, "LIFESIM_SEED=%q", s)
		}
		c.World.Seed = seed
	}
	return nil
}

// Validate reports the first parameter that cannot produce a working world.
func (c *Config) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return errors.Wrap(ErrInvalid, fmt.Sprintf(format, args...))
	}
	switch {
	case c.World.Width <= 0 || c.World.Height <= 0:
		return invalid("world size %gx%g must be positive", c.World.Width, c.World.Height)
	case c.World.InitialAnts < 0 || c.World.InitialFood < 0:
		return invalid("initial population must not be negative")
	case c.World.FoodClustering < 0 || c.World.FoodClustering >= 1:
		return invalid("food_clustering %g must be in [0,1)", c.World.FoodClustering)
	case c.Ant.FoodSaturation <= 0:
		return invalid("ant food_saturation must be positive")
	case c.Ant.ReproductionRate < 0 || c.Food.ReproductionRate < 0:
		return invalid("reproduction_rate must not be negative")
	case c.Sim.Workers < 0:
		return invalid("sim workers %d must not be negative", c.Sim.Workers)
	case c.Player.TickInterval.Duration < 0:
		return invalid("player tick_interval must not be negative")
	}
	switch c.AntAI.Type {
	case "angle_distance", "nearest_food":
	default:
		return invalid("unknown ant_ai type %q", c.AntAI.Type)
	}
	return nil
}
