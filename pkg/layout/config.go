package layout

import (
	"fmt"
	"math/rand/v2"
)

// Seeding strategies.
const (
	SeedAuto   = "auto"   // radial when the graph has relationships, grid otherwise
	SeedGrid   = "grid"   // always grid
	SeedRadial = "radial" // radial, falling back to grid for unreachable nodes
)

// Config holds the force simulation constants.
type Config struct {
	// Seed drives grid jitter. Equal seeds give equal layouts.
	Seed uint64 `toml:"seed" json:"seed"`

	// Seeding selects the initial placement strategy.
	Seeding string `toml:"seeding" json:"seeding" validate:"oneof=auto grid radial"`

	// MaxIterations bounds the simulation.
	MaxIterations int `toml:"max_iterations" json:"max_iterations" validate:"gte=0"`

	// Spacing is the gap between grid cells. Jitter is the full width of the
	// uniform random offset applied to grid positions and must stay below
	// Spacing so jittered boxes cannot touch.
	Spacing float64 `toml:"spacing" json:"spacing" validate:"gt=0"`
	Jitter  float64 `toml:"jitter" json:"jitter" validate:"gte=0"`

	// PreferredLength is the desired visible connector length, measured
	// between box boundaries.
	PreferredLength float64 `toml:"preferred_length" json:"preferred_length" validate:"gt=0"`

	RepulsionScale  float64 `toml:"repulsion_scale" json:"repulsion_scale" validate:"gte=0"`
	AvoidanceStep   float64 `toml:"avoidance_step" json:"avoidance_step" validate:"gte=0"`
	AttractionScale float64 `toml:"attraction_scale" json:"attraction_scale" validate:"gte=0,lte=0.5"`

	// Tolerance is the largest per-force displacement still treated as
	// "did not move" for early termination.
	Tolerance float64 `toml:"tolerance" json:"tolerance" validate:"gte=0"`

	// Margin surrounds the normalized layout. MinWidth and MinHeight floor
	// the reported world size.
	Margin    float64 `toml:"margin" json:"margin" validate:"gte=0"`
	MinWidth  float64 `toml:"min_width" json:"min_width" validate:"gte=0"`
	MinHeight float64 `toml:"min_height" json:"min_height" validate:"gte=0"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Seed:            1,
		Seeding:         SeedAuto,
		MaxIterations:   500,
		Spacing:         120,
		Jitter:          30,
		PreferredLength: 80,
		RepulsionScale:  0.5,
		AvoidanceStep:   10,
		AttractionScale: 0.1,
		Tolerance:       1e-6,
		Margin:          40,
		MinWidth:        800,
		MinHeight:       600,
	}
}

// Validate checks cross-field constraints the struct tags cannot express.
func (c Config) Validate() error {
	if c.Jitter >= c.Spacing {
		return fmt.Errorf("jitter (%g) must be smaller than spacing (%g)", c.Jitter, c.Spacing)
	}
	switch c.Seeding {
	case SeedAuto, SeedGrid, SeedRadial:
	default:
		return fmt.Errorf("unknown seeding %q", c.Seeding)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must not be negative")
	}
	return nil
}

func (c Config) rng() *rand.Rand {
	return rand.New(rand.NewPCG(c.Seed, c.Seed^0xdeadbeef))
}
