package flock

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lao-tseu-is-alive/go-buddy-flock/pkg/geometry"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Default simulation parameters.
const (
	DefaultWorldWidth     = 400
	DefaultWorldHeight    = 400
	DefaultPopulationSize = 100
	DefaultTickRate       = 45 // ticks per second

	DefaultNeighborDistance      = 60
	DefaultCloseNeighborDistance = 45

	DefaultSeparationWeight = 30
	DefaultAlignmentWeight  = 4
	DefaultCohesionWeight   = 0.01

	DefaultMaxAccel      = 0.13
	DefaultMaxSpeed      = 2
	DefaultWrapMargin    = 20
	DefaultPilotTurnRate = 0.07 // radians per tick
)

// ErrInvalidConfig is wrapped by every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid flock configuration")

//go:embed config.schema.json
var schemaSource string

var configSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("config.schema.json", schemaSource)
})

type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`

	// Population
	PopulationSize int                `json:"populationSize"` // autonomous buddies
	Spawn          *geometry.Vector2D `json:"spawn,omitempty"` // nil means world center
	Seed           uint64             `json:"seed"`            // 0 picks a time based seed

	// Pilot (the user controlled buddy)
	Pilot         bool              `json:"pilot"`
	PilotSpawn    geometry.Vector2D `json:"pilotSpawn"`
	PilotVelocity geometry.Vector2D `json:"pilotVelocity"`
	PilotTurnRate float64           `json:"pilotTurnRate"`

	TickRate float64 `json:"tickRate"`

	// Interaction Radii
	NeighborDistance      float64 `json:"neighborDistance"`
	CloseNeighborDistance float64 `json:"closeNeighborDistance"`

	// Flocking weights
	SeparationWeight float64 `json:"separationWeight"`
	AlignmentWeight  float64 `json:"alignmentWeight"`
	CohesionWeight   float64 `json:"cohesionWeight"`

	// Physics
	MaxAccel   float64 `json:"maxAccel"`
	MaxSpeed   float64 `json:"maxSpeed"`
	WrapMargin float64 `json:"wrapMargin"`
}

func DefaultConfig() *Config {
	return &Config{
		WorldWidth:            DefaultWorldWidth,
		WorldHeight:           DefaultWorldHeight,
		PopulationSize:        DefaultPopulationSize,
		Pilot:                 true,
		PilotSpawn:            geometry.Vector2D{X: 100, Y: 100},
		PilotVelocity:         geometry.Vector2D{X: 0, Y: 2},
		PilotTurnRate:         DefaultPilotTurnRate,
		TickRate:              DefaultTickRate,
		NeighborDistance:      DefaultNeighborDistance,
		CloseNeighborDistance: DefaultCloseNeighborDistance,
		SeparationWeight:      DefaultSeparationWeight,
		AlignmentWeight:       DefaultAlignmentWeight,
		CohesionWeight:        DefaultCohesionWeight,
		MaxAccel:              DefaultMaxAccel,
		MaxSpeed:              DefaultMaxSpeed,
		WrapMargin:            DefaultWrapMargin,
	}
}

// SpawnPoint is where every autonomous buddy starts.
func (c *Config) SpawnPoint() geometry.Vector2D {
	if c.Spawn != nil {
		return *c.Spawn
	}
	return geometry.Vector2D{X: c.WorldWidth / 2, Y: c.WorldHeight / 2}
}

// TickPeriod is the wall clock time between two steps.
func (c *Config) TickPeriod() time.Duration {
	return time.Duration(float64(time.Second) / c.TickRate)
}

// Validate checks the invariants the physics relies on.
func (c *Config) Validate() error {
	var problems []error
	positive := func(name string, v float64) {
		if !(v > 0) || math.IsInf(v, 0) {
			problems = append(problems, fmt.Errorf("%s must be a positive number, got %v", name, v))
		}
	}
	nonNegative := func(name string, v float64) {
		if !(v >= 0) || math.IsInf(v, 0) {
			problems = append(problems, fmt.Errorf("%s must not be negative, got %v", name, v))
		}
	}
	finite := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			problems = append(problems, fmt.Errorf("%s must be finite, got %v", name, v))
		}
	}

	positive("worldWidth", c.WorldWidth)
	positive("worldHeight", c.WorldHeight)
	if c.PopulationSize < 1 {
		problems = append(problems, fmt.Errorf("populationSize must be at least 1, got %d", c.PopulationSize))
	}
	positive("tickRate", c.TickRate)
	positive("neighborDistance", c.NeighborDistance)
	positive("closeNeighborDistance", c.CloseNeighborDistance)
	finite("separationWeight", c.SeparationWeight)
	finite("alignmentWeight", c.AlignmentWeight)
	finite("cohesionWeight", c.CohesionWeight)
	finite("pilotTurnRate", c.PilotTurnRate)
	nonNegative("maxAccel", c.MaxAccel)
	positive("maxSpeed", c.MaxSpeed)
	nonNegative("wrapMargin", c.WrapMargin)

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(problems...))
	}
	return nil
}

// params derives the shared physics parameters.
func (c *Config) params() *Params {
	return &Params{
		NeighborDistance:      c.NeighborDistance,
		CloseNeighborDistance: c.CloseNeighborDistance,
		Weights: Weights{
			Separation: c.SeparationWeight,
			Alignment:  c.AlignmentWeight,
			Cohesion:   c.CohesionWeight,
		},
		MaxAccel:      c.MaxAccel,
		MaxSpeed:      c.MaxSpeed,
		PilotTurnRate: c.PilotTurnRate,
		Bounds: Bounds{
			Width:  c.WorldWidth,
			Height: c.WorldHeight,
			Margin: c.WrapMargin,
		},
	}
}

// LoadConfig reads a JSON, TOML or YAML file (picked by extension), validates
// it against the embedded schema and decodes it over DefaultConfig.
func LoadConfig(configFile string) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	doc, err := decodeDocument(filepath.Ext(configFile), b)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", configFile, err)
	}

	// Every format goes through JSON so the schema sees one set of types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize config: %w", err)
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to normalize config: %w", err)
	}

	sch, err := configSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeDocument(ext string, b []byte) (interface{}, error) {
	switch strings.ToLower(ext) {
	case ".json":
		var doc interface{}
		err := json.Unmarshal(b, &doc)
		return doc, err
	case ".toml":
		doc := map[string]interface{}{}
		_, err := toml.Decode(string(b), &doc)
		return doc, err
	case ".yaml", ".yml":
		var doc interface{}
		err := yaml.Unmarshal(b, &doc)
		return doc, err
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
}
