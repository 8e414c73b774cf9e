// Package flock simulates a flock of buddies following the boids rules,
// plus one pilot driven by external commands.
//
// A Flock is not safe for concurrent use: one goroutine calls Step and
// RenderData. Only the pilot Controls may be used from other goroutines.
package flock

import (
	"math/rand/v2"
	"time"

	"github.com/lao-tseu-is-alive/go-buddy-flock/pkg/geometry"
)

// Flock owns the population and advances it one tick at a time.
type Flock struct {
	agents []Agent // insertion order is render order
	next   []State
	pilot  *Pilot
	params *Params
	tick   uint64
}

// New builds the population described by cfg: PopulationSize buddies at the
// spawn point with random velocities in (-1, 1)², then the pilot if enabled.
func New(cfg *Config) (*Flock, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	p := cfg.params()
	spawn := cfg.SpawnPoint()
	agents := make([]Agent, 0, cfg.PopulationSize+1)
	for i := 0; i < cfg.PopulationSize; i++ {
		vel := geometry.Vector2D{
			X: rng.Float64()*2 - 1,
			Y: rng.Float64()*2 - 1,
		}
		agents = append(agents, NewBuddy(spawn, vel, p))
	}

	if cfg.Pilot {
		agents = append(agents, NewPilot(cfg.PilotSpawn, cfg.PilotVelocity, p))
	}
	return newFlock(p, agents), nil
}

func newFlock(p *Params, agents []Agent) *Flock {
	f := &Flock{
		agents: agents,
		next:   make([]State, len(agents)),
		params: p,
	}
	for _, a := range agents {
		if pilot, ok := a.(*Pilot); ok {
			f.pilot = pilot
		}
	}
	return f
}

// Step advances every agent by one tick. All agents first plan against the
// population as it stood when Step was called, then all plans are committed,
// so processing order never leaks into the physics.
func (f *Flock) Step() {
	for i, a := range f.agents {
		f.next[i] = a.plan(f.agents)
	}
	for i, a := range f.agents {
		a.commit(f.next[i])
	}
	f.tick++
}

// RenderData returns one sprite per agent, in population order.
func (f *Flock) RenderData() []Sprite {
	sprites := make([]Sprite, len(f.agents))
	for i, a := range f.agents {
		s := a.State()
		sprites[i] = Sprite{
			Position: s.Position,
			Heading:  s.Velocity.Angle(),
			Kind:     a.Kind(),
		}
	}
	return sprites
}

// Controls returns the pilot's command surface, or nil when the flock has
// no pilot.
func (f *Flock) Controls() Controls {
	if f.pilot == nil {
		return nil
	}
	return f.pilot
}

// Agents exposes the population. Callers must not modify the slice.
func (f *Flock) Agents() []Agent { return f.agents }

// Len is the population size, pilot included.
func (f *Flock) Len() int { return len(f.agents) }

// Tick is the number of completed steps.
func (f *Flock) Tick() uint64 { return f.tick }

// Bounds is the world rectangle agents wrap around.
func (f *Flock) Bounds() Bounds { return f.params.Bounds }
