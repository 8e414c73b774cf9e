package flock

import "github.com/lao-tseu-is-alive/go-buddy-flock/pkg/geometry"

// Buddy is an autonomous agent steered by separation, alignment and
// cohesion.
type Buddy struct {
	state  State
	params *Params

	// Rebuilt every tick; they point into the population and own nothing.
	neighbors      []Agent
	closeNeighbors []Agent
}

var _ Agent = (*Buddy)(nil)

// NewBuddy creates a buddy sharing the flock parameters p.
func NewBuddy(position, velocity geometry.Vector2D, p *Params) *Buddy {
	return &Buddy{
		state:  State{Position: position, Velocity: velocity},
		params: p,
	}
}

func (b *Buddy) State() State { return b.state }

func (b *Buddy) Kind() Kind { return KindBuddy }

// Neighbors returns the neighbors found during the last tick.
func (b *Buddy) Neighbors() []Agent { return b.neighbors }

// CloseNeighbors returns the close neighbors found during the last tick.
// They are always a subset of Neighbors.
func (b *Buddy) CloseNeighbors() []Agent { return b.closeNeighbors }

// Steering is the unclamped combination of the three flocking forces for the
// current neighbor sets.
func (b *Buddy) Steering() geometry.Vector2D {
	pos := b.state.Position
	return Steering(
		Separation(pos, b.closeNeighbors, b.params.CloseNeighborDistance),
		Alignment(b.neighbors),
		Cohesion(pos, b.neighbors),
		b.params.Weights,
	)
}

func (b *Buddy) plan(population []Agent) State {
	// Reset slices to length 0 but keep their capacity from the last tick.
	b.neighbors, b.closeNeighbors = classify(b, population, b.params, b.neighbors[:0], b.closeNeighbors[:0])

	accel := b.Steering().ClampLen(b.params.MaxAccel)
	vel := b.state.Velocity.Add(accel).ClampLen(b.params.MaxSpeed)
	pos := b.params.Bounds.Wrap(b.state.Position.Add(vel))

	return State{Position: pos, Velocity: vel}
}

func (b *Buddy) commit(next State) { b.state = next }
