package flock

import "github.com/lao-tseu-is-alive/go-buddy-flock/pkg/geometry"

// Kind tells front-ends which variant an agent is.
type Kind int

const (
	KindBuddy Kind = iota // autonomous, flocking driven
	KindPilot             // driven by Controls
)

func (k Kind) String() string {
	switch k {
	case KindBuddy:
		return "buddy"
	case KindPilot:
		return "pilot"
	default:
		return "unknown"
	}
}

// State is the part of an agent that changes every tick.
type State struct {
	Position geometry.Vector2D
	Velocity geometry.Vector2D
}

// Agent is one member of the population. The set of implementations is
// closed: *Buddy and *Pilot.
type Agent interface {
	State() State
	Kind() Kind

	// plan returns the agent's next state given the population as it stood
	// at the start of the tick. It must not change the State of any agent.
	plan(population []Agent) State
	commit(next State)
}

// Sprite is what a renderer needs to draw one agent.
type Sprite struct {
	Position geometry.Vector2D
	Heading  float64 // radians, Angle of the velocity
	Kind     Kind
}

// Weights scale the three flocking forces before they are summed.
type Weights struct {
	Separation float64
	Alignment  float64
	Cohesion   float64
}

// Bounds is the world rectangle. Agents leaving it by more than Margin
// reappear Margin units past the opposite edge.
type Bounds struct {
	Width, Height float64
	Margin        float64
}

// Wrap maps a position that left the world back to the opposite side.
func (b Bounds) Wrap(p geometry.Vector2D) geometry.Vector2D {
	if p.X > b.Width+b.Margin {
		p.X = -b.Margin
	} else if p.X < -b.Margin {
		p.X = b.Width + b.Margin
	}
	if p.Y > b.Height+b.Margin {
		p.Y = -b.Margin
	} else if p.Y < -b.Margin {
		p.Y = b.Height + b.Margin
	}
	return p
}

// Params are the physics parameters shared by every agent of a flock.
type Params struct {
	NeighborDistance      float64
	CloseNeighborDistance float64
	Weights               Weights
	MaxAccel              float64
	MaxSpeed              float64
	PilotTurnRate         float64
	Bounds                Bounds
}
