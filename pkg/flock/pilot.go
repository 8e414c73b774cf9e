package flock

import (
	"sync/atomic"

	"github.com/lao-tseu-is-alive/go-buddy-flock/pkg/geometry"
)

// Controls is the command surface of the pilot. Commands are level-set:
// the latest value holds on every tick until it is changed. They may be
// called from any goroutine.
type Controls interface {
	SetMoving(on bool)
	SetRotating(on, clockwise bool)
}

// Rotation directions stored by the pilot.
const (
	turnCounterClockwise int32 = -1
	turnNone             int32 = 0
	turnClockwise        int32 = 1
)

// Pilot is the externally driven agent. It ignores the flock: it moves
// along its velocity while moving and turns its velocity while rotating.
type Pilot struct {
	state  State
	params *Params

	moving  atomic.Bool
	turning atomic.Int32
}

var (
	_ Agent    = (*Pilot)(nil)
	_ Controls = (*Pilot)(nil)
)

// NewPilot creates an idle pilot.
func NewPilot(position, velocity geometry.Vector2D, p *Params) *Pilot {
	return &Pilot{
		state:  State{Position: position, Velocity: velocity},
		params: p,
	}
}

func (p *Pilot) State() State { return p.state }

func (p *Pilot) Kind() Kind { return KindPilot }

// SetMoving starts or stops the advance along the current heading.
func (p *Pilot) SetMoving(on bool) { p.moving.Store(on) }

// SetRotating starts turning (clockwise on a y-down screen when clockwise is
// true) or stops turning when on is false.
func (p *Pilot) SetRotating(on, clockwise bool) {
	switch {
	case !on:
		p.turning.Store(turnNone)
	case clockwise:
		p.turning.Store(turnClockwise)
	default:
		p.turning.Store(turnCounterClockwise)
	}
}

// Moving reports the current move intent.
func (p *Pilot) Moving() bool { return p.moving.Load() }

// Rotating reports the current rotate intent.
func (p *Pilot) Rotating() (on, clockwise bool) {
	t := p.turning.Load()
	return t != turnNone, t == turnClockwise
}

func (p *Pilot) plan(_ []Agent) State {
	next := p.state
	if p.moving.Load() {
		next.Position = next.Position.Add(next.Velocity)
	}
	switch p.turning.Load() {
	case turnClockwise:
		next.Velocity = next.Velocity.Rotate(p.params.PilotTurnRate)
	case turnCounterClockwise:
		next.Velocity = next.Velocity.Rotate(-p.params.PilotTurnRate)
	}
	next.Position = p.params.Bounds.Wrap(next.Position)
	return next
}

func (p *Pilot) commit(next State) { p.state = next }
