// Package term draws the flock in a terminal with tcell. Terminals report key
// presses but not releases, so pilot keys toggle instead of hold.
package term

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-buddy-flock/internal/world"
	"github.com/lao-tseu-is-alive/go-buddy-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-buddy-flock/pkg/geometry"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

var (
	buddyStyle  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0x4D, 0x64, 0x9A))
	pilotStyle  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0xA6, 0x8A, 0x53)).Bold(true)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
)

// arrows by heading octant, starting east and turning clockwise on screen.
var arrows = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

type Viewer struct {
	screen     tcell.Screen
	ctx        context.Context
	worldPID   *actor.PID
	snapshotCh <-chan world.Snapshot
	controls   flock.Controls
	cfg        *flock.Config
	logger     golog.Logger

	last     world.Snapshot
	paused   bool
	stepOnce bool
	moving   bool
	turn     int // -1 counter-clockwise, 0 none, +1 clockwise

	// OnThrust, when set, runs each time thrust turns on.
	OnThrust func()
}

// New wraps an initialized screen. controls may be nil.
func New(ctx context.Context, screen tcell.Screen, cfg *flock.Config, worldPID *actor.PID,
	snapshotCh <-chan world.Snapshot, controls flock.Controls, logger golog.Logger) *Viewer {
	return &Viewer{
		screen:     screen,
		ctx:        ctx,
		worldPID:   worldPID,
		snapshotCh: snapshotCh,
		controls:   controls,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run ticks the world at the configured rate and redraws until the user
// quits.
func (v *Viewer) Run() error {
	ticker := time.NewTicker(v.cfg.TickPeriod())
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				// screen finalized
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok {
				return nil
			}
			if !v.handleEvent(ev) {
				return nil
			}

		case <-ticker.C:
			v.drainSnapshots()
			if !v.paused || v.stepOnce {
				v.stepOnce = false
				if err := actor.Tell(v.ctx, v.worldPID, world.NewTick(v.cfg.TickPeriod())); err != nil {
					return fmt.Errorf("failed to tick world: %w", err)
				}
			}
			v.draw()
		}
	}
}

func (v *Viewer) drainSnapshots() {
	for {
		select {
		case snap := <-v.snapshotCh:
			v.last = snap
		default:
			return
		}
	}
}

// handleEvent applies one input event. It returns false when the user quits.
func (v *Viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			v.paused = !v.paused
			v.logger.Debugf("paused: %v", v.paused)
		case '.':
			if v.paused {
				v.stepOnce = true
			}
		case 'w':
			v.toggleThrust()
		case 'a':
			v.toggleTurn(-1)
		case 'd':
			v.toggleTurn(1)
		}

	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *Viewer) toggleThrust() {
	if v.controls == nil {
		return
	}
	v.moving = !v.moving
	v.controls.SetMoving(v.moving)
	if v.moving && v.OnThrust != nil {
		v.OnThrust()
	}
}

// toggleTurn starts turning in dir, or stops when already turning that way.
func (v *Viewer) toggleTurn(dir int) {
	if v.controls == nil {
		return
	}
	if v.turn == dir {
		v.turn = 0
		v.controls.SetRotating(false, false)
		return
	}
	v.turn = dir
	v.controls.SetRotating(true, dir > 0)
}

func (v *Viewer) draw() {
	v.screen.Clear()
	cols, rows := v.screen.Size()
	if rows < 2 || cols < 1 {
		v.screen.Show()
		return
	}

	// pilot last so buddies never hide it
	v.drawKind(flock.KindBuddy, buddyStyle, cols, rows-1)
	v.drawKind(flock.KindPilot, pilotStyle, cols, rows-1)
	v.drawStatus(cols, rows-1)
	v.screen.Show()
}

func (v *Viewer) drawKind(kind flock.Kind, style tcell.Style, cols, rows int) {
	for _, s := range v.last.Sprites {
		if s.Kind != kind {
			continue
		}
		x, y := cellFor(s.Position, v.cfg.WorldWidth, v.cfg.WorldHeight, cols, rows)
		v.screen.SetContent(x, y, glyphFor(s.Heading), nil, style)
	}
}

func (v *Viewer) drawStatus(cols, row int) {
	state := "running"
	if v.paused {
		state = "paused (. to step)"
	}
	msg := fmt.Sprintf(" tick %d | %d agents | %s | w thrust, a/d turn, space pause, q quit ",
		v.last.Tick, len(v.last.Sprites), state)
	x := 0
	for _, r := range msg {
		if x >= cols {
			break
		}
		v.screen.SetContent(x, row, r, nil, statusStyle)
		x++
	}
	for ; x < cols; x++ {
		v.screen.SetContent(x, row, ' ', nil, statusStyle)
	}
}

// cellFor scales a world position onto a cols x rows grid. Positions inside
// the wrap margin clamp to the border cells.
func cellFor(p geometry.Vector2D, width, height float64, cols, rows int) (int, int) {
	x := int(math.Floor(p.X / width * float64(cols)))
	y := int(math.Floor(p.Y / height * float64(rows)))
	return min(max(x, 0), cols-1), min(max(y, 0), rows-1)
}

// glyphFor picks the arrow closest to heading.
func glyphFor(heading float64) rune {
	octant := int(math.Round(heading/(math.Pi/4))) % 8
	if octant < 0 {
		octant += 8
	}
	return arrows[octant]
}
