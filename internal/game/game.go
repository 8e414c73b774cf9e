// Package game is the ebiten front-end. It drives the world actor with one
// tick per update and draws the latest frame it pushed back.
package game

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-buddy-flock/internal/world"
	"github.com/lao-tseu-is-alive/go-buddy-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-buddy-flock/pkg/ui"
	"github.com/tochemey/goakt/v3/actor"
)

var (
	whiteImage = ebiten.NewImage(3, 3)

	backgroundColor = color.RGBA{R: 10, G: 10, B: 30, A: 255}
	buddyColor      = color.RGBA{R: 0x4D, G: 0x64, B: 0x9A, A: 255}
	pilotColor      = color.RGBA{R: 0xA6, G: 0x8A, B: 0x53, A: 255}
	radiusColor     = color.RGBA{R: 0xA6, G: 0x8A, B: 0x53, A: 90}
)

func init() {
	whiteImage.Fill(color.White)
}

type Game struct {
	ctx        context.Context
	worldPID   *actor.PID
	snapshotCh <-chan world.Snapshot
	lastState  world.Snapshot
	controls   flock.Controls
	cfg        *flock.Config
	period     time.Duration

	// UI Controls
	toolbar      *ui.Toolbar
	widgetPause  *ui.Checkbox
	widgetRadius *ui.Checkbox
	widgetStep   *ui.Button
	stepOnce     bool

	// reused by drawFlock
	vertices []ebiten.Vertex
	indices  []uint16

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64
}

// New builds a game around an already spawned world actor. controls may be
// nil when the flock has no pilot.
func New(ctx context.Context, cfg *flock.Config, worldPID *actor.PID, snapshotCh <-chan world.Snapshot, controls flock.Controls) *Game {
	g := &Game{
		ctx:        ctx,
		worldPID:   worldPID,
		snapshotCh: snapshotCh,
		controls:   controls,
		cfg:        cfg,
		period:     cfg.TickPeriod(),
		toolbar:    ui.NewToolbar(6, cfg.WorldHeight-34),
	}

	g.widgetPause = g.toolbar.AddCheckbox("Pause", false)
	g.widgetStep = g.toolbar.AddButton("Step", 48, func() { g.stepOnce = true })
	g.widgetStep.Disabled = true
	g.widgetPause.OnChange = func(paused bool) { g.widgetStep.Disabled = !paused }
	g.widgetRadius = g.toolbar.AddCheckbox("Radius", false)
	return g
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	g.toolbar.Update()
	g.handleKeys()

	// keep only the newest frame
	for drained := false; !drained; {
		select {
		case snap := <-g.snapshotCh:
			g.lastState = snap
		default:
			drained = true
		}
	}

	if !g.widgetPause.Value || g.stepOnce {
		g.stepOnce = false
		if err := actor.Tell(g.ctx, g.worldPID, world.NewTick(g.period)); err != nil {
			return fmt.Errorf("failed to tick world: %w", err)
		}
	}
	return nil
}

// handleKeys maps W/A/D presses and releases to pilot intents. Space toggles
// pause and period steps while paused.
func (g *Game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.widgetPause.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		g.widgetStep.Click()
	}

	if g.controls == nil {
		return
	}
	if inpututil.IsKeyJustReleased(ebiten.KeyW) {
		g.controls.SetMoving(false)
	}
	if inpututil.IsKeyJustReleased(ebiten.KeyA) || inpututil.IsKeyJustReleased(ebiten.KeyD) {
		g.controls.SetRotating(false, false)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		g.controls.SetMoving(true)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		g.controls.SetRotating(true, false)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.controls.SetRotating(true, true)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(backgroundColor)

	if g.widgetRadius.Value {
		g.drawRadii(screen)
	}
	g.drawFlock(screen)
	g.toolbar.Draw(screen)

	msg := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nTick: %d  Agents: %d\nUpdate: %.2fms  Draw: %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.lastState.Tick,
		len(g.lastState.Sprites),
		g.updateAvg,
		g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, 6, 4)
}

// drawFlock batches agents into as few DrawTriangles calls as uint16
// indices allow.
func (g *Game) drawFlock(screen *ebiten.Image) {
	flush := func() {
		if len(g.indices) > 0 {
			screen.DrawTriangles(g.vertices, g.indices, whiteImage, &ebiten.DrawTrianglesOptions{})
		}
		g.vertices = g.vertices[:0]
		g.indices = g.indices[:0]
	}

	flush()
	for _, s := range g.lastState.Sprites {
		if len(g.vertices)+3 > math.MaxUint16 {
			flush()
		}
		clr := buddyColor
		if s.Kind == flock.KindPilot {
			clr = pilotColor
		}
		g.vertices, g.indices = appendTriangle(g.vertices, g.indices, s, clr)
	}
	flush()
}

// drawRadii circles the pilot with the neighbor and close-neighbor distances.
func (g *Game) drawRadii(screen *ebiten.Image) {
	for _, s := range g.lastState.Sprites {
		if s.Kind != flock.KindPilot {
			continue
		}
		x, y := float32(s.Position.X), float32(s.Position.Y)
		vector.StrokeCircle(screen, x, y, float32(g.cfg.NeighborDistance), 1, radiusColor, true)
		vector.StrokeCircle(screen, x, y, float32(g.cfg.CloseNeighborDistance), 1, radiusColor, true)
	}
}

// appendTriangle adds a heading-rotated triangle: a tip 6px ahead and two
// rear corners 5px back at ±2.5 rad.
func appendTriangle(vs []ebiten.Vertex, is []uint16, s flock.Sprite, clr color.RGBA) ([]ebiten.Vertex, []uint16) {
	r := float32(clr.R) / 0xff
	gr := float32(clr.G) / 0xff
	b := float32(clr.B) / 0xff

	base := uint16(len(vs))
	for _, p := range [3]struct{ da, l float64 }{{0, 6}, {2.5, 5}, {-2.5, 5}} {
		a := s.Heading + p.da
		vs = append(vs, ebiten.Vertex{
			DstX:   float32(s.Position.X + math.Cos(a)*p.l),
			DstY:   float32(s.Position.Y + math.Sin(a)*p.l),
			SrcX:   1,
			SrcY:   1,
			ColorR: r,
			ColorG: gr,
			ColorB: b,
			ColorA: 1,
		})
	}
	return vs, append(is, base, base+1, base+2)
}

func (g *Game) Layout(w, h int) (int, int) {
	return int(g.cfg.WorldWidth), int(g.cfg.WorldHeight)
}
