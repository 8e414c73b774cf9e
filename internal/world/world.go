// Package world hosts a flock inside a goakt actor so a viewer can drive it
// with ticks and read frames back without sharing the simulation state.
package world

import (
	"context"
	"fmt"
	"time"

	"github.com/lao-tseu-is-alive/go-buddy-flock/internal/record"
	"github.com/lao-tseu-is-alive/go-buddy-flock/pkg/flock"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/durationpb"
)

const actorName = "world"

// Tick asks the world for one frame followed by one step. It carries the
// scheduler period that produced it.
type Tick = durationpb.Duration

func NewTick(period time.Duration) *Tick {
	return durationpb.New(period)
}

// Snapshot is the frame rendered before step Tick was applied.
type Snapshot struct {
	Tick    uint64
	Sprites []flock.Sprite
}

// WorldActor owns the flock. Only the actor goroutine touches it, except for
// the pilot controls which are safe to call from anywhere.
type WorldActor struct {
	flock      *flock.Flock
	snapshotCh chan<- Snapshot
	recorder   *record.Recorder

	// --- Tick-rate stats ---
	tickCount   int
	dropCount   int
	lastLogTime time.Time
}

// NewWorldActor wraps f. rec may be nil.
func NewWorldActor(f *flock.Flock, snapshotCh chan<- Snapshot, rec *record.Recorder) *WorldActor {
	return &WorldActor{
		flock:       f,
		snapshotCh:  snapshotCh,
		recorder:    rec,
		lastLogTime: time.Now(),
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	b := w.flock.Bounds()
	ctx.ActorSystem().Logger().Infof("World is ready: %d agents in a %vx%v world", w.flock.Len(), b.Width, b.Height)
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Info("World Started.")

	case *Tick:
		w.logTickRate(ctx, msg.AsDuration())

		frame := Snapshot{Tick: w.flock.Tick(), Sprites: w.flock.RenderData()}
		w.record(ctx, frame)
		w.pushSnapshot(frame)

		w.flock.Step()

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World stopped after %d ticks", w.flock.Tick())
	return nil
}

func (w *WorldActor) logTickRate(ctx *actor.ReceiveContext, period time.Duration) {
	w.tickCount++
	if time.Since(w.lastLogTime) >= time.Second {
		ctx.Logger().Infof("📊 TICK RATE: %d/sec (period %v, dropped frames: %d) | Agents: %d",
			w.tickCount, period, w.dropCount, w.flock.Len())
		w.tickCount = 0
		w.dropCount = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) record(ctx *actor.ReceiveContext, frame Snapshot) {
	if w.recorder == nil {
		return
	}
	if err := w.recorder.Record(frame.Tick, frame.Sprites); err != nil {
		ctx.Logger().Errorf("recording stopped: %v", err)
		w.recorder = nil
	}
}

func (w *WorldActor) pushSnapshot(frame Snapshot) {
	select {
	case w.snapshotCh <- frame:
	default:
		// viewer busy, skip frame
		w.dropCount++
	}
}

// Start creates and starts an actor system and spawns w in it. The caller
// stops the returned system.
func Start(ctx context.Context, logger log.Logger, w *WorldActor) (actor.ActorSystem, *actor.PID, error) {
	system, err := actor.NewActorSystem("FlockSystem", actor.WithLogger(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to start actor system: %w", err)
	}
	pid, err := system.Spawn(ctx, actorName, w)
	if err != nil {
		_ = system.Stop(ctx)
		return nil, nil, fmt.Errorf("failed to spawn world: %w", err)
	}
	return system, pid, nil
}
