package world

import (
	"bytes"
	"context"
	"slices"
	"testing"
	"time"

	"github.com/lao-tseu-is-alive/go-buddy-flock/internal/record"
	"github.com/lao-tseu-is-alive/go-buddy-flock/pkg/flock"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
)

func newTestFlock(t *testing.T) *flock.Flock {
	t.Helper()
	cfg := flock.DefaultConfig()
	cfg.PopulationSize = 8
	cfg.Seed = 3
	f, err := flock.New(cfg)
	if err != nil {
		t.Fatalf("flock.New() error: %v", err)
	}
	return f
}

func waitSnapshot(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap := <-ch:
		return snap
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a snapshot")
		return Snapshot{}
	}
}

func TestWorldActor_RendersThenSteps(t *testing.T) {
	ctx := context.Background()
	f := newTestFlock(t)
	initial := f.RenderData()

	// reference run stepped directly
	ref := newTestFlock(t)
	ref.Step()
	afterOne := ref.RenderData()

	snapshots := make(chan Snapshot, 4)
	system, pid, err := Start(ctx, log.DiscardLogger, NewWorldActor(f, snapshots, nil))
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer func() { _ = system.Stop(ctx) }()

	period := 22 * time.Millisecond
	if err := actor.Tell(ctx, pid, NewTick(period)); err != nil {
		t.Fatalf("Tell() error: %v", err)
	}
	first := waitSnapshot(t, snapshots)
	if first.Tick != 0 {
		t.Errorf("first snapshot tick = %d; want 0", first.Tick)
	}
	if !slices.Equal(first.Sprites, initial) {
		t.Error("first snapshot should show the flock before any step")
	}

	if err := actor.Tell(ctx, pid, NewTick(period)); err != nil {
		t.Fatalf("Tell() error: %v", err)
	}
	second := waitSnapshot(t, snapshots)
	if second.Tick != 1 {
		t.Errorf("second snapshot tick = %d; want 1", second.Tick)
	}
	if !slices.Equal(second.Sprites, afterOne) {
		t.Error("second snapshot should match a flock stepped once")
	}
}

func TestWorldActor_DropsFramesWhenViewerIsBusy(t *testing.T) {
	ctx := context.Background()
	snapshots := make(chan Snapshot) // nobody reads
	w := NewWorldActor(newTestFlock(t), snapshots, nil)

	system, pid, err := Start(ctx, log.DiscardLogger, w)
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer func() { _ = system.Stop(ctx) }()

	for i := 0; i < 5; i++ {
		if err := actor.Tell(ctx, pid, NewTick(time.Millisecond)); err != nil {
			t.Fatalf("Tell() error: %v", err)
		}
	}
	// pushes never block, so the actor keeps stepping past dropped frames
	deadline := time.Now().Add(5 * time.Second)
	for {
		if err := actor.Tell(ctx, pid, NewTick(time.Millisecond)); err != nil {
			t.Fatalf("Tell() error: %v", err)
		}
		select {
		case snap := <-snapshots:
			if snap.Tick < 5 {
				continue
			}
			return
		case <-time.After(10 * time.Millisecond):
		}
		if time.Now().After(deadline) {
			t.Fatal("world actor stopped processing ticks")
		}
	}
}

func TestWorldActor_Records(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	snapshots := make(chan Snapshot, 8)
	system, pid, err := Start(ctx, log.DiscardLogger, NewWorldActor(newTestFlock(t), snapshots, record.NewRecorder(&buf)))
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer func() { _ = system.Stop(ctx) }()

	var sent []Snapshot
	for i := 0; i < 3; i++ {
		if err := actor.Tell(ctx, pid, NewTick(time.Millisecond)); err != nil {
			t.Fatalf("Tell() error: %v", err)
		}
		sent = append(sent, waitSnapshot(t, snapshots))
	}

	r := record.NewReader(bytes.NewReader(buf.Bytes()))
	for i, want := range sent {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if got.Tick != want.Tick || !slices.Equal(got.Sprites, want.Sprites) {
			t.Errorf("recorded frame %d differs from the pushed snapshot", i)
		}
	}
}
