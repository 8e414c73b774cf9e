package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-buddy-flock/internal/game"
	"github.com/lao-tseu-is-alive/go-buddy-flock/internal/record"
	"github.com/lao-tseu-is-alive/go-buddy-flock/internal/world"
	"github.com/lao-tseu-is-alive/go-buddy-flock/pkg/flock"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	configFile := flag.String("config", "", "flock config file (.json, .toml or .yaml)")
	steps := flag.Int("steps", 0, "run headless for this many ticks instead of opening a window")
	out := flag.String("out", "", "record every frame to this file")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := golog.InfoLevel
	if *verbose {
		level = golog.DebugLevel
	}
	logger := golog.New(level, os.Stdout)

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatal(err)
	}

	if *steps > 0 {
		err = runHeadless(cfg, *steps, *out, logger)
	} else {
		err = runWindow(cfg, *out, logger)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func loadConfig(path string) (*flock.Config, error) {
	if path == "" {
		return flock.DefaultConfig(), nil
	}
	return flock.LoadConfig(path)
}

// runHeadless steps the flock directly, recording the frame rendered before
// each step.
func runHeadless(cfg *flock.Config, steps int, out string, logger golog.Logger) error {
	if out == "" {
		return errors.New("headless mode needs -out")
	}
	f, err := flock.New(cfg)
	if err != nil {
		return err
	}

	rec, closeRec, err := openRecorder(out)
	if err != nil {
		return err
	}
	for i := 0; i < steps; i++ {
		if err := rec.Record(f.Tick(), f.RenderData()); err != nil {
			_ = closeRec()
			return err
		}
		f.Step()
	}
	if err := closeRec(); err != nil {
		return err
	}
	logger.Infof("recorded %d frames of %d agents to %s", rec.Frames(), f.Len(), out)
	return nil
}

func runWindow(cfg *flock.Config, out string, logger golog.Logger) error {
	ctx := context.Background()

	f, err := flock.New(cfg)
	if err != nil {
		return err
	}

	var rec *record.Recorder
	closeRec := func() error { return nil }
	if out != "" {
		if rec, closeRec, err = openRecorder(out); err != nil {
			return err
		}
	}

	snapshotCh := make(chan world.Snapshot, 10)
	system, worldPID, err := world.Start(ctx, logger, world.NewWorldActor(f, snapshotCh, rec))
	if err != nil {
		_ = closeRec()
		return err
	}

	ebiten.SetWindowSize(int(cfg.WorldWidth)*2, int(cfg.WorldHeight)*2)
	ebiten.SetWindowTitle("Buddies (W: thrust, A/D: turn, Space: pause)")
	ebiten.SetTPS(max(1, int(math.Round(cfg.TickRate))))

	runErr := ebiten.RunGame(game.New(ctx, cfg, worldPID, snapshotCh, f.Controls()))

	// the world actor is the only recorder writer, stop it before flushing
	if err := system.Stop(ctx); err != nil {
		logger.Errorf("failed to stop actor system: %v", err)
	}
	return errors.Join(runErr, closeRec())
}

// openRecorder creates path and returns a buffered recorder on it together
// with the function that flushes and closes it.
func openRecorder(path string) (*record.Recorder, func() error, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create recording: %w", err)
	}
	w := bufio.NewWriter(file)
	closeFn := func() error {
		return errors.Join(w.Flush(), file.Close())
	}
	return record.NewRecorder(w), closeFn, nil
}
