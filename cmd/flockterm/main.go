package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/lao-tseu-is-alive/go-buddy-flock/internal/term"
	"github.com/lao-tseu-is-alive/go-buddy-flock/internal/world"
	"github.com/lao-tseu-is-alive/go-buddy-flock/pkg/flock"
	golog "github.com/tochemey/goakt/v3/log"
)

const thrustToneHz = 220

func main() {
	configFile := flag.String("config", "", "flock config file (.json, .toml or .yaml)")
	logFile := flag.String("log", "flockterm.log", "log file, the terminal is busy drawing")
	mute := flag.Bool("mute", false, "disable the thrust sound")
	flag.Parse()

	if err := run(*configFile, *logFile, *mute); err != nil {
		fmt.Fprintf(os.Stderr, "flockterm: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, logFile string, mute bool) error {
	ctx := context.Background()

	cfg := flock.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = flock.LoadConfig(configFile); err != nil {
			return err
		}
	}

	out, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer out.Close()
	logger := golog.New(golog.InfoLevel, out)

	f, err := flock.New(cfg)
	if err != nil {
		return err
	}

	snapshotCh := make(chan world.Snapshot, 10)
	system, worldPID, err := world.Start(ctx, logger, world.NewWorldActor(f, snapshotCh, nil))
	if err != nil {
		return err
	}
	defer func() {
		if err := system.Stop(ctx); err != nil {
			log.Printf("failed to stop actor system: %v", err)
		}
	}()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	viewer := term.New(ctx, screen, cfg, worldPID, snapshotCh, f.Controls(), logger)
	if !mute {
		tone, err := initAudio()
		if err != nil {
			// non-fatal, the viewer runs silent
			logger.Warnf("audio initialization failed: %v", err)
		} else {
			defer speaker.Close()
			viewer.OnThrust = tone
		}
	}
	return viewer.Run()
}

// initAudio opens the speaker and returns a function playing a short engine
// tone.
func initAudio() (func(), error) {
	sampleRate := beep.SampleRate(44100)
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return func() {
		sine, err := generators.SineTone(sampleRate, thrustToneHz)
		if err != nil {
			return
		}
		speaker.Play(beep.Take(sampleRate.N(80*time.Millisecond), sine))
	}, nil
}
