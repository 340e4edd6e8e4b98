// Command cder shows generated collision events in a terminal rendering of
// the calorimeters.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/cder-viz/cder/internal/config"
	"github.com/cder-viz/cder/internal/display"
	"github.com/cder-viz/cder/internal/event"
	"github.com/cder-viz/cder/internal/monitoring"
	"github.com/cder-viz/cder/internal/timeutil"
	"github.com/cder-viz/cder/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to JSON display config (default: search for "+config.DefaultConfigPath+")")
	logPath     = flag.String("log", "cder.log", "Log file; empty discards log output")
	numEvents   = flag.Int("events", 0, "Number of events to generate (0 uses event_count from the config)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func loadConfig() (*config.DisplayConfig, error) {
	if *configPath == "" {
		return config.MustLoadDefaultConfig(), nil
	}
	return config.LoadDisplayConfig(*configPath)
}

// setupLogging keeps log lines off the screen.
func setupLogging() (func(), error) {
	if *logPath == "" {
		monitoring.SetLogger(nil)
		return func() {}, nil
	}
	f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	monitoring.SetLogger(log.Printf)
	return func() { _ = f.Close() }, nil
}

// startInputReader forwards terminal events until the screen is finalised.
func startInputReader(screen tcell.Screen) <-chan tcell.Event {
	ch := make(chan tcell.Event, 64)
	go func() {
		defer close(ch)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}()
	return ch
}

func run(ctx context.Context, cfg *config.DisplayConfig, screen tcell.Screen) error {
	scene, err := display.NewSceneFromConfig(cfg)
	if err != nil {
		return err
	}

	gen, err := event.NewGenerator(display.GeneratorConfig(cfg))
	if err != nil {
		return err
	}
	n := cfg.GetEventCount()
	if *numEvents > 0 {
		n = *numEvents
	}
	events, err := gen.GenerateN(n)
	if err != nil {
		return err
	}

	history := event.NewHistory(events, cfg.GetEventSeed())
	v := newViewer(scene, history, screen)
	v.load(history.Next())

	input := startInputReader(screen)
	loop := display.Loop{Clock: timeutil.RealClock{}, Interval: cfg.GetFrameInterval()}
	return loop.Run(ctx, func(dt time.Duration) error {
		// Drain input without blocking the frame.
	drain:
		for {
			select {
			case ev, ok := <-input:
				if !ok {
					return display.ErrStop
				}
				if err := v.handle(ev); err != nil {
					return err
				}
			default:
				break drain
			}
		}
		v.frame(dt)
		return nil
	})
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	closeLog, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()
	log.Printf("cder %s starting", version.String())

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to initialise screen: %v", err)
	}
	screen.EnableMouse()
	screen.HideCursor()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg, screen)
	screen.Fini()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Viewer stopped: %v", err)
	}
}
