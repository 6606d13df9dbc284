// cmd/bumpers/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/opd-ai/go-bumpers/pkg/config"
	"github.com/opd-ai/go-bumpers/pkg/engine"
	"github.com/opd-ai/go-bumpers/pkg/entity"
	"github.com/opd-ai/go-bumpers/pkg/event"
	"github.com/opd-ai/go-bumpers/pkg/health"
	"github.com/opd-ai/go-bumpers/pkg/logging"
	"github.com/opd-ai/go-bumpers/pkg/render"
	ebitenrender "github.com/opd-ai/go-bumpers/pkg/render/ebiten"
	engorender "github.com/opd-ai/go-bumpers/pkg/render/engo"
)

// Terminal frame size in cells
const (
	terminalColumns = 100
	terminalRows    = 32
)

// defaultHeadlessFrames is used when a headless run sets no frame limit
const defaultHeadlessFrames = 600

func main() {
	logger := logging.NewLogger()
	ctx := logging.WithRunID(context.Background(), "")

	configPath := flag.String("config", "bumpers.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	preset := flag.String("preset", "", "Arena preset: "+strings.Join(config.ListArenaPresets(), ", "))
	renderer := flag.String("renderer", "", "Renderer: engo, ebiten, terminal or headless (overrides config)")
	width := flag.Int("width", 0, "Window width (overrides config)")
	height := flag.Int("height", 0, "Window height (overrides config)")
	fullscreen := flag.Bool("fullscreen", false, "Run in fullscreen mode (window renderers only)")
	seed := flag.Uint64("seed", 0, "Random seed for ball spawns (overrides config)")
	frames := flag.Int("frames", 0, "Stop after this many frames (overrides config)")
	debug := flag.Bool("debug", false, "Start with the debug overlay shown")
	flag.Parse()

	// Create default configuration file if requested
	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	gameConfig, err := loadConfig(ctx, logger, *configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err,
			"config_path", *configPath,
		)
		os.Exit(1)
	}

	// Apply environment variable overrides
	if err := config.ApplyEnvironmentOverrides(gameConfig); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		os.Exit(1)
	}

	// Command line flags win over file and environment
	if *preset != "" {
		p := config.GetArenaPreset(*preset)
		if p == nil {
			logger.Error(ctx, "Unknown arena preset", nil,
				"preset", *preset,
				"available", strings.Join(config.ListArenaPresets(), ","),
			)
			os.Exit(1)
		}
		p.Apply(gameConfig)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "renderer":
			gameConfig.Display.Renderer = strings.ToLower(*renderer)
		case "width":
			gameConfig.Display.Width = *width
		case "height":
			gameConfig.Display.Height = *height
		case "fullscreen":
			gameConfig.Display.Fullscreen = *fullscreen
		case "seed":
			gameConfig.Simulation.Seed = *seed
		case "frames":
			gameConfig.Simulation.MaxFrames = *frames
		case "debug":
			gameConfig.Display.Debug = *debug
		}
	})

	seedValue := gameConfig.Simulation.Seed
	sim, err := engine.NewSimulation(gameConfig, rand.New(rand.NewPCG(seedValue, seedValue)))
	if err != nil {
		logger.Error(ctx, "Failed to create simulation", err)
		os.Exit(1)
	}
	sim.Logger = logger

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting bumpers",
		"renderer", gameConfig.Display.Renderer,
		"balls", gameConfig.Ball.Count,
		"seed", seedValue,
	)

	if err := run(ctx, sim, logger); err != nil {
		logger.Error(ctx, "Simulation failed", err)
		os.Exit(1)
	}
}

// loadConfig reads path, falling back to defaults when it does not exist
func loadConfig(ctx context.Context, logger *logging.Logger, path string) (*config.GameConfig, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", path,
		)
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(path)
}

func run(ctx context.Context, sim *engine.Simulation, logger *logging.Logger) error {
	switch sim.Config.Display.Renderer {
	case config.RendererEngo:
		engorender.Run(ctx, sim, logger)
		return nil
	case config.RendererEbiten:
		return ebitenrender.Run(ctx, sim, logger)
	case config.RendererTerminal:
		return runTerminal(ctx, sim)
	case config.RendererHeadless:
		return runHeadless(ctx, sim, logger)
	default:
		return fmt.Errorf("unknown renderer %q", sim.Config.Display.Renderer)
	}
}

// runTerminal draws to stdout in real time with a scripted pilot
func runTerminal(ctx context.Context, sim *engine.Simulation) error {
	terminal := render.NewTerminalRenderer(terminalColumns, terminalRows, sim.Arena)
	scripted := engine.DefaultScriptedInput()
	input := engine.InputFunc(func(state engine.State) entity.ControlInput {
		terminal.SetStatus(fmt.Sprintf("tick %d  t %.1fs  energy %.0f  (ctrl-c to quit)",
			state.Tick, state.Elapsed, state.KineticEnergy()))
		return scripted.Input(state)
	})

	runner := engine.NewRunner(sim, terminal, input)
	if err := runner.Run(ctx); err != nil {
		return err
	}
	return terminal.Err()
}

// runHeadless steps a fixed number of frames as fast as possible and logs a summary
func runHeadless(ctx context.Context, sim *engine.Simulation, logger *logging.Logger) error {
	var walls, playerContacts, ballContacts atomic.Int64
	subs := []*event.Subscription{
		sim.EventBus.Subscribe(event.WallBounce, func(event.Event) { walls.Add(1) }),
		sim.EventBus.Subscribe(event.PlayerContact, func(event.Event) { playerContacts.Add(1) }),
		sim.EventBus.Subscribe(event.BallContact, func(event.Event) { ballContacts.Add(1) }),
	}
	defer func() {
		for _, sub := range subs {
			sub.Cancel()
		}
	}()

	frames := sim.Config.Simulation.MaxFrames
	if frames <= 0 {
		frames = defaultHeadlessFrames
	}
	tickRate := sim.Config.Simulation.TickRate
	if tickRate <= 0 {
		tickRate = 60
	}

	runner := engine.NewRunner(sim, render.NewNullRenderer(logger), engine.DefaultScriptedInput())
	err := runner.RunFixed(ctx, frames, 1/float64(tickRate))
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	state := sim.Snapshot()
	logger.Info(ctx, "Headless run finished",
		"frames", runner.Frames(),
		"elapsed", state.Elapsed,
		"energy", state.KineticEnergy(),
		"wall_bounces", walls.Load(),
		"player_contacts", playerContacts.Load(),
		"ball_contacts", ballContacts.Load(),
	)
	if err != nil {
		return err
	}

	status := health.NewDefaultChecker(sim.Config.Physics.MaxSpeed).CheckHealth(ctx, state)
	if !status.Healthy() {
		return status.Err()
	}
	logger.Info(ctx, "Invariant checks passed", "checks", len(status.Checks))
	return nil
}
