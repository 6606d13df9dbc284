// pkg/render/engo/scene.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-bumpers/pkg/config"
	"github.com/opd-ai/go-bumpers/pkg/engine"
	"github.com/opd-ai/go-bumpers/pkg/entity"
	"github.com/opd-ai/go-bumpers/pkg/logging"
)

// GameScene hosts the arena in an engo window
type GameScene struct {
	sim    *engine.Simulation
	logger *logging.Logger
	ctx    context.Context

	renderer *EngoRenderer
	camera   *CameraSystem
	input    *InputSystem
	hud      *HUDSystem
	stepper  *SimulationSystem
}

// NewGameScene creates a scene for sim
func NewGameScene(ctx context.Context, sim *engine.Simulation, logger *logging.Logger) *GameScene {
	if logger == nil {
		logger = logging.Discard()
	}
	return &GameScene{sim: sim, logger: logger, ctx: ctx}
}

// Type returns the scene type (required by Engo)
func (scene *GameScene) Type() string {
	return "GameScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *GameScene) Preload() {}

// Setup wires the systems into the engo world (required by Engo)
func (scene *GameScene) Setup(u engo.Updater) {
	world, ok := u.(*ecs.World)
	if !ok {
		panic("engo updater is not an *ecs.World")
	}
	display := scene.sim.Config.Display
	common.SetBackground(BackgroundColor)
	SetupInputBindings()

	renderSystem := &common.RenderSystem{}
	world.AddSystem(renderSystem)

	assets := NewAssetManager()
	if err := assets.LoadAssets(); err != nil {
		scene.logger.Error(scene.ctx, "failed to load assets", err)
	}

	scene.camera = NewCameraSystem(float64(engo.GameWidth()), float64(engo.GameHeight()), display.Zoom)
	scene.input = NewInputSystem(scene.camera)
	scene.hud = NewHUDSystem(renderSystem)
	scene.hud.SetDebug(display.Debug)
	if err := scene.hud.LoadFont(); err != nil {
		scene.logger.Error(scene.ctx, "HUD text disabled", err)
	}
	scene.renderer = NewEngoRenderer(renderSystem, scene.camera, assets)
	scene.stepper = NewSimulationSystem(scene.ctx, scene.sim, scene.input, scene.camera, scene.renderer, scene.hud)

	// Input is sampled before the step, the camera follows after it
	world.AddSystem(scene.input)
	world.AddSystem(scene.stepper)
	world.AddSystem(scene.camera)
	world.AddSystem(scene.hud)

	scene.sim.Start(scene.ctx)
}

// Exit stops the simulation when the window closes (required by Engo)
func (scene *GameScene) Exit() {
	scene.sim.Stop()
}

// SimulationSystem advances the simulation once per engo frame and mirrors
// the result onto the renderer.
type SimulationSystem struct {
	ctx      context.Context
	sim      *engine.Simulation
	input    interface{ Input() entity.ControlInput }
	camera   *CameraSystem
	renderer entity.Renderer
	hud      *HUDSystem

	debugSource interface{ TakeDebugToggle() bool }
	quitSource  interface{ QuitRequested() bool }
	exit        func()
}

// NewSimulationSystem creates the stepping system
func NewSimulationSystem(ctx context.Context, sim *engine.Simulation, input *InputSystem, camera *CameraSystem, renderer entity.Renderer, hud *HUDSystem) *SimulationSystem {
	return &SimulationSystem{
		ctx:         ctx,
		sim:         sim,
		input:       input,
		camera:      camera,
		renderer:    renderer,
		hud:         hud,
		debugSource: input,
		quitSource:  input,
		exit:        engo.Exit,
	}
}

// Remove satisfies the ecs.System interface
func (ss *SimulationSystem) Remove(basic ecs.BasicEntity) {}

// Update steps with the engo frame time. A zero-length frame only redraws.
// The window closes on the quit key or once ctx is cancelled.
func (ss *SimulationSystem) Update(dt float32) {
	if ss.ctx.Err() != nil || (ss.quitSource != nil && ss.quitSource.QuitRequested()) {
		ss.close()
		return
	}
	if ss.debugSource != nil && ss.debugSource.TakeDebugToggle() {
		ss.hud.ToggleDebug()
	}

	if dt > 0 {
		if err := ss.sim.Step(float64(dt), ss.input.Input()); err != nil {
			ss.sim.Logger.Error(ss.ctx, "frame skipped", err)
		}
	}

	state := ss.sim.Snapshot()
	ss.camera.SetTarget(state.Player.Position)
	ss.sim.Render(ss.renderer)
	ss.hud.UpdateState(state, state.KineticEnergy(), ss.camera.GetZoom())
}

func (ss *SimulationSystem) close() {
	if ss.exit != nil {
		ss.exit()
		return
	}
	engo.Exit()
}

// Run opens the engo window and blocks until it is closed
func Run(ctx context.Context, sim *engine.Simulation, logger *logging.Logger) {
	display := sim.Config.Display
	engo.Run(engo.RunOptions{
		Title:         "go-bumpers",
		Width:         display.Width,
		Height:        display.Height,
		Fullscreen:    display.Fullscreen,
		FPSLimit:      fpsLimit(sim.Config),
		ScaleOnResize: false,
	}, NewGameScene(ctx, sim, logger))
}

func fpsLimit(cfg *config.GameConfig) int {
	if cfg.Simulation.TickRate <= 0 {
		return 60
	}
	return cfg.Simulation.TickRate
}
