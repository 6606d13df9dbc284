// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/opd-ai/go-bumpers/pkg/entity"
	"github.com/opd-ai/go-bumpers/pkg/physics"
)

// Ball-ball sweep modes
const (
	// SweepUnique visits every unordered pair exactly once
	SweepUnique = "unique"
	// SweepLegacy reproduces the i in [0,n), j in [1,n) sweep
	SweepLegacy = "legacy"
)

// Renderer names accepted by the display section
const (
	RendererEngo     = "engo"
	RendererEbiten   = "ebiten"
	RendererTerminal = "terminal"
	RendererHeadless = "headless"
)

// GameConfig contains configuration for a bumpers simulation
type GameConfig struct {
	Arena      ArenaConfig      `json:"arena"`
	Player     PlayerConfig     `json:"player"`
	Ball       BallConfig       `json:"ball"`
	Physics    PhysicsConfig    `json:"physics"`
	Simulation SimulationConfig `json:"simulation"`
	Display    DisplayConfig    `json:"display"`
}

// ArenaConfig is the playfield rectangle in world units
type ArenaConfig struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PlayerConfig contains player tuning
type PlayerConfig struct {
	Accel        float64 `json:"accel"`
	BoostAccel   float64 `json:"boostAccel"`
	Radius       float64 `json:"radius"`
	RadiusPulse  float64 `json:"radiusPulse"`
	Friction     float64 `json:"friction"`
	FrictionRate float64 `json:"frictionRate"`
	ControlCap   float64 `json:"controlCap"`
}

// BallConfig contains ball tuning
type BallConfig struct {
	Count        int     `json:"count"`
	Speed        float64 `json:"speed"`
	Radius       float64 `json:"radius"`
	Friction     float64 `json:"friction"`
	FrictionRate float64 `json:"frictionRate"`
}

// PhysicsConfig contains collision response constants
type PhysicsConfig struct {
	MassOffset float64 `json:"massOffset"`
	PlayerKick float64 `json:"playerKick"`
	Sweep      string  `json:"sweep"`
	// MaxSubstep splits long frames into equal substeps; 0 disables
	MaxSubstep float64 `json:"maxSubstep"`
	// MaxSpeed caps body speed after each step; 0 disables
	MaxSpeed float64 `json:"maxSpeed"`
}

// SimulationConfig contains frame loop settings
type SimulationConfig struct {
	TickRate            int    `json:"tickRate"`
	BroadphaseThreshold int    `json:"broadphaseThreshold"`
	Seed                uint64 `json:"seed"`
	MaxFrames           int    `json:"maxFrames"`
}

// DisplayConfig contains presentation settings
type DisplayConfig struct {
	Renderer   string  `json:"renderer"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Zoom       float64 `json:"zoom"`
	Fullscreen bool    `json:"fullscreen"`
	Debug      bool    `json:"debug"`
}

// LoadConfig loads a configuration from a file.
// Fields missing from the file keep their default values.
func LoadConfig(path string) (*GameConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	config.Normalize()

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *GameConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the stock bumpers configuration
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Arena: ArenaConfig{
			X:      0,
			Y:      0,
			Width:  1500,
			Height: 1000,
		},
		Player: PlayerConfig{
			Accel:        entity.PlayerAccel,
			BoostAccel:   entity.PlayerBoostAccel,
			Radius:       entity.PlayerRadius,
			RadiusPulse:  entity.PlayerRadiusPulse,
			Friction:     entity.PlayerFriction,
			FrictionRate: entity.PlayerFrictionRate,
			ControlCap:   entity.PlayerControlCap,
		},
		Ball: BallConfig{
			Count:        entity.BallCount,
			Speed:        entity.BallSpeed,
			Radius:       entity.BallRadius,
			Friction:     entity.BallFriction,
			FrictionRate: entity.BallFrictionRate,
		},
		Physics: PhysicsConfig{
			MassOffset: entity.MassOffset,
			PlayerKick: entity.PlayerKick,
			Sweep:      SweepUnique,
		},
		Simulation: SimulationConfig{
			TickRate:            60,
			BroadphaseThreshold: 32,
			Seed:                1,
		},
		Display: DisplayConfig{
			Renderer: RendererEngo,
			Width:    1280,
			Height:   720,
			Zoom:     1000,
		},
	}
}

// Normalize folds the enumerated string fields to their canonical lower-case form
func (c *GameConfig) Normalize() {
	c.Physics.Sweep = strings.ToLower(strings.TrimSpace(c.Physics.Sweep))
	c.Display.Renderer = strings.ToLower(strings.TrimSpace(c.Display.Renderer))
}

// ArenaBound converts the arena section into a physics bound
func (c *GameConfig) ArenaBound() (physics.Bound, error) {
	return physics.NewBound(c.Arena.X, c.Arena.Y, c.Arena.Width, c.Arena.Height)
}

// PlayerParams converts the player section into entity tuning
func (c *GameConfig) PlayerParams() entity.PlayerParams {
	return entity.PlayerParams{
		Accel:        c.Player.Accel,
		BoostAccel:   c.Player.BoostAccel,
		Radius:       c.Player.Radius,
		RadiusPulse:  c.Player.RadiusPulse,
		Friction:     c.Player.Friction,
		FrictionRate: c.Player.FrictionRate,
		ControlCap:   c.Player.ControlCap,
	}
}

// BallParams converts the ball and physics sections into entity tuning
func (c *GameConfig) BallParams() entity.BallParams {
	return entity.BallParams{
		Speed:        c.Ball.Speed,
		Radius:       c.Ball.Radius,
		Friction:     c.Ball.Friction,
		FrictionRate: c.Ball.FrictionRate,
		MassOffset:   c.Physics.MassOffset,
		PlayerKick:   c.Physics.PlayerKick,
	}
}
