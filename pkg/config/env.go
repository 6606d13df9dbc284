package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "BUMPERS_"

// EnvFileVariable names an alternative dotenv file
const EnvFileVariable = EnvPrefix + "ENV_FILE"

// ApplyEnvironmentOverrides loads an optional dotenv file and then applies
// BUMPERS_* variables on top of config. Variables already set in the process
// environment win over the file.
func ApplyEnvironmentOverrides(config *GameConfig) error {
	envFile := getEnv(EnvFileVariable, ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	floats := []struct {
		key   string
		value *float64
	}{
		{"ARENA_X", &config.Arena.X},
		{"ARENA_Y", &config.Arena.Y},
		{"ARENA_WIDTH", &config.Arena.Width},
		{"ARENA_HEIGHT", &config.Arena.Height},
		{"PLAYER_ACCEL", &config.Player.Accel},
		{"PLAYER_BOOST_ACCEL", &config.Player.BoostAccel},
		{"PLAYER_RADIUS", &config.Player.Radius},
		{"PLAYER_RADIUS_PULSE", &config.Player.RadiusPulse},
		{"PLAYER_FRICTION", &config.Player.Friction},
		{"PLAYER_FRICTION_RATE", &config.Player.FrictionRate},
		{"BALL_SPEED", &config.Ball.Speed},
		{"BALL_RADIUS", &config.Ball.Radius},
		{"BALL_FRICTION", &config.Ball.Friction},
		{"BALL_FRICTION_RATE", &config.Ball.FrictionRate},
		{"MASS_OFFSET", &config.Physics.MassOffset},
		{"PLAYER_KICK", &config.Physics.PlayerKick},
		{"MAX_SUBSTEP", &config.Physics.MaxSubstep},
		{"MAX_SPEED", &config.Physics.MaxSpeed},
		{"ZOOM", &config.Display.Zoom},
	}
	for _, f := range floats {
		if err := getEnvFloat(EnvPrefix+f.key, f.value); err != nil {
			return err
		}
	}

	ints := []struct {
		key   string
		value *int
	}{
		{"BALL_COUNT", &config.Ball.Count},
		{"TICK_RATE", &config.Simulation.TickRate},
		{"BROADPHASE_THRESHOLD", &config.Simulation.BroadphaseThreshold},
		{"MAX_FRAMES", &config.Simulation.MaxFrames},
		{"WIDTH", &config.Display.Width},
		{"HEIGHT", &config.Display.Height},
	}
	for _, i := range ints {
		if err := getEnvInt(EnvPrefix+i.key, i.value); err != nil {
			return err
		}
	}

	if value := os.Getenv(EnvPrefix + "SEED"); value != "" {
		seed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %sSEED %q: %w", EnvPrefix, value, err)
		}
		config.Simulation.Seed = seed
	}
	if value := os.Getenv(EnvPrefix + "FULLSCREEN"); value != "" {
		fullscreen, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %sFULLSCREEN %q: %w", EnvPrefix, value, err)
		}
		config.Display.Fullscreen = fullscreen
	}

	config.Physics.Sweep = getEnv(EnvPrefix+"SWEEP", config.Physics.Sweep)
	config.Display.Renderer = getEnv(EnvPrefix+"RENDERER", config.Display.Renderer)
	config.Normalize()

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, target *float64) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*target = parsed
	return nil
}

func getEnvInt(key string, target *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*target = parsed
	return nil
}
