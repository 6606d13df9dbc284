package config

import "sort"

// ArenaPreset is a named arena layout that can be applied to a config
type ArenaPreset struct {
	Name        string
	Description string
	Arena       ArenaConfig
	BallCount   int
	BallRadius  float64
}

var arenaPresets = map[string]ArenaPreset{
	"classic": {
		Name:        "Classic",
		Description: "Two balls in a 1500x1000 arena",
		Arena:       ArenaConfig{Width: 1500, Height: 1000},
		BallCount:   2,
		BallRadius:  35,
	},
	"crowded": {
		Name:        "Crowded",
		Description: "Forty balls, enough to engage the quadtree broadphase",
		Arena:       ArenaConfig{Width: 2400, Height: 1600},
		BallCount:   40,
		BallRadius:  35,
	},
	"tiny": {
		Name:        "Tiny",
		Description: "A cramped box with four small balls",
		Arena:       ArenaConfig{Width: 600, Height: 400},
		BallCount:   4,
		BallRadius:  20,
	},
}

// GetArenaPreset returns the preset registered under key, or nil
func GetArenaPreset(key string) *ArenaPreset {
	preset, ok := arenaPresets[key]
	if !ok {
		return nil
	}
	return &preset
}

// ListArenaPresets returns the preset keys in sorted order
func ListArenaPresets() []string {
	keys := make([]string, 0, len(arenaPresets))
	for key := range arenaPresets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Apply copies the preset's arena and ball layout onto config
func (p *ArenaPreset) Apply(config *GameConfig) {
	config.Arena = p.Arena
	config.Ball.Count = p.BallCount
	config.Ball.Radius = p.BallRadius
}
