package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalidLevel is wrapped by every level validation failure
var ErrInvalidLevel = errors.New("level validation")

// ValidateLevelConfig checks a level for correctness and playability
func ValidateLevelConfig(config *LevelConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config cannot be nil", ErrInvalidLevel)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidLevel)
	}

	grid, err := NewGrid(config.Layout)
	if err != nil {
		return err
	}

	if grid.Width() < MinGridSize || grid.Width() > MaxGridSize ||
		grid.Height() < MinGridSize || grid.Height() > MaxGridSize {
		return fmt.Errorf("%w: grid must be between %dx%d and %dx%d, got %dx%d",
			ErrInvalidLevel, MinGridSize, MinGridSize, MaxGridSize, MaxGridSize, grid.Width(), grid.Height())
	}

	if !grid.Sealed() {
		return fmt.Errorf("%w: the outer ring of the layout must be walls", ErrInvalidLevel)
	}

	places := []struct {
		name string
		cell Cell
	}{
		{"spawn", config.Spawn},
		{"threat", config.Threat},
		{"exit", config.Exit},
	}
	for _, p := range places {
		if !grid.Contains(p.cell) {
			return fmt.Errorf("%w: %s %s is outside the %dx%d grid",
				ErrInvalidLevel, p.name, p.cell, grid.Width(), grid.Height())
		}
		if grid.IsWall(p.cell) {
			return fmt.Errorf("%w: %s %s is a wall", ErrInvalidLevel, p.name, p.cell)
		}
	}

	if config.Spawn == config.Threat || config.Spawn == config.Exit {
		return fmt.Errorf("%w: spawn must differ from threat and exit", ErrInvalidLevel)
	}
	if config.Threat == config.Exit {
		return fmt.Errorf("%w: threat and exit cannot share cell %s", ErrInvalidLevel, config.Exit)
	}

	if !config.SpawnOrientation.Valid() {
		return fmt.Errorf("%w: spawn_orientation %d is not a facing", ErrInvalidLevel, int(config.SpawnOrientation))
	}

	if config.TurnIntervalMS < 0 {
		return fmt.Errorf("%w: turn_interval_ms cannot be negative, got %d", ErrInvalidLevel, config.TurnIntervalMS)
	}

	for kind, cue := range config.Sounds.Cues {
		if !knownCue(kind) {
			return fmt.Errorf("%w: unknown cue %q", ErrInvalidLevel, kind)
		}
		if cue.DurationMS < 0 {
			return fmt.Errorf("%w: cue %q duration_ms cannot be negative", ErrInvalidLevel, kind)
		}
	}
	for id, amb := range config.Sounds.Ambient {
		if id != LandmarkThreat && id != LandmarkExit {
			return fmt.Errorf("%w: unknown ambient landmark %q", ErrInvalidLevel, id)
		}
		if amb.Volume < 0 || amb.Volume > 1 {
			return fmt.Errorf("%w: ambient %q volume must be between 0 and 1, got %g", ErrInvalidLevel, id, amb.Volume)
		}
	}

	return nil
}

func knownCue(kind CueKind) bool {
	for _, k := range CueKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ParseLevelConfig decodes and validates a level from JSON
func ParseLevelConfig(data []byte) (*LevelConfig, error) {
	var config LevelConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse level: %w", err)
	}

	if err := ValidateLevelConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadLevelConfig loads a level from a JSON file
func LoadLevelConfig(filename string) (*LevelConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config, err := ParseLevelConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid level '%s': %w", filename, err)
	}

	return config, nil
}
