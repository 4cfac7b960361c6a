package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the default runner configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Level: "level1",
		Field: FieldConfig{
			Width:   1280,
			Height:  720,
			GroundY: 675, // 15/16 of the height
		},
		Physics: PhysicsConfig{
			Gravity:      5000,
			JumpImpulse:  -1800,
			MaxFallSpeed: 2400,
			FrameRate:    60,
		},
		Player: PlayerConfig{
			X:      65,
			Width:  69,
			Height: 154,
		},
		Obstacles: ObstacleConfig{
			Width:         105,
			Height:        86,
			SpawnInterval: 750,
			SpawnJitter:   150,
		},
		Ramp: RampConfig{
			BaseSpeed:       8,
			Increment:       0.01,
			MaxSpeed:        0,
			ScoreIntervalMS: 100,
		},
		Characters: []CharacterEntry{
			{Key: "adam", Name: "Adam"},
			{Key: "eve", Name: "Eve"},
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}
