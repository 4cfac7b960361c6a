// Package config provides YAML-based game configuration loading,
// environment settings and the speed ramp for the runner.
package config

import (
	"errors"
	"fmt"
	"time"
)

// RunnerConfig contains all configuration for the runner.
type RunnerConfig struct {
	Level      string           `yaml:"level"`
	Field      FieldConfig      `yaml:"field"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Player     PlayerConfig     `yaml:"player"`
	Obstacles  ObstacleConfig   `yaml:"obstacles"`
	Ramp       RampConfig       `yaml:"ramp"`
	Characters []CharacterEntry `yaml:"characters"`
}

// FieldConfig defines the play field in world units.
type FieldConfig struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	GroundY float64 `yaml:"ground_y"`
}

// PhysicsConfig defines the player's vertical physics.
type PhysicsConfig struct {
	Gravity      float64 `yaml:"gravity"`
	JumpImpulse  float64 `yaml:"jump_impulse"`
	MaxFallSpeed float64 `yaml:"max_fall_speed"`
	FrameRate    int     `yaml:"frame_rate"`
}

// PlayerConfig defines the player's hitbox.
type PlayerConfig struct {
	X      float64 `yaml:"x"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ObstacleConfig defines obstacle size and spawn cadence.
type ObstacleConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	SpawnInterval int     `yaml:"spawn_interval"`
	SpawnJitter   int     `yaml:"spawn_jitter"`
}

// RampConfig defines the linear speed ramp and the scoring cadence.
type RampConfig struct {
	BaseSpeed       float64 `yaml:"base_speed"`
	Increment       float64 `yaml:"increment"`
	MaxSpeed        float64 `yaml:"max_speed"` // 0 = uncapped
	ScoreIntervalMS int     `yaml:"score_interval_ms"`
}

// CharacterEntry is a selectable player character.
type CharacterEntry struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

// FrameDuration returns the duration of one reference frame.
func (p PhysicsConfig) FrameDuration() time.Duration {
	if p.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(p.FrameRate)
}

// ScoreInterval returns the wall-clock period of the score tick.
func (r RampConfig) ScoreInterval() time.Duration {
	if r.ScoreIntervalMS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(r.ScoreIntervalMS) * time.Millisecond
}

// Character looks up a character by key.
func (c RunnerConfig) Character(key string) (CharacterEntry, bool) {
	for _, ch := range c.Characters {
		if ch.Key == key {
			return ch, true
		}
	}
	return CharacterEntry{}, false
}

// Validate checks that the configuration describes a playable field.
func (c RunnerConfig) Validate() error {
	var errs []error

	if c.Field.Width <= 0 || c.Field.Height <= 0 {
		errs = append(errs, errors.New("field width and height must be positive"))
	}
	if c.Field.GroundY <= 0 || c.Field.GroundY > c.Field.Height {
		errs = append(errs, fmt.Errorf("ground_y %v must be within (0, %v]", c.Field.GroundY, c.Field.Height))
	}
	if c.Physics.Gravity <= 0 {
		errs = append(errs, errors.New("gravity must be positive"))
	}
	if c.Physics.JumpImpulse >= 0 {
		errs = append(errs, errors.New("jump_impulse must be negative (upward)"))
	}
	if c.Player.Width <= 0 || c.Player.Height <= 0 {
		errs = append(errs, errors.New("player width and height must be positive"))
	}
	if c.Obstacles.Width <= 0 || c.Obstacles.Height <= 0 {
		errs = append(errs, errors.New("obstacle width and height must be positive"))
	}
	if c.Obstacles.SpawnInterval <= 0 {
		errs = append(errs, errors.New("spawn_interval must be positive"))
	}
	if c.Obstacles.SpawnJitter < 0 {
		errs = append(errs, errors.New("spawn_jitter must not be negative"))
	}
	if c.Ramp.BaseSpeed <= 0 {
		errs = append(errs, errors.New("base_speed must be positive"))
	}
	if c.Ramp.Increment < 0 {
		errs = append(errs, errors.New("increment must not be negative"))
	}
	if len(c.Characters) == 0 {
		errs = append(errs, errors.New("at least one character is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid runner config: %w", errors.Join(errs...))
	}
	return nil
}
