// Package config provides YAML-based configuration loading for qdrive:
// world geometry, learning hyperparameters, discretization, training and playback.
package config

// Config contains all configuration for a training + playback run.
type Config struct {
	World       WorldConfig       `yaml:"world"`
	Learning    LearningConfig    `yaml:"learning"`
	Discretizer DiscretizerConfig `yaml:"discretizer"`
	Training    TrainingConfig    `yaml:"training"`
	Playback    PlaybackConfig    `yaml:"playback"`
}

// WorldConfig defines the simulated world in world units.
type WorldConfig struct {
	Width         int `yaml:"width"`
	Height        int `yaml:"height"`
	CarSize       int `yaml:"car_size"`
	ObstacleSize  int `yaml:"obstacle_size"`
	ObstacleCount int `yaml:"obstacle_count"`
	CarStep       int `yaml:"car_step"`   // Horizontal move per LEFT/RIGHT step
	FallSpeed     int `yaml:"fall_speed"` // Obstacle y advance per tick
}

// LearningConfig defines the Q-learning hyperparameters.
type LearningConfig struct {
	Alpha        float64 `yaml:"alpha"`         // Learning rate
	Gamma        float64 `yaml:"gamma"`         // Discount factor
	Epsilon      float64 `yaml:"epsilon"`       // Initial exploration rate
	EpsilonDecay float64 `yaml:"epsilon_decay"` // Multiplier applied after each episode
	MinEpsilon   float64 `yaml:"min_epsilon"`
}

// DiscretizerConfig defines how world state is bucketed into table keys.
type DiscretizerConfig struct {
	Slots int    `yaml:"slots"` // Obstacles encoded per state (1..3)
	Order string `yaml:"order"` // "first" or "nearest"
}

// Discretizer orders.
const (
	OrderFirst   = "first"
	OrderNearest = "nearest"
)

// TrainingConfig defines the training run.
type TrainingConfig struct {
	Episodes int `yaml:"episodes"`
	MaxSteps int `yaml:"max_steps"` // 0 = episodes end only on collision
}

// PlaybackConfig defines the playback display.
type PlaybackConfig struct {
	FPS     int `yaml:"fps"`
	History int `yaml:"history"` // Survival times kept on screen
}
