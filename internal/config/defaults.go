package config

import (
	_ "embed"
)

//go:embed defaults/qdrive.yaml
var defaultYAML []byte

// Default returns the built-in configuration. It matches defaults/qdrive.yaml.
func Default() Config {
	return Config{
		World: WorldConfig{
			Width:         600,
			Height:        400,
			CarSize:       20,
			ObstacleSize:  30,
			ObstacleCount: 5,
			CarStep:       5,
			FallSpeed:     2,
		},
		Learning: LearningConfig{
			Alpha:        0.3,
			Gamma:        0.95,
			Epsilon:      0.8,
			EpsilonDecay: 0.7,
			MinEpsilon:   0.01,
		},
		Discretizer: DiscretizerConfig{
			Slots: 3,
			Order: OrderFirst,
		},
		Training: TrainingConfig{
			Episodes: 10,
			MaxSteps: 0,
		},
		Playback: PlaybackConfig{
			FPS:     30,
			History: 8,
		},
	}
}
