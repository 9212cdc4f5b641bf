package config

import "fmt"

// MaxSlots is the largest number of obstacles a discrete state can encode.
const MaxSlots = 3

// ValidationError describes one invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Field, e.Message)
}

// Validate checks the configuration and returns the first problem found.
func (c Config) Validate() error {
	checks := []func() error{
		c.validateWorld,
		c.validateLearning,
		c.validateDiscretizer,
		c.validateRun,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) validateWorld() error {
	w := c.World
	positive := []struct {
		field string
		value int
	}{
		{"world.width", w.Width},
		{"world.height", w.Height},
		{"world.car_size", w.CarSize},
		{"world.obstacle_size", w.ObstacleSize},
		{"world.obstacle_count", w.ObstacleCount},
		{"world.car_step", w.CarStep},
		{"world.fall_speed", w.FallSpeed},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return ValidationError{Field: p.field, Message: fmt.Sprintf("must be positive, got %d", p.value)}
		}
	}
	if w.CarSize >= w.Width || w.ObstacleSize >= w.Width {
		return ValidationError{Field: "world.width", Message: "must be larger than car and obstacle sizes"}
	}
	if 2*w.CarSize >= w.Height {
		return ValidationError{Field: "world.height", Message: "must leave room for the car row"}
	}
	return nil
}

func (c Config) validateLearning() error {
	l := c.Learning
	unit := []struct {
		field string
		value float64
	}{
		{"learning.alpha", l.Alpha},
		{"learning.gamma", l.Gamma},
		{"learning.epsilon", l.Epsilon},
		{"learning.epsilon_decay", l.EpsilonDecay},
		{"learning.min_epsilon", l.MinEpsilon},
	}
	for _, u := range unit {
		if u.value < 0 || u.value > 1 {
			return ValidationError{Field: u.field, Message: fmt.Sprintf("must be within [0, 1], got %g", u.value)}
		}
	}
	if l.MinEpsilon > l.Epsilon {
		return ValidationError{Field: "learning.min_epsilon", Message: "must not exceed learning.epsilon"}
	}
	return nil
}

func (c Config) validateDiscretizer() error {
	d := c.Discretizer
	if d.Slots < 1 || d.Slots > MaxSlots {
		return ValidationError{Field: "discretizer.slots", Message: fmt.Sprintf("must be within [1, %d], got %d", MaxSlots, d.Slots)}
	}
	switch d.Order {
	case OrderFirst, OrderNearest:
	default:
		return ValidationError{Field: "discretizer.order", Message: fmt.Sprintf("unknown order %q", d.Order)}
	}
	return nil
}

func (c Config) validateRun() error {
	if c.Training.Episodes < 0 {
		return ValidationError{Field: "training.episodes", Message: "must not be negative"}
	}
	if c.Training.MaxSteps < 0 {
		return ValidationError{Field: "training.max_steps", Message: "must not be negative"}
	}
	if c.Playback.FPS <= 0 {
		return ValidationError{Field: "playback.fps", Message: "must be positive"}
	}
	if c.Playback.History < 0 {
		return ValidationError{Field: "playback.history", Message: "must not be negative"}
	}
	return nil
}
